// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/clintmod/macprefs/internal/output"
)

// FlagValidatorType checks one flag value.
type FlagValidatorType func(any) error

// FlagValidators runs validators in order and returns the first error.
func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// OutputValidator accepts the formats output.Emit knows.
func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// NonEmptyValidator rejects empty strings.
func NonEmptyValidator(value any) error {
	if s, _ := value.(string); s == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}
