// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/clintmod/macprefs/internal/log"
)

// Options tune the rendered diff.
type Options struct {
	// Color turns on ANSI coloring of added and removed lines.
	Color bool
	// Ignore lists top level object keys left out of the comparison.
	Ignore []string
}

// ErrNotJSON is returned when either side does not parse as JSON. VS Code
// accepts comments and trailing commas that plain JSON does not.
var ErrNotJSON = errors.New("not valid JSON")

// DiffJSON compares left and right and writes an ascii diff of left against
// right to w when they differ. It reports whether they differ.
func DiffJSON(left, right []byte, w io.Writer, opts Options) (bool, error) {
	var l, r interface{}
	if err := json.Unmarshal(left, &l); err != nil {
		return false, fmt.Errorf("left side: %w: %v", ErrNotJSON, err)
	}
	if err := json.Unmarshal(right, &r); err != nil {
		return false, fmt.Errorf("right side: %w: %v", ErrNotJSON, err)
	}

	l = dropKeys(l, opts.Ignore)
	r = dropKeys(r, opts.Ignore)

	d := gojsondiff.New()
	var delta gojsondiff.Diff

	lo, lok := l.(map[string]interface{})
	ro, rok := r.(map[string]interface{})
	la, laok := l.([]interface{})
	ra, raok := r.([]interface{})

	switch {
	case lok && rok:
		delta = d.CompareObjects(lo, ro)
	case laok && raok:
		delta = d.CompareArrays(la, ra)
	default:
		return false, fmt.Errorf("cannot compare a %T with a %T", l, r)
	}

	if !delta.Modified() {
		return false, nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       opts.Color,
	}
	out, err := formatter.NewAsciiFormatter(l, config).Format(delta)
	if err != nil {
		return true, fmt.Errorf("failed to format diff: %w", err)
	}
	fmt.Fprint(w, out)
	return true, nil
}

// Status is the outcome of comparing one backed up file with the live one.
type Status int

const (
	Same Status = iota
	Differs
	BackupOnly
	LiveOnly
	Missing
)

func (s Status) String() string {
	switch s {
	case Same:
		return "same"
	case Differs:
		return "differs"
	case BackupOnly:
		return "only in backup"
	case LiveOnly:
		return "only on this machine"
	default:
		return "missing"
	}
}

// DiffFiles compares the JSON files at backupPath and livePath. The diff is
// written to w with the backup as the left side, so "+" lines are changes
// made on this machine since the backup.
func DiffFiles(backupPath, livePath string, w io.Writer, opts Options) (Status, error) {
	b, berr := os.ReadFile(backupPath)
	l, lerr := os.ReadFile(livePath)

	switch {
	case berr != nil && !errors.Is(berr, fs.ErrNotExist):
		return Missing, fmt.Errorf("failed to read %s: %w", backupPath, berr)
	case lerr != nil && !errors.Is(lerr, fs.ErrNotExist):
		return Missing, fmt.Errorf("failed to read %s: %w", livePath, lerr)
	case berr != nil && lerr != nil:
		return Missing, nil
	case berr != nil:
		return LiveOnly, nil
	case lerr != nil:
		return BackupOnly, nil
	}

	log.Debugf("diffing %s against %s", backupPath, livePath)
	changed, err := DiffJSON(b, l, w, opts)
	if err != nil {
		return Missing, err
	}
	if changed {
		return Differs, nil
	}
	return Same, nil
}

func dropKeys(v interface{}, keys []string) interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	for _, k := range keys {
		if k != "" {
			delete(obj, k)
		}
	}
	return obj
}
