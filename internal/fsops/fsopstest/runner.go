// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fsopstest provides a recording fsops.Runner for tests.
package fsopstest

import (
	"context"
	"strings"
	"sync"
)

// Recorder records every command it is asked to run. Outputs and Errors are
// keyed by the full command line ("brew bundle dump ...") or by the bare
// command name; the full line wins.
type Recorder struct {
	mu      sync.Mutex
	Calls   []string
	Outputs map[string]string
	Errors  map[string]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Outputs: map[string]string{}, Errors: map[string]error{}}
}

// Run implements fsops.Runner.
func (r *Recorder) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, line)

	if err, ok := r.Errors[line]; ok {
		return nil, err
	}
	if err, ok := r.Errors[name]; ok {
		return nil, err
	}
	if out, ok := r.Outputs[line]; ok {
		return []byte(out), nil
	}
	return []byte(r.Outputs[name]), nil
}

// Called reports whether a recorded command line starts with prefix.
func (r *Recorder) Called(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
