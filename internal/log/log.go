// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

const tracePrefix = "TRACE: "

var (
	traceEnabled bool
	out          io.Writer = os.Stderr
)

// levels maps MACPREFS_LOG values to apex levels. trace is debug plus the
// Tracef lines.
var levels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

var letters = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

// InitLogger sets up Apex with a custom handler and a log level from the
// MACPREFS_LOG env variable (default info). Unknown values fall back to info.
func InitLogger() {
	name := strings.ToLower(strings.TrimSpace(os.Getenv("MACPREFS_LOG")))
	level, ok := levels[name]
	if !ok {
		level = log.InfoLevel
	}
	traceEnabled = name == "trace"

	log.SetHandler(&CustomHandler{Verbose: level == log.DebugLevel})
	log.SetLevel(level)
}

// SetOutput redirects the handler. Tests use it to capture log lines.
func SetOutput(w io.Writer) {
	out = w
}

// CustomHandler writes one line per entry. Info entries are progress
// messages and are written bare unless Verbose is set; everything else is
// "<timestamp> <level> <message>".
type CustomHandler struct {
	Verbose bool
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	message := e.Message
	level := letters[e.Level]
	if level == "" {
		level = "?"
	}
	if strings.HasPrefix(message, tracePrefix) {
		level = "T"
		message = strings.TrimPrefix(message, tracePrefix)
	}
	if err, ok := e.Fields["error"]; ok {
		message = fmt.Sprintf("%s: %v", message, err)
	}

	if e.Level == log.InfoLevel && !h.Verbose {
		_, err := fmt.Fprintln(out, message)
		return err
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, err := fmt.Fprintf(out, "%s %s %s\n", timestamp, level, message)
	return err
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug(tracePrefix + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs a progress message.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
