package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

type Severity int

const (
	DEBUG Severity = iota
	INFO
	WARN
	ERROR
)

var (
	debugEnabled bool
	debugOut     io.Writer = os.Stderr
)

// SetDebug enables or disables debug output
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Debug outputs debug messages with severity levels and colors
func Debug(message string, severity Severity) {
	var colorFunc func(format string, a ...interface{}) string
	var prefix string

	switch severity {
	case DEBUG:
		if !debugEnabled {
			return
		}
		colorFunc = color.New(color.Faint).SprintfFunc()
		prefix = "[DEBUG]"
	case INFO:
		colorFunc = color.New(color.FgGreen).SprintfFunc()
		prefix = "[INFO]"
	case WARN:
		colorFunc = color.New(color.FgYellow).SprintfFunc()
		prefix = "[WARN]"
	default:
		colorFunc = color.New(color.FgRed).SprintfFunc()
		prefix = "[ERROR]"
	}

	fmt.Fprintln(debugOut, colorFunc("%s %s", prefix, message))
}

// openLog returns the logger handed to the viewer. Without a path the
// messages are dropped, the terminal belongs to the viewer while it runs.
func openLog(path string) (*log.Logger, func() error, error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, "", log.Ltime|log.Lmicroseconds), f.Close, nil
}
