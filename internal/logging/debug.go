package logging

import (
	"fmt"
	"io"
	"os"
)

var debugOut io.Writer = os.Stderr

// DebugEnabled returns true if debug mode is enabled via TASKBOARD_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TASKBOARD_DEBUG") != ""
}

// SetDebugOutput redirects Debugf and Debugln, returning a func that restores stderr
func SetDebugOutput(w io.Writer) (restore func()) {
	previous := debugOut
	debugOut = w
	return func() { debugOut = previous }
}

// Debugf prints a formatted debug message to stderr only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(debugOut, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintln(debugOut, args...)
	}
}
