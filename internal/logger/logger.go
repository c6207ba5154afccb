// Package logger provides verbose logging for the wayfarer CLI. With
// the --verbose flag set, pipeline progress goes to stderr so users
// can follow retrieval and planning while stdout stays clean for
// machine-readable output.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose toggles verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects verbose logs away from os.Stderr. Tests point it
// at a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// emit writes one tagged line when verbose mode is on.
func emit(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, tag+" "+format+"\n", args...)
}

// Debug prints a pipeline detail line.
func Debug(format string, args ...any) { emit("[DEBUG]", format, args...) }

// Info prints a progress line.
func Info(format string, args ...any) { emit("[INFO]", format, args...) }

// Warn prints a degraded-path line.
func Warn(format string, args ...any) { emit("[WARN]", format, args...) }

// Section prints a header separating pipeline phases.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
