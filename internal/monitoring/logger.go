// Package monitoring holds the diagnostic logger shared by the
// reconstruction layers.
package monitoring

import "log"

// Logf is the package-level diagnostic logger used by event reconstruction.
// It defaults to log.Printf; tests and batch jobs can redirect or mute it
// with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs a lenient-handling diagnostic through Logf with the WARNING
// prefix used across the code base.
func Warnf(format string, v ...interface{}) {
	Logf("WARNING: "+format, v...)
}
