// Package logger provides structured logging functionality for the probes.
//
// It utilizes Go's standard library log/slog package to implement structured JSON or
// text logging with configurable log levels. Log output goes to stderr; stdout is
// reserved for the probe results meant for human inspection.
package logger
