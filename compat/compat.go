// Package compat adapts framework logger interfaces to a dotlogs service.
package compat

import (
	"strings"

	"github.com/AlexandreIorio/dotlogs"
)

// Emitter is the part of *dotlogs.Service the adapters need
type Emitter interface {
	Emit(level int64, message string, c dotlogs.Caller) error
}

// flusher is implemented by emitters that buffer file output
type flusher interface {
	Flush() error
}

// emit writes message attributed to source. skip counts the frames between
// the framework call site and emit.
func emit(e Emitter, level int64, source, message string, skip int) {
	c := dotlogs.CallerAt(skip + 1)
	c.Function = source
	_ = e.Emit(level, message, c)
}

func flush(e Emitter) {
	if f, ok := e.(flusher); ok {
		_ = f.Flush()
	}
}

// DetectLogLevel attempts to detect log level from message content
func DetectLogLevel(msg string) int64 {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return dotlogs.LevelError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return dotlogs.LevelWarning
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return dotlogs.LevelDebug
	}

	return dotlogs.LevelInformation
}
