package compat

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlexandreIorio/dotlogs"
)

// FiberAdapter implements Fiber's CommonLogger, FormatLogger and WithLogger
// method sets over a dotlogs service
type FiberAdapter struct {
	emitter      Emitter
	fatalHandler func(msg string) // Customizable fatal behavior
	panicHandler func(msg string) // Customizable panic behavior
}

// NewFiberAdapter creates a new Fiber-compatible logger adapter
func NewFiberAdapter(e Emitter, opts ...FiberOption) *FiberAdapter {
	adapter := &FiberAdapter{
		emitter: e,
		fatalHandler: func(msg string) {
			os.Exit(1)
		},
		panicHandler: func(msg string) {
			panic(msg)
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FiberOption allows customizing adapter behavior
type FiberOption func(*FiberAdapter)

// WithFiberFatalHandler sets a custom fatal handler
func WithFiberFatalHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.fatalHandler = handler
	}
}

// WithFiberPanicHandler sets a custom panic handler
func WithFiberPanicHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.panicHandler = handler
	}
}

func (a *FiberAdapter) log(level int64, msg string) {
	// log is always called from one adapter method
	emit(a.emitter, level, "fiber", msg, 2)
}

func (a *FiberAdapter) runFatal(msg string) {
	flush(a.emitter)
	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

func (a *FiberAdapter) runPanic(msg string) {
	flush(a.emitter)
	if a.panicHandler != nil {
		a.panicHandler(msg)
	}
}

// withFields renders key-value pairs after the message
func withFields(msg string, keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return msg
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		sb.WriteByte(' ')
		sb.WriteString(dotlogs.FormatArgs(keysAndValues[i]))
		sb.WriteByte('=')
		if i+1 < len(keysAndValues) {
			sb.WriteString(dotlogs.FormatArgs(keysAndValues[i+1]))
		}
	}
	return sb.String()
}

// --- CommonLogger ---

// Trace logs at verbose level
func (a *FiberAdapter) Trace(v ...any) { a.log(dotlogs.LevelVerbose, dotlogs.FormatArgs(v...)) }

// Debug logs at debug level
func (a *FiberAdapter) Debug(v ...any) { a.log(dotlogs.LevelDebug, dotlogs.FormatArgs(v...)) }

// Info logs at information level
func (a *FiberAdapter) Info(v ...any) { a.log(dotlogs.LevelInformation, dotlogs.FormatArgs(v...)) }

// Warn logs at warning level
func (a *FiberAdapter) Warn(v ...any) { a.log(dotlogs.LevelWarning, dotlogs.FormatArgs(v...)) }

// Error logs at error level
func (a *FiberAdapter) Error(v ...any) { a.log(dotlogs.LevelError, dotlogs.FormatArgs(v...)) }

// Fatal logs at fatal level and triggers the fatal handler
func (a *FiberAdapter) Fatal(v ...any) {
	msg := dotlogs.FormatArgs(v...)
	a.log(dotlogs.LevelFatal, msg)
	a.runFatal(msg)
}

// Panic logs at fatal level and triggers the panic handler
func (a *FiberAdapter) Panic(v ...any) {
	msg := dotlogs.FormatArgs(v...)
	a.log(dotlogs.LevelFatal, msg)
	a.runPanic(msg)
}

// Write makes FiberAdapter an io.Writer, one information event per call
func (a *FiberAdapter) Write(p []byte) (n int, err error) {
	a.log(dotlogs.LevelInformation, strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}

// --- FormatLogger ---

// Tracef logs at verbose level with printf-style formatting
func (a *FiberAdapter) Tracef(format string, v ...any) {
	a.log(dotlogs.LevelVerbose, fmt.Sprintf(format, v...))
}

// Debugf logs at debug level with printf-style formatting
func (a *FiberAdapter) Debugf(format string, v ...any) {
	a.log(dotlogs.LevelDebug, fmt.Sprintf(format, v...))
}

// Infof logs at information level with printf-style formatting
func (a *FiberAdapter) Infof(format string, v ...any) {
	a.log(dotlogs.LevelInformation, fmt.Sprintf(format, v...))
}

// Warnf logs at warning level with printf-style formatting
func (a *FiberAdapter) Warnf(format string, v ...any) {
	a.log(dotlogs.LevelWarning, fmt.Sprintf(format, v...))
}

// Errorf logs at error level with printf-style formatting
func (a *FiberAdapter) Errorf(format string, v ...any) {
	a.log(dotlogs.LevelError, fmt.Sprintf(format, v...))
}

// Fatalf logs at fatal level and triggers the fatal handler
func (a *FiberAdapter) Fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.log(dotlogs.LevelFatal, msg)
	a.runFatal(msg)
}

// Panicf logs at fatal level and triggers the panic handler
func (a *FiberAdapter) Panicf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.log(dotlogs.LevelFatal, msg)
	a.runPanic(msg)
}

// --- WithLogger ---

// Tracew logs at verbose level with key-value pairs
func (a *FiberAdapter) Tracew(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelVerbose, withFields(msg, keysAndValues))
}

// Debugw logs at debug level with key-value pairs
func (a *FiberAdapter) Debugw(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelDebug, withFields(msg, keysAndValues))
}

// Infow logs at information level with key-value pairs
func (a *FiberAdapter) Infow(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelInformation, withFields(msg, keysAndValues))
}

// Warnw logs at warning level with key-value pairs
func (a *FiberAdapter) Warnw(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelWarning, withFields(msg, keysAndValues))
}

// Errorw logs at error level with key-value pairs
func (a *FiberAdapter) Errorw(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelError, withFields(msg, keysAndValues))
}

// Fatalw logs at fatal level with key-value pairs and triggers the fatal handler
func (a *FiberAdapter) Fatalw(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelFatal, withFields(msg, keysAndValues))
	a.runFatal(msg)
}

// Panicw logs at fatal level with key-value pairs and triggers the panic handler
func (a *FiberAdapter) Panicw(msg string, keysAndValues ...any) {
	a.log(dotlogs.LevelFatal, withFields(msg, keysAndValues))
	a.runPanic(msg)
}
