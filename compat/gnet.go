package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/AlexandreIorio/dotlogs"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet's logging.Logger calls into a dotlogs service
type GnetAdapter struct {
	emitter      Emitter
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(e Emitter, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		emitter: e,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	emit(a.emitter, dotlogs.LevelDebug, "gnet", fmt.Sprintf(format, args...), 1)
}

// Infof logs at information level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	emit(a.emitter, dotlogs.LevelInformation, "gnet", fmt.Sprintf(format, args...), 1)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	emit(a.emitter, dotlogs.LevelWarning, "gnet", fmt.Sprintf(format, args...), 1)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	emit(a.emitter, dotlogs.LevelError, "gnet", fmt.Sprintf(format, args...), 1)
}

// Fatalf logs at fatal level and triggers fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	emit(a.emitter, dotlogs.LevelFatal, "gnet", msg, 1)

	// Ensure log is on disk before exit
	flush(a.emitter)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
