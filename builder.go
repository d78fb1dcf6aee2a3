package dotlogs

import (
	"io"
	"time"

	"github.com/spf13/afero"
)

// Builder provides a fluent API for constructing a Service.
// Configuration setters are optional: when any is used, the resulting
// configuration replaces the document on Build. Otherwise the document on
// disk is used as is.
type Builder struct {
	opts options
	cfg  *Config
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a builder for a service rooted at DefaultDirectory
func NewBuilder() *Builder {
	return &Builder{opts: defaultOptions(DefaultDirectory)}
}

// Build creates the Service
func (b *Builder) Build() (*Service, error) {
	if b.err != nil {
		return nil, b.err
	}
	o := b.opts
	if b.cfg != nil {
		if err := b.cfg.Validate(); err != nil {
			return nil, err
		}
		o.seed = b.cfg
	}
	return newService(o)
}

// config returns the seed configuration, creating it from the defaults
func (b *Builder) config() *Config {
	if b.cfg == nil {
		b.cfg = DefaultConfig()
	}
	return b.cfg
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.opts.dir = dir
	return b
}

// ConfigFile sets the name of the configuration document inside the directory.
func (b *Builder) ConfigFile(name string) *Builder {
	b.opts.configName = name
	return b
}

// Console sets the console writer, stdout by default.
func (b *Builder) Console(w io.Writer) *Builder {
	b.opts.console = w
	return b
}

// Clock sets the time source used for timestamps, rotation and queries.
func (b *Builder) Clock(now func() time.Time) *Builder {
	if now != nil {
		b.opts.now = now
	}
	return b
}

// Watch enables or disables reloading on document edits.
func (b *Builder) Watch(enable bool) *Builder {
	b.opts.watch = enable
	return b
}

// ReaderFs sets the filesystem the log reader reads from.
func (b *Builder) ReaderFs(fs afero.Fs) *Builder {
	b.opts.fs = fs
	return b
}

// Config seeds the whole configuration.
func (b *Builder) Config(cfg *Config) *Builder {
	if cfg != nil {
		b.cfg = cfg.Clone()
	}
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := Level(level); err != nil {
		b.err = err
		return b
	}
	b.config().LogLevel = level
	return b
}

// EnableConsole sets console output.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.config().LogToConsole = enable
	return b
}

// EnableFile sets file output.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.config().LogToFile = enable
	return b
}

// RetentionCount sets the number of period files kept.
func (b *Builder) RetentionCount(count int64) *Builder {
	b.config().RetentionCount = count
	return b
}

// RotationInterval sets the rotation interval.
func (b *Builder) RotationInterval(interval string) *Builder {
	if b.err != nil {
		return b
	}
	if !validInterval(interval) {
		b.err = fmtErrorf("invalid rotation_interval: '%s'", interval)
		return b
	}
	b.config().RotationInterval = interval
	return b
}

// FileName sets the base log file name.
func (b *Builder) FileName(name string) *Builder {
	b.config().LogFileName = name
	return b
}

// OutputTemplate sets the template appended to the line prefix.
func (b *Builder) OutputTemplate(template string) *Builder {
	b.config().OutputTemplate = template
	return b
}
