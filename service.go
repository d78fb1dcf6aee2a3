package dotlogs

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"

	"github.com/AlexandreIorio/dotlogs/formatter"
)

// ConfigEvent is delivered to the observer after every reload
type ConfigEvent struct {
	Config  Config   // Configuration in effect after the reload
	Changed []string // Change descriptions, empty when nothing changed
	Err     error    // Non-nil when the document could not be applied
}

// observerHolder keeps atomic.Value usable with a nil function
type observerHolder struct {
	fn func(ConfigEvent)
}

// Service is a logging service driven by a configuration document that can be
// edited while the process runs. Instances are independent and may share a
// directory.
type Service struct {
	dir     string
	store   *ConfigStore
	gate    *LevelGate
	sinks   *SinkManager
	reader  *Reader
	watcher *changeWatcher // nil when watching is disabled
	now     func() time.Time
	state   State

	mu       sync.Mutex // serializes configuration changes
	observer atomic.Value
}

// options collects the construction settings exposed through Builder
type options struct {
	dir        string
	configName string
	console    io.Writer
	now        func() time.Time
	watch      bool
	fs         afero.Fs
	seed       *Config
}

func defaultOptions(dir string) options {
	return options{
		dir:        dir,
		configName: ConfigFileName,
		console:    os.Stdout,
		now:        time.Now,
		watch:      true,
	}
}

// New creates a service rooted at dir, writing console output to stdout and
// watching the configuration document for edits
func New(dir string) (*Service, error) {
	return newService(defaultOptions(dir))
}

func newService(o options) (*Service, error) {
	if strings.TrimSpace(o.dir) == "" {
		o.dir = DefaultDirectory
	}

	s := &Service{
		dir:   o.dir,
		store: NewConfigStore(o.dir, o.configName),
		now:   o.now,
	}
	s.state.StartTime.Store(s.now())
	s.observer.Store(observerHolder{})

	cfg, err := s.store.Load()
	if err != nil {
		// Only a document that exists but cannot be used falls back to defaults
		if _, statErr := os.Stat(s.store.Path()); statErr != nil {
			return nil, err
		}
		internalLog("failed to load log configuration, using default values: %v\n", err)
		cfg = DefaultConfig()
	}
	if o.seed != nil {
		cfg = o.seed.Clone()
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	s.gate = NewLevelGate(level)
	s.sinks = NewSinkManager(o.dir, o.console, s.now, &s.state)
	if err := s.sinks.Reconfigure(cfg); err != nil {
		return nil, err
	}
	s.store.SetCurrent(cfg)
	s.store.Commit()

	if o.seed != nil {
		if err := s.store.Save(cfg); err != nil {
			_ = s.sinks.Close()
			return nil, err
		}
	}

	s.reader = NewReader(o.fs, o.dir)
	s.reader.configName = o.configName
	s.reader.now = s.now

	if o.watch {
		w, err := newChangeWatcher(s.store.Path(), s.onDocumentChanged)
		if err != nil {
			_ = s.sinks.Close()
			return nil, err
		}
		s.watcher = w
	}
	return s, nil
}

// Emit writes one event if level passes the threshold. Write failures of any
// sink are returned.
func (s *Service) Emit(level int64, message string, c Caller) error {
	if s.state.ShutdownCalled.Load() {
		return ErrClosed
	}
	if !validLevel(level) {
		return fmtErrorf("%w: %d", ErrInvalidLevel, level)
	}
	if !s.gate.Enabled(level) {
		s.state.EventsFiltered.Add(1)
		return nil
	}

	rec := formatter.Record{
		Time:      s.now().UTC(),
		LevelCode: LevelCode(level),
		LevelName: LevelName(level),
		Caller:    c.Function,
		File:      c.File,
		Line:      c.Line,
		Message:   message,
	}
	if err := s.sinks.Write(&rec); err != nil {
		s.state.recordWriteError(err)
		return err
	}
	s.state.EventsWritten[level].Add(1)
	return nil
}

// emit is Emit for callers that cannot return an error
func (s *Service) emit(level int64, message string, c Caller) {
	if err := s.Emit(level, message, c); err != nil && !errors.Is(err, ErrClosed) {
		internalLog("failed to write log event: %v\n", err)
	}
}

// Trace logs a message at the Verbose level and returns it
func (s *Service) Trace(message string, c Caller) string {
	s.emit(LevelVerbose, message, c)
	return message
}

// Debug logs a message at the Debug level and returns it
func (s *Service) Debug(message string, c Caller) string {
	s.emit(LevelDebug, message, c)
	return message
}

// Information logs a message at the Information level and returns it
func (s *Service) Information(message string, c Caller) string {
	s.emit(LevelInformation, message, c)
	return message
}

// Warning logs a message at the Warning level and returns it
func (s *Service) Warning(message string, c Caller) string {
	s.emit(LevelWarning, message, c)
	return message
}

// Error logs a message at the Error level and returns it
func (s *Service) Error(message string, c Caller) string {
	s.emit(LevelError, message, c)
	return message
}

// Fatal logs a message at the Fatal level and returns it. It does not exit.
func (s *Service) Fatal(message string, c Caller) string {
	s.emit(LevelFatal, message, c)
	return message
}

// logSelf emits a message about the service itself, attributed to the
// service method that produced it
func (s *Service) logSelf(level int64, message string) {
	s.emit(level, message, CallerAt(1))
}

// Configuration returns a copy of the configuration in effect
func (s *Service) Configuration() Config {
	return *s.store.Current()
}

// SetConfiguration validates cfg, applies it and persists it. The change
// watcher ignores the resulting write.
func (s *Service) SetConfiguration(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setConfigurationLocked(cfg)
}

// setConfigurationLocked applies and saves a validated cfg. Callers hold s.mu.
func (s *Service) setConfigurationLocked(cfg *Config) error {
	if s.state.ShutdownCalled.Load() {
		return ErrClosed
	}

	if s.watcher != nil {
		s.watcher.Suspend()
		defer s.watcher.Resume()
	}

	if err := s.applyConfig(cfg); err != nil {
		return err
	}
	if err := s.store.Save(cfg); err != nil {
		return err
	}
	s.store.Commit()
	return nil
}

// modifyConfiguration runs change on a copy of the live configuration and
// applies the result, all under s.mu, so concurrent changes never overwrite
// each other. change returns false to leave the configuration as is.
func (s *Service) modifyConfiguration(change func(cfg *Config) (bool, error)) (bool, error) {
	if s.state.ShutdownCalled.Load() {
		return false, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.store.Current().Clone()
	apply, err := change(cfg)
	if err != nil || !apply {
		return false, err
	}
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if err := s.setConfigurationLocked(cfg); err != nil {
		return false, err
	}
	return true, nil
}

// applyConfig rebuilds the sinks and moves the threshold. Callers hold s.mu.
func (s *Service) applyConfig(cfg *Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if err := s.sinks.Reconfigure(cfg); err != nil {
		return err
	}
	s.gate.Set(level)
	s.store.SetCurrent(cfg)
	s.logSelf(LevelInformation, "Logger reconfigured with new settings")
	return nil
}

// SetLevel changes the threshold and persists it. Blank or unknown levels
// return ErrInvalidLevel and leave the threshold unchanged.
func (s *Service) SetLevel(level string) error {
	if _, err := Level(level); err != nil {
		return err
	}
	if s.state.ShutdownCalled.Load() {
		return ErrClosed
	}
	s.logSelf(LevelInformation, "Log level changing to "+level)
	_, err := s.modifyConfiguration(func(cfg *Config) (bool, error) {
		cfg.LogLevel = level
		return true, nil
	})
	return err
}

// Level returns the current threshold
func (s *Service) Level() int64 {
	return s.gate.Threshold()
}

// EnableConsole turns console output on
func (s *Service) EnableConsole() error {
	return s.toggle(func(c *Config) *bool { return &c.LogToConsole }, true, "Console logging enabled")
}

// DisableConsole turns console output off
func (s *Service) DisableConsole() error {
	return s.toggle(func(c *Config) *bool { return &c.LogToConsole }, false, "Console logging disabled")
}

// EnableFile turns file output on
func (s *Service) EnableFile() error {
	return s.toggle(func(c *Config) *bool { return &c.LogToFile }, true, "File logging enabled")
}

// DisableFile turns file output off
func (s *Service) DisableFile() error {
	return s.toggle(func(c *Config) *bool { return &c.LogToFile }, false, "File logging disabled")
}

// Enable turns both outputs on
func (s *Service) Enable() error {
	return combineErrors(s.EnableConsole(), s.EnableFile())
}

// Disable turns both outputs off
func (s *Service) Disable() error {
	return combineErrors(s.DisableConsole(), s.DisableFile())
}

// toggle sets one output switch, doing nothing when it already has the value
func (s *Service) toggle(field func(*Config) *bool, on bool, message string) error {
	changed, err := s.modifyConfiguration(func(cfg *Config) (bool, error) {
		flag := field(cfg)
		if *flag == on {
			return false, nil
		}
		*flag = on
		return true, nil
	})
	if err != nil || !changed {
		return err
	}
	s.logSelf(LevelInformation, message)
	return nil
}

// UpdateConfiguration reloads the document and applies it when it differs
// from the previous snapshot. It reports whether anything changed. A document
// that cannot be loaded is reported and the configuration in effect is kept.
func (s *Service) UpdateConfiguration() (bool, error) {
	if s.state.ShutdownCalled.Load() {
		return false, ErrClosed
	}

	changed, event := s.reload()
	s.notify(event)
	return changed, event.Err
}

func (s *Service) reload() (bool, ConfigEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Reloads.Add(1)
	cfg, err := s.store.Load()
	if err != nil {
		s.logSelf(LevelWarning, "Failed to load log configuration from file, keeping previous values: "+err.Error())
		return false, ConfigEvent{Config: s.Configuration(), Err: err}
	}

	prev := s.store.Previous()
	if cfg.Equal(prev) {
		s.store.SetCurrent(cfg)
		s.store.Commit()
		return false, ConfigEvent{Config: s.Configuration()}
	}

	changes := Diff(prev, cfg)
	for _, change := range changes {
		s.logSelf(LevelInformation, change)
	}
	if err := s.applyConfig(cfg); err != nil {
		s.logSelf(LevelWarning, "Failed to apply log configuration, keeping previous values: "+err.Error())
		return false, ConfigEvent{Config: s.Configuration(), Changed: changes, Err: err}
	}
	s.store.Commit()
	return true, ConfigEvent{Config: s.Configuration(), Changed: changes}
}

// onDocumentChanged is the watcher callback. Notifications caused by the
// service's own saves arrive after the digest was refreshed and are skipped.
func (s *Service) onDocumentChanged() {
	if !s.store.Modified() {
		return
	}
	if _, err := s.UpdateConfiguration(); err != nil && !errors.Is(err, ErrClosed) {
		internalLog("configuration reload failed: %v\n", err)
	}
}

// OnConfigurationChanged registers fn to run after every reload, replacing
// any previous observer. fn runs on its own goroutine and may call back into
// the service.
func (s *Service) OnConfigurationChanged(fn func(ConfigEvent)) {
	s.observer.Store(observerHolder{fn: fn})
}

func (s *Service) notify(event ConfigEvent) {
	h, _ := s.observer.Load().(observerHolder)
	if h.fn == nil {
		return
	}
	go h.fn(event)
}

// CurrentLogFile returns the most recently written log file in the
// directory, or "" when there is none
func (s *Service) CurrentLogFile() string {
	path, err := s.reader.CurrentFile()
	if err != nil {
		internalLog("failed to find current log file: %v\n", err)
		return ""
	}
	return path
}

// GetLogs returns the entries written at or after from with at least
// minLevel. An empty minLevel returns every level.
func (s *Service) GetLogs(from time.Time, minLevel string) ([]Entry, error) {
	level, err := queryLevel(minLevel)
	if err != nil {
		return nil, err
	}
	return s.reader.Query(from, level)
}

// GetLogsDays returns the entries of the last nbDays days, at least one
func (s *Service) GetLogsDays(nbDays int, minLevel string) ([]Entry, error) {
	level, err := queryLevel(minLevel)
	if err != nil {
		return nil, err
	}
	return s.reader.QueryDays(nbDays, level)
}

// GetRecentLogs returns every entry of the last 24 hours
func (s *Service) GetRecentLogs() ([]Entry, error) {
	return s.reader.QueryRecent()
}

func queryLevel(minLevel string) (int64, error) {
	if strings.TrimSpace(minLevel) == "" {
		return LevelVerbose, nil
	}
	return Level(minLevel)
}

// Directory returns the log directory
func (s *Service) Directory() string {
	return s.dir
}

// ConfigPath returns the path of the configuration document
func (s *Service) ConfigPath() string {
	return s.store.Path()
}

// Stats returns a snapshot of the service counters
func (s *Service) Stats() Stats {
	return s.state.snapshot(s.now())
}

// Flush syncs the active log file to disk
func (s *Service) Flush() error {
	return s.sinks.Flush()
}

// Close stops the watcher, then flushes and closes the sinks. Later logging
// calls are dropped. Close is idempotent.
func (s *Service) Close() error {
	if !s.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	var finalErr error
	// The watcher may be waiting on s.mu inside a reload, so close it first
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to stop configuration watcher: %w", err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sinks.Close(); err != nil {
		finalErr = combineErrors(finalErr, err)
	}
	return finalErr
}
