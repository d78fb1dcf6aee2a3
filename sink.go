package dotlogs

import (
	"io"
	"sync"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/AlexandreIorio/dotlogs/formatter"
)

// sink serializes writes to a shared io.Writer so lines never interleave
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// sinkSet is one immutable generation of writers built from a Config
type sinkSet struct {
	console   io.Writer
	file      *rollingFile
	formatter *formatter.Formatter
}

func (ss *sinkSet) close() error {
	if ss.file == nil {
		return nil
	}
	return ss.file.Close()
}

// SinkManager owns the live sink set and swaps it atomically on
// reconfiguration. Writers hold the read lock for the duration of one event,
// the swap holds the write lock.
type SinkManager struct {
	mu  sync.RWMutex
	set *sinkSet

	dir     string
	console *sink
	now     func() time.Time
	state   *State
}

// NewSinkManager creates a manager writing files under dir and console output
// to console. It holds no sinks until the first Reconfigure.
func NewSinkManager(dir string, console io.Writer, now func() time.Time, state *State) *SinkManager {
	if now == nil {
		now = time.Now
	}
	if state == nil {
		state = &State{}
	}
	return &SinkManager{
		dir:     dir,
		console: &sink{w: console},
		now:     now,
		state:   state,
	}
}

// Reconfigure builds a new sink set from cfg and publishes it. On error the
// previous set stays active.
func (m *SinkManager) Reconfigure(cfg *Config) error {
	next, err := m.build(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	prev := m.set
	m.set = next
	var closeErr error
	if prev != nil {
		closeErr = prev.close()
	}
	m.mu.Unlock()

	m.state.Reconfigurations.Add(1)
	return closeErr
}

// build creates a sink set without publishing it
func (m *SinkManager) build(cfg *Config) (*sinkSet, error) {
	f, err := formatter.New(LinePrefix + cfg.OutputTemplate)
	if err != nil {
		return nil, fmtErrorf("invalid output_template: %w", err)
	}

	next := &sinkSet{formatter: f}
	if cfg.LogToConsole {
		next.console = m.console
	}
	if cfg.LogToFile {
		file, err := openRollingFile(m.dir, cfg, m.now(), m.state)
		if err != nil {
			return nil, err
		}
		next.file = file
	}
	return next, nil
}

// Write formats rec once and writes the line to every active sink
func (m *SinkManager) Write(rec *formatter.Record) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.set
	if set == nil || (set.console == nil && set.file == nil) {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.B = set.formatter.Append(buf.B, rec)

	var err error
	if set.console != nil {
		if _, werr := set.console.Write(buf.B); werr != nil {
			err = combineErrors(err, fmtErrorf("console write failed: %w", werr))
		}
	}
	if set.file != nil {
		if _, werr := set.file.Write(buf.B, rec.Time); werr != nil {
			err = combineErrors(err, werr)
		}
	}
	return err
}

// FilePath returns the active log file, or "" when file output is off
func (m *SinkManager) FilePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil || m.set.file == nil {
		return ""
	}
	return m.set.file.Path()
}

// Flush syncs the active log file
func (m *SinkManager) Flush() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil || m.set.file == nil {
		return nil
	}
	return m.set.file.Sync()
}

// Close flushes and closes the active sinks. Later writes are dropped.
func (m *SinkManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil {
		return nil
	}
	err := m.set.close()
	m.set = nil
	return err
}
