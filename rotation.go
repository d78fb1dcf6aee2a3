package dotlogs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// periodLayouts maps a rotation interval to the time layout inserted into file names
var periodLayouts = map[string]string{
	RotateInfinite: "",
	RotateYear:     "2006",
	RotateMonth:    "200601",
	RotateDay:      "20060102",
	RotateHour:     "2006010215",
	RotateMinute:   "200601021504",
}

func validInterval(interval string) bool {
	_, ok := periodLayouts[strings.ToLower(interval)]
	return ok
}

// periodBounds returns the UTC period containing t. The end is zero for the
// infinite interval.
func periodBounds(interval string, t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	switch strings.ToLower(interval) {
	case RotateYear:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	case RotateMonth:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	case RotateDay:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	case RotateHour:
		start := t.Truncate(time.Hour)
		return start, start.Add(time.Hour)
	case RotateMinute:
		start := t.Truncate(time.Minute)
		return start, start.Add(time.Minute)
	default:
		return time.Time{}, time.Time{}
	}
}

// rollingFile writes to a file named after the current rotation period and
// switches files when a write falls past the period end
type rollingFile struct {
	mu sync.Mutex

	dir       string
	base      string // file name without extension
	ext       string // extension including the dot
	interval  string
	layout    string
	retention int64

	file      *os.File
	path      string
	periodEnd time.Time
	closed    bool

	state *State
}

// openRollingFile opens the file for the period containing now and applies
// retention once
func openRollingFile(dir string, cfg *Config, now time.Time, state *State) (*rollingFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}

	interval := strings.ToLower(cfg.RotationInterval)
	ext := filepath.Ext(cfg.LogFileName)
	r := &rollingFile{
		dir:       dir,
		base:      strings.TrimSuffix(cfg.LogFileName, ext),
		ext:       ext,
		interval:  interval,
		layout:    periodLayouts[interval],
		retention: cfg.RetentionCount,
		state:     state,
	}

	if err := r.openPeriod(now); err != nil {
		return nil, err
	}
	r.cleanOldFiles()
	return r, nil
}

// fileNameFor generates the file name of the period starting at start
func (r *rollingFile) fileNameFor(start time.Time) string {
	if r.layout == "" {
		return r.base + r.ext
	}
	return r.base + start.Format(r.layout) + r.ext
}

// openPeriod opens (appending) the file of the period containing t
func (r *rollingFile) openPeriod(t time.Time) error {
	start, end := periodBounds(r.interval, t)
	path := filepath.Join(r.dir, r.fileNameFor(start))

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}
	r.file = file
	r.path = path
	r.periodEnd = end
	return nil
}

// Write appends p in a single write call. ts decides which period the line
// belongs to.
func (r *rollingFile) Write(p []byte, ts time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	if !r.periodEnd.IsZero() && !ts.Before(r.periodEnd) {
		if err := r.rotate(ts); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	if err != nil {
		return n, fmtErrorf("failed to write log file '%s': %w", r.path, err)
	}
	return n, nil
}

// rotate closes the current file, opens the file for ts and enforces retention
func (r *rollingFile) rotate(ts time.Time) error {
	if r.file != nil {
		_ = r.file.Sync()
		if err := r.file.Close(); err != nil {
			internalLog("failed to close log file before rotation: %v\n", err)
		}
		r.file = nil
	}

	if err := r.openPeriod(ts); err != nil {
		return fmtErrorf("failed to create new log file after rotation: %w", err)
	}
	if r.state != nil {
		r.state.TotalRotations.Add(1)
	}

	r.cleanOldFiles()
	return nil
}

// isRotatedName reports whether name was produced by this file's naming scheme
func (r *rollingFile) isRotatedName(name string) bool {
	if r.layout == "" {
		return false
	}
	if !strings.HasPrefix(name, r.base) || !strings.HasSuffix(name, r.ext) {
		return false
	}
	stamp := name[len(r.base) : len(name)-len(r.ext)]
	if len(stamp) != len(r.layout) {
		return false
	}
	for _, c := range stamp {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// cleanOldFiles removes the oldest period files beyond the retention count.
// The current file counts towards the limit and is never removed.
func (r *rollingFile) cleanOldFiles() {
	if r.retention <= 0 || r.layout == "" {
		return
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		internalLog("failed to read log directory '%s' for cleanup: %v\n", r.dir, err)
		return
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !r.isRotatedName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	if int64(len(names)) <= r.retention {
		return
	}

	// Period stamps sort lexically, newest first
	sort.Slice(names, func(i, j int) bool { return names[i] > names[j] })

	current := filepath.Base(r.path)
	kept := int64(0)
	for _, name := range names {
		if name == current || kept < r.retention {
			kept++
			continue
		}
		filePath := filepath.Join(r.dir, name)
		if err := os.Remove(filePath); err != nil {
			internalLog("failed to remove old log file '%s': %v\n", filePath, err)
			continue
		}
		if r.state != nil {
			r.state.TotalDeletions.Add(1)
		}
	}
}

// Path returns the file currently written to
func (r *rollingFile) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Sync flushes the current file to disk
func (r *rollingFile) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.file == nil {
		return nil
	}
	return r.file.Sync()
}

// Close syncs and closes the current file. Later writes return ErrClosed.
func (r *rollingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.file == nil {
		return nil
	}

	var finalErr error
	if err := r.file.Sync(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s': %w", r.path, err))
	}
	if err := r.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s': %w", r.path, err))
	}
	r.file = nil
	return finalErr
}
