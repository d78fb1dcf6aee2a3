package dotlogs

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/toml"
)

// document is the on-disk layout, one [dotlogs] table
type document struct {
	DotLogs Config `toml:"dotlogs"`
}

// ConfigStore owns the configuration document and the in-memory
// current/previous pair
type ConfigStore struct {
	dir  string
	path string

	current  atomic.Value // stores *Config
	previous atomic.Value // stores *Config

	digestMu sync.Mutex
	digest   [sha256.Size]byte // content last read or written
}

// NewConfigStore creates a store for dir/name. Both in-memory snapshots start
// at the defaults.
func NewConfigStore(dir, name string) *ConfigStore {
	s := &ConfigStore{
		dir:  dir,
		path: filepath.Join(dir, name),
	}
	s.current.Store(DefaultConfig())
	s.previous.Store(DefaultConfig())
	return s
}

// Path returns the document path
func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads the document, writing the defaults first when it does not exist.
// A document that cannot be decoded returns an error; the in-memory snapshots
// are never touched by Load.
func (s *ConfigStore) Load() (*Config, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", s.dir, err)
	}

	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := s.Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmtErrorf("failed to read configuration '%s': %w", s.path, err)
	}
	s.setDigest(sha256.Sum256(content))

	cfg, err := NewConfigFromFile(s.path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to a temporary file in the same directory and renames it
// over the document, so readers see either the old or the new content.
func (s *ConfigStore) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(document{DotLogs: *cfg}); err != nil {
		return fmtErrorf("failed to encode configuration: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(s.path)+tempPattern)
	if err != nil {
		return fmtErrorf("failed to create temporary configuration file: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(buf.Bytes())
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0644)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmtErrorf("failed to write configuration '%s': %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmtErrorf("failed to replace configuration '%s': %w", s.path, err)
	}

	s.setDigest(sha256.Sum256(buf.Bytes()))
	return nil
}

// Modified reports whether the document content differs from what the store
// last read or wrote. An unreadable document counts as modified.
func (s *ConfigStore) Modified() bool {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return true
	}
	sum := sha256.Sum256(content)

	s.digestMu.Lock()
	defer s.digestMu.Unlock()
	return sum != s.digest
}

func (s *ConfigStore) setDigest(sum [sha256.Size]byte) {
	s.digestMu.Lock()
	s.digest = sum
	s.digestMu.Unlock()
}

// Current returns the live configuration. Callers must not mutate it.
func (s *ConfigStore) Current() *Config {
	return s.current.Load().(*Config)
}

// Previous returns the snapshot used for change detection
func (s *ConfigStore) Previous() *Config {
	return s.previous.Load().(*Config)
}

// SetCurrent replaces the live configuration
func (s *ConfigStore) SetCurrent(cfg *Config) {
	s.current.Store(cfg.Clone())
}

// Commit makes the live configuration the change detection snapshot
func (s *ConfigStore) Commit() {
	s.previous.Store(s.Current().Clone())
}
