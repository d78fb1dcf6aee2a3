package dotlogs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreLoad(t *testing.T) {
	t.Run("absent document writes defaults", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		store := NewConfigStore(dir, ConfigFileName)

		cfg, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)

		content, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		assert.Contains(t, string(content), "[dotlogs]")
		assert.Contains(t, string(content), `log_level = "Information"`)
		assert.False(t, store.Modified())
	})

	t.Run("existing document is decoded", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConfigStore(dir, ConfigFileName)
		want := DefaultConfig()
		want.LogLevel = "Warning"
		want.RotationInterval = RotateMinute
		require.NoError(t, store.Save(want))

		got, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("malformed document keeps snapshots", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConfigStore(dir, ConfigFileName)
		live := DefaultConfig()
		live.LogLevel = "Debug"
		store.SetCurrent(live)
		store.Commit()

		require.NoError(t, os.WriteFile(store.Path(), []byte("[dotlogs\nlog_level = "), 0644))
		cfg, err := store.Load()
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Equal(t, "Debug", store.Current().LogLevel)
		assert.Equal(t, "Debug", store.Previous().LogLevel)
	})
}

func TestConfigStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewConfigStore(dir, ConfigFileName)

	cfg := DefaultConfig()
	cfg.OutputTemplate = "[{Caller}] {Message}{NewLine}"
	require.NoError(t, store.Save(cfg))

	// No temporary file is left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ConfigFileName, entries[0].Name())

	loaded, err := NewConfigFromFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	t.Run("invalid configuration is not written", func(t *testing.T) {
		bad := DefaultConfig()
		bad.LogLevel = "nope"
		assert.ErrorIs(t, store.Save(bad), ErrInvalidLevel)

		content, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		assert.False(t, strings.Contains(string(content), "nope"))
	})
}

func TestConfigStoreModified(t *testing.T) {
	dir := t.TempDir()
	store := NewConfigStore(dir, ConfigFileName)
	require.NoError(t, store.Save(DefaultConfig()))
	assert.False(t, store.Modified())

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	edited := strings.Replace(string(content), "Information", "Trace", 1)
	require.NoError(t, os.WriteFile(store.Path(), []byte(edited), 0644))
	assert.True(t, store.Modified())

	_, err = store.Load()
	require.NoError(t, err)
	assert.False(t, store.Modified())

	require.NoError(t, os.Remove(store.Path()))
	assert.True(t, store.Modified())
}

func TestConfigStoreSnapshots(t *testing.T) {
	store := NewConfigStore(t.TempDir(), ConfigFileName)
	assert.Equal(t, DefaultConfig(), store.Current())
	assert.Equal(t, DefaultConfig(), store.Previous())

	cfg := DefaultConfig()
	cfg.LogToFile = false
	store.SetCurrent(cfg)
	assert.False(t, store.Current().LogToFile)
	assert.True(t, store.Previous().LogToFile)

	// The store keeps its own copy
	cfg.LogToConsole = false
	assert.True(t, store.Current().LogToConsole)

	store.Commit()
	assert.False(t, store.Previous().LogToFile)
}
