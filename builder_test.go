package dotlogs

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("configuration setters replace the document", func(t *testing.T) {
		dir := t.TempDir()
		var console bytes.Buffer

		svc, err := NewBuilder().
			Directory(dir).
			Console(&console).
			Clock(func() time.Time { return fixedNow }).
			Watch(false).
			LevelString("debug").
			EnableFile(false).
			RotationInterval(RotateHour).
			RetentionCount(4).
			Build()
		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		defer svc.Close()

		cfg := svc.Configuration()
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.False(t, cfg.LogToFile)
		assert.Equal(t, RotateHour, cfg.RotationInterval)
		assert.Equal(t, int64(4), cfg.RetentionCount)
		assert.Equal(t, LevelDebug, svc.Level())

		saved, err := NewConfigFromFile(filepath.Join(dir, ConfigFileName))
		require.NoError(t, err)
		assert.True(t, saved.Equal(&cfg))

		svc.Debug("visible", Caller{Function: "Test"})
		assert.Contains(t, console.String(), "[DBG] [Test]")
	})

	t.Run("without setters the document is kept", func(t *testing.T) {
		dir := t.TempDir()
		store := NewConfigStore(dir, ConfigFileName)
		existing := DefaultConfig()
		existing.LogLevel = "Warning"
		require.NoError(t, store.Save(existing))

		svc, err := NewBuilder().Directory(dir).Console(&bytes.Buffer{}).Watch(false).Build()
		require.NoError(t, err)
		defer svc.Close()
		assert.Equal(t, LevelWarning, svc.Level())
	})

	t.Run("custom document name", func(t *testing.T) {
		dir := t.TempDir()
		svc, err := NewBuilder().Directory(dir).ConfigFile("app.toml").Console(&bytes.Buffer{}).Watch(false).Build()
		require.NoError(t, err)
		defer svc.Close()
		assert.Equal(t, filepath.Join(dir, "app.toml"), svc.ConfigPath())
	})

	t.Run("invalid level fails the build", func(t *testing.T) {
		_, err := NewBuilder().Directory(t.TempDir()).LevelString("loud").Build()
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})

	t.Run("invalid interval fails the build", func(t *testing.T) {
		_, err := NewBuilder().Directory(t.TempDir()).RotationInterval("week").Build()
		assert.Error(t, err)
	})

	t.Run("invalid file name fails the build", func(t *testing.T) {
		_, err := NewBuilder().Directory(t.TempDir()).FileName("a/b.txt").Build()
		assert.Error(t, err)
	})
}
