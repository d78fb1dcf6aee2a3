package dotlogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyConfigField(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, applyConfigField(cfg, "log_level", "dbg"))
	require.NoError(t, applyConfigField(cfg, "LOG_TO_CONSOLE", "false"))
	require.NoError(t, applyConfigField(cfg, "retention_count", "5"))
	require.NoError(t, applyConfigField(cfg, "rotation_interval", "Hour"))
	require.NoError(t, applyConfigField(cfg, "log_file_name", "app.log"))
	require.NoError(t, applyConfigField(cfg, "output_template", "{Message}"))

	assert.Equal(t, "dbg", cfg.LogLevel)
	assert.False(t, cfg.LogToConsole)
	assert.Equal(t, int64(5), cfg.RetentionCount)
	assert.Equal(t, RotateHour, cfg.RotationInterval)
	assert.Equal(t, "app.log", cfg.LogFileName)
	assert.Equal(t, "{Message}", cfg.OutputTemplate)

	assert.ErrorIs(t, applyConfigField(cfg, "log_level", "loud"), ErrInvalidLevel)
	assert.Error(t, applyConfigField(cfg, "log_to_file", "maybe"))
	assert.Error(t, applyConfigField(cfg, "retention_count", "many"))
	assert.Error(t, applyConfigField(cfg, "rotation_interval", "fortnight"))
	assert.Error(t, applyConfigField(cfg, "colour", "red"))
}

func TestApplyOverride(t *testing.T) {
	svc, dir, _ := newTestService(t)

	require.NoError(t, svc.ApplyOverride("log_level=Warning", "retention_count=3"))
	cfg := svc.Configuration()
	assert.Equal(t, "Warning", cfg.LogLevel)
	assert.Equal(t, int64(3), cfg.RetentionCount)

	saved, err := NewConfigFromFile(dir + "/" + ConfigFileName)
	require.NoError(t, err)
	assert.Equal(t, "Warning", saved.LogLevel)

	t.Run("errors are collected and nothing is applied", func(t *testing.T) {
		err := svc.ApplyOverride("log_level=nope", "novalue", "retention_count=2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple configuration errors")
		assert.Equal(t, int64(3), svc.Configuration().RetentionCount)
	})
}
