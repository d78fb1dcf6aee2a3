package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandreIorio/dotlogs"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func loadConfig(t *testing.T, dir string) *dotlogs.Config {
	t.Helper()
	cfg, err := dotlogs.NewConfigFromFile(filepath.Join(dir, dotlogs.ConfigFileName))
	require.NoError(t, err)
	return cfg
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Level:      Information (Information)")
	assert.Contains(t, out, "Console:    enabled")
	assert.Contains(t, out, "Rotation:   day, keep 30")
	assert.NotContains(t, out, "Current:")

	// Looking creates nothing
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = run(t, dir, "level", "error")
	require.NoError(t, err)
	out, err = run(t, dir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Level:      error (Error)")
	assert.Contains(t, out, "Current:")
}

func TestLevelCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "level", "wrn")
	require.NoError(t, err)
	assert.Equal(t, "Level set to wrn\n", out)
	assert.Equal(t, "wrn", loadConfig(t, dir).LogLevel)

	_, err = run(t, dir, "level", "loud")
	assert.ErrorIs(t, err, dotlogs.ErrInvalidLevel)
	assert.Equal(t, "wrn", loadConfig(t, dir).LogLevel)

	_, err = run(t, dir, "level")
	assert.Error(t, err)
}

func TestToggleCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "disable", "console")
	require.NoError(t, err)
	assert.Equal(t, "Console disabled, file enabled\n", out)

	out, err = run(t, dir, "disable")
	require.NoError(t, err)
	assert.Equal(t, "Console disabled, file disabled\n", out)

	out, err = run(t, dir, "enable", "file")
	require.NoError(t, err)
	assert.Equal(t, "Console disabled, file enabled\n", out)

	cfg := loadConfig(t, dir)
	assert.False(t, cfg.LogToConsole)
	assert.True(t, cfg.LogToFile)

	_, err = run(t, dir, "enable", "syslog")
	assert.Error(t, err)
}

func TestSetCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "set", "rotation_interval=hour", "retention_count=4")
	require.NoError(t, err)
	cfg := loadConfig(t, dir)
	assert.Equal(t, dotlogs.RotateHour, cfg.RotationInterval)
	assert.Equal(t, int64(4), cfg.RetentionCount)

	_, err = run(t, dir, "set", "retention_count=x")
	assert.Error(t, err)
	assert.Equal(t, int64(4), loadConfig(t, dir).RetentionCount)
}

func TestLogsCommand(t *testing.T) {
	dir := t.TempDir()
	svc, err := dotlogs.NewBuilder().
		Directory(dir).
		Console(&bytes.Buffer{}).
		Watch(false).
		Build()
	require.NoError(t, err)
	caller := dotlogs.Caller{Function: "Job", File: "job.go", Line: 9}
	svc.Information("started", caller)
	svc.Error("crashed", caller)
	require.NoError(t, svc.Close())

	out, err := run(t, dir, "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "[Job] [job.go:9] started")
	assert.Contains(t, out, "[Job] [job.go:9] crashed")

	out, err = run(t, dir, "logs", "--days", "2", "--level", "error")
	require.NoError(t, err)
	assert.NotContains(t, out, "started")
	assert.Contains(t, out, "crashed")

	from := time.Now().UTC().Add(time.Hour).Format("2006-01-02 15:04:05")
	out, err = run(t, dir, "logs", "--from", from)
	require.NoError(t, err)
	assert.Empty(t, out)

	before, err := os.ReadDir(dir)
	require.NoError(t, err)
	_, err = run(t, dir, "logs")
	require.NoError(t, err)
	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	_, err = run(t, dir, "logs", "--from", "yesterday")
	assert.Error(t, err)
	_, err = run(t, dir, "logs", "--level", "loud")
	assert.ErrorIs(t, err, dotlogs.ErrInvalidLevel)
}

func TestParseFrom(t *testing.T) {
	want := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	got, err := parseFrom("2024-01-15 08:00:00")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = parseFrom("2024-01-15T09:00:00+01:00")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}
