package dotlogs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
}

func TestFormatArgs(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		args []any
		want string
	}{
		{"empty", nil, ""},
		{"single string", []any{"hello"}, "hello"},
		{"mixed scalars", []any{"count", 3, int64(-4), uint(5), 1.5, true}, "count 3 -4 5 1.5 true"},
		{"nil", []any{"value", nil}, "value nil"},
		{"time", []any{ts}, "2024-01-15 10:30:00"},
		{"duration", []any{1500 * time.Millisecond}, "1.5s"},
		{"error", []any{"failed:", errors.New("boom")}, "failed: boom"},
		{"bytes", []any{[]byte{0x0a, 0xff}}, "0aff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatArgs(tt.args...))
		})
	}
}

func TestFormatArgsComposite(t *testing.T) {
	got := FormatArgs("at", point{X: 1, Y: 2})
	assert.Contains(t, got, "at ")
	assert.Contains(t, got, "X: (int) 1")
	assert.Contains(t, got, "Y: (int) 2")
	assert.NotContains(t, got, "\n")
}
