package dotlogs

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Equal(t, "dotlogs: test error: details", err.Error())

	err = fmtErrorf("dotlogs: already prefixed")
	assert.Equal(t, "dotlogs: already prefixed", err.Error())

	wrapped := fmtErrorf("%w: extra", ErrClosed)
	assert.True(t, errors.Is(wrapped, ErrClosed))
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	combined := combineErrors(e1, e2)
	assert.Equal(t, "first; second", combined.Error())
	assert.True(t, errors.Is(combined, e2))
}

func TestCallerAt(t *testing.T) {
	c := CallerAt(0)
	assert.Equal(t, "TestCallerAt", c.Function)
	assert.Equal(t, "utility_test.go", filepath.Base(c.File))
	assert.Greater(t, c.Line, 0)

	func() {
		inner := CallerAt(0)
		assert.True(t, strings.HasPrefix(inner.Function, "(anonymous in"), inner.Function)
	}()
}

func TestShortFuncName(t *testing.T) {
	assert.Equal(t, "Run", shortFuncName("github.com/x/y.(*Service).Run"))
	assert.Equal(t, "main", shortFuncName("main.main"))
	assert.Equal(t, "(anonymous in TestX)", shortFuncName("github.com/x/y.TestX.func1"))
}
