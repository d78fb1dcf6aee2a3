package dotlogs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Sentinel errors, matched with errors.Is
var (
	ErrInvalidLevel = errors.New("invalid level")
	ErrMissingTime  = errors.New("time filter is required")
	ErrClosed       = errors.New("service closed")
)

// Caller identifies the code that emitted an event
type Caller struct {
	Function string
	File     string
	Line     int
}

// CallerAt captures the caller skip frames above the function calling it.
// CallerAt(0) describes the caller of CallerAt.
func CallerAt(skip int) Caller {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Caller{Function: "(unknown)"}
	}
	name := "(unknown)"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = shortFuncName(fn.Name())
	}
	return Caller{Function: name, File: file, Line: line}
}

// shortFuncName trims the package path and names anonymous functions after
// their enclosing function
func shortFuncName(full string) string {
	funcName := filepath.Base(full)
	parts := strings.Split(funcName, ".")
	lastPart := parts[len(parts)-1]
	if strings.HasPrefix(lastPart, "func") && len(lastPart) > 4 {
		isAnonymous := true
		for _, r := range lastPart[4:] {
			if !unicode.IsDigit(r) {
				isAnonymous = false
				break
			}
		}
		if isAnonymous && len(parts) > 1 {
			return fmt.Sprintf("(anonymous in %s)", parts[len(parts)-2])
		}
	}
	return lastPart
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "dotlogs: ") {
		format = "dotlogs: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// internalLog reports failures that cannot go through the sinks themselves
func internalLog(format string, args ...any) {
	if !strings.HasPrefix(format, "dotlogs: ") {
		format = "dotlogs: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
