package dotlogs

import (
	"strings"
	"sync/atomic"
)

var levelNames = [levelCount]string{"Verbose", "Debug", "Information", "Warning", "Error", "Fatal"}

var levelCodes = [levelCount]string{"VRB", "DBG", "INF", "WRN", "ERR", "FTL"}

// Level converts a level string to its numeric constant. Matching is
// case-insensitive and accepts canonical names, "trace" and 3-letter codes.
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "verbose", "trace", "vrb", "trc":
		return LevelVerbose, nil
	case "debug", "dbg":
		return LevelDebug, nil
	case "information", "info", "inf":
		return LevelInformation, nil
	case "warning", "warn", "wrn":
		return LevelWarning, nil
	case "error", "err":
		return LevelError, nil
	case "fatal", "ftl":
		return LevelFatal, nil
	case "":
		return 0, fmtErrorf("%w: level cannot be empty (use %s)", ErrInvalidLevel, strings.Join(ValidLevels(), ", "))
	default:
		return 0, fmtErrorf("%w: '%s' (use %s)", ErrInvalidLevel, levelStr, strings.Join(ValidLevels(), ", "))
	}
}

// ValidLevels lists the canonical level names accepted by Level
func ValidLevels() []string {
	return []string{"Verbose", "Trace", "Debug", "Information", "Warning", "Error", "Fatal"}
}

// LevelName returns the canonical name of a level
func LevelName(level int64) string {
	if !validLevel(level) {
		return "Unknown"
	}
	return levelNames[level]
}

// LevelCode returns the 3-letter code written to log lines
func LevelCode(level int64) string {
	if !validLevel(level) {
		return "UNK"
	}
	return levelCodes[level]
}

// levelFromCode resolves a 3-letter code read back from a log line
func levelFromCode(code string) (int64, bool) {
	for i, c := range levelCodes {
		if strings.EqualFold(c, code) {
			return int64(i), true
		}
	}
	return 0, false
}

func validLevel(level int64) bool {
	return level >= LevelVerbose && level <= LevelFatal
}

// LevelGate is the threshold consulted on every emitted event
type LevelGate struct {
	threshold atomic.Int64
}

// NewLevelGate creates a gate at the given threshold
func NewLevelGate(level int64) *LevelGate {
	g := &LevelGate{}
	g.threshold.Store(level)
	return g
}

// SetThreshold parses levelStr and swaps the threshold. It reports false and
// leaves the gate untouched when the string is blank or unknown.
func (g *LevelGate) SetThreshold(levelStr string) bool {
	level, err := Level(levelStr)
	if err != nil {
		return false
	}
	g.threshold.Store(level)
	return true
}

// Set stores an already parsed level
func (g *LevelGate) Set(level int64) {
	g.threshold.Store(level)
}

// Threshold returns the current threshold
func (g *LevelGate) Threshold() int64 {
	return g.threshold.Load()
}

// Enabled reports whether an event at level passes the gate
func (g *LevelGate) Enabled(level int64) bool {
	return level >= g.threshold.Load()
}
