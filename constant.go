package dotlogs

import (
	"time"
)

// Log level constants, ordered by severity
const (
	LevelVerbose int64 = iota
	LevelDebug
	LevelInformation
	LevelWarning
	LevelError
	LevelFatal

	levelCount = 6
)

// Rotation intervals
const (
	RotateInfinite = "infinite"
	RotateYear     = "year"
	RotateMonth    = "month"
	RotateDay      = "day"
	RotateHour     = "hour"
	RotateMinute   = "minute"
)

// Filesystem layout
const (
	// DefaultDirectory holds the configuration document and all log files
	DefaultDirectory = "logs"
	// ConfigFileName is the configuration document inside the log directory
	ConfigFileName = "logs.toml"
	// configPrefix is the TOML table holding the configuration
	configPrefix = "dotlogs."
	// tempPattern marks in-flight configuration writes
	tempPattern = ".*.tmp"
)

// Line layout
const (
	// LinePrefix is written ahead of the configured output template
	LinePrefix = "[{Timestamp:yyyy-MM-dd HH:mm:ss}] [{Level:u3}] "
	// DefaultTemplate is the default output template suffix
	DefaultTemplate = "[{Caller}] [{File}:{Line}] {Message}{NewLine}"
	// timestampLayout is the Go layout of the line timestamp
	timestampLayout = "2006-01-02 15:04:05"
)

// Reader
const (
	// Default lookback when no time filter is supplied
	defaultLookback = 24 * time.Hour
	// Longest line the reader accepts
	maxLineSize = 1024 * 1024
)
