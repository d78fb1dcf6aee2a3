package dotlogs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/AlexandreIorio/dotlogs/formatter"
)

// Config holds the service configuration document
type Config struct {
	// Sinks
	LogToConsole bool `toml:"log_to_console"`
	LogToFile    bool `toml:"log_to_file"`

	// Threshold, any name accepted by Level
	LogLevel string `toml:"log_level"`

	// File rotation
	RetentionCount   int64  `toml:"retention_count"`   // Rotated files kept, 0 keeps all
	RotationInterval string `toml:"rotation_interval"` // infinite, year, month, day, hour or minute
	LogFileName      string `toml:"log_file_name"`     // Base name, the period is inserted before the extension

	// Appended to the fixed timestamp and level prefix
	OutputTemplate string `toml:"output_template"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	LogToConsole: true,
	LogToFile:    true,

	LogLevel: "Information",

	RetentionCount:   30,
	RotationInterval: RotateDay,
	LogFileName:      "log.txt",

	OutputTemplate: DefaultTemplate,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Keys absent from the file keep their default value.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if _, err := Level(c.LogLevel); err != nil {
		return err
	}

	if c.RetentionCount < 0 {
		return fmtErrorf("retention_count cannot be negative: %d", c.RetentionCount)
	}

	if !validInterval(c.RotationInterval) {
		return fmtErrorf("invalid rotation_interval: '%s' (use infinite, year, month, day, hour or minute)",
			c.RotationInterval)
	}

	name := strings.TrimSpace(c.LogFileName)
	if name == "" {
		return fmtErrorf("log_file_name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmtErrorf("log_file_name must not contain a path separator: %s", c.LogFileName)
	}
	if name == ConfigFileName {
		return fmtErrorf("log_file_name collides with the configuration document: %s", c.LogFileName)
	}

	if _, err := formatter.New(LinePrefix + c.OutputTemplate); err != nil {
		return fmtErrorf("invalid output_template: %w", err)
	}

	return nil
}

// Level returns the parsed threshold
func (c *Config) Level() (int64, error) {
	return Level(c.LogLevel)
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// Equal reports whether two configurations are the same for change detection.
// Levels are compared by severity, so "trace" equals "Verbose".
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return sameLevel(c.LogLevel, other.LogLevel) &&
		c.RetentionCount == other.RetentionCount &&
		strings.EqualFold(c.RotationInterval, other.RotationInterval) &&
		c.LogFileName == other.LogFileName &&
		c.OutputTemplate == other.OutputTemplate &&
		c.LogToConsole == other.LogToConsole &&
		c.LogToFile == other.LogToFile
}

func sameLevel(a, b string) bool {
	la, errA := Level(a)
	lb, errB := Level(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return la == lb
}

// Diff describes what changed between two configurations
func Diff(prev, curr *Config) []string {
	if prev == nil || curr == nil {
		return nil
	}

	var changes []string
	if !sameLevel(prev.LogLevel, curr.LogLevel) {
		changes = append(changes, fmt.Sprintf("Log level changed from %s to %s", prev.LogLevel, curr.LogLevel))
	}
	if prev.RetentionCount != curr.RetentionCount {
		changes = append(changes, fmt.Sprintf("Log retention count changed from %d to %d",
			prev.RetentionCount, curr.RetentionCount))
	}
	if !strings.EqualFold(prev.RotationInterval, curr.RotationInterval) {
		changes = append(changes, fmt.Sprintf("Log rotation interval changed from %s to %s",
			prev.RotationInterval, curr.RotationInterval))
	}
	if prev.LogFileName != curr.LogFileName {
		changes = append(changes, fmt.Sprintf("Log file name changed from %s to %s",
			prev.LogFileName, curr.LogFileName))
	}
	if prev.OutputTemplate != curr.OutputTemplate {
		changes = append(changes, "Log output template changed")
	}
	if prev.LogToConsole != curr.LogToConsole {
		changes = append(changes, "Console logging "+enabledWord(curr.LogToConsole))
	}
	if prev.LogToFile != curr.LogToFile {
		changes = append(changes, "File logging "+enabledWord(curr.LogToFile))
	}
	return changes
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
