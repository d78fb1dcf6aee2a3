package dotlogs

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the current
// configuration and persists the result. Each override should be in the
// format "key=value", with keys as they appear in the configuration document.
//
// Example:
//
//	svc, _ := dotlogs.New("logs")
//	err := svc.ApplyOverride(
//	    "log_level=Debug",
//	    "rotation_interval=hour",
//	    "log_to_console=false",
//	)
func (s *Service) ApplyOverride(overrides ...string) error {
	_, err := s.modifyConfiguration(func(cfg *Config) (bool, error) {
		var errs []error
		for _, override := range overrides {
			key, value, err := parseKeyValue(override)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := applyConfigField(cfg, key, value); err != nil {
				errs = append(errs, err)
			}
		}

		if len(errs) > 0 {
			return false, combineConfigErrors(errs)
		}
		return true, nil
	})
	return err
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("dotlogs: multiple configuration errors:")
	for i, err := range errs {
		// Drop the prefix of individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), "dotlogs: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config
func applyConfigField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "log_to_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for log_to_console '%s': %w", value, err)
		}
		cfg.LogToConsole = boolVal
	case "log_to_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for log_to_file '%s': %w", value, err)
		}
		cfg.LogToFile = boolVal
	case "log_level":
		if _, err := Level(value); err != nil {
			return err
		}
		cfg.LogLevel = value
	case "retention_count":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for retention_count '%s': %w", value, err)
		}
		cfg.RetentionCount = intVal
	case "rotation_interval":
		if !validInterval(value) {
			return fmtErrorf("invalid rotation_interval '%s'", value)
		}
		cfg.RotationInterval = strings.ToLower(value)
	case "log_file_name":
		cfg.LogFileName = value
	case "output_template":
		cfg.OutputTemplate = value
	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
