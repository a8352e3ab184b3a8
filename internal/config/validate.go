package config

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcpbridge/internal/mcp/validator"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidLogFormat indicates an unrecognized log_format value.
	ErrInvalidLogFormat = errors.New("log_format must be 'text' or 'json'")
)

// Validate checks a Config for validity. Settings problems are returned as
// errors; server problems are returned as validation issues, which may be
// warnings. An empty server table is valid.
func Validate(cfg *Config) ([]error, []*validator.ValidationError) {
	if cfg == nil {
		return []error{errors.New("config is nil")}, nil
	}

	var errs []error
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, &SettingError{Key: "log_format", Value: cfg.LogFormat, Err: ErrInvalidLogFormat})
	}

	if cfg.Servers == nil {
		return errs, nil
	}
	issues := validator.New(validator.WithAllowEmpty(true)).Validate(cfg.Servers)
	return errs, issues
}

// SettingError represents an invalid value for a setting.
type SettingError struct {
	Key   string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	return e.Key + ": " + e.Err.Error() + ": " + e.Value
}

func (e *SettingError) Unwrap() error {
	return e.Err
}
