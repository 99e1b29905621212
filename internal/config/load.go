package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Load reads and validates an options file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return &cfg, nil
}

// LoadOptional behaves like Load but treats a missing file as an empty
// config.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(unwrapAll(err)) {
		return &Config{}, nil
	}
	return cfg, err
}

func unwrapAll(err error) error {
	for {
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		inner := u.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Enrich.MaxAttempts < 0 {
		errs = append(errs, fmt.Sprintf("enrich.max_attempts must be positive, got %d", cfg.Enrich.MaxAttempts))
	}
	for _, field := range []struct{ name, value string }{
		{"enrich.initial_backoff", cfg.Enrich.InitialBackoff},
		{"enrich.max_backoff", cfg.Enrich.MaxBackoff},
		{"enrich.timeout", cfg.Enrich.Timeout},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", field.name, field.value))
		}
	}

	for _, glob := range cfg.Exclude {
		if !doublestar.ValidatePattern(glob) {
			errs = append(errs, fmt.Sprintf("exclude: invalid glob pattern %q", glob))
		}
	}

	return errs
}

// Duration parses a validated duration field, returning fallback when the
// field is empty.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
