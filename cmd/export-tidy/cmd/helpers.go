package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/bianoble/export-tidy/internal/config"
	"github.com/bianoble/export-tidy/internal/enrich"
)

// loadConfig reads the options file. A missing file is an empty config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

// retryPolicy builds the enrichment retry policy from the config,
// falling back to the defaults.
func retryPolicy(cfg *config.Config) enrich.RetryPolicy {
	policy := enrich.DefaultRetryPolicy()
	if cfg.Enrich.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Enrich.MaxAttempts
	}
	policy.InitialBackoff = config.Duration(cfg.Enrich.InitialBackoff, policy.InitialBackoff)
	policy.MaxBackoff = config.Duration(cfg.Enrich.MaxBackoff, policy.MaxBackoff)
	return policy
}

// newProvider builds the enrichment provider, or nil for offline runs.
func newProvider(cfg *config.Config, token string) enrich.Provider {
	if token == "" {
		token = cfg.Token
	}
	if token == "" {
		return nil
	}
	return &enrich.NotionProvider{
		Token:   token,
		Timeout: config.Duration(cfg.Enrich.Timeout, 15*time.Second),
	}
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
