package config

// Config represents the optional .export-tidy.yaml options file. Command
// line flags override anything set here.
type Config struct {
	// Token authenticates against the enrichment API. Empty = offline.
	Token string `yaml:"token,omitempty"`

	Output  string `yaml:"output,omitempty"`
	DestDir string `yaml:"dest_dir,omitempty"`
	Merge   bool   `yaml:"merge,omitempty"`

	RemoveTitle  bool  `yaml:"remove_title,omitempty"`
	RewriteLinks *bool `yaml:"rewrite_links,omitempty"` // default true
	FolderIndex  *bool `yaml:"folder_index,omitempty"`  // default true

	Exclude []string `yaml:"exclude,omitempty"`

	Enrich EnrichConfig `yaml:"enrich,omitempty"`
}

// EnrichConfig tunes the enrichment retry policy. Durations are Go
// duration strings ("1s", "500ms").
type EnrichConfig struct {
	MaxAttempts    int    `yaml:"max_attempts,omitempty"`
	InitialBackoff string `yaml:"initial_backoff,omitempty"`
	MaxBackoff     string `yaml:"max_backoff,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"`
}

// RewriteLinksOrDefault returns the configured value, defaulting to true.
func (c *Config) RewriteLinksOrDefault() bool {
	if c.RewriteLinks == nil {
		return true
	}
	return *c.RewriteLinks
}

// FolderIndexOrDefault returns the configured value, defaulting to true.
func (c *Config) FolderIndexOrDefault() bool {
	if c.FolderIndex == nil {
		return true
	}
	return *c.FolderIndex
}
