// Package exporttidy provides the public Go library API for export-tidy.
//
// export-tidy rewrites an exported content bundle (zip archive or directory
// tree) whose file and folder names carry trailing 32-hex object
// identifiers: names are cleaned, collisions disambiguated
// deterministically, and relative links inside markdown and CSV content are
// re-pointed at the final locations of their targets.
//
// # Basic Usage
//
//	result, err := exporttidy.Run(ctx, exporttidy.Options{
//	    Input: "Export-1234.zip",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", result.OutputPath)
package exporttidy

import (
	"context"

	"github.com/bianoble/export-tidy/internal/enrich"
	"github.com/bianoble/export-tidy/internal/pipeline"
)

// Options configures one run.
type Options struct {
	// Input is a zip archive or a directory tree (required).
	Input string

	// OutputDir receives the formatted archive (default "."). Ignored when
	// DestDir is set.
	OutputDir string

	// DestDir materializes the tree into a directory instead of an
	// archive. Existing contents are cleared unless Merge is set; clearing
	// is not rolled back if materialization fails partway.
	DestDir string
	Merge   bool

	// RemoveTitle drops the first line of every markdown file.
	RemoveTitle bool

	// NoRewriteLinks disables relative-link re-pointing.
	NoRewriteLinks bool

	// NoFolderIndex disables moving a markdown page inside its same-named
	// folder as "!index".
	NoFolderIndex bool

	// Exclude skips entries matching these doublestar globs.
	Exclude []string

	// Provider enriches identifiers with titles, icons, and timestamps.
	// Nil runs offline. Token is a shorthand that builds the default
	// provider; Provider wins when both are set.
	Provider Provider
	Token    string

	// Retry bounds enrichment attempts. Zero value = default policy.
	Retry RetryPolicy
}

// Run executes the rename-resolve-rewrite pipeline. The returned error is
// reserved for configuration failures; per-entry failures are aggregated
// in the result and do not fail the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	provider := opts.Provider
	if provider == nil && opts.Token != "" {
		provider = &enrich.NotionProvider{Token: opts.Token}
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = enrich.DefaultRetryPolicy()
	}

	return pipeline.Execute(ctx, pipeline.RunOptions{
		Input:        opts.Input,
		OutputDir:    opts.OutputDir,
		DestDir:      opts.DestDir,
		Merge:        opts.Merge,
		RemoveTitle:  opts.RemoveTitle,
		RewriteLinks: !opts.NoRewriteLinks,
		FolderIndex:  !opts.NoFolderIndex,
		Exclude:      opts.Exclude,
		Provider:     provider,
		Retry:        retry,
	})
}
