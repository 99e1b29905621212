package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bianoble/export-tidy/internal/enrich"
	"github.com/bianoble/export-tidy/internal/tree"
)

// RunOptions selects the source→sink variant and the pipeline behavior for
// one invocation.
type RunOptions struct {
	// Input is a zip archive or a directory tree.
	Input string

	// OutputDir receives the formatted archive (default "."). Ignored when
	// DestDir is set.
	OutputDir string

	// DestDir, when set, materializes the tree into this directory instead
	// of an archive. Its existing contents are cleared first unless Merge
	// is set. Clearing is not transactional: a failure partway through
	// materialization leaves the destination partially written, with the
	// failure summary as the only signal.
	DestDir string
	Merge   bool

	RemoveTitle  bool
	RewriteLinks bool
	FolderIndex  bool
	Exclude      []string

	Provider enrich.Provider
	Retry    enrich.RetryPolicy
}

// Execute opens the source and sink for opts and runs the pipeline.
// Configuration failures (bad input path, unusable destination) return an
// error before anything is written; entry failures land in the result.
func Execute(ctx context.Context, opts RunOptions) (*Result, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	info, err := os.Stat(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", opts.Input, err)
	}

	var src tree.Source
	var tmpDir string
	zipInput := tree.IsZip(opts.Input)
	switch {
	case zipInput:
		tmpDir, err = os.MkdirTemp("", "export-tidy-")
		if err != nil {
			return nil, fmt.Errorf("creating working directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		srcPath := opts.Input
		if inner, ok, unwrapErr := tree.UnwrapInner(opts.Input, tmpDir); unwrapErr != nil {
			return nil, unwrapErr
		} else if ok {
			srcPath = inner
		}

		zs, openErr := tree.OpenZipSource(srcPath, true, opts.Exclude)
		if openErr != nil {
			return nil, openErr
		}
		src = zs
	case info.IsDir():
		src = &tree.DirSource{Root: opts.Input, Exclude: opts.Exclude}
	default:
		return nil, fmt.Errorf("input %s is neither a zip archive nor a directory", opts.Input)
	}
	defer src.Close()

	sink, outputPath, err := openSink(opts, tmpDir, outputDir, zipInput)
	if err != nil {
		return nil, err
	}

	result, runErr := Run(ctx, src, sink, Options{
		RemoveTitle:  opts.RemoveTitle,
		RewriteLinks: opts.RewriteLinks,
		FolderIndex:  opts.FolderIndex,
		Merge:        opts.Merge,
		Provider:     opts.Provider,
		Retry:        opts.Retry,
	})
	closeErr := sink.Close()
	if runErr != nil {
		return nil, runErr
	}
	if closeErr != nil {
		return nil, closeErr
	}

	result.OutputPath = outputPath
	return result, nil
}

// openSink builds the output side: a destination directory when DestDir is
// set, otherwise a formatted archive next to the input's name.
func openSink(opts RunOptions, tmpDir, outputDir string, zipInput bool) (tree.Sink, string, error) {
	if opts.DestDir != "" {
		destAbs, err := filepath.Abs(opts.DestDir)
		if err != nil {
			return nil, "", fmt.Errorf("resolving destination %s: %w", opts.DestDir, err)
		}
		if tmpDir != "" {
			tmpAbs, err := filepath.Abs(tmpDir)
			if err != nil {
				return nil, "", fmt.Errorf("resolving working directory: %w", err)
			}
			if destAbs == tmpAbs {
				return nil, "", fmt.Errorf("destination %s is the internal working directory", opts.DestDir)
			}
		}

		if !opts.Merge {
			if err := tree.ClearDir(opts.DestDir); err != nil {
				return nil, "", err
			}
		}
		sink, err := tree.NewDirSink(opts.DestDir)
		if err != nil {
			return nil, "", err
		}
		return sink, opts.DestDir, nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, "", fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	name := filepath.Base(opts.Input)
	if zipInput {
		name += ".formatted"
	} else {
		name += ".formatted.zip"
	}
	outputPath := filepath.Join(outputDir, name)

	sink, err := tree.CreateZipSink(outputPath)
	if err != nil {
		return nil, "", err
	}
	return sink, outputPath, nil
}
