// Package pipeline drives the three passes of the rename-resolve-rewrite
// run: propose a cleaned name for every entry, resolve proposed-name
// collisions into the final mapping, then materialize content into the sink
// with relative links re-pointed. Each pass completes before the next
// starts; link resolution needs the total, finalized mapping.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bianoble/export-tidy/internal/enrich"
	"github.com/bianoble/export-tidy/internal/mapping"
	"github.com/bianoble/export-tidy/internal/rename"
	"github.com/bianoble/export-tidy/internal/rewrite"
	"github.com/bianoble/export-tidy/internal/tree"
)

// Options configures one pipeline run.
type Options struct {
	RemoveTitle  bool
	RewriteLinks bool
	FolderIndex  bool

	// Merge treats names already present at the destination as reserved
	// instead of assuming an empty destination.
	Merge bool

	Provider enrich.Provider
	Retry    enrich.RetryPolicy
}

// existingNames is implemented by sinks that can report pre-existing
// destination names (directory sinks in merge mode).
type existingNames interface {
	NameExists(parent, name string) bool
}

// Run executes the three passes from src into sink. Per-entry failures are
// aggregated in the result; the returned error is reserved for enumeration
// and sink-level failures.
func Run(ctx context.Context, src tree.Source, sink tree.Sink, opts Options) (*Result, error) {
	entries, err := src.Entries()
	if err != nil {
		return nil, fmt.Errorf("enumerating source: %w", err)
	}

	// Pass 1: snapshot the directory set, then propose every entry's
	// cleaned name. The relocation rule needs global tree knowledge.
	dirs := tree.DirSet(entries)
	renamer := rename.New(opts.Provider, opts.Retry, opts.FolderIndex, dirs)
	for _, e := range entries {
		renamer.Propose(ctx, e.Path, e.Dir)
	}

	// Pass 2: resolve collisions in enumeration order. Ancestors resolve
	// before their children, so per-parent numbering is reproducible.
	var exists mapping.ExistsFunc
	if opts.Merge {
		if s, ok := sink.(existingNames); ok {
			exists = s.NameExists
		}
	}
	fm := mapping.New(renamer, mapping.NewRegistry(exists), dirs)
	for _, e := range entries {
		fm.Resolve(ctx, e.Path)
	}

	// Pass 3: materialize.
	result := &Result{}
	for _, e := range entries {
		r, _ := fm.Lookup(e.Path)
		ts := timestampFor(e, r)

		if e.Dir {
			if err := sink.EnsureDir(r.Path, ts); err != nil {
				result.Failures = append(result.Failures, EntryError{Original: e.Path, Final: r.Path, Err: err})
			}
			continue
		}

		data, err := readEntry(e)
		if err != nil {
			result.Failures = append(result.Failures, EntryError{Original: e.Path, Final: r.Path, Err: err})
			continue
		}

		lower := strings.ToLower(e.Path)
		switch {
		case strings.HasSuffix(lower, ".md") && (opts.RemoveTitle || opts.RewriteLinks):
			out, ok := rewrite.Markdown(ctx, data, e.Path, fm, rewrite.Options{
				RemoveTitle:  opts.RemoveTitle,
				RewriteLinks: opts.RewriteLinks,
			})
			if !ok {
				result.Failures = append(result.Failures, EntryError{
					Original: e.Path, Final: r.Path,
					Err: fmt.Errorf("content is not valid UTF-8; copied without rewriting"),
				})
			}
			data = out
		case strings.HasSuffix(lower, ".csv") && opts.RewriteLinks:
			out, ok := rewrite.Tabular(ctx, data, e.Path, fm)
			if !ok {
				result.Failures = append(result.Failures, EntryError{
					Original: e.Path, Final: r.Path,
					Err: fmt.Errorf("content is not valid UTF-8; copied without rewriting"),
				})
			}
			data = out
		}

		if err := sink.WriteFile(r.Path, data, ts); err != nil {
			result.Failures = append(result.Failures, EntryError{Original: e.Path, Final: r.Path, Err: err})
			continue
		}
		result.Written++
	}

	result.Truncated = renamer.Truncations()
	result.Collisions = fm.Collisions()
	return result, nil
}

// timestampFor picks the output timestamp: enrichment override first, then
// the source entry's own time, then the generation time.
func timestampFor(e tree.Entry, r mapping.Resolved) time.Time {
	if r.LastEdited != nil {
		return *r.LastEdited
	}
	if r.Created != nil {
		return *r.Created
	}
	if !e.ModTime.IsZero() {
		return e.ModTime
	}
	return time.Now()
}

func readEntry(e tree.Entry) ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	return data, nil
}
