package pipeline

import (
	"github.com/bianoble/export-tidy/internal/mapping"
	"github.com/bianoble/export-tidy/internal/rename"
)

// EntryError records a failure isolated to a single entry.
type EntryError struct {
	Original string
	Final    string // "" when the final path was never resolved
	Err      error
}

func (e EntryError) Error() string {
	if e.Final != "" {
		return e.Original + " -> " + e.Final + ": " + e.Err.Error()
	}
	return e.Original + ": " + e.Err.Error()
}

func (e EntryError) Unwrap() error {
	return e.Err
}

// NameTruncation re-exports the renamer's diagnostic.
type NameTruncation = rename.Truncation

// Collision re-exports the mapping's diagnostic.
type Collision = mapping.Collision

// Result holds the outcome of one pipeline run. A run with Failures is
// still a successful run; only configuration errors abort.
type Result struct {
	OutputPath string // the archive or directory that was produced
	Written    int    // file entries materialized
	Failures   []EntryError
	Truncated  []NameTruncation
	Collisions []Collision
}
