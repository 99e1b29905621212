// Package tree provides the source and sink primitives the pipeline runs
// over: enumerable entry trees (directories, zip archives) and writable
// destinations (zip archives, directory trees).
package tree

import (
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Entry is one immutable snapshot of a source tree member.
type Entry struct {
	Path    string // normalized tree-relative path
	Dir     bool
	ModTime time.Time // zero when the source does not record one

	// Open returns the entry's content. Nil for directories.
	Open func() (io.ReadCloser, error)
}

// Source enumerates the entries of an input tree in a stable order.
type Source interface {
	// Entries returns every entry exactly once. The returned order is the
	// enumeration order all later passes must follow.
	Entries() ([]Entry, error)
	Close() error
}

// Sink receives the materialized output tree.
type Sink interface {
	WriteFile(p string, data []byte, modTime time.Time) error
	EnsureDir(p string, modTime time.Time) error
	Close() error
}

// DirSet collects every original directory path implied by the entries:
// explicit directory entries plus all ancestors of every path.
func DirSet(entries []Entry) map[string]bool {
	dirs := make(map[string]bool)
	for _, e := range entries {
		if e.Dir {
			dirs[e.Path] = true
		}
		for d := DirOf(e.Path); d != ""; d = DirOf(d) {
			dirs[d] = true
		}
	}
	return dirs
}

// excluded reports whether a normalized path matches any exclude glob.
func excluded(p string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, p); err == nil && ok {
			return true
		}
	}
	return false
}
