package tree

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirSource enumerates a directory tree in lexical walk order.
type DirSource struct {
	Root    string
	Exclude []string // doublestar globs matched against relative paths
}

func (s *DirSource) Entries() ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == s.Root {
			return nil
		}
		rel, relErr := filepath.Rel(s.Root, p)
		if relErr != nil {
			return relErr
		}
		norm := Normalize(rel)
		if excluded(norm, s.Exclude) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		var modTime time.Time
		if info, infoErr := d.Info(); infoErr == nil {
			modTime = info.ModTime()
		}

		e := Entry{Path: norm, Dir: d.IsDir(), ModTime: modTime}
		if !d.IsDir() {
			abs := p
			e.Open = func() (io.ReadCloser, error) { return os.Open(abs) }
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.Root, err)
	}
	return entries, nil
}

func (s *DirSource) Close() error { return nil }

// DirSink materializes entries into a destination directory. Every write is
// containment-checked against the destination root so a hostile entry name
// cannot escape it.
type DirSink struct {
	root string // absolute
}

// NewDirSink opens dir as a sink, creating it if needed. It fails if dir
// exists and is not a directory.
func NewDirSink(dir string) (*DirSink, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving destination %s: %w", dir, err)
	}
	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		return nil, fmt.Errorf("destination %s exists and is not a directory", dir)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating destination %s: %w", dir, err)
	}
	return &DirSink{root: abs}, nil
}

func (s *DirSink) WriteFile(p string, data []byte, modTime time.Time) error {
	resolved, err := s.resolve(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	// Write to a temp file in the same directory, then rename into place.
	tmp, err := os.CreateTemp(dir, ".export-tidy-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, resolved); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", resolved, err)
	}
	success = true

	if !modTime.IsZero() {
		if err := os.Chtimes(resolved, modTime, modTime); err != nil {
			return fmt.Errorf("setting times on %s: %w", resolved, err)
		}
	}
	return nil
}

func (s *DirSink) EnsureDir(p string, modTime time.Time) error {
	resolved, err := s.resolve(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(resolved, 0755)
}

func (s *DirSink) Close() error { return nil }

// NameExists reports whether parent/name is already present at the
// destination. Used by the collision resolver when merging into a
// pre-populated directory.
func (s *DirSink) NameExists(parent, name string) bool {
	resolved, err := s.resolve(Join(parent, name))
	if err != nil {
		return true // unreachable names count as taken
	}
	_, statErr := os.Stat(resolved)
	return statErr == nil
}

// resolve maps a normalized tree path to an absolute path under the sink
// root, rejecting anything that escapes it after symlink resolution.
func (s *DirSink) resolve(p string) (string, error) {
	realRoot, err := resolveExistingPath(s.root)
	if err != nil {
		return "", fmt.Errorf("resolving destination root: %w", err)
	}
	candidate := filepath.Clean(filepath.Join(realRoot, filepath.FromSlash(p)))
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}
	rootPrefix := realRoot + string(filepath.Separator)
	if resolved != realRoot && !strings.HasPrefix(resolved, rootPrefix) {
		return "", fmt.Errorf("path %q resolves outside the destination %s", p, s.root)
	}
	return resolved, nil
}

// resolveExistingPath resolves symlinks for the longest existing prefix of
// the path, then appends the non-existing suffix.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// ClearDir removes the existing contents of dir, creating it if missing.
// It fails if dir exists and is not a directory.
func ClearDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	if err != nil {
		return fmt.Errorf("inspecting destination %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination %s exists and is not a directory", dir)
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing destination %s: %w", dir, err)
	}
	for _, child := range children {
		if err := os.RemoveAll(filepath.Join(dir, child.Name())); err != nil {
			return fmt.Errorf("clearing %s: %w", dir, err)
		}
	}
	return nil
}
