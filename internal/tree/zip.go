package tree

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IsZip reports whether path is a readable zip archive.
func IsZip(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	_ = r.Close()
	return true
}

// ZipSource enumerates the entries of a zip archive in archive order.
type ZipSource struct {
	rc *zip.ReadCloser

	// StripWrapper removes the shared top-level folder when every entry's
	// first path segment is identical.
	StripWrapper bool
	Exclude      []string
}

// OpenZipSource opens a zip archive as a pipeline source.
func OpenZipSource(path string, stripWrapper bool, exclude []string) (*ZipSource, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	return &ZipSource{rc: rc, StripWrapper: stripWrapper, Exclude: exclude}, nil
}

func (s *ZipSource) Entries() ([]Entry, error) {
	wrapper := ""
	if s.StripWrapper {
		wrapper = wrapperFolder(s.rc.File)
	}

	var entries []Entry
	for _, f := range s.rc.File {
		norm := Normalize(f.Name)
		if norm == "" {
			continue
		}
		if wrapper != "" {
			if norm == wrapper {
				continue
			}
			if strings.HasPrefix(norm, wrapper+"/") {
				norm = norm[len(wrapper)+1:]
			}
		}
		if excluded(norm, s.Exclude) {
			continue
		}

		isDir := f.FileInfo().IsDir()
		e := Entry{Path: norm, Dir: isDir, ModTime: f.Modified}
		if !isDir {
			file := f
			e.Open = func() (io.ReadCloser, error) { return file.Open() }
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *ZipSource) Close() error { return s.rc.Close() }

// wrapperFolder returns the single shared top-level folder name, or "" when
// the archive's entries do not all live under one.
func wrapperFolder(files []*zip.File) string {
	tops := make(map[string]bool)
	sawNested := false
	for _, f := range files {
		norm := Normalize(f.Name)
		if norm == "" {
			continue
		}
		if i := strings.IndexByte(norm, '/'); i >= 0 {
			tops[norm[:i]] = true
			sawNested = true
		} else {
			tops[norm] = true
		}
	}
	if !sawNested || len(tops) != 1 {
		return ""
	}
	for t := range tops {
		return t
	}
	return ""
}

// UnwrapInner detects the double-archive layout some export services
// produce: an outer zip whose only top-level file is itself a zip. When
// found, the inner archive is extracted into tmpDir and its path returned.
func UnwrapInner(zipPath, tmpDir string) (string, bool, error) {
	rc, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", false, fmt.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer rc.Close()

	var inner *zip.File
	count := 0
	for _, f := range rc.File {
		norm := Normalize(f.Name)
		if norm == "" || strings.Contains(norm, "/") || f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(norm), ".zip") {
			inner = f
			count++
		}
	}
	if count != 1 {
		return "", false, nil
	}

	dst := filepath.Join(tmpDir, filepath.Base(inner.Name))
	src, err := inner.Open()
	if err != nil {
		return "", false, fmt.Errorf("opening inner archive %s: %w", inner.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", false, fmt.Errorf("extracting inner archive: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return "", false, fmt.Errorf("extracting inner archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", false, fmt.Errorf("extracting inner archive: %w", err)
	}
	return dst, true, nil
}

// ZipSink writes entries into a deflate-compressed zip archive, emitting
// explicit directory records ahead of the files they contain.
type ZipSink struct {
	f    *os.File
	w    *zip.Writer
	dirs map[string]bool
}

// CreateZipSink creates (or truncates) the archive at path.
func CreateZipSink(path string) (*ZipSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", path, err)
	}
	return &ZipSink{f: f, w: zip.NewWriter(f), dirs: make(map[string]bool)}, nil
}

func (s *ZipSink) WriteFile(p string, data []byte, modTime time.Time) error {
	if err := s.EnsureDir(DirOf(p), modTime); err != nil {
		return err
	}
	if modTime.IsZero() {
		modTime = time.Now()
	}
	hdr := &zip.FileHeader{Name: p, Method: zip.Deflate, Modified: modTime}
	w, err := s.w.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", p, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", p, err)
	}
	return nil
}

// EnsureDir emits directory records for p and its ancestors, once each.
func (s *ZipSink) EnsureDir(p string, modTime time.Time) error {
	if p == "" || s.dirs[p] {
		return nil
	}
	if err := s.EnsureDir(DirOf(p), modTime); err != nil {
		return err
	}
	if modTime.IsZero() {
		modTime = time.Now()
	}
	hdr := &zip.FileHeader{Name: p + "/", Modified: modTime}
	if _, err := s.w.CreateHeader(hdr); err != nil {
		return fmt.Errorf("creating directory record %s: %w", p, err)
	}
	s.dirs[p] = true
	return nil
}

func (s *ZipSink) Close() error {
	if err := s.w.Close(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return s.f.Close()
}
