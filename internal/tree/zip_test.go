package tree

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// buildZip writes a zip at path with the given name→content entries.
// Names ending in "/" become directory records.
func buildZip(t *testing.T, path string, entries map[string]string, order []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for _, name := range order {
		ew, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ew.Write([]byte(entries[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestZipSourceEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.zip")
	buildZip(t, path, map[string]string{
		"docs/":     "",
		"docs/a.md": "alpha",
		"top.txt":   "top",
	}, []string{"docs/", "docs/a.md", "top.txt"})

	src, err := OpenZipSource(path, false, nil)
	if err != nil {
		t.Fatalf("OpenZipSource: %v", err)
	}
	defer src.Close()

	entries, err := src.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if !entries[0].Dir || entries[0].Path != "docs" {
		t.Errorf("entry 0 = %+v, want docs directory", entries[0])
	}

	rc, err := entries[1].Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "alpha" {
		t.Errorf("content = %q", data)
	}
}

func TestZipSourceStripsWrapper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.zip")
	buildZip(t, path, map[string]string{
		"Export-abc/":       "",
		"Export-abc/a.md":   "a",
		"Export-abc/b/c.md": "c",
	}, []string{"Export-abc/", "Export-abc/a.md", "Export-abc/b/c.md"})

	src, err := OpenZipSource(path, true, nil)
	if err != nil {
		t.Fatalf("OpenZipSource: %v", err)
	}
	defer src.Close()

	entries, err := src.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	want := []string{"a.md", "b/c.md"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestZipSourceNoWrapperWhenTopLevelDiffers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.zip")
	buildZip(t, path, map[string]string{
		"Export-abc/a.md": "a",
		"readme.txt":      "r",
	}, []string{"Export-abc/a.md", "readme.txt"})

	src, err := OpenZipSource(path, true, nil)
	if err != nil {
		t.Fatalf("OpenZipSource: %v", err)
	}
	defer src.Close()

	entries, _ := src.Entries()
	var sawNested bool
	for _, e := range entries {
		if e.Path == "Export-abc/a.md" {
			sawNested = true
		}
	}
	if !sawNested {
		t.Error("wrapper stripped despite mixed top level")
	}
}

func TestZipSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.zip")
	sink, err := CreateZipSink(path)
	if err != nil {
		t.Fatalf("CreateZipSink: %v", err)
	}

	at := time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
	if err := sink.WriteFile("a/b/file.md", []byte("content"), at); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	want := []string{"a/", "a/b/", "a/b/file.md"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	file := r.File[2]
	if file.Method != zip.Deflate {
		t.Errorf("method = %d, want deflate", file.Method)
	}
	if !file.Modified.Equal(at) {
		t.Errorf("modified = %v, want %v", file.Modified, at)
	}
	rc, _ := file.Open()
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
}

func TestUnwrapInner(t *testing.T) {
	tmp := t.TempDir()
	inner := filepath.Join(tmp, "inner.zip")
	buildZip(t, inner, map[string]string{"a.md": "a"}, []string{"a.md"})
	innerData, err := os.ReadFile(inner)
	if err != nil {
		t.Fatal(err)
	}

	outer := filepath.Join(tmp, "outer.zip")
	buildZip(t, outer, map[string]string{"Export.zip": string(innerData)}, []string{"Export.zip"})

	extractDir := t.TempDir()
	got, ok, err := UnwrapInner(outer, extractDir)
	if err != nil {
		t.Fatalf("UnwrapInner: %v", err)
	}
	if !ok {
		t.Fatal("inner archive not detected")
	}
	if !IsZip(got) {
		t.Errorf("extracted %q is not a zip", got)
	}
}

func TestUnwrapInnerIgnoresPlainArchives(t *testing.T) {
	tmp := t.TempDir()
	plain := filepath.Join(tmp, "plain.zip")
	buildZip(t, plain, map[string]string{"a.md": "a"}, []string{"a.md"})

	_, ok, err := UnwrapInner(plain, t.TempDir())
	if err != nil {
		t.Fatalf("UnwrapInner: %v", err)
	}
	if ok {
		t.Error("plain archive reported as double-zipped")
	}
}

func TestIsZip(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "x.zip")
	buildZip(t, zipPath, map[string]string{"a": "a"}, []string{"a"})
	if !IsZip(zipPath) {
		t.Error("IsZip = false for a zip")
	}

	txt := filepath.Join(tmp, "x.txt")
	os.WriteFile(txt, []byte("not a zip"), 0644)
	if IsZip(txt) {
		t.Error("IsZip = true for a text file")
	}
	if IsZip(tmp) {
		t.Error("IsZip = true for a directory")
	}
}
