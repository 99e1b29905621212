package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func buildZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestExecuteDirToArchive(t *testing.T) {
	srcRoot := filepath.Join(t.TempDir(), "My Export")
	writeFile(t, srcRoot, "Page "+idA+".md", "# Page\nbody\n")

	out := t.TempDir()
	result, err := Execute(context.Background(), RunOptions{
		Input:     srcRoot,
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := filepath.Join(out, "My Export.formatted.zip")
	if result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
	names := archiveNames(t, result.OutputPath)
	if len(names) != 1 || names[0] != "Page.md" {
		t.Errorf("archive entries = %v", names)
	}
}

func TestExecuteZipToArchive(t *testing.T) {
	in := filepath.Join(t.TempDir(), "export.zip")
	buildZip(t, in, map[string]string{
		"Export-1234/Page " + idA + ".md": "body",
	})

	out := t.TempDir()
	result, err := Execute(context.Background(), RunOptions{
		Input:     in,
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := filepath.Join(out, "export.zip.formatted")
	if result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
	// The wrapper folder is stripped on the way through.
	names := archiveNames(t, result.OutputPath)
	if len(names) != 1 || names[0] != "Page.md" {
		t.Errorf("archive entries = %v", names)
	}
}

func TestExecuteDoubleZip(t *testing.T) {
	dir := t.TempDir()
	inner := filepath.Join(dir, "inner.zip")
	buildZip(t, inner, map[string]string{
		"Page " + idA + ".md": "body",
	})
	innerData, err := os.ReadFile(inner)
	if err != nil {
		t.Fatal(err)
	}
	outer := filepath.Join(dir, "outer.zip")
	buildZip(t, outer, map[string]string{
		"inner.zip": string(innerData),
	})

	out := t.TempDir()
	result, err := Execute(context.Background(), RunOptions{
		Input:     outer,
		OutputDir: out,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	names := archiveNames(t, result.OutputPath)
	if len(names) != 1 || names[0] != "Page.md" {
		t.Errorf("archive entries = %v", names)
	}
}

func TestExecuteZipToDestDirClears(t *testing.T) {
	in := filepath.Join(t.TempDir(), "export.zip")
	buildZip(t, in, map[string]string{
		"Page " + idA + ".md": "body",
	})

	dest := t.TempDir()
	writeFile(t, dest, "stale.txt", "leftover")

	result, err := Execute(context.Background(), RunOptions{
		Input:   in,
		DestDir: dest,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.OutputPath != dest {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, dest)
	}

	if _, err := os.Stat(filepath.Join(dest, "stale.txt")); !os.IsNotExist(err) {
		t.Error("stale destination content survived")
	}
	if got := readFile(t, dest, "Page.md"); got != "body" {
		t.Errorf("Page.md = %q", got)
	}
}

func TestExecuteDestDirMergeKeepsExisting(t *testing.T) {
	srcRoot := t.TempDir()
	writeFile(t, srcRoot, "New "+idA+".md", "new")

	dest := t.TempDir()
	writeFile(t, dest, "keep.txt", "kept")

	if _, err := Execute(context.Background(), RunOptions{
		Input:   srcRoot,
		DestDir: dest,
		Merge:   true,
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := readFile(t, dest, "keep.txt"); got != "kept" {
		t.Errorf("keep.txt = %q", got)
	}
	if got := readFile(t, dest, "New.md"); got != "new" {
		t.Errorf("New.md = %q", got)
	}
}

func TestExecuteExclude(t *testing.T) {
	srcRoot := t.TempDir()
	writeFile(t, srcRoot, "Page "+idA+".md", "body")
	writeFile(t, srcRoot, "assets/skip.bin", "binary")

	dest := t.TempDir()
	if _, err := Execute(context.Background(), RunOptions{
		Input:   srcRoot,
		DestDir: dest,
		Exclude: []string{"assets/**"},
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "assets", "skip.bin")); !os.IsNotExist(err) {
		t.Error("excluded file materialized")
	}
	if _, err := os.Stat(filepath.Join(dest, "Page.md")); err != nil {
		t.Error("Page.md missing")
	}
}

func TestExecuteMissingInput(t *testing.T) {
	if _, err := Execute(context.Background(), RunOptions{
		Input: filepath.Join(t.TempDir(), "nope"),
	}); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestExecutePlainFileInput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(in, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Execute(context.Background(), RunOptions{Input: in}); err == nil {
		t.Fatal("expected error for non-zip file input")
	}
}
