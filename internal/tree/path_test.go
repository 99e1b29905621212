package tree

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a/b/c", "a/b/c"},
		{`a\b\c`, "a/b/c"},
		{"./a/b", "a/b"},
		{"a/b/", "a/b"},
		{"a/./b", "a/b"},
		{"a/x/../b", "a/b"},
		{".", ""},
		{"", ""},
		{"/a/b", "a/b"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirOf(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a/b/c.md", "a/b"},
		{"c.md", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DirOf(tt.in); got != tt.want {
			t.Errorf("DirOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRel(t *testing.T) {
	tests := []struct{ target, base, want string }{
		{"a/b.md", "a", "b.md"},
		{"a/b.md", "", "a/b.md"},
		{"b.md", "a", "../b.md"},
		{"a/x/y.md", "a/z", "../x/y.md"},
		{"a", "a", "."},
		{"Page/!index.md", "Page", "!index.md"},
	}
	for _, tt := range tests {
		if got := Rel(tt.target, tt.base); got != tt.want {
			t.Errorf("Rel(%q, %q) = %q, want %q", tt.target, tt.base, got, tt.want)
		}
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct{ in, stem, ext string }{
		{"Notes.md", "Notes", ".md"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"plain", "plain", ""},
		{".gitignore", ".gitignore", ""},
	}
	for _, tt := range tests {
		stem, ext := SplitExt(tt.in)
		if stem != tt.stem || ext != tt.ext {
			t.Errorf("SplitExt(%q) = %q, %q; want %q, %q", tt.in, stem, ext, tt.stem, tt.ext)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("", "a", "", "b"); got != "a/b" {
		t.Errorf("Join = %q, want %q", got, "a/b")
	}
	if got := Join("", ""); got != "" {
		t.Errorf("Join of empties = %q, want empty", got)
	}
}
