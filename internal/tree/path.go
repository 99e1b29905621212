package tree

import (
	"path"
	"strings"
)

// Normalize converts a tree-relative path to the canonical form used
// throughout the pipeline: forward slashes, no leading "./", no trailing
// slash, "." and ".." segments collapsed. The empty string is the tree root.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}
	p = strings.TrimPrefix(p, "./")
	return strings.Trim(p, "/")
}

// DirOf returns the normalized parent of a normalized path ("" for the root).
func DirOf(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// Join joins normalized path segments, skipping empty ones.
func Join(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return path.Join(nonEmpty...)
}

// Rel computes the relative forward-slash path from baseDir to target.
// Both arguments are normalized tree-relative paths sharing the same root.
func Rel(target, baseDir string) string {
	if baseDir == "" {
		if target == "" {
			return "."
		}
		return target
	}
	baseSegs := strings.Split(baseDir, "/")
	var targetSegs []string
	if target != "" {
		targetSegs = strings.Split(target, "/")
	}

	common := 0
	for common < len(baseSegs) && common < len(targetSegs) && baseSegs[common] == targetSegs[common] {
		common++
	}

	var out []string
	for i := common; i < len(baseSegs); i++ {
		out = append(out, "..")
	}
	out = append(out, targetSegs[common:]...)
	if len(out) == 0 {
		return "."
	}
	return strings.Join(out, "/")
}

// SplitExt splits a file name into its stem and extension ("" when none).
// Dotfiles like ".gitignore" are all stem.
func SplitExt(name string) (stem, ext string) {
	ext = path.Ext(name)
	stem = name[:len(name)-len(ext)]
	if stem == "" {
		return name, ""
	}
	return stem, ext
}
