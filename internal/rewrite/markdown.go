// Package rewrite re-points relative links inside text content at the final
// locations of their targets, using the collision-resolved mapping. Two text
// formats are handled: markdown link/image syntax and loose path-like cells
// in tabular (CSV) content. Anything that is not valid UTF-8 passes through
// untouched.
package rewrite

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bianoble/export-tidy/internal/mapping"
	"github.com/bianoble/export-tidy/internal/tree"
)

// mdLink matches markdown links and images and captures the target.
var mdLink = regexp.MustCompile(`!?\[.+?\]\(([\w\-._~:/?=#%\]\[@!$&'()*+,;]+?)\)`)

// Options configures markdown rewriting.
type Options struct {
	// RemoveTitle drops the first line of the content unconditionally,
	// before any link processing.
	RemoveTitle bool
	// RewriteLinks enables relative-link re-pointing.
	RewriteLinks bool
}

// Markdown rewrites the relative links of one markdown file. originalPath is
// the file's path in the original tree; fm must already hold its final
// position. The second return is false when content is not valid UTF-8, in
// which case content is returned unmodified.
func Markdown(ctx context.Context, content []byte, originalPath string, fm *mapping.FinalMapping, opts Options) ([]byte, bool) {
	if !utf8.Valid(content) {
		return content, false
	}
	text := string(content)

	if opts.RemoveTitle {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}

	if opts.RewriteLinks {
		text = rewriteMatches(ctx, text, originalPath, fm, mdLink, func(target string) bool {
			// Scheme-qualified or absolute references stay untouched.
			return strings.Contains(target, ":/")
		})
	}
	return []byte(text), true
}

// rewriteMatches scans text for re's capture group 1, replacing each
// relative target in place. Scanning resumes past each replacement so the
// offsets stay correct as lengths change.
func rewriteMatches(ctx context.Context, text, originalPath string, fm *mapping.FinalMapping, re *regexp.Regexp, skip func(string) bool) string {
	searchStart := 0
	for {
		loc := re.FindStringSubmatchIndex(text[searchStart:])
		if loc == nil {
			break
		}
		start, end := searchStart+loc[2], searchStart+loc[3]
		target := text[start:end]
		if skip(target) {
			searchStart = end
			continue
		}

		replacement := resolveLink(ctx, target, originalPath, fm)
		text = text[:start] + replacement + text[end:]
		searchStart = start + len(replacement)
	}
	return text
}

// resolveLink maps one relative reference from a file's original location to
// the relative path between the two *final* locations.
func resolveLink(ctx context.Context, raw, fileOriginal string, fm *mapping.FinalMapping) string {
	decoded := percentDecode(raw)
	targetOriginal := tree.Normalize(tree.Join(tree.DirOf(fileOriginal), decoded))

	target := fm.Resolve(ctx, targetOriginal)
	file := fm.Resolve(ctx, fileOriginal)

	rel := tree.Rel(target.Path, tree.DirOf(file.Path))
	return percentEncode(rel)
}
