package rewrite

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/bianoble/export-tidy/internal/mapping"
)

// tablePath finds path-like substrings in tabular content: one or more
// slash-joined segments, with an optional leading URI-scheme prefix captured
// separately so scheme-qualified references can be skipped.
var tablePath = regexp.MustCompile(`([A-Za-z][A-Za-z0-9+.\-]*:)?((?:[\w\-._~%]+/)+[\w\-._~%]+(?:\.[A-Za-z0-9]+)?)`)

var driveAbs = regexp.MustCompile(`^[A-Za-z]:\\`)

// Tabular rewrites path-like cells of one tabular (CSV) file, applying the
// same decode/resolve/recompute/encode treatment as markdown links. Returns
// content unmodified with false when it is not valid UTF-8.
func Tabular(ctx context.Context, content []byte, originalPath string, fm *mapping.FinalMapping) ([]byte, bool) {
	if !utf8.Valid(content) {
		return content, false
	}
	text := string(content)

	searchStart := 0
	for {
		loc := tablePath.FindStringSubmatchIndex(text[searchStart:])
		if loc == nil {
			break
		}
		matchEnd := searchStart + loc[1]

		// Group 1 present means a scheme prefix: not a tree path.
		if loc[2] >= 0 {
			searchStart = matchEnd
			continue
		}
		start, end := searchStart+loc[4], searchStart+loc[5]
		value := text[start:end]
		if driveAbs.MatchString(value) {
			searchStart = end
			continue
		}

		replacement := resolveLink(ctx, value, originalPath, fm)
		text = text[:start] + replacement + text[end:]
		searchStart = start + len(replacement)
	}
	return []byte(text), true
}
