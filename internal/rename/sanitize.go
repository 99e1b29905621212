package rename

import (
	"regexp"
	"strings"
)

// maxNameRunes is the longest base-name emitted; anything longer is cut and
// reported as a truncation diagnostic.
const maxNameRunes = 200

var (
	invalidNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRuns   = regexp.MustCompile(`\s{2,}`)
)

// Sanitize cleans a base-name for use as a file or directory name: illegal
// characters become single spaces, surrounding whitespace is trimmed,
// interior whitespace runs collapse to one space, and the result is capped
// at maxNameRunes runes. The second return reports whether the cap applied.
func Sanitize(name string) (string, bool) {
	name = invalidNameChars.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = whitespaceRuns.ReplaceAllString(name, " ")

	runes := []rune(name)
	if len(runes) > maxNameRunes {
		return string(runes[:maxNameRunes]), true
	}
	return name, false
}
