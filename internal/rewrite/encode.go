package rewrite

import (
	"fmt"
	"net/url"
	"strings"
)

// percentDecode undoes percent-encoding, falling back to the raw string on
// malformed escapes.
func percentDecode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// percentEncode escapes everything except unreserved characters, the path
// separator, and "!". Stricter than url.PathEscape on purpose: bare
// parentheses would terminate a markdown link target. "!" stays literal so
// relocated "!index" links keep their recognizable name.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '.' || c == '_' || c == '~' || c == '/' || c == '!':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
