package enrich

import (
	"github.com/rivo/uniseg"
)

// IsSingleEmoji reports whether s is exactly one emoji glyph: a single
// grapheme cluster whose first rune is pictographic. Multi-rune sequences
// (skin tones, ZWJ compositions, variation selectors) count as one glyph.
func IsSingleEmoji(s string) bool {
	if s == "" {
		return false
	}
	g := uniseg.NewGraphemes(s)
	if !g.Next() {
		return false
	}
	runes := g.Runes()
	if g.Next() {
		return false // more than one cluster
	}
	if len(runes) == 0 {
		return false
	}
	return pictographic(runes[0])
}

func pictographic(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // Mahjong tiles through symbols-extended
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows, stars
		return true
	case r == 0x203C || r == 0x2049 || r == 0x2122 || r == 0x2139:
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	default:
		return false
	}
}
