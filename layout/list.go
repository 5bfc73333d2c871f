package layout

import (
	"strings"
	"unicode"
)

// bulletRunes are the glyphs PDF producers commonly emit for bullets,
// including the Symbol/ZapfDingbats shapes and the hyphen.
var bulletRunes = map[rune]bool{
	'•': true, // bullet
	'◦': true, // white bullet
	'▪': true, // black small square
	'●': true, // black circle
	'○': true, // white circle
	'⁃': true, // hyphen bullet
	'∙': true, // bullet operator
	'·': true, // middle dot
	'-':      true,
	'*':      true,
	'–': true, // en dash
}

// SplitListMarker splits a list item's text into its marker and content.
// It recognizes bullet glyphs and short ordinal markers ("1.", "12)",
// "a.", "iv."). The second return is the text with the marker and its
// trailing space removed; ok is false when the text carries no marker.
func SplitListMarker(s string) (marker, rest string, ok bool) {
	trimmed := strings.TrimLeft(s, " \t")
	if trimmed == "" {
		return "", s, false
	}

	runes := []rune(trimmed)

	// Bullet glyph followed by whitespace or nothing.
	if bulletRunes[runes[0]] && (len(runes) == 1 || unicode.IsSpace(runes[1])) {
		return string(runes[0]), strings.TrimLeft(string(runes[1:]), " \t"), true
	}

	// Ordinal marker: up to three digits or letters, then '.' or ')',
	// then whitespace.
	end := 0
	for end < len(runes) && end < 3 && (unicode.IsDigit(runes[end]) || unicode.IsLetter(runes[end])) {
		end++
	}
	if end == 0 || end >= len(runes) {
		return "", s, false
	}
	if runes[end] != '.' && runes[end] != ')' {
		return "", s, false
	}
	if end+1 < len(runes) && !unicode.IsSpace(runes[end+1]) {
		return "", s, false
	}

	// Mixed digit/letter sequences ("1a.") are not markers.
	digits := unicode.IsDigit(runes[0])
	for i := 1; i < end; i++ {
		if unicode.IsDigit(runes[i]) != digits {
			return "", s, false
		}
	}
	// Letter markers are single letters or roman numerals.
	if !digits && end > 1 && !isRoman(string(runes[:end])) {
		return "", s, false
	}

	return string(runes[:end+1]), strings.TrimLeft(string(runes[end+1:]), " \t"), true
}

// IsListItem reports whether the text begins with a list marker.
func IsListItem(s string) bool {
	_, _, ok := SplitListMarker(s)
	return ok
}

func isRoman(s string) bool {
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'i', 'v', 'x', 'l', 'c', 'd', 'm':
		default:
			return false
		}
	}
	return true
}
