package text

import "unicode"

// Direction is the dominant writing direction of a piece of text. Layout
// analysis uses it to put right-to-left lines back into reading order.
type Direction int

const (
	LTR Direction = iota
	RTL
	Neutral
)

func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	}
	return "Unknown"
}

// rtlScripts are the scripts with inherent right-to-left direction.
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// DetectDirection returns the dominant direction of text by majority vote
// over its strong directional characters. Text with no strong characters
// (digits, punctuation, whitespace only) is Neutral.
func DetectDirection(text string) Direction {
	var ltr, rtl int
	for _, r := range text {
		switch GetCharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	}
	return LTR
}

// GetCharDirection classifies a single character. Digits, punctuation,
// whitespace, and symbols are directionally Neutral; characters of the
// right-to-left scripts are RTL; every other letter is LTR.
func GetCharDirection(r rune) Direction {
	if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
		return Neutral
	}
	for _, script := range rtlScripts {
		if unicode.Is(script, r) {
			return RTL
		}
	}
	return LTR
}
