package font

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Encoding maps single-byte character codes to Unicode. Simple fonts
// (Type1, TrueType) declare one of the standard encodings by name, possibly
// overlaid with a /Differences array.
type Encoding interface {
	// Decode maps one character code to a rune. Codes with no mapping
	// decode to U+FFFD.
	Decode(b byte) rune

	// DecodeString maps a whole byte string.
	DecodeString(data []byte) string

	// Name returns the PDF name of the encoding.
	Name() string
}

// charmapEncoding adapts an x/text character map.
type charmapEncoding struct {
	name string
	cm   *charmap.Charmap
}

func (e *charmapEncoding) Decode(b byte) rune {
	return e.cm.DecodeByte(b)
}

func (e *charmapEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(e.cm.DecodeByte(b))
	}
	return sb.String()
}

func (e *charmapEncoding) Name() string { return e.name }

// tableEncoding is a 256-entry lookup table. Zero entries decode to U+FFFD.
type tableEncoding struct {
	name  string
	table [256]rune
}

func (e *tableEncoding) Decode(b byte) rune {
	if r := e.table[b]; r != 0 {
		return r
	}
	return '�'
}

func (e *tableEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(e.Decode(b))
	}
	return sb.String()
}

func (e *tableEncoding) Name() string { return e.name }

// CustomEncoding overlays replacement mappings on a base encoding, the
// shape produced by a font's /Differences array.
type CustomEncoding struct {
	base Encoding
	diff map[byte]rune
}

// NewCustomEncoding builds an encoding from a base and direct rune overrides.
func NewCustomEncoding(base Encoding, differences map[byte]rune) *CustomEncoding {
	return &CustomEncoding{base: base, diff: differences}
}

// NewCustomEncodingFromGlyphs builds an encoding from a base and glyph name
// overrides, as found in a /Differences array. Names that cannot be resolved
// to Unicode are ignored and fall through to the base encoding.
func NewCustomEncodingFromGlyphs(base Encoding, differences map[byte]string) *CustomEncoding {
	diff := make(map[byte]rune, len(differences))
	for code, name := range differences {
		if r, ok := glyphToRune(name); ok {
			diff[code] = r
		}
	}
	return &CustomEncoding{base: base, diff: diff}
}

func (e *CustomEncoding) Decode(b byte) rune {
	if r, ok := e.diff[b]; ok {
		return r
	}
	return e.base.Decode(b)
}

func (e *CustomEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(e.Decode(b))
	}
	return sb.String()
}

func (e *CustomEncoding) Name() string {
	return e.base.Name() + "+custom"
}

// The standard simple-font encodings.
var (
	WinAnsiEncoding  Encoding = &charmapEncoding{name: "WinAnsiEncoding", cm: charmap.Windows1252}
	MacRomanEncoding Encoding = &charmapEncoding{name: "MacRomanEncoding", cm: charmap.Macintosh}

	PDFDocEncoding        Encoding = &tableEncoding{name: "PDFDocEncoding", table: pdfDocTable()}
	StandardEncodingTable Encoding = &tableEncoding{name: "StandardEncoding", table: standardTable()}
)

// GetEncoding returns the named standard encoding. Unknown names fall back
// to WinAnsi, the most common in the wild.
func GetEncoding(name string) Encoding {
	switch strings.TrimPrefix(name, "/") {
	case "MacRomanEncoding":
		return MacRomanEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	case "StandardEncoding":
		return StandardEncodingTable
	default:
		return WinAnsiEncoding
	}
}

// DecodeWithEncoding decodes data using the named standard encoding.
func DecodeWithEncoding(data []byte, encodingName string) string {
	return GetEncoding(encodingName).DecodeString(data)
}

// NormalizeUnicode converts a string to NFC so that decomposed accents
// produced by some ToUnicode CMaps compare equal to their composed forms.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// IsValidUTF8 reports whether s is well-formed UTF-8.
func IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// DecodeUTF16BE decodes big-endian UTF-16 bytes, without a BOM. An odd
// trailing byte is dropped.
func DecodeUTF16BE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

// DecodeUTF16LE decodes little-endian UTF-16 bytes, without a BOM.
func DecodeUTF16LE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])|uint16(data[i+1])<<8)
	}
	return string(utf16.Decode(units))
}

// glyphToRune resolves a PostScript glyph name to a rune, covering the
// Adobe Glyph List subset plus the uniXXXX and uXXXX[X] conventions.
func glyphToRune(name string) (rune, bool) {
	if r, ok := glyphNameToUnicode[name]; ok {
		return r, true
	}
	if strings.HasPrefix(name, "uni") && len(name) == 7 {
		if v, err := strconv.ParseInt(name[3:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	if strings.HasPrefix(name, "u") && (len(name) == 5 || len(name) == 6 || len(name) == 7) {
		if v, err := strconv.ParseInt(name[1:], 16, 32); err == nil {
			return rune(v), true
		}
	}
	return 0, false
}

// pdfDocTable builds the PDFDocEncoding table: ASCII, the PDF-specific
// punctuation block at 0x80-0xA0, and Latin-1 above.
func pdfDocTable() [256]rune {
	var t [256]rune
	for i := 0x20; i <= 0x7E; i++ {
		t[i] = rune(i)
	}
	for i := 0xA1; i <= 0xFF; i++ {
		t[i] = rune(i)
	}
	specials := map[byte]rune{
		0x18: '˘', // breve
		0x19: 'ˇ', // caron
		0x1A: 'ˆ', // circumflex
		0x1B: '˙', // dotaccent
		0x1C: '˝', // hungarumlaut
		0x1D: '˛', // ogonek
		0x1E: '˚', // ring
		0x1F: '˜', // tilde
		0x80: '•', // bullet
		0x81: '†', // dagger
		0x82: '‡', // daggerdbl
		0x83: '…', // ellipsis
		0x84: '—', // emdash
		0x85: '–', // endash
		0x86: 'ƒ', // florin
		0x87: '⁄', // fraction
		0x88: '‹', // guilsinglleft
		0x89: '›', // guilsinglright
		0x8A: '−', // minus
		0x8B: '‰', // perthousand
		0x8C: '„', // quotedblbase
		0x8D: '“', // quotedblleft
		0x8E: '”', // quotedblright
		0x8F: '‘', // quoteleft
		0x90: '’', // quoteright
		0x91: '‚', // quotesinglbase
		0x92: '™', // trademark
		0x93: 'ﬁ', // fi
		0x94: 'ﬂ', // fl
		0x95: 'Ł', // Lslash
		0x96: 'Œ', // OE
		0x97: 'Š', // Scaron
		0x98: 'Ÿ', // Ydieresis
		0x99: 'Ž', // Zcaron
		0x9A: 'ı', // dotlessi
		0x9B: 'ł', // lslash
		0x9C: 'œ', // oe
		0x9D: 'š', // scaron
		0x9E: 'ž', // zcaron
		0xA0: '€', // Euro
	}
	for code, r := range specials {
		t[code] = r
	}
	return t
}

// standardTable builds the Adobe StandardEncoding table.
func standardTable() [256]rune {
	var t [256]rune
	for i := 0x20; i <= 0x7E; i++ {
		t[i] = rune(i)
	}
	specials := map[byte]rune{
		0x27: '’', // quoteright
		0x60: '‘', // quoteleft
		0xA1: '¡', // exclamdown
		0xA2: '¢', // cent
		0xA3: '£', // sterling
		0xA4: '⁄', // fraction
		0xA5: '¥', // yen
		0xA6: 'ƒ', // florin
		0xA7: '§', // section
		0xA8: '¤', // currency
		0xA9: '\'',     // quotesingle
		0xAA: '“', // quotedblleft
		0xAB: '«', // guillemotleft
		0xAC: '‹', // guilsinglleft
		0xAD: '›', // guilsinglright
		0xAE: 'ﬁ', // fi
		0xAF: 'ﬂ', // fl
		0xB1: '–', // endash
		0xB2: '†', // dagger
		0xB3: '‡', // daggerdbl
		0xB4: '·', // periodcentered
		0xB6: '¶', // paragraph
		0xB7: '•', // bullet
		0xB8: '‚', // quotesinglbase
		0xB9: '„', // quotedblbase
		0xBA: '”', // quotedblright
		0xBB: '»', // guillemotright
		0xBC: '…', // ellipsis
		0xBD: '‰', // perthousand
		0xBF: '¿', // questiondown
		0xC1: '`',      // grave
		0xC2: '´', // acute
		0xC3: 'ˆ', // circumflex
		0xC4: '˜', // tilde
		0xC5: '¯', // macron
		0xC6: '˘', // breve
		0xC7: '˙', // dotaccent
		0xC8: '¨', // dieresis
		0xCA: '˚', // ring
		0xCB: '¸', // cedilla
		0xCD: '˝', // hungarumlaut
		0xCE: '˛', // ogonek
		0xCF: 'ˇ', // caron
		0xD0: '—', // emdash
		0xE1: 'Æ', // AE
		0xE3: 'ª', // ordfeminine
		0xE8: 'Ł', // Lslash
		0xE9: 'Ø', // Oslash
		0xEA: 'Œ', // OE
		0xEB: 'º', // ordmasculine
		0xF1: 'æ', // ae
		0xF5: 'ı', // dotlessi
		0xF8: 'ł', // lslash
		0xF9: 'ø', // oslash
		0xFA: 'œ', // oe
		0xFB: 'ß', // germandbls
	}
	for code, r := range specials {
		t[code] = r
	}
	return t
}

// glyphNameToUnicode is the Adobe Glyph List subset covering the glyphs the
// standard encodings and common /Differences arrays name.
var glyphNameToUnicode = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@',
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',
	"exclamdown": '¡', "cent": '¢', "sterling": '£',
	"currency": '¤', "yen": '¥', "brokenbar": '¦',
	"section": '§', "dieresis": '¨', "copyright": '©',
	"ordfeminine": 'ª', "guillemotleft": '«', "logicalnot": '¬',
	"registered": '®', "macron": '¯', "degree": '°',
	"plusminus": '±', "twosuperior": '²', "threesuperior": '³',
	"acute": '´', "mu": 'µ', "paragraph": '¶',
	"periodcentered": '·', "cedilla": '¸', "onesuperior": '¹',
	"ordmasculine": 'º', "guillemotright": '»',
	"onequarter": '¼', "onehalf": '½', "threequarters": '¾',
	"questiondown": '¿',
	"Agrave": 'À', "Aacute": 'Á', "Acircumflex": 'Â',
	"Atilde": 'Ã', "Adieresis": 'Ä', "Aring": 'Å',
	"AE": 'Æ', "Ccedilla": 'Ç', "Egrave": 'È',
	"Eacute": 'É', "Ecircumflex": 'Ê', "Edieresis": 'Ë',
	"Igrave": 'Ì', "Iacute": 'Í', "Icircumflex": 'Î',
	"Idieresis": 'Ï', "Eth": 'Ð', "Ntilde": 'Ñ',
	"Ograve": 'Ò', "Oacute": 'Ó', "Ocircumflex": 'Ô',
	"Otilde": 'Õ', "Odieresis": 'Ö', "multiply": '×',
	"Oslash": 'Ø', "Ugrave": 'Ù', "Uacute": 'Ú',
	"Ucircumflex": 'Û', "Udieresis": 'Ü', "Yacute": 'Ý',
	"Thorn": 'Þ', "germandbls": 'ß',
	"agrave": 'à', "aacute": 'á', "acircumflex": 'â',
	"atilde": 'ã', "adieresis": 'ä', "aring": 'å',
	"ae": 'æ', "ccedilla": 'ç', "egrave": 'è',
	"eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î',
	"idieresis": 'ï', "eth": 'ð', "ntilde": 'ñ',
	"ograve": 'ò', "oacute": 'ó', "ocircumflex": 'ô',
	"otilde": 'õ', "odieresis": 'ö', "divide": '÷',
	"oslash": 'ø', "ugrave": 'ù', "uacute": 'ú',
	"ucircumflex": 'û', "udieresis": 'ü', "yacute": 'ý',
	"thorn": 'þ', "ydieresis": 'ÿ',
	"OE": 'Œ', "oe": 'œ', "Scaron": 'Š', "scaron": 'š',
	"Ydieresis": 'Ÿ', "Zcaron": 'Ž', "zcaron": 'ž',
	"florin": 'ƒ', "circumflex": 'ˆ', "caron": 'ˇ',
	"breve": '˘', "dotaccent": '˙', "ring": '˚',
	"ogonek": '˛', "tilde": '˜', "hungarumlaut": '˝',
	"endash": '–', "emdash": '—',
	"quoteleft": '‘', "quoteright": '’', "quotesinglbase": '‚',
	"quotedblleft": '“', "quotedblright": '”', "quotedblbase": '„',
	"dagger": '†', "daggerdbl": '‡', "bullet": '•',
	"ellipsis": '…', "perthousand": '‰',
	"guilsinglleft": '‹', "guilsinglright": '›',
	"fraction": '⁄', "Euro": '€', "trademark": '™',
	"minus": '−', "Lslash": 'Ł', "lslash": 'ł',
	"dotlessi": 'ı',
	"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ',
	"ffi": 'ﬃ', "ffl": 'ﬄ',
}
