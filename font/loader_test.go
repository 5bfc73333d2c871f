package font

import (
	"math"
	"testing"

	"github.com/scribadev/scriba/core"
)

// refResolver resolves indirect references against a fixed object table.
func refResolver(objects map[int]core.Object) Resolver {
	return func(ref core.IndirectRef) (core.Object, error) {
		if obj, ok := objects[ref.Number]; ok {
			return obj, nil
		}
		return core.Null{}, nil
	}
}

func toUnicodeStream(body string) *core.Stream {
	return &core.Stream{Dict: core.Dict{}, Data: []byte(body)}
}

func TestLoadFontType1(t *testing.T) {
	dict := core.Dict{
		"Type":      core.Name("Font"),
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Helvetica"),
		"Encoding":  core.Name("WinAnsiEncoding"),
		"FirstChar": core.Int(65),
		"LastChar":  core.Int(66),
		"Widths":    core.Array{core.Int(600), core.Int(700)},
	}

	f, err := LoadFont(dict, nil)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	if f.BaseFont != "Helvetica" {
		t.Errorf("BaseFont = %q, want Helvetica", f.BaseFont)
	}
	if f.Subtype != "Type1" {
		t.Errorf("Subtype = %q, want Type1", f.Subtype)
	}
	if f.Encoding != "WinAnsiEncoding" {
		t.Errorf("Encoding = %q, want WinAnsiEncoding", f.Encoding)
	}
	if f.IsComposite() {
		t.Error("Type1 font reported composite")
	}

	if w := f.WidthForCode(65); w != 600 {
		t.Errorf("WidthForCode(65) = %v, want 600", w)
	}
	if w := f.WidthForCode(66); w != 700 {
		t.Errorf("WidthForCode(66) = %v, want 700", w)
	}
}

func TestLoadFontDefaultEncoding(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Times-Roman"),
	}

	f, err := LoadFont(dict, nil)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	if f.Encoding != "StandardEncoding" {
		t.Errorf("Encoding = %q, want StandardEncoding", f.Encoding)
	}
}

func TestLoadFontUnsupportedSubtype(t *testing.T) {
	dict := core.Dict{"Subtype": core.Name("Type5")}

	if _, err := LoadFont(dict, nil); err == nil {
		t.Fatal("expected error for unsupported subtype")
	}
}

func TestLoadFontIndirectWidths(t *testing.T) {
	objects := map[int]core.Object{
		7: core.Array{core.Int(250), core.Int(350)},
	}
	dict := core.Dict{
		"Subtype":   core.Name("TrueType"),
		"BaseFont":  core.Name("Custom"),
		"FirstChar": core.Int(32),
		"Widths":    core.IndirectRef{Number: 7},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	if w := f.WidthForCode(32); w != 250 {
		t.Errorf("WidthForCode(32) = %v, want 250", w)
	}
	if w := f.WidthForCode(33); w != 350 {
		t.Errorf("WidthForCode(33) = %v, want 350", w)
	}
}

func TestLoadFontDifferences(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Custom"),
		"Encoding": core.Dict{
			"BaseEncoding": core.Name("WinAnsiEncoding"),
			"Differences": core.Array{
				core.Int(65), core.Name("eacute"), core.Name("bullet"),
			},
		},
	}

	f, err := LoadFont(dict, nil)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if f.CustomEnc == nil {
		t.Fatal("expected a custom encoding from Differences")
	}

	// Codes 65 and 66 are remapped, 67 falls through to WinAnsi.
	if got := f.DecodeString([]byte{65, 66, 67}); got != "é•C" {
		t.Errorf("DecodeString = %q, want %q", got, "é•C")
	}
}

func TestLoadFontDifferencesUnknownGlyph(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Custom"),
		"Encoding": core.Dict{
			"Differences": core.Array{core.Int(65), core.Name("g123456")},
		},
	}

	f, err := LoadFont(dict, nil)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	// Unresolvable glyph names keep the base encoding's mapping.
	if got := f.DecodeByte(65); got != 'A' {
		t.Errorf("DecodeByte(65) = %q, want 'A'", got)
	}
}

func TestLoadFontDescriptor(t *testing.T) {
	objects := map[int]core.Object{
		3: core.Dict{
			"FontName":     core.Name("ABCDEF+Custom"),
			"Flags":        core.Int(4),
			"FontBBox":     core.Array{core.Int(-100), core.Int(-200), core.Int(1000), core.Int(900)},
			"Ascent":       core.Int(750),
			"Descent":      core.Int(-250),
			"MissingWidth": core.Int(400),
		},
	}
	dict := core.Dict{
		"Subtype":        core.Name("TrueType"),
		"BaseFont":       core.Name("ABCDEF+Custom"),
		"FontDescriptor": core.IndirectRef{Number: 3},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if f.Descriptor == nil {
		t.Fatal("expected a font descriptor")
	}

	if f.Descriptor.FontName != "ABCDEF+Custom" {
		t.Errorf("FontName = %q", f.Descriptor.FontName)
	}
	if f.Descriptor.Ascent != 750 || f.Descriptor.Descent != -250 {
		t.Errorf("Ascent/Descent = %v/%v", f.Descriptor.Ascent, f.Descriptor.Descent)
	}
	if f.Descriptor.FontBBox != [4]float64{-100, -200, 1000, 900} {
		t.Errorf("FontBBox = %v", f.Descriptor.FontBBox)
	}

	// MissingWidth covers codes outside the (absent) Widths array.
	if w := f.WidthForCode(200); w != 400 {
		t.Errorf("WidthForCode(200) = %v, want 400", w)
	}
}

func TestLoadFontToUnicode(t *testing.T) {
	cmapBody := `
/CIDInit /ProcSet findresource begin
begincmap
1 begincodespacerange
<00> <FF>
endcodespacerange
2 beginbfchar
<41> <0042>
<42> <0043>
endbfchar
endcmap
`
	objects := map[int]core.Object{
		9: toUnicodeStream(cmapBody),
	}
	dict := core.Dict{
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Custom"),
		"ToUnicode": core.IndirectRef{Number: 9},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if f.ToUnicodeCMap == nil {
		t.Fatal("expected a ToUnicode CMap")
	}

	if got := f.DecodeString([]byte{0x41, 0x42}); got != "BC" {
		t.Errorf("DecodeString = %q, want BC", got)
	}
}

func TestLoadType0Font(t *testing.T) {
	objects := map[int]core.Object{
		5: core.Array{core.IndirectRef{Number: 6}},
		6: core.Dict{
			"Type":     core.Name("Font"),
			"Subtype":  core.Name("CIDFontType2"),
			"BaseFont": core.Name("NotoSansJP"),
			"DW":       core.Int(1000),
			"W": core.Array{
				core.Int(1), core.Array{core.Int(500), core.Int(600)},
				core.Int(10), core.Int(20), core.Int(800),
			},
		},
	}
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name("NotoSansJP"),
		"Encoding":        core.Name("Identity-H"),
		"DescendantFonts": core.IndirectRef{Number: 5},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	if !f.IsComposite() {
		t.Fatal("Type0 font not reported composite")
	}
	if f.CodeBytes() != 2 {
		t.Errorf("CodeBytes = %d, want 2", f.CodeBytes())
	}
	if f.IsVertical() {
		t.Error("Identity-H reported vertical")
	}

	tests := []struct {
		cid  int
		want float64
	}{
		{1, 500},
		{2, 600},
		{15, 800},
		{20, 800},
		{99, 1000}, // DW fallback
	}
	for _, tt := range tests {
		if got := f.WidthForCode(tt.cid); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WidthForCode(%d) = %v, want %v", tt.cid, got, tt.want)
		}
	}
}

func TestLoadType0FontVertical(t *testing.T) {
	objects := map[int]core.Object{
		6: core.Dict{
			"Subtype":  core.Name("CIDFontType0"),
			"BaseFont": core.Name("NotoSansJP"),
		},
	}
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name("NotoSansJP"),
		"Encoding":        core.Name("Identity-V"),
		"DescendantFonts": core.Array{core.IndirectRef{Number: 6}},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if !f.IsVertical() {
		t.Error("Identity-V not reported vertical")
	}
}

func TestLoadType0FontMissingDescendant(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type0"),
		"BaseFont": core.Name("Broken"),
	}

	if _, err := LoadFont(dict, nil); err == nil {
		t.Fatal("expected error for missing DescendantFonts")
	}
}

func TestCompositeCodes(t *testing.T) {
	objects := map[int]core.Object{
		6: core.Dict{"Subtype": core.Name("CIDFontType2")},
	}
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"DescendantFonts": core.Array{core.IndirectRef{Number: 6}},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	codes := f.Codes([]byte{0x00, 0x41, 0x01, 0x02, 0x03})
	want := []int{0x41, 0x0102, 0x03}
	if len(codes) != len(want) {
		t.Fatalf("Codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("Codes[%d] = %#x, want %#x", i, codes[i], want[i])
		}
	}
}

func TestCompositeWithoutToUnicode(t *testing.T) {
	objects := map[int]core.Object{
		6: core.Dict{"Subtype": core.Name("CIDFontType2")},
	}
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"DescendantFonts": core.Array{core.IndirectRef{Number: 6}},
	}

	f, err := LoadFont(dict, refResolver(objects))
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	// CIDs carry no Unicode meaning without a ToUnicode CMap.
	if got := f.DecodeString([]byte{0x00, 0x41, 0x00, 0x42}); got != "��" {
		t.Errorf("DecodeString = %q, want two replacement runes", got)
	}
}
