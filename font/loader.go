package font

import (
	"fmt"

	"github.com/scribadev/scriba/core"
)

// Resolver resolves indirect references encountered while loading a font
// dictionary.
type Resolver func(core.IndirectRef) (core.Object, error)

// FontDescriptor contains font metrics and properties
type FontDescriptor struct {
	FontName     string
	Flags        int
	FontBBox     [4]float64 // [llx lly urx ury]
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	StemV        float64
	StemH        float64
	AvgWidth     float64
	MaxWidth     float64
	MissingWidth float64
	FontFile     *core.Stream // Type1 font program
	FontFile2    *core.Stream // TrueType font program
	FontFile3    *core.Stream // Type1C or CIDFont program
}

// LoadFont builds a Font from a PDF font dictionary. Simple fonts (Type1,
// MMType1, TrueType, Type3) and composite Type0 fonts are supported.
func LoadFont(fontDict core.Dict, resolver Resolver) (*Font, error) {
	subtype := extractName(fontDict.Get("Subtype"))

	switch subtype {
	case "Type0":
		return loadType0Font(fontDict, resolver)
	case "Type1", "MMType1", "TrueType", "Type3":
		return loadSimpleFont(fontDict, subtype, resolver)
	default:
		return nil, fmt.Errorf("unsupported font subtype: %q", subtype)
	}
}

// loadSimpleFont handles the single-byte font dictionaries. They share the
// same /Encoding, /Widths and /FontDescriptor layout.
func loadSimpleFont(fontDict core.Dict, subtype string, resolver Resolver) (*Font, error) {
	f := NewFont(extractName(fontDict.Get("Name")), extractName(fontDict.Get("BaseFont")), subtype)

	if err := parseSimpleEncoding(f, fontDict, resolver); err != nil {
		return nil, fmt.Errorf("parse encoding: %w", err)
	}

	parseSimpleWidths(f, fontDict, resolver)

	// The descriptor is absent for the Standard 14 fonts.
	if fd := parseFontDescriptor(fontDict.Get("FontDescriptor"), resolver); fd != nil {
		f.Descriptor = fd
		f.MissingWidth = fd.MissingWidth
	}

	if cmap := loadToUnicode(fontDict.Get("ToUnicode"), resolver); cmap != nil {
		f.ToUnicodeCMap = cmap
	}

	return f, nil
}

// loadType0Font handles composite fonts. Glyphs are addressed by two-byte
// CIDs and widths come from the descendant CIDFont's /W and /DW entries.
func loadType0Font(fontDict core.Dict, resolver Resolver) (*Font, error) {
	f := NewFont(extractName(fontDict.Get("Name")), extractName(fontDict.Get("BaseFont")), "Type0")
	f.composite = true
	f.cidDefaultWidth = 1000.0

	f.Encoding = "Identity-H"
	if enc := extractName(resolve(fontDict.Get("Encoding"), resolver)); enc != "" {
		f.Encoding = enc
	}

	if cmap := loadToUnicode(fontDict.Get("ToUnicode"), resolver); cmap != nil {
		f.ToUnicodeCMap = cmap
	}

	descDict, err := descendantFontDict(fontDict, resolver)
	if err != nil {
		return nil, err
	}

	if descSubtype := extractName(descDict.Get("Subtype")); descSubtype != "CIDFontType0" && descSubtype != "CIDFontType2" {
		return nil, fmt.Errorf("descendant is not a CIDFont: %q", descSubtype)
	}

	if f.BaseFont == "" {
		f.BaseFont = extractName(descDict.Get("BaseFont"))
	}

	if dw := resolve(descDict.Get("DW"), resolver); dw != nil {
		if v := getNumber(dw); v > 0 {
			f.cidDefaultWidth = v
		}
	}
	f.cidWidths = parseCIDWidths(resolve(descDict.Get("W"), resolver))

	if fd := parseFontDescriptor(descDict.Get("FontDescriptor"), resolver); fd != nil {
		f.Descriptor = fd
	}

	return f, nil
}

// parseSimpleEncoding applies the /Encoding entry: either the name of a
// predefined encoding, or a dictionary with an optional /BaseEncoding and a
// /Differences overlay.
func parseSimpleEncoding(f *Font, fontDict core.Dict, resolver Resolver) error {
	encodingObj := resolve(fontDict.Get("Encoding"), resolver)
	if encodingObj == nil {
		f.Encoding = "StandardEncoding"
		return nil
	}

	if name, ok := encodingObj.(core.Name); ok {
		f.Encoding = string(name)
		return nil
	}

	dict, ok := encodingObj.(core.Dict)
	if !ok {
		return fmt.Errorf("invalid encoding type: %T", encodingObj)
	}

	f.Encoding = "StandardEncoding"
	if name, ok := resolve(dict.Get("BaseEncoding"), resolver).(core.Name); ok {
		f.Encoding = string(name)
	}

	diffs, ok := resolve(dict.Get("Differences"), resolver).(core.Array)
	if !ok {
		return nil
	}

	// Differences is a run-length list: an integer starts a code, the
	// names that follow fill consecutive codes.
	glyphs := make(map[byte]string)
	code := 0
	for _, item := range diffs {
		switch v := item.(type) {
		case core.Int:
			code = int(v)
		case core.Real:
			code = int(v)
		case core.Name:
			if code >= 0 && code < 256 {
				glyphs[byte(code)] = string(v)
			}
			code++
		default:
			return fmt.Errorf("invalid differences array item: %T", item)
		}
	}

	if len(glyphs) > 0 {
		f.CustomEnc = NewCustomEncodingFromGlyphs(GetEncoding(f.Encoding), glyphs)
	}

	return nil
}

// parseSimpleWidths records /Widths entries keyed by character code,
// starting at /FirstChar.
func parseSimpleWidths(f *Font, fontDict core.Dict, resolver Resolver) {
	firstChar := 0
	if i, ok := resolve(fontDict.Get("FirstChar"), resolver).(core.Int); ok {
		firstChar = int(i)
	}

	widths, ok := resolve(fontDict.Get("Widths"), resolver).(core.Array)
	if !ok {
		return
	}

	for i, w := range widths {
		f.SetCodeWidth(firstChar+i, getNumber(resolve(w, resolver)))
	}
}

// parseCIDWidths parses a CIDFont /W array. Entries come in two forms:
// "c [w1 w2 ... wn]" and "cfirst clast w".
func parseCIDWidths(obj core.Object) []cidWidthRange {
	wArray, ok := obj.(core.Array)
	if !ok {
		return nil
	}

	var ranges []cidWidthRange
	for i := 0; i < len(wArray); {
		start := int(getNumber(wArray[i]))
		i++
		if i >= len(wArray) {
			break
		}

		if widths, ok := wArray[i].(core.Array); ok {
			ws := make([]float64, len(widths))
			for j, w := range widths {
				ws[j] = getNumber(w)
			}
			ranges = append(ranges, cidWidthRange{
				start:  start,
				end:    start + len(ws) - 1,
				widths: ws,
			})
			i++
			continue
		}

		end := int(getNumber(wArray[i]))
		i++
		if i >= len(wArray) {
			break
		}
		ranges = append(ranges, cidWidthRange{
			start: start,
			end:   end,
			width: getNumber(wArray[i]),
		})
		i++
	}

	return ranges
}

// descendantFontDict returns the first entry of /DescendantFonts.
func descendantFontDict(fontDict core.Dict, resolver Resolver) (core.Dict, error) {
	arr, ok := resolve(fontDict.Get("DescendantFonts"), resolver).(core.Array)
	if !ok || len(arr) == 0 {
		return nil, fmt.Errorf("missing DescendantFonts")
	}

	dict, ok := resolve(arr[0], resolver).(core.Dict)
	if !ok {
		return nil, fmt.Errorf("descendant font is not a dictionary")
	}

	return dict, nil
}

// parseFontDescriptor reads a /FontDescriptor dictionary. Returns nil when
// the entry is absent or not a dictionary.
func parseFontDescriptor(obj core.Object, resolver Resolver) *FontDescriptor {
	fdDict, ok := resolve(obj, resolver).(core.Dict)
	if !ok {
		return nil
	}

	fd := &FontDescriptor{
		FontName:     extractName(fdDict.Get("FontName")),
		ItalicAngle:  getNumber(resolve(fdDict.Get("ItalicAngle"), resolver)),
		Ascent:       getNumber(resolve(fdDict.Get("Ascent"), resolver)),
		Descent:      getNumber(resolve(fdDict.Get("Descent"), resolver)),
		CapHeight:    getNumber(resolve(fdDict.Get("CapHeight"), resolver)),
		StemV:        getNumber(resolve(fdDict.Get("StemV"), resolver)),
		StemH:        getNumber(resolve(fdDict.Get("StemH"), resolver)),
		AvgWidth:     getNumber(resolve(fdDict.Get("AvgWidth"), resolver)),
		MaxWidth:     getNumber(resolve(fdDict.Get("MaxWidth"), resolver)),
		MissingWidth: getNumber(resolve(fdDict.Get("MissingWidth"), resolver)),
	}

	if flags, ok := resolve(fdDict.Get("Flags"), resolver).(core.Int); ok {
		fd.Flags = int(flags)
	}

	if bbox, ok := resolve(fdDict.Get("FontBBox"), resolver).(core.Array); ok && len(bbox) >= 4 {
		for i := 0; i < 4; i++ {
			fd.FontBBox[i] = getNumber(bbox[i])
		}
	}

	fd.FontFile = resolveStream(fdDict.Get("FontFile"), resolver)
	fd.FontFile2 = resolveStream(fdDict.Get("FontFile2"), resolver)
	fd.FontFile3 = resolveStream(fdDict.Get("FontFile3"), resolver)

	return fd
}

// loadToUnicode parses a /ToUnicode stream into a CMap. Returns nil when
// the entry is absent or malformed.
func loadToUnicode(obj core.Object, resolver Resolver) *CMap {
	stream := resolveStream(obj, resolver)
	if stream == nil {
		return nil
	}

	cmap, err := ParseToUnicodeCMap(stream)
	if err != nil {
		return nil
	}

	return cmap
}

// Helper functions

// resolve follows an indirect reference. Unresolvable references yield nil.
func resolve(obj core.Object, resolver Resolver) core.Object {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj
	}
	if resolver == nil {
		return nil
	}

	resolved, err := resolver(ref)
	if err != nil {
		return nil
	}
	return resolved
}

// resolveStream resolves an object expected to be a stream.
func resolveStream(obj core.Object, resolver Resolver) *core.Stream {
	if stream, ok := resolve(obj, resolver).(*core.Stream); ok {
		return stream
	}
	return nil
}

// extractName extracts a name from a PDF object
func extractName(obj core.Object) string {
	switch v := obj.(type) {
	case core.Name:
		return string(v)
	case core.String:
		return string(v)
	default:
		return ""
	}
}

// getNumber extracts a numeric value from a PDF object
func getNumber(obj core.Object) float64 {
	switch v := obj.(type) {
	case core.Int:
		return float64(v)
	case core.Real:
		return float64(v)
	default:
		return 0
	}
}
