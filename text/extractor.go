package text

import (
	"fmt"
	"math"

	"github.com/scribadev/scriba/contentstream"
	"github.com/scribadev/scriba/core"
	"github.com/scribadev/scriba/font"
	"github.com/scribadev/scriba/graphicsstate"
	"github.com/scribadev/scriba/model"
	"github.com/scribadev/scriba/pages"
)

// Extractor interprets content stream operations and collects positioned
// text runs. One extractor handles one page; the graphics state it carries
// is not reset between Extract calls.
type Extractor struct {
	gs    *graphicsstate.GraphicsState
	fonts map[string]*font.Font

	runs []model.TextRun
}

// NewExtractor creates a new text extractor
func NewExtractor() *Extractor {
	return &Extractor{
		gs:    graphicsstate.NewGraphicsState(),
		fonts: make(map[string]*font.Font),
	}
}

// RegisterFont registers a font under its resource name with only the base
// font known. Used when the page resources are unavailable.
func (e *Extractor) RegisterFont(name, baseFont, subtype string) {
	e.fonts[name] = font.NewFont(name, baseFont, subtype)
}

// RegisterParsedFont registers a fully loaded font under its resource name.
func (e *Extractor) RegisterParsedFont(name string, f *font.Font) {
	e.fonts[name] = f
}

// RegisterFontsFromPage loads and registers every font in the page's
// resource dictionary. This is the usual way to prepare an extractor.
func (e *Extractor) RegisterFontsFromPage(page *pages.Page, resolver font.Resolver) error {
	resources, err := page.Resources()
	if err != nil || resources == nil {
		return nil
	}

	return e.RegisterFontsFromResources(resources, resolver)
}

// RegisterFontsFromResources loads and registers every font in a resources
// dictionary. Fonts that fail to load are skipped; their text will fall back
// to a default font.
func (e *Extractor) RegisterFontsFromResources(resources core.Dict, resolver font.Resolver) error {
	fontsObj, err := resolveIfRef(resources.Get("Font"), resolver)
	if err != nil {
		return fmt.Errorf("resolve font dictionary: %w", err)
	}

	fonts, ok := fontsObj.(core.Dict)
	if !ok {
		return nil
	}

	for name, fontObj := range fonts {
		resolved, err := resolveIfRef(fontObj, resolver)
		if err != nil {
			continue
		}

		fontDict, ok := resolved.(core.Dict)
		if !ok {
			continue
		}

		if f, err := font.LoadFont(fontDict, resolver); err == nil {
			e.RegisterParsedFont(name, f)
		}
	}

	return nil
}

// resolveIfRef resolves an object if it's an indirect reference, otherwise returns it as-is
func resolveIfRef(obj core.Object, resolver font.Resolver) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		if resolver == nil {
			return nil, fmt.Errorf("indirect reference %d with no resolver", ref.Number)
		}
		return resolver(ref)
	}
	return obj, nil
}

// Extract interprets content stream operations and returns the text runs
// they produce, in content stream order.
func (e *Extractor) Extract(operations []contentstream.Operation) ([]model.TextRun, error) {
	e.runs = e.runs[:0]

	for i, op := range operations {
		if err := e.processOperation(op); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
	}

	return e.runs, nil
}

// ExtractFromBytes parses and extracts text from raw content stream data
func (e *Extractor) ExtractFromBytes(data []byte) ([]model.TextRun, error) {
	parser := contentstream.NewParser(data)
	operations, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}

	return e.Extract(operations)
}

// processOperation processes a single content stream operation. Operators
// that do not affect text extraction are ignored.
func (e *Extractor) processOperation(op contentstream.Operation) error {
	switch op.Operator {
	// Graphics state
	case "q":
		e.gs.Save()
	case "Q":
		return e.gs.Restore()
	case "cm":
		if len(op.Operands) == 6 {
			e.gs.Transform(operandsToMatrix(op.Operands))
		}
	case "w":
		if len(op.Operands) == 1 {
			if w, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetLineWidth(w)
			}
		}
	case "RG":
		if r, g, b, ok := toRGB(op.Operands); ok {
			e.gs.SetStrokeColorRGB(r, g, b)
		}
	case "rg":
		if r, g, b, ok := toRGB(op.Operands); ok {
			e.gs.SetFillColorRGB(r, g, b)
		}

	// Text state
	case "BT":
		e.gs.BeginText()
	case "ET":
		e.gs.EndText()
	case "Tf":
		if len(op.Operands) == 2 {
			name, ok := op.Operands[0].(core.Name)
			if !ok {
				break
			}
			if size, ok := toFloat(op.Operands[1]); ok {
				e.gs.SetFont(string(name), size)
			}
		}
	case "Tc":
		if v, ok := singleFloat(op.Operands); ok {
			e.gs.SetCharSpacing(v)
		}
	case "Tw":
		if v, ok := singleFloat(op.Operands); ok {
			e.gs.SetWordSpacing(v)
		}
	case "Tz":
		if v, ok := singleFloat(op.Operands); ok {
			e.gs.SetHorizontalScaling(v)
		}
	case "TL":
		if v, ok := singleFloat(op.Operands); ok {
			e.gs.SetLeading(v)
		}
	case "Tr":
		if len(op.Operands) == 1 {
			if mode, ok := toInt(op.Operands[0]); ok {
				e.gs.SetRenderingMode(mode)
			}
		}
	case "Ts":
		if v, ok := singleFloat(op.Operands); ok {
			e.gs.SetTextRise(v)
		}

	// Text positioning
	case "Tm":
		if len(op.Operands) == 6 {
			e.gs.SetTextMatrix(operandsToMatrix(op.Operands))
		}
	case "Td":
		if len(op.Operands) == 2 {
			tx, _ := toFloat(op.Operands[0])
			ty, _ := toFloat(op.Operands[1])
			e.gs.TranslateText(tx, ty)
		}
	case "TD":
		if len(op.Operands) == 2 {
			tx, _ := toFloat(op.Operands[0])
			ty, _ := toFloat(op.Operands[1])
			e.gs.TranslateTextSetLeading(tx, ty)
		}
	case "T*":
		e.gs.NextLine()

	// Text showing
	case "Tj":
		if len(op.Operands) == 1 {
			if str, ok := op.Operands[0].(core.String); ok {
				e.showText([]byte(str))
			}
		}
	case "TJ":
		if len(op.Operands) == 1 {
			if arr, ok := op.Operands[0].(core.Array); ok {
				e.showTextArray(arr)
			}
		}
	case "'":
		e.gs.NextLine()
		if len(op.Operands) == 1 {
			if str, ok := op.Operands[0].(core.String); ok {
				e.showText([]byte(str))
			}
		}
	case "\"":
		if len(op.Operands) == 3 {
			if aw, ok := toFloat(op.Operands[0]); ok {
				e.gs.SetWordSpacing(aw)
			}
			if ac, ok := toFloat(op.Operands[1]); ok {
				e.gs.SetCharSpacing(ac)
			}
			e.gs.NextLine()
			if str, ok := op.Operands[2].(core.String); ok {
				e.showText([]byte(str))
			}
		}
	}

	return nil
}

// showText decodes one show-text string, records the run, and advances the
// text matrix by the glyphs' combined displacement.
func (e *Extractor) showText(data []byte) {
	if len(data) == 0 {
		return
	}

	f := e.currentFont()
	start := e.gs.TextPosition()
	fontSize := e.gs.EffectiveFontSize()

	decoded := f.DecodeString(data)

	// Glyph widths come back in thousandths of a text space unit.
	glyphWidths := f.GetCodesWidth(data) / 1000.0 * e.gs.FontSize()
	glyphs := len(f.Codes(data))
	e.gs.AdvanceText(glyphWidths, glyphs, wordSpacingTriggers(f, data))

	// Invisible text (rendering mode 3) still advances the matrix but
	// produces no run.
	if e.gs.IsTextInvisible() || decoded == "" {
		return
	}

	end := e.gs.TextPosition()

	e.runs = append(e.runs, model.TextRun{
		Text:     decoded,
		X:        start.X,
		Y:        start.Y,
		Width:    math.Hypot(end.X-start.X, end.Y-start.Y),
		FontSize: fontSize,
		FontName: e.gs.FontName(),
	})
}

// showTextArray handles TJ: strings shown in sequence with positioning
// adjustments between them.
func (e *Extractor) showTextArray(arr core.Array) {
	for _, item := range arr {
		switch v := item.(type) {
		case core.String:
			e.showText([]byte(v))
		case core.Int:
			e.gs.AdjustText(float64(v))
		case core.Real:
			e.gs.AdjustText(float64(v))
		}
	}
}

// currentFont returns the font selected by the last Tf, or a default when
// the resource name was never registered.
func (e *Extractor) currentFont() *font.Font {
	name := e.gs.FontName()
	if f, ok := e.fonts[name]; ok {
		return f
	}

	f := font.NewFont(name, "Helvetica", "Type1")
	e.fonts[name] = f
	return f
}

// wordSpacingTriggers counts the bytes that word spacing applies to. Per the
// imaging model that is the single-byte code 32, so composite fonts never
// trigger it.
func wordSpacingTriggers(f *font.Font, data []byte) int {
	if f.IsComposite() {
		return 0
	}

	spaces := 0
	for _, b := range data {
		if b == 0x20 {
			spaces++
		}
	}
	return spaces
}

// Runs returns the text runs collected by the last Extract call.
func (e *Extractor) Runs() []model.TextRun {
	return e.runs
}

// Fonts returns the fonts registered in this extractor, keyed by resource
// name.
func (e *Extractor) Fonts() map[string]*font.Font {
	return e.fonts
}

// Helper functions

func toFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(obj core.Object) (int, bool) {
	if i, ok := obj.(core.Int); ok {
		return int(i), true
	}
	return 0, false
}

func singleFloat(operands []core.Object) (float64, bool) {
	if len(operands) != 1 {
		return 0, false
	}
	return toFloat(operands[0])
}

func toRGB(operands []core.Object) (r, g, b float64, ok bool) {
	if len(operands) != 3 {
		return 0, 0, 0, false
	}
	r, _ = toFloat(operands[0])
	g, _ = toFloat(operands[1])
	b, _ = toFloat(operands[2])
	return r, g, b, true
}

func operandsToMatrix(operands []core.Object) model.Matrix {
	if len(operands) != 6 {
		return model.Identity()
	}

	var m model.Matrix
	for i, op := range operands {
		m[i], _ = toFloat(op)
	}

	return m
}
