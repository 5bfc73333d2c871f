package graphicsstate

import (
	"fmt"
	"math"

	"github.com/scribadev/scriba/model"
)

// GraphicsState tracks the PDF graphics state as content stream operators
// are executed. Text positioning follows the text space model: the text
// matrix and text line matrix are reset by BT and advanced by the Td family
// and by glyph displacement.
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Saved states for q/Q
	stack []*GraphicsState

	// Line attributes
	LineWidth float64

	// Colors as RGB in [0,1]
	StrokeColor [3]float64
	FillColor   [3]float64
}

// TextState holds the text-specific parameters.
type TextState struct {
	FontName string
	FontSize float64

	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling as a percentage (Tz), default 100
	HorizontalScaling float64

	// Leading (TL), used by TD, T*, and '
	Leading float64

	RenderingMode int
	Rise          float64

	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a graphics state with PDF default values.
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:         model.Identity(),
		LineWidth:   1.0,
		StrokeColor: [3]float64{0, 0, 0},
		FillColor:   [3]float64{0, 0, 0},
		Text: TextState{
			FontSize:          0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Clone creates a copy of the graphics state without the save stack.
func (gs *GraphicsState) Clone() *GraphicsState {
	return &GraphicsState{
		CTM:         gs.CTM,
		LineWidth:   gs.LineWidth,
		StrokeColor: gs.StrokeColor,
		FillColor:   gs.FillColor,
		Text:        gs.Text,
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, gs.Clone())
}

// Restore pops a graphics state from the stack (Q operator). An unbalanced
// Q is reported as an error; callers in repair contexts may ignore it.
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}

	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = saved.CTM
	gs.LineWidth = saved.LineWidth
	gs.StrokeColor = saved.StrokeColor
	gs.FillColor = saved.FillColor
	gs.Text = saved.Text

	return nil
}

// Depth returns the number of saved states on the stack.
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Transform concatenates a matrix onto the CTM (cm operator). The new
// matrix applies first: CTM' = m x CTM.
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetLineWidth sets the line width (w operator)
func (gs *GraphicsState) SetLineWidth(width float64) {
	gs.LineWidth = width
}

// SetStrokeColorRGB sets the stroke color (RG operator)
func (gs *GraphicsState) SetStrokeColorRGB(r, g, b float64) {
	gs.StrokeColor = [3]float64{r, g, b}
}

// SetFillColorRGB sets the fill color (rg operator)
func (gs *GraphicsState) SetFillColorRGB(r, g, b float64) {
	gs.FillColor = [3]float64{r, g, b}
}

// SetFont sets the current font name and size (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// SetCharSpacing sets character spacing (Tc operator)
func (gs *GraphicsState) SetCharSpacing(spacing float64) {
	gs.Text.CharSpacing = spacing
}

// SetWordSpacing sets word spacing (Tw operator)
func (gs *GraphicsState) SetWordSpacing(spacing float64) {
	gs.Text.WordSpacing = spacing
}

// SetHorizontalScaling sets horizontal scaling in percent (Tz operator)
func (gs *GraphicsState) SetHorizontalScaling(scale float64) {
	gs.Text.HorizontalScaling = scale
}

// SetLeading sets text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// SetRenderingMode sets text rendering mode (Tr operator)
func (gs *GraphicsState) SetRenderingMode(mode int) {
	gs.Text.RenderingMode = mode
}

// SetTextRise sets text rise (Ts operator)
func (gs *GraphicsState) SetTextRise(rise float64) {
	gs.Text.Rise = rise
}

// IsTextInvisible reports whether glyphs painted in the current rendering
// mode leave no marks (mode 3, used for OCR text layers).
func (gs *GraphicsState) IsTextInvisible() bool {
	return gs.Text.RenderingMode == 3
}

// BeginText resets the text matrices (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// EndText ends a text object (ET operator)
func (gs *GraphicsState) EndText() {}

// SetTextMatrix sets both text matrices (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText starts a new line offset from the current one (Td operator):
// Tlm' = T(tx, ty) x Tlm, and Tm follows.
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading is TD: like Td but also sets leading to -ty.
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.SetLeading(-ty)
	gs.TranslateText(tx, ty)
}

// NextLine moves to the next line using the current leading (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// AdvanceText moves the text matrix after showing glyphs whose widths sum to
// glyphWidths (in text space units, already divided by 1000 and multiplied
// by the font size). spaces is the number of bytes that triggered word
// spacing. The displacement formula is
//
//	tx = (w * Tfs + n * Tc + s * Tw) * Th
//
// applied along the line direction of the text matrix.
func (gs *GraphicsState) AdvanceText(glyphWidths float64, glyphs, spaces int) float64 {
	scale := gs.Text.HorizontalScaling / 100.0
	tx := (glyphWidths +
		float64(glyphs)*gs.Text.CharSpacing +
		float64(spaces)*gs.Text.WordSpacing) * scale

	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
	return tx
}

// AdjustText applies a TJ positioning number, expressed in thousandths of a
// text space unit. Positive values move the next glyph left.
func (gs *GraphicsState) AdjustText(amount float64) float64 {
	scale := gs.Text.HorizontalScaling / 100.0
	tx := -amount / 1000.0 * gs.Text.FontSize * scale
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
	return tx
}

// TextPosition returns the origin of the next glyph in device space,
// including the text rise.
func (gs *GraphicsState) TextPosition() model.Point {
	p := model.Point{X: 0, Y: gs.Text.Rise}
	p = gs.Text.TextMatrix.Transform(p)
	return gs.CTM.Transform(p)
}

// TextMatrix returns the current text matrix.
func (gs *GraphicsState) TextMatrix() model.Matrix {
	return gs.Text.TextMatrix
}

// FontSize returns the font size set by Tf.
func (gs *GraphicsState) FontSize() float64 {
	return gs.Text.FontSize
}

// FontName returns the font resource name set by Tf.
func (gs *GraphicsState) FontName() string {
	return gs.Text.FontName
}

// EffectiveFontSize returns the font size as rendered on the page: the Tf
// size scaled by the vertical magnification of the combined text and
// transformation matrices. PDF producers frequently set Tf size 1 and scale
// through Tm, so the raw size is useless for comparing text prominence.
func (gs *GraphicsState) EffectiveFontSize() float64 {
	m := gs.Text.TextMatrix.Multiply(gs.CTM)
	vertical := math.Hypot(m[2], m[3])
	return gs.Text.FontSize * vertical
}
