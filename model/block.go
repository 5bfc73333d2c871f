package model

// Role classifies the structural function of a block within the page.
type Role int

const (
	RoleParagraph Role = iota
	RoleHeading1
	RoleHeading2
	RoleHeading3
	RoleListItem
	RoleTable
)

func (r Role) String() string {
	switch r {
	case RoleHeading1:
		return "heading1"
	case RoleHeading2:
		return "heading2"
	case RoleHeading3:
		return "heading3"
	case RoleListItem:
		return "list_item"
	case RoleTable:
		return "table"
	default:
		return "paragraph"
	}
}

// HeadingLevel returns 1-3 for heading roles and 0 for everything else.
func (r Role) HeadingLevel() int {
	switch r {
	case RoleHeading1:
		return 1
	case RoleHeading2:
		return 2
	case RoleHeading3:
		return 3
	default:
		return 0
	}
}

// IsHeading reports whether the role is one of the heading levels.
func (r Role) IsHeading() bool {
	return r.HeadingLevel() > 0
}

// TextRun is a positioned piece of text recovered from a content stream.
// Coordinates are in page space (after the CTM and text matrix have been
// applied), with the origin at the text baseline start.
type TextRun struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	FontSize float64
	FontName string
}

// BBox returns the bounding box of the run. Height is approximated from the
// font size, which is how tall the run renders for the common fonts.
func (r TextRun) BBox() BBox {
	return BBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.FontSize}
}

// End returns the X coordinate just past the run's last glyph.
func (r TextRun) End() float64 {
	return r.X + r.Width
}

// Line is a horizontal band of runs sharing a baseline, ordered left to
// right. Layout analysis groups runs into lines before clustering lines
// into blocks.
type Line struct {
	Runs []TextRun
	BBox BBox
}

// Text joins the line's runs, inserting a space where the horizontal gap
// between adjacent runs is wide enough to have been a word break.
func (l Line) Text() string {
	out := make([]byte, 0, 64)
	for i, run := range l.Runs {
		if i > 0 {
			prev := l.Runs[i-1]
			gap := run.X - prev.End()
			if gap < 0 {
				// Runs ordered right to left
				gap = prev.X - run.End()
			}
			if gap > wordGapFraction*prev.FontSize {
				out = append(out, ' ')
			}
		}
		out = append(out, run.Text...)
	}
	return string(out)
}

// wordGapFraction is the horizontal gap, as a fraction of the font size,
// beyond which adjacent runs on a line are treated as separate words.
const wordGapFraction = 0.15

// DominantFontSize returns the font size of the widest run on the line,
// which stands in for the line's visual size.
func (l Line) DominantFontSize() float64 {
	var size, widest float64
	for _, run := range l.Runs {
		if run.Width >= widest {
			widest = run.Width
			size = run.FontSize
		}
	}
	return size
}

// Block is a reading-order cluster of lines with a resolved structural role.
// Blocks are what the renderers consume. Table blocks carry their grid in
// Table and leave Lines empty.
type Block struct {
	Lines []Line
	BBox  BBox
	Role  Role
	Table *Table
}

// Text joins the block's lines with single spaces, producing the block's
// logical text content with soft line breaks collapsed. For table blocks
// the cells come out tab-separated, one row per line.
func (b Block) Text() string {
	if b.Role == RoleTable && b.Table != nil {
		out := make([]byte, 0, 128)
		for i := range b.Table.Cells {
			if i > 0 {
				out = append(out, '\n')
			}
			for j, cell := range b.Table.Cells[i] {
				if j > 0 {
					out = append(out, '\t')
				}
				out = append(out, cell.Text...)
			}
		}
		return string(out)
	}

	out := make([]byte, 0, 128)
	for i, line := range b.Lines {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, line.Text()...)
	}
	return string(out)
}

// FontSize returns the dominant font size of the block's first line.
func (b Block) FontSize() float64 {
	if len(b.Lines) == 0 {
		return 0
	}
	return b.Lines[0].DominantFontSize()
}
