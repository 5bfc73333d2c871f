package model

// Page represents a single page in a PDF document
type Page struct {
	Number   int     // 1-indexed page number
	Width    float64 // Page width in points
	Height   float64 // Page height in points
	Rotation int     // Rotation angle (0, 90, 180, 270)

	// Runs holds every positioned text run recovered from the page's
	// content streams, in content-stream order.
	Runs []TextRun

	// Blocks holds the reading-order output of layout analysis.
	Blocks []Block
}

// NewPage creates a new page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
	}
}

// AddRun appends a text run to the page
func (p *Page) AddRun(run TextRun) {
	p.Runs = append(p.Runs, run)
}

// Text concatenates the text of every block, one block per line.
func (p *Page) Text() string {
	out := make([]byte, 0, 256)
	for i, block := range p.Blocks {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, block.Text()...)
	}
	return string(out)
}

// Headings returns the page's heading blocks in reading order.
func (p *Page) Headings() []Block {
	var headings []Block
	for _, block := range p.Blocks {
		if block.Role.IsHeading() {
			headings = append(headings, block)
		}
	}
	return headings
}
