package model

import "time"

// Document represents a complete PDF document with extracted structure
type Document struct {
	Metadata Metadata
	Pages    []*Page
}

// Metadata contains document-level information from the Info dictionary
// and, when present, the XMP metadata stream.
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time

	// Version is the PDF specification version from the file header,
	// e.g. "1.7".
	Version string

	// Encrypted reports whether the file carries an /Encrypt dictionary,
	// whether or not it was successfully decrypted.
	Encrypted bool
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{}
}

// AddPage adds a page to the document
func (d *Document) AddPage(page *Page) {
	page.Number = len(d.Pages) + 1
	d.Pages = append(d.Pages, page)
}

// GetPage returns a page by number (1-indexed)
func (d *Document) GetPage(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// BlockCount returns the total number of blocks across all pages.
func (d *Document) BlockCount() int {
	var n int
	for _, page := range d.Pages {
		n += len(page.Blocks)
	}
	return n
}

// Text returns all page text concatenated, pages separated by blank lines.
func (d *Document) Text() string {
	out := make([]byte, 0, 1024)
	for i, page := range d.Pages {
		if i > 0 {
			out = append(out, '\n', '\n')
		}
		out = append(out, page.Text()...)
	}
	return string(out)
}

// Headings returns all heading blocks across all pages in reading order.
func (d *Document) Headings() []Block {
	var headings []Block
	for _, page := range d.Pages {
		headings = append(headings, page.Headings()...)
	}
	return headings
}
