package scriba

import (
	"fmt"
	"strings"

	"github.com/scribadev/scriba/layout"
	"github.com/scribadev/scriba/model"
	"github.com/scribadev/scriba/ocr"
	"github.com/scribadev/scriba/pages"
	"github.com/scribadev/scriba/reader"
	"github.com/scribadev/scriba/render"
	"github.com/scribadev/scriba/text"
)

// Extractor is the fluent entry point of the library. Configuration methods
// return the Extractor for chaining; terminal methods (Text, Markdown,
// JSON, Metadata, PageCount) run the pipeline. Errors are deferred to the
// terminal methods so chains read cleanly.
//
// An Extractor is not safe for concurrent use. Each call works on one
// document; there is no process-wide state.
type Extractor struct {
	filename string
	password string

	layoutCfg   layout.Config
	stripEdges  bool
	ocrFallback bool

	r        *reader.Reader
	doc      *model.Document
	warnings []Warning
	err      error
}

// Open prepares an Extractor for the PDF at filename. The file is not read
// until a terminal method runs. The Extractor must be closed when done,
// either explicitly via Close or implicitly by a terminal method chain that
// discards it.
func Open(filename string) *Extractor {
	return &Extractor{
		filename:  filename,
		layoutCfg: layout.DefaultConfig(),
	}
}

// FromReader wraps an already-open reader.Reader. The caller keeps
// ownership of the reader and is responsible for closing it.
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		r:         r,
		layoutCfg: layout.DefaultConfig(),
	}
}

// WithPassword supplies the password for an encrypted document. An empty
// user password is always attempted automatically, so this is only needed
// for documents with a real user password.
func (e *Extractor) WithPassword(password string) *Extractor {
	e.password = password
	return e
}

// WithLayoutConfig overrides the layout analysis thresholds. Zero-valued
// fields keep their defaults.
func (e *Extractor) WithLayoutConfig(cfg layout.Config) *Extractor {
	e.layoutCfg = layout.NewAnalyzerWithConfig(cfg).Config()
	return e
}

// ExcludeHeadersFooters drops running headers and footers: blocks near the
// page edges whose text repeats across pages.
func (e *Extractor) ExcludeHeadersFooters() *Extractor {
	e.stripEdges = true
	return e
}

// WithOCRFallback enables OCR for pages that yield no text runs, typically
// scanned documents. It only takes effect in binaries built with the "ocr"
// build tag; otherwise such pages produce a warning and stay empty.
func (e *Extractor) WithOCRFallback() *Extractor {
	e.ocrFallback = true
	return e
}

// Close releases the underlying reader. Safe to call more than once.
func (e *Extractor) Close() error {
	if e.r != nil && e.filename != "" {
		err := e.r.Close()
		e.r = nil
		return err
	}
	return nil
}

// Text runs the pipeline and serializes the document as plain text.
func (e *Extractor) Text() (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	return render.Text(doc.Pages), warnings, nil
}

// Markdown runs the pipeline and serializes the document as Markdown.
func (e *Extractor) Markdown() (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	return render.Markdown(doc.Pages), warnings, nil
}

// JSON runs the pipeline and serializes the document as structured JSON.
func (e *Extractor) JSON(pretty bool) (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", warnings, err
	}
	out, err := render.JSON(doc.Pages, pretty)
	if err != nil {
		return "", warnings, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return out, warnings, nil
}

// PageCount returns the number of leaf pages in the page tree. It parses
// document structure only, never content streams.
func (e *Extractor) PageCount() (n int, err error) {
	defer recoverTo(&err)
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	count, err := e.r.PageCount()
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// Metadata returns the document metadata from the Info dictionary,
// supplemented by the XMP metadata stream for fields Info lacks.
func (e *Extractor) Metadata() (meta model.Metadata, err error) {
	defer recoverTo(&err)
	if err := e.ensureReader(); err != nil {
		return model.Metadata{}, err
	}
	return extractMetadata(e.r)
}

// Document runs the full pipeline and returns the structured document:
// pages with positioned text runs and layout-analyzed blocks.
func (e *Extractor) Document() (doc *model.Document, warnings []Warning, err error) {
	defer recoverTo(&err)

	if e.doc != nil {
		return e.doc, e.warnings, nil
	}
	if err := e.ensureReader(); err != nil {
		return nil, nil, err
	}

	srcPages, err := e.r.Pages()
	if err != nil {
		return nil, nil, mapError(err)
	}

	doc = model.NewDocument()
	analyzer := layout.NewAnalyzerWithConfig(e.layoutCfg)

	for i, src := range srcPages {
		page := e.extractPage(src, i+1, analyzer)
		doc.AddPage(page)
	}

	if e.stripEdges && len(doc.Pages) > 0 {
		e.filterHeadersFooters(doc)
	}

	meta, err := extractMetadata(e.r)
	if err == nil {
		doc.Metadata = meta
	} else {
		e.warn(0, fmt.Sprintf("metadata unavailable: %v", err))
	}

	e.doc = doc
	return doc, e.warnings, nil
}

// extractPage interprets one page's content streams into text runs and
// analyzes their layout. Failures degrade to warnings so one broken page
// does not sink the document.
func (e *Extractor) extractPage(src *pages.Page, number int, analyzer *layout.Analyzer) *model.Page {
	width, err := src.Width()
	if err != nil {
		width = 612
		e.warn(number, "missing MediaBox, assuming Letter size")
	}
	height, err := src.Height()
	if err != nil {
		height = 792
	}

	page := &model.Page{
		Number:   number,
		Width:    width,
		Height:   height,
		Rotation: src.Rotate(),
	}

	extractor := text.NewExtractor()
	if err := extractor.RegisterFontsFromPage(src, e.r.ResolveReference); err != nil {
		e.warn(number, fmt.Sprintf("font loading failed: %v", err))
	}

	content, err := src.ContentData()
	if err != nil {
		e.warn(number, fmt.Sprintf("content stream unavailable: %v", err))
		return page
	}

	runs, err := extractor.ExtractFromBytes(content)
	if err != nil {
		e.warn(number, fmt.Sprintf("content stream interpretation failed: %v", err))
		runs = extractor.Runs() // keep whatever was recovered before the failure
	}
	page.Runs = runs

	if len(runs) == 0 && e.ocrFallback {
		e.recognizePage(src, page)
	}

	analyzer.AnalyzePage(page)
	return page
}

// recognizePage runs OCR over the page's embedded images and attaches the
// recognized text as a single paragraph block spanning the page.
func (e *Extractor) recognizePage(src *pages.Page, page *model.Page) {
	images, err := e.r.ExtractPageImages(src)
	if err != nil || len(images) == 0 {
		return
	}

	client, err := ocr.New()
	if err != nil {
		e.warn(page.Number, fmt.Sprintf("OCR unavailable: %v", err))
		return
	}
	defer client.Close()

	var texts []string
	for i := range images {
		png, err := images[i].ToPNG()
		if err != nil {
			continue
		}
		recognized, err := client.RecognizeImage(png)
		if err != nil {
			e.warn(page.Number, fmt.Sprintf("OCR failed: %v", err))
			continue
		}
		if recognized = strings.TrimSpace(recognized); recognized != "" {
			texts = append(texts, recognized)
		}
	}
	if len(texts) == 0 {
		return
	}

	run := model.TextRun{
		Text:     strings.Join(texts, "\n"),
		X:        0,
		Y:        0,
		Width:    page.Width,
		FontSize: 12,
	}
	line := model.Line{Runs: []model.TextRun{run}, BBox: run.BBox()}
	page.Blocks = append(page.Blocks, model.Block{
		Lines: []model.Line{line},
		BBox:  line.BBox,
		Role:  model.RoleParagraph,
	})
	e.warn(page.Number, "no text layer, content recovered by OCR")
}

func (e *Extractor) filterHeadersFooters(doc *model.Document) {
	pageBlocks := make([][]model.Block, len(doc.Pages))
	for i, page := range doc.Pages {
		pageBlocks[i] = page.Blocks
	}
	filtered := layout.FilterHeadersFooters(pageBlocks, doc.Pages[0].Height)
	for i, page := range doc.Pages {
		page.Blocks = filtered[i]
	}
}

func (e *Extractor) ensureReader() error {
	if e.err != nil {
		return e.err
	}
	if e.r != nil {
		return nil
	}

	r, err := reader.OpenWithPassword(e.filename, e.password)
	if err != nil {
		e.err = mapError(err)
		return e.err
	}
	e.r = r
	return nil
}

func (e *Extractor) warn(page int, message string) {
	e.warnings = append(e.warnings, Warning{Page: page, Message: message})
}

// recoverTo converts a panic anywhere in the pipeline into a taxonomy
// error, so no input can crash the caller.
func recoverTo(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%w: internal error: %v", ErrMalformedSyntax, p)
	}
}
