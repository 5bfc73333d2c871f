// Package scriba extracts text content and document structure from PDF
// files and serializes them to plain text, Markdown, or JSON.
//
// Basic usage:
//
//	text, warnings, err := scriba.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", scriba.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := scriba.Open("report.pdf").
//	    WithPassword("secret").
//	    ExcludeHeadersFooters().
//	    Markdown()
//
// Package-level helpers cover the common one-shot cases:
//
//	out, err := scriba.ToMarkdown("document.pdf")
//	n := scriba.PageCount("document.pdf") // -1 on any failure
//	ok := scriba.IsPDF("maybe.pdf")       // never fails
//
// For advanced use cases, the lower-level reader package is also available.
package scriba

import (
	"github.com/scribadev/scriba/format"
)

// Version is the library version.
const Version = "0.9.0"

// ToText extracts the document at path as plain text: blocks joined by
// newlines, pages by blank lines.
func ToText(path string) (string, error) {
	ex := Open(path)
	defer ex.Close()
	out, _, err := ex.Text()
	return out, err
}

// ToMarkdown extracts the document at path as Markdown with headings, list
// markers, and escaped punctuation.
func ToMarkdown(path string) (string, error) {
	ex := Open(path)
	defer ex.Close()
	out, _, err := ex.Markdown()
	return out, err
}

// ToJSON extracts the document at path as a structured JSON document. The
// pretty flag switches to indented output.
func ToJSON(path string, pretty bool) (string, error) {
	ex := Open(path)
	defer ex.Close()
	out, _, err := ex.JSON(pretty)
	return out, err
}

// Info returns the document's metadata as a JSON object: title, author,
// subject, keywords, creator, producer, creation_date, mod_date,
// page_count, pdf_version, and encrypted. All fields but page_count are
// omitted when absent.
func Info(path string) (string, error) {
	ex := Open(path)
	defer ex.Close()
	return ex.Info()
}

// PageCount returns the number of pages in the document at path, or -1 on
// any failure: missing file, non-PDF input, or corrupt structure.
func PageCount(path string) int {
	ex := Open(path)
	defer ex.Close()
	n, err := ex.PageCount()
	if err != nil {
		return -1
	}
	return n
}

// IsPDF reports whether the file at path looks like a PDF. It performs a
// cheap structural probe without parsing and never fails: unreadable or
// non-PDF inputs return false.
func IsPDF(path string) bool {
	return format.IsPDF(path)
}

// Must unwraps a (value, error) pair, panicking on error. Intended for
// examples and tests.
//
//	text := scriba.Must(scriba.ToText("document.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
