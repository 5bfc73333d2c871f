// Package text interprets PDF content streams and recovers positioned text.
//
// The [Extractor] type walks content stream operations, maintaining the
// graphics and text state, and emits one [model.TextRun] per shown string:
//
//	extractor := text.NewExtractor()
//	extractor.RegisterFontsFromPage(page, resolver)
//	runs, err := extractor.ExtractFromBytes(contentData)
//
// Runs carry page space coordinates (after the CTM and text matrix), the
// effective font size, and the Unicode text decoded through the font's
// encoding chain. Grouping runs into lines and blocks is the layout
// package's job.
//
// # Font Registration
//
// Text bytes are character codes, so decoding needs the page's fonts:
//
//   - RegisterFontsFromPage - load every font a page's resources declare
//   - RegisterFontsFromResources - same, from a resources dictionary
//   - RegisterParsedFont - register an already loaded font
//
// Strings shown with an unregistered font resource fall back to a default
// Helvetica and its encoding.
//
// # Text Direction
//
// The [Direction] type and [DetectDirection] classify text as LTR, RTL, or
// Neutral from Unicode script ranges. Layout analysis uses this to order
// runs within a line.
package text
