// Package layout reconstructs document structure from positioned text runs.
//
// The [Analyzer] runs the full pipeline for a page:
//
//  1. Runs cluster into baseline lines (BuildLines), ordered top to bottom
//     and, within a line, in reading order for the line's script direction.
//  2. An optional column pass (SplitColumns) reorders lines column-wise
//     when an uninterrupted gutter divides the page.
//  3. Consecutive lines cluster into blocks (BuildBlocks) on vertical gaps
//     and font size changes.
//  4. Roles resolve: blocks whose size clears a multiple of the page's
//     modal body size become headings, ranked largest first into levels
//     1-3; remaining paragraphs starting with bullet or ordinal markers
//     become list items.
//
// Every threshold is relative to font size and adjustable through [Config].
// [FilterHeadersFooters] is a separate cross-page pass that drops repeated
// text in the page's top and bottom bands.
package layout
