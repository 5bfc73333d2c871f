// Package model provides the intermediate representation (IR) for extracted
// document content.
//
// This package defines the data structures that sit between the parsing
// pipeline and the output renderers. Extraction produces these types;
// renderers consume them without ever touching raw PDF objects.
//
// # Document Structure
//
// The [Document] type represents a complete document with metadata and pages:
//
//	doc := model.NewDocument()
//	doc.Metadata.Title = "My Document"
//	doc.AddPage(page)
//
// Each [Page] contains dimensions, rotation, the raw positioned [TextRun]
// values recovered from its content streams, and the ordered [Block] values
// produced by layout analysis.
//
// # Blocks and Roles
//
// A [Block] is a reading-order cluster of text runs with a structural [Role]:
//
//   - [RoleParagraph] - body text
//   - [RoleHeading1] through [RoleHeading3] - headings ranked by font size
//   - [RoleListItem] - bulleted or numbered list entries
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, and overlap calculations
//   - [Point] - 2D point with distance calculation
//   - [Matrix] - 2D affine transformation matrix
//
// All coordinates use the PDF convention: origin at the bottom-left of the
// page, Y increasing upward, values in points (1/72 inch).
package model
