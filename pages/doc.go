// Package pages walks the PDF page tree and hands out pages with their
// inherited attributes resolved.
//
// [PageTree] traverses /Kids depth-first, left to right, at any nesting.
// Count reflects the leaves actually reachable; the /Count entries written
// into Pages nodes are not trusted because damaged files routinely get them
// wrong. Cyclic or null /Kids entries are skipped.
//
// [Page] exposes the attributes a leaf inherits from its nearest ancestor
// that sets them: Resources, MediaBox, CropBox, and Rotate. ContentData
// decodes and joins the page's content streams in order.
//
// Object lookup goes through the small [ObjectResolver] interface so the
// tree does not depend on the full reader.
package pages
