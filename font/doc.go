// Package font turns PDF font dictionaries into decoders from string bytes
// to Unicode text, with the glyph widths the interpreter needs for
// positioning.
//
// [LoadFont] handles every dictionary subtype the extraction pipeline
// meets: Type1 and MMType1 (including the Standard 14), TrueType, Type3,
// and Type0 composite fonts with their CIDFont descendants.
//
// Decoding resolves each character code through, in priority order:
//
//  1. the font's embedded ToUnicode CMap,
//  2. the /Encoding entry, base encoding plus /Differences overlay,
//  3. the subtype's default encoding.
//
// Composite fonts read two-byte codes; codes no source can map come out as
// U+FFFD rather than a guess. Decoded text is NFC-normalized.
//
// Widths come from the /Widths array (simple fonts) or the descendant's /W
// list (CID fonts), falling back to built-in Standard 14 metrics.
package font
