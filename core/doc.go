// Package core holds the PDF object model and the parsers that produce it.
//
// The eight basic object types ([Null], [Bool], [Int], [Real], [String],
// [Name], [Array], [Dict]) satisfy the [Object] interface, joined by
// [Stream] (a dict plus binary payload) and [IndirectRef]. [Lexer] turns
// bytes into tokens; [Parser] turns tokens into objects and can start at
// any byte offset, which is how cross-reference entries are followed.
//
// [XRefParser] loads both classic xref tables and /Type /XRef streams,
// walking /Prev chains and hybrid files into one merged [XRefTable].
// [ObjectStream] unpacks /Type /ObjStm containers. When the recorded table
// is unusable, [RepairXRef] rebuilds one with a single bounded scan over
// the file for "N G obj" headers.
//
// [Stream.Decode] runs the filter chain: FlateDecode, LZWDecode,
// ASCIIHexDecode, ASCII85Decode, RunLengthDecode, and CCITTFaxDecode are
// decoded, while image codecs (DCTDecode, JPXDecode) pass through raw.
package core
