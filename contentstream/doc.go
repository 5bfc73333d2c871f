// Package contentstream tokenizes PDF content streams into operations: an
// operator name plus the operand objects that preceded it.
//
//	parser := contentstream.NewParser(data)
//	ops, err := parser.Parse()
//
// Operands reuse the core object types (numbers, strings, names, arrays,
// dicts). The parser is purely lexical: it does not interpret operators, so
// unknown ones pass through for the caller to skip. Inline images
// (BI..ID..EI) are the one construct it consumes itself, scanning past the
// binary payload so the token stream stays aligned.
package contentstream
