// Package filters provides PDF stream decompression filters.
//
// PDF streams can be compressed using various algorithms. This package
// implements the standard PDF decompression filters.
//
// # Supported Filters
//
// FlateDecode (zlib/deflate):
//
//	decoded, err := filters.FlateDecode(data, params)
//
// LZWDecode (MSB-first LZW, the TIFF variant):
//
//	decoded, err := filters.LZWDecode(data, params)
//
// Both FlateDecode and LZWDecode undo the optional prediction step.
// The Predictor parameter specifies the algorithm:
//   - 1: No prediction (default)
//   - 2: TIFF Predictor 2
//   - 10-15: PNG predictors (None, Sub, Up, Average, Paeth)
//
// ASCIIHexDecode:
//
//	decoded, err := filters.ASCIIHexDecode(data)
//
// Decodes hexadecimal-encoded data. Whitespace is ignored.
//
// ASCII85Decode:
//
//	decoded, err := filters.ASCII85Decode(data)
//
// Decodes ASCII base-85 encoded data (also known as Ascii85).
//
// RunLengthDecode:
//
//	decoded, err := filters.RunLengthDecode(data)
//
// Decodes byte-oriented run-length encoded data.
//
// CCITTFaxDecode:
//
//	decoded, err := filters.CCITTFaxDecode(data, params)
//
// Decodes CCITT Group 3/4 fax compressed bi-level image data.
//
// # Decode Parameters
//
// Filters accept a Params map for additional parameters:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	    "Colors":    3,
//	}
//	decoded, err := filters.FlateDecode(data, params)
package filters
