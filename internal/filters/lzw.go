package filters

import (
	"bytes"
	"compress/lzw"
	"fmt"
	"io"
)

// LZWDecode decompresses LZW compressed data. PDF LZW streams use MSB-first
// bit packing with 8-bit literals, the same variant TIFF uses. The optional
// Predictor decode parameter is undone after decompression.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	reader := lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil && len(decompressed) == 0 {
		return nil, fmt.Errorf("lzw decompression failed: %w", err)
	}

	result, err := applyPredictor(decompressed, params)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return result, nil
}
