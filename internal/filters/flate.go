package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode inflates zlib-wrapped deflate data and undoes the optional
// Predictor transform. Flate is the workhorse filter; nearly every content
// stream and xref stream goes through here.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening zlib stream: %w", err)
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflating stream: %w", err)
	}

	out, err := applyPredictor(inflated, params)
	if err != nil {
		return nil, fmt.Errorf("undoing predictor: %w", err)
	}
	return out, nil
}
