package filters

import "fmt"

// applyPredictor undoes the prediction step that FlateDecode and LZWDecode
// streams may carry. Predictor 1 is identity (no prediction), 2 is TIFF
// Predictor 2, and 10-15 are PNG predictors (None, Sub, Up, Average, Paeth).
func applyPredictor(data []byte, params Params) ([]byte, error) {
	predictor := getIntParam(params, "Predictor", 1)

	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return applyTIFFPredictor2(data, params)
	case predictor >= 10 && predictor <= 15:
		return applyPNGPredictor(data, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

// applyTIFFPredictor2 applies TIFF Predictor 2, which predicts each sample
// from the sample to its left. This is rarely used in PDFs.
func applyTIFFPredictor2(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)

	if bpc != 8 {
		return nil, fmt.Errorf("TIFF Predictor 2 only supports 8 bits per component, got %d", bpc)
	}

	rowSize := columns * colors
	if rowSize <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	result := make([]byte, len(data))

	for row := 0; row < len(data)/rowSize; row++ {
		rowStart := row * rowSize
		for col := 0; col < rowSize; col++ {
			idx := rowStart + col
			if col < colors {
				// First pixel in row - no prediction
				result[idx] = data[idx]
			} else {
				// Predict from left pixel
				result[idx] = data[idx] + result[idx-colors]
			}
		}
	}

	return result, nil
}

// applyPNGPredictor applies PNG predictor algorithms. Each row starts with
// a predictor byte (0-4) that specifies which algorithm to use for that row.
func applyPNGPredictor(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)

	if bpc != 8 {
		return nil, fmt.Errorf("PNG predictor only supports 8 bits per component, got %d", bpc)
	}

	bytesPerPixel := colors
	rowLength := columns * colors
	rowSize := rowLength + 1 // +1 for the per-row predictor byte

	if rowLength <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	numRows := len(data) / rowSize
	result := make([]byte, numRows*rowLength) // Output without predictor bytes

	for row := 0; row < numRows; row++ {
		rowStart := row * rowSize
		predictorByte := data[rowStart]
		rowData := data[rowStart+1 : rowStart+rowSize]

		decodedRow, err := decodePNGRow(rowData, predictorByte, bytesPerPixel, row, result, rowLength)
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", row, err)
		}

		copy(result[row*rowLength:(row+1)*rowLength], decodedRow)
	}

	return result, nil
}

// decodePNGRow decodes a single PNG-predicted row using the specified predictor.
// Predictor types: 0=None, 1=Sub (left), 2=Up (above), 3=Average, 4=Paeth.
func decodePNGRow(rowData []byte, predictor byte, bytesPerPixel int, rowNum int, prevRows []byte, rowLength int) ([]byte, error) {
	result := make([]byte, len(rowData))

	for i := 0; i < len(rowData); i++ {
		var predicted byte

		switch predictor {
		case 0: // None
			predicted = 0

		case 1: // Sub (predict from left)
			if i >= bytesPerPixel {
				predicted = result[i-bytesPerPixel]
			}

		case 2: // Up (predict from above)
			if rowNum > 0 {
				predicted = prevRows[(rowNum-1)*rowLength+i]
			}

		case 3: // Average (average of left and up)
			var left, up byte
			if i >= bytesPerPixel {
				left = result[i-bytesPerPixel]
			}
			if rowNum > 0 {
				up = prevRows[(rowNum-1)*rowLength+i]
			}
			predicted = byte((int(left) + int(up)) / 2)

		case 4: // Paeth
			var left, up, upLeft byte
			if i >= bytesPerPixel {
				left = result[i-bytesPerPixel]
			}
			if rowNum > 0 {
				up = prevRows[(rowNum-1)*rowLength+i]
				if i >= bytesPerPixel {
					upLeft = prevRows[(rowNum-1)*rowLength+i-bytesPerPixel]
				}
			}
			predicted = paethPredictor(left, up, upLeft)

		default:
			return nil, fmt.Errorf("unknown PNG predictor: %d", predictor)
		}

		result[i] = rowData[i] + predicted
	}

	return result, nil
}

// paethPredictor implements the Paeth predictor algorithm from the PNG
// specification. It selects the neighbor (left, above, or upper-left)
// closest to a linear prediction.
func paethPredictor(a, b, c byte) byte {
	// a = left, b = above, c = upper left
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}
