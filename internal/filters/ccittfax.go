package filters

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes CCITT Group 3/4 fax data, the usual encoding for
// bi-level scanned images. The decode parameters follow the stream dict:
// /K selects the group (negative is Group 4, otherwise Group 3), /Columns
// defaults to 1728, /Rows may be absent for streams whose height is only
// known from the data, and /BlackIs1 flips the bit sense.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	sf := ccitt.Group3
	if getIntParam(params, "K", 0) < 0 {
		sf = ccitt.Group4
	}

	columns := getIntParam(params, "Columns", 1728)
	rows := getIntParam(params, "Rows", 0)
	if rows == 0 {
		rows = ccitt.AutoDetectHeight
	}
	opts := &ccitt.Options{Invert: getBoolParam(params, "BlackIs1", false)}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts)
	return io.ReadAll(r)
}
