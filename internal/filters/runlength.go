package filters

import (
	"bytes"
	"fmt"
)

// RunLengthDecode decodes run-length encoded data. Each run starts with a
// length byte n: 0-127 mean the next n+1 bytes are copied literally, 129-255
// mean the next byte repeats 257-n times, and 128 marks end of data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var result bytes.Buffer

	i := 0
	for i < len(data) {
		n := data[i]
		i++

		switch {
		case n == 128:
			// EOD marker
			return result.Bytes(), nil

		case n < 128:
			count := int(n) + 1
			if i+count > len(data) {
				return nil, fmt.Errorf("run-length literal run of %d bytes exceeds data", count)
			}
			result.Write(data[i : i+count])
			i += count

		default:
			if i >= len(data) {
				return nil, fmt.Errorf("run-length repeat run missing byte")
			}
			count := 257 - int(n)
			for j := 0; j < count; j++ {
				result.WriteByte(data[i])
			}
			i++
		}
	}

	// Missing EOD is tolerated; the data simply ends.
	return result.Bytes(), nil
}
