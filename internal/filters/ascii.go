package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHexDecode decodes ASCIIHexDecode filter data: pairs of hex digits
// with whitespace ignored anywhere, terminated by '>'. An odd final digit
// is completed with an implied zero.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)/2)

	var cur byte
	havePending := false
	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, err := hexValue(c)
		if err != nil {
			return nil, err
		}
		if havePending {
			out = append(out, cur<<4|v)
			havePending = false
		} else {
			cur = v
			havePending = true
		}
	}
	if havePending {
		out = append(out, cur<<4)
	}
	return out, nil
}

// ASCII85Decode decodes ASCII85Decode filter data: groups of five
// characters in '!'..'u' encoding four bytes, 'z' as shorthand for four
// zero bytes, terminated by "~>". A trailing partial group of n digits
// yields n-1 bytes.
func ASCII85Decode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	group := make([]byte, 0, 5)

	flush := func() {
		// A partial group decodes as if padded with 'u' (84), keeping
		// only len-1 of the four bytes.
		n := len(group)
		if n == 0 {
			return
		}
		for len(group) < 5 {
			group = append(group, 84)
		}
		var v uint32
		for _, d := range group {
			v = v*85 + uint32(d)
		}
		for j := 0; j < n-1; j++ {
			out.WriteByte(byte(v >> (24 - j*8)))
		}
		group = group[:0]
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isWhitespace(c):
			continue
		case c == '~' && i+1 < len(data) && data[i+1] == '>':
			flush()
			return out.Bytes(), nil
		case c == 'z' && len(group) == 0:
			out.Write([]byte{0, 0, 0, 0})
		case c >= '!' && c <= 'u':
			group = append(group, c-'!')
			if len(group) == 5 {
				flush()
			}
		default:
			return nil, fmt.Errorf("invalid ASCII85 character: %c", c)
		}
	}
	flush()
	return out.Bytes(), nil
}

func hexValue(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	}
	return 0, fmt.Errorf("invalid hex digit: %c", c)
}
