// Package format provides a cheap PDF validity probe. The probe inspects
// only the head and tail of the input and never parses document structure,
// so it is safe to run on arbitrary files of any size.
package format

import (
	"bytes"
	"io"
	"os"
)

// probeWindow is how far into each end of the file the probe looks. Some
// producers prepend junk before the %PDF- header; trailers routinely carry
// whitespace and comments after %%EOF.
const probeWindow = 1024

var (
	headerMarker    = []byte("%PDF-")
	eofMarker       = []byte("%%EOF")
	startxrefMarker = []byte("startxref")
)

// IsPDF reports whether the file at path looks like a PDF: the %PDF- header
// within the first kilobyte and an end-of-file or startxref marker within
// the last. It never fails; unreadable, empty, or non-PDF inputs all return
// false.
func IsPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	size := info.Size()

	head := make([]byte, probeWindow)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false
	}
	head = head[:n]

	if !bytes.Contains(head, headerMarker) {
		return false
	}

	tail := head
	if size > probeWindow {
		tail = make([]byte, probeWindow)
		m, err := f.ReadAt(tail, size-probeWindow)
		if err != nil && err != io.EOF {
			return false
		}
		tail = tail[:m]
	}

	return hasTrailerMarker(tail)
}

// IsPDFBytes is the in-memory form of IsPDF.
func IsPDFBytes(data []byte) bool {
	head := data
	if len(head) > probeWindow {
		head = head[:probeWindow]
	}
	if !bytes.Contains(head, headerMarker) {
		return false
	}

	tail := data
	if len(tail) > probeWindow {
		tail = tail[len(tail)-probeWindow:]
	}
	return hasTrailerMarker(tail)
}

func hasTrailerMarker(tail []byte) bool {
	return bytes.Contains(tail, eofMarker) || bytes.Contains(tail, startxrefMarker)
}
