package format

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsPDFBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"minimal", []byte("%PDF-1.4\n...\nstartxref\n9\n%%EOF"), true},
		{"eof only", []byte("%PDF-1.7\ncontent\n%%EOF"), true},
		{"startxref only", []byte("%PDF-1.7\ncontent\nstartxref\n42"), true},
		{"junk before header", append(bytes.Repeat([]byte{0xFF}, 100), []byte("%PDF-1.4\n%%EOF")...), true},
		{"trailing bytes after eof", []byte("%PDF-1.4\n%%EOF\n\n% comment"), true},

		{"empty", nil, false},
		{"text file", []byte("hello world"), false},
		{"header too deep", append(bytes.Repeat([]byte{' '}, probeWindow+1), []byte("%PDF-1.4\n%%EOF")...), false},
		{"truncated, no trailer", []byte("%PDF-1.4\njust a header and body with no end marker at all")[:20], false},
		{"zip magic", []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00}, false},
		{"header only no eof", []byte("%PDF-1.4\nbody body body"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDFBytes(tt.data); got != tt.want {
				t.Errorf("IsPDFBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPDFBytesLargeFile(t *testing.T) {
	// The trailer marker must be found even when the body is much larger
	// than the probe windows.
	var sb strings.Builder
	sb.WriteString("%PDF-1.5\n")
	sb.WriteString(strings.Repeat("0123456789abcdef\n", 4096))
	sb.WriteString("startxref\n12345\n%%EOF\n")

	if !IsPDFBytes([]byte(sb.String())) {
		t.Error("IsPDFBytes() = false for a large valid file")
	}

	// Same body with the trailer marker buried mid-file rather than at
	// the end.
	var bad strings.Builder
	bad.WriteString("%PDF-1.5\n%%EOF\n")
	bad.WriteString(strings.Repeat("0123456789abcdef\n", 4096))
	if IsPDFBytes([]byte(bad.String())) {
		t.Error("IsPDFBytes() = true with the trailer marker outside the tail window")
	}
}

func TestIsPDFFile(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4\nbody\nstartxref\n9\n%%EOF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsPDF(pdfPath) {
		t.Error("IsPDF() = false for a valid file")
	}

	txtPath := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(txtPath, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if IsPDF(txtPath) {
		t.Error("IsPDF() = true for a text file")
	}

	emptyPath := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(emptyPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if IsPDF(emptyPath) {
		t.Error("IsPDF() = true for an empty file")
	}

	if IsPDF(filepath.Join(dir, "missing.pdf")) {
		t.Error("IsPDF() = true for a missing file")
	}

	if IsPDF(dir) {
		t.Error("IsPDF() = true for a directory")
	}
}
