package font

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/scribadev/scriba/core"
)

// CMap maps character codes to Unicode strings, built from a font's
// /ToUnicode stream. The code width (one or two bytes) comes from the
// codespace ranges, or is inferred from the mapping keys when the producer
// omitted them.
type CMap struct {
	// Single character mappings: charCode -> unicode string
	charMappings map[uint32]string

	// Range mappings for efficiency
	rangeMappings []CMapRange

	// codeBytes is the width of a character code in bytes, 1 or 2.
	codeBytes int
}

// CMapRange represents a range of character code to Unicode mappings
type CMapRange struct {
	StartCode    uint32
	EndCode      uint32
	StartUnicode uint32
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{
		charMappings:  make(map[uint32]string),
		rangeMappings: make([]CMapRange, 0),
		codeBytes:     1,
	}
}

// ParseToUnicodeCMap parses a ToUnicode CMap stream
func ParseToUnicodeCMap(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}

	return parseCMapData(data)
}

// parseCMapData parses the CMap program text. Malformed sections are
// skipped; whatever mappings parse cleanly are kept.
func parseCMapData(data []byte) (*CMap, error) {
	cmap := NewCMap()
	content := string(data)

	cmap.parseCodespace(content)
	cmap.parseBfChar(content)
	cmap.parseBfRange(content)

	return cmap, nil
}

// parseCodespace reads begincodespacerange sections to learn the code width.
func (cm *CMap) parseCodespace(content string) {
	forEachSection(content, "begincodespacerange", "endcodespacerange", func(section string) {
		for _, tok := range strings.Fields(section) {
			h := extractHexString(tok)
			if h == "" {
				continue
			}
			if n := (len(h) + 1) / 2; n > cm.codeBytes && n <= 2 {
				cm.codeBytes = n
			}
		}
	})
}

// parseBfChar parses beginbfchar/endbfchar sections
// Format: <srcCode> <dstUnicode>
func (cm *CMap) parseBfChar(content string) {
	forEachSection(content, "beginbfchar", "endbfchar", cm.parseBfCharSection)
}

// parseBfCharSection parses a single beginbfchar/endbfchar section
func (cm *CMap) parseBfCharSection(section string) {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		srcHex := extractHexString(parts[0])
		dstHex := extractHexString(parts[1])
		if srcHex == "" || dstHex == "" {
			continue
		}

		srcCode, err := parseHexToUint32(srcHex)
		if err != nil {
			continue
		}
		cm.noteCodeWidth(srcHex)

		unicode, err := hexToUnicode(dstHex)
		if err != nil {
			continue
		}

		cm.charMappings[srcCode] = unicode
	}
}

// parseBfRange parses beginbfrange/endbfrange sections
// Format: <srcCodeStart> <srcCodeEnd> <dstUnicode>
// or: <srcCodeStart> <srcCodeEnd> [<u1> <u2> <u3> ...]
func (cm *CMap) parseBfRange(content string) {
	forEachSection(content, "beginbfrange", "endbfrange", cm.parseBfRangeSection)
}

// parseBfRangeSection parses a single beginbfrange/endbfrange section
func (cm *CMap) parseBfRangeSection(section string) {
	lines := strings.Split(section, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		// Array entries may span lines: <start> <end> [<u1> <u2> ...]
		if strings.Contains(line, "[") {
			fullLine := line
			for !strings.Contains(fullLine, "]") && i+1 < len(lines) {
				i++
				fullLine += " " + strings.TrimSpace(lines[i])
			}
			cm.parseBfRangeArray(fullLine)
			i++
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 3 {
			i++
			continue
		}

		startHex := extractHexString(parts[0])
		endHex := extractHexString(parts[1])
		dstHex := extractHexString(parts[2])
		if startHex == "" || endHex == "" || dstHex == "" {
			i++
			continue
		}

		startCode, err1 := parseHexToUint32(startHex)
		endCode, err2 := parseHexToUint32(endHex)
		dstUnicode, err3 := parseHexToUint32(dstHex)
		if err1 != nil || err2 != nil || err3 != nil {
			i++
			continue
		}
		cm.noteCodeWidth(startHex)

		cm.rangeMappings = append(cm.rangeMappings, CMapRange{
			StartCode:    startCode,
			EndCode:      endCode,
			StartUnicode: dstUnicode,
		})

		i++
	}
}

// parseBfRangeArray parses array format: <start> <end> [<u1> <u2> ...]
func (cm *CMap) parseBfRangeArray(line string) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return
	}

	startHex := extractHexString(parts[0])
	endHex := extractHexString(parts[1])

	startCode, err1 := parseHexToUint32(startHex)
	endCode, err2 := parseHexToUint32(endHex)
	if err1 != nil || err2 != nil {
		return
	}
	cm.noteCodeWidth(startHex)

	arrayStart := strings.Index(line, "[")
	arrayEnd := strings.Index(line, "]")
	if arrayStart == -1 || arrayEnd == -1 || arrayEnd < arrayStart {
		return
	}

	currentCode := startCode
	for _, hexStr := range strings.Fields(line[arrayStart+1 : arrayEnd]) {
		h := extractHexString(hexStr)
		if h == "" {
			continue
		}

		unicode, err := hexToUnicode(h)
		if err == nil && currentCode <= endCode {
			cm.charMappings[currentCode] = unicode
		}

		currentCode++
	}
}

// noteCodeWidth widens the code width when a source code is written with
// four hex digits. Files that skip codespace ranges still signal the width
// through their mapping keys.
func (cm *CMap) noteCodeWidth(srcHex string) {
	if n := (len(srcHex) + 1) / 2; n > cm.codeBytes && n <= 2 {
		cm.codeBytes = n
	}
}

// CodeBytes returns the character code width in bytes.
func (cm *CMap) CodeBytes() int {
	if cm.codeBytes < 1 {
		return 1
	}
	return cm.codeBytes
}

// Lookup returns the Unicode string for a character code, or "" when the
// code has no mapping.
func (cm *CMap) Lookup(charCode uint32) string {
	if unicode, ok := cm.charMappings[charCode]; ok {
		return unicode
	}

	for _, r := range cm.rangeMappings {
		if charCode >= r.StartCode && charCode <= r.EndCode {
			offset := charCode - r.StartCode
			return string(rune(r.StartUnicode + offset))
		}
	}

	return ""
}

// LookupString decodes a string of character codes. Codes with no mapping
// decode to U+FFFD so that downstream consumers can tell "unmapped glyph"
// apart from real text.
func (cm *CMap) LookupString(data []byte) string {
	if cm == nil {
		return string(data)
	}

	width := cm.CodeBytes()

	var result strings.Builder
	for i := 0; i < len(data); i += width {
		var code uint32
		if width == 2 {
			if i+1 >= len(data) {
				// Dangling final byte
				result.WriteRune('�')
				break
			}
			code = uint32(data[i])<<8 | uint32(data[i+1])
		} else {
			code = uint32(data[i])
		}

		if unicode := cm.Lookup(code); unicode != "" {
			result.WriteString(unicode)
		} else {
			result.WriteRune('�')
		}
	}

	return result.String()
}

// Helper functions

// forEachSection invokes fn on the body of every begin/end delimited
// section in content.
func forEachSection(content, begin, end string, fn func(string)) {
	start := 0
	for {
		beginIdx := strings.Index(content[start:], begin)
		if beginIdx == -1 {
			return
		}
		beginIdx += start

		endIdx := strings.Index(content[beginIdx:], end)
		if endIdx == -1 {
			return
		}
		endIdx += beginIdx

		fn(content[beginIdx+len(begin) : endIdx])

		start = endIdx + len(end)
	}
}

// extractHexString extracts hex content from <ABCD> format
func extractHexString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return ""
	}
	if s[0] == '<' && s[len(s)-1] == '>' {
		return s[1 : len(s)-1]
	}
	return ""
}

// parseHexToUint32 parses a hex string to uint32
func parseHexToUint32(hexStr string) (uint32, error) {
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}

	val, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return 0, err
	}

	return uint32(val), nil
}

// hexToUnicode converts a destination hex string to a Unicode string. Two
// or more bytes are UTF-16BE, with or without a BOM.
func hexToUnicode(hexStr string) (string, error) {
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}

	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return DecodeUTF16BE(data[2:]), nil
	}
	if len(data) >= 2 {
		return DecodeUTF16BE(data), nil
	}
	if len(data) == 1 {
		return string(rune(data[0])), nil
	}

	return "", fmt.Errorf("empty unicode data")
}
