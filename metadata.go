package scriba

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/scribadev/scriba/core"
	"github.com/scribadev/scriba/font"
	"github.com/scribadev/scriba/model"
	"github.com/scribadev/scriba/reader"
)

// Info returns the document metadata as a JSON object. All fields but
// page_count are omitted when the document does not carry them.
func (e *Extractor) Info() (out string, err error) {
	defer recoverTo(&err)
	if err := e.ensureReader(); err != nil {
		return "", err
	}

	meta, err := extractMetadata(e.r)
	if err != nil {
		return "", mapError(err)
	}
	pageCount, err := e.r.PageCount()
	if err != nil {
		return "", mapError(err)
	}

	record := struct {
		Title        string `json:"title,omitempty"`
		Author       string `json:"author,omitempty"`
		Subject      string `json:"subject,omitempty"`
		Keywords     string `json:"keywords,omitempty"`
		Creator      string `json:"creator,omitempty"`
		Producer     string `json:"producer,omitempty"`
		CreationDate string `json:"creation_date,omitempty"`
		ModDate      string `json:"mod_date,omitempty"`
		PageCount    int    `json:"page_count"`
		Version      string `json:"pdf_version,omitempty"`
		Encrypted    bool   `json:"encrypted,omitempty"`
	}{
		Title:     meta.Title,
		Author:    meta.Author,
		Subject:   meta.Subject,
		Keywords:  meta.Keywords,
		Creator:   meta.Creator,
		Producer:  meta.Producer,
		PageCount: pageCount,
		Version:   meta.Version,
		Encrypted: meta.Encrypted,
	}
	if !meta.CreationDate.IsZero() {
		record.CreationDate = meta.CreationDate.Format(time.RFC3339)
	}
	if !meta.ModDate.IsZero() {
		record.ModDate = meta.ModDate.Format(time.RFC3339)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	return string(data), nil
}

// extractMetadata reads the Info dictionary and fills any missing fields
// from the catalog's XMP metadata stream. Neither source is required; an
// absent Info dictionary yields empty metadata, not an error.
func extractMetadata(r *reader.Reader) (model.Metadata, error) {
	meta := model.Metadata{
		Version:   r.Version().String(),
		Encrypted: r.Encrypted(),
	}

	info, err := r.GetInfo()
	if err != nil {
		return meta, err
	}
	if info != nil {
		meta.Title = infoString(info, "Title")
		meta.Author = infoString(info, "Author")
		meta.Subject = infoString(info, "Subject")
		meta.Keywords = infoString(info, "Keywords")
		meta.Creator = infoString(info, "Creator")
		meta.Producer = infoString(info, "Producer")
		if t, ok := ParsePDFDate(infoString(info, "CreationDate")); ok {
			meta.CreationDate = t
		}
		if t, ok := ParsePDFDate(infoString(info, "ModDate")); ok {
			meta.ModDate = t
		}
	}

	fillFromXMP(r, &meta)
	return meta, nil
}

// infoString fetches and decodes a text string entry from the Info dict.
func infoString(info core.Dict, key string) string {
	s, ok := info.GetString(key)
	if !ok {
		return ""
	}
	return decodeTextString([]byte(s))
}

// decodeTextString decodes a PDF text string: UTF-16 with a BOM, otherwise
// treated as PDFDocEncoding, which agrees with Latin-1 for printable text.
func decodeTextString(data []byte) string {
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return font.DecodeUTF16BE(data[2:])
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return font.DecodeUTF16LE(data[2:])
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return strings.TrimSpace(string(runes))
}

// ParsePDFDate parses a PDF date string (D:YYYYMMDDHHmmSS with an optional
// timezone suffix like +05'30', +0530, or Z). Every field after the year is
// optional. Returns false when the string is not a usable date.
func ParsePDFDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "D:")
	if len(s) < 4 {
		return time.Time{}, false
	}

	digits := func(start, width, fallback int) int {
		if len(s) < start+width {
			return fallback
		}
		n, err := strconv.Atoi(s[start : start+width])
		if err != nil {
			return fallback
		}
		return n
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return time.Time{}, false
	}
	month := digits(4, 2, 1)
	if month < 1 || month > 12 {
		month = 1
	}
	day := digits(6, 2, 1)
	if day < 1 || day > 31 {
		day = 1
	}
	hour := digits(8, 2, 0)
	minute := digits(10, 2, 0)
	second := digits(12, 2, 0)

	loc := time.UTC
	if len(s) > 14 {
		switch s[14] {
		case '+', '-':
			offHour := digits(15, 2, 0)
			offMin := 0
			// Offset minutes follow an apostrophe (+05'30') or, in the
			// bare form many producers write, directly (+0530).
			if len(s) > 17 && s[17] == '\'' {
				offMin = digits(18, 2, 0)
			} else {
				offMin = digits(17, 2, 0)
			}
			offset := (offHour*60 + offMin) * 60
			if s[14] == '-' {
				offset = -offset
			}
			loc = time.FixedZone("", offset)
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), true
}

// fillFromXMP parses the catalog's /Metadata XMP stream and fills metadata
// fields the Info dictionary did not provide.
func fillFromXMP(r *reader.Reader, meta *model.Metadata) {
	catalog, err := r.GetCatalog()
	if err != nil {
		return
	}
	metaObj := catalog.Get("Metadata")
	if metaObj == nil {
		return
	}
	resolved, err := r.Resolve(metaObj)
	if err != nil {
		return
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return
	}
	data, err := stream.Decode()
	if err != nil {
		return
	}

	xmp := parseXMP(data)

	if meta.Title == "" {
		meta.Title = xmp["title"]
	}
	if meta.Author == "" {
		meta.Author = xmp["creator"]
	}
	if meta.Subject == "" {
		meta.Subject = xmp["description"]
	}
	if meta.Keywords == "" {
		meta.Keywords = xmp["Keywords"]
	}
	if meta.Creator == "" {
		meta.Creator = xmp["CreatorTool"]
	}
	if meta.Producer == "" {
		meta.Producer = xmp["Producer"]
	}
	if meta.CreationDate.IsZero() {
		if t, ok := parseXMPDate(xmp["CreateDate"]); ok {
			meta.CreationDate = t
		}
	}
	if meta.ModDate.IsZero() {
		if t, ok := parseXMPDate(xmp["ModifyDate"]); ok {
			meta.ModDate = t
		}
	}
}

// xmpFields are the element local names whose character data we keep. The
// dc:* entries wrap their value in rdf:Alt/rdf:Seq containers; collecting
// all character data under the element handles both shapes.
var xmpFields = map[string]bool{
	"title":       true,
	"creator":     true,
	"description": true,
	"Keywords":    true,
	"Producer":    true,
	"CreatorTool": true,
	"CreateDate":  true,
	"ModifyDate":  true,
}

// parseXMP scans an XMP packet for the known fields. XMP is RDF/XML; a
// token-level scan tolerates the packet framing and unknown namespaces that
// a strict schema unmarshal would choke on.
func parseXMP(data []byte) map[string]string {
	fields := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var current string
	var depth int
	var buf strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if current == "" {
				if xmpFields[t.Name.Local] {
					current = t.Name.Local
					depth = 1
					buf.Reset()
				}
			} else {
				depth++
			}
		case xml.EndElement:
			if current == "" {
				continue
			}
			depth--
			if depth == 0 {
				if value := strings.TrimSpace(buf.String()); value != "" && fields[current] == "" {
					fields[current] = value
				}
				current = ""
			}
		case xml.CharData:
			if current != "" {
				buf.Write(t)
			}
		}
	}
	return fields
}

// parseXMPDate parses an XMP timestamp, which is ISO 8601 with optional
// precision reduction.
func parseXMPDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006-01",
		"2006",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
