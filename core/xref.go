package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// EntryKind describes how a cross-reference entry locates its object.
type EntryKind int

const (
	// EntryFree marks a free (deleted) object slot.
	EntryFree EntryKind = iota
	// EntryInFile locates the object at a byte offset in the file.
	EntryInFile
	// EntryInStream locates the object inside a compressed object stream.
	EntryInStream
)

// XRefEntry represents a single cross-reference table entry
type XRefEntry struct {
	Kind       EntryKind
	Offset     int64 // Byte offset in file (EntryInFile)
	Generation int   // Generation number (EntryInFile, EntryFree)

	// For EntryInStream: the object number of the containing object stream
	// and the index of this object within it.
	StreamNum   int
	StreamIndex int
}

// InUse reports whether the entry points at a live object
func (e *XRefEntry) InUse() bool {
	return e.Kind != EntryFree
}

// XRefTable represents a PDF cross-reference table
type XRefTable struct {
	Entries map[int]*XRefEntry // Map from object number to XRef entry
	Trailer Dict               // Trailer dictionary
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]*XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or updates an XRef entry
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// XRefParser locates and parses PDF cross-reference data: classic tables
// (PDF 1.0-1.4), cross-reference streams (PDF 1.5+), and hybrid files
// carrying both.
type XRefParser struct {
	data []byte
}

// NewXRefParser creates a new XRef parser over the raw file bytes
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data}
}

// startxrefWindow is how far back from EOF the startxref keyword is sought.
// The syntax puts it in the last line group of the file; 1 KiB of slack
// covers trailing garbage appended by sloppy writers.
const startxrefWindow = 1024

// FindStartXRef returns the offset recorded after the last "startxref"
// keyword near the end of the file.
func (x *XRefParser) FindStartXRef() (int64, error) {
	tail := x.data
	if len(tail) > startxrefWindow {
		tail = tail[len(tail)-startxrefWindow:]
	}

	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx == -1 {
		return 0, fmt.Errorf("startxref not found")
	}

	rest := tail[idx+len("startxref"):]
	fields := bytes.Fields(rest)
	if len(fields) == 0 {
		return 0, fmt.Errorf("startxref has no offset")
	}

	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid startxref offset %q: %w", fields[0], err)
	}
	return offset, nil
}

// ParseXRef parses the cross-reference section at the given byte offset.
// It dispatches on what it finds there: the "xref" keyword introduces a
// classic table, a "N G obj" header introduces a cross-reference stream.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(x.data)) {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}

	lexer := NewLexer(x.data)
	lexer.Seek(offset)
	token, err := lexer.NextToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read xref section start: %w", err)
	}

	switch {
	case token.Type == TokenKeyword && string(token.Value) == "xref":
		return x.parseClassicTable(lexer)
	case token.Type == TokenInteger:
		return x.parseXRefStream(offset)
	default:
		return nil, fmt.Errorf("no xref table or stream at offset %d", offset)
	}
}

// parseClassicTable parses a classic xref table. The lexer is positioned
// just past the "xref" keyword.
func (x *XRefParser) parseClassicTable(lexer *Lexer) (*XRefTable, error) {
	table := NewXRefTable()

	for {
		token, err := lexer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("failed to read xref subsection: %w", err)
		}

		if token.Type == TokenKeyword && string(token.Value) == "trailer" {
			trailer, err := x.parseTrailer(lexer)
			if err != nil {
				return nil, err
			}
			table.Trailer = trailer
			return table, nil
		}

		if token.Type != TokenInteger {
			return nil, fmt.Errorf("expected xref subsection header, got %q", string(token.Value))
		}
		firstObjNum, err := strconv.Atoi(string(token.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid first object number: %w", err)
		}

		countToken, err := lexer.NextToken()
		if err != nil || countToken.Type != TokenInteger {
			return nil, fmt.Errorf("invalid xref subsection count")
		}
		count, err := strconv.Atoi(string(countToken.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid xref subsection count: %w", err)
		}

		for i := 0; i < count; i++ {
			entry, err := x.parseEntry(lexer)
			if err != nil {
				return nil, fmt.Errorf("object %d: %w", firstObjNum+i, err)
			}
			table.Set(firstObjNum+i, entry)
		}
	}
}

// parseEntry parses one classic xref entry: "nnnnnnnnnn ggggg n" (in use)
// or "nnnnnnnnnn ggggg f" (free).
func (x *XRefParser) parseEntry(lexer *Lexer) (*XRefEntry, error) {
	offsetToken, err := lexer.NextToken()
	if err != nil || offsetToken.Type != TokenInteger {
		return nil, fmt.Errorf("invalid xref entry offset")
	}
	offset, err := strconv.ParseInt(string(offsetToken.Value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid xref entry offset: %w", err)
	}

	genToken, err := lexer.NextToken()
	if err != nil || genToken.Type != TokenInteger {
		return nil, fmt.Errorf("invalid xref entry generation")
	}
	generation, err := strconv.Atoi(string(genToken.Value))
	if err != nil {
		return nil, fmt.Errorf("invalid xref entry generation: %w", err)
	}

	flagToken, err := lexer.NextToken()
	if err != nil || flagToken.Type != TokenKeyword {
		return nil, fmt.Errorf("invalid xref entry flag")
	}

	switch string(flagToken.Value) {
	case "n":
		return &XRefEntry{Kind: EntryInFile, Offset: offset, Generation: generation}, nil
	case "f":
		return &XRefEntry{Kind: EntryFree, Offset: offset, Generation: generation}, nil
	default:
		return nil, fmt.Errorf("invalid xref entry flag %q", string(flagToken.Value))
	}
}

// parseTrailer parses the trailer dictionary after the "trailer" keyword.
func (x *XRefParser) parseTrailer(lexer *Lexer) (Dict, error) {
	parser := NewParserAt(x.data, lexer.Pos())
	obj, err := parser.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
	}

	dict, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary, got %T", obj)
	}
	return dict, nil
}

// parseXRefStream parses a cross-reference stream (/Type /XRef) located
// at the given offset. Its stream dictionary doubles as the trailer.
func (x *XRefParser) parseXRefStream(offset int64) (*XRefTable, error) {
	parser := NewParserAt(x.data, offset)
	indirect, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream object: %w", err)
	}

	stream, ok := indirect.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object at xref offset is not a stream")
	}
	if typeName, _ := stream.Dict.GetName("Type"); typeName != "XRef" {
		return nil, fmt.Errorf("stream at xref offset has type %q, expected XRef", typeName)
	}

	widths, err := xrefStreamWidths(stream.Dict)
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict

	rowSize := widths[0] + widths[1] + widths[2]
	if rowSize == 0 {
		return nil, fmt.Errorf("xref stream has zero-width rows")
	}

	for _, sub := range xrefStreamIndex(stream.Dict) {
		for i := 0; i < sub.count; i++ {
			if len(data) < rowSize {
				return nil, fmt.Errorf("xref stream truncated")
			}
			row := data[:rowSize]
			data = data[rowSize:]

			f1 := readField(row[:widths[0]], 1) // type defaults to 1 when W[0] is 0
			f2 := readField(row[widths[0]:widths[0]+widths[1]], 0)
			f3 := readField(row[widths[0]+widths[1]:], 0)

			objNum := sub.first + i
			switch f1 {
			case 0:
				table.Set(objNum, &XRefEntry{Kind: EntryFree, Offset: f2, Generation: int(f3)})
			case 1:
				table.Set(objNum, &XRefEntry{Kind: EntryInFile, Offset: f2, Generation: int(f3)})
			case 2:
				table.Set(objNum, &XRefEntry{Kind: EntryInStream, StreamNum: int(f2), StreamIndex: int(f3)})
			default:
				// Unknown entry types are reserved; treat as free per spec
			}
		}
	}

	return table, nil
}

// xrefStreamWidths extracts and validates the /W array.
func xrefStreamWidths(dict Dict) ([3]int, error) {
	var widths [3]int
	w, ok := dict.GetArray("W")
	if !ok || len(w) != 3 {
		return widths, fmt.Errorf("xref stream missing /W array")
	}
	for i := 0; i < 3; i++ {
		n, ok := w.GetInt(i)
		if !ok || n < 0 || n > 8 {
			return widths, fmt.Errorf("invalid /W field width at index %d", i)
		}
		widths[i] = int(n)
	}
	return widths, nil
}

type xrefSubsection struct {
	first int
	count int
}

// xrefStreamIndex returns the subsections described by /Index, defaulting
// to a single run [0, Size) when absent.
func xrefStreamIndex(dict Dict) []xrefSubsection {
	if index, ok := dict.GetArray("Index"); ok && len(index)%2 == 0 {
		subs := make([]xrefSubsection, 0, len(index)/2)
		for i := 0; i+1 < len(index); i += 2 {
			first, ok1 := index.GetInt(i)
			count, ok2 := index.GetInt(i + 1)
			if ok1 && ok2 && count >= 0 {
				subs = append(subs, xrefSubsection{first: int(first), count: int(count)})
			}
		}
		return subs
	}

	size, _ := dict.GetInt("Size")
	return []xrefSubsection{{first: 0, count: int(size)}}
}

// readField decodes a big-endian variable-width integer, returning def for
// zero-width fields.
func readField(b []byte, def int64) int64 {
	if len(b) == 0 {
		return def
	}
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// ParseAll walks the cross-reference chain starting from the last startxref,
// following /Prev links through every incremental update, and returns the
// merged table. For hybrid files it also folds in the /XRefStm stream so
// compressed objects remain reachable.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.FindStartXRef()
	if err != nil {
		return nil, err
	}

	var tables []*XRefTable
	visited := make(map[int64]bool)

	for {
		if visited[offset] {
			break // cycle in the /Prev chain
		}
		visited[offset] = true

		table, err := x.ParseXRef(offset)
		if err != nil {
			return nil, err
		}

		// Prepend: oldest ends up first so later updates override.
		tables = append([]*XRefTable{table}, tables...)

		// Hybrid files keep compressed-object entries in a parallel xref
		// stream referenced from the classic trailer. Its entries fill
		// gaps; the classic table wins conflicts, so it goes in ahead of
		// its own section.
		if xrefStm, ok := table.Trailer.GetInt("XRefStm"); ok {
			if stmTable, err := x.ParseXRef(int64(xrefStm)); err == nil {
				tables = append([]*XRefTable{stmTable}, tables...)
			}
		}

		prev, ok := table.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}

	merged := MergeXRefTables(tables...)
	// The newest trailer governs the document.
	if len(tables) > 0 {
		merged.Trailer = tables[len(tables)-1].Trailer
	}
	return merged, nil
}

// MergeXRefTables merges multiple XRef tables (from incremental updates).
// Later tables override earlier ones.
func MergeXRefTables(tables ...*XRefTable) *XRefTable {
	merged := NewXRefTable()
	for _, table := range tables {
		for objNum, entry := range table.Entries {
			merged.Set(objNum, entry)
		}
		merged.Trailer = table.Trailer
	}
	return merged
}
