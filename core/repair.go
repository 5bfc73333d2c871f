package core

import (
	"bytes"
	"regexp"
	"strconv"
)

// objHeaderPattern matches an indirect object header "N G obj" at a position
// where it cannot be the tail of a longer token.
var objHeaderPattern = regexp.MustCompile(`(\d{1,10})\s+(\d{1,5})\s+obj\b`)

// RepairXRef rebuilds a cross-reference table by linearly scanning the file
// for indirect object headers. It is the fallback when the recorded table is
// missing, unparseable, or points at the wrong objects. The scan is a single
// pass over the file, so its cost is bounded by the file size.
//
// When the same object number appears more than once (incremental updates
// append new versions), the later occurrence wins. The trailer is recovered
// from the last "trailer" keyword in the file; failing that, a minimal
// trailer is synthesized from the first /Type /Catalog object found.
func RepairXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()

	for _, loc := range objHeaderPattern.FindAllSubmatchIndex(data, -1) {
		// Reject matches whose object number is preceded by other digits
		// (e.g. the "0" inside an offset) or non-boundary bytes.
		start := loc[2]
		if start > 0 && !isWhitespace(data[start-1]) && !isDelimiter(data[start-1]) {
			continue
		}

		num, err := strconv.Atoi(string(data[loc[2]:loc[3]]))
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(string(data[loc[4]:loc[5]]))
		if err != nil {
			continue
		}

		table.Set(num, &XRefEntry{
			Kind:       EntryInFile,
			Offset:     int64(start),
			Generation: gen,
		})
	}

	table.Trailer = recoverTrailer(data, table)
	return table, nil
}

// recoverTrailer finds the last trailer dictionary in the file, or builds
// one by locating the document catalog among the scanned objects.
func recoverTrailer(data []byte, table *XRefTable) Dict {
	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		parser := NewParserAt(data, int64(idx+len("trailer")))
		if obj, err := parser.ParseObject(); err == nil {
			if dict, ok := obj.(Dict); ok && dict.Has("Root") {
				return dict
			}
		}
	}

	// No usable trailer: look for the catalog directly.
	for num, entry := range table.Entries {
		if entry.Kind != EntryInFile {
			continue
		}
		parser := NewParserAt(data, entry.Offset)
		indirect, err := parser.ParseIndirectObject()
		if err != nil {
			continue
		}
		dict, ok := indirect.Object.(Dict)
		if !ok {
			continue
		}
		if typeName, _ := dict.GetName("Type"); typeName == "Catalog" {
			trailer := make(Dict)
			trailer.Set("Root", IndirectRef{Number: num, Generation: entry.Generation})
			return trailer
		}
	}

	return make(Dict)
}
