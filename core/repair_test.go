package core

import (
	"testing"
)

func TestRepairXRefScansObjects(t *testing.T) {
	data := []byte("%PDF-1.4\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n" +
		"trailer\n<< /Size 3 /Root 1 0 R >>\n")

	table, err := RepairXRef(data)
	if err != nil {
		t.Fatalf("RepairXRef failed: %v", err)
	}

	entry, ok := table.Get(1)
	if !ok || entry.Kind != EntryInFile {
		t.Fatalf("entry 1 = %+v", entry)
	}
	// The offset must point at the object header so a parse succeeds there.
	indObj, err := NewParserAt(data, entry.Offset).ParseIndirectObject()
	if err != nil {
		t.Fatalf("parse at recovered offset failed: %v", err)
	}
	if indObj.Ref.Number != 1 {
		t.Errorf("object at offset is %d, want 1", indObj.Ref.Number)
	}

	if root, ok := table.Trailer.GetIndirectRef("Root"); !ok || root.Number != 1 {
		t.Errorf("recovered trailer Root = %v", table.Trailer.Get("Root"))
	}
}

func TestRepairXRefLaterDuplicateWins(t *testing.T) {
	var offFirst, offSecond int64
	prefix := []byte("%PDF-1.4\n")
	first := []byte("3 0 obj\n(old)\nendobj\n")
	second := []byte("3 0 obj\n(new)\nendobj\n")

	data := append(append(append([]byte{}, prefix...), first...), second...)
	offFirst = int64(len(prefix))
	offSecond = int64(len(prefix) + len(first))

	table, err := RepairXRef(data)
	if err != nil {
		t.Fatalf("RepairXRef failed: %v", err)
	}
	entry, ok := table.Get(3)
	if !ok {
		t.Fatal("entry 3 not found")
	}
	if entry.Offset != offSecond {
		t.Errorf("offset = %d, want %d (not %d)", entry.Offset, offSecond, offFirst)
	}
}

func TestRepairXRefSynthesizesTrailer(t *testing.T) {
	data := []byte("%PDF-1.4\n" +
		"7 0 obj\n<< /Length 1 >>\nendobj\n" +
		"8 0 obj\n<< /Type /Catalog /Pages 9 0 R >>\nendobj\n")

	table, err := RepairXRef(data)
	if err != nil {
		t.Fatalf("RepairXRef failed: %v", err)
	}
	root, ok := table.Trailer.GetIndirectRef("Root")
	if !ok || root.Number != 8 {
		t.Errorf("synthesized Root = %v, want 8 0 R", table.Trailer.Get("Root"))
	}
}

func TestRepairXRefIgnoresEmbeddedMatches(t *testing.T) {
	// "5 0 obj" appears inside a string literal; the preceding byte is not
	// a token boundary, so the match must be rejected.
	data := []byte("%PDF-1.4\n" +
		"1 0 obj\n(contains x5 0 obj inside)\nendobj\n")

	table, err := RepairXRef(data)
	if err != nil {
		t.Fatalf("RepairXRef failed: %v", err)
	}
	if _, ok := table.Get(5); ok {
		t.Error("embedded pseudo-header must not produce an entry")
	}
	if _, ok := table.Get(1); !ok {
		t.Error("real object 1 missing")
	}
}

func TestRepairXRefEmptyInput(t *testing.T) {
	table, err := RepairXRef([]byte("nothing here"))
	if err != nil {
		t.Fatalf("RepairXRef failed: %v", err)
	}
	if table.Size() != 0 {
		t.Errorf("Size = %d, want 0", table.Size())
	}
}
