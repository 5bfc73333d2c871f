package core

import (
	"bytes"
	"fmt"
	"testing"
)

func parseOne(t *testing.T, input string) Object {
	t.Helper()
	obj, err := NewParser([]byte(input)).ParseObject()
	if err != nil {
		t.Fatalf("ParseObject(%q) failed: %v", input, err)
	}
	return obj
}

func TestParserScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"null", "null", Null{}},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"integer", "42", Int(42)},
		{"negative integer", "-17", Int(-17)},
		{"real", "3.5", Real(3.5)},
		{"negative real", "-0.25", Real(-0.25)},
		{"string", "(hello)", String("hello")},
		{"name", "/Type", Name("Type")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOne(t, tt.input)
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParserHexString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"even digits", "<48656C6C6F>", "Hello"},
		{"odd digits pad with zero", "<FAB>", "\xFA\xB0"},
		{"empty", "<>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOne(t, tt.input)
			if got != String(tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserIndirectReference(t *testing.T) {
	obj := parseOne(t, "12 0 R")
	ref, ok := obj.(IndirectRef)
	if !ok {
		t.Fatalf("got %T, want IndirectRef", obj)
	}
	if ref.Number != 12 || ref.Generation != 0 {
		t.Errorf("got %v, want 12 0 R", ref)
	}
}

func TestParserTwoIntegersAreNotAReference(t *testing.T) {
	parser := NewParser([]byte("10 20 30"))

	for _, want := range []Int{10, 20, 30} {
		obj, err := parser.ParseObject()
		if err != nil {
			t.Fatalf("ParseObject failed: %v", err)
		}
		if obj != want {
			t.Errorf("got %v, want %v", obj, want)
		}
	}
}

func TestParserArray(t *testing.T) {
	obj := parseOne(t, "[1 2.5 (three) /Four [5] 6 0 R]")
	arr, ok := obj.(Array)
	if !ok {
		t.Fatalf("got %T, want Array", obj)
	}
	if arr.Len() != 6 {
		t.Fatalf("Len = %d, want 6", arr.Len())
	}
	if arr.Get(0) != Int(1) || arr.Get(1) != Real(2.5) {
		t.Error("numeric elements wrong")
	}
	if arr.Get(2) != String("three") || arr.Get(3) != Name("Four") {
		t.Error("string/name elements wrong")
	}
	inner, ok := arr.Get(4).(Array)
	if !ok || inner.Len() != 1 {
		t.Error("nested array wrong")
	}
	if ref, ok := arr.Get(5).(IndirectRef); !ok || ref.Number != 6 {
		t.Error("reference inside array wrong")
	}
}

func TestParserEmptyArray(t *testing.T) {
	obj := parseOne(t, "[]")
	if arr, ok := obj.(Array); !ok || arr.Len() != 0 {
		t.Errorf("got %v", obj)
	}
}

func TestParserDict(t *testing.T) {
	obj := parseOne(t, "<< /Type /Page /Count 3 /Parent 2 0 R /Box [0 0 612 792] >>")
	dict, ok := obj.(Dict)
	if !ok {
		t.Fatalf("got %T, want Dict", obj)
	}

	if name, _ := dict.GetName("Type"); name != "Page" {
		t.Errorf("/Type = %v", name)
	}
	if n, _ := dict.GetInt("Count"); n != 3 {
		t.Errorf("/Count = %v", n)
	}
	if ref, ok := dict.GetIndirectRef("Parent"); !ok || ref.Number != 2 {
		t.Errorf("/Parent = %v", ref)
	}
	if box, ok := dict.GetArray("Box"); !ok || box.Len() != 4 {
		t.Errorf("/Box = %v", box)
	}
}

func TestParserNestedDict(t *testing.T) {
	obj := parseOne(t, "<< /Outer << /Inner (value) >> >>")
	dict := obj.(Dict)
	inner, ok := dict.GetDict("Outer")
	if !ok {
		t.Fatal("missing /Outer dict")
	}
	if s, _ := inner.GetString("Inner"); s != "value" {
		t.Errorf("/Inner = %q", s)
	}
}

func TestParserComments(t *testing.T) {
	obj := parseOne(t, "% a comment\n42")
	if obj != Int(42) {
		t.Errorf("got %v, want 42", obj)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"bare keyword", "bogus"},
		{"unterminated dict", "<< /A 1"},
		{"unterminated array", "[1 2"},
		{"non-name dict key", "<< 1 2 >>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParser([]byte(tt.input)).ParseObject(); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestParseIndirectObject(t *testing.T) {
	input := "5 0 obj\n<< /Type /Catalog >>\nendobj"
	indObj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if indObj.Ref.Number != 5 || indObj.Ref.Generation != 0 {
		t.Errorf("Ref = %v", indObj.Ref)
	}
	dict, ok := indObj.Object.(Dict)
	if !ok {
		t.Fatalf("object is %T, want Dict", indObj.Object)
	}
	if name, _ := dict.GetName("Type"); name != "Catalog" {
		t.Errorf("/Type = %v", name)
	}
}

func TestParseIndirectObjectMissingEndobj(t *testing.T) {
	input := "5 0 obj\n(content)\n6 0 obj\n(next)\nendobj"
	indObj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if indObj.Object != String("content") {
		t.Errorf("object = %v", indObj.Object)
	}
}

func TestParseIndirectObjectAtOffset(t *testing.T) {
	input := "junk junk 7 0 obj\n42\nendobj"
	offset := int64(10)
	indObj, err := NewParserAt([]byte(input), offset).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if indObj.Ref.Number != 7 || indObj.Object != Int(42) {
		t.Errorf("got %v = %v", indObj.Ref, indObj.Object)
	}
}

func TestParseStream(t *testing.T) {
	data := "BT /F1 12 Tf ET"
	input := fmt.Sprintf("1 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj", len(data), data)

	indObj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream, ok := indObj.Object.(*Stream)
	if !ok {
		t.Fatalf("object is %T, want *Stream", indObj.Object)
	}
	if string(stream.Data) != data {
		t.Errorf("stream data = %q, want %q", stream.Data, data)
	}
}

func TestParseStreamBinaryData(t *testing.T) {
	payload := []byte{0x00, 0x01, 0xFF, '\n', 'e', 0xFE}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "1 0 obj\n<< /Length %d >>\nstream\n", len(payload))
	buf.Write(payload)
	buf.WriteString("\nendstream\nendobj")

	indObj, err := NewParser(buf.Bytes()).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream := indObj.Object.(*Stream)
	if !bytes.Equal(stream.Data, payload) {
		t.Errorf("stream data = %v, want %v", stream.Data, payload)
	}
}

func TestParseStreamWrongLength(t *testing.T) {
	// /Length lies; the parser must fall back to scanning for endstream.
	data := "actual stream content"
	input := fmt.Sprintf("1 0 obj\n<< /Length 5 >>\nstream\n%s\nendstream\nendobj", data)

	indObj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream := indObj.Object.(*Stream)
	if string(stream.Data) != data {
		t.Errorf("stream data = %q, want %q", stream.Data, data)
	}
}

func TestParseStreamMissingLength(t *testing.T) {
	data := "no length declared"
	input := fmt.Sprintf("1 0 obj\n<< >>\nstream\n%s\nendstream\nendobj", data)

	indObj, err := NewParser([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream := indObj.Object.(*Stream)
	if string(stream.Data) != data {
		t.Errorf("stream data = %q, want %q", stream.Data, data)
	}
}

// lengthResolver serves a single object, standing in for a full reader when
// /Length is an indirect reference.
type lengthResolver struct {
	objects map[int]Object
}

func (m *lengthResolver) ResolveReference(ref IndirectRef) (Object, error) {
	obj, ok := m.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
	return obj, nil
}

func TestParseStreamIndirectLength(t *testing.T) {
	data := "indirect length data"
	input := fmt.Sprintf("1 0 obj\n<< /Length 2 0 R >>\nstream\n%s\nendstream\nendobj", data)

	parser := NewParser([]byte(input))
	parser.SetReferenceResolver(&lengthResolver{objects: map[int]Object{2: Int(len(data))}})

	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	stream := indObj.Object.(*Stream)
	if string(stream.Data) != data {
		t.Errorf("stream data = %q, want %q", stream.Data, data)
	}
}

func TestParseStreamNoEndstream(t *testing.T) {
	input := "1 0 obj\n<< >>\nstream\ndata that never ends"
	if _, err := NewParser([]byte(input)).ParseIndirectObject(); err == nil {
		t.Error("expected error for stream without endstream")
	}
}
