package core

import (
	"testing"
)

func TestObjectTypes(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want ObjectType
	}{
		{"null", Null{}, ObjNull},
		{"bool", Bool(true), ObjBool},
		{"int", Int(42), ObjInt},
		{"real", Real(3.14), ObjReal},
		{"string", String("hello"), ObjString},
		{"name", Name("Type"), ObjName},
		{"array", Array{Int(1)}, ObjArray},
		{"dict", Dict{}, ObjDict},
		{"stream", &Stream{Dict: Dict{}}, ObjStream},
		{"indirect ref", IndirectRef{Number: 1}, ObjIndirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.Type(); got != tt.want {
				t.Errorf("Type() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectString(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Null{}, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(42), "42"},
		{Int(-7), "-7"},
		{Real(2.5), "2.5"},
		{Name("Type"), "/Type"},
		{IndirectRef{Number: 3, Generation: 1}, "3 1 R"},
	}

	for _, tt := range tests {
		if got := tt.obj.String(); got != tt.want {
			t.Errorf("%T String() = %q, want %q", tt.obj, got, tt.want)
		}
	}
}

func TestIsNull(t *testing.T) {
	if !IsNull(Null{}) {
		t.Error("IsNull(Null{}) = false")
	}
	if !IsNull(nil) {
		t.Error("IsNull(nil) = false")
	}
	if IsNull(Int(0)) {
		t.Error("IsNull(Int(0)) = true")
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		obj  Object
		want float64
		ok   bool
	}{
		{Int(3), 3.0, true},
		{Real(2.5), 2.5, true},
		{String("x"), 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := AsFloat(tt.obj)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AsFloat(%v) = %v, %v; want %v, %v", tt.obj, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		obj  Object
		want int64
		ok   bool
	}{
		{Int(7), 7, true},
		{Real(2.9), 2, true},
		{Name("x"), 0, false},
	}

	for _, tt := range tests {
		got, ok := AsInt(tt.obj)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AsInt(%v) = %v, %v; want %v, %v", tt.obj, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDictGetters(t *testing.T) {
	dict := Dict{
		"Type":     Name("Page"),
		"Count":    Int(3),
		"Scale":    Real(1.5),
		"Title":    String("doc"),
		"Visible":  Bool(true),
		"Kids":     Array{Int(1), Int(2)},
		"Parent":   IndirectRef{Number: 2},
		"Extra":    Dict{"A": Int(1)},
		"Contents": &Stream{Dict: Dict{}},
	}

	if name, ok := dict.GetName("Type"); !ok || name != "Page" {
		t.Errorf("GetName = %v, %v", name, ok)
	}
	if n, ok := dict.GetInt("Count"); !ok || n != 3 {
		t.Errorf("GetInt = %v, %v", n, ok)
	}
	if f, ok := dict.GetFloat("Scale"); !ok || f != 1.5 {
		t.Errorf("GetFloat(Scale) = %v, %v", f, ok)
	}
	if f, ok := dict.GetFloat("Count"); !ok || f != 3.0 {
		t.Errorf("GetFloat(Count) = %v, %v; integers should convert", f, ok)
	}
	if s, ok := dict.GetString("Title"); !ok || s != "doc" {
		t.Errorf("GetString = %v, %v", s, ok)
	}
	if b, ok := dict.GetBool("Visible"); !ok || !bool(b) {
		t.Errorf("GetBool = %v, %v", b, ok)
	}
	if arr, ok := dict.GetArray("Kids"); !ok || arr.Len() != 2 {
		t.Errorf("GetArray = %v, %v", arr, ok)
	}
	if ref, ok := dict.GetIndirectRef("Parent"); !ok || ref.Number != 2 {
		t.Errorf("GetIndirectRef = %v, %v", ref, ok)
	}
	if d, ok := dict.GetDict("Extra"); !ok || len(d) != 1 {
		t.Errorf("GetDict = %v, %v", d, ok)
	}
	if _, ok := dict.GetStream("Contents"); !ok {
		t.Error("GetStream failed")
	}

	if _, ok := dict.GetName("Missing"); ok {
		t.Error("GetName on missing key should fail")
	}
	if _, ok := dict.GetInt("Type"); ok {
		t.Error("GetInt on a name should fail")
	}
	if !dict.Has("Type") || dict.Has("Missing") {
		t.Error("Has gave wrong answers")
	}
}

func TestDictKeysSorted(t *testing.T) {
	dict := Dict{"Zebra": Int(1), "Alpha": Int(2), "Mid": Int(3)}
	keys := dict.Keys()
	want := []string{"Alpha", "Mid", "Zebra"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(want))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestArrayAccessors(t *testing.T) {
	arr := Array{Int(10), Real(2.5), Name("X")}

	if arr.Len() != 3 {
		t.Errorf("Len = %d, want 3", arr.Len())
	}
	if v := arr.Get(0); v != Int(10) {
		t.Errorf("Get(0) = %v", v)
	}
	if v := arr.Get(-1); v != nil {
		t.Errorf("Get(-1) = %v, want nil", v)
	}
	if v := arr.Get(3); v != nil {
		t.Errorf("Get(3) = %v, want nil", v)
	}
	if n, ok := arr.GetInt(0); !ok || n != 10 {
		t.Errorf("GetInt(0) = %v, %v", n, ok)
	}
	if f, ok := arr.GetFloat(1); !ok || f != 2.5 {
		t.Errorf("GetFloat(1) = %v, %v", f, ok)
	}
	if f, ok := arr.GetFloat(0); !ok || f != 10.0 {
		t.Errorf("GetFloat(0) = %v, %v; integers should convert", f, ok)
	}
	if name, ok := arr.GetName(2); !ok || name != "X" {
		t.Errorf("GetName(2) = %v, %v", name, ok)
	}
	if _, ok := arr.GetInt(5); ok {
		t.Error("GetInt out of range should fail")
	}
}
