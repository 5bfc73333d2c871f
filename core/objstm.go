package core

import "fmt"

// ObjectStream reads a /Type /ObjStm stream: a container holding many
// small objects in one compressed payload. The decoded data starts with a
// header of "objNum offset" integer pairs; /First marks where the first
// object body begins.
//
// Decoding and header parsing happen lazily on first access, and parsed
// objects are cached by index.
type ObjectStream struct {
	stream  *Stream
	n       int
	first   int
	extends *IndirectRef

	decoded []byte
	entries []objStmEntry
	cache   map[int]Object
}

type objStmEntry struct {
	num int // object number
	off int // byte offset relative to /First
}

// NewObjectStream wraps a stream whose dict declares /Type /ObjStm with
// valid /N and /First entries.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if typeName, _ := stream.Dict.GetName("Type"); typeName != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type %q", typeName)
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First")
	}

	os := &ObjectStream{
		stream: stream,
		n:      int(n),
		first:  int(first),
		cache:  make(map[int]Object),
	}
	if ref, ok := stream.Dict.GetIndirectRef("Extends"); ok {
		os.extends = &ref
	}
	return os, nil
}

// N returns the declared object count.
func (os *ObjectStream) N() int {
	return os.n
}

// First returns the byte offset of the first object body in the decoded
// data. Everything before it is the header.
func (os *ObjectStream) First() int {
	return os.first
}

// Extends returns the object stream this one extends, or nil.
func (os *ObjectStream) Extends() *IndirectRef {
	return os.extends
}

func (os *ObjectStream) load() error {
	if os.decoded != nil {
		return nil
	}

	data, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("decoding object stream: %w", err)
	}
	if os.first > len(data) {
		return fmt.Errorf("/First %d exceeds decoded length %d", os.first, len(data))
	}

	parser := NewParser(data[:os.first])
	entries := make([]objStmEntry, 0, os.n)
	for i := 0; i < os.n; i++ {
		num, err := parseHeaderInt(parser)
		if err != nil {
			return fmt.Errorf("header pair %d: %w", i, err)
		}
		off, err := parseHeaderInt(parser)
		if err != nil {
			return fmt.Errorf("header pair %d: %w", i, err)
		}
		entries = append(entries, objStmEntry{num: num, off: off})
	}

	os.decoded = data
	os.entries = entries
	return nil
}

func parseHeaderInt(p *Parser) (int, error) {
	obj, err := p.ParseObject()
	if err != nil {
		return 0, err
	}
	n, ok := obj.(Int)
	if !ok {
		return 0, fmt.Errorf("expected integer, got %T", obj)
	}
	return int(n), nil
}

// GetObjectByIndex parses the object at a header position (0-based) and
// returns it with its object number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(os.entries) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.entries))
	}
	entry := os.entries[index]

	if obj, ok := os.cache[index]; ok {
		return obj, entry.num, nil
	}

	start := os.first + entry.off
	if start >= len(os.decoded) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded length %d", start, len(os.decoded))
	}

	// Each object ends where the next one starts.
	end := len(os.decoded)
	if index+1 < len(os.entries) {
		if next := os.first + os.entries[index+1].off; next >= start && next <= end {
			end = next
		}
	}

	obj, err := NewParser(os.decoded[start:end]).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("parsing object at index %d: %w", index, err)
	}
	os.cache[index] = obj
	return obj, entry.num, nil
}

// GetObjectByNumber parses the object with the given object number and
// returns it with its header index.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	for i, entry := range os.entries {
		if entry.num == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers lists the object numbers the stream holds, in header order.
func (os *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := os.load(); err != nil {
		return nil, err
	}
	nums := make([]int, len(os.entries))
	for i, entry := range os.entries {
		nums[i] = entry.num
	}
	return nums, nil
}
