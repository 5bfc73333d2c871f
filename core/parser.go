package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver is an interface for resolving indirect references.
// This allows the parser to resolve indirect stream lengths when needed.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from raw input using a Lexer for tokenization.
// It supports parsing all PDF object types including indirect objects and
// streams.
type Parser struct {
	lexer        *Lexer
	currentToken *Token // Current token being processed
	peekToken    *Token // Next token (lookahead)
	resolver     ReferenceResolver
}

// NewParser creates a new PDF parser over the given input.
func NewParser(data []byte) *Parser {
	return NewParserAt(data, 0)
}

// NewParserAt creates a parser positioned at a byte offset within the input.
// Cross-reference entries address objects by absolute offset, so the reader
// starts a parse wherever the table points.
func NewParserAt(data []byte, offset int64) *Parser {
	p := &Parser{lexer: NewLexer(data)}
	p.lexer.Seek(offset)
	// Load first two tokens
	p.nextToken()
	p.nextToken()
	return p
}

// SetReferenceResolver sets the reference resolver for the parser.
// This is needed to resolve indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// nextToken advances the parser to the next token by shifting the lookahead.
func (p *Parser) nextToken() error {
	p.currentToken = p.peekToken

	// If we just moved "stream" into currentToken, don't read ahead: what
	// follows is binary data that can't be tokenized. parseStream consumes
	// it from the lexer directly.
	if p.currentToken != nil &&
		p.currentToken.Type == TokenKeyword &&
		string(p.currentToken.Value) == "stream" {
		p.peekToken = nil
		return nil
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.peekToken = token
	return nil
}

// skipComments skips over any consecutive comment tokens.
func (p *Parser) skipComments() error {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// ParseObject parses and returns the next PDF object from the input.
// It handles all PDF object types: null, boolean, integer, real, string,
// name, array, dictionary, and indirect references.
func (p *Parser) ParseObject() (Object, error) {
	if err := p.skipComments(); err != nil {
		return nil, err
	}

	if p.currentToken == nil {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch p.currentToken.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		keyword := string(p.currentToken.Value)
		switch keyword {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		default:
			return nil, fmt.Errorf("unexpected keyword: %s", keyword)
		}

	case TokenInteger:
		// Could be integer or start of indirect reference
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(p.currentToken.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number: %w", err)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		val := string(p.currentToken.Value)
		p.nextToken()
		return String(val), nil

	case TokenHexString:
		val, err := decodeHexString(p.currentToken.Value)
		if err != nil {
			return nil, err
		}
		p.nextToken()
		return String(val), nil

	case TokenName:
		val := string(p.currentToken.Value)
		p.nextToken()
		return Name(val), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()

	default:
		return nil, fmt.Errorf("unexpected token type: %v at position %d", p.currentToken.Type, p.currentToken.Pos)
	}
}

// decodeHexString converts hex digits to raw bytes, padding an odd-length
// string with a trailing zero as the syntax requires.
func decodeHexString(digits []byte) (string, error) {
	buf := make([]byte, 0, (len(digits)+1)/2)
	for i := 0; i < len(digits); i += 2 {
		hi := hexValue(digits[i])
		var lo byte
		if i+1 < len(digits) {
			lo = hexValue(digits[i+1])
		}
		buf = append(buf, hi*16+lo)
	}
	return string(buf), nil
}

// parseNumber parses an integer, real number, or indirect reference.
// Indirect references are detected by lookahead: "num gen R" pattern.
func (p *Parser) parseNumber() (Object, error) {
	firstToken := string(p.currentToken.Value)

	firstInt, err := strconv.ParseInt(firstToken, 10, 64)
	if err != nil {
		f, err := strconv.ParseFloat(firstToken, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", firstToken)
		}
		p.nextToken()
		return Real(f), nil
	}

	// Use lookahead to check if this is an indirect reference (num gen R)
	if p.peekToken != nil && p.peekToken.Type == TokenInteger {
		secondToken := string(p.peekToken.Value)
		secondInt, err := strconv.ParseInt(secondToken, 10, 64)
		if err == nil {
			// We need to consume the second integer to peek at the third
			// token; if it turns out not to be R, the second integer stays
			// current and the first is returned on its own.
			p.nextToken()
			if p.peekToken != nil && p.peekToken.Type == TokenIndirectRef {
				p.nextToken() // Move to R
				p.nextToken() // Move past R
				return IndirectRef{
					Number:     int(firstInt),
					Generation: int(secondInt),
				}, nil
			}
			return Int(firstInt), nil
		}
	}

	p.nextToken()
	return Int(firstInt), nil
}

// parseArray parses a PDF array "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	if p.currentToken.Type != TokenArrayStart {
		return nil, fmt.Errorf("expected '[', got %v", p.currentToken.Type)
	}
	p.nextToken()

	var arr Array
	for {
		if err := p.skipComments(); err != nil {
			return nil, err
		}

		if p.currentToken == nil {
			return nil, fmt.Errorf("unexpected end of input in array")
		}
		if p.currentToken.Type == TokenArrayEnd {
			p.nextToken()
			break
		}
		if p.currentToken.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in array")
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}

	return arr, nil
}

// parseDict parses a PDF dictionary "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	if p.currentToken.Type != TokenDictStart {
		return nil, fmt.Errorf("expected '<<', got %v", p.currentToken.Type)
	}
	p.nextToken()

	dict := make(Dict)
	for {
		if err := p.skipComments(); err != nil {
			return nil, err
		}

		if p.currentToken == nil {
			return nil, fmt.Errorf("unexpected end of input in dictionary")
		}
		if p.currentToken.Type == TokenDictEnd {
			p.nextToken()
			break
		}
		if p.currentToken.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		}

		if p.currentToken.Type != TokenName {
			return nil, fmt.Errorf("expected name for dictionary key, got %v", p.currentToken.Type)
		}
		key := string(p.currentToken.Value)
		p.nextToken()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}

		dict[key] = value
	}

	return dict, nil
}

// ParseIndirectObject parses an indirect object definition.
// Format: "num gen obj <object> endobj" or "num gen obj <dict> stream ... endstream endobj"
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	if err := p.skipComments(); err != nil {
		return nil, err
	}

	if p.currentToken == nil || p.currentToken.Type != TokenInteger {
		return nil, fmt.Errorf("expected object number, got %v", p.currentToken)
	}
	num, err := strconv.ParseInt(string(p.currentToken.Value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid object number: %w", err)
	}
	p.nextToken()

	if p.currentToken == nil || p.currentToken.Type != TokenInteger {
		return nil, fmt.Errorf("expected generation number, got %v", p.currentToken)
	}
	gen, err := strconv.ParseInt(string(p.currentToken.Value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid generation number: %w", err)
	}
	p.nextToken()

	if p.currentToken.Type != TokenKeyword || string(p.currentToken.Value) != "obj" {
		return nil, fmt.Errorf("expected 'obj' keyword, got %v", p.currentToken)
	}
	p.nextToken()

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	// Check for stream
	if p.currentToken != nil && p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary")
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream: %w", err)
		}
		obj = stream
	}

	// Tolerate a missing endobj: some writers omit it and the next object
	// follows immediately.
	if p.currentToken != nil && p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == "endobj" {
		p.nextToken()
	}

	return &IndirectObject{
		Ref: IndirectRef{
			Number:     int(num),
			Generation: int(gen),
		},
		Object: obj,
	}, nil
}

// parseStream parses a stream object after the "stream" keyword.
// The /Length entry gives the data size; when it is absent, indirect and
// unresolvable, or provably wrong, the data boundary is recovered by
// scanning forward for the "endstream" keyword instead.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	if p.currentToken.Type != TokenKeyword || string(p.currentToken.Value) != "stream" {
		return nil, fmt.Errorf("expected 'stream' keyword")
	}

	// The lexer sits just past the 'stream' keyword (lookahead was
	// suppressed). Skip the mandatory EOL to reach the first data byte.
	p.lexer.SkipStreamEOL()
	dataStart := p.lexer.Pos()

	length, haveLength := p.streamLength(dict)

	var data []byte
	if haveLength && length >= 0 && length <= p.lexer.Remaining() {
		candidate, err := p.lexer.ReadBytes(length)
		if err == nil && p.endstreamFollows() {
			data = candidate
		}
	}

	if data == nil {
		// Length was wrong or missing: take everything up to the next
		// "endstream" keyword, trimming the EOL that precedes it.
		p.lexer.Seek(dataStart)
		end := p.lexer.Find([]byte("endstream"))
		if end < 0 {
			return nil, fmt.Errorf("stream at offset %d has no endstream", dataStart)
		}
		raw, _ := p.lexer.ReadBytes(int(end - dataStart))
		data = trimStreamEOL(raw)
	}

	// Consume the 'endstream' keyword
	token, err := p.lexer.NextToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read token after stream data: %w", err)
	}
	if token.Type != TokenKeyword || string(token.Value) != "endstream" {
		return nil, fmt.Errorf("expected 'endstream' keyword, got %q", string(token.Value))
	}

	// Reload the lookahead so ParseIndirectObject can continue normally
	p.currentToken = nil
	p.peekToken = nil
	p.nextToken()
	p.nextToken()

	return &Stream{
		Dict: dict,
		Data: data,
	}, nil
}

// streamLength extracts the /Length value, resolving an indirect reference
// through the resolver when one is configured.
func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), true
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		if n, ok := resolved.(Int); ok {
			return int(n), true
		}
	}
	return 0, false
}

// endstreamFollows reports whether the next keyword at the lexer position is
// "endstream", without advancing. Used to validate a declared /Length.
func (p *Parser) endstreamFollows() bool {
	pos := p.lexer.Pos()
	defer p.lexer.Seek(pos)

	token, err := p.lexer.NextToken()
	if err != nil {
		return false
	}
	return token.Type == TokenKeyword && string(token.Value) == "endstream"
}

// trimStreamEOL removes the single EOL that separates stream data from the
// endstream keyword, if present.
func trimStreamEOL(data []byte) []byte {
	if bytes.HasSuffix(data, []byte("\r\n")) {
		return data[:len(data)-2]
	}
	if len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		return data[:len(data)-1]
	}
	return data
}
