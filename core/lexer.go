package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, etc.
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64 // Byte offset of the token start within the input
}

// Lexer performs lexical analysis of PDF content. It operates on an
// in-memory byte slice, so it can seek to arbitrary offsets (cross-reference
// entries point at absolute byte positions) and restart cheaply.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a new lexer over the given input
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current byte offset
func (l *Lexer) Pos() int64 {
	return int64(l.pos)
}

// Seek repositions the lexer at the given byte offset
func (l *Lexer) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(l.data)) {
		return fmt.Errorf("seek offset %d out of range [0, %d]", offset, len(l.data))
	}
	l.pos = int(offset)
	return nil
}

// Remaining returns the number of unread bytes
func (l *Lexer) Remaining() int {
	return len(l.data) - l.pos
}

// eof reports whether the lexer has consumed all input
func (l *Lexer) eof() bool {
	return l.pos >= len(l.data)
}

// peek returns the next byte without consuming it, or 0 at EOF
func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.data[l.pos]
}

// peekAt returns the byte n positions ahead, or 0 past EOF
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.data) {
		return 0
	}
	return l.data[l.pos+n]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()

	if l.eof() {
		return &Token{Type: TokenEOF, Pos: l.Pos()}, nil
	}

	b := l.peek()

	if b == '%' {
		return l.readComment(), nil
	}

	switch b {
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: l.Pos() - 1}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: l.Pos() - 1}, nil
	case '(':
		return l.readString()
	case '<':
		// Could be << (dict start) or <hex string>
		if l.peekAt(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: []byte{'<', '<'}, Pos: l.Pos() - 2}, nil
		}
		return l.readHexString()
	case '>':
		// Must be >> (dict end)
		if l.peekAt(1) == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: []byte{'>', '>'}, Pos: l.Pos() - 2}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", l.pos)
	case '/':
		return l.readName()
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}

	if isAlpha(b) {
		return l.readKeyword(), nil
	}

	return nil, fmt.Errorf("unexpected character %q at position %d", b, l.pos)
}

// skipWhitespace skips all whitespace characters
// PDF whitespace: space (0x20), tab (0x09), LF (0x0A), CR (0x0D), FF (0x0C), null (0x00)
func (l *Lexer) skipWhitespace() {
	for !l.eof() && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

// readComment reads a comment (% to end of line)
func (l *Lexer) readComment() *Token {
	startPos := l.Pos()
	start := l.pos

	for !l.eof() && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	value := l.data[start:l.pos]

	// Consume the EOL, treating CR LF as a single break
	if !l.eof() {
		if l.data[l.pos] == '\r' {
			l.pos++
			if !l.eof() && l.data[l.pos] == '\n' {
				l.pos++
			}
		} else {
			l.pos++
		}
	}

	return &Token{Type: TokenComment, Value: value, Pos: startPos}
}

// readString reads a literal string (hello), handling nested parentheses,
// escape sequences, and octal escapes
func (l *Lexer) readString() (*Token, error) {
	startPos := l.Pos()
	var buf bytes.Buffer

	l.pos++ // opening (

	depth := 1
	for depth > 0 {
		if l.eof() {
			return nil, fmt.Errorf("unterminated string starting at position %d", startPos)
		}
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		case '\\':
			if l.eof() {
				return nil, fmt.Errorf("unterminated escape in string at position %d", l.pos)
			}
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(next)
			case '\r', '\n':
				// Line continuation - the backslash and EOL vanish
				if next == '\r' && l.peek() == '\n' {
					l.pos++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				// Octal escape \ddd, up to three digits
				val := next - '0'
				for i := 0; i < 2 && isOctalDigit(l.peek()); i++ {
					val = val*8 + (l.data[l.pos] - '0')
					l.pos++
				}
				buf.WriteByte(val)
			default:
				// Unknown escape - keep the character
				buf.WriteByte(next)
			}
		default:
			buf.WriteByte(b)
		}
	}

	return &Token{Type: TokenString, Value: buf.Bytes(), Pos: startPos}, nil
}

// readHexString reads a hexadecimal string <48656C6C6F>
func (l *Lexer) readHexString() (*Token, error) {
	startPos := l.Pos()
	var buf bytes.Buffer

	l.pos++ // opening <

	for {
		if l.eof() {
			return nil, fmt.Errorf("unterminated hex string starting at position %d", startPos)
		}
		b := l.data[l.pos]
		l.pos++

		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
		buf.WriteByte(b)
	}

	return &Token{Type: TokenHexString, Value: buf.Bytes(), Pos: startPos}, nil
}

// readName reads a name object /Type, handling # escape sequences
func (l *Lexer) readName() (*Token, error) {
	startPos := l.Pos()
	var buf bytes.Buffer

	l.pos++ // the /

	for !l.eof() {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++

		if b == '#' {
			if l.pos+1 >= len(l.data) || !isHexDigit(l.data[l.pos]) || !isHexDigit(l.data[l.pos+1]) {
				return nil, fmt.Errorf("invalid hex escape in name at position %d", l.pos)
			}
			val := hexValue(l.data[l.pos])*16 + hexValue(l.data[l.pos+1])
			l.pos += 2
			buf.WriteByte(val)
		} else {
			buf.WriteByte(b)
		}
	}

	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: startPos}, nil
}

// readNumber reads an integer or real number
func (l *Lexer) readNumber() *Token {
	startPos := l.Pos()
	start := l.pos
	hasDecimal := false

	for !l.eof() {
		b := l.data[l.pos]
		if b == '.' {
			if hasDecimal {
				break // Second decimal point - not part of this number
			}
			hasDecimal = true
			l.pos++
		} else if isDigit(b) || (l.pos == start && (b == '-' || b == '+')) {
			l.pos++
		} else {
			break
		}
	}

	tokenType := TokenInteger
	if hasDecimal {
		tokenType = TokenReal
	}

	return &Token{Type: tokenType, Value: l.data[start:l.pos], Pos: startPos}
}

// readKeyword reads a keyword (true, false, null, R, obj, endobj, etc.)
func (l *Lexer) readKeyword() *Token {
	startPos := l.Pos()
	start := l.pos

	for !l.eof() && (isAlpha(l.data[l.pos]) || isDigit(l.data[l.pos])) {
		l.pos++
	}

	value := l.data[start:l.pos]

	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: startPos}
	}

	return &Token{Type: TokenKeyword, Value: value, Pos: startPos}
}

// ReadBytes reads exactly n bytes of raw input, used for binary stream data
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read size %d", n)
	}
	if l.pos+n > len(l.data) {
		avail := len(l.data) - l.pos
		data := l.data[l.pos:]
		l.pos = len(l.data)
		return data, fmt.Errorf("unexpected EOF: expected %d bytes, got %d", n, avail)
	}
	data := l.data[l.pos : l.pos+n]
	l.pos += n
	return data, nil
}

// SkipStreamEOL consumes the end-of-line marker that follows the "stream"
// keyword. The PDF syntax requires LF or CR LF there; a bare CR or a missing
// marker is tolerated because real files get this wrong.
func (l *Lexer) SkipStreamEOL() {
	if l.eof() {
		return
	}
	switch l.data[l.pos] {
	case '\r':
		l.pos++
		if !l.eof() && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
		l.pos++
	}
}

// Find returns the absolute offset of the next occurrence of pat at or after
// the current position, or -1 if not found. The lexer does not advance.
func (l *Lexer) Find(pat []byte) int64 {
	idx := bytes.Index(l.data[l.pos:], pat)
	if idx < 0 {
		return -1
	}
	return int64(l.pos + idx)
}

// Helper functions

func isWhitespace(b byte) bool {
	// PDF whitespace: space, tab, LF, CR, FF, null
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
