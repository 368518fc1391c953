package lexer

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/lib"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// Lexer turns a character stream into tokens, one at a time. It keeps no
// token history and cannot be restarted.
type Lexer struct {
	r      *bufio.Reader
	source string
	err    error // first read error other than io.EOF

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)

	comments int // comments skipped so far

	logger *slog.Logger
}

type Option func(*Lexer)

// WithLogger logs every produced token at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLexer reads source text from r. source names the input in positions.
func NewLexer(r io.Reader, source string, opts ...Option) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		source: source,
		line:   1,
		column: 1,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize drains a fresh lexer over r, EOF token included.
func Tokenize(r io.Reader, source string, opts ...Option) ([]token.Token, error) {
	l := NewLexer(r, source, opts...)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.TokenEOF {
			return toks, nil
		}
	}
}

// Pos is the position of the next unread character.
func (l *Lexer) Pos() token.Position {
	return token.Position{Source: l.source, Line: l.line, Column: l.column}
}

// Comments reports how many comments have been skipped so far.
func (l *Lexer) Comments() int {
	return l.comments
}

// peek returns up to n upcoming bytes without consuming them.
func (l *Lexer) peek(n int) []byte {
	b, err := l.r.Peek(n)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) && l.err == nil {
		l.err = err
	}
	return b
}

// peekAt returns the byte i positions ahead, or 0 past the end.
func (l *Lexer) peekAt(i int) byte {
	b := l.peek(i + 1)
	if len(b) <= i {
		return 0
	}
	return b[i]
}

func (l *Lexer) peekChar() byte {
	return l.peekAt(0)
}

func (l *Lexer) atEOF() bool {
	return len(l.peek(1)) == 0
}

// readChar consumes one byte and tracks line/column numbers.
func (l *Lexer) readChar() byte {
	ch, err := l.r.ReadByte()
	if err != nil {
		return 0
	}
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advance(n int) {
	for range n {
		l.readChar()
	}
}

// NextToken returns the next token, or an EOF token once the stream is
// exhausted (and on every call after that).
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.Pos()
	if l.atEOF() {
		if l.err != nil {
			return token.Token{}, l.err
		}
		return l.emit(token.Token{Category: token.CategoryEOF, Type: token.TokenEOF, Pos: pos}), nil
	}

	ch := l.peekChar()
	switch {
	case isLetter(ch):
		return l.emit(l.readIdentifier(pos)), nil
	case isDigit(ch):
		tok, err := l.readNumber(pos)
		if err != nil {
			return token.Token{}, err
		}
		return l.emit(tok), nil
	case radixOf(ch) != 0:
		tok, err := l.readRadixInteger(pos)
		if err != nil {
			return token.Token{}, err
		}
		return l.emit(tok), nil
	}

	// Longest match first, so ":=" is never read as ":" followed by "=".
	chunk := l.peek(token.MaxOperatorLength)
	for n := len(chunk); n > 0; n-- {
		lit := string(chunk[:n])
		if typ, ok := token.LookupOperator(lit); ok {
			l.advance(n)
			return l.emit(token.Token{Category: token.CategoryOperator, Type: typ, Literal: lit, Pos: pos}), nil
		}
	}

	r, _ := utf8.DecodeRune(l.peek(utf8.UTFMax))
	return token.Token{}, &diag.LexicalError{Text: string(r), Msg: "Unexpected character", Pos: pos}
}

func (l *Lexer) emit(tok token.Token) token.Token {
	l.logger.Debug("token", "type", tok.Type, "literal", tok.Literal, "pos", tok.Pos.String())
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch ch := l.peekChar(); {
		case isSpace(ch):
			l.readChar()
		case ch == '{':
			l.advance(1)
			l.skipComment("}")
			l.comments++
		case ch == '(' && l.peekAt(1) == '*':
			l.advance(2)
			l.skipComment("*)")
			l.comments++
		default:
			return
		}
	}
}

// skipComment consumes up to and including end. An unterminated comment
// runs to the end of the stream.
func (l *Lexer) skipComment(end string) {
	for !l.atEOF() {
		if string(l.peek(len(end))) == end {
			l.advance(len(end))
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	var b strings.Builder
	for isLetter(l.peekChar()) || isDigit(l.peekChar()) {
		b.WriteByte(l.readChar())
	}
	lit := b.String()

	tokenType := token.LookupIdent(lit)
	if tokenType != token.TokenIdent {
		return token.Token{Category: token.CategoryKeyword, Type: tokenType, Literal: lit, Pos: pos}
	}
	return token.Token{Category: token.CategoryIdentifier, Type: token.TokenIdent, Literal: lit, Value: lib.CanonicalName(lit), Pos: pos}
}

func (l *Lexer) readDigits(b *strings.Builder) {
	for isDigit(l.peekChar()) {
		b.WriteByte(l.readChar())
	}
}

// readNumber reads digits, an optional fraction and an optional exponent.
// A '.' only belongs to the number when a digit follows it.
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	var b strings.Builder
	l.readDigits(&b)

	isReal := false
	if l.peekChar() == '.' && isDigit(l.peekAt(1)) {
		isReal = true
		b.WriteByte(l.readChar())
		l.readDigits(&b)
	}
	if ch := l.peekChar(); ch == 'e' || ch == 'E' {
		isReal = true
		b.WriteByte(l.readChar())
		if sign := l.peekChar(); sign == '+' || sign == '-' {
			b.WriteByte(l.readChar())
		}
		if !isDigit(l.peekChar()) {
			return token.Token{}, &diag.LexicalError{Text: b.String(), Msg: "Malformed numeric literal", Pos: pos}
		}
		l.readDigits(&b)
	}

	lit := b.String()
	if isReal {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return token.Token{}, &diag.LexicalError{Text: lit, Msg: "Real literal out of range", Pos: pos}
		}
		return token.Token{Category: token.CategoryLiteral, Type: token.TokenRealConst, Literal: lit, Value: f, Pos: pos}, nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return token.Token{}, &diag.LexicalError{Text: lit, Msg: "Integer literal out of range", Pos: pos}
	}
	return token.Token{Category: token.CategoryLiteral, Type: token.TokenIntConst, Literal: lit, Value: n, Pos: pos}, nil
}

// readRadixInteger reads $hex, &octal and %binary integers.
func (l *Lexer) readRadixInteger(pos token.Position) (token.Token, error) {
	base := radixOf(l.peekChar())

	var b strings.Builder
	b.WriteByte(l.readChar())
	for isLetter(l.peekChar()) || isDigit(l.peekChar()) {
		b.WriteByte(l.readChar())
	}
	lit := b.String()

	if len(lit) == 1 {
		return token.Token{}, &diag.LexicalError{Text: lit, Msg: "Malformed numeric literal", Pos: pos}
	}
	n, err := strconv.ParseInt(lit[1:], base, 64)
	if err != nil {
		msg := "Malformed numeric literal"
		if errors.Is(err, strconv.ErrRange) {
			msg = "Integer literal out of range"
		}
		return token.Token{}, &diag.LexicalError{Text: lit, Msg: msg, Pos: pos}
	}
	return token.Token{Category: token.CategoryLiteral, Type: token.TokenIntConst, Literal: lit, Value: n, Pos: pos}, nil
}

func radixOf(ch byte) int {
	switch ch {
	case '$':
		return 16
	case '&':
		return 8
	case '%':
		return 2
	}
	return 0
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\n' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}
