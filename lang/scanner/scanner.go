// Package scanner tokenizes Lox source text.
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/lox/internal/diag"
	"github.com/mna/lox/lang/token"
)

// Scan tokenizes src in full and returns the token list (always terminated
// by a single EOF token) plus any lexical errors encountered. Unlike the
// parser, the scanner never aborts on error: it reports and keeps going, so
// that a single run surfaces every lexical problem in the file.
func Scan(src string) ([]token.Token, diag.List) {
	var s Scanner
	s.Init(src)
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, s.errs
}

// Scanner tokenizes a single source file. The zero value is not ready to
// use; call Init first.
type Scanner struct {
	src  string
	errs diag.List

	// mutable scanning state
	sb         strings.Builder
	cur        byte // current byte, or 0 at end of input
	off        int  // offset of cur
	roff       int  // offset following cur
	line       int
	blockDepth int // nested /* */ comment depth, 0 when not in a block comment
	blockLine  int // line the outermost /* opened
}

// Init prepares the scanner to tokenize src from the start.
func (s *Scanner) Init(src string) {
	s.src = src
	s.errs = nil
	s.line = 1
	s.off = 0
	s.roff = 0
	if len(src) > 0 {
		s.cur = src[0]
		s.roff = 1
	} else {
		s.cur = 0
	}
}

func (s *Scanner) atEnd() bool { return s.off >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) peekAt(n int) byte {
	i := s.roff + n
	if i < len(s.src) {
		return s.src[i]
	}
	return 0
}

// advance consumes the current byte and loads the next one into s.cur.
func (s *Scanner) advance() byte {
	c := s.cur
	if c == '\n' {
		s.line++
	}
	s.off = s.roff
	if s.off < len(s.src) {
		s.cur = s.src[s.off]
		s.roff = s.off + 1
	} else {
		s.cur = 0
	}
	return c
}

// advanceIf consumes the current byte only if it matches want.
func (s *Scanner) advanceIf(want byte) bool {
	if s.atEnd() || s.cur != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) errorf(line int, format string, args ...any) {
	s.errs.Add(line, fmt.Sprintf(format, args...))
}

// Next scans and returns the next token. Once EOF has been returned, every
// subsequent call returns EOF again.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()

	line := s.line
	if s.atEnd() {
		return token.Token{Kind: token.EOF, Lexeme: "", Line: line}
	}

	start := s.off
	c := s.advance()

	switch {
	case isDigit(c):
		return s.number(start, line)
	case isAlpha(c):
		return s.identifier(start, line)
	}

	switch c {
	case '(':
		return s.simple(token.LEFT_PAREN, start, line)
	case ')':
		return s.simple(token.RIGHT_PAREN, start, line)
	case '{':
		return s.simple(token.LEFT_BRACE, start, line)
	case '}':
		return s.simple(token.RIGHT_BRACE, start, line)
	case ',':
		return s.simple(token.COMMA, start, line)
	case '.':
		return s.simple(token.DOT, start, line)
	case '-':
		return s.simple(token.MINUS, start, line)
	case '+':
		return s.simple(token.PLUS, start, line)
	case ';':
		return s.simple(token.SEMICOLON, start, line)
	case '*':
		return s.simple(token.STAR, start, line)
	case '?':
		return s.simple(token.QUESTION, start, line)
	case ':':
		return s.simple(token.COLON, start, line)
	case '/':
		return s.simple(token.SLASH, start, line)
	case '!':
		if s.advanceIf('=') {
			return s.simple(token.BANG_EQUAL, start, line)
		}
		return s.simple(token.BANG, start, line)
	case '=':
		if s.advanceIf('=') {
			return s.simple(token.EQUAL_EQUAL, start, line)
		}
		return s.simple(token.EQUAL, start, line)
	case '<':
		if s.advanceIf('=') {
			return s.simple(token.LESS_EQUAL, start, line)
		}
		return s.simple(token.LESS, start, line)
	case '>':
		if s.advanceIf('=') {
			return s.simple(token.GREATER_EQUAL, start, line)
		}
		return s.simple(token.GREATER, start, line)
	case '"':
		return s.string(start, line)
	}

	s.errorf(line, "Unexpected character: %c", c)
	return s.Next()
}

func (s *Scanner) simple(kind token.Kind, start, line int) token.Token {
	return token.Token{Kind: kind, Lexeme: s.src[start:s.off], Line: line}
}

// skipWhitespaceAndComments consumes spaces, tabs, carriage returns,
// newlines, "//" line comments and nestable "/* */" block comments.
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case s.atEnd():
			return
		case s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n':
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for !s.atEnd() && s.cur != '\n' {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			s.blockLine = s.line
			s.blockDepth = 0
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *Scanner) skipBlockComment() {
	s.advance() // '/'
	s.advance() // '*'
	s.blockDepth = 1
	for s.blockDepth > 0 {
		if s.atEnd() {
			s.errorf(s.blockLine, "Unterminated block comment.")
			return
		}
		if s.cur == '/' && s.peek() == '*' {
			s.advance()
			s.advance()
			s.blockDepth++
			continue
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			s.blockDepth--
			continue
		}
		s.advance()
	}
}

func (s *Scanner) string(start, startLine int) token.Token {
	s.sb.Reset()
	for !s.atEnd() && s.cur != '"' {
		s.sb.WriteByte(s.cur)
		s.advance()
	}
	if s.atEnd() {
		s.errorf(startLine, "Unterminated string.")
		return token.Token{Kind: token.ILLEGAL, Lexeme: s.src[start:s.off], Line: startLine}
	}
	s.advance() // closing quote
	return token.Token{
		Kind:    token.STRING,
		Lexeme:  s.src[start:s.off],
		Literal: s.sb.String(),
		Line:    startLine,
	}
}

func (s *Scanner) number(start, line int) token.Token {
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDigit(s.peek()) {
		s.advance() // consume '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}
	lit := s.src[start:s.off]
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		s.errorf(line, "Invalid number: %s", lit)
	}
	return token.Token{Kind: token.NUMBER, Lexeme: lit, Number: n, Line: line}
}

func (s *Scanner) identifier(start, line int) token.Token {
	for isAlphaNumeric(s.cur) {
		s.advance()
	}
	lit := s.src[start:s.off]
	return token.Token{Kind: token.LookupKeyword(lit), Lexeme: lit, Line: line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
