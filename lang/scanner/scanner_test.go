package scanner

import (
	"testing"

	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanPunctuation(t *testing.T) {
	toks, errs := Scan("(){},.-+;/ *?:! != = == < <= > >=")
	require.Empty(t, errs)
	require.Equal(t, []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.SLASH, token.STAR, token.QUESTION, token.COLON,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.EOF,
	}, kinds(toks))
}

func TestScanLineComment(t *testing.T) {
	toks, errs := Scan("1 // a comment\n2")
	require.Empty(t, errs)
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
	require.Equal(t, 2, toks[1].Line)
}

func TestScanBlockCommentNesting(t *testing.T) {
	toks, errs := Scan("1 /* outer /* inner */ still outer */ 2")
	require.Empty(t, errs)
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, errs := Scan("1 /* never closes")
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "Unterminated block comment.")
}

func TestScanString(t *testing.T) {
	toks, errs := Scan(`"hello world"`)
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Literal)
}

func TestScanUnterminatedString(t *testing.T) {
	_, errs := Scan(`"hello`)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "Unterminated string.")
}

func TestScanMultilineStringKeepsOpeningLine(t *testing.T) {
	toks, errs := Scan("\"line1\nline2")
	require.Len(t, errs, 1)
	require.Equal(t, 1, errs[0].Line)
	_ = toks
}

func TestScanNumbers(t *testing.T) {
	toks, errs := Scan("123 3.14 5.")
	require.Empty(t, errs)
	require.Equal(t, float64(123), toks[0].Number)
	require.Equal(t, 3.14, toks[1].Number)
	// trailing dot is not consumed: "5" then "."
	require.Equal(t, token.NUMBER, toks[2].Kind)
	require.Equal(t, float64(5), toks[2].Number)
	require.Equal(t, token.DOT, toks[3].Kind)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks, errs := Scan("orchid or class orchidaceae")
	require.Empty(t, errs)
	require.Equal(t, []token.Kind{token.IDENTIFIER, token.OR, token.CLASS, token.IDENTIFIER, token.EOF}, kinds(toks))
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, errs := Scan("@")
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "Unexpected character: @")
}
