package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		require.NotEmpty(t, k.String(), "kind %d missing String()", k)
		require.NotEmpty(t, k.UpperName(), "kind %d missing UpperName()", k)
	}
}

func TestLookupKeyword(t *testing.T) {
	for k := kwStart; k <= kwEnd; k++ {
		require.Equal(t, k, LookupKeyword(k.String()))
	}
	require.Equal(t, IDENTIFIER, LookupKeyword("notAKeyword"))
	require.Equal(t, IDENTIFIER, LookupKeyword("printer"))
}

func TestFormatNumberLiteral(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{3, "3.0"},
		{3.14, "3.14"},
		{10.40, "10.4"},
		{1234.0, "1234.0"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, FormatNumberLiteral(c.in))
	}
}

func TestTokenStringify(t *testing.T) {
	require.Equal(t, "null", Token{Kind: PLUS}.Stringify())
	require.Equal(t, "hi", Token{Kind: STRING, Literal: "hi"}.Stringify())
	require.Equal(t, "3.0", Token{Kind: NUMBER, Number: 3}.Stringify())
}
