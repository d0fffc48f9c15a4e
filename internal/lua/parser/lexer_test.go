package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greggh/lust-next-sub011/internal/lua/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()

	var toks []token.Token

	require.NotPanics(t, func() {
		lex := newLexer(src, "t")
		for {
			tok := lex.next()
			if tok.Kind == token.EOF {
				return
			}

			toks = append(toks, tok)
		}
	})

	return toks
}

func TestLexer_Operators(t *testing.T) {
	toks := scanAll(t, "a // b ~= c :: d ... .. << >> <= >= == ~ #")

	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}

	assert.Equal(t, []token.Kind{
		token.NAME, token.IDIV, token.NAME, token.NE, token.NAME, token.DBCOLON, token.NAME,
		token.ELLIPSIS, token.CONCAT, token.SHL, token.SHR, token.LE, token.GE, token.EQ,
		token.BXOR, token.LEN,
	}, kinds)
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\tb\x41\65\u{48}\z
	    c" 'it\'s'`)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\tbAAHc", toks[0].Lit)
	assert.Equal(t, "it's", toks[1].Lit)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 2, toks[0].EndLine)
}

func TestLexer_LongStrings(t *testing.T) {
	toks := scanAll(t, "[==[\nhi]]x]==] [[]]")
	require.Len(t, toks, 2)
	assert.Equal(t, "hi]]x", toks[0].Lit)
	assert.Equal(t, 2, toks[0].EndLine)
	assert.Equal(t, "", toks[1].Lit)
}

func TestValidNumber(t *testing.T) {
	valid := []string{"1", "3.", ".5", "1e-3", "2E+10", "0x1p4", "0xA.8p1", "0XFF", "0x.1"}
	for _, s := range valid {
		assert.True(t, validNumber(s), s)
	}

	invalid := []string{"3e", "0x", "12abc", "1..2", "0xp1", "1e+", "."}
	for _, s := range invalid {
		assert.False(t, validNumber(s), s)
	}
}

func TestLexer_Columns(t *testing.T) {
	toks := scanAll(t, "local  x =\n\t1")
	require.Len(t, toks, 4)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, token.Pos{Line: 1, Column: 8}, toks[1].Pos)
	assert.Equal(t, token.Pos{Line: 2, Column: 2}, toks[3].Pos)
}

func TestLexer_ByteOrderMark(t *testing.T) {
	toks := scanAll(t, "\ufefflocal x")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, token.Pos{Line: 1, Column: 7}, toks[1].Pos)
}
