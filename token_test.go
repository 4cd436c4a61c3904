package htmlsanitizer_test

import (
	"testing"

	"github.com/njchilds90/htmlsanitizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainTokens(t *testing.T, input string) []htmlsanitizer.Token {
	t.Helper()
	lex := htmlsanitizer.NewLexer(input)
	var out []htmlsanitizer.Token
	for lex.HasNext() {
		tok, ok := lex.Next()
		require.True(t, ok)
		out = append(out, tok)
	}
	return out
}

func TestLexer_SimpleTag(t *testing.T) {
	toks := drainTokens(t, `<b>hi</b>`)
	require.Len(t, toks, 5)
	assert.Equal(t, htmlsanitizer.TagBegin, toks[0].Kind)
	assert.Equal(t, "b", toks[0].Name)
	assert.False(t, toks[0].Closing)
	assert.Equal(t, htmlsanitizer.TagEnd, toks[1].Kind)
	assert.Equal(t, htmlsanitizer.Text, toks[2].Kind)
	assert.Equal(t, "hi", toks[2].Value)
	assert.Equal(t, htmlsanitizer.TagBegin, toks[3].Kind)
	assert.True(t, toks[3].Closing)
}

func TestLexer_AttrNameValuePairing(t *testing.T) {
	toks := drainTokens(t, `<a href="x" disabled title=y>`)
	// TagBegin, (href=AttrName,AttrValue), (disabled=AttrName,AttrValue), (title=AttrName,AttrValue), TagEnd
	var kinds []htmlsanitizer.TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []htmlsanitizer.TokenKind{
		htmlsanitizer.TagBegin,
		htmlsanitizer.AttrName, htmlsanitizer.AttrValue,
		htmlsanitizer.AttrName, htmlsanitizer.AttrValue,
		htmlsanitizer.AttrName, htmlsanitizer.AttrValue,
		htmlsanitizer.TagEnd,
	}, kinds)

	assert.Equal(t, "href", toks[1].Value)
	assert.Equal(t, "x", toks[2].Value)
	assert.Equal(t, "disabled", toks[3].Value)
	assert.Equal(t, "", toks[4].Value) // boolean attribute pairs with empty value
	assert.Equal(t, "title", toks[5].Value)
	assert.Equal(t, "y", toks[6].Value)
}

func TestLexer_SelfClosingVoid(t *testing.T) {
	toks := drainTokens(t, `<br/>`)
	require.Len(t, toks, 2)
	assert.True(t, toks[1].SelfClose)
}

func TestLexer_ScriptIsCDATA(t *testing.T) {
	toks := drainTokens(t, `<script>if (1<2) { alert("x") }</script>`)
	require.Len(t, toks, 5)
	assert.Equal(t, htmlsanitizer.Unescaped, toks[1].Kind)
	assert.Equal(t, htmlsanitizer.CDATA, toks[1].TextMode)
	assert.Contains(t, toks[1].Value, "alert")
}

func TestLexer_TextareaIsRCDATA(t *testing.T) {
	toks := drainTokens(t, `<textarea>&lt;b&gt;not a tag&lt;/b&gt;</textarea>`)
	require.Len(t, toks, 5)
	assert.Equal(t, htmlsanitizer.RCDATA, toks[1].TextMode)
	assert.Equal(t, `&lt;b&gt;not a tag&lt;/b&gt;`, toks[1].Value)
}

func TestLexer_UnterminatedTagRecovers(t *testing.T) {
	toks := drainTokens(t, `<div`)
	require.NotEmpty(t, toks)
	last := toks[len(toks)-1]
	assert.Equal(t, htmlsanitizer.TagEnd, last.Kind)
}

func TestLexer_CommentNeverReinterpreted(t *testing.T) {
	toks := drainTokens(t, `<!-- <script>alert(1)</script> -->after`)
	require.Len(t, toks, 2)
	assert.Equal(t, htmlsanitizer.Comment, toks[0].Kind)
	assert.Equal(t, htmlsanitizer.Text, toks[1].Kind)
	assert.Equal(t, "after", toks[1].Value)
}

func TestLexer_NULBytesStripped(t *testing.T) {
	toks := drainTokens(t, "plain\x00text")
	require.Len(t, toks, 1)
	assert.Equal(t, "plaintext", toks[0].Value)
}

func TestLexer_StyleEscapesNestedCommentSpan(t *testing.T) {
	// Browsers honor "<!-- ... -->" inside <style>/<script> as still being
	// part of the literal content, so a "</style>" hidden inside it must
	// not end the literal span early.
	toks := drainTokens(t, `<style><!-- body{color:red} </style> --></style>`)
	require.Len(t, toks, 5)
	assert.Contains(t, toks[1].Value, "</style>")
}
