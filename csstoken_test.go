package htmlsanitizer_test

import (
	"testing"

	"github.com/njchilds90/htmlsanitizer"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeCSSProperties_BasicAllowList(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("color: red; font-weight: bold; expression: evil()")
	assert.Equal(t, "color:#f00;font-weight:bold", s.String())
}

func TestSanitizeCSSProperties_HexColorCompressed(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("color: #ffffff")
	val, ok := s.Find("color")
	if assert.True(t, ok) {
		assert.Equal(t, "#fff", val)
	}
}

func TestSanitizeCSSProperties_RGBFunction(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("color: rgb(255, 0, 0)")
	val, ok := s.Find("color")
	if assert.True(t, ok) {
		assert.Equal(t, "#f00", val)
	}
}

func TestSanitizeCSSProperties_RGBPercent(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("background-color: rgb(100%, 0%, 0%)")
	val, ok := s.Find("background-color")
	if assert.True(t, ok) {
		assert.Equal(t, "#f00", val)
	}
}

func TestSanitizeCSSProperties_HSLFunction(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("color: hsl(0, 100%, 50%)")
	val, ok := s.Find("color")
	if assert.True(t, ok) {
		assert.Equal(t, "#f00", val)
	}
}

func TestSanitizeCSSProperties_UnknownPropertyDropped(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("behavior: url(evil.htc)")
	assert.Empty(t, s.Decls)
}

func TestSanitizeCSSProperties_NegativeRejectedWhereDisallowed(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("padding: -5px")
	assert.Empty(t, s.Decls)
}

func TestSanitizeCSSProperties_NegativeAllowedWhereSchemaSaysSo(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties("margin: -5px")
	val, ok := s.Find("margin")
	if assert.True(t, ok) {
		assert.Equal(t, "-5px", val)
	}
}

func TestSanitizeStyleAttribute_EmptyAfterFilteringIsRejected(t *testing.T) {
	_, ok := htmlsanitizer.SanitizeStyleAttribute("behavior: url(evil.htc); -moz-binding: url(evil.xml)")
	assert.False(t, ok)
}

func TestSanitizeCSSProperties_FontFamilyQuoting(t *testing.T) {
	s := htmlsanitizer.SanitizeCSSProperties(`font-family: "Times New Roman", arial, sans-serif`)
	val, ok := s.Find("font-family")
	if assert.True(t, ok) {
		assert.Equal(t, "'Times New Roman', arial, sans-serif", val)
	}
}

func TestCSSTokenizer_QuantityAndUnit(t *testing.T) {
	tok := NewCSSTokenizerFirst(t, "12.5px")
	assert.Equal(t, htmlsanitizer.CSSQuantity, tok.Kind)
	assert.Equal(t, "12.5", tok.Num)
	assert.Equal(t, "px", tok.Unit)
}

func NewCSSTokenizerFirst(t *testing.T, s string) htmlsanitizer.CSSToken {
	t.Helper()
	tz := htmlsanitizer.NewCSSTokenizer(s)
	tok, ok := tz.Next()
	if !ok {
		t.Fatal("expected at least one token")
	}
	return tok
}
