package htmlsanitizer_test

import (
	"testing"

	"github.com/njchilds90/htmlsanitizer"
	"github.com/stretchr/testify/assert"
)

func TestHTMLSink_VoidElementsSelfClose(t *testing.T) {
	s := htmlsanitizer.NewHTMLSink()
	s.OpenDocument()
	s.OpenTag("br", nil)
	s.CloseTag("br") // must be a no-op; br was already self-closed
	s.CloseDocument()
	assert.Equal(t, "<br />", s.String())
}

func TestHTMLSink_AttributesEscaped(t *testing.T) {
	s := htmlsanitizer.NewHTMLSink()
	s.OpenTag("a", []string{"title", `a "quote" & <tag>`})
	assert.Contains(t, s.String(), `title="a &#34;quote&#34; &amp; &lt;tag&gt;"`)
}

func TestHTMLSink_TextEscaped(t *testing.T) {
	s := htmlsanitizer.NewHTMLSink()
	s.Text("<script>alert(1)</script>")
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", s.String())
}

func TestHTMLSink_NormalElementsClose(t *testing.T) {
	s := htmlsanitizer.NewHTMLSink()
	s.OpenTag("p", nil)
	s.Text("hi")
	s.CloseTag("p")
	assert.Equal(t, "<p>hi</p>", s.String())
}

type recordingListener struct {
	discardedTags  []string
	discardedAttrs [][2]string
}

func (r *recordingListener) DiscardedTag(name string) {
	r.discardedTags = append(r.discardedTags, name)
}

func (r *recordingListener) DiscardedAttribute(tag, attr string) {
	r.discardedAttrs = append(r.discardedAttrs, [2]string{tag, attr})
}

func TestListenerSink_WrapsSinkAndListener(t *testing.T) {
	inner := htmlsanitizer.NewHTMLSink()
	listener := &recordingListener{}
	ls := htmlsanitizer.NewListenerSink(inner, listener)
	ls.OpenTag("p", nil)
	ls.Text("hi")
	ls.CloseTag("p")

	assert.Equal(t, "<p>hi</p>", inner.String())
	ls.Listener.DiscardedTag("script")
	ls.Listener.DiscardedAttribute("a", "onclick")
	assert.Equal(t, []string{"script"}, listener.discardedTags)
	assert.Equal(t, [][2]string{{"a", "onclick"}}, listener.discardedAttrs)
}

func TestListenerSink_NilListenerBecomesNop(t *testing.T) {
	ls := htmlsanitizer.NewListenerSink(htmlsanitizer.NewHTMLSink(), nil)
	assert.NotPanics(t, func() {
		ls.Listener.DiscardedTag("x")
		ls.Listener.DiscardedAttribute("x", "y")
	})
}
