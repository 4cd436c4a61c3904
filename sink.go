package htmlsanitizer

import (
	"bytes"

	"golang.org/x/net/html"
)

// Sink is the external renderer contract of spec.md §6. The core calls
// OpenDocument, zero or more of {OpenTag, CloseTag, Text}, then
// CloseDocument, in that order. attrs is an alternating sequence of
// (name, value) strings with unique, lower-case names. A conforming
// Sink HTML-escapes its arguments; HTMLSink below is a reference
// implementation.
type Sink interface {
	OpenDocument()
	OpenTag(name string, attrs []string)
	CloseTag(name string)
	Text(chunk string)
	CloseDocument()
}

// ChangeListener receives notifications when the policy layer drops
// content that the input requested. It is the optional "change listener"
// of spec.md §6: discardedTag fires when an element is suppressed by
// policy; discardedAttribute fires per removed attribute. Ordering: an
// event fires at the point the policy decides to drop, strictly between
// the input token that caused it and any subsequent token.
type ChangeListener interface {
	DiscardedTag(elementName string)
	DiscardedAttribute(tagName, attrName string)
}

// NopChangeListener implements ChangeListener with no-ops. It is the
// default used when a caller does not install one.
type NopChangeListener struct{}

// DiscardedTag implements ChangeListener.
func (NopChangeListener) DiscardedTag(string) {}

// DiscardedAttribute implements ChangeListener.
func (NopChangeListener) DiscardedAttribute(string, string) {}

// ListenerSink wraps a Sink and a ChangeListener so both the renderer and
// the listener see the same decision point. The policy layer calls
// Listener.DiscardedTag/DiscardedAttribute directly; ListenerSink exists so
// callers can compose a sink + listener pair with a single value and pass
// it wherever a Sink is expected.
type ListenerSink struct {
	Sink
	Listener ChangeListener
}

// NewListenerSink pairs sink with listener. If listener is nil,
// NopChangeListener is used.
func NewListenerSink(sink Sink, listener ChangeListener) *ListenerSink {
	if listener == nil {
		listener = NopChangeListener{}
	}
	return &ListenerSink{Sink: sink, Listener: listener}
}

// HTMLSink is a reference serialization sink satisfying spec.md §6's
// renderer contract: it HTML-escapes text and attribute values using
// golang.org/x/net/html.EscapeString, the same escaping helper the
// teacher package used for its own output. It is not part of the core
// (the renderer is explicitly out of scope per spec.md §1) but is
// provided so PolicyFactory.Sanitize has something to write to.
type HTMLSink struct {
	buf bytes.Buffer
}

// NewHTMLSink returns an empty HTMLSink.
func NewHTMLSink() *HTMLSink { return &HTMLSink{} }

// OpenDocument implements Sink.
func (s *HTMLSink) OpenDocument() {}

// OpenTag implements Sink. Void elements are self-closed; everything
// else is left open for a later CloseTag.
func (s *HTMLSink) OpenTag(name string, attrs []string) {
	s.buf.WriteByte('<')
	s.buf.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		s.buf.WriteByte(' ')
		s.buf.WriteString(attrs[i])
		s.buf.WriteString(`="`)
		s.buf.WriteString(html.EscapeString(attrs[i+1]))
		s.buf.WriteByte('"')
	}
	if IsVoid(ModeForElement(name)) {
		s.buf.WriteString(" />")
		return
	}
	s.buf.WriteByte('>')
}

// CloseTag implements Sink.
func (s *HTMLSink) CloseTag(name string) {
	if IsVoid(ModeForElement(name)) {
		return
	}
	s.buf.WriteString("</")
	s.buf.WriteString(name)
	s.buf.WriteByte('>')
}

// Text implements Sink, escaping chunk.
func (s *HTMLSink) Text(chunk string) {
	s.buf.WriteString(html.EscapeString(chunk))
}

// CloseDocument implements Sink.
func (s *HTMLSink) CloseDocument() {}

// String returns the accumulated, sanitized HTML fragment.
func (s *HTMLSink) String() string { return s.buf.String() }
