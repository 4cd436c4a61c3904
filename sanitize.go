package htmlsanitizer

// RunPolicy drives policy to completion over input's lexical token
// stream (spec.md §4.1 + §4.5 wired together): open/close tag events are
// assembled from TagBegin/AttrName/AttrValue/TagEnd runs and forwarded
// to Policy.OpenTag/CloseTag; Text runs go to Policy.Text unchanged;
// Unescaped runs are entity-decoded (RCDATA) or passed through the
// CDATA-in-text recovery scan (CDATA/CDATA_SOMETIMES) before reaching
// Policy.Text; comments, directives and other non-content tokens are
// dropped. Exported so a caller holding a Sink obtained some other way
// can still drive a Policy built via PolicyFactory.Apply.
func RunPolicy(input string, policy *Policy) {
	lex := NewLexer(input)

	var curAttrs []string
	var curTagName string
	var curClosing bool
	haveTag := false

	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case TagBegin:
			haveTag = true
			curTagName = tok.Name
			curClosing = tok.Closing
			curAttrs = curAttrs[:0]
		case AttrName, AttrValue:
			curAttrs = append(curAttrs, tok.Value)
		case TagEnd:
			if haveTag {
				if curClosing {
					policy.CloseTag(curTagName)
				} else {
					policy.OpenTag(curTagName, append([]string(nil), curAttrs...))
				}
			}
			haveTag = false
		case Text:
			policy.Text(tok.Value)
		case Unescaped:
			text := tok.Value
			switch tok.TextMode {
			case CDATA, CDATASometimes:
				text = stripDisallowedTagLikeSubstrings(text, policy.factory)
			case RCDATA:
				text = decodeEntities(text)
			}
			policy.Text(text)
		case Comment, Directive, QMarkMeta, Ignorable, ServerCode, QString:
			// Dropped: never reaches the sink.
		}
	}
	policy.CloseDocument()
}

// Sanitize runs pf over input and returns the resulting HTML string,
// using the package's default HTMLSink.
func Sanitize(input string, pf *PolicyFactory) string {
	return pf.Sanitize(input)
}
