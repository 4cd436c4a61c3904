package htmlsanitizer

import "strings"

// TokenKind labels a lexical token produced by Lexer, per spec.md §3's
// Token row.
type TokenKind int

// Token kinds. See spec.md §4.1 for the rules that produce each.
const (
	TagBegin TokenKind = iota
	TagEnd
	AttrName
	AttrValue
	Text
	Unescaped
	Comment
	Directive
	QMarkMeta
	QString
	Ignorable
	ServerCode
)

func (k TokenKind) String() string {
	switch k {
	case TagBegin:
		return "TagBegin"
	case TagEnd:
		return "TagEnd"
	case AttrName:
		return "AttrName"
	case AttrValue:
		return "AttrValue"
	case Text:
		return "Text"
	case Unescaped:
		return "Unescaped"
	case Comment:
		return "Comment"
	case Directive:
		return "Directive"
	case QMarkMeta:
		return "QMarkMeta"
	case QString:
		return "QString"
	case Ignorable:
		return "Ignorable"
	case ServerCode:
		return "ServerCode"
	default:
		return "Unknown"
	}
}

// Token is one lexical atom. Start/End are half-open rune offsets into
// the Lexer's input; ranges never overlap and are non-decreasing across
// the stream (spec.md §3 invariant).
//
// Name carries the canonical (lower-cased) tag name for TagBegin tokens.
// Closing is true for TagBegin tokens produced by "</name". Value holds
// already-decoded text for AttrValue/Text tokens, the raw, undecoded
// text for Unescaped tokens, and the lower-cased name for AttrName
// tokens. SelfClose is true on a TagEnd token produced by "/>". TextMode records
// which content model produced an Unescaped chunk, so a caller can decide
// whether entity decoding still applies (RCDATA) or not (CDATA).
//
// An AttrName token is always immediately followed by exactly one
// AttrValue token — boolean attributes (no "="
// seen) pair with a zero-length, empty-Value AttrValue token so the
// name/value alternation spec.md §9 calls out as a design invariant
// always holds.
type Token struct {
	Kind      TokenKind
	Start     int
	End       int
	Name      string
	Value     string
	Closing   bool
	SelfClose bool
	TextMode  ElementTextMode
}

type lexerState int

const (
	stateOutsideTag lexerState = iota
	stateInsideTag
)

// Lexer produces a lazy, non-restartable, finite, deterministic sequence
// of Tokens from an input string of Unicode scalar values (spec.md §4.1).
// The lexer never fails: malformed input always maps to some token
// sequence (longest-reasonable-token recovery).
type Lexer struct {
	input []rune
	pos   int

	state lexerState

	// pendingOpenName/pendingOpenClosing remember
	// the tag that is currently being scanned inside stateInsideTag, so
	// that once its TagEnd is emitted we know whether to enter a
	// CDATA/RCDATA/PLAIN_TEXT literal span (spec.md §4.1 rule 3).
	pendingOpenName      string
	pendingOpenClosing   bool

	// literal-mode state.
	literalClose string
	literalMode  ElementTextMode
	inLiteral    bool
	inPlainText  bool

	queue []Token

	peeked    *Token
	peekedEOF bool
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// HasNext reports whether another token remains.
func (l *Lexer) HasNext() bool {
	if l.peeked != nil {
		return true
	}
	if l.peekedEOF {
		return false
	}
	tok, ok := l.advance()
	if !ok {
		l.peekedEOF = true
		return false
	}
	l.peeked = &tok
	return true
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, bool) {
	if l.peeked != nil {
		return *l.peeked, true
	}
	if l.peekedEOF {
		return Token{}, false
	}
	tok, ok := l.advance()
	if !ok {
		l.peekedEOF = true
		return Token{}, false
	}
	l.peeked = &tok
	return tok, true
}

// Next returns and consumes the next token.
func (l *Lexer) Next() (Token, bool) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, true
	}
	if l.peekedEOF {
		return Token{}, false
	}
	return l.advance()
}

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) at(off int) rune {
	if l.pos+off >= len(l.input) || l.pos+off < 0 {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *Lexer) advance() (Token, bool) {
	if len(l.queue) > 0 {
		tok := l.queue[0]
		l.queue = l.queue[1:]
		return tok, true
	}
	if l.eof() && l.state != stateInsideTag {
		return Token{}, false
	}
	if l.inPlainText {
		return l.scanPlainTextToEOF(), true
	}
	if l.inLiteral {
		return l.scanLiteral(), true
	}
	switch l.state {
	case stateInsideTag:
		return l.scanInsideTag(), true
	default:
		return l.scanOutsideTag(), true
	}
}

func isAsciiLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameChar(r rune) bool {
	return isAsciiLetter(r) || (r >= '0' && r <= '9') || r == '-' || r == ':' || r == '_' || r == '.'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// scanOutsideTag implements spec.md §4.1 rules 1, 4, 5 (for the
// top-level, non-attribute lexing context).
func (l *Lexer) scanOutsideTag() Token {
	start := l.pos

	if l.at(0) == '<' {
		switch {
		case l.at(1) == '!' && l.at(2) == '-' && l.at(3) == '-':
			return l.scanComment()
		case l.at(1) == '!':
			return l.scanDirective()
		case l.at(1) == '?':
			return l.scanQMarkMeta()
		case isAsciiLetter(l.at(1)):
			return l.scanTagBegin(false)
		case l.at(1) == '/' && isAsciiLetter(l.at(2)):
			return l.scanTagBegin(true)
		}
	}

	// Plain text run: everything up to the next recognizable '<'
	// construct, or EOF.
	l.pos++
	for !l.eof() {
		if l.at(0) == '<' {
			if l.at(1) == '!' || l.at(1) == '?' || isAsciiLetter(l.at(1)) ||
				(l.at(1) == '/' && isAsciiLetter(l.at(2))) {
				break
			}
		}
		l.pos++
	}
	raw := string(l.input[start:l.pos])
	return Token{Kind: Text, Start: start, End: l.pos, Value: decodeEntities(stripNUL(raw))}
}

func (l *Lexer) scanTagBegin(closing bool) Token {
	start := l.pos
	l.pos++ // '<'
	if closing {
		l.pos++ // '/'
	}
	nameStart := l.pos
	for !l.eof() && isNameChar(l.at(0)) {
		l.pos++
	}
	name := CanonicalElementName(stripNUL(string(l.input[nameStart:l.pos])))
	l.state = stateInsideTag
	l.pendingOpenName = name
	l.pendingOpenClosing = closing
	return Token{Kind: TagBegin, Start: start, End: l.pos, Name: name, Closing: closing}
}

// scanInsideTag implements spec.md §4.1 rule 2 and the short-tag handling
// of rule 6. Each call returns exactly one token; an attribute name with
// a following "=value" enqueues the paired AttrValue token so the very
// next advance() call returns it, while a bare (boolean) attribute name
// enqueues a zero-length empty AttrValue immediately, preserving the
// alternating name/value shape unconditionally.
func (l *Lexer) scanInsideTag() Token {
	for !l.eof() && isWhitespace(l.at(0)) {
		l.pos++
	}
	if l.eof() {
		// Unterminated tag: recover with an implicit TagEnd.
		l.state = stateOutsideTag
		return Token{Kind: TagEnd, Start: l.pos, End: l.pos}
	}
	if l.at(0) == '>' {
		start := l.pos
		l.pos++
		return l.finishTagEnd(start, l.pos, false)
	}
	if l.at(0) == '/' && l.at(1) == '>' {
		start := l.pos
		l.pos += 2
		return l.finishTagEnd(start, l.pos, true)
	}
	if l.at(0) == '/' {
		// Short-tag noise: a lone '/' not immediately closing the tag
		// becomes a degenerate attribute name (spec.md §4.1 rule 6).
		start := l.pos
		l.pos++
		l.queue = append(l.queue, Token{Kind: AttrValue, Start: l.pos, End: l.pos})
		return Token{Kind: AttrName, Start: start, End: l.pos, Value: "/"}
	}

	// Attribute name.
	start := l.pos
	for !l.eof() && !isWhitespace(l.at(0)) && l.at(0) != '=' && l.at(0) != '/' && l.at(0) != '>' {
		l.pos++
	}
	name := strings.ToLower(stripNUL(string(l.input[start:l.pos])))
	nameTok := Token{Kind: AttrName, Start: start, End: l.pos, Value: name}

	save := l.pos
	for !l.eof() && isWhitespace(l.at(0)) {
		l.pos++
	}
	if l.eof() || l.at(0) != '=' {
		l.pos = save
		l.queue = append(l.queue, Token{Kind: AttrValue, Start: save, End: save})
		return nameTok
	}
	l.pos++ // '='
	for !l.eof() && isWhitespace(l.at(0)) {
		l.pos++
	}
	l.queue = append(l.queue, l.readAttrValue())
	return nameTok
}

// readAttrValue reads a quoted string ("…" or '…', entities decoded
// inside) or an unquoted run up to whitespace or '>' (spec.md §4.1 rule
// 2).
func (l *Lexer) readAttrValue() Token {
	start := l.pos
	if l.at(0) == '"' || l.at(0) == '\'' {
		quote := l.at(0)
		l.pos++
		valStart := l.pos
		for !l.eof() && l.at(0) != quote {
			l.pos++
		}
		raw := string(l.input[valStart:l.pos])
		if !l.eof() {
			l.pos++ // closing quote
		}
		return Token{Kind: AttrValue, Start: start, End: l.pos, Value: decodeEntities(stripNUL(raw))}
	}
	valStart := l.pos
	for !l.eof() && !isWhitespace(l.at(0)) && l.at(0) != '>' {
		l.pos++
	}
	raw := string(l.input[valStart:l.pos])
	return Token{Kind: AttrValue, Start: valStart, End: l.pos, Value: decodeEntities(stripNUL(raw))}
}

// finishTagEnd completes a TagEnd token and, per spec.md §4.1 rule 3,
// enters a CDATA/RCDATA/PLAIN_TEXT literal span when the element that
// was just opened requires it.
func (l *Lexer) finishTagEnd(start, end int, selfClose bool) Token {
	l.state = stateOutsideTag
	name := l.pendingOpenName
	closing := l.pendingOpenClosing
	l.pendingOpenName = ""
	l.pendingOpenClosing = false
	if !closing && !selfClose {
		switch mode := ModeForElement(name); mode {
		case CDATA, CDATASometimes, RCDATA:
			l.inLiteral = true
			l.literalMode = mode
			l.literalClose = name
		case PlainText:
			l.inPlainText = true
		}
	}
	return Token{Kind: TagEnd, Start: start, End: end, SelfClose: selfClose}
}

func (l *Lexer) scanPlainTextToEOF() Token {
	start := l.pos
	l.pos = len(l.input)
	return Token{Kind: Unescaped, Start: start, End: l.pos, Value: stripNUL(string(l.input[start:])), TextMode: PlainText}
}

// scanLiteral implements spec.md §4.1 rules 3 and 5: consume characters
// until "</name" (case-insensitive) followed by whitespace/>//, hiding
// any "<!-- ... -->" escaping text span from that recognition for the
// elements where browsers honor it.
func (l *Lexer) scanLiteral() Token {
	start := l.pos
	closeName := l.literalClose
	escapable := isEscapingTextSpanElement(closeName)

	for !l.eof() {
		if escapable && l.at(0) == '<' && l.at(1) == '!' && l.at(2) == '-' && l.at(3) == '-' {
			l.pos += 4
			for !l.eof() && !(l.at(0) == '-' && l.at(1) == '-' && l.at(2) == '>') {
				l.pos++
			}
			if !l.eof() {
				l.pos += 3
			}
			continue
		}
		if l.at(0) == '<' && l.at(1) == '/' && l.matchesCloseName(closeName) {
			break
		}
		l.pos++
	}

	mode := l.literalMode
	tok := Token{Kind: Unescaped, Start: start, End: l.pos, Value: stripNUL(string(l.input[start:l.pos])), TextMode: mode}
	l.inLiteral = false
	l.literalClose = ""
	return tok
}

func (l *Lexer) matchesCloseName(name string) bool {
	i := 2 // past "</"
	for _, r := range name {
		c := l.at(i)
		if c != r && c != (r-('a'-'A')) {
			return false
		}
		i++
	}
	next := l.at(i)
	return next == 0 || isWhitespace(next) || next == '>' || next == '/'
}

func isEscapingTextSpanElement(name string) bool {
	switch name {
	case "style", "script", "noembed", "noscript", "noframes":
		return true
	}
	return false
}

func (l *Lexer) scanComment() Token {
	start := l.pos
	l.pos += 4 // "<!--"
	for !l.eof() && !(l.at(0) == '-' && l.at(1) == '-' && l.at(2) == '>') {
		l.pos++
	}
	if l.eof() {
		return Token{Kind: Comment, Start: start, End: l.pos}
	}
	l.pos += 3
	return Token{Kind: Comment, Start: start, End: l.pos}
}

func (l *Lexer) scanDirective() Token {
	start := l.pos
	l.pos += 2 // "<!"
	for !l.eof() && l.at(0) != '>' {
		l.pos++
	}
	if !l.eof() {
		l.pos++
	}
	return Token{Kind: Directive, Start: start, End: l.pos}
}

func (l *Lexer) scanQMarkMeta() Token {
	start := l.pos
	l.pos += 2 // "<?"
	for !l.eof() {
		if l.at(0) == '?' && l.at(1) == '>' {
			l.pos += 2
			break
		}
		if l.at(0) == '>' {
			l.pos++
			break
		}
		l.pos++
	}
	return Token{Kind: QMarkMeta, Start: start, End: l.pos}
}

func stripNUL(s string) string {
	if strings.IndexByte(s, 0) < 0 {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}
