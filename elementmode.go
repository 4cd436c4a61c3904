package htmlsanitizer

import "golang.org/x/net/html/atom"

// ElementTextMode is the content model of a canonical element name, per
// spec.md §3's ElementTextMode row: PCDATA (ordinary parseable markup),
// RCDATA (markup with entities only, e.g. <textarea>/<title>), CDATA (raw
// text up to a matching close tag, e.g. <script>/<style>),
// CDATASometimes (browsers disagree on whether these ever parse markup;
// treated as CDATA for lexing purposes), PlainText (raw to EOF, no close
// tag recognized), and Void (no children, never pushed on a balancer
// stack).
type ElementTextMode int

// Content models, see ElementTextMode.
const (
	PCDATA ElementTextMode = iota
	RCDATA
	CDATA
	CDATASometimes
	PlainText
	Void
)

func (m ElementTextMode) String() string {
	switch m {
	case PCDATA:
		return "PCDATA"
	case RCDATA:
		return "RCDATA"
	case CDATA:
		return "CDATA"
	case CDATASometimes:
		return "CDATA_SOMETIMES"
	case PlainText:
		return "PLAIN_TEXT"
	case Void:
		return "VOID"
	default:
		return "UNKNOWN"
	}
}

// elementModes is the process-lifetime-immutable element-escaping-mode
// table (spec.md §3, component 3). Any name not present defaults to
// PCDATA.
var elementModes = map[string]ElementTextMode{
	"script":   CDATA,
	"style":    CDATA,
	"xmp":      CDATA,
	"iframe":   CDATA,
	"noembed":  CDATASometimes,
	"noframes": CDATASometimes,
	"noscript": CDATASometimes,

	"textarea": RCDATA,
	"title":    RCDATA,

	"plaintext": PlainText,

	"area":   Void,
	"base":   Void,
	"br":     Void,
	"col":    Void,
	"embed":  Void,
	"hr":     Void,
	"img":    Void,
	"input":  Void,
	"link":   Void,
	"meta":   Void,
	"param":  Void,
	"source": Void,
	"track":  Void,
	"wbr":    Void,
}

// ModeForElement returns the content model for a canonical (already
// lower-cased) element name, defaulting to PCDATA for unknown names.
func ModeForElement(name string) ElementTextMode {
	if m, ok := elementModes[name]; ok {
		return m
	}
	return PCDATA
}

// IsVoid reports whether mode is the VOID content model.
func IsVoid(mode ElementTextMode) bool { return mode == Void }

// CanonicalElementName ASCII-lowercases name and, for the ~150 well-known
// HTML tag names, interns it through golang.org/x/net/html/atom — the
// same recognition table golang.org/x/net/html's own parser uses
// internally to avoid allocating a fresh lower-cased string per call.
// Names atom.Lookup doesn't recognize (custom elements, typos, attacker
// noise) fall back to the freshly lower-cased string.
func CanonicalElementName(name string) string {
	lower := asciiLower(name)
	if a := atom.Lookup([]byte(lower)); a != 0 {
		return a.String()
	}
	return lower
}

func asciiLower(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
