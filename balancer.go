package htmlsanitizer

// optionalEndTagPartition groups elements whose end tag is optional: opening
// a sibling in the same partition implicitly closes the previous one. The
// partition names mirror the HTML5 in-body insertion-mode special cases.
var optionalEndTagPartition = buildPartition([][]string{
	{"p"},
	{"li"},
	{"dd", "dt"},
	{"td", "th"},
	{"tr"},
	{"tbody", "thead", "tfoot"},
	{"option"},
	{"colgroup"},
	{"body"},
	{"head"},
}...)

func buildPartition(groups ...[]string) map[string]int {
	m := make(map[string]int)
	for i, g := range groups {
		for _, name := range g {
			m[name] = i
		}
	}
	return m
}

func samePartition(a, b string) bool {
	pa, oka := optionalEndTagPartition[a]
	pb, okb := optionalEndTagPartition[b]
	return oka && okb && pa == pb
}

// BalancerStack is the tag-balancing event receiver described in spec.md
// §4.6. It accepts a stream of open/close/text events from any source
// (normally the Policy glue in policy.go) and forwards a well-formed,
// balanced stream to a Sink: every open tag it forwards has a matching
// close in correct nesting order, and void elements are never pushed.
//
// A BalancerStack is single-use: construct one per sanitize call.
type BalancerStack struct {
	sink  Sink
	stack []string
}

// NewBalancerStack creates a balancer that forwards events to sink.
func NewBalancerStack(sink Sink) *BalancerStack {
	return &BalancerStack{sink: sink}
}

// Depth reports how many elements are currently open.
func (b *BalancerStack) Depth() int { return len(b.stack) }

// Top returns the canonical name of the innermost open element, or "" if
// the stack is empty.
func (b *BalancerStack) Top() string {
	if len(b.stack) == 0 {
		return ""
	}
	return b.stack[len(b.stack)-1]
}

// OpenTag pushes name (unless it is void) after closing any open element
// that shares name's optional-end-tag partition, and forwards the open
// event to the sink.
func (b *BalancerStack) OpenTag(name string, attrs []string) {
	for len(b.stack) > 0 && samePartition(b.stack[len(b.stack)-1], name) {
		b.popAndEmit()
	}
	b.sink.OpenTag(name, attrs)
	if !IsVoid(ModeForElement(name)) {
		b.stack = append(b.stack, name)
	}
}

// CloseTag closes the topmost stack entry matching name, emitting a close
// event for every intervening element along the way. If name is not on the
// stack the call is ignored — the balancer never fabricates a spurious
// close for an element it never opened.
func (b *BalancerStack) CloseTag(name string) {
	idx := -1
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i] == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	for len(b.stack)-1 >= idx {
		b.popAndEmit()
	}
}

// Text forwards a text chunk untouched.
func (b *BalancerStack) Text(chunk string) {
	if chunk == "" {
		return
	}
	b.sink.Text(chunk)
}

// CloseDocument closes every remaining open element in LIFO order.
func (b *BalancerStack) CloseDocument() {
	for len(b.stack) > 0 {
		b.popAndEmit()
	}
}

func (b *BalancerStack) popAndEmit() {
	n := len(b.stack) - 1
	name := b.stack[n]
	b.stack = b.stack[:n]
	b.sink.CloseTag(name)
}
