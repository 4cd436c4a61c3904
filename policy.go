package htmlsanitizer

import "strings"

// ElementAndAttributePolicies is the per-tag bundle of spec.md §3: a
// canonical element name, the ElementPolicy that may rewrite it, the
// per-attribute AttributePolicy map, whether an empty, text-less
// instance should be skipped entirely, and its void-ness (derived from
// ElementTextMode).
type ElementAndAttributePolicies struct {
	ElementName   string
	ElementPolicy ElementPolicy
	AttrPolicies  map[string]AttributePolicy
	SkipIfEmpty   bool
	IsVoid        bool
}

// NewElementAndAttributePolicies builds a bundle for name, deriving
// IsVoid from the element-text-mode table rather than taking it as a
// parameter callers could get wrong.
func NewElementAndAttributePolicies(name string, elementPolicy ElementPolicy, attrPolicies map[string]AttributePolicy, skipIfEmpty bool) *ElementAndAttributePolicies {
	canon := CanonicalElementName(name)
	if elementPolicy == nil {
		elementPolicy = IdentityElementPolicy
	}
	if attrPolicies == nil {
		attrPolicies = map[string]AttributePolicy{}
	}
	return &ElementAndAttributePolicies{
		ElementName:   canon,
		ElementPolicy: elementPolicy,
		AttrPolicies:  attrPolicies,
		SkipIfEmpty:   skipIfEmpty,
		IsVoid:        IsVoid(ModeForElement(canon)),
	}
}

// PolicyFactory is the full, immutable sanitization policy of spec.md
// §3: a mapping from element name to its bundle, an allowStyling flag
// (spec.md §4.9), and the set of emitted element names inside which the
// text of suppressed descendant elements still survives (spec.md §4.5's
// "allowed text containers"). A PolicyFactory is safe to share across
// concurrent sanitize calls; Apply produces a fresh, single-use Policy
// per call.
type PolicyFactory struct {
	elements              map[string]*ElementAndAttributePolicies
	allowStyling          bool
	allowedTextContainers map[string]bool
}

// NewPolicyFactory builds an immutable PolicyFactory. elements maps
// canonical element name to its bundle; allowedTextContainers names the
// elements whose suppressed descendants still contribute text (nil
// means none).
func NewPolicyFactory(elements map[string]*ElementAndAttributePolicies, allowStyling bool, allowedTextContainers map[string]bool) *PolicyFactory {
	if allowedTextContainers == nil {
		allowedTextContainers = map[string]bool{}
	}
	return &PolicyFactory{elements: elements, allowStyling: allowStyling, allowedTextContainers: allowedTextContainers}
}

// And returns the elementwise intersection of f and g (spec.md §4.7):
// an element survives only if both factories allow it; each surviving
// element's attribute map is intersected attribute-by-attribute, with
// surviving AttributePolicies joined; ElementPolicies are joined;
// SkipIfEmpty is true only if both say so; allowStyling is true if
// either says so (styling is additive decoration, not a safety gate).
func (f *PolicyFactory) And(g *PolicyFactory) *PolicyFactory {
	out := make(map[string]*ElementAndAttributePolicies)
	for name, ep := range f.elements {
		gp, ok := g.elements[name]
		if !ok {
			continue
		}
		attrs := make(map[string]AttributePolicy)
		for attrName, ap := range ep.AttrPolicies {
			if gap, ok := gp.AttrPolicies[attrName]; ok {
				attrs[attrName] = IntersectAttributePolicies(ap, gap)
			}
		}
		out[name] = &ElementAndAttributePolicies{
			ElementName:   name,
			ElementPolicy: JoinElementPolicies(ep.ElementPolicy, gp.ElementPolicy),
			AttrPolicies:  attrs,
			SkipIfEmpty:   ep.SkipIfEmpty && gp.SkipIfEmpty,
			IsVoid:        ep.IsVoid || gp.IsVoid,
		}
	}
	textContainers := make(map[string]bool)
	for name := range f.allowedTextContainers {
		if g.allowedTextContainers[name] {
			textContainers[name] = true
		}
	}
	return NewPolicyFactory(out, f.allowStyling || g.allowStyling, textContainers)
}

// Apply returns a live, stateful sanitizer bound to sink. If sink is a
// *ListenerSink, its Listener receives discardedTag/discardedAttribute
// notifications (spec.md §6's optional change listener).
func (f *PolicyFactory) Apply(sink Sink) *Policy {
	listener := ChangeListener(NopChangeListener{})
	if ls, ok := sink.(*ListenerSink); ok && ls.Listener != nil {
		listener = ls.Listener
	}
	return &Policy{
		factory:  f,
		sink:     sink,
		balancer: NewBalancerStack(sink),
		listener: listener,
	}
}

// Sanitize is a convenience wrapper using an internal HTMLSink.
func (f *PolicyFactory) Sanitize(htmlStr string) string {
	sink := NewHTMLSink()
	p := f.Apply(sink)
	RunPolicy(htmlStr, p)
	return sink.String()
}

// policyStackEntry is one frame of Policy's own open-element stack
// (spec.md §3's OpenElementStack): the tag name as written in the
// input, the adjusted (possibly renamed) name if the tag was emitted,
// whether it was emitted at all, and the name of a synthesized child
// tag (the styling variant's <font>) that must close immediately before
// this entry does.
type policyStackEntry struct {
	inputName      string
	adjustedName   string
	emitted        bool
	syntheticChild string
}

// Policy is the run-time, single-use sanitizing glue of spec.md §4.5:
// for each open tag it runs attribute policies, de-duplicates
// attributes, applies the element policy, and tracks an open-element
// stack of (inputName, adjustedNameOrNone) pairs so that suppressed
// elements still have their descendants accounted for.
type Policy struct {
	factory  *PolicyFactory
	sink     Sink
	balancer *BalancerStack
	listener ChangeListener
	stack    []policyStackEntry
	started  bool
}

func (p *Policy) ensureStarted() {
	if !p.started {
		p.sink.OpenDocument()
		p.started = true
	}
}

// suppressed reports whether the innermost currently-open input element
// was itself suppressed (not emitted).
func (p *Policy) suppressed() bool {
	return len(p.stack) > 0 && !p.stack[len(p.stack)-1].emitted
}

// nearestEmittedName returns the adjusted name of the closest ancestor
// that was actually emitted, for the allowed-text-container check.
func (p *Policy) nearestEmittedName() (string, bool) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].emitted {
			return p.stack[i].adjustedName, true
		}
	}
	return "", false
}

// OpenTag implements spec.md §4.5's per-open-tag algorithm: canonicalize
// the name, look up its bundle (absent ⇒ suppress but still track the
// subtree), filter and de-duplicate attributes, intercept `style` when
// styling is enabled, run the element policy, and either emit through
// the balancer or defer.
func (p *Policy) OpenTag(name string, attrs []string) {
	p.ensureStarted()
	name = CanonicalElementName(name)

	bundle, ok := p.factory.elements[name]
	if !ok {
		p.listener.DiscardedTag(name)
		p.stack = append(p.stack, policyStackEntry{inputName: name})
		return
	}

	list := NewAttrList(attrs)

	// Styling (spec.md §4.9) intercepts `style` before the ordinary
	// per-attribute pass below, so a bundle's AttrPolicies map never
	// needs its own "style" entry to benefit from styling.
	var synth fontSynthesis
	if p.factory.allowStyling {
		synth = processStyleAttribute(list)
	}

	for i := 0; i < list.Len(); {
		attrName, value := list.Get(i)
		ap, ok := bundle.AttrPolicies[attrName]
		if !ok {
			p.listener.DiscardedAttribute(name, attrName)
			list.RemoveAt(i)
			continue
		}
		newVal, ok := ap.Apply(name, attrName, value)
		if !ok {
			p.listener.DiscardedAttribute(name, attrName)
			list.RemoveAt(i)
			continue
		}
		list.values[i] = newVal
		i++
	}
	list.Dedup()
	if synth.hasLeftover {
		list.Set("style", synth.leftoverStyle)
	}

	adjustedRaw, ok := bundle.ElementPolicy.Apply(name, list)
	if !ok {
		p.listener.DiscardedTag(name)
		p.stack = append(p.stack, policyStackEntry{inputName: name})
		return
	}
	adjusted := CanonicalElementName(adjustedRaw)

	// Open Question resolution (spec.md §9, DESIGN.md): skipIfEmpty
	// only suppresses emission when styling synthesized no font
	// attributes; a synthesized <font> child always justifies keeping
	// its host open.
	if bundle.SkipIfEmpty && list.Len() == 0 && !synth.hasFont {
		p.stack = append(p.stack, policyStackEntry{inputName: name})
		return
	}

	entry := policyStackEntry{inputName: name, adjustedName: adjusted, emitted: true}
	p.balancer.OpenTag(adjusted, list.Pairs())
	if synth.hasFont {
		p.balancer.OpenTag("font", synth.attrs)
		entry.syntheticChild = "font"
	}
	p.stack = append(p.stack, entry)
}

// CloseTag implements spec.md §4.5's close rule: find the topmost
// matching input-name on the policy's own stack and close intervening
// entries, emitting a close for any with a non-null adjusted name.
func (p *Policy) CloseTag(name string) {
	p.ensureStarted()
	name = CanonicalElementName(name)
	idx := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].inputName == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	for len(p.stack)-1 >= idx {
		p.popOne()
	}
}

func (p *Policy) popOne() {
	n := len(p.stack) - 1
	entry := p.stack[n]
	p.stack = p.stack[:n]
	if !entry.emitted {
		return
	}
	if entry.syntheticChild != "" {
		p.balancer.CloseTag(entry.syntheticChild)
	}
	p.balancer.CloseTag(entry.adjustedName)
}

// Text implements the defer rule's text suppression (spec.md §4.5):
// text is dropped while the innermost open element is suppressed and
// some specific *emitted* ancestor exists whose name is not in the
// caller-provided allowed-text-containers set (spec.md §8 scenario 2:
// a disallowed inline tag nested in an allowed block element only
// keeps its text if the block's name was opted into allowedTextContainers).
// At the document root there is no enclosing emitted element to opt
// in, and top-level text always survives a suppressed wrapper (spec.md
// §8 scenarios 1 and 3: an unknown or emptied-out top-level tag is
// unwrapped, not deleted).
func (p *Policy) Text(chunk string) {
	p.ensureStarted()
	if chunk == "" {
		return
	}
	if p.suppressed() {
		if name, ok := p.nearestEmittedName(); ok && !p.factory.allowedTextContainers[name] {
			return
		}
	}
	p.balancer.Text(chunk)
}

// CloseDocument closes every remaining entry and forwards
// Sink.CloseDocument.
func (p *Policy) CloseDocument() {
	p.ensureStarted()
	for len(p.stack) > 0 {
		p.popOne()
	}
	p.balancer.CloseDocument()
}

// stripDisallowedTagLikeSubstrings implements the CDATA-in-text
// recovery of spec.md §4.5: re-lex a raw CDATA/CDATA_SOMETIMES text
// chunk and drop every tag-like substring, together with the balanced
// content of any element the factory does not allow, keeping only the
// remaining plain text runs. It deliberately re-uses the package
// Lexer rather than a hand-rolled regex — entity decoding still happens
// only on the text spans the lexer already delimits, never on the
// bytes used to recognize tag boundaries, so it cannot be tricked into
// reassembling a tag from decoded entities (spec.md §9's design note).
func stripDisallowedTagLikeSubstrings(raw string, factory *PolicyFactory) string {
	lex := NewLexer(raw)
	var out strings.Builder
	skipDepth := 0
	skipName := ""
	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case TagBegin:
			if skipDepth > 0 {
				if tok.Name == skipName {
					if tok.Closing {
						skipDepth--
					} else {
						skipDepth++
					}
				}
				continue
			}
			if _, allowed := factory.elements[tok.Name]; !allowed && !tok.Closing {
				skipDepth = 1
				skipName = tok.Name
			}
			// Any tag-like construct — allowed or not — is dropped from
			// this recovered text; only literal character data survives.
		case Text, Unescaped:
			if skipDepth == 0 {
				out.WriteString(tok.Value)
			}
		}
	}
	return out.String()
}
