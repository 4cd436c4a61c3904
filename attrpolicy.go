package htmlsanitizer

import (
	"net/url"
	"strings"
)

// AttributePolicy is a pure mapping (elementName, attrName, value) ->
// (value, ok) — ok=false rejects the attribute entirely (spec.md §3).
// Implementations are modeled as a small tagged union (identity,
// reject-all, user function, joined pair) per spec.md §9, rather than a
// class hierarchy.
type AttributePolicy interface {
	Apply(elementName, attrName, value string) (string, bool)
}

type attrPolicyFunc func(elementName, attrName, value string) (string, bool)

// Apply implements AttributePolicy.
func (f attrPolicyFunc) Apply(e, a, v string) (string, bool) { return f(e, a, v) }

// identityAttrPolicy and rejectAllAttrPolicy are distinct, comparable
// (empty-struct) types rather than attrPolicyFunc values: func values
// can only be compared to nil, so JoinAttributePolicies' fast-path
// checks need a concrete type an interface comparison or type
// assertion can actually test against.
type identityAttrPolicy struct{}

func (identityAttrPolicy) Apply(_, _, v string) (string, bool) { return v, true }

type rejectAllAttrPolicy struct{}

func (rejectAllAttrPolicy) Apply(_, _, _ string) (string, bool) { return "", false }

// IdentityAttributePolicy passes every value through unchanged. It is
// the join identity: JoinAttributePolicies(IdentityAttributePolicy, x) == x.
var IdentityAttributePolicy AttributePolicy = identityAttrPolicy{}

// RejectAllAttributePolicy rejects every value. It is the join
// absorbing element: JoinAttributePolicies(x, RejectAllAttributePolicy) ==
// RejectAllAttributePolicy, and so does the reverse.
var RejectAllAttributePolicy AttributePolicy = rejectAllAttrPolicy{}

// AttributePolicyFunc adapts a plain function to AttributePolicy.
func AttributePolicyFunc(f func(elementName, attrName, value string) (string, bool)) AttributePolicy {
	return attrPolicyFunc(f)
}

// JoinAttributePolicies composes a then b, fail-fast: if a rejects, the
// join rejects without calling b; otherwise b runs on a's transformed
// value (spec.md §4.7).
func JoinAttributePolicies(a, b AttributePolicy) AttributePolicy {
	if _, ok := a.(identityAttrPolicy); ok {
		return b
	}
	if _, ok := b.(identityAttrPolicy); ok {
		return a
	}
	if _, ok := a.(rejectAllAttrPolicy); ok {
		return a
	}
	if _, ok := b.(rejectAllAttrPolicy); ok {
		return b
	}
	return attrPolicyFunc(func(e, name, v string) (string, bool) {
		v2, ok := a.Apply(e, name, v)
		if !ok {
			return "", false
		}
		return b.Apply(e, name, v2)
	})
}

// IntersectAttributePolicies is used by PolicyFactory.And: both policies
// must accept the value, and both transformations are applied in
// sequence (a then b), matching JoinAttributePolicies' semantics — the
// distinct name exists so callers of PolicyFactory.And don't have to
// reason about which side is "a" vs "b" in a join used for intersection.
func IntersectAttributePolicies(a, b AttributePolicy) AttributePolicy {
	return JoinAttributePolicies(a, b)
}

// URLAttributePolicy returns an AttributePolicy implementing spec.md
// §4.8: find the first ':'/'/'/'#'/'?' in the value; if the first is
// ':', the lower-cased prefix must be in allowedProtocols; otherwise
// accept. The accepted value is percent-encoded for control characters.
func URLAttributePolicy(allowedProtocols map[string]bool) AttributePolicy {
	return attrPolicyFunc(func(_, _, v string) (string, bool) {
		return filterURL(v, allowedProtocols)
	})
}

func filterURL(raw string, allowed map[string]bool) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	idx := indexFirstOf(trimmed, ":/#?")
	if idx >= 0 && trimmed[idx] == ':' {
		scheme := strings.ToLower(trimmed[:idx])
		if !allowed[scheme] {
			return "", false
		}
	}
	return percentEncodeControls(trimmed), true
}

func indexFirstOf(s, chars string) int {
	for i := 0; i < len(s); i++ {
		if strings.ContainsRune(chars, rune(s[i])) {
			return i
		}
	}
	return -1
}

// percentEncodeControls percent-encodes ASCII control characters (below
// 0x20, and DEL) in a URL value without otherwise altering it — a defensive
// normalization against parser-confusion characters, not a full URL
// encoder.
func percentEncodeControls(s string) string {
	needsEncode := false
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			needsEncode = true
			break
		}
	}
	if !needsEncode {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f {
			b.WriteString(url.QueryEscape(string(c)))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
