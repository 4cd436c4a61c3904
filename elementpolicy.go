package htmlsanitizer

import "strings"

// AttrList is the editable, alternating name/value vector spec.md §9
// calls for: ElementPolicy implementations mutate it in place (add,
// remove, rename attributes) while the pairing invariant — every name
// has exactly one following value — is preserved by construction,
// never by convention.
type AttrList struct {
	names  []string
	values []string
}

// NewAttrList builds an AttrList from an alternating [name, value, ...]
// slice, as produced by the lexer/policy glue.
func NewAttrList(pairs []string) *AttrList {
	a := &AttrList{}
	for i := 0; i+1 < len(pairs); i += 2 {
		a.names = append(a.names, pairs[i])
		a.values = append(a.values, pairs[i+1])
	}
	return a
}

// Len returns the number of attributes.
func (a *AttrList) Len() int { return len(a.names) }

// Get returns the name/value pair at i.
func (a *AttrList) Get(i int) (string, string) { return a.names[i], a.values[i] }

// Find returns the index of the first attribute named name, or -1.
func (a *AttrList) Find(name string) int {
	for i, n := range a.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Value returns the value of the first attribute named name.
func (a *AttrList) Value(name string) (string, bool) {
	if i := a.Find(name); i >= 0 {
		return a.values[i], true
	}
	return "", false
}

// Set replaces or appends an attribute.
func (a *AttrList) Set(name, value string) {
	if i := a.Find(name); i >= 0 {
		a.values[i] = value
		return
	}
	a.names = append(a.names, name)
	a.values = append(a.values, value)
}

// Remove deletes the attribute named name, if present.
func (a *AttrList) Remove(name string) {
	i := a.Find(name)
	if i < 0 {
		return
	}
	a.names = append(a.names[:i], a.names[i+1:]...)
	a.values = append(a.values[:i], a.values[i+1:]...)
}

// RemoveAt deletes the attribute at index i.
func (a *AttrList) RemoveAt(i int) {
	a.names = append(a.names[:i], a.names[i+1:]...)
	a.values = append(a.values[:i], a.values[i+1:]...)
}

// Pairs flattens the list back into an alternating [name, value, ...]
// slice, the shape Sink.OpenTag expects.
func (a *AttrList) Pairs() []string {
	out := make([]string, 0, 2*len(a.names))
	for i := range a.names {
		out = append(out, a.names[i], a.values[i])
	}
	return out
}

// Dedup removes duplicate attribute names, keeping the leftmost
// occurrence (spec.md §4.5 step 3). Implemented as a direct scan — the
// spec's 26-bit first-letter accelerator is a CPU-level optimization
// for very wide attribute lists; at ordinary attribute-list sizes a
// plain scan is both simpler and fast enough, so we keep it and note
// the suggested accelerator here rather than implement it.
func (a *AttrList) Dedup() {
	seen := make(map[string]bool, len(a.names))
	newNames := a.names[:0]
	newValues := a.values[:0]
	for i, n := range a.names {
		if seen[n] {
			continue
		}
		seen[n] = true
		newNames = append(newNames, n)
		newValues = append(newValues, a.values[i])
	}
	a.names = newNames
	a.values = newValues
}

// ElementPolicy is a tag rewrite: (elementName, attrs) -> (adjustedName,
// ok). It may mutate attrs in place; ok=false rejects the element
// entirely (spec.md §3).
type ElementPolicy interface {
	Apply(elementName string, attrs *AttrList) (string, bool)
}

type elementPolicyFunc func(string, *AttrList) (string, bool)

// Apply implements ElementPolicy.
func (f elementPolicyFunc) Apply(e string, a *AttrList) (string, bool) { return f(e, a) }

// identityElemPolicy and rejectAllElemPolicy are distinct, comparable
// (empty-struct) types for the same reason attrpolicy.go's counterparts
// are: func values can't be compared with ==, only type-asserted.
type identityElemPolicy struct{}

func (identityElemPolicy) Apply(e string, _ *AttrList) (string, bool) { return e, true }

type rejectAllElemPolicy struct{}

func (rejectAllElemPolicy) Apply(_ string, _ *AttrList) (string, bool) { return "", false }

// IdentityElementPolicy keeps the element name unchanged and accepts
// every element. It is the join identity.
var IdentityElementPolicy ElementPolicy = identityElemPolicy{}

// RejectAllElementPolicy rejects every element. It is the join
// absorbing element.
var RejectAllElementPolicy ElementPolicy = rejectAllElemPolicy{}

// ElementPolicyFunc adapts a plain function to ElementPolicy.
func ElementPolicyFunc(f func(elementName string, attrs *AttrList) (string, bool)) ElementPolicy {
	return elementPolicyFunc(f)
}

// RenameElementPolicy returns an ElementPolicy that accepts every
// element under newName, leaving attrs untouched.
func RenameElementPolicy(newName string) ElementPolicy {
	return elementPolicyFunc(func(_ string, _ *AttrList) (string, bool) {
		return newName, true
	})
}

// JoinElementPolicies composes a then b, fail-fast, matching
// AttributePolicy's join semantics (spec.md §4.7): a runs first against
// the original name; if it rejects, b never runs; otherwise b runs
// against a's adjusted name and may mutate attrs further.
func JoinElementPolicies(a, b ElementPolicy) ElementPolicy {
	if _, ok := a.(identityElemPolicy); ok {
		return b
	}
	if _, ok := b.(identityElemPolicy); ok {
		return a
	}
	if _, ok := a.(rejectAllElemPolicy); ok {
		return a
	}
	if _, ok := b.(rejectAllElemPolicy); ok {
		return b
	}
	return elementPolicyFunc(func(e string, attrs *AttrList) (string, bool) {
		name2, ok := a.Apply(e, attrs)
		if !ok {
			return "", false
		}
		return b.Apply(name2, attrs)
	})
}

// RelNofollowPolicy returns the link-hardening ElementPolicy spec.md's
// GLOSSARY calls "Rel-nofollow rewrite": whenever the (possibly already
// filtered) attribute list carries an href, it ensures rel contains
// "nofollow" alongside any existing rel tokens, without clobbering a
// caller-supplied rel value.
func RelNofollowPolicy() ElementPolicy {
	return elementPolicyFunc(func(e string, attrs *AttrList) (string, bool) {
		if _, ok := attrs.Value("href"); !ok {
			return e, true
		}
		existing, _ := attrs.Value("rel")
		if hasRelToken(existing, "nofollow") {
			return e, true
		}
		if existing == "" {
			attrs.Set("rel", "nofollow")
		} else {
			attrs.Set("rel", existing+" nofollow")
		}
		return e, true
	})
}

func hasRelToken(rel, token string) bool {
	for _, t := range strings.Fields(rel) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// TargetBlankPolicy forces target="_blank" on anchors that have an
// href, matching the common "open external links in a new tab"
// hardening pattern the upstream project's link-policy builders expose.
func TargetBlankPolicy() ElementPolicy {
	return elementPolicyFunc(func(e string, attrs *AttrList) (string, bool) {
		if _, ok := attrs.Value("href"); ok {
			attrs.Set("target", "_blank")
		}
		return e, true
	})
}
