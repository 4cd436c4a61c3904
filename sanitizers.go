package htmlsanitizer

// Sanitizers exposes a small set of ready-made PolicyFactory presets,
// named after the ones spec.md's own test scenarios reference by name
// (Sanitizers.FORMATTING.Sanitize(...), and so on). They are ordinary
// PolicyFactory values — nothing here a caller couldn't build directly
// with NewPolicyFactory — kept as package-level constants for the
// common cases.
var Sanitizers = struct {
	// FORMATTING allows basic inline text formatting with no attributes
	// of its own: b, i, em, strong, u, s, strike, del, ins, sup, sub,
	// code, kbd, samp, q, cite, abbr, span, br.
	FORMATTING *PolicyFactory

	// BLOCKS allows common block-level structure (headings, paragraphs,
	// lists, blockquote, sections) with no attributes, and treats p, div,
	// li, blockquote, section, article, header and footer as text
	// containers: a disallowed inline tag nested inside one of those still
	// contributes its text. Headings, ul, ol and pre are not text
	// containers.
	BLOCKS *PolicyFactory

	// LINKS allows only <a>, gated to http/https/mailto href values; an
	// anchor whose href is rejected and carries no other attribute is
	// dropped entirely (skip-if-empty), leaving its text in place.
	LINKS *PolicyFactory

	// IMAGES allows only <img>, with src gated to http/https/data and
	// alt/title/width/height/border/loading passed through unchanged.
	IMAGES *PolicyFactory

	// STYLES layers the styling policy variant (spec.md §4.9) on top of
	// BLOCKS: a sanitized `style` attribute is folded into a synthesized
	// <font> child plus whatever CSS survives as the host's own style.
	STYLES *PolicyFactory

	// TABLES allows the table element family with the attributes
	// needed for simple layout (colspan, rowspan, align, valign, scope).
	TABLES *PolicyFactory

	// SCRIPT is the empty policy: it allows no elements at all, and
	// exists to document — and let tests assert — that there is no
	// preset under which <script> or <style> content ever survives.
	SCRIPT *PolicyFactory
}{
	FORMATTING: formattingPolicy(),
	BLOCKS:     blocksPolicy(),
	LINKS:      linksPolicy(),
	IMAGES:     imagesPolicy(),
	STYLES:     stylesPolicy(),
	TABLES:     tablesPolicy(),
	SCRIPT:     NewPolicyFactory(map[string]*ElementAndAttributePolicies{}, false, nil),
}

func identityAttrs(names ...string) map[string]AttributePolicy {
	m := make(map[string]AttributePolicy, len(names))
	for _, n := range names {
		m[n] = IdentityAttributePolicy
	}
	return m
}

func bareElement(name string) *ElementAndAttributePolicies {
	return NewElementAndAttributePolicies(name, IdentityElementPolicy, nil, false)
}

func formattingPolicy() *PolicyFactory {
	names := []string{
		"b", "i", "em", "strong", "u", "s", "strike", "del", "ins",
		"sup", "sub", "code", "kbd", "samp", "q", "cite", "abbr", "span", "br",
	}
	elements := make(map[string]*ElementAndAttributePolicies, len(names))
	for _, n := range names {
		elements[n] = bareElement(n)
	}
	return NewPolicyFactory(elements, false, nil)
}

func blocksPolicy() *PolicyFactory {
	names := []string{
		"p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "hr", "br",
		"section", "article", "header", "footer",
	}
	elements := make(map[string]*ElementAndAttributePolicies, len(names))
	for _, n := range names {
		elements[n] = bareElement(n)
	}
	textContainers := map[string]bool{
		"p": true, "div": true, "li": true, "blockquote": true,
		"section": true, "article": true, "header": true, "footer": true,
	}
	return NewPolicyFactory(elements, false, textContainers)
}

func linksPolicy() *PolicyFactory {
	elements := map[string]*ElementAndAttributePolicies{
		"a": NewElementAndAttributePolicies("a", RelNofollowPolicy(), map[string]AttributePolicy{
			"href":  URLAttributePolicy(map[string]bool{"http": true, "https": true, "mailto": true}),
			"title": IdentityAttributePolicy,
		}, true),
	}
	return NewPolicyFactory(elements, false, nil)
}

func imagesPolicy() *PolicyFactory {
	attrs := identityAttrs("alt", "title", "width", "height", "border", "loading")
	attrs["src"] = URLAttributePolicy(map[string]bool{"http": true, "https": true, "data": true})
	elements := map[string]*ElementAndAttributePolicies{
		"img": NewElementAndAttributePolicies("img", IdentityElementPolicy, attrs, false),
	}
	return NewPolicyFactory(elements, false, nil)
}

func stylesPolicy() *PolicyFactory {
	base := blocksPolicy()
	for _, n := range []string{"b", "i", "em", "strong", "span"} {
		base.elements[n] = bareElement(n)
	}
	return NewPolicyFactory(base.elements, true, base.allowedTextContainers)
}

func tablesPolicy() *PolicyFactory {
	cellAttrs := identityAttrs("colspan", "rowspan", "align", "valign", "scope")
	elements := map[string]*ElementAndAttributePolicies{
		"table": bareElement("table"),
		"thead": bareElement("thead"),
		"tbody": bareElement("tbody"),
		"tfoot": bareElement("tfoot"),
		"tr":    bareElement("tr"),
		"td":    NewElementAndAttributePolicies("td", IdentityElementPolicy, cellAttrs, false),
		"th":    NewElementAndAttributePolicies("th", IdentityElementPolicy, cellAttrs, false),
	}
	return NewPolicyFactory(elements, false, nil)
}
