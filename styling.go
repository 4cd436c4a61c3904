package htmlsanitizer

import "strconv"

// fontSynthesis carries the legacy <font> attributes produced by pulling
// color/typographic declarations out of a sanitized style attribute
// (spec.md §4.9, the styling policy variant), plus whatever CSS survived
// folding and still needs to be put back as the host's own `style`.
type fontSynthesis struct {
	attrs         []string
	hasFont       bool
	leftoverStyle string
	hasLeftover   bool
}

// processStyleAttribute implements spec.md §4.9: pull `style` out of
// list before the ordinary per-attribute AttributePolicy pass ever sees
// it (so a bundle need not special-case `style` in its AttrPolicies map
// at all when styling is enabled — Policy.OpenTag calls this first and
// re-inserts any leftover style directly, bypassing the per-attribute
// pass entirely since the value is already schema-sanitized), sanitize
// its CSS, and fold the color/font-family/font-size/text-align/direction
// declarations it produced into a synthesized <font> child.
func processStyleAttribute(list *AttrList) fontSynthesis {
	raw, ok := list.Value("style")
	if !ok {
		return fontSynthesis{}
	}
	list.Remove("style")

	style := SanitizeCSSProperties(raw)
	if len(style.Decls) == 0 {
		return fontSynthesis{}
	}

	font := extractFontAttributes(style)
	if len(style.Decls) > 0 {
		font.leftoverStyle = style.String()
		font.hasLeftover = true
	}
	return font
}

// extractFontAttributes moves the subset of sanitized style declarations
// that the legacy <font> element can express out of style and into a
// font-attribute pair list, removing each from style as it is consumed.
func extractFontAttributes(style *SanitizedStyle) fontSynthesis {
	var attrs []string
	if v, ok := style.Find("color"); ok {
		attrs = append(attrs, "color", v)
		style.Remove("color")
	}
	if v, ok := style.Find("font-family"); ok {
		attrs = append(attrs, "face", v)
		style.Remove("font-family")
	}
	if v, ok := style.Find("font-size"); ok {
		if size, ok := mapFontSize(v); ok {
			attrs = append(attrs, "size", size)
		}
		style.Remove("font-size")
	}
	if v, ok := style.Find("text-align"); ok {
		attrs = append(attrs, "align", v)
		style.Remove("text-align")
	}
	if v, ok := style.Find("direction"); ok {
		attrs = append(attrs, "dir", v)
		style.Remove("direction")
	}
	return fontSynthesis{attrs: attrs, hasFont: len(attrs) > 0}
}

// fontSizeKeywords maps the CSS absolute-size keywords onto the legacy
// HTML <font size="1"-"7"> scale.
var fontSizeKeywords = map[string]string{
	"xx-small": "1",
	"x-small":  "2",
	"small":    "3",
	"medium":   "4",
	"large":    "5",
	"x-large":  "6",
	"xx-large": "7",
}

// mapFontSize converts a sanitized font-size value to the legacy 1-7
// <font size> scale: keywords map directly; pixel lengths are bucketed
// by the conventional browser default-stylesheet thresholds.
func mapFontSize(v string) (string, bool) {
	if size, ok := fontSizeKeywords[v]; ok {
		return size, true
	}
	if len(v) > 2 && v[len(v)-2:] == "px" {
		n, err := strconv.Atoi(v[:len(v)-2])
		if err != nil {
			return "", false
		}
		switch {
		case n < 9:
			return "1", true
		case n < 11:
			return "2", true
		case n < 13:
			return "3", true
		case n < 17:
			return "4", true
		case n < 22:
			return "5", true
		case n < 32:
			return "6", true
		default:
			return "7", true
		}
	}
	return "", false
}
