package htmlsanitizer

import "strings"

// decodeEntities decodes named and numeric HTML character references in
// s using the lenient "interrupted escape" rules real browsers apply
// (spec.md §4.2): unknown references are left literal, numeric
// references outside the Unicode scalar range map to U+FFFD, and a
// trailing ';' is optional for the handful of legacy references
// browsers still accept without one.
func decodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	r := []rune(s)
	var b strings.Builder
	b.Grow(len(r))
	i := 0
	for i < len(r) {
		if r[i] != '&' {
			b.WriteRune(r[i])
			i++
			continue
		}
		if val, consumed, ok := decodeOneReference(r[i:]); ok {
			b.WriteRune(val)
			i += consumed
			continue
		}
		b.WriteByte('&')
		i++
	}
	return b.String()
}

// decodeOneReference decodes a single reference starting at r[0]=='&'.
// It returns the decoded rune, how many runes of r it consumed
// (including the leading '&'), and whether a reference was recognized.
func decodeOneReference(r []rune) (rune, int, bool) {
	if len(r) < 2 {
		return 0, 0, false
	}
	if r[1] == '#' {
		return decodeNumericReference(r)
	}
	return decodeNamedReference(r)
}

// decodeNumericReference handles &#dd; and &#xhh; (spec.md §4.2),
// accepting a missing trailing ';' when followed by a non-alphanumeric
// character — the same "interrupted escape" leniency browsers apply.
func decodeNumericReference(r []rune) (rune, int, bool) {
	i := 2 // past "&#"
	hex := false
	if i < len(r) && (r[i] == 'x' || r[i] == 'X') {
		hex = true
		i++
	}
	digitsStart := i
	isDigit := func(c rune) bool {
		if hex {
			return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		}
		return c >= '0' && c <= '9'
	}
	for i < len(r) && isDigit(r[i]) {
		i++
	}
	if i == digitsStart {
		return 0, 0, false
	}
	digits := string(r[digitsStart:i])
	consumed := i
	if i < len(r) && r[i] == ';' {
		consumed++
	} else if i < len(r) && (isAsciiLetter(r[i]) || (r[i] >= '0' && r[i] <= '9')) {
		return 0, 0, false
	}
	base := 10
	if hex {
		base = 16
	}
	val, ok := parseUint(digits, base)
	if !ok {
		return 0xFFFD, consumed, true
	}
	return numericReferenceRune(val), consumed, true
}

func parseUint(s string, base int) (uint64, bool) {
	var v uint64
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, false
		}
		v = v*uint64(base) + d
		if v > 0x7FFFFFFF {
			// Clamp — any value this large is out of Unicode scalar
			// range and maps to the replacement character anyway.
			return v, true
		}
	}
	return v, true
}

// numericReferenceRune maps a decoded numeric value to the rune that
// should be emitted. Windows-1252 remapping of the C1 control range
// (0x80-0x9F) matches what browsers do for historical documents; values
// outside the Unicode scalar range, and surrogate halves, map to
// U+FFFD.
func numericReferenceRune(v uint64) rune {
	if v == 0 || v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
		return 0xFFFD
	}
	if r, ok := windows1252Remap[rune(v)]; ok {
		return r
	}
	return rune(v)
}

var windows1252Remap = map[rune]rune{
	0x80: 0x20AC, 0x82: 0x201A, 0x83: 0x0192, 0x84: 0x201E, 0x85: 0x2026,
	0x86: 0x2020, 0x87: 0x2021, 0x88: 0x02C6, 0x89: 0x2030, 0x8A: 0x0160,
	0x8B: 0x2039, 0x8C: 0x0152, 0x8E: 0x017D, 0x91: 0x2018, 0x92: 0x2019,
	0x93: 0x201C, 0x94: 0x201D, 0x95: 0x2022, 0x96: 0x2013, 0x97: 0x2014,
	0x98: 0x02DC, 0x99: 0x2122, 0x9A: 0x0161, 0x9B: 0x203A, 0x9C: 0x0153,
	0x9E: 0x017E, 0x9F: 0x0178,
}

// legacyNoSemicolon is the set of named references historically accepted
// by browsers without a trailing ';'.
var legacyNoSemicolon = map[string]bool{
	"amp": true, "lt": true, "gt": true, "quot": true, "nbsp": true,
	"copy": true, "reg": true, "AMP": true, "LT": true, "GT": true,
	"QUOT": true, "COPY": true, "REG": true,
}

// decodeNamedReference decodes "&name;" or "&name" (spec.md §4.2).
// Named references are matched case-sensitively against namedEntities,
// with an extra ASCII-case-insensitive check against the well-known
// amp/lt/gt/quot/apos prefixes so that e.g. "&AMP;" still resolves.
func decodeNamedReference(r []rune) (rune, int, bool) {
	i := 1
	for i < len(r) && (isAsciiLetter(r[i]) || (r[i] >= '0' && r[i] <= '9')) {
		i++
	}
	if i == 1 {
		return 0, 0, false
	}
	name := string(r[1:i])

	if val, ok := namedEntities[name]; ok {
		consumed := i
		if i < len(r) && r[i] == ';' {
			consumed++
		} else if !legacyNoSemicolon[name] {
			return 0, 0, false
		}
		return val, consumed, true
	}

	lower := strings.ToLower(name)
	switch lower {
	case "amp", "lt", "gt", "quot", "apos":
		consumed := i
		if i < len(r) && r[i] == ';' {
			consumed++
		}
		return map[string]rune{"amp": '&', "lt": '<', "gt": '>', "quot": '"', "apos": '\''}[lower], consumed, true
	}
	return 0, 0, false
}

// namedEntities is a deliberately small, process-lifetime-immutable
// subset of HTML's named character reference table — per spec.md §1,
// the exact table contents are data, not design. It covers the
// references real-world user content and hostile input most often use.
var namedEntities = map[string]rune{
	"amp": '&', "lt": '<', "gt": '>', "quot": '"', "apos": '\'',
	"AMP": '&', "LT": '<', "GT": '>', "QUOT": '"',
	"nbsp": 0xA0, "copy": 0xA9, "reg": 0xAE, "trade": 0x2122,
	"COPY": 0xA9, "REG": 0xAE,
	"hellip": 0x2026, "mdash": 0x2014, "ndash": 0x2013,
	"lsquo": 0x2018, "rsquo": 0x2019, "ldquo": 0x201C, "rdquo": 0x201D,
	"sbquo": 0x201A, "bdquo": 0x201E,
	"eacute": 0xE9, "egrave": 0xE8, "ecirc": 0xEA, "euml": 0xEB,
	"agrave": 0xE0, "acirc": 0xE2, "auml": 0xE4, "aring": 0xE5,
	"ccedil": 0xE7, "ntilde": 0xF1, "oacute": 0xF3, "ouml": 0xF6,
	"ocirc": 0xF4, "uuml": 0xFC, "ugrave": 0xF9, "ucirc": 0xFB,
	"iacute": 0xED, "igrave": 0xEC, "icirc": 0xEE, "iuml": 0xEF,
	"szlig": 0xDF, "yacute": 0xFD, "yuml": 0xFF,
	"Eacute": 0xC9, "Agrave": 0xC0, "Ccedil": 0xC7, "Ntilde": 0xD1,
	"Ouml": 0xD6, "Uuml": 0xDC,
	"euro": 0x20AC, "pound": 0xA3, "yen": 0xA5, "cent": 0xA2,
	"sect": 0xA7, "para": 0xB6, "middot": 0xB7, "deg": 0xB0,
	"times": 0xD7, "divide": 0xF7, "plusmn": 0xB1,
	"frac12": 0xBD, "frac14": 0xBC, "frac34": 0xBE,
	"sup1": 0xB9, "sup2": 0xB2, "sup3": 0xB3,
	"alpha": 0x3B1, "beta": 0x3B2, "gamma": 0x3B3, "delta": 0x3B4,
	"epsilon": 0x3B5, "theta": 0x3B8, "lambda": 0x3BB, "mu": 0x3BC,
	"pi": 0x3C0, "sigma": 0x3C3, "tau": 0x3C4, "phi": 0x3C6,
	"omega": 0x3C9, "Omega": 0x3A9, "Delta": 0x394, "Sigma": 0x3A3,
	"larr": 0x2190, "uarr": 0x2191, "rarr": 0x2192, "darr": 0x2193,
	"harr": 0x2194,
	"hearts": 0x2665, "diams": 0x2666, "clubs": 0x2663, "spades": 0x2660,
	"bull": 0x2022, "dagger": 0x2020, "Dagger": 0x2021, "permil": 0x2030,
	"lsaquo": 0x2039, "rsaquo": 0x203A, "oline": 0x203E,
	"ensp": 0x2002, "emsp": 0x2003, "thinsp": 0x2009,
	"zwnj": 0x200C, "zwj": 0x200D, "lrm": 0x200E, "rlm": 0x200F,
	"infin": 0x221E, "ne": 0x2260, "le": 0x2264, "ge": 0x2265,
	"sum": 0x2211, "prod": 0x220F, "radic": 0x221A, "int": 0x222B,
	"there4": 0x2234, "sim": 0x223C, "cong": 0x2245, "asymp": 0x2248,
	"minus": 0x2212, "lowast": 0x2217, "prop": 0x221D, "part": 0x2202,
}
