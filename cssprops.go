package htmlsanitizer

import (
	"fmt"
	"strconv"
	"strings"
)

// CSSDecl is one sanitized, canonicalized "property:value" declaration.
type CSSDecl struct {
	Name  string
	Value string
}

// SanitizedStyle is the filtered, canonicalized property set produced by
// SanitizeCSSProperties (spec.md §4.4, component 6). Declarations keep
// their original relative order.
type SanitizedStyle struct {
	Decls []CSSDecl
}

// Find returns the value of the first declaration named name.
func (s *SanitizedStyle) Find(name string) (string, bool) {
	for _, d := range s.Decls {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

// Remove deletes every declaration named name.
func (s *SanitizedStyle) Remove(name string) {
	out := s.Decls[:0]
	for _, d := range s.Decls {
		if d.Name != name {
			out = append(out, d)
		}
	}
	s.Decls = out
}

// String renders the canonical "name:value;name:value" form spec.md
// §4.4 requires: no trailing semicolon, no whitespace around ':' or ';'.
func (s *SanitizedStyle) String() string {
	parts := make([]string, len(s.Decls))
	for i, d := range s.Decls {
		parts[i] = d.Name + ":" + d.Value
	}
	return strings.Join(parts, ";")
}

// SanitizeCSSProperties walks value's CSS token stream against cssSchema
// (spec.md §4.4) and returns the filtered, canonicalized property set.
// Unknown properties resolve to DISALLOWED (schemaFor) and contribute no
// output.
func SanitizeCSSProperties(value string) *SanitizedStyle {
	p := &propSanitizer{}
	scanCSSProperties(value, p)
	return &SanitizedStyle{Decls: p.result}
}

// SanitizeStyleAttribute is the §4.4 attribute-level entry point:
// empty output means the whole style attribute is rejected.
func SanitizeStyleAttribute(value string) (string, bool) {
	s := SanitizeCSSProperties(value)
	if len(s.Decls) == 0 {
		return "", false
	}
	return s.String(), true
}

// propSanitizer implements cssPropertyHandler, walking one property's
// value tokens against its schema entry and accumulating canonical
// output pieces. Functions push/pop the active schema (spec.md §4.4:
// "When entering startFunction(name), push the current schema and
// switch to the schema for fnKeys[name]; restore on endFunction").
type propSanitizer struct {
	curProp   string
	curSchema cssSchemaEntry
	curOut    []string

	schemaStack []cssSchemaEntry
	fnStack     []string

	inColorFn   bool
	colorFnName string
	channelBuf  []string

	result []CSSDecl
}

func (p *propSanitizer) startProperty(name string) {
	p.curProp = name
	p.curSchema = schemaFor(name)
	p.curOut = nil
	p.schemaStack = nil
	p.fnStack = nil
	p.inColorFn = false
	p.channelBuf = nil
}

func (p *propSanitizer) quantity(num, unit string) {
	if p.inColorFn {
		p.channelBuf = append(p.channelBuf, num+unit)
		return
	}
	if !p.curSchema.allowsQuantity() {
		return
	}
	if strings.HasPrefix(num, "-") && !p.curSchema.allowsNegative() {
		return
	}
	if unit != "" && unit != "%" && !lengthUnits[unit] {
		return
	}
	p.curOut = append(p.curOut, num+unit)
}

func (p *propSanitizer) identifier(name string) {
	lname := strings.ToLower(name)
	if p.inColorFn {
		return
	}
	if hex, ok := colorKeywords[lname]; ok && p.curSchema.allowsLiteral(lname) {
		p.curOut = append(p.curOut, compressHex(hex))
		return
	}
	if lname == "transparent" && p.curSchema.allowsLiteral(lname) {
		p.curOut = append(p.curOut, "transparent")
		return
	}
	if p.curSchema.allowsLiteral(lname) {
		p.curOut = append(p.curOut, lname)
		return
	}
	if p.curProp == "font-family" && p.curSchema.allowsUnreservedWord() && isSafeFontWord(lname) {
		p.curOut = append(p.curOut, lname)
	}
}

func (p *propSanitizer) hash(value string) {
	if p.inColorFn {
		return
	}
	if !p.curSchema.allowsHash() {
		return
	}
	norm, ok := normalizeHexColor(value)
	if !ok {
		return
	}
	p.curOut = append(p.curOut, norm)
}

func (p *propSanitizer) quotedString(value string) {
	if p.inColorFn {
		return
	}
	if p.curProp == "font-family" {
		filtered := filterAlnumSpace(value)
		if filtered == "" {
			return
		}
		p.curOut = append(p.curOut, "'"+filtered+"'")
		return
	}
	if p.curSchema.allowsString() {
		p.curOut = append(p.curOut, "\""+value+"\"")
	}
}

func (p *propSanitizer) url(value string) {
	if p.inColorFn {
		return
	}
	if !p.curSchema.allowsURL() {
		return
	}
	p.curOut = append(p.curOut, "url(\""+value+"\")")
}

func (p *propSanitizer) punctuation(text string) {
	if p.inColorFn {
		return
	}
	switch text {
	case ",":
		p.curOut = append(p.curOut, ",")
	case "/":
		p.curOut = append(p.curOut, "/")
	}
}

func (p *propSanitizer) startFunction(name string) {
	p.fnStack = append(p.fnStack, name)
	p.schemaStack = append(p.schemaStack, p.curSchema)
	if key, ok := p.curSchema.fnKeys[name]; ok {
		p.curSchema = schemaFor(key)
		if key == "color-channels" {
			p.inColorFn = true
			p.colorFnName = name
			p.channelBuf = nil
		}
	} else {
		p.curSchema = disallowedEntry
	}
}

func (p *propSanitizer) endFunction() {
	if p.inColorFn {
		if hex, ok := channelsToHex(p.colorFnName, p.channelBuf); ok {
			p.curOut = append(p.curOut, hex)
		}
		p.inColorFn = false
		p.colorFnName = ""
		p.channelBuf = nil
	}
	if n := len(p.schemaStack); n > 0 {
		p.curSchema = p.schemaStack[n-1]
		p.schemaStack = p.schemaStack[:n-1]
		p.fnStack = p.fnStack[:len(p.fnStack)-1]
	}
}

func (p *propSanitizer) endProperty() {
	if len(p.curOut) == 0 {
		return
	}
	p.result = append(p.result, CSSDecl{Name: p.curProp, Value: joinCSSValue(p.curOut)})
}

func joinCSSValue(tokens []string) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && t != "," {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}

// normalizeHexColor accepts a lower-cased 3- or 6-digit hex name (no
// leading '#') and returns the canonical, possibly-compressed "#rgb" or
// "#rrggbb" form.
func normalizeHexColor(name string) (string, bool) {
	if len(name) != 3 && len(name) != 6 {
		return "", false
	}
	for _, c := range name {
		if !isHexDigit(c) {
			return "", false
		}
	}
	if len(name) == 3 {
		return "#" + strings.ToLower(name), true
	}
	return compressHex("#" + strings.ToLower(name)), true
}

// compressHex compresses "#rrggbb" to "#rgb" when each channel's two
// digits repeat (spec.md §4.4).
func compressHex(hex string) string {
	hex = strings.ToLower(hex)
	if len(hex) == 7 && hex[0] == '#' {
		r, g, b := hex[1:3], hex[3:5], hex[5:7]
		if r[0] == r[1] && g[0] == g[1] && b[0] == b[1] {
			return "#" + string(r[0]) + string(g[0]) + string(b[0])
		}
	}
	return hex
}

// channelsToHex converts the arguments collected from an rgb()/rgba()/
// hsl()/hsla() call into a canonical "#rrggbb" (spec.md §4.4: "convert
// rgb(R,G,B[,A]) to #rrggbb, where each channel accepts either 0-255
// integer or a percentage"), passed through compressHex so it comes out
// as "#rgb" when each channel's digits repeat. The alpha channel, if
// present, is dropped — hex color output has no alpha slot.
func channelsToHex(fnName string, channels []string) (string, bool) {
	if len(channels) < 3 {
		return "", false
	}
	switch {
	case strings.HasPrefix(fnName, "rgb"):
		r, ok1 := channelToByte(channels[0])
		g, ok2 := channelToByte(channels[1])
		b, ok3 := channelToByte(channels[2])
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		return compressHex(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
	case strings.HasPrefix(fnName, "hsl"):
		h, ok1 := parseFloatChannel(strings.TrimSuffix(channels[0], "%"))
		s, ok2 := parsePercentChannel(channels[1])
		l, ok3 := parsePercentChannel(channels[2])
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		r, g, b := hslToRGB(h, s, l)
		return compressHex(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
	}
	return "", false
}

func channelToByte(s string) (int, bool) {
	if strings.HasSuffix(s, "%") {
		f, ok := parseFloatChannel(strings.TrimSuffix(s, "%"))
		if !ok {
			return 0, false
		}
		return clampByte(int(f * 255 / 100)), true
	}
	f, ok := parseFloatChannel(s)
	if !ok {
		return 0, false
	}
	return clampByte(int(f)), true
}

func parsePercentChannel(s string) (float64, bool) {
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	f, ok := parseFloatChannel(strings.TrimSuffix(s, "%"))
	if !ok {
		return 0, false
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return f, true
}

func parseFloatChannel(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// hslToRGB converts HSL (h in degrees, s/l in 0-100) to 8-bit RGB.
func hslToRGB(h, s, l float64) (int, int, int) {
	s /= 100
	l /= 100
	if s == 0 {
		v := clampByte(int(l * 255))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	pp := 2*l - q
	hk := normalizeHue(h) / 360
	r := hueToRGB(pp, q, hk+1.0/3)
	g := hueToRGB(pp, q, hk)
	b := hueToRGB(pp, q, hk-1.0/3)
	return clampByte(int(r * 255)), clampByte(int(g * 255)), clampByte(int(b * 255))
}

func normalizeHue(h float64) float64 {
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return h
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func isSafeFontWord(s string) bool {
	for _, r := range s {
		if !(isAsciiLetter(r) || r == ' ' || r == '-') {
			return false
		}
	}
	return s != ""
}

// filterAlnumSpace keeps only alphanumeric characters and spaces, per
// spec.md §4.4's font-family quoting rule.
func filterAlnumSpace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || isAsciiLetter(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
