package htmlsanitizer_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/htmlsanitizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// collectElements walks a golang.org/x/net/html parse tree and records
// every element name and attribute name it sees, as an independent
// second opinion on what actually reached the page: this package's own
// Lexer is hand-rolled for sanitization, not parsing, so cross-checking
// its output against a different, widely-used HTML parser catches
// anything a bug in the package's own serializer alone would miss.
func collectElements(t *testing.T, fragment string) (elems []string, attrs []string) {
	t.Helper()
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	require.NoError(t, err)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elems = append(elems, n.Data)
			for _, a := range n.Attr {
				attrs = append(attrs, a.Key)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return elems, attrs
}

func TestIndependentOracle_ScriptNeverReachesTheParseTree(t *testing.T) {
	got := htmlsanitizer.Sanitizers.FORMATTING.Sanitize(`<p>hi <script>alert(1)</script> there</p><b onclick="x">bold</b>`)
	elems, attrs := collectElements(t, got)
	assert.NotContains(t, elems, "script")
	for _, a := range attrs {
		assert.False(t, strings.HasPrefix(a, "on"), "leaked event handler attribute %q", a)
	}
}

func TestIndependentOracle_ImagesPresetEmitsOnlyDeclaredElementsAndAttrs(t *testing.T) {
	got := htmlsanitizer.Sanitizers.IMAGES.Sanitize(`<img src="a.png" alt="x" onerror="alert(1)"><script>alert(2)</script>`)
	elems, attrs := collectElements(t, got)
	assert.Equal(t, []string{"img"}, elems)
	assert.ElementsMatch(t, []string{"src", "alt"}, attrs)
}

func TestIndependentOracle_LinksPresetRejectsJavascriptScheme(t *testing.T) {
	got := htmlsanitizer.Sanitizers.LINKS.Sanitize(`<a href="javascript:alert(1)">x</a>`)
	elems, _ := collectElements(t, got)
	assert.NotContains(t, elems, "a")
}

func TestIndependentOracle_BalancedOutputReparsesToMatchingDepth(t *testing.T) {
	got := htmlsanitizer.Sanitizers.BLOCKS.Sanitize(`<p>1<p>2`)
	elems, _ := collectElements(t, got)
	assert.Equal(t, []string{"p", "p"}, elems)
}
