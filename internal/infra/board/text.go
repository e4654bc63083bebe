package board

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nodeText joins the direct child text nodes of sel's first element, each trimmed,
// with <br> children rendered as newlines. The whole result is trimmed.
func nodeText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.First().Contents().Each(func(_ int, child *goquery.Selection) {
		n := child.Get(0)
		switch {
		case n.Type == html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteByte('\n')
		}
	})
	return strings.TrimSpace(b.String())
}
