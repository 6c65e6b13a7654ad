package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// EmptyContent is returned by Content when the content region renders blank.
const EmptyContent = "<BR>"

// Document is a parsed e-mail body split into an optional head and a
// content region.
type Document struct {
	layout  Layout
	head    *html.Node
	content *html.Node
}

// Load parses input leniently. It never fails.
func Load(input string) *Document {
	layout, head, content := load(input)
	return &Document{
		layout:  layout,
		head:    head,
		content: content,
	}
}

// Layout returns how the input was split.
func (d *Document) Layout() Layout {
	return d.layout
}

// Content returns the serialized inner HTML of the content region.
// A region that renders empty or whitespace-only yields EmptyContent so
// the stored value is never blank.
func (d *Document) Content() string {
	inner := innerHTML(d.content)
	if strings.TrimSpace(inner) == "" {
		return EmptyContent
	}
	return inner
}

// HeadContent returns the inner HTML of the head. The second result is
// false when the input had no head.
func (d *Document) HeadContent() (string, bool) {
	if d.head == nil {
		return "", false
	}
	return innerHTML(d.head), true
}

// roots returns the head (when present) and the content region.
func (d *Document) roots() []*html.Node {
	if d.head == nil {
		return []*html.Node{d.content}
	}
	return []*html.Node{d.head, d.content}
}

// selection returns a selection over both regions.
func (d *Document) selection() *goquery.Selection {
	sel := goquery.NewDocumentFromNode(d.content).Selection
	if d.head != nil {
		sel = sel.AddNodes(d.head)
	}
	return sel
}

// contentSelection returns a selection over the content region only.
func (d *Document) contentSelection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.content).Selection
}

// innerHTML renders the children of n.
func innerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// strings.Builder never returns a write error and the parser
		// never produces error nodes.
		_ = html.Render(&b, c)
	}
	return b.String()
}
