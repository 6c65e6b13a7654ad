package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Layout describes how the input was split into head and content.
type Layout int

const (
	// LayoutNoHead means the input had no <head>. The whole input is content.
	LayoutNoHead Layout = iota

	// LayoutHeadAndBody means the input had both <head> and <body>.
	// The body is content.
	LayoutHeadAndBody

	// LayoutHeadWithOrphanContent means the input had a <head> but no <body>.
	// Everything outside the head is content.
	LayoutHeadWithOrphanContent
)

// String returns the layout name used in reports and logs.
func (l Layout) String() string {
	switch l {
	case LayoutNoHead:
		return "no_head"
	case LayoutHeadAndBody:
		return "head_and_body"
	case LayoutHeadWithOrphanContent:
		return "head_with_orphan_content"
	default:
		return "unknown"
	}
}

// span is a half-open byte range [start, end) of the raw input.
type span struct {
	start int
	end   int
}

// regions records where <head> and <body> are in the raw input.
type regions struct {
	hasHead   bool
	headOuter span
	headInner span
	headAttr  []html.Attribute

	hasBody   bool
	bodyInner span
	bodyAttr  []html.Attribute

	// hasDoctype and hasHTML record wrappers kept in a headless content.
	hasDoctype bool
	hasHTML    bool
}

// layout classifies the scanned regions.
func (r regions) layout() Layout {
	switch {
	case !r.hasHead:
		return LayoutNoHead
	case r.hasBody:
		return LayoutHeadAndBody
	default:
		return LayoutHeadWithOrphanContent
	}
}

// headElements are the start tags that can appear in <head> without closing it.
var headElements = map[atom.Atom]bool{
	atom.Base:     true,
	atom.Basefont: true,
	atom.Bgsound:  true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Noframes: true,
	atom.Noscript: true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Title:    true,
}

// scanRegions tokenizes input and records the byte ranges of the first
// <head> and the first <body>. A head that is never closed ends where the
// first start tag that does not belong in a head begins, or at <body>.
// The tokenizer switches to raw text after <script>, <style>, <title>,
// <iframe> and friends, so tags inside them are never mistaken for markup.
func scanRegions(input string) regions {
	var r regions

	z := html.NewTokenizer(strings.NewReader(input))
	offset := 0
	headOpen := false
	bodyOpen := false

	closeHead := func(at int) {
		r.headInner.end = at
		r.headOuter.end = at
		headOpen = false
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		// Raw must be measured before TagName, which lower-cases in place.
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Html {
				r.hasHTML = true
			}
			switch {
			case a == atom.Head && !r.hasHead:
				r.hasHead = true
				headOpen = true
				r.headOuter = span{start: start, end: len(input)}
				r.headInner = span{start: offset, end: len(input)}
				r.headAttr = tagAttrs(z, hasAttr)
				if tt == html.SelfClosingTagToken {
					closeHead(offset)
				}
			case a == atom.Body && !r.hasBody:
				if headOpen {
					closeHead(start)
				}
				r.hasBody = true
				bodyOpen = true
				r.bodyInner = span{start: offset, end: len(input)}
				r.bodyAttr = tagAttrs(z, hasAttr)
			case headOpen && a != atom.Head && a != atom.Html && !headElements[a]:
				closeHead(start)
			}

		case html.DoctypeToken:
			r.hasDoctype = true

		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Head:
				if headOpen {
					r.headInner.end = start
					r.headOuter.end = offset
					headOpen = false
				}
			case atom.Body, atom.Html:
				if headOpen {
					closeHead(start)
				}
				if bodyOpen {
					r.bodyInner.end = start
					bodyOpen = false
				}
			}
		}
	}

	return r
}

// tagAttrs reads the attributes of the current start tag.
func tagAttrs(z *html.Tokenizer, hasAttr bool) []html.Attribute {
	var attrs []html.Attribute
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
	}
	return attrs
}

// load splits input into head and content trees according to its layout.
// head is nil for LayoutNoHead.
func load(input string) (layout Layout, head, content *html.Node) {
	input = closeSelfClosedRawText(input)
	r := scanRegions(input)
	layout = r.layout()

	switch layout {
	case LayoutHeadAndBody:
		head = newElement(atom.Head, r.headAttr, input[r.headInner.start:r.headInner.end])
		content = newElement(atom.Body, r.bodyAttr, input[r.bodyInner.start:r.bodyInner.end])
	case LayoutHeadWithOrphanContent:
		head = newElement(atom.Head, r.headAttr, input[r.headInner.start:r.headInner.end])
		content = newDocument(input[:r.headOuter.start]+input[r.headOuter.end:], r)
	default:
		content = newDocument(input, r)
	}

	return layout, head, content
}

// rawTextElements are the elements whose content x/net/html reads as raw
// text up to the matching end tag. <plaintext> is left out: nothing ends it.
var rawTextElements = map[atom.Atom]bool{
	atom.Iframe:   true,
	atom.Noembed:  true,
	atom.Noframes: true,
	atom.Noscript: true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
	atom.Title:    true,
	atom.Xmp:      true,
}

// closeSelfClosedRawText rewrites self-closed raw text elements such as
// <script src="x.js"/> as empty elements (<script src="x.js"></script>).
// x/net/html ignores "/>" on them and would read the rest of the input as
// their text. Unclosed start tags are left alone and still swallow what
// follows.
func closeSelfClosedRawText(input string) string {
	if !strings.Contains(input, "/>") {
		return input
	}

	var b strings.Builder
	b.Grow(len(input))

	rest := input
	for rest != "" {
		// The tokenizer stays in raw text mode after a self-closed raw tag,
		// so scanning restarts right after every rewritten tag.
		z := html.NewTokenizer(strings.NewReader(rest))
		offset := 0
		restart := false

		for !restart {
			tt := z.Next()
			if tt == html.ErrorToken {
				break
			}

			start := offset
			offset += len(z.Raw())
			raw := rest[start:offset]

			if tt == html.SelfClosingTagToken {
				name, _ := z.TagName()
				if rawTextElements[atom.Lookup(name)] {
					b.WriteString(raw[:len(raw)-len("/>")])
					b.WriteString("></")
					b.Write(name)
					b.WriteString(">")
					restart = true
					continue
				}
			}
			b.WriteString(raw)
		}

		if !restart {
			b.WriteString(rest[offset:])
			break
		}
		rest = rest[offset:]
	}

	return b.String()
}

// newDocument builds the content root of a headless markup. Without any
// <!DOCTYPE>, <html> or <body> the markup is parsed as a fragment.
// Otherwise it is parsed as a full document and the wrappers that appear in
// the markup are kept, while the ones the parser implied are unwrapped.
func newDocument(markup string, r regions) *html.Node {
	if !r.hasDoctype && !r.hasHTML && !r.hasBody {
		return newRoot(markup)
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return newRoot(markup)
	}

	for _, n := range children(root) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Html {
			continue
		}
		for _, c := range children(n) {
			if c.Type != html.ElementNode {
				continue
			}
			// The markup has no <head>, so a head element is always implied.
			if c.DataAtom == atom.Head || (c.DataAtom == atom.Body && !r.hasBody) {
				unwrap(c)
			}
		}
		if !r.hasHTML {
			unwrap(n)
		}
	}

	return root
}

func children(n *html.Node) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return nodes
}

// unwrap replaces n with its children.
func unwrap(n *html.Node) {
	parent := n.Parent
	for _, c := range children(n) {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// newRoot parses markup under a fresh document node.
func newRoot(markup string) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	appendFragment(root, markup)
	return root
}

// newElement parses markup as the children of a new element.
func newElement(a atom.Atom, attrs []html.Attribute, markup string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     attrs,
	}
	appendFragment(n, markup)
	return n
}

// appendFragment parses markup the way it would be parsed inside <body>
// and appends the resulting nodes to parent. <html>, <head> and <body> tags
// inside markup are dropped; their content is kept.
func appendFragment(parent *html.Node, markup string) {
	bodyContext := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Body.String(),
		DataAtom: atom.Body,
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		// Only reader errors are possible here, and strings.Reader has none.
		return
	}

	for _, n := range nodes {
		parent.AppendChild(n)
	}
}
