package htmldoc

import "golang.org/x/net/html"

// rewriteText calls rewrite for every text node and every attribute value
// under root, root included, and stores the result only when it differs.
func rewriteText(root *html.Node, rewrite func(string) string) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if out := rewrite(n.Data); out != n.Data {
				n.Data = out
			}
		case html.ElementNode:
			for i := range n.Attr {
				if out := rewrite(n.Attr[i].Val); out != n.Attr[i].Val {
					n.Attr[i].Val = out
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}
