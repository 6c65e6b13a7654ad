package htmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// harmfulSelector matches elements that are removed with their subtrees.
const harmfulSelector = "script, embed, iframe"

// RemoveHarmfulTags removes <script>, <embed> and <iframe> elements and
// <meta http-equiv="refresh"> from both the head and the content.
func (d *Document) RemoveHarmfulTags() {
	sel := d.selection()
	sel.Find(harmfulSelector).Remove()
	sel.Find("meta").FilterFunction(isRefreshMeta).Remove()
}

func isRefreshMeta(_ int, s *goquery.Selection) bool {
	v, ok := s.Attr("http-equiv")
	return ok && strings.EqualFold(strings.TrimSpace(v), "refresh")
}

// RemoveEventAttributes removes every attribute whose name starts with "on"
// (onclick, onload, OnMouseOver, ...) from every element of both regions.
func (d *Document) RemoveEventAttributes() {
	sel := d.selection()
	for _, n := range sel.Find("*").AddSelection(sel).Nodes {
		if n.Type != html.ElementNode {
			continue
		}
		if kept := withoutEventAttributes(n.Attr); len(kept) != len(n.Attr) {
			n.Attr = kept
		}
	}
}

func withoutEventAttributes(attrs []html.Attribute) []html.Attribute {
	kept := make([]html.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if isEventAttribute(a.Key) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func isEventAttribute(key string) bool {
	return len(key) >= 2 && strings.EqualFold(key[:2], "on")
}
