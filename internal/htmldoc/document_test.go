package htmldoc

import (
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantLayout  Layout
		wantContent string
		wantHead    string
		wantHasHead bool
	}{
		{
			name:        "fragment without head",
			input:       "<p>Hello</p>",
			wantLayout:  LayoutNoHead,
			wantContent: "<p>Hello</p>",
		},
		{
			name:        "html and body wrappers without head are kept",
			input:       "<html><body><p>Hello</p></body></html>",
			wantLayout:  LayoutNoHead,
			wantContent: "<html><body><p>Hello</p></body></html>",
		},
		{
			name:        "doctype and wrappers without head are kept",
			input:       "<!DOCTYPE html><html><body><p>x</p></body></html>",
			wantLayout:  LayoutNoHead,
			wantContent: "<!DOCTYPE html><html><body><p>x</p></body></html>",
		},
		{
			name:        "implied wrappers are not added",
			input:       "<!DOCTYPE html><p>x</p>",
			wantLayout:  LayoutNoHead,
			wantContent: "<!DOCTYPE html><p>x</p>",
		},
		{
			name:        "body without html",
			input:       `<body class="c"><p>x</p></body>`,
			wantLayout:  LayoutNoHead,
			wantContent: `<body class="c"><p>x</p></body>`,
		},
		{
			name:        "stray table cell tags are dropped",
			input:       "<td>[[[FIRST_NAME]]]</td>",
			wantLayout:  LayoutNoHead,
			wantContent: "[[[FIRST_NAME]]]",
		},
		{
			name:        "text inside a table is moved before it",
			input:       "<table><tr><td>a</td></tr>orphan text</table>",
			wantLayout:  LayoutNoHead,
			wantContent: "orphan text<table><tbody><tr><td>a</td></tr></tbody></table>",
		},
		{
			name:        "head and body",
			input:       "<html><head><title>T</title></head><body><p>B</p></body></html>",
			wantLayout:  LayoutHeadAndBody,
			wantContent: "<p>B</p>",
			wantHead:    "<title>T</title>",
			wantHasHead: true,
		},
		{
			name:        "body attributes are not part of content",
			input:       `<head></head><body style="margin:0"><p>B</p></body>`,
			wantLayout:  LayoutHeadAndBody,
			wantContent: "<p>B</p>",
			wantHead:    "",
			wantHasHead: true,
		},
		{
			name:        "unclosed head ends at body",
			input:       "<head><title>T</title><body><p>B</p></body>",
			wantLayout:  LayoutHeadAndBody,
			wantContent: "<p>B</p>",
			wantHead:    "<title>T</title>",
			wantHasHead: true,
		},
		{
			name:        "head with orphan content",
			input:       "<head><title>T</title></head><p>Orphan</p><div>x</div>",
			wantLayout:  LayoutHeadWithOrphanContent,
			wantContent: "<p>Orphan</p><div>x</div>",
			wantHead:    "<title>T</title>",
			wantHasHead: true,
		},
		{
			name:        "orphan content before and after head",
			input:       "<p>before</p><head><title>T</title></head><p>after</p>",
			wantLayout:  LayoutHeadWithOrphanContent,
			wantContent: "<p>before</p><p>after</p>",
			wantHead:    "<title>T</title>",
			wantHasHead: true,
		},
		{
			name:        "unclosed head ends at first non head element",
			input:       "<head><title>T</title><p>x</p>",
			wantLayout:  LayoutHeadWithOrphanContent,
			wantContent: "<p>x</p>",
			wantHead:    "<title>T</title>",
			wantHasHead: true,
		},
		{
			name:        "head void elements render self closed",
			input:       `<head><meta charset="utf-8"><style>p{color:red}</style></head><body>x</body>`,
			wantLayout:  LayoutHeadAndBody,
			wantContent: "x",
			wantHead:    `<meta charset="utf-8"/><style>p{color:red}</style>`,
			wantHasHead: true,
		},
		{
			name:        "tag names inside raw text are ignored",
			input:       "<p>a</p><script>var s = '<head>';</script>",
			wantLayout:  LayoutNoHead,
			wantContent: "<p>a</p><script>var s = '<head>';</script>",
		},
		{
			name:        "empty input",
			input:       "",
			wantLayout:  LayoutNoHead,
			wantContent: EmptyContent,
		},
		{
			name:        "whitespace only input",
			input:       "  \n\t ",
			wantLayout:  LayoutNoHead,
			wantContent: EmptyContent,
		},
		{
			name:        "blank body",
			input:       "<html><head></head><body>   </body></html>",
			wantLayout:  LayoutHeadAndBody,
			wantContent: EmptyContent,
			wantHead:    "",
			wantHasHead: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Load(tt.input)

			if doc.Layout() != tt.wantLayout {
				t.Errorf("got layout %s, expected %s", doc.Layout(), tt.wantLayout)
			}
			if got := doc.Content(); got != tt.wantContent {
				t.Errorf("got content %q, expected %q", got, tt.wantContent)
			}
			head, ok := doc.HeadContent()
			if ok != tt.wantHasHead {
				t.Fatalf("got head present %v, expected %v", ok, tt.wantHasHead)
			}
			if head != tt.wantHead {
				t.Errorf("got head %q, expected %q", head, tt.wantHead)
			}
		})
	}
}

func TestLayoutString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout Layout
		want   string
	}{
		{LayoutNoHead, "no_head"},
		{LayoutHeadAndBody, "head_and_body"},
		{LayoutHeadWithOrphanContent, "head_with_orphan_content"},
		{Layout(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.layout.String(); got != tt.want {
			t.Errorf("got %q, expected %q", got, tt.want)
		}
	}
}

func TestDocumentProcessingOrder(t *testing.T) {
	t.Parallel()

	input := `<html><head><title>News</title><script>track()</script></head>` +
		`<body><p onclick="x()">Hi [[[first name]]]</p>` +
		`<a href=" WWW.Example.COM/Path ">shop</a>` +
		`<a socialshare="1" href="http://Facebook.com/share">share</a>` +
		`<p>|*|98765*|*</p></body></html>`

	known := map[string]int{"first name": 319}
	doc := Load(input)
	doc.RemoveHarmfulTags()
	doc.RemoveEventAttributes()
	doc.ReplaceFieldNameTagsByFieldIDTags(func(name string) (int, bool) {
		id, ok := known[name]
		return id, ok
	})
	doc.RemoveUnknownFieldIDTags(func(id int) bool { return id == 319 })

	urls := doc.TrackableURLs()
	doc.SanitizeTrackableLinks()

	wantContent := `<p>Hi |*|319*|*</p>` +
		`<a href="http://www.example.com/Path">shop</a>` +
		`<a socialshare="1" href="http://Facebook.com/share">share</a>` +
		`<p></p>`
	if got := doc.Content(); got != wantContent {
		t.Errorf("got content %q, expected %q", got, wantContent)
	}

	head, _ := doc.HeadContent()
	if head != "<title>News</title>" {
		t.Errorf("got head %q, expected %q", head, "<title>News</title>")
	}

	ids := doc.FieldIDs()
	if len(ids) != 1 || ids[0] != 319 {
		t.Errorf("got field ids %v, expected [319]", ids)
	}

	if len(urls) != 1 || urls[0] != " WWW.Example.COM/Path " {
		t.Errorf("got urls %q, expected the verbatim www href", urls)
	}
}
