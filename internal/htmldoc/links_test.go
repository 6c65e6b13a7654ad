package htmldoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
		want string
	}{
		{
			name: "blanks inside scheme and domain",
			href: "https://\tgoo gle1\n.com    \r\n  ",
			want: "https://google1.com",
		},
		{
			name: "encoded blanks at both ends",
			href: "%20\n%20  https://google3.com/test%20space%20\n %20  ",
			want: "https://google3.com/test%20space",
		},
		{
			name: "scheme and domain are lower-cased",
			href: "HTTPS://WWW.Example.COM/Path?Query=Value#Frag",
			want: "https://www.example.com/Path?Query=Value#Frag",
		},
		{
			name: "www gets http scheme",
			href: "WWW.Example.COM/Path?Q=1",
			want: "http://www.example.com/Path?Q=1",
		},
		{
			name: "ftp",
			href: "FTP://Files.Example.COM/Dir",
			want: "ftp://files.example.com/Dir",
		},
		{
			name: "port and user info",
			href: "http://User@Example.com:8080/A",
			want: "http://user@example.com:8080/A",
		},
		{
			name: "placeholder in query is kept",
			href: "https://Example.com/?email=|*|321*|*",
			want: "https://example.com/?email=|*|321*|*",
		},
		{
			name: "placeholder in domain only loses blanks",
			href: " http://[[[Domain]]].com/x ",
			want: "http://[[[Domain]]].com/x",
		},
		{
			name: "unicode domain",
			href: "https://ÑANDÚ.com/Ñ",
			want: "https://ñandú.com/Ñ",
		},
		{
			name: "clean url is unchanged",
			href: "https://google.com/a",
			want: "https://google.com/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SanitizeURL(tt.href)
			if got != tt.want {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
			if again := SanitizeURL(got); again != got {
				t.Errorf("second pass got %q, expected %q", again, got)
			}
		})
	}
}

func TestIsTrackableURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		href string
		want bool
	}{
		{"http://a.com", true},
		{"HTTPS://a.com", true},
		{"ftp://a.com", true},
		{"www.a.com", true},
		{"  %20 https://a.com", true},
		{"mailto:a@b.com", false},
		{"tel:123", false},
		{"#top", false},
		{"/relative", false},
		{"[[[unsubscribe]]]", false},
		{"  ", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsTrackableURL(tt.href); got != tt.want {
			t.Errorf("IsTrackableURL(%q) = %v, expected %v", tt.href, got, tt.want)
		}
	}
}

func TestTrackableURLs(t *testing.T) {
	t.Parallel()

	input := `<a href="https://a.com/1">1</a>` +
		`<a href="mailto:x@y.com">m</a>` +
		`<a href=" www.B.com ">b</a>` +
		`<a href="https://a.com/1">again</a>` +
		`<a socialshare="true" href="https://facebook.com/share">f</a>` +
		`<a>no href</a>`

	got := Load(input).TrackableURLs()
	want := []string{"https://a.com/1", " www.B.com "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrackableURLs() mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackableURLsIgnoresHead(t *testing.T) {
	t.Parallel()

	doc := Load(`<head><link href="https://cdn.com/a.css" rel="stylesheet"></head><body><a href="https://a.com">a</a></body>`)
	if diff := cmp.Diff([]string{"https://a.com"}, doc.TrackableURLs()); diff != "" {
		t.Errorf("TrackableURLs() mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeTrackableLinks(t *testing.T) {
	t.Parallel()

	t.Run("rewrites trackable anchors", func(t *testing.T) {
		t.Parallel()

		doc := Load("<a href=\"https://\tgoo gle1\n.com    \r\n  \">g</a><a href=\"mailto: x@y.com\">m</a>")
		doc.SanitizeTrackableLinks()

		want := `<a href="https://google1.com">g</a><a href="mailto: x@y.com">m</a>`
		if got := doc.Content(); got != want {
			t.Errorf("got %q, expected %q", got, want)
		}
	})

	t.Run("social share anchors are untouched", func(t *testing.T) {
		t.Parallel()

		input := `<a socialshare="1" href=" HTTP://Facebook.COM/share ">f</a>`
		doc := Load(input)
		before := doc.Content()
		doc.SanitizeTrackableLinks()

		if got := doc.Content(); got != before {
			t.Errorf("got %q, expected %q", got, before)
		}
		if urls := doc.TrackableURLs(); len(urls) != 0 {
			t.Errorf("got urls %q, expected none", urls)
		}
	})

	t.Run("document without anchors is unchanged", func(t *testing.T) {
		t.Parallel()

		doc := Load("<p>no links here</p>")
		before := doc.Content()
		doc.SanitizeTrackableLinks()

		if got := doc.Content(); got != before {
			t.Errorf("got %q, expected %q", got, before)
		}
		if urls := doc.TrackableURLs(); len(urls) != 0 {
			t.Errorf("got urls %q, expected none", urls)
		}
	})

	t.Run("second pass changes nothing", func(t *testing.T) {
		t.Parallel()

		doc := Load(`<a href=" WWW.Shop.COM/Cart ">s</a>`)
		doc.SanitizeTrackableLinks()
		first := doc.Content()
		doc.SanitizeTrackableLinks()

		if got := doc.Content(); got != first {
			t.Errorf("got %q after second pass, expected %q", got, first)
		}
		if first != `<a href="http://www.shop.com/Cart">s</a>` {
			t.Errorf("got %q, expected sanitized www link", first)
		}
	})
}
