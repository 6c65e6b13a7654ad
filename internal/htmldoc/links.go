package htmldoc

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SocialShareAttribute marks anchors generated by the editor's social share
// block. They are never tracked nor rewritten.
const SocialShareAttribute = "socialshare"

var (
	// edgeBlankPattern matches whitespace and %20 at either end.
	edgeBlankPattern = regexp.MustCompile(`^(?:%20|\s)+|(?:%20|\s)+$`)

	// blankPattern matches any whitespace character.
	blankPattern = regexp.MustCompile(`\s+`)

	// urlPattern splits an absolute or www. URL into scheme, domain and rest.
	// Groups: 1 scheme, 2 domain after a scheme, 3 www. domain, 4 rest.
	urlPattern = regexp.MustCompile(`(?i)^(?:((?:https?|ftp)://)([\p{L}\p{N}._:@-]+)|(www\.[\p{L}\p{N}._:@-]*))(.*)$`)

	trackablePrefixes = []string{"http://", "https://", "ftp://", "www."}
)

// IsTrackableURL reports whether href is an absolute http, https or ftp URL
// or starts with www., ignoring case and surrounding blanks.
func IsTrackableURL(href string) bool {
	trimmed := strings.ToLower(trimBlankEdges(href))
	if trimmed == "" {
		return false
	}
	for _, prefix := range trackablePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// SanitizeURL removes blanks from href, lower-cases its scheme and domain
// and adds http:// to www. URLs. Path, query and fragment keep their case.
// Values that do not look like a URL are only stripped of blanks.
func SanitizeURL(href string) string {
	cleaned := trimBlankEdges(blankPattern.ReplaceAllString(trimBlankEdges(href), ""))

	m := urlPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return cleaned
	}

	scheme, domain, rest := m[1], m[2], m[4]
	if scheme == "" {
		scheme, domain = "http://", m[3]
	}

	lower := cases.Lower(language.Und)
	return lower.String(scheme) + lower.String(domain) + rest
}

func trimBlankEdges(s string) string {
	return edgeBlankPattern.ReplaceAllString(s, "")
}

// trackableAnchors selects the content anchors whose href is trackable and
// that are not social share links.
func (d *Document) trackableAnchors() *goquery.Selection {
	return d.contentSelection().Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if _, social := s.Attr(SocialShareAttribute); social {
			return false
		}
		href, _ := s.Attr("href")
		return IsTrackableURL(href)
	})
}

// TrackableURLs returns the distinct href values of trackable anchors in the
// content, verbatim and in order of first appearance.
func (d *Document) TrackableURLs() []string {
	seen := make(map[string]struct{})
	urls := make([]string, 0)
	d.trackableAnchors().Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	})
	return urls
}

// SanitizeTrackableLinks rewrites the href of every trackable anchor in the
// content with SanitizeURL. Anchors whose href is already clean are not
// touched.
func (d *Document) SanitizeTrackableLinks() {
	d.trackableAnchors().Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if sanitized := SanitizeURL(href); sanitized != href {
			s.SetAttr("href", sanitized)
		}
	})
}
