package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newswatch/internal/domain/entity"
)

// minTitleLen is the shortest candidate title accepted by any strategy.
// Trivially short text is almost always a navigation label, not a headline.
const minTitleLen = 10

// yearPat recognizes year-stamped article paths like /2026/08/30/.
var yearPat = regexp.MustCompile(`/20\d{2}/`)

// socialShareHosts are domains whose anchors are share widgets, never articles.
var socialShareHosts = []string{"facebook.com", "twitter.com", "linkedin.com"}

// strategy is one heuristic extraction attempt over a parsed HTML document.
// Strategies are pure: document in, at most one candidate out. They are
// independent fallbacks and their results are never merged.
type strategy struct {
	name    string
	extract func(doc *goquery.Document, base *url.URL) *entity.Article
}

// skipHref reports whether an anchor target can never be an article:
// fragments, pseudo-URL schemes and social share links.
func skipHref(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	if h == "" || strings.HasPrefix(h, "#") {
		return true
	}
	if strings.HasPrefix(h, "mailto:") || strings.HasPrefix(h, "javascript:") {
		return true
	}
	for _, host := range socialShareHosts {
		if strings.Contains(h, host) {
			return true
		}
	}
	return false
}

// resolveHref resolves a possibly-relative href against the fetched page's
// URL. Returns "" when the href cannot be parsed.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// plausibleArticleURL rejects resolved candidates that point at a bare
// homepage. A listing's top item always has a path.
func plausibleArticleURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path != "" && u.Path != "/"
}

// cleanText collapses all runs of whitespace in a selection's text.
func cleanText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// headingIn returns the trimmed text of the first heading inside the
// selection, or "" when there is none.
func headingIn(sel *goquery.Selection, tags string) string {
	h := sel.Find(tags).First()
	if h.Length() == 0 {
		return ""
	}
	return cleanText(h)
}

// datetimeIn returns the datetime attribute of the first <time> element in
// the selection, or "" when there is none.
func datetimeIn(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	dt, _ := sel.Find("time").First().Attr("datetime")
	return strings.TrimSpace(dt)
}
