package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newswatch/internal/domain/entity"
)

// genericChain is the ordered strategy list for allow-listed blog-style
// listing pages (GIJN, Datawrapper and the like).
func genericChain() []strategy {
	return []strategy{
		{name: "post_list", extract: genericPostList},
		{name: "article_tag", extract: genericArticleTag},
		{name: "heading_link", extract: genericHeadingLink},
	}
}

// listClassHints mark list-like containers that usually hold post listings.
var listClassHints = []string{"post", "article", "entry"}

func hasListClassHint(sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	class = strings.ToLower(class)
	for _, hint := range listClassHints {
		if strings.Contains(class, hint) {
			return true
		}
	}
	return false
}

// genericPostList finds the first link inside a list-like container whose
// class names it as a post/article/entry listing.
func genericPostList(doc *goquery.Document, base *url.URL) *entity.Article {
	var found *entity.Article

	doc.Find("ol, ul, div").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		if !hasListClassHint(container) {
			return true
		}

		container.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			if len(href) <= 5 || skipHref(href) {
				return true
			}

			title := headingIn(link, "h1, h2, h3, h4, h5")
			if title == "" {
				title = cleanText(link)
			}
			if len(title) <= minTitleLen {
				return true
			}

			resolved := resolveHref(base, href)
			if !plausibleArticleURL(resolved) {
				return true
			}

			found = &entity.Article{
				Title:         title,
				URL:           resolved,
				PublishedTime: datetimeIn(container),
			}
			return false
		})
		return found == nil
	})

	return found
}

// genericArticleTag falls back to semantic <article> elements with a heading
// and a usable link.
func genericArticleTag(doc *goquery.Document, base *url.URL) *entity.Article {
	var found *entity.Article

	doc.Find("article").EachWithBreak(func(_ int, article *goquery.Selection) bool {
		article.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			if len(href) <= 5 || skipHref(href) {
				return true
			}

			title := headingIn(article, "h1, h2, h3, h4, h5")
			if len(title) <= minTitleLen {
				return true
			}

			resolved := resolveHref(base, href)
			if !plausibleArticleURL(resolved) {
				return true
			}

			found = &entity.Article{
				Title:         title,
				URL:           resolved,
				PublishedTime: datetimeIn(article),
			}
			return false
		})
		return found == nil
	})

	return found
}

// genericHeadingLink is the loosest fallback: the first meaningful heading
// anywhere in the document that wraps a link. Only the leading headings are
// considered; deep in the page the heuristic stops being credible.
func genericHeadingLink(doc *goquery.Document, base *url.URL) *entity.Article {
	var found *entity.Article

	headings := doc.Find("h1, h2, h3")
	headings.EachWithBreak(func(i int, heading *goquery.Selection) bool {
		if i >= 10 {
			return false
		}

		link := heading.Find("a[href]").First()
		if link.Length() == 0 {
			return true
		}
		href, _ := link.Attr("href")
		if len(href) <= 5 || skipHref(href) {
			return true
		}

		title := cleanText(heading)
		if len(title) <= minTitleLen {
			return true
		}

		resolved := resolveHref(base, href)
		if !plausibleArticleURL(resolved) {
			return true
		}

		found = &entity.Article{Title: title, URL: resolved}
		return false
	})

	return found
}
