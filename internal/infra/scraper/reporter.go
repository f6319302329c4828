package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newswatch/internal/domain/entity"
)

// reporterChain is the ordered strategy list for nytimes.com author pages.
// The markup on these pages is unstable, so the chain degrades from the
// most structured reading to the loosest one.
func reporterChain() []strategy {
	return []strategy{
		{name: "ordered_list", extract: reporterOrderedList},
		{name: "container_heading", extract: reporterContainerHeading},
		{name: "year_link", extract: reporterYearLink},
	}
}

// reporterOrderedList finds the first article link inside an <ol>: author
// pages list stories in ordered lists where each item wraps a dated link
// around a heading.
func reporterOrderedList(doc *goquery.Document, base *url.URL) *entity.Article {
	var found *entity.Article

	doc.Find("ol").EachWithBreak(func(_ int, ol *goquery.Selection) bool {
		ol.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			if skipHref(href) || !strings.Contains(href, "/20") || !strings.HasPrefix(href, "/") {
				return true
			}

			title := headingIn(link, "h3, h2, h4")
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
				PublishedTime: datetimeIn(link.Closest("li")),
			}
			return false
		})
		return found == nil
	})

	return found
}

// reporterContainerHeading scans generic containers for the first dated link
// wrapping a real heading.
func reporterContainerHeading(doc *goquery.Document, base *url.URL) *entity.Article {
	var found *entity.Article

	doc.Find("div, section, article").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		container.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			if skipHref(href) || !strings.Contains(href, "/20") {
				return true
			}

			title := headingIn(link, "h1, h2, h3, h4, h5")
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

// reporterYearLink is the loosest fallback: the first sufficiently long
// anchor whose target carries a year-stamped path segment. The title comes
// from the anchor text, or a heading in the nearest enclosing item.
func reporterYearLink(doc *goquery.Document, base *url.URL) *entity.Article {
	var found *entity.Article

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if skipHref(href) || !yearPat.MatchString(href) {
			return true
		}

		title := cleanText(link)
		if len(title) <= minTitleLen {
			parent := link.Closest("div, li, article")
			title = headingIn(parent, "h1, h2, h3, h4, h5")
		}
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
