package scraper

import (
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"newswatch/internal/domain/entity"
)

// feedExtractor parses RSS/Atom documents and returns the first listed
// entry. Feed parsing is best-effort: a document with warnings is still
// processed, a document with zero entries yields no candidate.
type feedExtractor struct {
	parser    *gofeed.Parser
	sanitizer *bluemonday.Policy
}

func newFeedExtractor() *feedExtractor {
	return &feedExtractor{
		parser:    gofeed.NewParser(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Extract returns the feed's first entry as an Article, or nil when the
// document has no usable entry.
func (f *feedExtractor) Extract(content []byte) *entity.Article {
	feed, err := f.parser.ParseString(string(content))
	if err != nil {
		slog.Warn("feed parse failed", slog.Any("error", err))
		return nil
	}
	if len(feed.Items) == 0 {
		return nil
	}

	item := feed.Items[0]

	title := f.cleanTitle(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return nil
	}
	if !plausibleArticleURL(link) {
		// Some feeds put the site homepage in the top slot; that is not an
		// article.
		return nil
	}

	return &entity.Article{
		Title:         title,
		URL:           link,
		PublishedTime: feedTimestamp(item),
	}
}

// cleanTitle strips any markup a feed smuggles into its titles and collapses
// whitespace.
func (f *feedExtractor) cleanTitle(raw string) string {
	stripped := html.UnescapeString(f.sanitizer.Sanitize(raw))
	return strings.Join(strings.Fields(stripped), " ")
}

// feedTimestamp derives the published time with a fixed priority: structured
// published, structured updated, raw published, raw updated. Structured
// times are rendered as UTC ISO-8601; raw strings pass through verbatim.
func feedTimestamp(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(isoTimestamp)
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC().Format(isoTimestamp)
	}
	if item.Published != "" {
		return item.Published
	}
	return item.Updated
}

const isoTimestamp = "2006-01-02T15:04:05Z"
