package scraper

import (
	"bytes"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"newswatch/internal/domain/entity"
)

// Pipeline runs the ordered extraction chain for a source kind and returns
// the page's single topmost candidate.
//
// Extraction never fails: the absence of a confidently-identified item is a
// normal nil result, not an error. Error values are reserved for real
// failures elsewhere (network, configuration), never for "nothing matched".
type Pipeline struct {
	feed *feedExtractor
}

// NewPipeline creates a Pipeline with all strategy chains wired.
func NewPipeline() *Pipeline {
	return &Pipeline{feed: newFeedExtractor()}
}

// Extract produces at most one Article from fetched content. Strategies for
// the kind are evaluated in fixed order and the first non-nil result wins.
// Relative URLs in the result are resolved against baseURL.
func (p *Pipeline) Extract(content []byte, kind Kind, baseURL string) *entity.Article {
	if kind == KindFeed {
		return p.feed.Extract(content)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		slog.Warn("HTML parse failed",
			slog.String("base_url", baseURL),
			slog.Any("error", err))
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var chain []strategy
	switch kind {
	case KindReporterPage:
		chain = reporterChain()
	default:
		chain = genericChain()
	}

	for _, s := range chain {
		if article := s.extract(doc, base); article != nil {
			slog.Debug("extraction strategy matched",
				slog.String("kind", kind.String()),
				slog.String("strategy", s.name),
				slog.String("url", article.URL))
			return article
		}
	}

	return nil
}
