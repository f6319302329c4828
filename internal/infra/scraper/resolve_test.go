package scraper_test

import (
	"errors"
	"testing"

	"newswatch/internal/domain/entity"
	"newswatch/internal/infra/scraper"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want scraper.Kind
	}{
		{"rss path segment", "https://feeds.washingtonpost.com/rss/politics", scraper.KindFeed},
		{"feed path segment", "https://gijn.org/feed/", scraper.KindFeed},
		{"xml extension", "https://example.com/news.xml", scraper.KindFeed},
		{"rss extension", "https://example.com/latest.rss", scraper.KindFeed},
		{"atom extension", "https://example.com/updates.atom", scraper.KindFeed},
		{"nyt author page", "https://www.nytimes.com/by/jane-doe", scraper.KindReporterPage},
		{"gijn listing", "https://gijn.org/stories/", scraper.KindGenericPage},
		{"datawrapper subdomain", "https://blog.datawrapper.de/category/data-vis/", scraper.KindGenericPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scraper.Resolve(tt.url)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolve_FeedRuleWinsOverDomain(t *testing.T) {
	// Rules are evaluated in order: a feed URL on an allow-listed domain is
	// still a feed.
	got, err := scraper.Resolve("https://gijn.org/feed/")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != scraper.KindFeed {
		t.Errorf("Resolve() = %v, want KindFeed", got)
	}
}

func TestResolve_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unknown domain", "https://example.com/blog/"},
		{"nyt non-author page", "https://www.nytimes.com/section/world"},
		{"lookalike domain", "https://notgijn.org.evil.example/stories/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scraper.Resolve(tt.url)
			if err == nil {
				t.Fatalf("Resolve(%q) error = nil, want ErrUnsupportedSource", tt.url)
			}
			if !errors.Is(err, entity.ErrUnsupportedSource) {
				t.Errorf("error = %v, want ErrUnsupportedSource", err)
			}
		})
	}
}
