package scraper_test

import (
	"testing"

	"newswatch/internal/infra/scraper"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Politics</title>
    <link>https://example.com</link>
    <item>
      <title>Senate passes the long-debated infrastructure bill</title>
      <link>https://example.com/2026/08/30/senate-bill</link>
      <pubDate>Sun, 30 Aug 2026 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Older story</title>
      <link>https://example.com/2026/08/29/older</link>
    </item>
  </channel>
</rss>`

func TestPipeline_Extract_Feed_FirstEntry(t *testing.T) {
	p := scraper.NewPipeline()

	article := p.Extract([]byte(rssDoc), scraper.KindFeed, "https://example.com/rss/politics")
	if article == nil {
		t.Fatal("Extract() = nil, want first entry")
	}

	if article.Title != "Senate passes the long-debated infrastructure bill" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.URL != "https://example.com/2026/08/30/senate-bill" {
		t.Errorf("URL = %q", article.URL)
	}
	if article.PublishedTime != "2026-08-30T12:00:00Z" {
		t.Errorf("PublishedTime = %q, want structured UTC timestamp", article.PublishedTime)
	}
}

func TestPipeline_Extract_Feed_TitleMarkupStripped(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item>
  <title>&lt;b&gt;Bold&lt;/b&gt; headline about the &amp;amp; economy</title>
  <link>https://example.com/2026/08/30/economy</link>
</item>
</channel></rss>`

	p := scraper.NewPipeline()
	article := p.Extract([]byte(doc), scraper.KindFeed, "https://example.com/rss/biz")
	if article == nil {
		t.Fatal("Extract() = nil")
	}
	if article.Title != "Bold headline about the & economy" {
		t.Errorf("Title = %q, want markup stripped", article.Title)
	}
}

func TestPipeline_Extract_Feed_RawTimestampFallback(t *testing.T) {
	doc := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item>
  <title>A headline long enough to count</title>
  <link>https://example.com/2026/08/30/story</link>
  <pubDate>sometime late in August</pubDate>
</item>
</channel></rss>`

	p := scraper.NewPipeline()
	article := p.Extract([]byte(doc), scraper.KindFeed, "https://example.com/rss/x")
	if article == nil {
		t.Fatal("Extract() = nil")
	}
	if article.PublishedTime != "sometime late in August" {
		t.Errorf("PublishedTime = %q, want raw string passthrough", article.PublishedTime)
	}
}

func TestPipeline_Extract_Feed_NoUsableEntry(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "zero entries",
			doc:  `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`,
		},
		{
			name: "missing title",
			doc: `<?xml version="1.0"?><rss version="2.0"><channel><title>T</title>
<item><link>https://example.com/2026/08/30/x</link></item></channel></rss>`,
		},
		{
			name: "missing link",
			doc: `<?xml version="1.0"?><rss version="2.0"><channel><title>T</title>
<item><title>Headline with no destination</title></item></channel></rss>`,
		},
		{
			name: "homepage link",
			doc: `<?xml version="1.0"?><rss version="2.0"><channel><title>T</title>
<item><title>Front page pretending to be a story</title><link>https://www.washingtonpost.com</link></item></channel></rss>`,
		},
		{
			name: "not a feed at all",
			doc:  `this is not XML`,
		},
	}

	p := scraper.NewPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if article := p.Extract([]byte(tt.doc), scraper.KindFeed, "https://example.com/rss/x"); article != nil {
				t.Errorf("Extract() = %+v, want nil", article)
			}
		})
	}
}
