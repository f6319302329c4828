// Package entity defines the core domain entities for the article monitor.
// It contains the Article value, the per-source persisted state record, and
// the identity rules that the change detector relies on.
package entity

import (
	"net/url"
	"strings"
)

// Article represents a single extracted "top of listing" item.
// It is a value type: construct it once and do not mutate it afterwards.
//
// PublishedTime is an opaque source-dependent timestamp string. It is kept
// verbatim (ISO-8601 where the source provides a structured time) and never
// parsed or normalized by the monitor.
type Article struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedTime string `json:"published_time,omitempty"`
}

// Equal reports whether two articles identify the same item.
//
// Identity is defined solely by the URL, compared exactly and
// case-sensitively. Title or timestamp drift on an otherwise-same URL does
// not make a new article.
func (a Article) Equal(other Article) bool {
	return a.URL == other.URL
}

// IsZero reports whether the article carries no data.
func (a Article) IsZero() bool {
	return a.Title == "" && a.URL == "" && a.PublishedTime == ""
}

// SourceID derives the stable identifier for a source URL.
// It is the last segment of the URL path, or "unknown" when the path is
// empty. The derivation is deterministic so that state records keep matching
// their source across runs.
func SourceID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return "unknown"
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "unknown"
	}
	return path
}
