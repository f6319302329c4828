package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrorKind classifies a fetch failure.
type ErrorKind int

const (
	// KindTransport covers connection, DNS and protocol-level failures.
	KindTransport ErrorKind = iota
	// KindTimeout covers requests that exceeded the fetch ceiling.
	KindTimeout
	// KindHTTPStatus covers any non-2xx, non-304 response.
	KindHTTPStatus
)

// String returns the label used in logs and state records.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	default:
		return "transport"
	}
}

// Error is the fetch failure type. StatusCode is set only for KindHTTPStatus.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("fetch %s: timeout: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the outcome of a successful fetch attempt.
//
// When NotModified is true the body is empty and ETag/LastModified carry the
// previous validators forward unchanged: origins may omit validators on 304,
// and re-deriving them there would drop the baseline tokens.
type Result struct {
	NotModified  bool
	Body         []byte
	ETag         string
	LastModified string
}

// Conditional performs HTTP GETs carrying the caching validators from the
// previous check. It is safe for concurrent use; requests to the same origin
// are spaced at least one politeness delay apart.
type Conditional struct {
	client *http.Client
	config Config

	mu      sync.Mutex
	origins map[string]*rate.Limiter
}

// NewConditional creates a fetcher using the given HTTP client. The client
// should already carry the transport-level protections (SSRF guard in
// production); tests can inject a plain client.
func NewConditional(client *http.Client, config Config) *Conditional {
	return &Conditional{
		client:  client,
		config:  config,
		origins: make(map[string]*rate.Limiter),
	}
}

// Fetch performs one conditional GET of the URL. Exactly one attempt is
// made: failures are reported, never retried.
//
// A 304 response short-circuits with no body and the previous validators.
// A 2xx response returns the body plus whatever validators the origin sent.
// Everything else is an *Error with the matching kind.
func (c *Conditional) Fetch(ctx context.Context, rawURL, etag, lastModified string) (*Result, error) {
	if err := c.waitOrigin(ctx, rawURL); err != nil {
		return nil, &Error{Kind: KindTransport, URL: rawURL, Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/rss+xml,application/xml;q=0.9,*/*;q=0.8")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Kind: KindTimeout, URL: rawURL, Err: err}
		}
		return nil, &Error{Kind: KindTransport, URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotModified {
		slog.Debug("source not modified",
			slog.String("url", rawURL),
			slog.String("etag", etag))
		return &Result{NotModified: true, ETag: etag, LastModified: lastModified}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindHTTPStatus, StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Kind: KindTimeout, URL: rawURL, Err: err}
		}
		return nil, &Error{Kind: KindTransport, URL: rawURL, Err: err}
	}

	result := &Result{
		Body:         body,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}

	// Pause before the caller starts extraction work so consecutive fetches
	// of the same origin are spread out. Not applied on 304.
	c.politenessPause(ctx)

	return result, nil
}

// waitOrigin blocks until the per-origin limiter admits a request. The first
// request to an origin passes immediately; subsequent ones are spaced at
// least one politeness delay apart even when sources run concurrently.
func (c *Conditional) waitOrigin(ctx context.Context, rawURL string) error {
	if c.config.PolitenessDelay <= 0 {
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Let the request constructor produce the real error.
		return nil
	}

	c.mu.Lock()
	lim, ok := c.origins[u.Host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(c.config.PolitenessDelay), 1)
		c.origins[u.Host] = lim
	}
	c.mu.Unlock()

	return lim.Wait(ctx)
}

func (c *Conditional) politenessPause(ctx context.Context) {
	if c.config.PolitenessDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.config.PolitenessDelay):
	case <-ctx.Done():
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
