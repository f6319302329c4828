// Package watch implements the change-detection engine. A Service loads a
// source's persisted baseline, performs a conditional fetch, extracts the
// current top article, and compares it by URL against the baseline, notifying
// on change. Every check persists state exactly once, success or failure.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"newswatch/internal/domain/entity"
	"newswatch/internal/infra/fetcher"
	"newswatch/internal/infra/scraper"
	"newswatch/internal/infra/store"
	"newswatch/internal/observability/metrics"
)

// Fetcher performs a conditional GET against a source URL, sending the given
// validators and interpreting a 304 response.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, etag, lastModified string) (*fetcher.Result, error)
}

// Extractor locates the topmost article in fetched content. A nil return
// means no confidently identified item, which is a normal outcome.
type Extractor interface {
	Extract(content []byte, kind scraper.Kind, baseURL string) *entity.Article
}

// Notifier is the subset of the dispatcher contract the detector needs.
type Notifier interface {
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, sourceID string, article entity.Article, previous *entity.Article) error
}

// Service checks sources for a changed top article.
type Service struct {
	Fetcher   Fetcher
	Extractor Extractor
	Store     store.Store
	Notifier  Notifier

	// Parallelism bounds concurrent source checks in RunAll. Values
	// below 2 select the sequential path. The fetcher's per-origin
	// spacing still applies under concurrency.
	Parallelism int
}

// NewService wires a detector from its collaborators. notifier may be nil
// when no channel is configured.
func NewService(f Fetcher, e Extractor, st store.Store, n Notifier) *Service {
	return &Service{
		Fetcher:   f,
		Extractor: e,
		Store:     st,
		Notifier:  n,
	}
}

// CheckSource runs the full detection pass for one source URL. All failures
// are converted into the returned Result; the method itself never fails, and
// state is persisted exactly once regardless of path.
func (s *Service) CheckSource(ctx context.Context, sourceURL string) Result {
	started := time.Now()
	sourceID := entity.SourceID(sourceURL)
	state := s.Store.Load(ctx, sourceID)

	result := s.check(ctx, sourceURL, sourceID, state)

	if err := s.Store.Save(ctx, state); err != nil {
		slog.Error("failed to persist source state",
			slog.String("source_id", sourceID),
			slog.Any("error", err))
	}

	metrics.RecordCheck(sourceID, result.Outcome.String(), time.Since(started))
	metrics.SetSourceErrorCount(sourceID, state.ErrorCount)
	return result
}

// check mutates state according to the transition rules and returns the
// outcome. It never persists; CheckSource owns the single save.
func (s *Service) check(ctx context.Context, sourceURL, sourceID string, state *entity.SourceState) Result {
	result := Result{SourceURL: sourceURL, SourceID: sourceID}

	kind, err := scraper.Resolve(sourceURL)
	if err != nil {
		state.MarkFailed("unsupported source: " + sourceURL)
		slog.Error("no resolver rule matches source",
			slog.String("source_id", sourceID),
			slog.String("url", sourceURL))
		result.Outcome = OutcomeFetchFailed
		result.Err = err
		return result
	}

	fetched, err := s.Fetcher.Fetch(ctx, sourceURL, state.ETag, state.LastModified)
	if err != nil {
		state.MarkFailed(err.Error())
		var fetchErr *fetcher.Error
		if errors.As(err, &fetchErr) {
			metrics.RecordFetchError(sourceID, fetchErr.Kind.String())
		}
		slog.Warn("fetch failed",
			slog.String("source_id", sourceID),
			slog.Int("error_count", state.ErrorCount),
			slog.Any("error", err))
		result.Outcome = OutcomeFetchFailed
		result.Err = err
		return result
	}

	state.SetValidators(fetched.ETag, fetched.LastModified)

	if fetched.NotModified {
		state.MarkHealthy()
		slog.Debug("source unmodified", slog.String("source_id", sourceID))
		result.Outcome = OutcomeUnmodified
		return result
	}

	article := s.Extractor.Extract(fetched.Body, kind, sourceURL)
	if article == nil {
		// Content changed but no recognizable top item. The baseline
		// survives so a transient markup break cannot erase history.
		state.MarkHealthy()
		slog.Info("no article recognized in modified content",
			slog.String("source_id", sourceID),
			slog.String("kind", kind.String()))
		result.Outcome = OutcomeNoChange
		return result
	}

	switch {
	case state.LastArticle == nil:
		// First observation establishes the baseline, it is not a
		// "new article" event.
		state.LastArticle = article
		state.MarkHealthy()
		slog.Info("baseline established",
			slog.String("source_id", sourceID),
			slog.String("url", article.URL))
		result.Outcome = OutcomeNewArticle
		result.BaselineEstablished = true

	case article.Equal(*state.LastArticle):
		state.MarkHealthy()
		slog.Debug("top article unchanged",
			slog.String("source_id", sourceID),
			slog.String("url", article.URL))
		result.Outcome = OutcomeNoChange

	default:
		previous := *state.LastArticle
		state.LastArticle = article
		state.MarkHealthy()
		slog.Info("new article detected",
			slog.String("source_id", sourceID),
			slog.String("url", article.URL),
			slog.String("previous_url", previous.URL))
		result.Outcome = OutcomeNewArticle
		result.Notified = s.notify(ctx, sourceID, *article, &previous)
	}

	return result
}

// notify attempts delivery. Delivery failure never affects detection state.
func (s *Service) notify(ctx context.Context, sourceID string, article entity.Article, previous *entity.Article) bool {
	if s.Notifier == nil || !s.Notifier.IsEnabled() {
		return false
	}
	err := s.Notifier.Send(ctx, sourceID, article, previous)
	metrics.RecordNotification(s.Notifier.Name(), err == nil)
	if err != nil {
		slog.Error("notification delivery failed",
			slog.String("source_id", sourceID),
			slog.String("channel", s.Notifier.Name()),
			slog.Any("error", err))
		return false
	}
	return true
}

// RunAll checks every source URL once. Duplicate source IDs are dropped so
// two URLs cannot race on the same state record. Per-source failures never
// stop the pass.
func (s *Service) RunAll(ctx context.Context, sourceURLs []string) Summary {
	urls := dedupeBySourceID(sourceURLs)
	results := make([]Result, len(urls))

	if s.Parallelism > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.Parallelism)
		for i, u := range urls {
			g.Go(func() error {
				results[i] = s.CheckSource(gctx, u)
				return nil
			})
		}
		// Workers never return errors; failures live in the results.
		_ = g.Wait()
	} else {
		for i, u := range urls {
			results[i] = s.CheckSource(ctx, u)
		}
	}

	summary := Summary{Results: results, Checked: len(results)}
	for _, r := range results {
		if r.Failed() {
			summary.Failed++
		}
		if r.Notified {
			summary.Notified++
		}
	}
	return summary
}

// dedupeBySourceID keeps the first URL for each derived source ID,
// preserving order.
func dedupeBySourceID(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		id := entity.SourceID(u)
		if _, dup := seen[id]; dup {
			slog.Warn("duplicate source id, skipping",
				slog.String("source_id", id),
				slog.String("url", u))
			continue
		}
		seen[id] = struct{}{}
		out = append(out, u)
	}
	return out
}
