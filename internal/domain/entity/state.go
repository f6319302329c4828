package entity

// SourceState is the persisted baseline for one monitored source.
// One record exists per source, keyed by SourceID. The record round-trips
// exactly through the state store as a single JSON object.
type SourceState struct {
	SourceID     string   `json:"source_id"`
	LastArticle  *Article `json:"last_article"`
	LastChecked  string   `json:"last_checked,omitempty"`
	ETag         string   `json:"etag,omitempty"`
	LastModified string   `json:"last_modified,omitempty"`
	ErrorCount   int      `json:"error_count"`
	LastError    string   `json:"last_error,omitempty"`
}

// NewSourceState returns the fresh default state for a source with no
// backing record: no baseline, counters zero.
func NewSourceState(sourceID string) *SourceState {
	return &SourceState{SourceID: sourceID}
}

// MarkHealthy resets the failure bookkeeping after any non-error outcome.
// The baseline and caching validators are left untouched.
func (s *SourceState) MarkHealthy() {
	s.ErrorCount = 0
	s.LastError = ""
}

// MarkFailed records one failed check. The counter is monotonic and not
// capped; the baseline is never touched on the failure path.
func (s *SourceState) MarkFailed(reason string) {
	s.ErrorCount++
	s.LastError = reason
}

// SetValidators stores the caching validators from the most recent fetch
// attempt. They are updated independently of extraction success, including
// after not-modified responses.
func (s *SourceState) SetValidators(etag, lastModified string) {
	s.ETag = etag
	s.LastModified = lastModified
}
