package watch

// Outcome classifies the result of a single source check.
type Outcome int

const (
	// OutcomeUnmodified means the origin answered 304 and nothing was
	// extracted or compared.
	OutcomeUnmodified Outcome = iota

	// OutcomeNoChange means content was fetched but the top item either
	// was not recognizable or matched the stored baseline.
	OutcomeNoChange

	// OutcomeNewArticle means the top item differs from the baseline, or
	// a baseline was established for the first time.
	OutcomeNewArticle

	// OutcomeFetchFailed means the check failed before extraction could
	// run: unsupported source, network error, timeout, or bad status.
	OutcomeFetchFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnmodified:
		return "unmodified"
	case OutcomeNoChange:
		return "no_change"
	case OutcomeNewArticle:
		return "new_article"
	case OutcomeFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Result reports what happened during one source check.
type Result struct {
	SourceURL string
	SourceID  string
	Outcome   Outcome

	// BaselineEstablished is true when this check recorded the first
	// article for a previously unseen source. Establishing a baseline
	// never sends a notification.
	BaselineEstablished bool

	// Notified is true when a notification was successfully delivered.
	Notified bool

	// Err holds the failure for OutcomeFetchFailed results.
	Err error
}

// Failed reports whether the check counts as a failure for run-level exit
// semantics.
func (r Result) Failed() bool { return r.Outcome == OutcomeFetchFailed }

// Summary aggregates the results of one pass over all configured sources.
type Summary struct {
	Results  []Result
	Checked  int
	Failed   int
	Notified int
}

// AllFailed reports whether every checked source failed. This is the only
// condition under which the process exits non-zero.
func (s Summary) AllFailed() bool {
	return s.Checked > 0 && s.Failed == s.Checked
}
