package metrics

import "time"

// RecordCheck records the outcome and duration of one source check.
func RecordCheck(sourceID, outcome string, duration time.Duration) {
	ChecksTotal.WithLabelValues(sourceID, outcome).Inc()
	CheckDuration.WithLabelValues(sourceID).Observe(duration.Seconds())
}

// RecordFetchError records a fetch failure by error kind.
func RecordFetchError(sourceID, kind string) {
	FetchErrorsTotal.WithLabelValues(sourceID, kind).Inc()
}

// RecordNotification records one notification attempt.
func RecordNotification(channel string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	NotificationsTotal.WithLabelValues(channel, status).Inc()
}

// SetSourceErrorCount updates the consecutive failure gauge for a source.
func SetSourceErrorCount(sourceID string, count int) {
	SourceErrorCount.WithLabelValues(sourceID).Set(float64(count))
}
