package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordCheck(t *testing.T) {
	before := testutil.ToFloat64(ChecksTotal.WithLabelValues("test-src", "new_article"))

	RecordCheck("test-src", "new_article", 120*time.Millisecond)

	after := testutil.ToFloat64(ChecksTotal.WithLabelValues("test-src", "new_article"))
	if after != before+1 {
		t.Errorf("ChecksTotal = %v, want %v", after, before+1)
	}
}

func TestRecordNotification(t *testing.T) {
	before := testutil.ToFloat64(NotificationsTotal.WithLabelValues("discord", "failure"))

	RecordNotification("discord", false)

	after := testutil.ToFloat64(NotificationsTotal.WithLabelValues("discord", "failure"))
	if after != before+1 {
		t.Errorf("NotificationsTotal = %v, want %v", after, before+1)
	}
}

func TestRecordCheck_DurationObserved(t *testing.T) {
	RecordCheck("duration-src", "unmodified", 250*time.Millisecond)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var family *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "newswatch_check_duration_seconds" {
			family = f
			break
		}
	}
	if family == nil {
		t.Fatal("check duration histogram not registered")
	}
	if family.GetType() != dto.MetricType_HISTOGRAM {
		t.Errorf("metric type = %v, want histogram", family.GetType())
	}

	found := false
	for _, m := range family.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "source_id" && l.GetValue() == "duration-src" {
				found = true
				if m.GetHistogram().GetSampleCount() == 0 {
					t.Error("histogram sample count = 0, want at least one observation")
				}
			}
		}
	}
	if !found {
		t.Error("no histogram sample recorded for duration-src")
	}
}

func TestSetSourceErrorCount(t *testing.T) {
	SetSourceErrorCount("test-src", 3)
	if got := testutil.ToFloat64(SourceErrorCount.WithLabelValues("test-src")); got != 3 {
		t.Errorf("SourceErrorCount = %v, want 3", got)
	}

	SetSourceErrorCount("test-src", 0)
	if got := testutil.ToFloat64(SourceErrorCount.WithLabelValues("test-src")); got != 0 {
		t.Errorf("SourceErrorCount after reset = %v, want 0", got)
	}
}
