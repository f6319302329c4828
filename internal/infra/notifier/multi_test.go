package notifier

import (
	"context"
	"errors"
	"testing"

	"newswatch/internal/domain/entity"
)

type fakeDispatcher struct {
	name    string
	enabled bool
	err     error
	calls   int
}

func (f *fakeDispatcher) Name() string    { return f.name }
func (f *fakeDispatcher) IsEnabled() bool { return f.enabled }
func (f *fakeDispatcher) Send(_ context.Context, _ string, _ entity.Article, _ *entity.Article) error {
	f.calls++
	return f.err
}

func TestMultiNotifier_AllChannelsAttempted(t *testing.T) {
	a := &fakeDispatcher{name: "a", enabled: true}
	b := &fakeDispatcher{name: "b", enabled: true}
	m := NewMultiNotifier(a, b)

	if err := m.Send(context.Background(), "src", testArticle(), nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", a.calls, b.calls)
	}
}

func TestMultiNotifier_SkipsDisabledChannels(t *testing.T) {
	disabled := &fakeDispatcher{name: "off", enabled: false, err: errors.New("should not be called")}
	enabled := &fakeDispatcher{name: "on", enabled: true}
	m := NewMultiNotifier(disabled, enabled)

	if err := m.Send(context.Background(), "src", testArticle(), nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if disabled.calls != 0 {
		t.Errorf("disabled channel called %d times", disabled.calls)
	}
}

func TestMultiNotifier_PartialFailureSucceeds(t *testing.T) {
	failing := &fakeDispatcher{name: "bad", enabled: true, err: errors.New("boom")}
	working := &fakeDispatcher{name: "good", enabled: true}
	m := NewMultiNotifier(failing, working)

	if err := m.Send(context.Background(), "src", testArticle(), nil); err != nil {
		t.Errorf("Send() error = %v, want nil when one channel succeeds", err)
	}
}

func TestMultiNotifier_AllFailuresReported(t *testing.T) {
	a := &fakeDispatcher{name: "a", enabled: true, err: errors.New("boom a")}
	b := &fakeDispatcher{name: "b", enabled: true, err: errors.New("boom b")}
	m := NewMultiNotifier(a, b)

	err := m.Send(context.Background(), "src", testArticle(), nil)
	if err == nil {
		t.Fatal("Send() = nil, want error when every channel fails")
	}
}

func TestMultiNotifier_NoEnabledChannelsIsNoop(t *testing.T) {
	m := NewMultiNotifier(&fakeDispatcher{name: "off", enabled: false})

	if m.IsEnabled() {
		t.Error("IsEnabled() = true with no enabled channels")
	}
	if err := m.Send(context.Background(), "src", testArticle(), nil); err != nil {
		t.Errorf("Send() error = %v, want nil with nothing to do", err)
	}
}

func TestMultiNotifier_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	failing := &fakeDispatcher{name: "flaky", enabled: true, err: errors.New("boom")}
	m := NewMultiNotifier(failing)

	for i := 0; i < breakerFailureThreshold; i++ {
		_ = m.Send(context.Background(), "src", testArticle(), nil)
	}
	callsBefore := failing.calls

	// Circuit is open now; the dispatcher must not be invoked again.
	_ = m.Send(context.Background(), "src", testArticle(), nil)
	if failing.calls != callsBefore {
		t.Errorf("calls after open circuit = %d, want %d", failing.calls, callsBefore)
	}
}
