package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRefresher struct {
	mu     sync.Mutex
	calls  int
	linked atomic.Bool
	err    error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefresher) Linked() bool {
	return f.linked.Load()
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestLoopRefreshesWhileLinked(t *testing.T) {
	f := &fakeRefresher{}
	f.linked.Store(true)
	l := New(f, 10*time.Millisecond, slog.Default())

	l.Start(context.Background())
	defer l.Stop()

	waitFor(t, func() bool { return f.count() >= 3 })
	if !l.Running() {
		t.Error("expected loop to be running")
	}
}

func TestLoopStopsWhenUnlinked(t *testing.T) {
	f := &fakeRefresher{}
	f.linked.Store(true)
	l := New(f, 10*time.Millisecond, slog.Default())

	l.Start(context.Background())
	waitFor(t, func() bool { return f.count() >= 1 })

	f.linked.Store(false)
	waitFor(t, func() bool { return !l.Running() })

	calls := f.count()
	time.Sleep(50 * time.Millisecond)
	if got := f.count(); got != calls {
		t.Errorf("refresh called %d times after stopping, want %d", got, calls)
	}

	// Stop after the loop ended on its own returns immediately
	l.Stop()
}

func TestLoopContinuesAfterRefreshError(t *testing.T) {
	f := &fakeRefresher{err: errors.New("store unavailable")}
	f.linked.Store(true)
	l := New(f, 10*time.Millisecond, slog.Default())

	l.Start(context.Background())
	defer l.Stop()

	waitFor(t, func() bool { return f.count() >= 3 })
}

func TestLoopStop(t *testing.T) {
	f := &fakeRefresher{}
	f.linked.Store(true)
	l := New(f, 10*time.Millisecond, slog.Default())

	l.Start(context.Background())
	l.Stop()

	if l.Running() {
		t.Error("expected loop to be stopped")
	}
	calls := f.count()
	time.Sleep(50 * time.Millisecond)
	if got := f.count(); got != calls {
		t.Errorf("refresh called after Stop: %d, want %d", got, calls)
	}
}

func TestLoopStartIsIdempotent(t *testing.T) {
	f := &fakeRefresher{}
	f.linked.Store(true)
	l := New(f, time.Hour, slog.Default())

	l.Start(context.Background())
	first := l.done
	l.Start(context.Background())
	if l.done != first {
		t.Error("second Start replaced the running loop")
	}
	l.Stop()

	// a stopped loop can be started again
	l.Start(context.Background())
	if !l.Running() {
		t.Error("expected restarted loop to run")
	}
	l.Stop()
}

func TestLoopStopsWithContext(t *testing.T) {
	f := &fakeRefresher{}
	f.linked.Store(true)
	l := New(f, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)
	cancel()

	waitFor(t, func() bool { return !l.Running() })
}

func TestNewDefaults(t *testing.T) {
	l := New(&fakeRefresher{}, 0, nil)
	if l.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", l.interval, DefaultInterval)
	}
	if l.Running() {
		t.Error("new loop should not be running")
	}
	// Stop before Start is a no-op
	l.Stop()
}
