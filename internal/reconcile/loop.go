// Package reconcile polls the shared store so one session sees what the
// partner's session wrote.
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the polling period used when New is given none.
const DefaultInterval = 5 * time.Second

// Refresher re-reads the store into a session view.
type Refresher interface {
	Refresh(ctx context.Context) error
	Linked() bool
}

// Loop calls Refresh on a fixed interval while the session stays linked.
type Loop struct {
	mu       sync.Mutex
	target   Refresher
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(target Refresher, interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		target:   target,
		interval: interval,
		logger:   logger.With("component", "reconcile"),
	}
}

// Start begins polling. Calling Start on a running loop does nothing.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != nil {
		select {
		case <-l.done:
		default:
			return
		}
	}
	if l.cancel != nil {
		l.cancel()
	}

	ctx, l.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	l.done = done
	l.logger.Debug("reconcile loop started", "interval", l.interval)

	go func() {
		defer close(done)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !l.tick(ctx) {
					l.logger.Debug("session no longer linked, reconcile loop stopped")
					return
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for the current tick to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Running reports whether the polling goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

// tick refreshes once and reports whether polling should continue.
func (l *Loop) tick(ctx context.Context) bool {
	if err := l.target.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return false
		}
		l.logger.Error("refresh failed", "error", err)
	}
	return l.target.Linked()
}
