// Package engine implements the domain operations of one partner session.
// Every operation re-reads the shared dataset, validates, writes it back in
// one Save and then recomputes the session view.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/notify"
	"github.com/dukerupert/nosso/internal/state"
	"github.com/dukerupert/nosso/internal/store"
)

// AppVersion is recorded in the version marker key on Open.
const AppVersion = "2.5.4"

// Engine is the single writer for one session. It is safe for concurrent
// use; operations are serialized by a process-local mutex only, so two
// engines sharing a store still race with last-writer-wins.
type Engine struct {
	mu     sync.Mutex
	blobs  *store.BlobStore
	hub    *notify.Hub
	logger *slog.Logger
	now    func() time.Time
	state  *state.Container
	userID string

	restoreSession bool
}

type Option func(*Engine)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithStoredSession makes Open sign in the user an older client saved as
// currentUser in the blob. That field belongs to whichever device wrote
// last, so on a store shared by both partners it can name the other one.
func WithStoredSession() Option {
	return func(e *Engine) {
		e.restoreSession = true
	}
}

func New(blobs *store.BlobStore, hub *notify.Hub, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = notify.NewHub(logger)
	}
	e := &Engine{
		blobs:  blobs,
		hub:    hub,
		logger: logger.With("component", "engine"),
		now:    func() time.Time { return time.Now().UTC() },
		state:  state.NewContainer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Hub returns the hub change notifications are broadcast on.
func (e *Engine) Hub() *notify.Hub {
	return e.hub
}

// Open hydrates the session view and checks the version marker. With
// WithStoredSession and no user signed in yet, it adopts the session an
// older client persisted in the blob.
func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.SetLoading(true)
	defer e.state.SetLoading(false)

	if _, err := e.blobs.CheckVersion(ctx, AppVersion); err != nil {
		return err
	}
	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	if e.restoreSession && e.userID == "" && ds.CurrentUser != nil && ds.UserByID(ds.CurrentUser.ID) != nil {
		e.userID = ds.CurrentUser.ID
		e.logger.Info("restored stored session", "user_id", e.userID)
	}
	e.rescope(ds)
	return nil
}

// State returns a copy of the current session view.
func (e *Engine) State() state.Snapshot {
	return e.state.Snapshot()
}

// Linked reports whether the session has a user who belongs to a couple.
func (e *Engine) Linked() bool {
	return e.state.Snapshot().Linked()
}

// Refresh re-reads the store and folds in changes written by other
// sessions. It does nothing without a signed-in user.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" {
		return nil
	}
	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	if ds.Revision != "" && ds.Revision == e.state.Snapshot().Revision {
		return nil
	}
	e.logger.Debug("refreshed session", "user_id", e.userID, "revision", ds.Revision)
	e.rescope(ds)
	e.hub.Broadcast(notify.NewMessage("state", "refreshed", ds.Revision))
	return nil
}

func (e *Engine) load(ctx context.Context) (*model.Dataset, error) {
	ds, err := e.blobs.Load(ctx)
	if err != nil {
		e.logger.Error("load dataset", "error", err)
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

// commit saves ds, rescopes the session view and broadcasts msg.
func (e *Engine) commit(ctx context.Context, ds *model.Dataset, msg notify.Message) error {
	if err := e.blobs.Save(ctx, ds); err != nil {
		e.logger.Error("save dataset", "op", msg.Type, "error", err)
		return fmt.Errorf("save dataset: %w", err)
	}
	e.rescope(ds)
	e.logger.Debug("operation applied", "op", msg.Type, "id", msg.ID, "user_id", e.userID)
	e.hub.Broadcast(msg)
	return nil
}

func (e *Engine) rescope(ds *model.Dataset) {
	if e.userID == "" {
		e.state.Clear()
		return
	}
	e.state.Replace(state.Scope(ds, e.userID))
}

func (e *Engine) reject(op string, err error) error {
	e.logger.Info("operation rejected", "op", op, "user_id", e.userID, "reason", err)
	return err
}

// currentUser returns the signed-in user's record in ds.
func (e *Engine) currentUser(ds *model.Dataset) (*model.User, error) {
	u := ds.UserByID(e.userID)
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// currentCouple returns the signed-in user and their couple in ds.
func (e *Engine) currentCouple(ds *model.Dataset) (*model.User, *model.Couple, error) {
	u, err := e.currentUser(ds)
	if err != nil {
		return nil, nil, err
	}
	c := ds.CoupleByID(u.CoupleID)
	if c == nil {
		return nil, nil, ErrNotLinked
	}
	return u, c, nil
}
