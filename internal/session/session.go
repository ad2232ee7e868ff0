// Package session runs one partner's engine together with the polling loop
// that keeps it in step with the other partner.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/nosso/internal/engine"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/reconcile"
)

// Session is an Engine whose reconcile loop runs exactly while the session
// is linked. Operations that can link or unlink the user start or stop the
// loop after they return.
type Session struct {
	*engine.Engine
	loop   *reconcile.Loop
	logger *slog.Logger
}

func New(eng *engine.Engine, interval time.Duration, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session")
	return &Session{
		Engine: eng,
		loop:   reconcile.New(eng, interval, logger),
		logger: logger,
	}
}

func (s *Session) Open(ctx context.Context) error {
	err := s.Engine.Open(ctx)
	s.sync(ctx)
	return err
}

func (s *Session) Register(ctx context.Context, in engine.RegisterInput) (*model.User, error) {
	u, err := s.Engine.Register(ctx, in)
	s.sync(ctx)
	return u, err
}

func (s *Session) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.Engine.Login(ctx, email, password)
	s.sync(ctx)
	return u, err
}

// Logout stops polling before dropping the session view.
func (s *Session) Logout(ctx context.Context) error {
	s.loop.Stop()
	return s.Engine.Logout(ctx)
}

func (s *Session) CreateCouple(ctx context.Context) (string, error) {
	code, err := s.Engine.CreateCouple(ctx)
	s.sync(ctx)
	return code, err
}

func (s *Session) InviteCode(ctx context.Context) (string, error) {
	code, err := s.Engine.InviteCode(ctx)
	s.sync(ctx)
	return code, err
}

func (s *Session) JoinCouple(ctx context.Context, inviteCode string) error {
	err := s.Engine.JoinCouple(ctx, inviteCode)
	s.sync(ctx)
	return err
}

func (s *Session) LinkByUserCode(ctx context.Context, partnerCode string) error {
	err := s.Engine.LinkByUserCode(ctx, partnerCode)
	s.sync(ctx)
	return err
}

func (s *Session) UnlinkCouple(ctx context.Context) error {
	err := s.Engine.UnlinkCouple(ctx)
	s.sync(ctx)
	return err
}

// Refresh re-reads the store once. A session that became linked through
// the partner's action starts polling from here on.
func (s *Session) Refresh(ctx context.Context) error {
	err := s.Engine.Refresh(ctx)
	s.sync(ctx)
	return err
}

// Polling reports whether the reconcile loop is running.
func (s *Session) Polling() bool {
	return s.loop.Running()
}

// Close stops the reconcile loop.
func (s *Session) Close() {
	s.loop.Stop()
}

// sync starts or stops the loop to match the session's linked state. The
// loop outlives ctx; it ends on Logout, UnlinkCouple or Close.
func (s *Session) sync(ctx context.Context) {
	if s.Engine.Linked() {
		if !s.loop.Running() {
			s.logger.Debug("starting reconcile loop")
		}
		s.loop.Start(context.WithoutCancel(ctx))
		return
	}
	s.loop.Stop()
}
