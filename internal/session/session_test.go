package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/nosso/internal/database"
	"github.com/dukerupert/nosso/internal/engine"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/store"
)

const testInterval = 20 * time.Millisecond

// openSession opens its own database handle on path, the way a second
// process on the same machine would.
func openSession(t *testing.T, path string) *Session {
	t.Helper()
	db, err := database.Open(path)
	require.NoError(t, err)

	blobs := store.NewBlobStore(store.NewSQLiteKV(db), "", "", slog.Default())
	s := New(engine.New(blobs, nil, slog.Default()), testInterval, slog.Default())
	t.Cleanup(func() {
		s.Close()
		db.Close()
	})
	require.NoError(t, s.Open(context.Background()))
	return s
}

func registerUser(t *testing.T, s *Session, name, email string) *model.User {
	t.Helper()
	u, err := s.Register(context.Background(), engine.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret",
		Color:    model.ColorGreen,
	})
	require.NoError(t, err)
	return u
}

func TestPartnerJoinIsObserved(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nosso.db")
	a := openSession(t, path)
	b := openSession(t, path)

	registerUser(t, a, "Ana", "ana@example.com")
	assert.False(t, a.Polling())

	invite, err := a.CreateCouple(ctx)
	require.NoError(t, err)
	assert.True(t, a.Polling())

	ub := registerUser(t, b, "Bia", "bia@example.com")
	require.NoError(t, b.JoinCouple(ctx, invite))
	assert.True(t, b.Polling())

	assert.Eventually(t, func() bool {
		p := a.State().Partner
		return p != nil && p.ID == ub.ID
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPartnerChangesAreObserved(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nosso.db")
	a := openSession(t, path)
	b := openSession(t, path)

	registerUser(t, a, "Ana", "ana@example.com")
	ub := registerUser(t, b, "Bia", "bia@example.com")
	require.NoError(t, a.LinkByUserCode(ctx, ub.UserCode))

	// b learns about the couple on its next manual refresh
	assert.False(t, b.Polling())
	require.NoError(t, b.Refresh(ctx))
	assert.True(t, b.Polling())

	task, err := a.CreateTask(ctx, engine.TaskInput{Title: "Lavar louça", Points: 10, AssignedTo: ub.ID})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(b.State().PendingTasks()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, b.CompleteTask(ctx, task.ID, ""))
	assert.Eventually(t, func() bool {
		p := a.State().Partner
		return p != nil && p.Points == 10
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnlinkStopsBothLoops(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nosso.db")
	a := openSession(t, path)
	b := openSession(t, path)

	registerUser(t, a, "Ana", "ana@example.com")
	invite, err := a.CreateCouple(ctx)
	require.NoError(t, err)
	registerUser(t, b, "Bia", "bia@example.com")
	require.NoError(t, b.JoinCouple(ctx, invite))

	require.NoError(t, b.UnlinkCouple(ctx))
	assert.False(t, b.Polling())

	// a notices the dissolved couple on its next tick and stops polling
	assert.Eventually(t, func() bool {
		return !a.Polling() && a.State().Couple == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLogoutStopsLoop(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, filepath.Join(t.TempDir(), "nosso.db"))

	registerUser(t, s, "Ana", "ana@example.com")
	_, err := s.InviteCode(ctx)
	require.NoError(t, err)
	require.True(t, s.Polling())

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Polling())
	assert.Nil(t, s.State().CurrentUser)

	_, err = s.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, s.Polling())
}

func TestRejectedLoginDoesNotPoll(t *testing.T) {
	s := openSession(t, filepath.Join(t.TempDir(), "nosso.db"))

	_, err := s.Login(context.Background(), "nobody@example.com", "x")
	assert.ErrorIs(t, err, engine.ErrInvalidCredentials)
	assert.False(t, s.Polling())
}
