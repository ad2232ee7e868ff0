package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/nosso/internal/code"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/notify"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Color    model.Color
}

// ProfileInput carries the profile fields to change. Nil fields are left as is.
type ProfileInput struct {
	Name   *string
	Avatar *string
	Color  *model.Color
}

// Register creates a user with zero points and a fresh user code and signs
// them in.
func (e *Engine) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	switch {
	case name == "":
		return nil, e.reject("register", fmt.Errorf("%w: name is required", ErrInvalidInput))
	case email == "":
		return nil, e.reject("register", fmt.Errorf("%w: email is required", ErrInvalidInput))
	case !in.Color.Valid():
		return nil, e.reject("register", fmt.Errorf("%w: unknown color %q", ErrInvalidInput, in.Color))
	}

	ds, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if ds.UserByEmail(email) != nil {
		return nil, e.reject("register", ErrEmailTaken)
	}

	userCode, err := code.UniqueUserCode(ds.Users)
	if err != nil {
		return nil, fmt.Errorf("generate user code: %w", err)
	}
	u := model.User{
		ID:        code.NewID(),
		Name:      name,
		Email:     email,
		Password:  in.Password,
		Color:     in.Color,
		UserCode:  userCode,
		CreatedAt: e.now(),
	}
	ds.Users = append(ds.Users, u)

	prev := e.userID
	e.userID = u.ID
	if err := e.commit(ctx, ds, notify.NewMessage("user", "registered", u.ID)); err != nil {
		e.userID = prev
		return nil, err
	}
	return &u, nil
}

// Login signs in the user whose email and password match exactly.
func (e *Engine) Login(ctx context.Context, email, password string) (*model.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	u := ds.UserByEmail(strings.TrimSpace(email))
	if u == nil || u.Password != password {
		return nil, e.reject("login", ErrInvalidCredentials)
	}

	e.userID = u.ID
	e.rescope(ds)
	e.logger.Debug("logged in", "user_id", u.ID, "couple_id", u.CoupleID)
	e.hub.Broadcast(notify.NewMessage("session", "login", u.ID))
	out := *u
	return &out, nil
}

// Logout signs the user out and drops the whole session view. Stored data
// is untouched.
func (e *Engine) Logout(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.userID
	e.userID = ""
	e.state.Clear()
	if id != "" {
		e.logger.Debug("logged out", "user_id", id)
		e.hub.Broadcast(notify.NewMessage("session", "logout", id))
	}
	return nil
}

// UpdateProfile changes the signed-in user's name, avatar or color.
func (e *Engine) UpdateProfile(ctx context.Context, in ProfileInput) (*model.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, e.reject("update profile", fmt.Errorf("%w: name is required", ErrInvalidInput))
		}
	}
	if in.Color != nil && !in.Color.Valid() {
		return nil, e.reject("update profile", fmt.Errorf("%w: unknown color %q", ErrInvalidInput, *in.Color))
	}

	ds, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	u, err := e.currentUser(ds)
	if err != nil {
		return nil, e.reject("update profile", err)
	}
	if in.Name != nil {
		u.Name = name
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.Color != nil {
		u.Color = *in.Color
	}
	out := *u

	if err := e.commit(ctx, ds, notify.NewMessage("user", "updated", u.ID)); err != nil {
		return nil, err
	}
	return &out, nil
}
