// Package state holds the in-memory view of one partner's session: the
// signed-in user, their couple and partner, and the couple's records.
package state

import (
	"slices"
	"sync"

	"github.com/dukerupert/nosso/internal/model"
)

// Snapshot is an immutable copy of a session view.
type Snapshot struct {
	CurrentUser *model.User
	Couple      *model.Couple
	Partner     *model.User
	Tasks       []model.Task
	Rewards     []model.Reward
	Vouchers    []model.Voucher
	Activities  []model.Activity
	IsLoading   bool
	Revision    string
}

// Scope builds the view of ds seen by userID. Records are filtered to the
// user's current couple; without a couple the collections are empty.
func Scope(ds *model.Dataset, userID string) Snapshot {
	s := Snapshot{Revision: ds.Revision}

	u := ds.UserByID(userID)
	if u == nil {
		return s
	}
	user := *u
	s.CurrentUser = &user

	c := ds.CoupleByID(user.CoupleID)
	if c == nil {
		return s
	}
	couple := *c
	s.Couple = &couple

	if p := ds.UserByID(couple.PartnerOf(user.ID)); p != nil {
		partner := *p
		s.Partner = &partner
	}

	for _, t := range ds.Tasks {
		if t.CoupleID == couple.ID {
			s.Tasks = append(s.Tasks, t)
		}
	}
	for _, r := range ds.Rewards {
		if r.CoupleID == couple.ID {
			s.Rewards = append(s.Rewards, r)
		}
	}
	for _, v := range ds.Vouchers {
		if v.CoupleID == couple.ID {
			s.Vouchers = append(s.Vouchers, v)
		}
	}
	for _, a := range ds.Activities {
		if a.CoupleID == couple.ID {
			s.Activities = append(s.Activities, a)
		}
	}
	return s
}

// Container is the authoritative in-memory view for a session. Reads may
// happen from any goroutine; the engine is its only writer.
type Container struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewContainer() *Container {
	return &Container{snap: Snapshot{IsLoading: true}}
}

// Snapshot returns a copy that later writes do not affect.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.clone()
}

func (c *Container) Replace(s Snapshot) {
	s = s.clone()
	c.mu.Lock()
	s.IsLoading = c.snap.IsLoading
	c.snap = s
	c.mu.Unlock()
}

func (c *Container) SetLoading(loading bool) {
	c.mu.Lock()
	c.snap.IsLoading = loading
	c.mu.Unlock()
}

// Clear drops the whole session view.
func (c *Container) Clear() {
	c.mu.Lock()
	c.snap = Snapshot{IsLoading: c.snap.IsLoading}
	c.mu.Unlock()
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	if s.Couple != nil {
		c := *s.Couple
		out.Couple = &c
	}
	if s.Partner != nil {
		p := *s.Partner
		out.Partner = &p
	}
	out.Tasks = slices.Clone(s.Tasks)
	out.Rewards = slices.Clone(s.Rewards)
	out.Vouchers = slices.Clone(s.Vouchers)
	out.Activities = slices.Clone(s.Activities)
	return out
}
