package engine

import (
	"context"
	"fmt"

	"github.com/dukerupert/nosso/internal/code"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/notify"
)

// CreateCouple opens a couple with the signed-in user as first partner and
// returns its invite code.
func (e *Engine) CreateCouple(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	u, err := e.currentUser(ds)
	if err != nil {
		return "", e.reject("create couple", err)
	}
	if ds.CoupleByID(u.CoupleID) != nil {
		return "", e.reject("create couple", ErrAlreadyLinked)
	}
	return e.createCouple(ctx, ds, u)
}

// InviteCode returns the invite code of the user's couple, creating a
// couple first when the user has none.
func (e *Engine) InviteCode(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	u, err := e.currentUser(ds)
	if err != nil {
		return "", e.reject("invite code", err)
	}
	if c := ds.CoupleByID(u.CoupleID); c != nil {
		return c.InviteCode, nil
	}
	return e.createCouple(ctx, ds, u)
}

func (e *Engine) createCouple(ctx context.Context, ds *model.Dataset, u *model.User) (string, error) {
	invite, err := code.UniqueInviteCode(ds.Couples)
	if err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	c := model.Couple{
		ID:         code.NewID(),
		InviteCode: invite,
		Partner1ID: u.ID,
		CreatedAt:  e.now(),
	}
	u.CoupleID = c.ID
	ds.Couples = append(ds.Couples, c)

	if err := e.commit(ctx, ds, notify.NewMessage("couple", "created", c.ID)); err != nil {
		return "", err
	}
	return invite, nil
}

// JoinCouple fills the open slot of the couple with the given invite code.
func (e *Engine) JoinCouple(ctx context.Context, inviteCode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	inviteCode = code.Normalize(inviteCode)
	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	u, err := e.currentUser(ds)
	if err != nil {
		return e.reject("join couple", err)
	}
	if ds.CoupleByID(u.CoupleID) != nil {
		return e.reject("join couple", ErrAlreadyLinked)
	}

	c, err := openCouple(ds, inviteCode)
	if err != nil {
		return e.reject("join couple", err)
	}
	c.Partner2ID = u.ID
	u.CoupleID = c.ID
	e.logActivity(ds, model.ActivityPartnerJoined, u, c.ID, "", describe(model.ActivityPartnerJoined, u.Name, ""), nil)

	return e.commit(ctx, ds, notify.NewMessage("couple", "joined", c.ID))
}

// openCouple finds the couple with an open slot for inviteCode. Invite codes
// are only unique among open couples, so full couples are skipped.
func openCouple(ds *model.Dataset, inviteCode string) (*model.Couple, error) {
	if inviteCode == "" {
		return nil, ErrInviteNotFound
	}
	found := false
	for i := range ds.Couples {
		if ds.Couples[i].InviteCode != inviteCode {
			continue
		}
		if !ds.Couples[i].Full() {
			return &ds.Couples[i], nil
		}
		found = true
	}
	if found {
		return nil, ErrCoupleFull
	}
	return nil, ErrInviteNotFound
}

// LinkByUserCode creates a full couple from the signed-in user and the
// user owning partnerCode. Both must be unlinked.
func (e *Engine) LinkByUserCode(ctx context.Context, partnerCode string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	partnerCode = code.Normalize(partnerCode)
	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	u, err := e.currentUser(ds)
	if err != nil {
		return e.reject("link by user code", err)
	}
	if ds.CoupleByID(u.CoupleID) != nil {
		return e.reject("link by user code", ErrAlreadyLinked)
	}
	if partnerCode == u.UserCode {
		return e.reject("link by user code", ErrOwnUserCode)
	}
	p := ds.UserByCode(partnerCode)
	if p == nil {
		return e.reject("link by user code", ErrUserCodeNotFound)
	}
	if ds.CoupleByID(p.CoupleID) != nil {
		return e.reject("link by user code", ErrPartnerLinked)
	}

	invite, err := code.UniqueInviteCode(ds.Couples)
	if err != nil {
		return fmt.Errorf("generate invite code: %w", err)
	}
	c := model.Couple{
		ID:         code.NewID(),
		InviteCode: invite,
		Partner1ID: u.ID,
		Partner2ID: p.ID,
		CreatedAt:  e.now(),
	}
	u.CoupleID = c.ID
	p.CoupleID = c.ID
	ds.Couples = append(ds.Couples, c)

	return e.commit(ctx, ds, notify.NewMessage("couple", "linked", c.ID))
}

// UnlinkCouple dissolves the user's couple. Every user referencing it goes
// back to having no couple. The couple's records stay in the store but are
// no longer visible to either partner.
func (e *Engine) UnlinkCouple(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	_, c, err := e.currentCouple(ds)
	if err != nil {
		return nil
	}
	id := c.ID

	couples := ds.Couples[:0]
	for _, cc := range ds.Couples {
		if cc.ID != id {
			couples = append(couples, cc)
		}
	}
	ds.Couples = couples
	for i := range ds.Users {
		if ds.Users[i].CoupleID == id {
			ds.Users[i].CoupleID = ""
		}
	}

	return e.commit(ctx, ds, notify.NewMessage("couple", "unlinked", id))
}
