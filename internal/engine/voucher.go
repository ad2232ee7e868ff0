package engine

import (
	"context"

	"github.com/dukerupert/nosso/internal/code"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/notify"
)

// RedeemReward spends the user's points on an approved reward and returns
// the new voucher. The balance is checked against the freshly loaded
// record; a concurrent redeem in another session can still overdraw it.
func (e *Engine) RedeemReward(ctx context.Context, rewardID string) (*model.Voucher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return nil, e.reject("redeem reward", err)
	}
	r := ds.RewardByID(rewardID)
	if r == nil || r.CoupleID != c.ID {
		return nil, nil
	}
	if r.Status != model.RewardApproved {
		return nil, e.reject("redeem reward", ErrRewardNotApproved)
	}
	if u.Points < r.Points {
		return nil, e.reject("redeem reward", ErrInsufficientPoints)
	}

	v := model.Voucher{
		ID:           code.NewID(),
		RewardID:     r.ID,
		Title:        r.Title,
		Description:  r.Description,
		RedeemedBy:   u.ID,
		RedeemedFrom: r.SuggestedBy,
		CoupleID:     c.ID,
		Status:       model.VoucherActive,
		CreatedAt:    e.now(),
	}
	u.Points -= r.Points
	ds.Vouchers = append(ds.Vouchers, v)
	e.logActivity(ds, model.ActivityVoucherRedeemed, u, c.ID, v.ID, describe(model.ActivityVoucherRedeemed, u.Name, r.Title), intPtr(-r.Points))

	if err := e.commit(ctx, ds, notify.NewMessage("voucher", "redeemed", v.ID)); err != nil {
		return nil, err
	}
	return &v, nil
}

// UseVoucher marks an active voucher as used.
func (e *Engine) UseVoucher(ctx context.Context, voucherID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return e.reject("use voucher", err)
	}
	v := ds.VoucherByID(voucherID)
	if v == nil || v.CoupleID != c.ID {
		return nil
	}
	if v.Status == model.VoucherUsed {
		return e.reject("use voucher", ErrVoucherUsed)
	}

	now := e.now()
	v.Status = model.VoucherUsed
	v.UsedAt = &now
	e.logActivity(ds, model.ActivityVoucherUsed, u, c.ID, v.ID, describe(model.ActivityVoucherUsed, u.Name, v.Title), nil)

	return e.commit(ctx, ds, notify.NewMessage("voucher", "used", voucherID))
}
