package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dukerupert/nosso/internal/code"
	"github.com/dukerupert/nosso/internal/model"
	"github.com/dukerupert/nosso/internal/notify"
)

type RewardInput struct {
	Title       string
	Description string
	Points      int
	Image       string
}

// SuggestReward proposes a reward for the partner to approve or reject.
func (e *Engine) SuggestReward(ctx context.Context, in RewardInput) (*model.Reward, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, e.reject("suggest reward", fmt.Errorf("%w: title is required", ErrInvalidInput))
	case in.Points <= 0:
		return nil, e.reject("suggest reward", fmt.Errorf("%w: points must be positive", ErrInvalidInput))
	}

	ds, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return nil, e.reject("suggest reward", err)
	}

	r := model.Reward{
		ID:          code.NewID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Points:      in.Points,
		SuggestedBy: u.ID,
		Status:      model.RewardPending,
		CoupleID:    c.ID,
		Image:       in.Image,
		CreatedAt:   e.now(),
	}
	ds.Rewards = append(ds.Rewards, r)
	e.logActivity(ds, model.ActivityRewardSuggested, u, c.ID, r.ID, describe(model.ActivityRewardSuggested, u.Name, r.Title), nil)

	if err := e.commit(ctx, ds, notify.NewMessage("reward", "suggested", r.ID)); err != nil {
		return nil, err
	}
	return &r, nil
}

// ApproveReward accepts the partner's pending suggestion.
func (e *Engine) ApproveReward(ctx context.Context, rewardID string) error {
	return e.decideReward(ctx, rewardID, model.RewardApproved)
}

// RejectReward declines the partner's pending suggestion.
func (e *Engine) RejectReward(ctx context.Context, rewardID string) error {
	return e.decideReward(ctx, rewardID, model.RewardRejected)
}

func (e *Engine) decideReward(ctx context.Context, rewardID string, status model.RewardStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	op := "approve reward"
	if status == model.RewardRejected {
		op = "reject reward"
	}

	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return e.reject(op, err)
	}
	r := ds.RewardByID(rewardID)
	if r == nil || r.CoupleID != c.ID {
		return nil
	}
	if r.SuggestedBy == u.ID {
		return e.reject(op, ErrOwnReward)
	}
	if r.Status != model.RewardPending {
		return e.reject(op, ErrRewardDecided)
	}

	r.Status = status
	if status == model.RewardRejected {
		return e.commit(ctx, ds, notify.NewMessage("reward", "rejected", r.ID))
	}

	now := e.now()
	r.ApprovedBy = u.ID
	r.ApprovedAt = &now
	e.logActivity(ds, model.ActivityRewardApproved, u, c.ID, r.ID, describe(model.ActivityRewardApproved, u.Name, r.Title), nil)
	return e.commit(ctx, ds, notify.NewMessage("reward", "approved", rewardID))
}

// DeleteReward removes a reward suggested by the signed-in user. Vouchers
// already redeemed from it are kept.
func (e *Engine) DeleteReward(ctx context.Context, rewardID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ds, err := e.load(ctx)
	if err != nil {
		return err
	}
	u, c, err := e.currentCouple(ds)
	if err != nil {
		return e.reject("delete reward", err)
	}
	i := slices.IndexFunc(ds.Rewards, func(r model.Reward) bool {
		return r.ID == rewardID && r.CoupleID == c.ID
	})
	if i < 0 {
		return nil
	}
	if ds.Rewards[i].SuggestedBy != u.ID {
		return e.reject("delete reward", ErrNotSuggester)
	}
	ds.Rewards = slices.Delete(ds.Rewards, i, i+1)

	return e.commit(ctx, ds, notify.NewMessage("reward", "deleted", rewardID))
}
