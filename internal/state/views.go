package state

import (
	"slices"
	"time"

	"github.com/dukerupert/nosso/internal/model"
)

// Linked reports whether the session has a user and a couple, open or full.
func (s Snapshot) Linked() bool {
	return s.CurrentUser != nil && s.Couple != nil
}

func (s Snapshot) userID() string {
	if s.CurrentUser == nil {
		return ""
	}
	return s.CurrentUser.ID
}

// TasksByUser returns the open tasks assigned to userID.
func (s Snapshot) TasksByUser(userID string) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.AssignedTo == userID && !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// PendingTasks returns the current user's open tasks.
func (s Snapshot) PendingTasks() []model.Task {
	if s.CurrentUser == nil {
		return nil
	}
	return s.TasksByUser(s.CurrentUser.ID)
}

// CompletedTasks returns the couple's finished tasks, most recently
// completed first.
func (s Snapshot) CompletedTasks() []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b model.Task) int {
		return completedAt(b).Compare(completedAt(a))
	})
	return out
}

func (s Snapshot) ApprovedRewards() []model.Reward {
	var out []model.Reward
	for _, r := range s.Rewards {
		if r.Status == model.RewardApproved {
			out = append(out, r)
		}
	}
	return out
}

// PendingRewards returns rewards waiting for the current user's decision.
func (s Snapshot) PendingRewards() []model.Reward {
	if s.CurrentUser == nil {
		return nil
	}
	var out []model.Reward
	for _, r := range s.Rewards {
		if r.Status == model.RewardPending && r.SuggestedBy != s.CurrentUser.ID {
			out = append(out, r)
		}
	}
	return out
}

// MyRewardSuggestions returns the current user's suggestions still waiting
// for the partner.
func (s Snapshot) MyRewardSuggestions() []model.Reward {
	if s.CurrentUser == nil {
		return nil
	}
	var out []model.Reward
	for _, r := range s.Rewards {
		if r.Status == model.RewardPending && r.SuggestedBy == s.CurrentUser.ID {
			out = append(out, r)
		}
	}
	return out
}

// ActiveVouchers returns the current user's unused vouchers.
func (s Snapshot) ActiveVouchers() []model.Voucher {
	return s.vouchers(s.userID(), model.VoucherActive)
}

// VoucherHistory returns the current user's used vouchers.
func (s Snapshot) VoucherHistory() []model.Voucher {
	return s.vouchers(s.userID(), model.VoucherUsed)
}

// PartnerVouchers returns the partner's unused vouchers, i.e. what the
// current user still owes.
func (s Snapshot) PartnerVouchers() []model.Voucher {
	if s.Partner == nil {
		return nil
	}
	return s.vouchers(s.Partner.ID, model.VoucherActive)
}

func (s Snapshot) vouchers(userID string, status model.VoucherStatus) []model.Voucher {
	if userID == "" {
		return nil
	}
	var out []model.Voucher
	for _, v := range s.Vouchers {
		if v.RedeemedBy == userID && v.Status == status {
			out = append(out, v)
		}
	}
	return out
}

// Feed returns the activities newest first. Entries with equal timestamps
// have no defined order.
func (s Snapshot) Feed() []model.Activity {
	out := slices.Clone(s.Activities)
	slices.SortFunc(out, func(a, b model.Activity) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func completedAt(t model.Task) time.Time {
	if t.CompletedAt == nil {
		return time.Time{}
	}
	return *t.CompletedAt
}
