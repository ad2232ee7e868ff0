package model

import "time"

type ActivityType string

const (
	ActivityTaskCompleted   ActivityType = "task_completed"
	ActivityRewardSuggested ActivityType = "reward_suggested"
	ActivityRewardApproved  ActivityType = "reward_approved"
	ActivityVoucherRedeemed ActivityType = "voucher_redeemed"
	ActivityVoucherUsed     ActivityType = "voucher_used"
	ActivityPartnerJoined   ActivityType = "partner_joined"
)

// Activity is an append-only feed entry. Description is rendered once when
// the entry is created.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	UserID      string       `json:"userId"`
	CoupleID    string       `json:"coupleId"`
	Description string       `json:"description"`
	Points      *int         `json:"points,omitempty"`
	RelatedID   string       `json:"relatedId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}
