package model

import "time"

type RewardStatus string

const (
	RewardPending  RewardStatus = "pending"
	RewardApproved RewardStatus = "approved"
	RewardRejected RewardStatus = "rejected"
)

// Reward is suggested by one partner and decided once by the other.
type Reward struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Points      int          `json:"points"`
	SuggestedBy string       `json:"suggestedBy"`
	ApprovedBy  string       `json:"approvedBy,omitempty"`
	Status      RewardStatus `json:"status"`
	CoupleID    string       `json:"coupleId"`
	Image       string       `json:"image,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	ApprovedAt  *time.Time   `json:"approvedAt,omitempty"`
}
