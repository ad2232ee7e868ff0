package model

import "time"

type VoucherStatus string

const (
	VoucherActive VoucherStatus = "active"
	VoucherUsed   VoucherStatus = "used"
)

// Voucher is a redeemed claim on a reward. Title and Description are copied
// from the reward at redemption time.
type Voucher struct {
	ID           string        `json:"id"`
	RewardID     string        `json:"rewardId"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	RedeemedBy   string        `json:"redeemedBy"`
	RedeemedFrom string        `json:"redeemedFrom"`
	CoupleID     string        `json:"coupleId"`
	Status       VoucherStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UsedAt       *time.Time    `json:"usedAt,omitempty"`
}
