package engine

import (
	"errors"
	"fmt"
)

// ErrRejected is wrapped by every error that reports an unmet precondition.
// Nothing is written when an operation returns one of these.
var ErrRejected = errors.New("rejected")

var (
	ErrInvalidInput       = rejected("invalid input")
	ErrEmailTaken         = rejected("email already registered")
	ErrInvalidCredentials = rejected("invalid email or password")
	ErrNotLoggedIn        = rejected("no user logged in")
	ErrNotLinked          = rejected("user is not part of a couple")
	ErrAlreadyLinked      = rejected("user is already part of a couple")
	ErrInviteNotFound     = rejected("invite code not found")
	ErrCoupleFull         = rejected("couple already has two partners")
	ErrOwnUserCode        = rejected("cannot link with own user code")
	ErrUserCodeNotFound   = rejected("user code not found")
	ErrPartnerLinked      = rejected("partner is already part of a couple")
	ErrInvalidAssignee    = rejected("assignee is not a member of the couple")
	ErrNotAssignee        = rejected("task is assigned to someone else")
	ErrTaskCompleted      = rejected("task already completed")
	ErrOwnReward          = rejected("cannot decide own reward suggestion")
	ErrRewardDecided      = rejected("reward already decided")
	ErrRewardNotApproved  = rejected("reward is not approved")
	ErrInsufficientPoints = rejected("not enough points")
	ErrNotSuggester       = rejected("only the suggester may delete a reward")
	ErrVoucherUsed        = rejected("voucher already used")
)

func rejected(msg string) error {
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

// IsRejected reports whether err is a domain rejection rather than a
// storage failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
