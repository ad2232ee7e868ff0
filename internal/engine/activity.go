package engine

import (
	"fmt"

	"github.com/dukerupert/nosso/internal/code"
	"github.com/dukerupert/nosso/internal/model"
)

// logActivity appends a feed entry for actor. description is final; it is
// never re-rendered.
func (e *Engine) logActivity(ds *model.Dataset, typ model.ActivityType, actor *model.User, coupleID, relatedID, description string, points *int) {
	ds.Activities = append(ds.Activities, model.Activity{
		ID:          code.NewID(),
		Type:        typ,
		UserID:      actor.ID,
		CoupleID:    coupleID,
		Description: description,
		Points:      points,
		RelatedID:   relatedID,
		CreatedAt:   e.now(),
	})
}

func describe(typ model.ActivityType, actor, title string) string {
	switch typ {
	case model.ActivityPartnerJoined:
		return fmt.Sprintf("%s entrou no casal! 💕", actor)
	case model.ActivityTaskCompleted:
		return fmt.Sprintf("%s completou \"%s\" 🎉", actor, title)
	case model.ActivityRewardSuggested:
		return fmt.Sprintf("%s sugeriu a recompensa \"%s\" 🎁", actor, title)
	case model.ActivityRewardApproved:
		return fmt.Sprintf("%s aprovou \"%s\" ✅", actor, title)
	case model.ActivityVoucherRedeemed:
		return fmt.Sprintf("%s resgatou \"%s\" 🎉", actor, title)
	case model.ActivityVoucherUsed:
		return fmt.Sprintf("%s usou o vale \"%s\" 💕", actor, title)
	}
	return actor
}

func intPtr(n int) *int {
	return &n
}
