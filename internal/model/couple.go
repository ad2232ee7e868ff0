package model

import "time"

// Couple links at most two users. Partner2ID stays empty until the second
// partner joins with the invite code.
type Couple struct {
	ID          string    `json:"id"`
	InviteCode  string    `json:"inviteCode"`
	Partner1ID  string    `json:"partner1Id"`
	Partner2ID  string    `json:"partner2Id,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	TotalPoints int       `json:"totalPoints"`
}

// Full reports whether both partner slots are filled.
func (c Couple) Full() bool {
	return c.Partner2ID != ""
}

func (c Couple) HasMember(userID string) bool {
	return userID != "" && (c.Partner1ID == userID || c.Partner2ID == userID)
}

// PartnerOf returns the id of the other member, or "" when userID is not a
// member or the second slot is still open.
func (c Couple) PartnerOf(userID string) string {
	switch userID {
	case "":
		return ""
	case c.Partner1ID:
		return c.Partner2ID
	case c.Partner2ID:
		return c.Partner1ID
	}
	return ""
}
