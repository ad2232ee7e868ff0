package model

import "time"

type Color string

const (
	ColorGreen  Color = "green"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorBlue   Color = "blue"
	ColorOrange Color = "orange"
)

// Valid reports whether c is one of the fixed profile colors.
func (c Color) Valid() bool {
	switch c {
	case ColorGreen, ColorPink, ColorPurple, ColorBlue, ColorOrange:
		return true
	}
	return false
}

// User is a registered account. Password is stored and compared verbatim.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Avatar    string    `json:"avatar,omitempty"`
	Color     Color     `json:"color"`
	Points    int       `json:"points"`
	CoupleID  string    `json:"coupleId,omitempty"`
	UserCode  string    `json:"userCode"`
	CreatedAt time.Time `json:"createdAt"`
}
