package user

import "time"

type Preferences struct {
	Notifications bool   `json:"notifications"`
	Theme         string `json:"theme"`
}

// Profile is stored as a JSON document alongside the account.
type Profile struct {
	Avatar      *string     `json:"avatar"`
	Preferences Preferences `json:"preferences"`
}

// User represents a registered rider
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Gender       string
	PasswordHash string
	TotalRides   int
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func DefaultProfile() Profile {
	return Profile{
		Avatar: nil,
		Preferences: Preferences{
			Notifications: true,
			Theme:         "auto",
		},
	}
}
