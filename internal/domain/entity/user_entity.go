package entity

import (
	"strings"
	"time"
)

// DefaultProfileImage is used until a user uploads an avatar.
const DefaultProfileImage = "default.jpg"

// User is the aggregate root for the identity domain.
// Password holds the bcrypt hash, never the plain text.
type User struct {
	ID           int64
	Username     string
	Email        string
	Password     string
	Nickname     string
	Bio          string
	ProfileImage string
	CreatedAt    time.Time
}

// DisplayName returns the nickname, falling back to the username.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Nickname) == "" {
		return u.Username
	}
	return u.Nickname
}

// UserSummary is the public subset of a user embedded in feed items,
// notifications and follow lists.
type UserSummary struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		Nickname:     u.DisplayName(),
		ProfileImage: u.ProfileImage,
	}
}
