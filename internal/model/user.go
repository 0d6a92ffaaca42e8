package model

import (
	"time"
)

// User is the identity record. It carries no role.
type User struct {
	ID              string     `db:"id"`
	Email           string     `db:"email"`
	DisplayName     *string    `db:"display_name"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

// ProfileName is the name a freshly created profile gets: the display name
// when the provider supplied one, otherwise the email.
func (u *User) ProfileName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}
