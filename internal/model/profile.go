package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Toggled returns the role an admin action flips to.
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

// Profile is the application-side user record. UserID references the identity
// and never changes after creation.
type Profile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	FullName  string    `db:"full_name"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsAdmin is the only authorization check used by admin operations.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Profile) DisplayName() string {
	if p.FullName == "" {
		return "Unnamed user"
	}
	return p.FullName
}
