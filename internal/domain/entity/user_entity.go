package entity

import (
	"time"
)

// PasswordChangeSkew backdates PasswordChangedAt so that a token issued in the
// same second as the password change is not rejected as stale.
const PasswordChangeSkew = time.Second

// User is the aggregate root for the credential domain.
// PasswordHash holds a bcrypt hash and is only populated when a repository
// is explicitly asked for it.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Profile is the public view of a user. It never carries credential material.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// SetPassword replaces the stored hash. For users that already exist it also
// stamps PasswordChangedAt, which invalidates every token issued before now.
// Initial creation leaves PasswordChangedAt unset.
func (u *User) SetPassword(hash string, now time.Time) {
	u.PasswordHash = hash
	if u.ID == "" {
		return
	}
	changed := now.Add(-PasswordChangeSkew)
	u.PasswordChangedAt = &changed
}

// PasswordChangedAfter reports whether the password was changed at or after
// issuedAt. Both instants are compared at second resolution, the resolution of
// JWT NumericDate claims.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() >= issuedAt.Unix()
}

// Sanitized returns a copy of the user without the password hash.
func (u *User) Sanitized() *User {
	cp := *u
	cp.PasswordHash = ""
	return &cp
}
