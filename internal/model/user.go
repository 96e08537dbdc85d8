package model

import "time"

// Role tags a user account and decides which routes it may reach.
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleLecturer Role = "LECTURER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// User represents a row of the `users` table. PasswordHash never leaves the
// service layer populated and is never serialized.
type User struct {
	ID           uint64    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Scrubbed returns a copy without the credential.
func (u User) Scrubbed() User {
	u.PasswordHash = ""
	return u
}

// RevokedToken models an entry in the `revoked_tokens` table. Tokens are
// identified by their jti; rows may be purged once ExpiresAt has passed.
type RevokedToken struct {
	JTI       string    `db:"jti"`
	UserID    uint64    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	RevokedAt time.Time `db:"revoked_at"`
}
