package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account known to the assistant. Accounts are created on first
// Google login; email is the identity key.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GoogleCredential is the stored OAuth token material for one user's
// calendar. One row per user; a re-login overwrites it.
type GoogleCredential struct {
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   *string    `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string     `db:"calendar_email" json:"calendar_email"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
