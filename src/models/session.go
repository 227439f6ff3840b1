package models

import "time"

type Session struct {
	ID        string    `db:"id"`
	UserID    int       `db:"user_id"`
	CSRFToken string    `db:"csrf_token"`
	ExpiresAt time.Time `db:"expires_at"`
}

// A login that has been redirected to the OAuth provider but has not come
// back yet. The id round-trips as the OAuth state parameter.
type PendingLogin struct {
	ID        string    `db:"id"`
	ExpiresAt time.Time `db:"expires_at"`
}
