package models

import "time"

type User struct {
	ID int `db:"id"`

	Provider       string `db:"provider"`
	ProviderUserID string `db:"provider_user_id"`

	Name      string  `db:"name"`
	Email     *string `db:"email"`
	AvatarUrl *string `db:"avatar_url"`

	IsAdmin bool `db:"is_admin"`

	CreatedAt time.Time `db:"created_at"`
}
