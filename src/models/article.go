package models

import "time"

// A draft is freely editable and may be incomplete. Publishing copies it into
// a new PublishedArticle row and deletes the draft; the two records do not
// share an id.
type DraftArticle struct {
	ID int `db:"id"`

	Slug        string  `db:"slug"`
	Title       string  `db:"title"`
	Body        string  `db:"body"` // markdown
	Description *string `db:"description"`
	CoverImage  *string `db:"cover_image_url"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type PublishedArticle struct {
	ID int `db:"id"`

	Slug        string  `db:"slug"`
	Title       string  `db:"title"`
	Body        string  `db:"body"` // markdown
	Description *string `db:"description"`
	CoverImage  *string `db:"cover_image_url"`

	// May be in the future. Public queries filter on it at read time, which
	// gives us scheduled publishing without a background scheduler.
	PublishedAt time.Time `db:"published_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
