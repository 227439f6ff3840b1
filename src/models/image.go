package models

import (
	"time"

	"github.com/google/uuid"
)

// Image metadata. The bytes themselves live in object storage; articles
// reference images by URL in their bodies and cover fields, not by foreign
// key, so images have a fully independent lifecycle.
type Image struct {
	ID uuid.UUID `db:"id"`

	Filename    string `db:"filename"`
	StoragePath string `db:"storage_path"`
	MimeType    string `db:"mime_type"`
	Size        int64  `db:"size"`

	Width   *int    `db:"width"`
	Height  *int    `db:"height"`
	AltText *string `db:"alt_text"`

	CreatedAt time.Time `db:"created_at"`
}
