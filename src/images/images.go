package images

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// 10 MiB. Anything bigger has no business on a blog page.
const MaxImageSize = 10 << 20

var AllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// Something that can delete objects from the remote store. storage.Client
// implements this; tests substitute their own.
type Remote interface {
	DeleteObject(ctx context.Context, key string) error
}

type CreateInput struct {
	Filename    string
	StoragePath string
	MimeType    string
	Size        int64

	// Optional
	Width   *int
	Height  *int
	AltText *string
}

var reIllegalFilenameChars = regexp.MustCompile(`[^\w\-.]`)

func SanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return reIllegalFilenameChars.ReplaceAllString(filename, "_")
}

// StoragePath builds the object key for a new upload. The UUIDv7 in the
// middle is time-ordered and unique, so the same filename can be uploaded
// over and over without ever colliding.
func StoragePath(prefix string, filename string) string {
	key := fmt.Sprintf("images/%s/%s", uuid.Must(uuid.NewV7()), SanitizeFilename(filename))
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func ValidateUpload(mimeType string, size int64) error {
	allowed := make([]interface{}, len(AllowedMimeTypes))
	for i, m := range AllowedMimeTypes {
		allowed[i] = m
	}

	err := validation.Errors{
		"mime_type": validation.Validate(mimeType,
			validation.Required.Error("mime type must be provided"),
			validation.In(allowed...).Error("mime type is not allowed"),
		),
		"size": validation.Validate(size,
			// Required must come first: threshold rules treat zero as "empty"
			// and skip it, so Min alone would let a zero-byte upload through.
			validation.Required.Error("size must be greater than zero"),
			validation.Min(int64(1)).Error("size must be greater than zero"),
			validation.Max(int64(MaxImageSize)).Error("image is too large"),
		),
	}.Filter()
	if err != nil {
		return blog.ValidationError{Message: err.Error()}
	}
	return nil
}

func FetchAll(ctx context.Context, conn db.ConnOrTx) ([]*models.Image, error) {
	images, err := db.Query[models.Image](ctx, conn,
		`
		SELECT $columns
		FROM images
		ORDER BY created_at DESC
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch images")
	}
	return images, nil
}

// Returns db.NotFound if no image has that id.
func Fetch(ctx context.Context, conn db.ConnOrTx, id uuid.UUID) (*models.Image, error) {
	return db.QueryOne[models.Image](ctx, conn,
		`
		SELECT $columns
		FROM images
		WHERE id = $1
		`,
		id,
	)
}

// Create registers metadata for an object that was already uploaded via a
// signed URL. The storage path is the uniqueness key; registering the same
// path twice is rejected.
func Create(ctx context.Context, conn db.ConnOrTx, in CreateInput) (*models.Image, error) {
	if err := ValidateUpload(in.MimeType, in.Size); err != nil {
		return nil, err
	}

	exists, err := db.QueryOneScalar[bool](ctx, conn,
		`
		SELECT COUNT(*) > 0
		FROM images
		WHERE storage_path = $1
		`,
		in.StoragePath,
	)
	if err != nil {
		return nil, oops.New(err, "failed to check storage path uniqueness")
	}
	if exists {
		return nil, blog.ValidationError{Message: fmt.Sprintf("an image is already registered at %q", in.StoragePath)}
	}

	image, err := db.QueryOne[models.Image](ctx, conn,
		`
		INSERT INTO images (id, filename, storage_path, mime_type, size, width, height, alt_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING $columns
		`,
		uuid.Must(uuid.NewV7()),
		SanitizeFilename(in.Filename),
		in.StoragePath,
		in.MimeType,
		in.Size,
		in.Width,
		in.Height,
		in.AltText,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save image record")
	}
	return image, nil
}

/*
Delete removes the remote object first and the database row second. The
remote delete is best-effort: an object that is already gone is fine, and any
other storage failure gets logged but never blocks removing our metadata. An
orphaned object in the bucket is cheaper than a dangling database row pointing
at nothing.
*/
func Delete(ctx context.Context, conn db.ConnOrTx, remote Remote, id uuid.UUID) error {
	image, err := Fetch(ctx, conn, id)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return err
		}
		return oops.New(err, "failed to fetch image for deletion")
	}

	if err := remote.DeleteObject(ctx, image.StoragePath); err != nil {
		logging.ExtractLogger(ctx).Error().
			Err(err).
			Str("storage_path", image.StoragePath).
			Msg("failed to delete remote object; continuing with metadata deletion")
	}

	_, err = conn.Exec(ctx,
		`DELETE FROM images WHERE id = $1`,
		id,
	)
	if err != nil {
		return oops.New(err, "failed to delete image record")
	}
	return nil
}
