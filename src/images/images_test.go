package images

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "unnamed", SanitizeFilename(""))
	assert.Equal(t, "cool_filename.txt", SanitizeFilename("cool filename.txt"))
	// Each illegal rune becomes exactly one underscore.
	assert.Equal(t, "_hi_doggy_", SanitizeFilename("😍hi doggy🐶"))
	assert.Equal(t, "newlines_are_totally_legal", SanitizeFilename("newlines\nare\ntotally\nlegal"))
}

func TestStoragePath(t *testing.T) {
	path := StoragePath("blog", "photo.png")
	parts := strings.Split(path, "/")
	require.Len(t, parts, 4)
	assert.Equal(t, "blog", parts[0])
	assert.Equal(t, "images", parts[1])
	assert.Equal(t, "photo.png", parts[3])

	// No leading slash when there is no prefix.
	assert.True(t, strings.HasPrefix(StoragePath("", "photo.png"), "images/"))

	// Repeated filenames never collide.
	assert.NotEqual(t, StoragePath("blog", "photo.png"), StoragePath("blog", "photo.png"))
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/png", 1024))
	assert.NoError(t, ValidateUpload("image/webp", MaxImageSize))

	bad := []struct {
		mimeType string
		size     int64
	}{
		{"image/png", 0},
		{"image/png", -5},
		{"image/png", MaxImageSize + 1},
		{"application/pdf", 1024},
		{"", 1024},
	}
	for _, test := range bad {
		err := ValidateUpload(test.mimeType, test.size)
		assert.ErrorAs(t, err, &blog.ValidationError{}, "mime=%q size=%d", test.mimeType, test.size)
	}
}

// See blog/lifecycle_test.go; database tests run only with SHIRO_TEST_DSN set.
func testConn(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("SHIRO_TEST_DSN")
	if dsn == "" {
		t.Skip("set SHIRO_TEST_DSN to run database tests")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE images CASCADE`)
	require.NoError(t, err)

	return pool
}

type fakeRemote struct {
	err     error
	deleted []string
}

func (r *fakeRemote) DeleteObject(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return r.err
}

func TestCreateDuplicatePath(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	in := CreateInput{
		Filename:    "photo.png",
		StoragePath: "blog/images/fixed/photo.png",
		MimeType:    "image/png",
		Size:        1024,
	}
	_, err := Create(ctx, conn, in)
	require.NoError(t, err)

	_, err = Create(ctx, conn, in)
	assert.ErrorAs(t, err, &blog.ValidationError{})

	all, err := FetchAll(ctx, conn)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteProceedsWhenRemoteFails(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	image, err := Create(ctx, conn, CreateInput{
		Filename:    "photo.png",
		StoragePath: StoragePath("blog", "photo.png"),
		MimeType:    "image/png",
		Size:        1024,
	})
	require.NoError(t, err)

	remote := &fakeRemote{err: errors.New("storage is on fire")}
	require.NoError(t, Delete(ctx, conn, remote, image.ID))
	assert.Equal(t, []string{image.StoragePath}, remote.deleted)

	_, err = Fetch(ctx, conn, image.ID)
	assert.ErrorIs(t, err, db.NotFound)
}
