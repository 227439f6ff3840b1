package blog

import (
	"context"
	"os"
	"testing"
	"time"

	"git.shiro.blog/shiro/shiro/src/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a migrated Postgres database. Point SHIRO_TEST_DSN at one
// (it will be truncated!) or they will be skipped.
func testConn(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("SHIRO_TEST_DSN")
	if dsn == "" {
		t.Skip("set SHIRO_TEST_DSN to run database tests")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(),
		`
		TRUNCATE draft_articles, published_articles, categories,
			draft_article_categories, published_article_categories, images
		RESTART IDENTITY CASCADE
		`,
	)
	require.NoError(t, err)

	return pool
}

func TestPublishDraft(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()
	now := time.Now().UTC()

	draft, err := CreateDraft(ctx, conn, DraftInput{
		Slug:  "my-post",
		Title: "My Post",
		Body:  "# Hi",
	})
	require.NoError(t, err)

	golang, err := FindOrCreateCategoryByName(ctx, conn, "Go")
	require.NoError(t, err)
	require.NoError(t, ReplaceDraftCategories(ctx, conn, draft.ID, []int{golang.ID}))

	published, err := PublishDraft(ctx, conn, draft.ID, now)
	require.NoError(t, err)
	assert.Equal(t, "my-post", published.Slug)
	assert.Equal(t, "My Post", published.Title)
	assert.Equal(t, "# Hi", published.Body)

	// Categories came along for the ride.
	categories, err := FetchPublishedCategories(ctx, conn, published.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Go", categories[0].Name)

	// The draft is gone.
	_, err = FetchDraft(ctx, conn, draft.ID)
	assert.ErrorIs(t, err, db.NotFound)
}

func TestPublishDraftSlugCollision(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := CreateDraft(ctx, conn, DraftInput{Slug: "taken", Title: "First", Body: "a"})
	require.NoError(t, err)
	_, err = PublishDraft(ctx, conn, first.ID, now)
	require.NoError(t, err)

	second, err := CreateDraft(ctx, conn, DraftInput{Slug: "taken", Title: "Second", Body: "b"})
	require.NoError(t, err)

	_, err = PublishDraft(ctx, conn, second.ID, now)
	assert.ErrorAs(t, err, &ValidationError{})

	// The losing draft must remain intact.
	kept, err := FetchDraft(ctx, conn, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", kept.Title)
}

func TestPublishDraftBlankSlug(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	draft, err := CreateDraft(ctx, conn, DraftInput{Slug: "   ", Title: "Has Title", Body: "a"})
	require.NoError(t, err)

	_, err = PublishDraft(ctx, conn, draft.ID, time.Now().UTC())
	assert.ErrorAs(t, err, &ValidationError{})
}

func TestPublishDraftNotFound(t *testing.T) {
	conn := testConn(t)

	_, err := PublishDraft(context.Background(), conn, 999999, time.Now().UTC())
	assert.ErrorIs(t, err, db.NotFound)
}

func TestScheduledArticleVisibility(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()
	now := time.Now().UTC()

	draft, err := CreateDraft(ctx, conn, DraftInput{Slug: "future", Title: "From The Future", Body: "a"})
	require.NoError(t, err)
	published, err := PublishDraft(ctx, conn, draft.ID, now.Add(24*time.Hour))
	require.NoError(t, err)

	visible, err := FetchPublishedArticles(ctx, conn, now)
	require.NoError(t, err)
	assert.Empty(t, visible)

	_, err = FetchPublishedArticle(ctx, conn, published.ID, now)
	assert.ErrorIs(t, err, db.NotFound)

	// Admins see through the time filter.
	forAdmin, err := FetchPublishedArticleForAdmin(ctx, conn, published.ID)
	require.NoError(t, err)
	assert.Equal(t, "future", forAdmin.Slug)

	// And once time catches up, everyone does.
	visible, err = FetchPublishedArticles(ctx, conn, now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestUpdatePublishedArticleSlugCollision(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a, err := CreateDraft(ctx, conn, DraftInput{Slug: "article-a", Title: "A", Body: "a"})
	require.NoError(t, err)
	publishedA, err := PublishDraft(ctx, conn, a.ID, now)
	require.NoError(t, err)

	b, err := CreateDraft(ctx, conn, DraftInput{Slug: "article-b", Title: "B", Body: "b"})
	require.NoError(t, err)
	publishedB, err := PublishDraft(ctx, conn, b.ID, now)
	require.NoError(t, err)

	// Stealing A's slug fails...
	_, err = UpdatePublishedArticle(ctx, conn, publishedB.ID, PublishedArticleInput{
		Slug: "article-a", Title: "B", Body: "b",
	})
	assert.ErrorAs(t, err, &ValidationError{})

	// ...but updating an article while keeping its own slug is fine.
	updated, err := UpdatePublishedArticle(ctx, conn, publishedB.ID, PublishedArticleInput{
		Slug: "article-b", Title: "B, revised", Body: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, "B, revised", updated.Title)
	assert.Equal(t, publishedA.Slug, "article-a")
}

func TestReplaceDraftCategoriesEmptyList(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	draft, err := CreateDraft(ctx, conn, DraftInput{Slug: "cats", Title: "Cats", Body: "a"})
	require.NoError(t, err)

	golang, err := FindOrCreateCategoryByName(ctx, conn, "Go")
	require.NoError(t, err)
	require.NoError(t, ReplaceDraftCategories(ctx, conn, draft.ID, []int{golang.ID}))

	// An empty id list clears all links.
	require.NoError(t, ReplaceDraftCategories(ctx, conn, draft.ID, nil))
	categories, err := FetchDraftCategories(ctx, conn, draft.ID)
	require.NoError(t, err)
	assert.Empty(t, categories)

	// And doing it again on an already-empty set is a no-op.
	require.NoError(t, ReplaceDraftCategories(ctx, conn, draft.ID, nil))
}

func TestFindOrCreateCategoryByName(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	first, err := FindOrCreateCategoryByName(ctx, conn, "Web Development")
	require.NoError(t, err)
	assert.Equal(t, "web-development", first.Slug)

	again, err := FindOrCreateCategoryByName(ctx, conn, "Web Development")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// Case matters.
	lower, err := FindOrCreateCategoryByName(ctx, conn, "web development")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, lower.ID)
}

func TestSaveDraftUpsert(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	// Saving under an id that doesn't exist yet creates the row.
	draft, err := SaveDraft(ctx, conn, 7, DraftInput{Slug: "autosaved", Title: "Autosaved"})
	require.NoError(t, err)
	assert.Equal(t, 7, draft.ID)
	assert.Equal(t, "Autosaved", draft.Title)

	// Saving again under the same id updates in place.
	draft, err = SaveDraft(ctx, conn, 7, DraftInput{Slug: "autosaved", Title: "Autosaved v2"})
	require.NoError(t, err)
	assert.Equal(t, "Autosaved v2", draft.Title)

	drafts, err := FetchDrafts(ctx, conn)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	// The sequence must have moved past the autosaved id, so a plain create
	// cannot collide with it.
	created, err := CreateDraft(ctx, conn, DraftInput{Slug: "fresh", Title: "Fresh"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, draft.ID)
}
