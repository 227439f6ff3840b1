package blog

import (
	"context"

	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
)

// Fields an author can edit on a draft. Drafts accept anything, including
// blank titles and slugs; validation happens at publish time.
type DraftInput struct {
	Slug        string
	Title       string
	Body        string
	Description *string
	CoverImage  *string
}

func FetchDrafts(ctx context.Context, conn db.ConnOrTx) ([]*models.DraftArticle, error) {
	drafts, err := db.Query[models.DraftArticle](ctx, conn,
		`
		SELECT $columns
		FROM draft_articles
		ORDER BY updated_at DESC
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch drafts")
	}
	return drafts, nil
}

// Returns db.NotFound if no draft has that id.
func FetchDraft(ctx context.Context, conn db.ConnOrTx, id int) (*models.DraftArticle, error) {
	return db.QueryOne[models.DraftArticle](ctx, conn,
		`
		SELECT $columns
		FROM draft_articles
		WHERE id = $1
		`,
		id,
	)
}

func CreateDraft(ctx context.Context, conn db.ConnOrTx, in DraftInput) (*models.DraftArticle, error) {
	draft, err := db.QueryOne[models.DraftArticle](ctx, conn,
		`
		INSERT INTO draft_articles (slug, title, body, description, cover_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING $columns
		`,
		in.Slug, in.Title, in.Body, in.Description, in.CoverImage,
	)
	if err != nil {
		return nil, oops.New(err, "failed to create draft")
	}
	return draft, nil
}

func UpdateDraft(ctx context.Context, conn db.ConnOrTx, id int, in DraftInput) (*models.DraftArticle, error) {
	draft, err := db.QueryOne[models.DraftArticle](ctx, conn,
		`
		UPDATE draft_articles
		SET
			slug = $2,
			title = $3,
			body = $4,
			description = $5,
			cover_image_url = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING $columns
		`,
		id, in.Slug, in.Title, in.Body, in.Description, in.CoverImage,
	)
	if err != nil {
		// db.NotFound when the draft doesn't exist
		return nil, err
	}
	return draft, nil
}

// Upserts a draft under a known id. The admin editor autosaves with this so
// that "save" works the same whether or not the row exists yet.
func SaveDraft(ctx context.Context, conn db.ConnOrTx, id int, in DraftInput) (*models.DraftArticle, error) {
	draft, err := db.QueryOne[models.DraftArticle](ctx, conn,
		`
		INSERT INTO draft_articles (id, slug, title, body, description, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			body = excluded.body,
			description = excluded.description,
			cover_image_url = excluded.cover_image_url,
			updated_at = CURRENT_TIMESTAMP
		RETURNING $columns
		`,
		id, in.Slug, in.Title, in.Body, in.Description, in.CoverImage,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save draft")
	}

	// The id came from the client, not from the serial sequence. Keep the
	// sequence ahead of it or a later CreateDraft would collide with an
	// autosaved row.
	_, err = conn.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('draft_articles', 'id'), (SELECT MAX(id) FROM draft_articles))`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to advance draft id sequence")
	}

	return draft, nil
}

func DeleteDraft(ctx context.Context, conn db.ConnOrTx, id int) error {
	tag, err := conn.Exec(ctx,
		`DELETE FROM draft_articles WHERE id = $1`,
		id,
	)
	if err != nil {
		return oops.New(err, "failed to delete draft")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}
