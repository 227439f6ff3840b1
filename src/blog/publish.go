package blog

import (
	"context"
	"time"

	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
)

/*
PublishDraft moves a draft into the published side of the world. The published
article gets a brand-new id; after this the draft is gone and the two records
have nothing to do with each other.

The steps run in order against the same connection with no wrapping
transaction: insert the published row, copy the category links, delete the
draft. If a later step fails, the earlier ones stay - the worst case is a
published article whose draft still exists, which an operator can see and
clean up by hand.
*/
func PublishDraft(ctx context.Context, conn db.ConnOrTx, draftID int, now time.Time) (*models.PublishedArticle, error) {
	draft, err := FetchDraft(ctx, conn, draftID)
	if err != nil {
		// db.NotFound when the draft doesn't exist
		return nil, err
	}

	slug, err := NewPublishedArticleSlug(draft.Slug)
	if err != nil {
		return nil, err
	}
	title, err := NewPublishedArticleTitle(draft.Title)
	if err != nil {
		return nil, err
	}

	// Slug collisions are checked against every published article, even
	// future-dated ones. Titles may repeat; only the slug is constrained.
	taken, err := db.QueryOneScalar[bool](ctx, conn,
		`
		SELECT COUNT(*) > 0
		FROM published_articles
		WHERE slug = $1
		`,
		slug.String(),
	)
	if err != nil {
		return nil, oops.New(err, "failed to check slug availability")
	}
	if taken {
		return nil, validationErrorf("an article with slug %q is already published", slug.String())
	}

	published, err := db.QueryOne[models.PublishedArticle](ctx, conn,
		`
		INSERT INTO published_articles (slug, title, body, description, cover_image_url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING $columns
		`,
		slug.String(), title.String(), draft.Body, draft.Description, draft.CoverImage, now,
	)
	if err != nil {
		return nil, oops.New(err, "failed to insert published article")
	}

	_, err = conn.Exec(ctx,
		`
		INSERT INTO published_article_categories (article_id, category_id)
		SELECT $1, category_id
		FROM draft_article_categories
		WHERE article_id = $2
		`,
		published.ID, draft.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to copy categories to published article")
	}

	_, err = conn.Exec(ctx,
		`DELETE FROM draft_articles WHERE id = $1`,
		draft.ID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to delete draft after publishing")
	}

	return published, nil
}
