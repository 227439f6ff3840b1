package blog

import (
	"context"
	"time"

	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
)

type PublishedArticleInput struct {
	Slug        string
	Title       string
	Body        string
	Description *string
	CoverImage  *string
	PublishedAt *time.Time // nil means leave as-is
}

/*
Public fetches take an explicit "now" and exclude articles whose published_at
is still in the future. Setting published_at ahead of time is our whole
scheduling mechanic - visibility is computed at read time, so there is no cron
job to run or miss.
*/

func FetchPublishedArticles(ctx context.Context, conn db.ConnOrTx, now time.Time) ([]*models.PublishedArticle, error) {
	articles, err := db.Query[models.PublishedArticle](ctx, conn,
		`
		SELECT $columns
		FROM published_articles
		WHERE published_at <= $1
		ORDER BY published_at DESC
		`,
		now,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch published articles")
	}
	return articles, nil
}

func FetchPublishedArticle(ctx context.Context, conn db.ConnOrTx, id int, now time.Time) (*models.PublishedArticle, error) {
	return db.QueryOne[models.PublishedArticle](ctx, conn,
		`
		SELECT $columns
		FROM published_articles
		WHERE id = $1 AND published_at <= $2
		`,
		id, now,
	)
}

func FetchPublishedArticleBySlug(ctx context.Context, conn db.ConnOrTx, slug string, now time.Time) (*models.PublishedArticle, error) {
	return db.QueryOne[models.PublishedArticle](ctx, conn,
		`
		SELECT $columns
		FROM published_articles
		WHERE slug = $1 AND published_at <= $2
		`,
		slug, now,
	)
}

// Admin fetches skip the time filter so future-dated articles show up.

func FetchPublishedArticlesForAdmin(ctx context.Context, conn db.ConnOrTx) ([]*models.PublishedArticle, error) {
	articles, err := db.Query[models.PublishedArticle](ctx, conn,
		`
		SELECT $columns
		FROM published_articles
		ORDER BY published_at DESC
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch published articles")
	}
	return articles, nil
}

func FetchPublishedArticleForAdmin(ctx context.Context, conn db.ConnOrTx, id int) (*models.PublishedArticle, error) {
	return db.QueryOne[models.PublishedArticle](ctx, conn,
		`
		SELECT $columns
		FROM published_articles
		WHERE id = $1
		`,
		id,
	)
}

func UpdatePublishedArticle(ctx context.Context, conn db.ConnOrTx, id int, in PublishedArticleInput) (*models.PublishedArticle, error) {
	slug, err := NewPublishedArticleSlug(in.Slug)
	if err != nil {
		return nil, err
	}
	title, err := NewPublishedArticleTitle(in.Title)
	if err != nil {
		return nil, err
	}

	// Exclude the article itself from the uniqueness check, or it could never
	// be updated without changing its slug.
	taken, err := db.QueryOneScalar[bool](ctx, conn,
		`
		SELECT COUNT(*) > 0
		FROM published_articles
		WHERE slug = $1 AND id <> $2
		`,
		slug.String(), id,
	)
	if err != nil {
		return nil, oops.New(err, "failed to check slug availability")
	}
	if taken {
		return nil, validationErrorf("an article with slug %q is already published", slug.String())
	}

	article, err := db.QueryOne[models.PublishedArticle](ctx, conn,
		`
		UPDATE published_articles
		SET
			slug = $2,
			title = $3,
			body = $4,
			description = $5,
			cover_image_url = $6,
			published_at = COALESCE($7, published_at),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING $columns
		`,
		id, slug.String(), title.String(), in.Body, in.Description, in.CoverImage, in.PublishedAt,
	)
	if err != nil {
		// db.NotFound when the article doesn't exist
		return nil, err
	}
	return article, nil
}

func DeletePublishedArticle(ctx context.Context, conn db.ConnOrTx, id int) error {
	tag, err := conn.Exec(ctx,
		`DELETE FROM published_articles WHERE id = $1`,
		id,
	)
	if err != nil {
		return oops.New(err, "failed to delete published article")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}
