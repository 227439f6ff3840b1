package blog

import (
	"context"
	"errors"
	"strings"

	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
)

// The category slug is always derived from the name; it is never supplied
// independently.
func SlugifyCategoryName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func FetchCategories(ctx context.Context, conn db.ConnOrTx) ([]*models.Category, error) {
	categories, err := db.Query[models.Category](ctx, conn,
		`
		SELECT $columns
		FROM categories
		ORDER BY name
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch categories")
	}
	return categories, nil
}

// Looks up a category by exact name, creating it if necessary. The lookup is
// case-sensitive; "Go" and "go" are two different categories.
func FindOrCreateCategoryByName(ctx context.Context, conn db.ConnOrTx, name string) (*models.Category, error) {
	category, err := db.QueryOne[models.Category](ctx, conn,
		`
		SELECT $columns
		FROM categories
		WHERE name = $1
		`,
		name,
	)
	if err == nil {
		return category, nil
	} else if !errors.Is(err, db.NotFound) {
		return nil, oops.New(err, "failed to look up category by name")
	}

	// The DO UPDATE arm exists so that RETURNING yields a row even when a
	// concurrent request created the category first. The name stays stable.
	category, err = db.QueryOne[models.Category](ctx, conn,
		`
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING $columns
		`,
		name,
		SlugifyCategoryName(name),
	)
	if err != nil {
		return nil, oops.New(err, "failed to create category")
	}
	return category, nil
}

/*
ReplaceDraftCategories and ReplacePublishedCategories swap out the full set of
join rows for one article. Delete-then-reinsert is deliberately dumb - category
sets per article are tiny, so diffing would buy nothing.
*/

func ReplaceDraftCategories(ctx context.Context, conn db.ConnOrTx, draftID int, categoryIDs []int) error {
	return replaceArticleCategories(ctx, conn, "draft_article_categories", draftID, categoryIDs)
}

func ReplacePublishedCategories(ctx context.Context, conn db.ConnOrTx, articleID int, categoryIDs []int) error {
	return replaceArticleCategories(ctx, conn, "published_article_categories", articleID, categoryIDs)
}

func replaceArticleCategories(ctx context.Context, conn db.ConnOrTx, table string, articleID int, categoryIDs []int) error {
	_, err := conn.Exec(ctx,
		`DELETE FROM `+table+` WHERE article_id = $1`,
		articleID,
	)
	if err != nil {
		return oops.New(err, "failed to clear article categories")
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	_, err = conn.Exec(ctx,
		`
		INSERT INTO `+table+` (article_id, category_id)
		SELECT $1, unnest($2::int[])
		`,
		articleID,
		categoryIDs,
	)
	if err != nil {
		return oops.New(err, "failed to insert article categories")
	}
	return nil
}

func FetchDraftCategories(ctx context.Context, conn db.ConnOrTx, draftID int) ([]*models.Category, error) {
	return fetchArticleCategories(ctx, conn, "draft_article_categories", draftID)
}

func FetchPublishedCategories(ctx context.Context, conn db.ConnOrTx, articleID int) ([]*models.Category, error) {
	return fetchArticleCategories(ctx, conn, "published_article_categories", articleID)
}

func fetchArticleCategories(ctx context.Context, conn db.ConnOrTx, table string, articleID int) ([]*models.Category, error) {
	categories, err := db.Query[models.Category](ctx, conn,
		`
		SELECT $columns{c}
		FROM categories AS c
		JOIN `+table+` AS ac ON ac.category_id = c.id
		WHERE ac.article_id = $1
		ORDER BY c.name
		`,
		articleID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch article categories")
	}
	return categories, nil
}
