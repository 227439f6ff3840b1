package feed

import (
	"context"
	"fmt"
	"time"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/models"
)

// BlogFetcher serves the primary source: our own database.
type BlogFetcher struct {
	Conn db.ConnOrTx

	// Now exists so tests can pin the clock; zero means time.Now.
	Now time.Time

	// IncludeScheduled leaks future-dated articles into the feed. Only the
	// local preview mode sets this.
	IncludeScheduled bool
}

func (f *BlogFetcher) FetchArticles(ctx context.Context) ([]HomeArticle, error) {
	now := f.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var articles []*models.PublishedArticle
	var err error
	if f.IncludeScheduled {
		articles, err = blog.FetchPublishedArticlesForAdmin(ctx, f.Conn)
	} else {
		articles, err = blog.FetchPublishedArticles(ctx, f.Conn, now)
	}
	if err != nil {
		return nil, err
	}

	var result []HomeArticle
	for _, article := range articles {
		categories, err := blog.FetchPublishedCategories(ctx, f.Conn, article.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, MapBlogArticle(article, categories))
	}
	return result, nil
}

func MapBlogArticle(article *models.PublishedArticle, categories []*models.Category) HomeArticle {
	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.Name
	}

	thumbnail := ""
	if article.CoverImage != nil {
		thumbnail = *article.CoverImage
	}

	return HomeArticle{
		Title:        article.Title,
		ThumbnailUrl: thumbnail,
		Link:         fmt.Sprintf("/articles/%s", article.Slug),
		Categories:   names,
		PublishedAt:  article.PublishedAt,
		Source:       SourceBlog,
	}
}
