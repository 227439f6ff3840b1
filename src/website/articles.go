package website

import (
	"time"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/models"
)

type categoryJson struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type articleJson struct {
	ID          int     `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImageUrl"`

	// Raw markdown for the admin editor, rendered HTML for readers. Exactly
	// one of these is set per endpoint.
	Body     string `json:"body,omitempty"`
	BodyHtml string `json:"bodyHtml,omitempty"`

	Categories []categoryJson `json:"categories"`

	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func categoriesToJson(categories []*models.Category) []categoryJson {
	result := make([]categoryJson, len(categories))
	for i, category := range categories {
		result[i] = categoryJson{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
		}
	}
	return result
}

func publishedArticleToJson(c *RequestContext, article *models.PublishedArticle, renderBody bool) (articleJson, error) {
	categories, err := blog.FetchPublishedCategories(c, c.Conn, article.ID)
	if err != nil {
		return articleJson{}, err
	}

	result := articleJson{
		ID:          article.ID,
		Slug:        article.Slug,
		Title:       article.Title,
		Description: article.Description,
		CoverImage:  article.CoverImage,
		Categories:  categoriesToJson(categories),
		PublishedAt: &article.PublishedAt,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
	}
	if renderBody {
		result.BodyHtml = renderMarkdown(article.Body)
	} else {
		result.Body = article.Body
	}
	return result, nil
}

func draftToJson(c *RequestContext, draft *models.DraftArticle) (articleJson, error) {
	categories, err := blog.FetchDraftCategories(c, c.Conn, draft.ID)
	if err != nil {
		return articleJson{}, err
	}

	return articleJson{
		ID:          draft.ID,
		Slug:        draft.Slug,
		Title:       draft.Title,
		Description: draft.Description,
		CoverImage:  draft.CoverImage,
		Body:        draft.Body,
		Categories:  categoriesToJson(categories),
		CreatedAt:   draft.CreatedAt,
		UpdatedAt:   draft.UpdatedAt,
	}, nil
}

func PublishedArticleIndex(c *RequestContext) ResponseData {
	articles, err := blog.FetchPublishedArticles(c, c.Conn, time.Now().UTC())
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result := make([]articleJson, 0, len(articles))
	for _, article := range articles {
		// The index is for listing pages; omit bodies entirely.
		item, err := publishedArticleToJson(c, article, false)
		if err != nil {
			return c.ErrorsAsResponse(err)
		}
		item.Body = ""
		result = append(result, item)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func PublishedArticle(c *RequestContext) ResponseData {
	now := time.Now().UTC()

	// Old links may reference articles by numeric id; slugs never start with
	// a digit in practice, but check the id first regardless.
	var article *models.PublishedArticle
	var err error
	if id, ok := c.PathParamInt("idorslug"); ok {
		article, err = blog.FetchPublishedArticle(c, c.Conn, id, now)
	} else {
		article, err = blog.FetchPublishedArticleBySlug(c, c.Conn, c.PathParams["idorslug"], now)
	}
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result, err := publishedArticleToJson(c, article, true)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}
