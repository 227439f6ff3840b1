package website

import (
	"fmt"
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/cdn"
)

type meJson struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	AvatarUrl *string `json:"avatarUrl"`

	// The admin SPA echoes this back in the X-CSRF-Token header on mutations.
	CSRFToken string `json:"csrfToken"`
}

func AdminMe(c *RequestContext) ResponseData {
	var res ResponseData
	res.WriteJson(meJson{
		ID:        c.CurrentUser.ID,
		Name:      c.CurrentUser.Name,
		Email:     c.CurrentUser.Email,
		AvatarUrl: c.CurrentUser.AvatarUrl,
		CSRFToken: c.CurrentSession.CSRFToken,
	})
	return res
}

func AdminCategoryIndex(c *RequestContext) ResponseData {
	categories, err := blog.FetchCategories(c, c.Conn)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(categoriesToJson(categories))
	return res
}

func AdminArticleIndex(c *RequestContext) ResponseData {
	articles, err := blog.FetchPublishedArticlesForAdmin(c, c.Conn)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result := make([]articleJson, 0, len(articles))
	for _, article := range articles {
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

func AdminArticleGet(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	article, err := blog.FetchPublishedArticleForAdmin(c, c.Conn, id)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result, err := publishedArticleToJson(c, article, false)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

type publishedArticleInputJson struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Description *string    `json:"description"`
	CoverImage  *string    `json:"coverImageUrl"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func AdminArticleUpdate(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	// Fetch first so we can purge the old slug's page if the slug changes.
	before, err := blog.FetchPublishedArticleForAdmin(c, c.Conn, id)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var in publishedArticleInputJson
	if err := c.DecodeJson(&in); err != nil {
		return c.ErrorsAsResponse(err)
	}

	article, err := blog.UpdatePublishedArticle(c, c.Conn, id, blog.PublishedArticleInput{
		Slug:        in.Slug,
		Title:       in.Title,
		Body:        in.Body,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		PublishedAt: in.PublishedAt,
	})
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	purgePaths := []string{"/", "/sitemap.xml", fmt.Sprintf("/articles/%s", article.Slug)}
	if before.Slug != article.Slug {
		purgePaths = append(purgePaths, fmt.Sprintf("/articles/%s", before.Slug))
	}
	cdn.PurgePaths(c, purgePaths...)

	result, err := publishedArticleToJson(c, article, false)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func AdminArticleDelete(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	article, err := blog.FetchPublishedArticleForAdmin(c, c.Conn, id)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	if err := blog.DeletePublishedArticle(c, c.Conn, id); err != nil {
		return c.ErrorsAsResponse(err)
	}

	cdn.PurgePaths(c, "/", "/sitemap.xml", fmt.Sprintf("/articles/%s", article.Slug))

	return ResponseData{StatusCode: http.StatusNoContent}
}

func AdminArticleSetCategories(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	article, err := blog.FetchPublishedArticleForAdmin(c, c.Conn, id)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	res := setArticleCategories(c, func(categoryIDs []int) error {
		return blog.ReplacePublishedCategories(c, c.Conn, id, categoryIDs)
	})
	if res.StatusCode == http.StatusNoContent {
		cdn.PurgePaths(c, "/", fmt.Sprintf("/articles/%s", article.Slug))
	}
	return res
}
