package website

import (
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/cdn"
)

type draftInputJson struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImageUrl"`
}

func (in draftInputJson) toInput() blog.DraftInput {
	return blog.DraftInput{
		Slug:        in.Slug,
		Title:       in.Title,
		Body:        in.Body,
		Description: in.Description,
		CoverImage:  in.CoverImage,
	}
}

func AdminDraftIndex(c *RequestContext) ResponseData {
	drafts, err := blog.FetchDrafts(c, c.Conn)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result := make([]articleJson, 0, len(drafts))
	for _, draft := range drafts {
		item, err := draftToJson(c, draft)
		if err != nil {
			return c.ErrorsAsResponse(err)
		}
		result = append(result, item)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func AdminDraftGet(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	draft, err := blog.FetchDraft(c, c.Conn, id)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result, err := draftToJson(c, draft)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func AdminDraftCreate(c *RequestContext) ResponseData {
	var in draftInputJson
	if err := c.DecodeJson(&in); err != nil {
		return c.ErrorsAsResponse(err)
	}

	draft, err := blog.CreateDraft(c, c.Conn, in.toInput())
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result, err := draftToJson(c, draft)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	res := ResponseData{StatusCode: http.StatusCreated}
	res.WriteJson(result)
	return res
}

func AdminDraftUpdate(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	var in draftInputJson
	if err := c.DecodeJson(&in); err != nil {
		return c.ErrorsAsResponse(err)
	}

	draft, err := blog.UpdateDraft(c, c.Conn, id, in.toInput())
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	result, err := draftToJson(c, draft)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func AdminDraftDelete(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	if err := blog.DeleteDraft(c, c.Conn, id); err != nil {
		return c.ErrorsAsResponse(err)
	}

	return ResponseData{StatusCode: http.StatusNoContent}
}

func AdminDraftPublish(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	article, err := blog.PublishDraft(c, c.Conn, id, time.Now().UTC())
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	// The home page and sitemap both list the new article.
	cdn.PurgePaths(c, "/", "/sitemap.xml")

	result, err := publishedArticleToJson(c, article, false)
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	res := ResponseData{StatusCode: http.StatusCreated}
	res.WriteJson(result)
	return res
}

type setCategoriesJson struct {
	Categories []string `json:"categories"`
}

// Categories are set by name; unknown names are created on the fly.
func setArticleCategories(c *RequestContext, replace func(categoryIDs []int) error) ResponseData {
	var in setCategoriesJson
	if err := c.DecodeJson(&in); err != nil {
		return c.ErrorsAsResponse(err)
	}

	categoryIDs := make([]int, 0, len(in.Categories))
	for _, name := range in.Categories {
		category, err := blog.FindOrCreateCategoryByName(c, c.Conn, name)
		if err != nil {
			return c.ErrorsAsResponse(err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	if err := replace(categoryIDs); err != nil {
		return c.ErrorsAsResponse(err)
	}

	return ResponseData{StatusCode: http.StatusNoContent}
}

func AdminDraftSetCategories(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.ErrorResponse(http.StatusNotFound)
	}

	if _, err := blog.FetchDraft(c, c.Conn, id); err != nil {
		return c.ErrorsAsResponse(err)
	}

	return setArticleCategories(c, func(categoryIDs []int) error {
		return blog.ReplaceDraftCategories(c, c.Conn, id, categoryIDs)
	})
}
