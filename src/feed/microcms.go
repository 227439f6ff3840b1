package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/oops"
)

// The legacy headless CMS that predates this blog's own database. It is
// being phased out, but old articles still live there and still get traffic.
type MicroCMSClient struct {
	Endpoint string // e.g. https://example.microcms.io/api/v1
	APIKey   string
}

type microCMSListResponse struct {
	Contents []microCMSArticle `json:"contents"`
}

type microCMSArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
	Eyecatch    *struct {
		URL string `json:"url"`
	} `json:"eyecatch"`
	Category *struct {
		Name string `json:"name"`
	} `json:"category"`
}

func (c *MicroCMSClient) FetchArticles(ctx context.Context) ([]HomeArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/articles", c.Endpoint), nil)
	if err != nil {
		panic(err)
	}
	req.Header.Set("X-MICROCMS-API-KEY", c.APIKey)

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to reach microCMS")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Source: SourceMicroCMS, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read microCMS response")
	}

	var list microCMSListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, oops.New(err, "failed to unmarshal microCMS response")
	}

	result := make([]HomeArticle, len(list.Contents))
	for i, raw := range list.Contents {
		result[i] = MapMicroCMSArticle(raw)
	}
	return result, nil
}

func MapMicroCMSArticle(raw microCMSArticle) HomeArticle {
	article := HomeArticle{
		Title:       raw.Title,
		Link:        fmt.Sprintf("/articles/%s", raw.ID),
		Categories:  []string{},
		PublishedAt: raw.PublishedAt,
		Source:      SourceMicroCMS,
	}
	if raw.Eyecatch != nil {
		article.ThumbnailUrl = raw.Eyecatch.URL
	}
	if raw.Category != nil {
		article.Categories = []string{raw.Category.Name}
	}
	return article
}
