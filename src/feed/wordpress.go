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

// A WordPress site that mirrors guest posts. We only read from it.
type WordPressClient struct {
	BaseUrl string // e.g. https://guest.example.com
}

type wordPressPost struct {
	Link  string `json:"link"`
	Date  string `json:"date"` // site-local time, no zone suffix
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Embedded struct {
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
		Terms [][]struct {
			Name     string `json:"name"`
			Taxonomy string `json:"taxonomy"`
		} `json:"wp:term"`
	} `json:"_embedded"`
}

func (c *WordPressClient) FetchArticles(ctx context.Context) ([]HomeArticle, error) {
	url := fmt.Sprintf("%s/wp-json/wp/v2/posts?_embed", c.BaseUrl)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		panic(err)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to reach WordPress")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Source: SourceWordPress, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read WordPress response")
	}

	var posts []wordPressPost
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, oops.New(err, "failed to unmarshal WordPress response")
	}

	result := make([]HomeArticle, len(posts))
	for i, raw := range posts {
		result[i] = MapWordPressPost(raw)
	}
	return result, nil
}

func MapWordPressPost(raw wordPressPost) HomeArticle {
	// WordPress omits the timezone from post dates. Treating them as UTC is
	// close enough for a display date.
	publishedAt, err := time.Parse("2006-01-02T15:04:05", raw.Date)
	if err != nil {
		publishedAt, _ = time.Parse(time.RFC3339, raw.Date)
	}

	article := HomeArticle{
		Title:       raw.Title.Rendered,
		Link:        raw.Link,
		Categories:  []string{},
		PublishedAt: publishedAt,
		Source:      SourceWordPress,
	}
	if len(raw.Embedded.FeaturedMedia) > 0 {
		article.ThumbnailUrl = raw.Embedded.FeaturedMedia[0].SourceURL
	}
	for _, terms := range raw.Embedded.Terms {
		for _, term := range terms {
			if term.Taxonomy == "category" {
				article.Categories = append(article.Categories, term.Name)
			}
		}
	}
	return article
}
