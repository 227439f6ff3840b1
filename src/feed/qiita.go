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

const qiitaBaseUrl = "https://qiita.com/api/v2"

// Qiita hosts the author's cross-posted technical articles.
type QiitaClient struct {
	UserID string
	Token  string // optional; raises the rate limit
}

type qiitaItem struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []struct {
		Name string `json:"name"`
	} `json:"tags"`
	User struct {
		ProfileImageURL string `json:"profile_image_url"`
	} `json:"user"`
}

func (c *QiitaClient) FetchArticles(ctx context.Context) ([]HomeArticle, error) {
	url := fmt.Sprintf("%s/users/%s/items?per_page=50", qiitaBaseUrl, c.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		panic(err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to reach Qiita")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Source: SourceQiita, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read Qiita response")
	}

	var items []qiitaItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, oops.New(err, "failed to unmarshal Qiita response")
	}

	result := make([]HomeArticle, len(items))
	for i, raw := range items {
		result[i] = MapQiitaItem(raw)
	}
	return result, nil
}

func MapQiitaItem(raw qiitaItem) HomeArticle {
	tags := make([]string, len(raw.Tags))
	for i, tag := range raw.Tags {
		tags[i] = tag.Name
	}

	return HomeArticle{
		Title:        raw.Title,
		ThumbnailUrl: raw.User.ProfileImageURL,
		Link:         raw.URL,
		Categories:   tags,
		PublishedAt:  raw.CreatedAt,
		Source:       SourceQiita,
	}
}
