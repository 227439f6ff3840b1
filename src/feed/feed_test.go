package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"git.shiro.blog/shiro/shiro/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBlogArticle(t *testing.T) {
	cover := "https://img.example.com/cover.png"
	publishedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	article := &models.PublishedArticle{
		Slug:        "my-post",
		Title:       "My Post",
		CoverImage:  &cover,
		PublishedAt: publishedAt,
	}
	categories := []*models.Category{
		{Name: "Go"},
		{Name: "Web Development"},
	}

	mapped := MapBlogArticle(article, categories)
	assert.Equal(t, HomeArticle{
		Title:        "My Post",
		ThumbnailUrl: cover,
		Link:         "/articles/my-post",
		Categories:   []string{"Go", "Web Development"},
		PublishedAt:  publishedAt,
		Source:       SourceBlog,
	}, mapped)
}

func TestMapMicroCMSArticle(t *testing.T) {
	raw := microCMSArticle{}
	err := json.Unmarshal([]byte(`{
		"id": "abc123",
		"title": "Legacy Post",
		"publishedAt": "2023-06-15T12:00:00Z",
		"eyecatch": {"url": "https://images.microcms.example/eye.png"},
		"category": {"name": "Diary"}
	}`), &raw)
	require.NoError(t, err)

	mapped := MapMicroCMSArticle(raw)
	assert.Equal(t, "Legacy Post", mapped.Title)
	assert.Equal(t, "/articles/abc123", mapped.Link)
	assert.Equal(t, "https://images.microcms.example/eye.png", mapped.ThumbnailUrl)
	assert.Equal(t, []string{"Diary"}, mapped.Categories)
	assert.Equal(t, SourceMicroCMS, mapped.Source)
}

func TestMapMicroCMSArticleWithoutOptionals(t *testing.T) {
	mapped := MapMicroCMSArticle(microCMSArticle{ID: "x", Title: "Bare"})
	assert.Empty(t, mapped.ThumbnailUrl)
	assert.Empty(t, mapped.Categories)
}

func TestMapWordPressPost(t *testing.T) {
	var raw wordPressPost
	err := json.Unmarshal([]byte(`{
		"link": "https://guest.example.com/hello",
		"date": "2023-01-02T10:30:00",
		"title": {"rendered": "Guest Post"},
		"_embedded": {
			"wp:featuredmedia": [{"source_url": "https://guest.example.com/thumb.jpg"}],
			"wp:term": [
				[{"name": "Essays", "taxonomy": "category"}],
				[{"name": "ignored-tag", "taxonomy": "post_tag"}]
			]
		}
	}`), &raw)
	require.NoError(t, err)

	mapped := MapWordPressPost(raw)
	assert.Equal(t, "Guest Post", mapped.Title)
	assert.Equal(t, "https://guest.example.com/hello", mapped.Link)
	assert.Equal(t, "https://guest.example.com/thumb.jpg", mapped.ThumbnailUrl)
	assert.Equal(t, []string{"Essays"}, mapped.Categories)
	assert.Equal(t, time.Date(2023, 1, 2, 10, 30, 0, 0, time.UTC), mapped.PublishedAt)
	assert.Equal(t, SourceWordPress, mapped.Source)
}

func TestMapQiitaItem(t *testing.T) {
	var raw qiitaItem
	err := json.Unmarshal([]byte(`{
		"title": "Understanding context.Context",
		"url": "https://qiita.com/someone/items/abcdef",
		"created_at": "2024-02-20T08:00:00+09:00",
		"tags": [{"name": "Go"}, {"name": "context"}],
		"user": {"profile_image_url": "https://qiita.example/avatar.png"}
	}`), &raw)
	require.NoError(t, err)

	mapped := MapQiitaItem(raw)
	assert.Equal(t, "Understanding context.Context", mapped.Title)
	assert.Equal(t, "https://qiita.com/someone/items/abcdef", mapped.Link)
	assert.Equal(t, []string{"Go", "context"}, mapped.Categories)
	assert.Equal(t, SourceQiita, mapped.Source)
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	wordpress := &WordPressClient{BaseUrl: server.URL}
	_, err := wordpress.FetchArticles(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, SourceWordPress, statusErr.Source)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

type stubFetcher struct {
	articles []HomeArticle
	err      error
}

func (f *stubFetcher) FetchArticles(ctx context.Context) ([]HomeArticle, error) {
	return f.articles, f.err
}

func TestFetchHomeMergesAndSorts(t *testing.T) {
	older := HomeArticle{Title: "older", PublishedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := HomeArticle{Title: "newer", PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	articles := FetchHome(context.Background(),
		&stubFetcher{articles: []HomeArticle{older}},
		&stubFetcher{err: errors.New("this source is down")},
		&stubFetcher{articles: []HomeArticle{newer}},
	)

	require.Len(t, articles, 2)
	assert.Equal(t, "newer", articles[0].Title)
	assert.Equal(t, "older", articles[1].Title)
}
