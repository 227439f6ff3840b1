package feed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"git.shiro.blog/shiro/shiro/src/logging"
)

/*
The home page shows one merged list of articles pulled from everywhere the
author writes: this blog's own database, the legacy headless CMS it is
replacing, a WordPress mirror for guest posts, and Qiita for cross-posted
technical articles.

Every source boils down to "fetch, map to HomeArticle". There is no retry
logic here on purpose; a source that is down just drops out of the feed for
one request.
*/

type Source string

const (
	SourceBlog      Source = "blog"
	SourceMicroCMS  Source = "microcms"
	SourceWordPress Source = "wordpress"
	SourceQiita     Source = "qiita"
)

// The normalized shape every source maps into.
type HomeArticle struct {
	Title        string    `json:"title"`
	ThumbnailUrl string    `json:"thumbnailUrl,omitempty"`
	Link         string    `json:"link"`
	Categories   []string  `json:"categories"`
	PublishedAt  time.Time `json:"publishedAt"`
	Source       Source    `json:"source"`
}

// A StatusError is returned when an upstream source answers with a
// non-success HTTP status.
type StatusError struct {
	Source     Source
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Source, e.StatusCode)
}

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// A Fetcher produces home page articles from one source.
type Fetcher interface {
	FetchArticles(ctx context.Context) ([]HomeArticle, error)
}

// FetchHome pulls from every fetcher and merges the results newest-first.
// A failing source is logged and skipped rather than taking down the whole
// home page.
func FetchHome(ctx context.Context, fetchers ...Fetcher) []HomeArticle {
	var all []HomeArticle
	for _, fetcher := range fetchers {
		articles, err := fetcher.FetchArticles(ctx)
		if err != nil {
			logging.ExtractLogger(ctx).Error().Err(err).Msg("failed to fetch articles for home page")
			continue
		}
		all = append(all, articles...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	return all
}

var _ Fetcher = &BlogFetcher{}
var _ Fetcher = &MicroCMSClient{}
var _ Fetcher = &WordPressClient{}
var _ Fetcher = &QiitaClient{}
