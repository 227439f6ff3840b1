package website

import (
	"net/http"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/feed"
	"git.shiro.blog/shiro/shiro/src/logging"
)

// HomeFeed merges articles from every configured source into one list.
// Sources without configuration are left out, so a fresh install with just a
// database still gets a working home page.
//
// Admins can pass ?preview=1 to see future-dated articles in place.
func HomeFeed(c *RequestContext) ResponseData {
	includeScheduled := false
	if c.URL().Query().Get("preview") != "" {
		if c.CurrentUser == nil || !c.CurrentUser.IsAdmin {
			return c.RejectRequest(http.StatusUnauthorized, "preview mode requires an admin login")
		}
		includeScheduled = true
	}

	fetchers := []feed.Fetcher{
		&feed.BlogFetcher{Conn: c.Conn, IncludeScheduled: includeScheduled},
	}
	if cfg := config.Config.Sources.MicroCMS; cfg.Endpoint != "" {
		fetchers = append(fetchers, &feed.MicroCMSClient{Endpoint: cfg.Endpoint, APIKey: cfg.APIKey})
	}
	if cfg := config.Config.Sources.WordPress; cfg.BaseUrl != "" {
		fetchers = append(fetchers, &feed.WordPressClient{BaseUrl: cfg.BaseUrl})
	}
	if cfg := config.Config.Sources.Qiita; cfg.UserID != "" {
		fetchers = append(fetchers, &feed.QiitaClient{UserID: cfg.UserID, Token: cfg.Token})
	}

	articles := feed.FetchHome(logging.AttachLoggerToContext(c.Logger, c), fetchers...)

	var res ResponseData
	res.WriteJson(articles)
	return res
}

type authorJson struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarUrl string `json:"avatarUrl"`
	GitHubUrl string `json:"githubUrl"`
	QiitaUrl  string `json:"qiitaUrl"`
}

func Author(c *RequestContext) ResponseData {
	author := config.Config.Author

	var res ResponseData
	res.WriteJson(authorJson{
		Name:      author.Name,
		Bio:       author.Bio,
		AvatarUrl: author.AvatarUrl,
		GitHubUrl: author.GitHubUrl,
		QiitaUrl:  author.QiitaUrl,
	})
	return res
}
