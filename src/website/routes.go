package website

import (
	"net/http"
	"regexp"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
)

func NewWebsiteRoutes(conn *pgxpool.Pool, store *storage.Client) http.Handler {
	router := &Router{}

	rb := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			attachResources(conn, store),
			logRequests,
			panicCatcherMiddleware,
			logContextErrorsMiddleware,
			loadSession,
		},
	}

	rb.GET(regexp.MustCompile(`^/robots\.txt$`), RobotsTxt)
	rb.GET(regexp.MustCompile(`^/sitemap\.xml$`), SitemapXml)

	rb.GET(regexp.MustCompile(`^/api/home$`), HomeFeed)
	rb.GET(regexp.MustCompile(`^/api/author$`), Author)
	rb.GET(regexp.MustCompile(`^/api/articles$`), PublishedArticleIndex)
	rb.GET(regexp.MustCompile(`^/api/articles/(?P<idorslug>[^/]+)$`), PublishedArticle)

	rb.GET(regexp.MustCompile(`^/login$`), Login)
	rb.GET(regexp.MustCompile(`^/login/callback$`), LoginCallback)
	rb.POST(regexp.MustCompile(`^/logout$`), Logout)

	admin := rb.Group(regexp.MustCompile(`^/api/admin`), needsAdmin, csrfMiddleware)
	admin.GET(regexp.MustCompile(`^/me$`), AdminMe)

	admin.GET(regexp.MustCompile(`^/drafts$`), AdminDraftIndex)
	admin.POST(regexp.MustCompile(`^/drafts$`), AdminDraftCreate)
	admin.GET(regexp.MustCompile(`^/drafts/(?P<id>\d+)$`), AdminDraftGet)
	admin.PUT(regexp.MustCompile(`^/drafts/(?P<id>\d+)$`), AdminDraftUpdate)
	admin.DELETE(regexp.MustCompile(`^/drafts/(?P<id>\d+)$`), AdminDraftDelete)
	admin.POST(regexp.MustCompile(`^/drafts/(?P<id>\d+)/publish$`), AdminDraftPublish)
	admin.PUT(regexp.MustCompile(`^/drafts/(?P<id>\d+)/categories$`), AdminDraftSetCategories)

	admin.GET(regexp.MustCompile(`^/articles$`), AdminArticleIndex)
	admin.GET(regexp.MustCompile(`^/articles/(?P<id>\d+)$`), AdminArticleGet)
	admin.PUT(regexp.MustCompile(`^/articles/(?P<id>\d+)$`), AdminArticleUpdate)
	admin.DELETE(regexp.MustCompile(`^/articles/(?P<id>\d+)$`), AdminArticleDelete)
	admin.PUT(regexp.MustCompile(`^/articles/(?P<id>\d+)/categories$`), AdminArticleSetCategories)

	admin.GET(regexp.MustCompile(`^/categories$`), AdminCategoryIndex)

	admin.GET(regexp.MustCompile(`^/images$`), AdminImageIndex)
	admin.POST(regexp.MustCompile(`^/images$`), AdminImageCreate)
	admin.DELETE(regexp.MustCompile(`^/images/(?P<id>[0-9a-f-]+)$`), AdminImageDelete)
	admin.POST(regexp.MustCompile(`^/uploads/sign$`), AdminSignUpload)

	rb.AnyMethod(regexp.MustCompile("^"), FourOhFour)

	// The admin SPA is served from a different origin in dev, so the API has
	// to speak CORS with credentials.
	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   []string{config.Config.BaseUrl},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", CSRFHeaderName},
		AllowCredentials: true,
	})

	return corsWrapper.Handler(router)
}

func FourOhFour(c *RequestContext) ResponseData {
	return c.ErrorResponse(http.StatusNotFound)
}
