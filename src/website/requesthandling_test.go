package website

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestRouter() *Router {
	router := &Router{}
	rb := RouteBuilder{Router: router}

	rb.GET(regexp.MustCompile(`^/articles/(?P<idorslug>[^/]+)$`), func(c *RequestContext) ResponseData {
		var res ResponseData
		res.WriteJson(map[string]string{"param": c.PathParams["idorslug"]})
		return res
	})

	admin := rb.Group(regexp.MustCompile(`^/api/admin`))
	admin.GET(regexp.MustCompile(`^/drafts/(?P<id>\d+)$`), func(c *RequestContext) ResponseData {
		var res ResponseData
		res.WriteJson(map[string]string{"id": c.PathParams["id"]})
		return res
	})

	rb.AnyMethod(regexp.MustCompile("^"), FourOhFour)

	return router
}

func TestRouter(t *testing.T) {
	router := makeTestRouter()

	doGet := func(path string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		return recorder
	}

	t.Run("path params", func(t *testing.T) {
		res := doGet("/articles/my-first-post")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "my-first-post")
	})

	t.Run("grouped routes", func(t *testing.T) {
		res := doGet("/api/admin/drafts/42")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "42")
	})

	t.Run("trailing slashes are ignored", func(t *testing.T) {
		res := doGet("/articles/my-first-post/")
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("non-numeric id falls through to 404", func(t *testing.T) {
		res := doGet("/api/admin/drafts/abc")
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("unknown path hits the wildcard", func(t *testing.T) {
		res := doGet("/definitely/not/a/route")
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("method matters", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/articles/my-first-post", nil))
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("HEAD routes like GET but sends no body", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodHead, "/articles/my-first-post", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Zero(t, recorder.Body.Len())
		assert.NotEmpty(t, recorder.Header().Get("Content-Length"))
	})
}

func makeTestContext(req *http.Request) *RequestContext {
	return &RequestContext{
		Logger: logging.GlobalLogger(),
		Req:    req,
		Res:    httptest.NewRecorder(),

		ctx: req.Context(),
	}
}

func TestCsrfMiddleware(t *testing.T) {
	ok := func(c *RequestContext) ResponseData {
		return ResponseData{StatusCode: http.StatusOK}
	}
	wrapped := csrfMiddleware(ok)

	t.Run("GET passes without a token", func(t *testing.T) {
		c := makeTestContext(httptest.NewRequest(http.MethodGet, "/api/admin/drafts", nil))
		assert.Equal(t, http.StatusOK, wrapped(c).StatusCode)
	})

	t.Run("mutation with the right token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/drafts", nil)
		req.Header.Set(CSRFHeaderName, "sekrit")
		c := makeTestContext(req)
		c.CurrentSession = &models.Session{CSRFToken: "sekrit"}
		assert.Equal(t, http.StatusOK, wrapped(c).StatusCode)
	})

	t.Run("mutation with a wrong token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/drafts", nil)
		req.Header.Set(CSRFHeaderName, "wrong")
		c := makeTestContext(req)
		c.CurrentSession = &models.Session{CSRFToken: "sekrit"}
		assert.Equal(t, http.StatusForbidden, wrapped(c).StatusCode)
	})

	t.Run("mutation without a session is forbidden", func(t *testing.T) {
		c := makeTestContext(httptest.NewRequest(http.MethodDelete, "/api/admin/drafts/1", nil))
		assert.Equal(t, http.StatusForbidden, wrapped(c).StatusCode)
	})
}

func TestDecodeJson(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": "hi"}`))
		var p payload
		require.NoError(t, makeTestContext(req).DecodeJson(&p))
		assert.Equal(t, "hi", p.Title)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": "hi", "bogus": 1}`))
		var p payload
		assert.Error(t, makeTestContext(req).DecodeJson(&p))
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{{{{`))
		var p payload
		assert.Error(t, makeTestContext(req).DecodeJson(&p))
	})
}

func TestRenderMarkdown(t *testing.T) {
	html := renderMarkdown("# Hello\n\nSome *text*.")
	assert.Contains(t, html, "<h1>Hello</h1>")
	assert.Contains(t, html, "<em>text</em>")
}
