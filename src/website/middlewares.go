package website

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/auth"
	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
	"git.shiro.blog/shiro/shiro/src/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Mutating admin requests must echo the session's CSRF token in this header.
const CSRFHeaderName = "X-CSRF-Token"

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, fmt.Sprintf("Recovered from panic with value: %v", recovered))
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

func attachResources(conn *pgxpool.Pool, store *storage.Client) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			c.Storage = store
			return h(c)
		}
	}
}

func logRequests(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		start := time.Now()
		res := h(c)
		c.Logger.Info().
			Str("method", c.Req.Method).
			Str("path", c.Req.URL.Path).
			Int("status", res.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Served request")
		return res
	}
}

func logContextErrors(c *RequestContext, errs ...error) {
	for _, err := range errs {
		c.Logger.Error().Timestamp().Stack().Str("Requested", c.FullUrl()).Err(err).Msg("error occurred during request")
	}
}

func logContextErrorsMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		logContextErrors(c, res.Errors...)
		return res
	}
}

// loadSession resolves the session cookie into CurrentSession and CurrentUser.
// A missing or expired session is not an error here; routes that need a user
// layer needsAdmin on top.
func loadSession(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		cookie, err := c.Req.Cookie(auth.SessionCookieName)
		if err != nil {
			return h(c)
		}

		session, err := auth.GetSession(c, c.Conn, cookie.Value)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				return c.ErrorResponse(http.StatusInternalServerError, err)
			}

			// A cookie pointing at a dead session should get cleaned up.
			res := h(c)
			res.SetCookie(auth.DeleteSessionCookie)
			return res
		}

		user, err := db.QueryOne[models.User](c, c.Conn,
			`SELECT $columns FROM users WHERE id = $1`,
			session.UserID,
		)
		if err != nil {
			if errors.Is(err, db.NotFound) {
				// The user row is gone; the session is worthless.
				res := h(c)
				res.SetCookie(auth.DeleteSessionCookie)
				return res
			}
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to load user for session"))
		}

		c.CurrentSession = session
		c.CurrentUser = user

		return h(c)
	}
}

func needsAdmin(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentUser == nil || !c.CurrentUser.IsAdmin {
			return c.ErrorResponse(http.StatusUnauthorized)
		}

		return h(c)
	}
}

// CSRF mitigation per the OWASP cheat sheet:
// https://cheatsheetseries.owasp.org/cheatsheets/Cross-Site_Request_Forgery_Prevention_Cheat_Sheet.html
func csrfMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		switch c.Req.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return h(c)
		}

		if c.CurrentSession == nil || c.Req.Header.Get(CSRFHeaderName) != c.CurrentSession.CSRFToken {
			logging.Warn().Str("route", c.Route).Msg("request failed CSRF validation - potential attack?")
			return c.ErrorResponse(http.StatusForbidden)
		}

		return h(c)
	}
}
