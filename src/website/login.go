package website

import (
	"net/http"

	"git.shiro.blog/shiro/shiro/src/auth"
)

func Login(c *RequestContext) ResponseData {
	if c.CurrentUser != nil {
		return c.Redirect("/", http.StatusSeeOther)
	}

	pending, err := auth.CreatePendingLogin(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	return c.Redirect(auth.BuildAuthorizeUrl(pending.ID), http.StatusSeeOther)
}

func LoginCallback(c *RequestContext) ResponseData {
	query := c.URL().Query()

	if errCode := query.Get("error"); errCode != "" {
		// The user backed out at the provider. Not our problem.
		return c.Redirect("/", http.StatusSeeOther)
	}

	state := query.Get("state")
	code := query.Get("code")
	if state == "" || code == "" {
		return c.RejectRequest(http.StatusBadRequest, "missing state or code")
	}

	ok, err := auth.ConsumePendingLogin(c, c.Conn, state)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if !ok {
		return c.RejectRequest(http.StatusBadRequest, "login expired or was not initiated by us; please try again")
	}

	token, err := auth.ExchangeOAuthCode(c, code)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	profile, err := auth.FetchProfile(c, token)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	user, err := auth.UpsertUser(c, c.Conn, profile)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	session, err := auth.CreateSession(c, c.Conn, user.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	res := c.Redirect("/", http.StatusSeeOther)
	res.SetCookie(auth.NewSessionCookie(session))
	return res
}

func Logout(c *RequestContext) ResponseData {
	if c.CurrentSession != nil {
		err := auth.DeleteSession(c, c.Conn, c.CurrentSession.ID)
		if err != nil {
			return c.ErrorResponse(http.StatusInternalServerError, err)
		}
	}

	res := c.Redirect("/", http.StatusSeeOther)
	res.SetCookie(auth.DeleteSessionCookie)
	return res
}
