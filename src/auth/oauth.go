package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
	"github.com/golang-jwt/jwt/v5"
)

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// The subset of an OAuth provider's user info that we keep.
type Profile struct {
	ProviderUserID string
	Name           string
	Email          *string
	AvatarUrl      *string
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

func BuildAuthorizeUrl(state string) string {
	params := make(url.Values)
	params.Set("client_id", config.Config.Auth.OAuthClientID)
	params.Set("redirect_uri", config.Config.Auth.OAuthRedirectUrl)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(config.Config.Auth.OAuthScopes, " "))
	params.Set("state", state)

	return fmt.Sprintf("%s?%s", config.Config.Auth.OAuthAuthorizeUrl, params.Encode())
}

func ExchangeOAuthCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := make(url.Values)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", config.Config.Auth.OAuthClientID)
	form.Set("client_secret", config.Config.Auth.OAuthClientSecret)
	form.Set("redirect_uri", config.Config.Auth.OAuthRedirectUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		config.Config.Auth.OAuthTokenUrl,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to exchange OAuth code")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, oops.New(nil, "OAuth token endpoint returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read OAuth token response")
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, oops.New(err, "failed to unmarshal OAuth token response")
	}
	if token.AccessToken == "" {
		return nil, oops.New(nil, "OAuth token response contained no access token")
	}

	return &token, nil
}

// FetchProfile gets the logged-in user's profile from the provider's userinfo
// endpoint. Should that fail, it falls back to the claims embedded in the ID
// token. We just received the ID token straight from the token endpoint over
// TLS, so reading it without signature verification is fine here.
func FetchProfile(ctx context.Context, token *TokenResponse) (*Profile, error) {
	profile, err := fetchUserInfo(ctx, token.AccessToken)
	if err == nil {
		return profile, nil
	}

	if token.IDToken != "" {
		if profile, idErr := profileFromIDToken(token.IDToken); idErr == nil {
			return profile, nil
		}
	}
	return nil, err
}

type userInfoResponse struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func fetchUserInfo(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.Config.Auth.OAuthUserinfoUrl, nil)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to reach userinfo endpoint")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, oops.New(nil, "userinfo endpoint returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read userinfo response")
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, oops.New(err, "failed to unmarshal userinfo response")
	}

	return profileFromUserInfo(info)
}

func profileFromUserInfo(info userInfoResponse) (*Profile, error) {
	if info.Sub == "" {
		return nil, oops.New(nil, "userinfo response contained no subject")
	}

	profile := Profile{
		ProviderUserID: info.Sub,
		Name:           info.Name,
	}
	if info.Email != "" {
		profile.Email = &info.Email
	}
	if info.Picture != "" {
		profile.AvatarUrl = &info.Picture
	}
	return &profile, nil
}

func profileFromIDToken(idToken string) (*Profile, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(idToken, claims)
	if err != nil {
		return nil, oops.New(err, "failed to parse ID token")
	}

	var info userInfoResponse
	info.Sub, _ = claims["sub"].(string)
	info.Name, _ = claims["name"].(string)
	info.Email, _ = claims["email"].(string)
	info.Picture, _ = claims["picture"].(string)

	return profileFromUserInfo(info)
}

// UpsertUser records the user after a successful login. Admin status is
// granted by email allowlist on every login, so removing an address from the
// config revokes admin on the user's next sign-in.
func UpsertUser(ctx context.Context, conn db.ConnOrTx, profile *Profile) (*models.User, error) {
	isAdmin := false
	if profile.Email != nil {
		for _, adminEmail := range config.Config.Auth.AdminEmails {
			if strings.EqualFold(adminEmail, *profile.Email) {
				isAdmin = true
				break
			}
		}
	}

	user, err := db.QueryOne[models.User](ctx, conn,
		`
		INSERT INTO users (provider, provider_user_id, name, email, avatar_url, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, provider_user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url,
			is_admin = EXCLUDED.is_admin
		RETURNING $columns
		`,
		config.Config.Auth.Provider,
		profile.ProviderUserID,
		profile.Name,
		profile.Email,
		profile.AvatarUrl,
		isAdmin,
	)
	if err != nil {
		return nil, oops.New(err, "failed to upsert user")
	}

	return user, nil
}
