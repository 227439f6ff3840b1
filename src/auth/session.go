package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/db"
	"git.shiro.blog/shiro/shiro/src/jobs"
	"git.shiro.blog/shiro/shiro/src/models"
	"git.shiro.blog/shiro/shiro/src/oops"
	"github.com/jackc/pgx/v5/pgxpool"
)

const SessionCookieName = "ShiroSession"

const sessionDuration = time.Hour * 24 * 14

// How long a login may dawdle at the OAuth provider before its state token
// expires.
const pendingLoginDuration = time.Minute * 10

func makeToken() string {
	tokenBytes := make([]byte, 40)
	_, err := io.ReadFull(rand.Reader, tokenBytes)
	if err != nil {
		panic(err)
	}

	return base64.StdEncoding.EncodeToString(tokenBytes)[:40]
}

var ErrNoSession = errors.New("no session found")

func GetSession(ctx context.Context, conn db.ConnOrTx, id string) (*models.Session, error) {
	session, err := db.QueryOne[models.Session](ctx, conn,
		`SELECT $columns FROM sessions WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP`,
		id,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, ErrNoSession
		} else {
			return nil, oops.New(err, "failed to get session")
		}
	}

	return session, nil
}

func CreateSession(ctx context.Context, conn db.ConnOrTx, userID int) (*models.Session, error) {
	session := models.Session{
		ID:        makeToken(),
		UserID:    userID,
		CSRFToken: makeToken(),
		ExpiresAt: time.Now().Add(sessionDuration),
	}

	_, err := conn.Exec(ctx,
		`INSERT INTO sessions (id, user_id, csrf_token, expires_at) VALUES ($1, $2, $3, $4)`,
		session.ID, session.UserID, session.CSRFToken, session.ExpiresAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to persist session")
	}

	return &session, nil
}

// Deletes a session by id. If no session with that id exists, no
// error is returned.
func DeleteSession(ctx context.Context, conn db.ConnOrTx, id string) error {
	_, err := conn.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return oops.New(err, "failed to delete session")
	}

	return nil
}

func NewSessionCookie(session *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:  SessionCookieName,
		Value: session.ID,

		Domain:  config.Config.Auth.CookieDomain,
		Path:    "/",
		Expires: session.ExpiresAt,

		Secure:   config.Config.Auth.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

var DeleteSessionCookie = &http.Cookie{
	Name:   SessionCookieName,
	Domain: config.Config.Auth.CookieDomain,
	Path:   "/",
	MaxAge: -1,
}

func CreatePendingLogin(ctx context.Context, conn db.ConnOrTx) (*models.PendingLogin, error) {
	pending := models.PendingLogin{
		ID:        makeToken(),
		ExpiresAt: time.Now().Add(pendingLoginDuration),
	}

	_, err := conn.Exec(ctx,
		`INSERT INTO pending_logins (id, expires_at) VALUES ($1, $2)`,
		pending.ID, pending.ExpiresAt,
	)
	if err != nil {
		return nil, oops.New(err, "failed to persist pending login")
	}

	return &pending, nil
}

// ConsumePendingLogin checks an OAuth state token against the pending logins
// and uses it up. A state that matches nothing means the callback is either
// forged or very late; both get rejected.
func ConsumePendingLogin(ctx context.Context, conn db.ConnOrTx, state string) (bool, error) {
	tag, err := conn.Exec(ctx,
		`DELETE FROM pending_logins WHERE id = $1 AND expires_at > CURRENT_TIMESTAMP`,
		state,
	)
	if err != nil {
		return false, oops.New(err, "failed to look up pending login")
	}
	return tag.RowsAffected() > 0, nil
}

func DeleteExpired(ctx context.Context, conn db.ConnOrTx) (int64, error) {
	var total int64

	tag, err := conn.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, oops.New(err, "failed to delete expired sessions")
	}
	total += tag.RowsAffected()

	tag, err = conn.Exec(ctx, `DELETE FROM pending_logins WHERE expires_at <= CURRENT_TIMESTAMP`)
	if err != nil {
		return total, oops.New(err, "failed to delete expired pending logins")
	}
	total += tag.RowsAffected()

	return total, nil
}

func PeriodicallyDeleteExpired(conn *pgxpool.Pool) *jobs.Job {
	job := jobs.New("delete expired sessions")
	go func() {
		defer job.Finish()

		t := time.NewTicker(1 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				n, err := DeleteExpired(job.Ctx, conn)
				if err == nil {
					if n > 0 {
						job.Logger.Info().Int64("num deleted", n).Msg("Deleted expired sessions and pending logins")
					}
				} else {
					job.Logger.Error().Err(err).Msg("Failed to delete expired sessions")
				}
			case <-job.Canceled():
				return
			}
		}
	}()
	return job
}
