package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

const votedCookieMaxAge = 180 * 24 * time.Hour

// visitorGuard owns the cookies the core treats as opaque signals: the
// "already voted" marker and the double-submit form token.
type visitorGuard struct {
	votedCookie string
	tokenCookie string
	secure      bool
}

func newVisitorGuard(survey domain.Survey, secure bool) visitorGuard {
	key := survey.StorageKey()
	return visitorGuard{
		votedCookie: "survey_voted_" + key,
		tokenCookie: "survey_csrf_" + key,
		secure:      secure,
	}
}

func (g visitorGuard) hasVoted(r *http.Request) bool {
	_, err := r.Cookie(g.votedCookie)
	return err == nil
}

func (g visitorGuard) markVoted(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.votedCookie,
		Value:    "1",
		Path:     "/",
		MaxAge:   int(votedCookieMaxAge.Seconds()),
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// issueToken returns the visitor's form token, creating one if needed.
func (g visitorGuard) issueToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(g.tokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     g.tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (g visitorGuard) checkToken(r *http.Request, submitted string) error {
	c, err := r.Cookie(g.tokenCookie)
	if err != nil || c.Value == "" || submitted == "" {
		return domain.ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(c.Value), []byte(submitted)) != 1 {
		return domain.ErrInvalidToken
	}
	return nil
}
