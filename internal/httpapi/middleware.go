package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quizdeck/internal/auth"
)

const sessionCookieName = "session"

type sessionContextKey struct{}

type identity struct {
	token   string
	session auth.Session
}

// requireSession resolves the bearer token and attaches the caller identity
// to the request context. A stale token also clears the client cookie so
// browsers stop replaying it.
func (a *API) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}

		session, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionExpired) {
				clearSessionCookie(w)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session invalid or expired"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
			return
		}

		next(w, withIdentity(r, identity{token: token, session: session}))
	}
}

// optionalSession attaches an identity when a valid token is present and
// otherwise lets the request through anonymously.
func (a *API) optionalSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		session, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			next(w, r)
			return
		}
		next(w, withIdentity(r, identity{token: token, session: session}))
	}
}

func withIdentity(r *http.Request, id identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey{}, id))
}

func identityFromRequest(r *http.Request) (identity, bool) {
	id, ok := r.Context().Value(sessionContextKey{}).(identity)
	return id, ok
}

// callerID returns the session user id, or 0 for anonymous callers.
func callerID(r *http.Request) int64 {
	id, ok := identityFromRequest(r)
	if !ok {
		return 0
	}
	return id.session.UserID
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	setSessionCookie(w, "", -1)
}
