package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkwell-dev/inkwell/internal/domain"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

// SessionResolver turns a bearer token into the current user record.
type SessionResolver interface {
	Resolve(token string) (domain.User, error)
}

// Key to store the authenticated user in the request context
type key int

const UserKey key = 0

// CookieName is the browser-facing copy of the bearer token. API clients use
// the Authorization header instead.
const CookieName = "accessToken"

type Auth struct {
	sessions SessionResolver
}

func NewAuth(sessions SessionResolver) *Auth {
	return &Auth{sessions: sessions}
}

// NeedAuth returns middleware that requires a valid session
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires an admin session
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the user context when a valid token is presented,
// but lets anonymous requests through.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := a.extractUser(r); err == nil {
				ctx := context.WithValue(r.Context(), UserKey, user)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest pulls the bearer token from the cookie (browser clients)
// or the Authorization header (API clients).
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return token
	}
	return ""
}

func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, errNoToken
	}

	// Resolve reads the current user row, so a ban or role change is
	// effective on the next request, not the next login.
	user, err := a.sessions.Resolve(token)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var errNoToken = errorString("no token")

type errorString string

func (e errorString) Error() string { return string(e) }

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				if err == errNoToken {
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
					return
				}
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			if adminOnly && !user.IsAdmin() {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the authenticated user, nil when anonymous.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
