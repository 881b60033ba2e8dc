package middleware

import (
	"net/http"

	"github.com/inkwell-dev/inkwell/internal/ratelimit"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

// RateLimit gates requests on a per-identity window keyed by action plus
// client identity, so "login" attempts from one address share one budget.
// Rejection happens before the wrapped handler ever sees the request,
// independent of whether the credentials inside would have been correct.
func RateLimit(rl *ratelimit.KeyedLimiter, action string, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(action + ":" + identity) {
				http.Error(w, "Too many attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
