package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/submit"
)

// RateLimit rejects clients that exhausted their submission budget.
// Like the anti-automation rejection, the payload carries no detail
// beyond "come back later".
func RateLimit(l *submit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.Allow(ip, time.Now()) {
				log.Warnf("public.submit.rate_limit: %s", ip)
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, map[string]any{
					"error":   "rate_limited",
					"message": "Too many submissions. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
