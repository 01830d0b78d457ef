package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/rate"
	"github.com/rohits-web03/piiquante/internal/utils"
)

// KeyFunc picks the caller a request is counted against.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the remote address without its port.
func ByClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ByUser keys on the authenticated user, falling back to the client IP.
func ByUser(r *http.Request) string {
	if userID := UserIDFrom(r.Context()); userID != "" {
		return userID
	}
	return ByClientIP(r)
}

// RateLimit allows limit requests per window for each key under name. A
// limit of zero or less turns the middleware off. Limiter failures let the
// request through.
func RateLimit(limiter rate.Limiter, name string, limit int, window time.Duration, key KeyFunc, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retry, err := limiter.Allow(r.Context(), name+":"+key(r), limit, window)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("limit", name), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				utils.JSONResponse(w, http.StatusTooManyRequests, utils.Payload{
					Success: false,
					Message: "Too many requests, please try again later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
