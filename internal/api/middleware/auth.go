package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rohits-web03/piiquante/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenCookie is the cookie the login handlers set next to the JSON token.
const TokenCookie = "token"

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// AuthMiddleware reads the token from the Authorization header, falling
// back to the token cookie, and stores the user id in the request context.
func AuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := bearerToken(r)
			if tokenStr == "" {
				unauthorized(w)
				return
			}

			userID, err := authn.Authenticate(tokenStr)
			if err != nil || userID == "" {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated user id, or "" outside AuthMiddleware.
func UserIDFrom(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Unauthorized",
	})
}
