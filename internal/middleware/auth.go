package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forgo/quill/api/internal/model"
)

// AccessTokenCookie is the cookie carrying the access token
const AccessTokenCookie = "accessToken"

// TokenValidator resolves an access token to a user id
type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

// Auth returns a middleware that requires a valid access token. The
// accessToken cookie is checked first, then an Authorization: Bearer header.
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessToken(r)
			if token == "" {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			userID, err := validator.ValidateAccessToken(token)
			if err != nil || userID == "" {
				model.NewUnauthorizedError("invalid or expired access token").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
