package middleware

import (
	"context"
	"net/http"
	"strings"

	handlers "tweetbook/internal/handler"
)

type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (string, error)
	VerifyFromAddress(ctx context.Context, rawToken, addr string) (string, error)
}

// ExtractToken accepts "Bearer <token>" or the bare token.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// AuthMiddleware verifies the Authorization header and puts the account id
// into the request context. With bindToAddress the token is only accepted
// from an address the account has used to sign up or sign in.
func AuthMiddleware(tokens TokenVerifier, bindToAddress bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractToken(r.Header.Get("Authorization"))

			var userID string
			var err error
			if bindToAddress {
				userID, err = tokens.VerifyFromAddress(r.Context(), raw, handlers.ClientIP(r))
			} else {
				userID, err = tokens.Verify(r.Context(), raw)
			}
			if err != nil {
				handlers.WriteServiceError(w, r, err)
				return
			}

			setMetaUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(handlers.ContextWithUserID(r.Context(), userID)))
		})
	}
}
