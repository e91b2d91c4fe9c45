package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	handlers "tweetbook/internal/handler"
)

// NewRecoveryMiddleware turns a panic into a 500 response.
func NewRecoveryMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					handlers.WriteError(w, handlers.MsgInternal, http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
