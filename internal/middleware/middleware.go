package middleware

import (
	"context"
	"net/http"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type metaKey struct{}

// requestMeta is shared by the logging and auth middlewares so the request
// log line can carry the verified account id.
type requestMeta struct {
	userID string
}

func withMeta(ctx context.Context) (context.Context, *requestMeta) {
	meta := &requestMeta{}
	return context.WithValue(ctx, metaKey{}, meta), meta
}

func setMetaUserID(ctx context.Context, userID string) {
	if meta, ok := ctx.Value(metaKey{}).(*requestMeta); ok {
		meta.userID = userID
	}
}
