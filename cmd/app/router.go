package app

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	handlers "tweetbook/internal/handler"
	"tweetbook/internal/metrics"
	"tweetbook/internal/middleware"
)

type RouterDeps struct {
	Handlers      *handlers.Handlers
	Tokens        middleware.TokenVerifier
	BindToAddress bool
	Metrics       middleware.HTTPRecorder
	Gatherer      prometheus.Gatherer
	RateLimiter   *middleware.RateLimiter
	Logger        *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	h := deps.Handlers
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "Not found", http.StatusNotFound)
	})
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler(deps.Gatherer)).Methods(http.MethodGet)

	auth := r.PathPrefix("/api/auth").Subrouter()
	if deps.RateLimiter != nil {
		auth.Use(deps.RateLimiter.Middleware)
	}
	auth.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/signin", h.Signin).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(deps.Tokens, deps.BindToAddress))

	api.HandleFunc("/tweets", h.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/user/tweet", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/user/tweet/{id}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/user/tweet/{id}", h.DeletePost).Methods(http.MethodDelete)
	api.HandleFunc("/user/tweet/{id}/like", h.LikePost).Methods(http.MethodPost)
	api.HandleFunc("/user/tweet/{id}/like", h.UnlikePost).Methods(http.MethodDelete)

	api.HandleFunc("/user/profile", h.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/user/profile/image", h.UploadProfileImage).Methods(http.MethodPost)
	api.HandleFunc("/user/profile/{id}", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/user/follow/{id}", h.Follow).Methods(http.MethodPost)
	api.HandleFunc("/user/follow/{id}", h.Unfollow).Methods(http.MethodDelete)
	api.HandleFunc("/users", h.SearchUsers).Methods(http.MethodGet)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return middleware.Chain(r,
		middleware.NewRecoveryMiddleware(),
		middleware.NewLoggingMiddleware(logger),
		middleware.CORSMiddleware,
	)
}
