package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tweetbook/internal/config"
	"tweetbook/internal/database"
	"tweetbook/internal/metrics"
	"tweetbook/internal/password"
	"tweetbook/internal/repository"
	"tweetbook/internal/service"
	"tweetbook/internal/storage"
)

type Application struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Metrics  *metrics.Collector
	Registry *prometheus.Registry
}

// App connects the store and object storage and wires every service.
// Object storage is optional: without it profile image uploads fail and
// everything else keeps working.
func App(ctx context.Context, cfg *config.Config) (*Application, error) {
	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	var objects storage.Storage
	minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		slog.Warn("object storage unavailable, profile image uploads disabled",
			slog.String("endpoint", cfg.MinIO.Endpoint),
			slog.String("error", err.Error()),
		)
	} else {
		objects = minioClient
	}

	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	repo := repository.NewRepository(db.DB, hasher, collector)
	services := service.NewService(repo, cfg, db, objects, hasher, collector)

	return &Application{
		DB:       db,
		Repo:     repo,
		Services: services,
		Metrics:  collector,
		Registry: registry,
	}, nil
}

func (a *Application) Close() {
	if err := a.DB.CloseDB(); err != nil {
		slog.Error("close database", slog.String("error", err.Error()))
	}
}
