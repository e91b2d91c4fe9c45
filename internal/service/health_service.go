package service

import (
	"context"
	"fmt"

	"tweetbook/internal/models"
	"tweetbook/internal/repository"
)

type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthService interface {
	Check(ctx context.Context) (*models.Stats, error)
}

type healthService struct {
	pinger    Pinger
	statsRepo repository.StatsRepository
}

func NewHealthService(pinger Pinger, statsRepo repository.StatsRepository) HealthService {
	return &healthService{pinger: pinger, statsRepo: statsRepo}
}

// Check pings the store and counts the documents of each collection.
func (h *healthService) Check(ctx context.Context) (*models.Stats, error) {
	if err := h.pinger.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}

	return h.statsRepo.CountDocuments(ctx)
}
