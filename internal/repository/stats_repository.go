package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tweetbook/internal/models"
)

type statsRepository struct {
	db sqlx.ExtContext
}

func NewStatsRepository(db sqlx.ExtContext) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountDocuments(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	err := sqlx.GetContext(ctx, r.db, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM posts) AS posts
	`)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	return &stats, nil
}
