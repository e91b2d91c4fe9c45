package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"tweetbook/internal/config"
)

type DB struct {
	*sqlx.DB
}

func ConnectDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	slog.Info("connecting to database", slog.String("host", cfg.DB.DbHOST), slog.String("dbname", cfg.DB.DbNAME))

	if cfg.DB.Migrate {
		if err := RunMigrations(cfg.DB.DSN()); err != nil {
			return nil, err
		}
		slog.Info("migrations applied")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{db}
	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check: %w", err)
	}

	slog.Info("connected to PostgreSQL")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialised")
	}

	return db.PingContext(ctx)
}
