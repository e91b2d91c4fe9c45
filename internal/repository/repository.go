package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tweetbook/internal/models"
	"tweetbook/internal/password"
	"tweetbook/internal/query"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetMinByID(ctx context.Context, id string) (*models.MinAccount, error)
	GetByQuery(ctx context.Context, pred query.Predicate) ([]models.MinAccount, error)
	Search(ctx context.Context, term string) ([]models.MinAccount, error)
	GetCredentials(ctx context.Context, email string) (*models.Credentials, error)
	GetCredentialsByID(ctx context.Context, id string) (*models.Credentials, error)
	Add(ctx context.Context, in models.SignupInput) (*models.MinAccount, error)
	Update(ctx context.Context, id string, upd *query.Update) (*models.MinAccount, error)
}

type PostRepository interface {
	GetAll(ctx context.Context, page Page) ([]models.PostView, error)
	GetByQuery(ctx context.Context, pred query.Predicate, page Page) ([]models.PostView, error)
	GetByID(ctx context.Context, postID string) (*models.PostView, error)
	Insert(ctx context.Context, text, authorID string) (*models.PostView, error)
	Like(ctx context.Context, postID, accountID string) error
	Unlike(ctx context.Context, postID, accountID string) error
	Delete(ctx context.Context, postID, requesterID string) error
}

type StatsRepository interface {
	CountDocuments(ctx context.Context) (*models.Stats, error)
}

// Stores are the repositories bound to one unit of work.
type Stores struct {
	User UserRepository
	Post PostRepository
}

// UnitOfWork runs fn against transaction-scoped repositories. Everything fn
// writes is committed together, or rolled back when fn returns an error.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}

// TxObserver is told how each unit of work ended.
type TxObserver interface {
	ObserveTx(committed bool)
}

// Page bounds a listing. Zero values mean no bound.
type Page struct {
	Limit  int
	Offset int
}

type Repository struct {
	User  UserRepository
	Post  PostRepository
	Stats StatsRepository

	db       *sqlx.DB
	hasher   password.Hasher
	observer TxObserver
}

func NewRepository(db *sqlx.DB, hasher password.Hasher, observer TxObserver) *Repository {
	return &Repository{
		User:     NewUserRepository(db, hasher),
		Post:     NewPostRepository(db),
		Stats:    NewStatsRepository(db),
		db:       db,
		hasher:   hasher,
		observer: observer,
	}
}

func (r *Repository) WithinTx(ctx context.Context, fn func(s Stores) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback()

	stores := Stores{
		User: NewUserRepository(tx, r.hasher),
		Post: NewPostRepository(tx),
	}
	if err := fn(stores); err != nil {
		r.observe(false)
		return err
	}

	if err := tx.Commit(); err != nil {
		r.observe(false)
		return fmt.Errorf("commit transaction: %w", err)
	}
	r.observe(true)
	return nil
}

func (r *Repository) observe(committed bool) {
	if r.observer != nil {
		r.observer.ObserveTx(committed)
	}
}
