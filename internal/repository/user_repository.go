package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tweetbook/internal/models"
	"tweetbook/internal/password"
	"tweetbook/internal/query"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

type userRepository struct {
	db     sqlx.ExtContext
	hasher password.Hasher
}

func NewUserRepository(db sqlx.ExtContext, hasher password.Hasher) UserRepository {
	return &userRepository{db: db, hasher: hasher}
}

// GetByID returns the account with posts, followers and following hydrated.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if uuid.Validate(id) != nil {
		return nil, models.ErrUserNotExists
	}

	stmt, args, err := query.HydratedAccount(id).Build()
	if err != nil {
		return nil, fmt.Errorf("build account pipeline: %w", err)
	}

	var account models.Account
	err = sqlx.GetContext(ctx, r.db, &account, stmt, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotExists
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	return &account, nil
}

func (r *userRepository) GetMinByID(ctx context.Context, id string) (*models.MinAccount, error) {
	if uuid.Validate(id) != nil {
		return nil, models.ErrUserNotExists
	}

	users, err := r.GetByQuery(ctx, query.Eq("user_id", id))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, models.ErrUserNotExists
	}

	return &users[0], nil
}

// GetByQuery is a filtered projection read without post hydration.
func (r *userRepository) GetByQuery(ctx context.Context, pred query.Predicate) ([]models.MinAccount, error) {
	stmt, args, err := query.MinAccounts(pred).Build()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	users := []models.MinAccount{}
	if err := sqlx.SelectContext(ctx, r.db, &users, stmt, args...); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	return users, nil
}

// Search matches usernames containing term, ignoring case.
func (r *userRepository) Search(ctx context.Context, term string) ([]models.MinAccount, error) {
	return r.GetByQuery(ctx, query.ContainsFold("username", term))
}

func (r *userRepository) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	return r.getCredentials(ctx, "email", email)
}

func (r *userRepository) GetCredentialsByID(ctx context.Context, id string) (*models.Credentials, error) {
	if uuid.Validate(id) != nil {
		return nil, models.ErrUserNotExists
	}
	return r.getCredentials(ctx, "user_id", id)
}

func (r *userRepository) getCredentials(ctx context.Context, column, value string) (*models.Credentials, error) {
	var creds models.Credentials

	stmt := `SELECT user_id, email, username, password_hash, active_ips, profile_img_url FROM users WHERE ` + column + ` = $1`

	err := sqlx.GetContext(ctx, r.db, &creds, stmt, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotExists
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	return &creds, nil
}

// Add stores a new account. The unique email constraint is the only
// duplicate check.
func (r *userRepository) Add(ctx context.Context, in models.SignupInput) (*models.MinAccount, error) {
	hashed, err := r.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	addresses := pq.StringArray{}
	if in.Address != "" {
		addresses = append(addresses, in.Address)
	}

	stmt := `
		INSERT INTO users (user_id, email, username, password_hash, active_ips)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, email, username, bio, profile_img_url
	`

	var account models.MinAccount
	err = sqlx.GetContext(ctx, r.db, &account, stmt, uuid.New().String(), in.Email, in.Username, hashed, addresses)
	if err != nil {
		if pqCode(err) == uniqueViolation {
			return nil, models.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &account, nil
}

// Update applies upd to one account atomically and returns its projection.
func (r *userRepository) Update(ctx context.Context, id string, upd *query.Update) (*models.MinAccount, error) {
	if upd.Collection() != query.Users {
		return nil, fmt.Errorf("update targets %s, not users", upd.Collection())
	}
	if uuid.Validate(id) != nil {
		return nil, models.ErrUserNotExists
	}

	stmt, args, err := upd.Build(id, query.MinAccountColumns...)
	if err != nil {
		return nil, fmt.Errorf("build user update: %w", err)
	}

	var account models.MinAccount
	err = sqlx.GetContext(ctx, r.db, &account, stmt, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotExists
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	return &account, nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
