package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tweetbook/internal/models"
	"tweetbook/internal/query"
)

type postRepository struct {
	db sqlx.ExtContext
}

func NewPostRepository(db sqlx.ExtContext) PostRepository {
	return &postRepository{db: db}
}

func pageStages(page Page) []query.Stage {
	stages := []query.Stage{query.SortBy("created_at", true)}
	if page.Limit > 0 {
		stages = append(stages, query.Limit(page.Limit))
	}
	if page.Offset > 0 {
		stages = append(stages, query.Skip(page.Offset))
	}
	return stages
}

// GetAll lists posts newest first with owners and likers joined.
func (r *postRepository) GetAll(ctx context.Context, page Page) ([]models.PostView, error) {
	return r.list(ctx, query.HydratedPosts(pageStages(page)...))
}

func (r *postRepository) GetByQuery(ctx context.Context, pred query.Predicate, page Page) ([]models.PostView, error) {
	stages := append([]query.Stage{query.Match(pred)}, pageStages(page)...)
	return r.list(ctx, query.HydratedPosts(stages...))
}

func (r *postRepository) list(ctx context.Context, p query.Pipeline) ([]models.PostView, error) {
	stmt, args, err := p.Build()
	if err != nil {
		return nil, fmt.Errorf("build post pipeline: %w", err)
	}

	posts := []models.PostView{}
	if err := sqlx.SelectContext(ctx, r.db, &posts, stmt, args...); err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.PostView, error) {
	if uuid.Validate(postID) != nil {
		return nil, models.ErrPostNotExists
	}

	stmt, args, err := query.HydratedPosts(query.MatchByID(postID)).Build()
	if err != nil {
		return nil, fmt.Errorf("build post pipeline: %w", err)
	}

	var post models.PostView
	err = sqlx.GetContext(ctx, r.db, &post, stmt, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPostNotExists
		}
		return nil, fmt.Errorf("get post %s: %w", postID, err)
	}

	return &post, nil
}

// Insert stores the post row only. Linking it onto the author's post list is
// the caller's second step.
func (r *postRepository) Insert(ctx context.Context, text, authorID string) (*models.PostView, error) {
	if uuid.Validate(authorID) != nil {
		return nil, models.ErrUserNotExists
	}

	post := &models.PostView{
		PostID:    uuid.New().String(),
		Text:      text,
		AuthorID:  authorID,
		Likes:     models.AccountList{},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	post.UpdatedAt = post.CreatedAt

	stmt := `
		INSERT INTO posts (post_id, text, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, stmt, post.PostID, post.Text, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		switch pqCode(err) {
		case foreignKeyViolation:
			return nil, models.ErrUserNotExists
		case checkViolation:
			return nil, models.ErrWrongInfo
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// Like adds accountID to the like-set. Liking twice is a no-op.
func (r *postRepository) Like(ctx context.Context, postID, accountID string) error {
	return r.updateLikes(ctx, postID, query.NewUpdate(query.Posts).AddToSet("likes", accountID).
		Set("updated_at", time.Now().UTC().Truncate(time.Microsecond)))
}

// Unlike pulls accountID from the like-set. Unliking when absent is a no-op.
func (r *postRepository) Unlike(ctx context.Context, postID, accountID string) error {
	return r.updateLikes(ctx, postID, query.NewUpdate(query.Posts).Pull("likes", accountID).
		Set("updated_at", time.Now().UTC().Truncate(time.Microsecond)))
}

func (r *postRepository) updateLikes(ctx context.Context, postID string, upd *query.Update) error {
	if uuid.Validate(postID) != nil {
		return models.ErrPostNotExists
	}

	stmt, args, err := upd.Build(postID)
	if err != nil {
		return fmt.Errorf("build like update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update likes of post %s: %w", postID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrPostNotExists
	}

	return nil
}

// Delete removes the post only when requesterID owns it. When nothing was
// removed it tells a missing post apart from a foreign one.
func (r *postRepository) Delete(ctx context.Context, postID, requesterID string) error {
	if uuid.Validate(postID) != nil {
		return models.ErrPostNotExists
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1 AND author_id = $2`, postID, requesterID)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var authorID string
	err = sqlx.GetContext(ctx, r.db, &authorID, `SELECT author_id FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrPostNotExists
		}
		return fmt.Errorf("get post owner: %w", err)
	}

	return models.ErrUnauthorized
}
