package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"tweetbook/internal/models"
	"tweetbook/internal/query"
	"tweetbook/internal/repository"
)

const MaxPostLength = 280

type PostService interface {
	List(ctx context.Context, page repository.Page) ([]models.PostView, error)
	Get(ctx context.Context, postID string) (*models.PostView, error)
	Create(ctx context.Context, authorID, text string) (*models.PostView, error)
	Like(ctx context.Context, postID, userID string) (*models.PostView, error)
	Unlike(ctx context.Context, postID, userID string) (*models.PostView, error)
	Delete(ctx context.Context, postID, requesterID string) error
}

type postService struct {
	postRepo repository.PostRepository
	uow      repository.UnitOfWork
}

func NewPostService(postRepo repository.PostRepository, uow repository.UnitOfWork) PostService {
	return &postService{
		postRepo: postRepo,
		uow:      uow,
	}
}

func (p *postService) List(ctx context.Context, page repository.Page) ([]models.PostView, error) {
	return p.postRepo.GetAll(ctx, page)
}

func (p *postService) Get(ctx context.Context, postID string) (*models.PostView, error) {
	return p.postRepo.GetByID(ctx, postID)
}

// Create stores the post and appends it to the author's post list together.
func (p *postService) Create(ctx context.Context, authorID, text string) (*models.PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxPostLength {
		return nil, models.ErrWrongInfo
	}

	var post *models.PostView
	err := p.uow.WithinTx(ctx, func(s repository.Stores) error {
		var err error
		post, err = s.Post.Insert(ctx, text, authorID)
		if err != nil {
			return err
		}

		owner, err := s.User.Update(ctx, authorID, query.NewUpdate(query.Users).Push("posts", post.PostID))
		if err != nil {
			return err
		}
		post.Owner = &models.AccountRef{MinAccount: *owner}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) Like(ctx context.Context, postID, userID string) (*models.PostView, error) {
	if err := p.postRepo.Like(ctx, postID, userID); err != nil {
		return nil, err
	}
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) Unlike(ctx context.Context, postID, userID string) (*models.PostView, error) {
	if err := p.postRepo.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}
	return p.postRepo.GetByID(ctx, postID)
}

// Delete removes the post and its entry in the owner's list together. Only
// the owner may delete.
func (p *postService) Delete(ctx context.Context, postID, requesterID string) error {
	return p.uow.WithinTx(ctx, func(s repository.Stores) error {
		if err := s.Post.Delete(ctx, postID, requesterID); err != nil {
			return err
		}
		_, err := s.User.Update(ctx, requesterID, query.NewUpdate(query.Users).Pull("posts", postID))
		return err
	})
}
