package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/validation"
)

// CommentInput is the client-controlled part of a comment submission.
type CommentInput struct {
	Text string
}

// CommentService gates comment creation.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, userRepo: userRepo}
}

// AddComment persists a comment on the post addressed as
// <username>/<post_id>, authored by actorID regardless of payload.
func (s *CommentService) AddComment(ctx context.Context, actorID uint, username string, postID uint, in CommentInput) (*models.Comment, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByAuthorAndID(ctx, author.ID, postID)
	if err != nil {
		return nil, err
	}

	if errs := validation.ValidateComment(validation.CommentInput{Text: in.Text}); len(errs) > 0 {
		return nil, models.NewFieldValidationError(errs)
	}

	comment := &models.Comment{
		Text:     in.Text,
		PostID:   post.ID,
		AuthorID: actorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
