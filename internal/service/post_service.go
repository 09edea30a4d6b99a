// Package service holds the business logic: feed composition and the
// authorization gate in front of every mutating action. The acting
// identity is always an explicit parameter so tests can simulate any
// identity without a request harness.
package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/validation"
)

// PostInput is the client-controlled part of a post submission. The
// author is deliberately absent: it is always taken from the acting
// identity, so a tampered payload cannot attribute a post to someone else.
type PostInput struct {
	Text      string
	GroupSlug string
	ImagePath string
}

// PostService gates post creation and editing.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo, userRepo: userRepo}
}

// CreatePost persists a new post authored by actorID.
func (s *PostService) CreatePost(ctx context.Context, actorID uint, in PostInput) (*models.Post, error) {
	if errs := validation.ValidatePost(validation.PostInput{Text: in.Text, GroupSlug: in.GroupSlug}); len(errs) > 0 {
		return nil, models.NewFieldValidationError(errs)
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:      in.Text,
		AuthorID:  actorID,
		GroupID:   groupID,
		ImagePath: in.ImagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetForEdit resolves the post addressed as <username>/<post_id> and
// verifies the actor owns it. The post must actually live under the
// username in the address; an id under someone else's path is a
// NotFound before ownership even gets looked at.
func (s *PostService) GetForEdit(ctx context.Context, actorID uint, username string, postID uint) (*models.Post, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByAuthorAndID(ctx, author.ID, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	return post, nil
}

// UpdatePost applies field updates to an existing post. Only the post's
// author may edit; anyone else gets an unauthorized error the handler
// turns into a silent redirect.
func (s *PostService) UpdatePost(ctx context.Context, actorID uint, username string, postID uint, in PostInput) (*models.Post, error) {
	post, err := s.GetForEdit(ctx, actorID, username, postID)
	if err != nil {
		return nil, err
	}

	if errs := validation.ValidatePost(validation.PostInput{Text: in.Text, GroupSlug: in.GroupSlug}); len(errs) > 0 {
		return nil, models.NewFieldValidationError(errs)
	}

	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = groupID
	if in.ImagePath != "" {
		post.ImagePath = in.ImagePath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// resolveGroup maps a submitted slug to a group id. An unknown slug is
// a field error, not a 404: it came from a form select.
func (s *PostService) resolveGroup(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewFieldValidationError([]models.FieldError{
				{Field: "group", Message: "Unknown group"},
			})
		}
		return nil, err
	}
	return &group.ID, nil
}
