package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
)

// FollowService gates follow/unfollow. Both operations are idempotent
// and both silently skip self-follows: the caller still gets redirected
// to the profile, with no error surfaced.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow subscribes actorID to the author's posts.
func (s *FollowService) Follow(ctx context.Context, actorID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if author.ID == actorID {
		return author, nil
	}

	if err := s.followRepo.Follow(ctx, actorID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow removes the subscription if it exists.
func (s *FollowService) Unfollow(ctx context.Context, actorID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if author.ID == actorID {
		return author, nil
	}

	if err := s.followRepo.Unfollow(ctx, actorID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}
