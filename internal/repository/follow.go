package repository

import (
	"context"

	"plume/internal/models"
	"plume/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID uint) error
	Unfollow(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the pair with ON CONFLICT DO NOTHING so concurrent
// identical requests land on the unique index instead of erroring.
func (r *followRepository) Follow(ctx context.Context, userID, authorID uint) error {
	defer observability.TrackQuery("create", "follows")()
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (user_id, author_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, author_id) DO NOTHING`,
		userID, authorID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	return nil
}

// Unfollow deletes the pair if present; a missing row is not an error.
func (r *followRepository) Unfollow(ctx context.Context, userID, authorID uint) error {
	defer observability.TrackQuery("delete", "follows")()
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	defer observability.TrackQuery("get", "follows")()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
