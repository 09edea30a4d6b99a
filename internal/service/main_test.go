package service

import (
	"testing"
	"time"

	"plume/internal/database"
	"plume/internal/models"
	"plume/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newFeedService(db *gorm.DB) *FeedService {
	return NewFeedService(
		repository.NewPostRepository(db),
		repository.NewGroupRepository(db),
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
		repository.NewCommentRepository(db),
	)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "pw"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Slug: slug, Title: "Group " + slug}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return group
}

func createPost(t *testing.T, db *gorm.DB, authorID uint, text string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: authorID, CreatedAt: createdAt}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
