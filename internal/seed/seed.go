// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"plume/internal/cache"
	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var groupPresets = []struct {
	Title string
	Slug  string
}{
	{"Technology", "technology"},
	{"Travel", "travel"},
	{"Books", "books"},
	{"Music", "music"},
	{"Food", "food"},
	{"Science", "science"},
	{"Art", "art"},
	{"Sports", "sports"},
}

// Seed populates the database with demo users, groups, posts, comments
// and follows.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	groups, err := createOrGetGroups(db)
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("%d groups available", len(groups))

	posts, err := createPosts(db, users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createComments(db, users, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	if err := createFollows(db, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	var usernames []string
	if err := db.Model(&models.User{}).Pluck("username", &usernames).Error; err != nil {
		return err
	}
	var slugs []string
	if err := db.Model(&models.Group{}).Pluck("slug", &slugs).Error; err != nil {
		return err
	}

	// Delete in FK order so constraints never trip.
	for _, model := range []interface{}{
		&models.Comment{}, &models.Follow{}, &models.Post{}, &models.Group{}, &models.User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}

	// Anything cached for the deleted rows is now stale; drop it so a
	// reseeded database serves fresh profiles and group pages.
	ctx := context.Background()
	for _, username := range usernames {
		cache.InvalidateUser(ctx, username)
	}
	for _, slug := range slugs {
		cache.InvalidateGroup(ctx, slug)
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hash),
			Bio:      gofakeit.Sentence(8),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createOrGetGroups(db *gorm.DB) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, len(groupPresets))
	for _, preset := range groupPresets {
		group := &models.Group{
			Title:       preset.Title,
			Slug:        preset.Slug,
			Description: gofakeit.Sentence(10),
		}
		if err := db.Where(models.Group{Slug: preset.Slug}).FirstOrCreate(group).Error; err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func createPosts(db *gorm.DB, users []*models.User, groups []*models.Group, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := &models.Post{
			Text:     gofakeit.Paragraph(1, 3, 8, "\n"),
			AuthorID: author.ID,
			// spread creation times over the last 90 days
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		// roughly two thirds of posts belong to a group
		if rand.Intn(3) != 0 {
			post.GroupID = &groups[rand.Intn(len(groups))].ID
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			comment := &models.Comment{
				Text:     gofakeit.Sentence(12),
				PostID:   post.ID,
				AuthorID: users[rand.Intn(len(users))].ID,
			}
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createFollows(db *gorm.DB, users []*models.User) error {
	for _, user := range users {
		for i := 0; i < rand.Intn(4); i++ {
			author := users[rand.Intn(len(users))]
			if author.ID == user.ID {
				continue
			}
			follow := &models.Follow{UserID: user.ID, AuthorID: author.ID}
			if err := db.Where(models.Follow{UserID: user.ID, AuthorID: author.ID}).
				FirstOrCreate(follow).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
