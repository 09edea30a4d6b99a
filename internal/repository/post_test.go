package repository

import (
	"context"
	"testing"
	"time"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListAllOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "anna")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		post := &models.Post{
			Text:      "post",
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(post).Error)
	}

	posts, err := repo.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))
	assert.True(t, posts[1].CreatedAt.After(posts[2].CreatedAt))
	assert.Equal(t, "anna", posts[0].Author.Username)
}

func TestPostRepository_EqualTimestampsBreakTiesByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "anna")
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Post{Text: "t", AuthorID: author.ID, CreatedAt: ts}).Error)
	}

	posts, err := repo.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Greater(t, posts[0].ID, posts[1].ID)
	assert.Greater(t, posts[1].ID, posts[2].ID)
}

func TestPostRepository_ListByGroupFiltersBySlugMembership(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "anna")
	cats := createTestGroup(t, db, "cats")
	dogs := createTestGroup(t, db, "dogs")

	require.NoError(t, db.Create(&models.Post{Text: "about cats", AuthorID: author.ID, GroupID: &cats.ID}).Error)
	require.NoError(t, db.Create(&models.Post{Text: "about dogs", AuthorID: author.ID, GroupID: &dogs.ID}).Error)
	require.NoError(t, db.Create(&models.Post{Text: "no group", AuthorID: author.ID}).Error)

	posts, err := repo.ListByGroup(ctx, cats.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "about cats", posts[0].Text)
	require.NotNil(t, posts[0].Group)
	assert.Equal(t, "cats", posts[0].Group.Slug)

	count, err := repo.CountByGroup(ctx, cats.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostRepository_ListByGroupEmptyIsValid(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	empty := createTestGroup(t, db, "empty")

	posts, err := repo.ListByGroup(ctx, empty.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_ListFollowedJoinsThroughFollows(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	viewer := createTestUser(t, db, "viewer")
	followed := createTestUser(t, db, "followed")
	stranger := createTestUser(t, db, "stranger")

	require.NoError(t, db.Create(&models.Post{Text: "from followed", AuthorID: followed.ID}).Error)
	require.NoError(t, db.Create(&models.Post{Text: "from stranger", AuthorID: stranger.ID}).Error)
	require.NoError(t, followRepo.Follow(ctx, viewer.ID, followed.ID))

	posts, err := repo.ListFollowed(ctx, viewer.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from followed", posts[0].Text)

	count, err := repo.CountFollowed(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The author's own feed of followed posts is empty until they follow someone.
	posts, err = repo.ListFollowed(ctx, followed.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_GetByAuthorAndID(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")
	leo := createTestUser(t, db, "leo")
	post := &models.Post{Text: "mine", AuthorID: anna.ID}
	require.NoError(t, db.Create(post).Error)

	found, err := repo.GetByAuthorAndID(ctx, anna.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", found.Text)

	// The same id under another author's path does not resolve.
	_, err = repo.GetByAuthorAndID(ctx, leo.ID, post.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostRepository_CountByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	anna := createTestUser(t, db, "anna")
	leo := createTestUser(t, db, "leo")
	for i := 0; i < 4; i++ {
		require.NoError(t, db.Create(&models.Post{Text: "p", AuthorID: anna.ID}).Error)
	}
	require.NoError(t, db.Create(&models.Post{Text: "p", AuthorID: leo.ID}).Error)

	count, err := repo.CountByAuthor(ctx, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
