package service

import (
	"context"
	"testing"
	"time"

	"plume/internal/models"
	"plume/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreateForcesAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	actor := createUser(t, db, "anna")
	createUser(t, db, "victim")

	post, err := svc.CreatePost(ctx, actor.ID, PostInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, post.AuthorID)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, actor.ID, stored.AuthorID)
	assert.Equal(t, "hello", stored.Text)
}

func TestPostService_CreateResolvesGroupSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	actor := createUser(t, db, "anna")
	cats := createGroup(t, db, "cats")

	post, err := svc.CreatePost(ctx, actor.ID, PostInput{Text: "meow", GroupSlug: "cats"})
	require.NoError(t, err)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, cats.ID, *post.GroupID)

	// Unknown slug is a field error, not a 404.
	_, err = svc.CreatePost(ctx, actor.ID, PostInput{Text: "meow", GroupSlug: "ghosts"})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestPostService_CreateRejectsEmptyTextWithoutPersisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	actor := createUser(t, db, "anna")

	_, err := svc.CreatePost(ctx, actor.ID, PostInput{Text: "   "})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostService_UpdateOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	intruder := createUser(t, db, "intruder")
	post := createPost(t, db, owner.ID, "original", time.Now())

	// A non-owner's edit is refused and nothing changes.
	_, err := svc.UpdatePost(ctx, intruder.ID, "owner", post.ID, PostInput{Text: "hijacked"})
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "original", stored.Text)
	assert.Equal(t, owner.ID, stored.AuthorID)

	updated, err := svc.UpdatePost(ctx, owner.ID, "owner", post.ID, PostInput{Text: "revised"})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Text)
	assert.Equal(t, owner.ID, updated.AuthorID)
}

func TestPostService_UpdateCanMoveBetweenGroups(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	cats := createGroup(t, db, "cats")
	createGroup(t, db, "dogs")

	post, err := svc.CreatePost(ctx, owner.ID, PostInput{Text: "p", GroupSlug: "cats"})
	require.NoError(t, err)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, cats.ID, *post.GroupID)

	updated, err := svc.UpdatePost(ctx, owner.ID, "owner", post.ID, PostInput{Text: "p"})
	require.NoError(t, err)
	assert.Nil(t, updated.GroupID)
}

func TestPostService_UpdateUnknownPostIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))

	actor := createUser(t, db, "anna")
	_, err := svc.UpdatePost(context.Background(), actor.ID, "anna", 9999, PostInput{Text: "x"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostService_UpdateWrongUsernameIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	createUser(t, db, "other")
	post := createPost(t, db, owner.ID, "original", time.Now())

	// The post exists, but not under this username: a 404, even for
	// the true author, before ownership is considered.
	_, err := svc.UpdatePost(ctx, owner.ID, "other", post.ID, PostInput{Text: "moved"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "original", stored.Text)
}
