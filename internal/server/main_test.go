package server

import (
	"strconv"
	"testing"
	"time"

	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "handler-test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Env:       "test",
		JWTSecret: testJWTSecret,
		LoginURL:  "/auth/login/",
	}
}

// newTestApp builds a full app over an in-memory database, with Redis
// and the blob store absent. The real middleware stack and route table
// are used, so auth redirects and route ordering are under test too.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	srv, err := NewServerWithDeps(testConfig(), db, nil, nil)
	require.NoError(t, err)
	return srv.NewApp(), db
}

// authHeader returns the Authorization header value for the given user.
func authHeader(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{
		Title:       slug + " group",
		Slug:        slug,
		Description: "about " + slug,
	}
	require.NoError(t, db.Create(group).Error)
	return group
}

func createPost(t *testing.T, db *gorm.DB, authorID uint, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: authorID}
	require.NoError(t, db.Create(post).Error)
	return post
}
