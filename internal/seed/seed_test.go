package seed

import (
	"testing"

	"plume/internal/cache"
	"plume/internal/database"
	"plume/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestSeedCreatesEntities(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 20}))

	var users, groups, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)

	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(len(groupPresets)), groups)
	assert.Equal(t, int64(20), posts)
}

func TestSeedIsRerunnableWithClean(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 5}))
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 5, ShouldClean: true}))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}

func TestCleanDropsCachedProfilesAndGroups(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Seed(db, Options{NumUsers: 2, NumPosts: 0}))

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	var usernames []string
	require.NoError(t, db.Model(&models.User{}).Pluck("username", &usernames).Error)
	require.NotEmpty(t, usernames)
	for _, username := range usernames {
		require.NoError(t, mr.Set(cache.UserKey(username), "{}"))
	}
	require.NoError(t, mr.Set(cache.GroupKey(groupPresets[0].Slug), "{}"))

	require.NoError(t, Seed(db, Options{NumUsers: 2, NumPosts: 0, ShouldClean: true}))

	for _, username := range usernames {
		assert.False(t, mr.Exists(cache.UserKey(username)), "stale cache entry for %s", username)
	}
	assert.False(t, mr.Exists(cache.GroupKey(groupPresets[0].Slug)))
}

func TestSeedNeverSelfFollows(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 8, NumPosts: 0}))

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}
