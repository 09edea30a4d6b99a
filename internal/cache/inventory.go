package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%s"
	GroupKeyPrefix    = "group:%s"
	HomeFeedKeyPrefix = "feed:home:%s"
)

const (
	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute

	// HomeFeedTTL is the fixed staleness window for the rendered home
	// feed. Nothing invalidates these entries on write; they simply lapse.
	HomeFeedTTL = 20 * time.Second
)

func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, username)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

// HomeFeedKey derives the response-cache key from the full request
// signature (path plus query string, page number included).
func HomeFeedKey(requestURI string) string {
	return fmt.Sprintf(HomeFeedKeyPrefix, requestURI)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, username string) {
	Invalidate(ctx, UserKey(username))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}
