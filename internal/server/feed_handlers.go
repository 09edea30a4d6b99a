package server

import (
	"encoding/json"

	"plume/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed handles GET /. The serialized page is cached for a short
// TTL keyed by path plus query string, so /?page=1 and /?page=2 cache
// independently. Entries expire on their own; nothing invalidates them,
// and a fresh post may take up to the TTL to appear here.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	key := cache.HomeFeedKey(c.OriginalURL())

	if body, ok := s.homeCache.Get(ctx, key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}

	page, err := s.feedService.Home(ctx, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}

	body, err := json.Marshal(page)
	if err != nil {
		return respondError(c, err)
	}
	s.homeCache.Store(ctx, key, body)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GroupFeed handles GET /group/:slug/.
func (s *Server) GroupFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.Group(c.UserContext(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// FollowingFeed handles GET /follow/, the feed of followed authors.
func (s *Server) FollowingFeed(c *fiber.Ctx) error {
	page, err := s.feedService.Following(c.UserContext(), actingUserID(c), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// Profile handles GET /:username/.
func (s *Server) Profile(c *fiber.Ctx) error {
	profile, err := s.feedService.Profile(c.UserContext(), c.Params("username"), actingUserID(c), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// PostDetail handles GET /:username/:post_id/.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}

	detail, err := s.feedService.PostDetail(c.UserContext(), c.Params("username"), postID, actingUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":        detail.Post,
		"comments":    detail.Comments,
		"posts_count": detail.PostsCount,
		"following":   detail.Following,
		"form":        commentFormDescriptor(),
	})
}
