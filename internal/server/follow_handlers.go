package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowAuthor handles POST /:username/follow/. Repeats and
// self-follows are silent no-ops; every outcome lands on the profile.
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	username := c.Params("username")

	if _, err := s.followService.Follow(c.UserContext(), actingUserID(c), username); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(username), fiber.StatusFound)
}

// UnfollowAuthor handles POST /:username/unfollow/.
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	username := c.Params("username")

	if _, err := s.followService.Unfollow(c.UserContext(), actingUserID(c), username); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(profilePath(username), fiber.StatusFound)
}
