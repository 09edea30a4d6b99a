package server

import (
	"errors"
	"strconv"

	"plume/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was
// already committed by a helper. Handlers must return nil (not this
// error) so the ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

// parsePage extracts the ?page query parameter. Anything missing or
// unparsable is page 1; out-of-range values are clamped downstream.
func parsePage(c *fiber.Ctx) int {
	return c.QueryInt("page", 1)
}

// parsePostID extracts the post_id route parameter as a positive uint.
// On failure it renders the 404 page and returns errResponseWritten.
func (s *Server) parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("post_id")
	if err != nil || id <= 0 {
		_ = s.NotFound(c)
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// actingUserID returns the authenticated user id, or 0 for anonymous.
func actingUserID(c *fiber.Ctx) uint {
	return middleware.UserID(c)
}

// postDetailPath builds the canonical detail location for redirects.
func postDetailPath(username string, postID uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(postID), 10) + "/"
}

// profilePath builds the canonical profile location for redirects.
func profilePath(username string) string {
	return "/" + username + "/"
}
