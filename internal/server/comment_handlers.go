package server

import (
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /:username/:post_id/comment. The comment is
// attributed to the acting identity regardless of the payload; on
// success the client lands back on the post detail.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	username := c.Params("username")

	_, err = s.commentService.AddComment(c.UserContext(), actingUserID(c), username, postID, service.CommentInput{
		Text: c.FormValue("text"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
}
