package server

import (
	"mime/multipart"

	"plume/internal/models"
	"plume/internal/service"
	"plume/internal/storage"
	"plume/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// FormField describes one input in a form descriptor, mirroring what a
// server-rendered form would carry.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	HelpText string   `json:"help_text"`
	Required bool     `json:"required"`
	Value    string   `json:"value,omitempty"`
	Choices  []Choice `json:"choices,omitempty"`
}

// Choice is one option of a select field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (s *Server) postFormDescriptor(c *fiber.Ctx, text, groupSlug string) (fiber.Map, error) {
	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, len(groups)+1)
	choices = append(choices, Choice{Value: "", Label: "---------"})
	for _, g := range groups {
		choices = append(choices, Choice{Value: g.Slug, Label: g.Title})
	}

	return fiber.Map{
		"fields": []FormField{
			{Name: "group", Label: "Group", HelpText: "The group for this post", Value: groupSlug, Choices: choices},
			{Name: "text", Label: "Text", HelpText: "The text of this post", Required: true, Value: text},
			{Name: "image", Label: "Image", HelpText: "An image for this post"},
		},
	}, nil
}

func commentFormDescriptor() fiber.Map {
	return fiber.Map{
		"fields": []FormField{
			{Name: "text", Label: "Text", HelpText: "The text of this comment", Required: true},
		},
	}
}

// NewPostForm handles GET /new/, describing the blank post form.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	form, err := s.postFormDescriptor(c, "", "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

// CreatePost handles POST /new/. The body is a multipart form with
// text, an optional group slug and an optional image. On success the
// client is redirected to the home feed.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := actingUserID(c)

	imagePath, err := s.storeUploadedImage(c)
	if err != nil {
		return respondError(c, err)
	}

	_, err = s.postService.CreatePost(c.UserContext(), userID, service.PostInput{
		Text:      c.FormValue("text"),
		GroupSlug: c.FormValue("group"),
		ImagePath: imagePath,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// EditPostForm handles GET /:username/:post_id/edit/. Only the author
// sees the prefilled form; anyone else lands back on the post detail.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	username := c.Params("username")

	post, err := s.postService.GetForEdit(c.UserContext(), actingUserID(c), username, postID)
	if err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
		}
		return respondError(c, err)
	}

	groupSlug := ""
	if post.Group != nil {
		groupSlug = post.Group.Slug
	}
	form, err := s.postFormDescriptor(c, post.Text, groupSlug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

// UpdatePost handles POST /:username/:post_id/edit/. A non-owner's
// submission is silently redirected to the detail page, unchanged. The
// edit gate runs before the image upload so a denied edit leaves
// nothing behind in the blob store.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parsePostID(c)
	if err != nil {
		return nil
	}
	username := c.Params("username")
	userID := actingUserID(c)

	if _, err := s.postService.GetForEdit(c.UserContext(), userID, username, postID); err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
		}
		return respondError(c, err)
	}

	imagePath, err := s.storeUploadedImage(c)
	if err != nil {
		return respondError(c, err)
	}

	_, err = s.postService.UpdatePost(c.UserContext(), userID, username, postID, service.PostInput{
		Text:      c.FormValue("text"),
		GroupSlug: c.FormValue("group"),
		ImagePath: imagePath,
	})
	if err != nil {
		if models.IsCode(err, models.CodeUnauthorized) {
			return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
		}
		return respondError(c, err)
	}

	return c.Redirect(postDetailPath(username, postID), fiber.StatusFound)
}

// storeUploadedImage validates and persists the optional image part of
// a post form. It returns the stored object path, or "" when no file
// was attached.
func (s *Server) storeUploadedImage(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No file attached is the common case, not an error.
		return "", nil
	}

	if errs := validation.ValidateImage(validation.ImageUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
	}); len(errs) > 0 {
		return "", models.NewFieldValidationError(errs)
	}

	if s.blobs == nil {
		return "", models.NewValidationError("Image uploads are not available")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer file.Close()

	objectPath := storage.PostImagePath(fileHeader.Filename)
	if err := s.blobs.Save(c.UserContext(), objectPath, file, fileHeader.Size, contentTypeOf(fileHeader)); err != nil {
		return "", models.NewInternalError(err)
	}
	return objectPath, nil
}

func contentTypeOf(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
