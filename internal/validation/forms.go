// Package validation holds the per-entity input validators. Each validator
// returns a list of field errors instead of failing on the first problem,
// so forms can be re-rendered with every message at once.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"plume/internal/models"
)

const (
	// MaxTextLen caps post and comment bodies.
	MaxTextLen = 50000

	// MaxImageBytes caps uploaded image size.
	MaxImageBytes = 5 << 20
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// PostInput is the client-controlled part of a post submission. The author
// never appears here; it comes from the acting identity.
type PostInput struct {
	Text      string
	GroupSlug string
}

// CommentInput is the client-controlled part of a comment submission.
type CommentInput struct {
	Text string
}

// ImageUpload describes an uploaded file without carrying its bytes.
type ImageUpload struct {
	Filename string
	Size     int64
}

// ValidatePost checks a post submission. A nil result means valid.
func ValidatePost(in PostInput) []models.FieldError {
	var errs []models.FieldError
	if strings.TrimSpace(in.Text) == "" {
		errs = append(errs, models.FieldError{Field: "text", Message: "Text is required"})
	} else if len(in.Text) > MaxTextLen {
		errs = append(errs, models.FieldError{Field: "text", Message: fmt.Sprintf("Text too long (max %d characters)", MaxTextLen)})
	}
	return errs
}

// ValidateComment checks a comment submission. A nil result means valid.
func ValidateComment(in CommentInput) []models.FieldError {
	var errs []models.FieldError
	if strings.TrimSpace(in.Text) == "" {
		errs = append(errs, models.FieldError{Field: "text", Message: "Text is required"})
	} else if len(in.Text) > MaxTextLen {
		errs = append(errs, models.FieldError{Field: "text", Message: fmt.Sprintf("Text too long (max %d characters)", MaxTextLen)})
	}
	return errs
}

// ValidateImage checks an uploaded image's extension and size.
func ValidateImage(in ImageUpload) []models.FieldError {
	var errs []models.FieldError
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		errs = append(errs, models.FieldError{Field: "image", Message: "Unsupported image format (use jpg, jpeg, png, gif, or webp)"})
	}
	if in.Size > MaxImageBytes {
		errs = append(errs, models.FieldError{Field: "image", Message: "Image too large (max 5 MiB)"})
	}
	if in.Size <= 0 {
		errs = append(errs, models.FieldError{Field: "image", Message: "Image file is empty"})
	}
	return errs
}
