package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name      string
		input     PostInput
		wantField string
	}{
		{name: "valid", input: PostInput{Text: "hello world"}},
		{name: "empty text", input: PostInput{Text: ""}, wantField: "text"},
		{name: "whitespace only", input: PostInput{Text: "   \n\t"}, wantField: "text"},
		{name: "too long", input: PostInput{Text: strings.Repeat("a", MaxTextLen+1)}, wantField: "text"},
		{name: "group without text still fails on text", input: PostInput{GroupSlug: "cats"}, wantField: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePost(tt.input)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	assert.Empty(t, ValidateComment(CommentInput{Text: "nice post"}))

	errs := ValidateComment(CommentInput{Text: " "})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "text", errs[0].Field)
	}
}

func TestValidateImage(t *testing.T) {
	assert.Empty(t, ValidateImage(ImageUpload{Filename: "cat.PNG", Size: 1024}))
	assert.Empty(t, ValidateImage(ImageUpload{Filename: "dog.jpeg", Size: MaxImageBytes}))

	errs := ValidateImage(ImageUpload{Filename: "malware.exe", Size: 1024})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "image", errs[0].Field)
	}

	errs = ValidateImage(ImageUpload{Filename: "big.png", Size: MaxImageBytes + 1})
	assert.Len(t, errs, 1)

	// Bad extension and empty file: both problems reported.
	errs = ValidateImage(ImageUpload{Filename: "nothing.txt", Size: 0})
	assert.Len(t, errs, 2)
}
