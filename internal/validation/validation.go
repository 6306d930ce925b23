// Package validation wraps go-playground/validator for request binding and
// holds the upload constraints enforced before any file is stored.
package validation

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	// MaxFilesPerUpload caps a single proof version.
	MaxFilesPerUpload = 20
	// MaxFileSize is the per-file byte limit (10 MB).
	MaxFileSize = 10 * 1024 * 1024
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// AllowedMimeType reports whether files of the given content type may be
// uploaded as proofs.
func AllowedMimeType(mimeType string) bool {
	return allowedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

// New builds the validator shared by all handlers.
func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// BindAndValidate binds the JSON body into out and runs struct validation,
// returning a message suitable for a 400 response.
func BindAndValidate(c *gin.Context, out interface{}, v *validator.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := v.Struct(out); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, "; "))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
