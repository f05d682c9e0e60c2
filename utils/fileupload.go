package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UploadDir returns the root directory for uploaded files.
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "Uploads"
}

// SaveIcon stores a category icon under Uploads/icons and returns the public
// path. Only image files are accepted.
func SaveIcon(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errors.New("icon must be an image file")
	}

	dir := filepath.Join(UploadDir(), "icons")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	dst := filepath.Join(dir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("error saving icon: %w", err)
	}

	return "/uploads/icons/" + filename, nil
}
