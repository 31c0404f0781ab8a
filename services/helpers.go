package services

import (
	"fmt"
	"strings"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/storage"
)

// --- Общие хелперы ---

func populateUserDetailsFunc(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = "" // Важно для безопасности
	if user.LogoKey != nil && *user.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.LogoKey)
		if url != "" {
			user.LogoURL = &url
		}
	}
}

// GetExtensionFromContentType определяет расширение файла по MIME-типу загрузки.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			// Убираем возможные суффиксы типа "+xml" (например, "image/svg+xml")
			ext := "." + strings.Split(parts[1], "+")[0]
			return ext, nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
