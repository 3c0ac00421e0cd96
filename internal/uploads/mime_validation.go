package uploads

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

var allowedImageNames = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPEG",
	"image/webp": "WebP",
	"image/gif":  "GIF",
}

// sniffImage detects the content type from the file bytes. The client
// supplied content type is never trusted.
func sniffImage(data []byte) (*mimetype.MIME, error) {
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return detected, nil
		}
	}
	return nil, fmt.Errorf("content type %s is not an accepted image", detected.String())
}

func allowedImageDescription() string {
	names := make([]string, 0, len(allowedImageTypes))
	for _, value := range allowedImageTypes {
		names = append(names, allowedImageNames[value])
	}
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
