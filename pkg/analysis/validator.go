package analysis

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"NutriSnap-Backend/domain"
)

// MaxImageSize is the upload ceiling for food photos (10 MiB).
const MaxImageSize = 10 * 1024 * 1024

// EncodeImage validates a candidate food photo and produces the
// self-describing data URL the inference client consumes. The declared media
// type must be an image and the payload must not exceed MaxImageSize.
func EncodeImage(mediaType string, data []byte) (string, error) {
	if !strings.HasPrefix(mediaType, "image/") {
		return "", domain.ErrUnsupportedMediaType
	}
	if len(data) > MaxImageSize {
		return "", domain.ErrPayloadTooLarge
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mediaType, encoded), nil
}

// EncodeImageFile reads a multipart upload and encodes it. The declared
// Content-Type header is trusted; when absent it falls back to image/jpeg so
// camera uploads without headers still pass through.
func EncodeImageFile(file *multipart.FileHeader) (string, error) {
	mediaType := file.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return "", domain.ErrUnsupportedMediaType
	}
	if file.Size > MaxImageSize {
		return "", domain.ErrPayloadTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	return EncodeImage(mediaType, data)
}
