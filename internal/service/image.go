package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
)

// Image uploads post images to public object storage.
type Image struct {
	storage model.Storage
	logger  *logger.Logger
}

func NewImage(storage model.Storage, logger *logger.Logger) *Image {
	return &Image{storage: storage, logger: logger}
}

// UploadImage stores the image under a fresh name and returns its public URL.
// The name keeps the lowercased extension of the original filename.
func (s *Image) UploadImage(ctx context.Context, r io.Reader, size int64, filename string) (string, error) {
	ext := extension(filename)
	key := uuid.NewString() + "." + ext

	s.logger.Debug("Image service: uploading image",
		"filename", filename,
		"key", key,
		"size", size)

	err := s.storage.Upload(ctx, model.Object{
		Key:         key,
		Body:        r,
		Size:        size,
		ContentType: "image/" + ext,
		Public:      true,
	})
	if err != nil {
		s.logger.Error("Image service: failed to upload image",
			"key", key,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := s.storage.PublicURL(key)

	s.logger.Info("Image service: image uploaded",
		"key", key,
		"url", url)

	return url, nil
}

// extension returns the text after the last dot of the file's base name,
// lowercased, or an empty string when there is no dot.
func extension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}
