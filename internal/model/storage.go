package model

import (
	"context"
	"io"
)

// Storage is an object store serving publicly readable files.
type Storage interface {
	Upload(ctx context.Context, object Object) error
	PublicURL(key string) string
}

// Object describes a file to upload.
type Object struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Public      bool
}
