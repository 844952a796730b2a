package model

import (
	"context"
	"time"
)

// PostStore defines persistence operations for posts.
type PostStore interface {
	Put(ctx context.Context, post Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	Scan(ctx context.Context) ([]Post, error)
	Update(ctx context.Context, id string, update PostUpdate) error
	Delete(ctx context.Context, id string) error
}

// Post represents a stored blog post.
type Post struct {
	ID        string
	Title     string
	Content   string
	Author    string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasImage reports whether an image was attached at creation or update.
func (p Post) HasImage() bool {
	return p.ImageURL != ""
}

// PostUpdate holds fields changed by a partial update.
// An empty ImageURL leaves the stored one untouched.
type PostUpdate struct {
	Title     string
	Content   string
	ImageURL  string
	UpdatedAt time.Time
}

// CreatePostParams contains parameters to create a post.
type CreatePostParams struct {
	Title    string
	Content  string
	Author   string
	ImageURL string
}

// UpdatePostParams contains parameters to update a post.
type UpdatePostParams struct {
	Title    string
	Content  string
	ImageURL string
}

// TimeLayout is a fixed-width, lexically sortable timestamp format used by
// stores that keep timestamps as strings.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
