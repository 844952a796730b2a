package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
)

// Post implements post use cases over a PostStore.
type Post struct {
	store     model.PostStore
	publisher model.EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewPost creates the post service. publisher may be nil, in which case no
// events are sent.
func NewPost(store model.PostStore, publisher model.EventPublisher, logger *logger.Logger) *Post {
	return &Post{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Post) CreatePost(ctx context.Context, params model.CreatePostParams) (string, error) {
	s.logger.Debug("Post service: creating post",
		"author", params.Author,
		"has_image", params.ImageURL != "")

	now := s.now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		Title:     params.Title,
		Content:   params.Content,
		Author:    params.Author,
		ImageURL:  params.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.Put(ctx, post)
	if err != nil {
		s.logger.Error("Post service: failed to store post",
			"post_id", post.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to store post: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
			s.logger.Error("Post service: failed to publish post created event",
				"post_id", post.ID,
				"error", err.Error())
		}
	}

	s.logger.Info("Post service: post created",
		"post_id", post.ID,
		"author", post.Author)

	return post.ID, nil
}

// GetPost returns false with a nil error when no post has the id.
func (s *Post) GetPost(ctx context.Context, id string) (model.Post, bool, error) {
	post, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Post{}, false, nil
	}
	if err != nil {
		s.logger.Error("Post service: failed to get post",
			"post_id", id,
			"error", err.Error())
		return model.Post{}, false, fmt.Errorf("failed to get post: %w", err)
	}

	return post, true, nil
}

// ListPosts returns every post in no particular order.
func (s *Post) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.store.Scan(ctx)
	if err != nil {
		s.logger.Error("Post service: failed to list posts",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// UpdatePost overwrites title and content and refreshes the update time.
// The image is replaced only when params carries one.
func (s *Post) UpdatePost(ctx context.Context, id string, params model.UpdatePostParams) error {
	s.logger.Debug("Post service: updating post",
		"post_id", id)

	err := s.store.Update(ctx, id, model.PostUpdate{
		Title:     params.Title,
		Content:   params.Content,
		ImageURL:  params.ImageURL,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("Post service: failed to update post",
			"post_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Info("Post service: post updated",
		"post_id", id)

	return nil
}

// DeletePost removes the post. The attached image, if any, stays in storage.
func (s *Post) DeletePost(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Post service: failed to delete post",
			"post_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("Post service: post deleted",
		"post_id", id)

	return nil
}
