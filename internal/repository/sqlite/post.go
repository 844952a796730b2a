package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/cloudblog/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

const postColumns = `post_id, title, content, author, image_url, created_at, updated_at`

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Put(ctx context.Context, post model.Post) error {
	query := `INSERT OR REPLACE INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	var imageURL sql.NullString
	if post.ImageURL != "" {
		imageURL = sql.NullString{String: post.ImageURL, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.Author, imageURL,
		formatTime(post.CreatedAt), formatTime(post.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to put post: %w", err)
	}

	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = ?`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

func (r *PostRepository) Scan(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, update model.PostUpdate) error {
	sets := []string{"title = ?", "content = ?", "updated_at = ?"}
	args := []any{update.Title, update.Content, formatTime(update.UpdatedAt)}

	if update.ImageURL != "" {
		sets = append(sets, "image_url = ?")
		args = append(args, update.ImageURL)
	}
	args = append(args, id)

	query := `UPDATE posts SET ` + strings.Join(sets, ", ") + ` WHERE post_id = ?`

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE post_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (model.Post, error) {
	var (
		post                 model.Post
		imageURL             sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.Author, &imageURL, &createdAt, &updatedAt)
	if err != nil {
		return model.Post{}, err
	}

	post.ImageURL = imageURL.String

	if post.CreatedAt, err = time.Parse(model.TimeLayout, createdAt); err != nil {
		return model.Post{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if post.UpdatedAt, err = time.Parse(model.TimeLayout, updatedAt); err != nil {
		return model.Post{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return post, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(model.TimeLayout)
}
