package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/cloudblog/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

const postColumns = `post_id, title, content, author, image_url, created_at, updated_at`

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{
		db: db,
	}
}

// Put writes the full record, replacing any row with the same id.
func (r *PostRepository) Put(ctx context.Context, post model.Post) error {
	query := `INSERT INTO posts (` + postColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (post_id) DO UPDATE SET
			      title = EXCLUDED.title,
			      content = EXCLUDED.content,
			      author = EXCLUDED.author,
			      image_url = EXCLUDED.image_url,
			      created_at = EXCLUDED.created_at,
			      updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Content, post.Author, nullableString(post.ImageURL),
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put post: %w", err)
	}

	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// Scan returns every post. Row order is whatever the planner produces.
func (r *PostRepository) Scan(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`

	rows, err := r.db.Query(ctx, query)
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
	query, args := buildUpdate(id, update)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE post_id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func buildUpdate(id string, update model.PostUpdate) (string, []any) {
	sets := []string{"title = $2", "content = $3", "updated_at = $4"}
	args := []any{id, update.Title, update.Content, update.UpdatedAt}

	if update.ImageURL != "" {
		sets = append(sets, "image_url = $5")
		args = append(args, update.ImageURL)
	}

	return `UPDATE posts SET ` + strings.Join(sets, ", ") + ` WHERE post_id = $1`, args
}

func scanPost(row pgx.Row) (model.Post, error) {
	var post model.Post
	var imageURL *string

	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.Author, &imageURL,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return model.Post{}, err
	}

	if imageURL != nil {
		post.ImageURL = *imageURL
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()

	return post, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
