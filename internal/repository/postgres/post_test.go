package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/cloudblog/internal/model"
)

func TestNewPostRepository(t *testing.T) {
	db := &Connection{}
	repo := NewPostRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		update    model.PostUpdate
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "without image keeps stored url",
			update:    model.PostUpdate{Title: "t", Content: "c", UpdatedAt: now},
			wantQuery: `UPDATE posts SET title = $2, content = $3, updated_at = $4 WHERE post_id = $1`,
			wantArgs:  []any{"id", "t", "c", now},
		},
		{
			name:      "with image sets url",
			update:    model.PostUpdate{Title: "t", Content: "c", ImageURL: "https://b/x.png", UpdatedAt: now},
			wantQuery: `UPDATE posts SET title = $2, content = $3, updated_at = $4, image_url = $5 WHERE post_id = $1`,
			wantArgs:  []any{"id", "t", "c", now, "https://b/x.png"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			query, args := buildUpdate("id", tt.update)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))

	got := nullableString("x")
	if assert.NotNil(t, got) {
		assert.Equal(t, "x", *got)
	}
}
