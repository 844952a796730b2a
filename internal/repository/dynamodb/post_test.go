package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/cloudblog/internal/model"
)

type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue

	pages [][]map[string]types.AttributeValue

	lastUpdate *dynamodb.UpdateItemInput
	lastPut    *dynamodb.PutItemInput

	err error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func idOf(key map[string]types.AttributeValue) string {
	if v, ok := key["post_id"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastPut = in
	f.items[idOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[idOf(in.Key)]}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.pages == nil {
		var all []map[string]types.AttributeValue
		for _, item := range f.items {
			all = append(all, item)
		}
		return &dynamodb.ScanOutput{Items: all}, nil
	}

	page := 0
	if in.ExclusiveStartKey != nil {
		page = len(idOf(in.ExclusiveStartKey))
	}
	out := &dynamodb.ScanOutput{Items: f.pages[page]}
	if page+1 < len(f.pages) {
		// the fake encodes the next page index as the key length
		next := make([]byte, page+1)
		for i := range next {
			next[i] = 'x'
		}
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"post_id": &types.AttributeValueMemberS{Value: string(next)},
		}
	}
	return out, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastUpdate = in
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, idOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func testPost(id, imageURL string) model.Post {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC)
	return model.Post{
		ID:        id,
		Title:     "title " + id,
		Content:   "content " + id,
		Author:    "alice",
		ImageURL:  imageURL,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestPostRepository_PutAndGet(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewPostRepositoryWithAPI(fake, "posts")
	ctx := context.Background()

	post := testPost("p1", "")
	require.NoError(t, repo.Put(ctx, post))

	assert.Equal(t, "posts", aws.ToString(fake.lastPut.TableName))
	_, hasImage := fake.lastPut.Item["image_url"]
	assert.False(t, hasImage, "image_url must be omitted when empty")

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, post, got)
}

func TestPostRepository_PutWithImage(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewPostRepositoryWithAPI(fake, "posts")
	ctx := context.Background()

	post := testPost("p2", "https://bucket.s3.amazonaws.com/a.png")
	require.NoError(t, repo.Put(ctx, post))

	got, err := repo.GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/a.png", got.ImageURL)
	assert.True(t, got.HasImage())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewPostRepositoryWithAPI(newFakeDynamo(), "posts")

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostRepository_GetByID_BadTimestamp(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	fake.items["bad"] = map[string]types.AttributeValue{
		"post_id":    &types.AttributeValueMemberS{Value: "bad"},
		"created_at": &types.AttributeValueMemberS{Value: "yesterday"},
		"updated_at": &types.AttributeValueMemberS{Value: "today"},
	}
	repo := NewPostRepositoryWithAPI(fake, "posts")

	_, err := repo.GetByID(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}

func TestPostRepository_Scan(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewPostRepositoryWithAPI(fake, "posts")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Put(ctx, testPost(id, "")))
	}

	posts, err := repo.Scan(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestPostRepository_ScanFollowsPages(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewPostRepositoryWithAPI(fake, "posts")
	ctx := context.Background()

	// populate through Put so the attribute layout matches
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Put(ctx, testPost(id, "")))
	}
	fake.pages = [][]map[string]types.AttributeValue{
		{fake.items["a"], fake.items["b"]},
		{fake.items["c"]},
	}

	posts, err := repo.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestPostRepository_Scan_Error(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	fake.err = errors.New("throttled")
	repo := NewPostRepositoryWithAPI(fake, "posts")

	_, err := repo.Scan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan posts")
}

func TestPostRepository_Update(t *testing.T) {
	t.Parallel()

	updatedAt := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		update         model.PostUpdate
		wantExpression string
		wantImage      bool
	}{
		{
			name:           "without image",
			update:         model.PostUpdate{Title: "t", Content: "c", UpdatedAt: updatedAt},
			wantExpression: "SET title = :title, content = :content, updated_at = :updated_at",
		},
		{
			name:           "with image",
			update:         model.PostUpdate{Title: "t", Content: "c", ImageURL: "https://x/y.png", UpdatedAt: updatedAt},
			wantExpression: "SET title = :title, content = :content, updated_at = :updated_at, image_url = :image_url",
			wantImage:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := newFakeDynamo()
			repo := NewPostRepositoryWithAPI(fake, "posts")

			require.NoError(t, repo.Update(context.Background(), "p1", tt.update))

			in := fake.lastUpdate
			require.NotNil(t, in)
			assert.Equal(t, "p1", idOf(in.Key))
			assert.Equal(t, tt.wantExpression, aws.ToString(in.UpdateExpression))

			_, hasImage := in.ExpressionAttributeValues[":image_url"]
			assert.Equal(t, tt.wantImage, hasImage)

			updated, ok := in.ExpressionAttributeValues[":updated_at"].(*types.AttributeValueMemberS)
			require.True(t, ok)
			assert.Equal(t, "2024-05-02T00:00:00.000000000Z", updated.Value)
		})
	}
}

func TestPostRepository_Delete(t *testing.T) {
	t.Parallel()

	fake := newFakeDynamo()
	repo := NewPostRepositoryWithAPI(fake, "posts")
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, testPost("p1", "")))
	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// deleting twice is not an error
	assert.NoError(t, repo.Delete(ctx, "p1"))
}
