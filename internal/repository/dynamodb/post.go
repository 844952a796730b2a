package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dtroode/cloudblog/internal/model"
)

// dynamoAPI is the subset of *dynamodb.Client the repository calls.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ model.PostStore = (*PostRepository)(nil)

// PostRepository stores posts as items of a table keyed by post_id.
type PostRepository struct {
	api   dynamoAPI
	table string
}

// NewPostRepository creates a repository backed by a real DynamoDB client.
func NewPostRepository(client *dynamodb.Client, table string) *PostRepository {
	return NewPostRepositoryWithAPI(client, table)
}

// NewPostRepositoryWithAPI allows injecting a mockable API (used in tests).
func NewPostRepositoryWithAPI(api dynamoAPI, table string) *PostRepository {
	return &PostRepository{api: api, table: table}
}

type postItem struct {
	PostID    string `dynamodbav:"post_id"`
	Title     string `dynamodbav:"title"`
	Content   string `dynamodbav:"content"`
	Author    string `dynamodbav:"author"`
	ImageURL  string `dynamodbav:"image_url,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func (r *PostRepository) Put(ctx context.Context, post model.Post) error {
	item, err := attributevalue.MarshalMap(toItem(post))
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put post: %w", err)
	}

	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (model.Post, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}

	if len(out.Item) == 0 {
		return model.Post{}, model.ErrNotFound
	}

	return fromAttributes(out.Item)
}

// Scan reads the whole table, following pagination. Item order is undefined.
func (r *PostRepository) Scan(ctx context.Context) ([]model.Post, error) {
	paginator := dynamodb.NewScanPaginator(r.api, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})

	var posts []model.Post
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posts: %w", err)
		}

		for _, item := range page.Items {
			post, err := fromAttributes(item)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}

	return posts, nil
}

// Update applies a SET expression. DynamoDB creates the item when the key is
// absent.
func (r *PostRepository) Update(ctx context.Context, id string, update model.PostUpdate) error {
	expression := "SET title = :title, content = :content, updated_at = :updated_at"
	values := map[string]types.AttributeValue{
		":title":      &types.AttributeValueMemberS{Value: update.Title},
		":content":    &types.AttributeValueMemberS{Value: update.Content},
		":updated_at": &types.AttributeValueMemberS{Value: formatTime(update.UpdatedAt)},
	}

	if update.ImageURL != "" {
		expression += ", image_url = :image_url"
		values[":image_url"] = &types.AttributeValueMemberS{Value: update.ImageURL}
	}

	_, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       key(id),
		UpdateExpression:          aws.String(expression),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       key(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"post_id": &types.AttributeValueMemberS{Value: id},
	}
}

func toItem(post model.Post) postItem {
	return postItem{
		PostID:    post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Author:    post.Author,
		ImageURL:  post.ImageURL,
		CreatedAt: formatTime(post.CreatedAt),
		UpdatedAt: formatTime(post.UpdatedAt),
	}
}

func fromAttributes(av map[string]types.AttributeValue) (model.Post, error) {
	var item postItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return model.Post{}, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	createdAt, err := time.Parse(model.TimeLayout, item.CreatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(model.TimeLayout, item.UpdatedAt)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return model.Post{
		ID:        item.PostID,
		Title:     item.Title,
		Content:   item.Content,
		Author:    item.Author,
		ImageURL:  item.ImageURL,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(model.TimeLayout)
}
