package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/cloudblog/internal/model"
)

// Internal adapter interface to enable mocking without a real S3 endpoint.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ model.Storage = (*Client)(nil)

type Client struct {
	api        minioAPI
	bucket     string
	region     string
	publicHost string
}

// NewClient creates a new storage client using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket, region, publicHost string) (*Client, error) {
	return NewClientWithAPI(ctx, client, bucket, region, publicHost)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, region, publicHost string) (*Client, error) {
	c := &Client{
		api:        api,
		bucket:     bucket,
		region:     region,
		publicHost: publicHost,
	}

	err := c.ensureBucketExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload puts the object into the bucket. Public objects get the
// public-read canned ACL.
func (c *Client) Upload(ctx context.Context, object model.Object) error {
	opts := minio.PutObjectOptions{
		ContentType: object.ContentType,
	}
	if object.Public {
		opts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
	}

	size := object.Size
	if size <= 0 {
		size = -1
	}

	_, err := c.api.PutObject(ctx, c.bucket, object.Key, object.Body, size, opts)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PublicURL returns the virtual-hosted style address of key.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", c.bucket, c.publicHost, key)
}
