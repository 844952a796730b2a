package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/cloudblog/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string
	madeRegion      string

	putInfo minioLib.UploadInfo
	putErr  error

	putBucket string
	putKey    string
	putSize   int64
	putBody   []byte
	putOpts   minioLib.PutObjectOptions
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, opts minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	f.madeRegion = opts.Region
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, bucket string, key string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putBucket = bucket
	f.putKey = key
	f.putSize = size
	f.putOpts = opts
	body, _ := io.ReadAll(r)
	f.putBody = body
	return f.putInfo, f.putErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b", "us-east-1", "s3.amazonaws.com")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
	assert.Empty(t, api.madeBucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket", "eu-west-1", "s3.amazonaws.com")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
	assert.Equal(t, "bucket", api.madeBucket)
	assert.Equal(t, "eu-west-1", api.madeRegion)
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "bucket", "", "s3.amazonaws.com")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestNewClientWithAPI_MakeBucketError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false, makeBucketErr: errors.New("fail")}
	c, err := NewClientWithAPI(ctx, api, "bucket", "", "s3.amazonaws.com")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("public object", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, model.Object{
			Key:         "k.png",
			Body:        bytes.NewReader([]byte("data")),
			Size:        4,
			ContentType: "image/png",
			Public:      true,
		})
		require.NoError(t, err)
		assert.Equal(t, "b", api.putBucket)
		assert.Equal(t, "k.png", api.putKey)
		assert.Equal(t, int64(4), api.putSize)
		assert.Equal(t, []byte("data"), api.putBody)
		assert.Equal(t, "image/png", api.putOpts.ContentType)
		assert.Equal(t, "public-read", api.putOpts.UserMetadata["x-amz-acl"])
	})

	t.Run("private object with unknown size", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, model.Object{Key: "k", Body: bytes.NewReader([]byte("data"))})
		require.NoError(t, err)
		assert.Equal(t, int64(-1), api.putSize)
		assert.Empty(t, api.putOpts.UserMetadata)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{putErr: errors.New("put-fail")}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, model.Object{Key: "k", Body: bytes.NewReader([]byte("data"))})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_PublicURL(t *testing.T) {
	c := &Client{bucket: "blog-images", publicHost: "s3.amazonaws.com"}
	assert.Equal(t, "https://blog-images.s3.amazonaws.com/abc.png", c.PublicURL("abc.png"))
}
