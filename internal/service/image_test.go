package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/cloudblog/internal/mocks"
	"github.com/dtroode/cloudblog/internal/model"
	"github.com/dtroode/cloudblog/internal/testutil"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.PNG", "png"},
		{"photo.jpeg", "jpeg"},
		{"archive.tar.GZ", "gz"},
		{"noext", ""},
		{"", ""},
		{"dir.d/photo", ""},
		{`C:\Users\me\pic.Gif`, "gif"},
		{"../../etc/passwd.txt", "txt"},
		{"trailing.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, extension(tt.filename))
		})
	}
}

func TestImage_UploadImage(t *testing.T) {
	ctx := context.Background()
	storage := &servermocks.Storage{}

	var uploaded model.Object
	storage.On("Upload", ctx, mock.AnythingOfType("model.Object")).
		Run(func(args mock.Arguments) { uploaded = args.Get(1).(model.Object) }).
		Return(nil).Once()
	storage.On("PublicURL", mock.AnythingOfType("string")).
		Return(func(key string) string { return "https://bucket.s3.amazonaws.com/" + key }).Once()

	svc := NewImage(storage, testutil.MakeNoopLogger())

	url, err := svc.UploadImage(ctx, bytes.NewReader([]byte("png-bytes")), 9, "Holiday.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(uploaded.Key, ".png"))
	_, err = uuid.Parse(strings.TrimSuffix(uploaded.Key, ".png"))
	require.NoError(t, err)
	assert.Contains(t, uploaded.ContentType, "png")
	assert.Equal(t, "image/png", uploaded.ContentType)
	assert.True(t, uploaded.Public)
	assert.Equal(t, int64(9), uploaded.Size)

	body, err := io.ReadAll(uploaded.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))

	assert.Equal(t, "https://bucket.s3.amazonaws.com/"+uploaded.Key, url)
	storage.AssertExpectations(t)
}

func TestImage_UploadImage_NoExtension(t *testing.T) {
	ctx := context.Background()
	storage := &servermocks.Storage{}

	var uploaded model.Object
	storage.On("Upload", ctx, mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.Get(1).(model.Object) }).
		Return(nil).Once()
	storage.On("PublicURL", mock.Anything).Return("https://bucket.s3.amazonaws.com/x").Once()

	svc := NewImage(storage, testutil.MakeNoopLogger())

	_, err := svc.UploadImage(ctx, bytes.NewReader(nil), 0, "README")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(uploaded.Key, "."))
	assert.Equal(t, "image/", uploaded.ContentType)
}

func TestImage_UploadImage_UniqueNames(t *testing.T) {
	ctx := context.Background()
	storage := &servermocks.Storage{}

	keys := map[string]struct{}{}
	storage.On("Upload", ctx, mock.Anything).
		Run(func(args mock.Arguments) { keys[args.Get(1).(model.Object).Key] = struct{}{} }).
		Return(nil)
	storage.On("PublicURL", mock.Anything).Return("u")

	svc := NewImage(storage, testutil.MakeNoopLogger())
	for i := 0; i < 5; i++ {
		_, err := svc.UploadImage(ctx, bytes.NewReader(nil), 0, "same.jpg")
		require.NoError(t, err)
	}
	assert.Len(t, keys, 5)
}

func TestImage_UploadImage_Error(t *testing.T) {
	ctx := context.Background()
	storage := &servermocks.Storage{}
	storage.On("Upload", ctx, mock.Anything).Return(errors.New("access denied")).Once()

	svc := NewImage(storage, testutil.MakeNoopLogger())

	url, err := svc.UploadImage(ctx, bytes.NewReader(nil), 0, "a.png")
	require.Error(t, err)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "failed to upload image")
	storage.AssertNotCalled(t, "PublicURL", mock.Anything)
}
