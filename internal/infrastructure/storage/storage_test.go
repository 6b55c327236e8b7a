package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/backend/internal/domain"
)

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "http://localhost:8080/uploads/", nil)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), domain.Image{
		Filename:    "Salad.PNG",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStore_UniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)

	image := domain.Image{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")}
	first, err := store.Save(context.Background(), image)
	require.NoError(t, err)
	second, err := store.Save(context.Background(), image)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStore_Errors(t *testing.T) {
	_, err := NewLocalStore("", "/uploads", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	store, err := NewLocalStore(t.TempDir(), "/uploads", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, domain.Image{Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpg"},
		{"image/jpg", ".jpg"},
		{"image/png", ".png"},
		{"image/x-custom", ".x-custom"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, extensionFor(tt.contentType))
		})
	}
}

func TestObjectName_FallsBackToContentType(t *testing.T) {
	name := objectName(domain.Image{Filename: "camera-upload", ContentType: "image/jpeg"})
	assert.True(t, strings.HasSuffix(name, ".jpg"))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	putter := &fakePutter{}
	store := NewS3StoreWithClient(putter, S3Config{Bucket: "nutriscan", Region: "us-east-1", PublicBaseURL: "https://cdn.example.com/"}, nil)

	url, err := store.Save(context.Background(), domain.Image{Filename: "bowl.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	key := aws.ToString(putter.input.Key)
	assert.Equal(t, "nutriscan", aws.ToString(putter.input.Bucket))
	assert.True(t, strings.HasPrefix(key, s3KeyPrefix))
	assert.Equal(t, "image/jpeg", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "jpeg", string(putter.body))
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3Store_DefaultURLAndFailure(t *testing.T) {
	store := NewS3StoreWithClient(&fakePutter{}, S3Config{Bucket: "b", Region: "eu-west-1"}, nil)
	url, err := store.Save(context.Background(), domain.Image{ContentType: "image/png", Data: []byte("x")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://b.s3.eu-west-1.amazonaws.com/"+s3KeyPrefix))

	failing := NewS3StoreWithClient(&fakePutter{err: errors.New("access denied")}, S3Config{Bucket: "b"}, nil)
	_, err = failing.Save(context.Background(), domain.Image{Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrStorageFailed)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
