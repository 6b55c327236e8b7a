package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/logger"
)

const s3KeyPrefix = "food-images/"

// ObjectPutter is the subset of the S3 API the store uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the S3 store
type S3Config struct {
	Bucket string
	Region string
	// PublicBaseURL is the CDN or bucket URL objects are served from
	PublicBaseURL string
}

// S3Store uploads images to a bucket
type S3Store struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3Store loads the default AWS credential chain for the region
func NewS3Store(ctx context.Context, cfg S3Config, log *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), cfg, log), nil
}

// NewS3StoreWithClient wraps an existing client. Without PublicBaseURL the
// virtual-hosted bucket URL is used.
func NewS3StoreWithClient(client ObjectPutter, cfg S3Config, log *zap.Logger) *S3Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
		logger:        logger.OrNop(log).Named("storage.s3"),
	}
}

// Save uploads the image and returns its public URL
func (s *S3Store) Save(ctx context.Context, image domain.Image) (string, error) {
	key := s3KeyPrefix + objectName(image)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image.Data),
		ContentType: aws.String(image.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload to s3: %v", domain.ErrStorageFailed, err)
	}

	s.logger.Debug("image uploaded", zap.String("bucket", s.bucket), zap.String("key", key))
	return s.publicBaseURL + "/" + key, nil
}
