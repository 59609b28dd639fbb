package assets

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/config"
)

// ObjectPutter is the subset of *s3.Client used by S3Store.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads assets to a bucket and returns their public URL.
type S3Store struct {
	client ObjectPutter
	bucket string
	prefix string
	log    *zap.Logger
}

func NewS3Store(client ObjectPutter, bucket, prefix string, log *zap.Logger) *S3Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix, log: log}
}

// NewS3StoreFromConfig builds a store around the client from config.NewS3Config.
func NewS3StoreFromConfig(cfg *config.S3Config, log *zap.Logger) *S3Store {
	return NewS3Store(cfg.Client, cfg.BucketName, cfg.Prefix, log)
}

func (s *S3Store) Put(ctx context.Context, kind Kind, a *Asset) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	key := path.Join(s.prefix, string(kind), uuid.NewString()+a.Ext())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Data),
		ContentType: aws.String(a.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	s.log.Debug("uploaded asset", zap.String("url", publicURL))
	return publicURL, nil
}
