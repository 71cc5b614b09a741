package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/config"
)

// ObjectAPI is the subset of the S3 client used by S3Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in a bucket under an optional key prefix.
type S3Store struct {
	client        ObjectAPI
	bucket        string
	prefix        string
	publicBaseURL *url.URL
	logger        zerolog.Logger
}

// NewS3StoreFromConfig reads S3_BUCKET, S3_REGION, S3_PREFIX and S3_PUBLIC_BASE_URL.
// Without a public base URL, objects are addressed through the virtual-hosted bucket URL.
func NewS3StoreFromConfig(ctx context.Context, cfg map[string]string) (*S3Store, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	region := config.GetString(cfg, "S3_REGION", "us-east-1")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	baseURL := config.GetString(cfg, "S3_PUBLIC_BASE_URL", fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region))
	return NewS3Store(s3.NewFromConfig(awsCfg), bucket, config.GetString(cfg, "S3_PREFIX", "uploads"), baseURL)
}

func NewS3Store(client ObjectAPI, bucket, prefix, publicBaseURL string) (*S3Store, error) {
	u, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse public base url %q: %w", publicBaseURL, err)
	}

	logger := log.With().Str("storage", "s3").Str("bucket", bucket).Logger()
	logger.Info().Str("publicBaseURL", u.String()).Msg("S3 image store ready")

	return &S3Store{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		publicBaseURL: u,
		logger:        logger,
	}, nil
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// publicURL joins the object key onto the base URL path
func (s *S3Store) publicURL(key string) string {
	basePath := s.publicBaseURL.Path
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	u := *s.publicBaseURL
	u.Path = basePath + strings.TrimPrefix(key, "/")
	return u.String()
}

func (s *S3Store) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := s.key(name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upload image")
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	publicURL := s.publicURL(key)
	s.logger.Debug().Str("key", key).Int64("size", size).Str("url", publicURL).Msg("uploaded image")
	return publicURL, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	key := s.key(name)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
