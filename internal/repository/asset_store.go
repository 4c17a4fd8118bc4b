package repository

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// AssetStoreConfig carries the S3-compatible storage settings
type AssetStoreConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// s3AssetStore stores photos in an S3-compatible bucket. The bucket must
// pre-exist and be publicly readable; that is an operational precondition
// surfaced to the user, never auto-provisioned here.
type s3AssetStore struct {
	client *s3.Client
	cfg    AssetStoreConfig
	logger *logger.Logger
}

// NewAssetStore creates an AssetStore over an S3-compatible endpoint
func NewAssetStore(cfg AssetStoreConfig, logger *logger.Logger) AssetStore {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
		Region:       cfg.Region,
		UsePathStyle: true,
	})

	return &s3AssetStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Upload stores the asset and returns its public URL
func (s *s3AssetStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	}); err != nil {
		s.logger.WithError(err).WithField("bucket", s.cfg.Bucket).Error("Storage bucket precondition failed")
		return "", apperrors.NewUploadError(
			fmt.Sprintf("storage bucket %q is missing or inaccessible; create it and make it public before uploading", s.cfg.Bucket),
			err,
			map[string]interface{}{"bucket": s.cfg.Bucket},
		)
	}

	key := s.generateObjectKey(filename)

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	}); err != nil {
		return "", apperrors.NewUploadError(
			"failed to store photo",
			err,
			map[string]interface{}{"bucket": s.cfg.Bucket},
		)
	}

	url := s.publicURL(key)
	s.logger.WithFields(map[string]interface{}{
		"key": key,
		"url": url,
	}).Debug("Photo uploaded")
	return url, nil
}

// generateObjectKey builds a unique object name preserving the file extension
func (s *s3AssetStore) generateObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.New().String() + ext
}

func (s *s3AssetStore) publicURL(key string) string {
	if s.cfg.PublicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.PublicURL, "/"), key)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
}
