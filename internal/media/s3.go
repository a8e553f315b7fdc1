package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Uploader stores images in an S3 bucket served from a public base URL.
type s3Uploader struct {
	client  s3PutObjectAPI
	bucket  string
	prefix  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Uploader creates an S3-backed uploader. When publicBaseURL is empty
// the virtual-hosted bucket URL is used.
func NewS3Uploader(ctx context.Context, bucket, region, prefix, publicBaseURL string, logger zerolog.Logger) (Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return newS3Uploader(s3.NewFromConfig(cfg), bucket, prefix, publicBaseURL, logger), nil
}

func newS3Uploader(client s3PutObjectAPI, bucket, prefix, baseURL string, logger zerolog.Logger) *s3Uploader {
	return &s3Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "s3_uploader").Logger(),
	}
}

// Upload writes the image to the bucket and returns its public URL.
func (u *s3Uploader) Upload(ctx context.Context, upload Upload) (string, error) {
	key := u.prefix
	if upload.Folder != "" {
		key += strings.Trim(upload.Folder, "/") + "/"
	}
	key += objectName(upload.Filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", u.bucket, key, err)
	}

	return u.baseURL + "/" + key, nil
}
