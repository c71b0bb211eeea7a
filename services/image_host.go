package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// keyPrefix groups all portfolio images under one folder in the bucket.
const keyPrefix = "portfolio-projects/"

// ImageHost is the external image-hosting boundary. Projects store only the
// returned URL; Owns lets callers decide whether a URL points at this host
// before attempting a remote delete.
type ImageHost interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

// S3ImageHost hosts images in an S3 bucket with public-read objects.
type S3ImageHost struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// S3Config carries the image-hosting account credentials.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// NewS3ImageHost builds an image host backed by the configured bucket.
func NewS3ImageHost(ctx context.Context, cfg S3Config) (*S3ImageHost, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3ImageHost{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region),
	}, nil
}

// Upload stores the image under a fresh key and returns its public URL.
func (h *S3ImageHost) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := keyPrefix + uuid.NewString() + extensionFor(contentType)

	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return h.baseURL + key, nil
}

// Delete removes the object the URL points at. URLs outside this host are
// rejected; use Owns first.
func (h *S3ImageHost) Delete(ctx context.Context, url string) error {
	if !h.Owns(url) {
		return fmt.Errorf("url is not hosted in bucket %s", h.bucket)
	}
	key := strings.TrimPrefix(url, h.baseURL)

	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Owns reports whether the URL refers to an object in this host's bucket.
func (h *S3ImageHost) Owns(url string) bool {
	return strings.HasPrefix(url, h.baseURL)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	default:
		return path.Ext(contentType)
	}
}
