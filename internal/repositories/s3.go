package repositories

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rohits-web03/piiquante/internal/config"
)

const imagePrefix = "images/"

// S3BlobStore keeps images in an S3-compatible bucket (AWS, R2, MinIO).
type S3BlobStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3BlobStore builds the client from static credentials. Without an
// explicit endpoint, an account id selects the Cloudflare R2 endpoint.
func NewS3BlobStore(cfg config.S3Config) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("s3 public base url is not configured")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (b *S3BlobStore) Store(ctx context.Context, upload Upload) (string, error) {
	key := imagePrefix + uuid.NewString() + strings.ToLower(path.Ext(upload.Filename))

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}
	if upload.Size > 0 {
		input.ContentLength = aws.Int64(upload.Size)
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return b.publicBaseURL + "/" + key, nil
}

func (b *S3BlobStore) Delete(ctx context.Context, url string) error {
	key, ok := b.keyFromURL(url)
	if !ok {
		return fmt.Errorf("image url %q is not served by this bucket", url)
	}
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (b *S3BlobStore) keyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, b.publicBaseURL+"/")
	if !ok || !strings.HasPrefix(key, imagePrefix) {
		return "", false
	}
	return key, true
}
