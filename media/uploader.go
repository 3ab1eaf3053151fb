// The object-storage client. The service depends on the ObjectUploader
// interface; the production implementation talks to any S3-compatible
// endpoint (AWS S3, MinIO) through aws-sdk-go-v2.
package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/user/townhall-go/config"
)

// ObjectUploader stores an opaque payload under a key and returns the
// durable retrieval URL for it.
type ObjectUploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// S3Uploader is the aws-sdk-go-v2 backed ObjectUploader.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader builds an S3 client against the configured endpoint with
// static credentials. Path-style addressing keeps it working with MinIO.
func NewS3Uploader(cfg *config.StorageConfig) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"", // session token not used with static credentials
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the payload and returns its public retrieval URL. The
// context is honored by the SDK, so a cancelled caller stops waiting; the
// provider-side write may still have completed.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", u.publicBaseURL, key), nil
}
