// Package storage publishes rendered exports to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oakline/ledger/internal/application/export"
	infraconfig "github.com/oakline/ledger/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ export.WorkbookPublisher = (*S3Publisher)(nil)

// S3Publisher uploads workbooks to a bucket and hands back a presigned
// download link. Works with AWS S3 and S3-compatible stores such as MinIO.
type S3Publisher struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	expiry        time.Duration
	logger        *zap.Logger
}

// S3PublisherOption is a functional option for configuring S3Publisher
type S3PublisherOption func(*S3Publisher)

// WithLogger sets a custom logger for S3Publisher
func WithLogger(logger *zap.Logger) S3PublisherOption {
	return func(p *S3Publisher) {
		p.logger = logger
	}
}

// WithPresignExpiry overrides how long download links stay valid
func WithPresignExpiry(d time.Duration) S3PublisherOption {
	return func(p *S3Publisher) {
		p.expiry = d
	}
}

// NewS3Publisher creates a publisher from configuration. Static credentials
// are used when both keys are set, otherwise the default AWS chain applies.
func NewS3Publisher(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3PublisherOption) (*S3Publisher, error) {
	if cfg == nil || !cfg.Configured() {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("storage access key id and secret access key must be set together")
	}
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid storage endpoint %q", cfg.Endpoint)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "eu-west-2"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	p := &S3Publisher{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		expiry:        cfg.PresignExpiry,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.expiry <= 0 {
		p.expiry = 15 * time.Minute
	}
	return p, nil
}

// Publish uploads body under key and returns a presigned GET URL for it
func (p *S3Publisher) Publish(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	link, err := p.DownloadURL(ctx, key)
	if err != nil {
		return "", err
	}
	p.logger.Debug("object uploaded", zap.String("bucket", p.bucket), zap.String("key", key))
	return link, nil
}

// DownloadURL presigns a GET for key, valid for the configured expiry
func (p *S3Publisher) DownloadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	req, err := p.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (p *S3Publisher) EnsureBucket(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	p.logger.Info("creating export bucket", zap.String("bucket", p.bucket))
	_, err = p.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(p.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Bucket returns the bucket name
func (p *S3Publisher) Bucket() string {
	return p.bucket
}
