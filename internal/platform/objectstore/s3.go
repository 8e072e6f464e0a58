package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 constructs a bucket-backed store. Static credentials are used when
// configured; otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg Config) (Store, error) {
	if cfg.S3 == nil || cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.S3.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.S3.Region))
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.S3.PublicURL
	if publicURL == "" {
		if cfg.S3.Endpoint != "" {
			publicURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3.Endpoint, "/"), cfg.S3.Bucket)
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3.Bucket, cfg.S3.Region)
		}
	}

	return &s3Store{
		client:    client,
		bucket:    cfg.S3.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *s3Store) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.publicURL + "/" + name, nil
}
