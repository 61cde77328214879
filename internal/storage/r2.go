// Package storage archives uploaded documents in Cloudflare R2 through the
// S3-compatible API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds bucket credentials
type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// R2Store reads and writes objects in one bucket
type R2Store struct {
	client *s3.Client
	bucket string
}

// NewR2Store builds a client for the account's R2 endpoint
func NewR2Store(ctx context.Context, cfg R2Config) (*R2Store, error) {
	return newStore(ctx, cfg, fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID), false)
}

func newStore(ctx context.Context, cfg R2Config, endpoint string, pathStyle bool) (*R2Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("r2 bucket is required")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = pathStyle
	})
	return &R2Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads body under key
func (s *R2Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// Get downloads the object stored under key
func (s *R2Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return buf.Bytes(), nil
}
