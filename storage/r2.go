package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore stores uploaded files and hands out their public URLs.
type BlobStore interface {
	Upload(ctx context.Context, bucket, path string, body []byte, contentType string) error
	PublicURL(bucket, path string) string
}

type Options struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	// Endpoint overrides the R2 endpoint derived from AccountID.
	Endpoint string
	// PublicBaseURL is the CDN origin serving the buckets.
	PublicBaseURL string
}

// R2Store is a BlobStore backed by Cloudflare R2 (S3 API).
type R2Store struct {
	client  *s3.Client
	baseURL string
}

func NewR2Store(ctx context.Context, opts Options) (*R2Store, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		if opts.AccountID == "" {
			return nil, fmt.Errorf("storage: account id or endpoint required")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", opts.AccountID)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		baseURL = endpoint
	}

	return &R2Store{client: client, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *R2Store) Upload(ctx context.Context, bucket, path string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}

func (s *R2Store) PublicURL(bucket, path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, strings.Join(segments, "/"))
}
