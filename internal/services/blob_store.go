package services

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SimulatedBlobStore stands in for real storage: every Put waits a fixed
// delay and keeps the bytes in memory.
type SimulatedBlobStore struct {
	Delay time.Duration

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewSimulatedBlobStore(delay time.Duration) *SimulatedBlobStore {
	return &SimulatedBlobStore{Delay: delay, objects: make(map[string][]byte)}
}

func (s *SimulatedBlobStore) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := sleepCtx(ctx, s.Delay); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// Get returns a stored object.
func (s *SimulatedBlobStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}

// S3BlobStore writes objects to an S3 bucket (or an S3-compatible endpoint).
type S3BlobStore struct {
	bucket   string
	uploader *manager.Uploader
}

// NewS3BlobStore loads AWS credentials from the default chain. A non-empty
// endpoint selects an S3-compatible service with path-style addressing.
func NewS3BlobStore(ctx context.Context, bucket, region, endpoint string) (*S3BlobStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3BlobStore{bucket: bucket, uploader: manager.NewUploader(client)}, nil
}

func (s *S3BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

// sleepCtx waits d or until ctx ends.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
