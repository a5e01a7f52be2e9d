package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PutObjectAPI is the slice of the S3 client the store needs.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Storage struct {
	client S3PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Storage writes results to bucket under prefix + "date=YYYY-MM-DD/hour=HH/".
func NewS3Storage(client S3PutObjectAPI, bucket, prefix string) ResultStore {
	return &s3Storage{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (s *s3Storage) Put(ctx context.Context, payload []byte) (string, error) {
	key := newPartition(s.now()).objectKey(s.prefix)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *s3Storage) Backend() string {
	return "s3"
}
