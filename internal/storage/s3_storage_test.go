package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Put(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Storage(client, "pose-results", "results/").(*s3Storage)
	store.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC) }

	payload := []byte(`{"model_variant":"singlepose_lightning"}`)
	location, err := store.Put(context.Background(), payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	wantKey := "results/date=2024-01-02/hour=03/20240102T030405000006Z.json"
	if location != "s3://pose-results/"+wantKey {
		t.Errorf("Unexpected location %s", location)
	}
	if aws.ToString(client.input.Bucket) != "pose-results" || aws.ToString(client.input.Key) != wantKey {
		t.Errorf("Unexpected bucket/key %s/%s", aws.ToString(client.input.Bucket), aws.ToString(client.input.Key))
	}
	if aws.ToString(client.input.ContentType) != "application/json" {
		t.Errorf("Expected JSON content type, got %s", aws.ToString(client.input.ContentType))
	}
	if string(client.body) != string(payload) {
		t.Errorf("Expected body %s, got %s", payload, client.body)
	}
}

func TestS3Storage_Error(t *testing.T) {
	client := &fakeS3{err: errors.New("AccessDenied")}
	_, err := NewS3Storage(client, "b", "").Put(context.Background(), []byte(`{}`))
	if err == nil || !strings.Contains(err.Error(), "AccessDenied") {
		t.Errorf("Expected AccessDenied error, got %v", err)
	}
}
