package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	body, _ := io.ReadAll(in.Body)
	f.body = body
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Sink_Put(t *testing.T) {
	client := &fakePutter{}
	sink := NewS3Sink(client, "registry", "exports/")

	if err := sink.Put(context.Background(), "patients.csv", "text/csv", []byte("id\n")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got := aws.ToString(client.input.Bucket); got != "registry" {
		t.Errorf("bucket = %q", got)
	}
	if got := aws.ToString(client.input.Key); got != "exports/patients.csv" {
		t.Errorf("key = %q", got)
	}
	if got := aws.ToString(client.input.ContentType); got != "text/csv" {
		t.Errorf("content type = %q", got)
	}
	if string(client.body) != "id\n" {
		t.Errorf("body = %q", client.body)
	}
}

func TestS3Sink_KeyWithoutPrefix(t *testing.T) {
	sink := NewS3Sink(&fakePutter{}, "registry", "")
	if got := sink.Key("patients.pdf"); got != "patients.pdf" {
		t.Errorf("Key = %q", got)
	}
}

func TestS3Sink_PutError(t *testing.T) {
	boom := errors.New("access denied")
	sink := NewS3Sink(&fakePutter{err: boom}, "registry", "x")

	err := sink.Put(context.Background(), "patients.csv", "text/csv", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
