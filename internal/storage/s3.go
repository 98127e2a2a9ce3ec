package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage writes export files to a single bucket.
type S3Storage struct {
	client     ObjectPutter
	bucketName string
}

func NewS3Storage(client ObjectPutter, bucketName string) *S3Storage {
	return &S3Storage{client: client, bucketName: bucketName}
}

// UploadFile stores body under key and returns the s3 uri of the object.
func (s *S3Storage) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if s.bucketName == "" {
		return "", fmt.Errorf("no export bucket configured")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucketName, key), nil
}
