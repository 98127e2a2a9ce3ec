package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadFile(t *testing.T) {
	putter := &fakePutter{}
	s := NewS3Storage(putter, "donaciones-exports")

	uri, err := s.UploadFile(context.Background(), "donaciones/2025-03-10.csv", strings.NewReader("id\n1\n"), "text/csv")
	require.NoError(t, err)

	assert.Equal(t, "s3://donaciones-exports/donaciones/2025-03-10.csv", uri)
	assert.Equal(t, "donaciones-exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "text/csv", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "id\n1\n", putter.body)
}

func TestUploadFileErrors(t *testing.T) {
	_, err := NewS3Storage(&fakePutter{}, "").UploadFile(context.Background(), "k", strings.NewReader(""), "text/csv")
	assert.Error(t, err)

	boom := errors.New("access denied")
	_, err = NewS3Storage(&fakePutter{err: boom}, "b").UploadFile(context.Background(), "k", strings.NewReader(""), "text/csv")
	assert.ErrorIs(t, err, boom)
}
