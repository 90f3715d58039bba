package interview

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pitchlane/interview-platform/pkg/logging"
)

// S3API is the subset of the S3 client used by S3Sink.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink writes rendered reports to an S3 bucket.
type S3Sink struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewS3Sink creates a sink over the given bucket.
func NewS3Sink(s3Client S3API, bucket string, logger *logging.Logger) *S3Sink {
	if s3Client == nil {
		panic("interview: s3 client cannot be nil")
	}
	if bucket == "" {
		panic("interview: reports bucket cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Sink{bucket: bucket, s3Client: s3Client, logger: logger}
}

var _ ReportSink = (*S3Sink)(nil)

// Put uploads the report and returns its s3:// location.
func (s *S3Sink) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path required", ErrValidation)
	}

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3 put %s: %s", ErrSinkUnavailable, path, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, path)
	s.logger.Info("report stored",
		"bucket", s.bucket,
		"key", path,
		"bytes", len(data),
	)
	return location, nil
}
