package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/fetchops/ai-project-catalog/errs"
)

// Archiver stores an export snapshot and returns where it was put
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// ObjectPutter is the slice of the S3 client used for archiving
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client ObjectPutter
	bucket string
}

func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

func (a *S3Archiver) Archive(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.NewUpstreamError("s3", 0, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// ArchiveKey names an export snapshot by UTC day with a random suffix,
// e.g. exports/2024-05-01/6f1c...csv
func ArchiveKey(now time.Time, extension string) string {
	return path.Join("exports", now.UTC().Format("2006-01-02"), uuid.NewString()+"."+extension)
}
