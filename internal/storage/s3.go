package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store writes uploads to object storage under date-partitioned keys:
//
//	s3://<bucket>/<prefix>/uploads/YYYY/MM/DD/<uuid><ext>
type S3Store struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

// NewS3Store creates an S3Store. Region and credentials come from the
// environment (AWS_REGION, AWS_PROFILE, AWS_ACCESS_KEY_ID/SECRET etc.).
func NewS3Store(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		bucket:   bucket,
		prefix:   prefix,
		uploader: manager.NewUploader(client),
	}, nil
}

func (s *S3Store) SaveUpload(ctx context.Context, data []byte, filename string) (StoredFile, error) {
	if len(data) == 0 {
		return StoredFile{}, fmt.Errorf("empty upload")
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.New().String() + ext

	year, month, day := time.Now().UTC().Date()
	key := path.Join(s.prefix, "uploads",
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", int(month)),
		fmt.Sprintf("%02d", day),
		name,
	)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("s3 upload failed: %w", err)
	}
	return StoredFile{Name: name, Ref: "s3://" + s.bucket + "/" + key}, nil
}
