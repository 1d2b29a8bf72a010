package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AnTengye/lawassistant/config"
	"github.com/AnTengye/lawassistant/report"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const reportPrefix = "reports/"

// MinioReportStore keeps reports as objects in a MinIO (or S3) bucket
type MinioReportStore struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMinioReportStore(cfg *config.MinioConfig) (*MinioReportStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioReportStore{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioReportStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		slog.Info("creating report bucket", "bucket", s.bucket, "endpoint", s.config.Endpoint)
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func objectName(id string, kind report.Kind) (string, error) {
	name, err := reportName(id, kind)
	if err != nil {
		return "", err
	}
	return reportPrefix + name, nil
}

func (s *MinioReportStore) Put(ctx context.Context, id string, kind report.Kind, data []byte) error {
	name, err := objectName(id, kind)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: kind.ContentType(),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}

func (s *MinioReportStore) Get(ctx context.Context, id string, kind report.Kind) ([]byte, error) {
	name, err := objectName(id, kind)
	if err != nil {
		return nil, ErrReportNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyMinioError(err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only surfaces on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyMinioError(err)
	}
	return data, nil
}

func classifyMinioError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrReportNotFound
	}
	return fmt.Errorf("failed to download report: %w", err)
}
