package minio

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"yatube/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ImageRepository struct {
	cli    *minio.Client
	bucket string
}

// New 连接 MinIO，bucket 不存在则创建
func New(ctx context.Context, conf config.MinIO) (*ImageRepository, error) {
	client, err := minio.New(fmt.Sprintf("%s:%s", conf.Host, conf.Port), &minio.Options{
		Creds:  credentials.NewStaticV4(conf.User, conf.Pass, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("minio init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket creation: %w", err)
		}
	}

	return &ImageRepository{cli: client, bucket: conf.Bucket}, nil
}

// ObjectName <prefix>/<uuid><ext>
func ObjectName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, uuid.New().String()+ext)
}

func (r *ImageRepository) Put(ctx context.Context, prefix, filename, contentType string, size int64, body io.Reader) (string, error) {
	objectName := ObjectName(prefix, filename)
	_, err := r.cli.PutObject(ctx, r.bucket, objectName, body, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

