// Package storage is the blob-store collaborator for post images. Posts
// keep only the object path; the bytes live in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"plume/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PostImagePrefix is the content path post images live under.
const PostImagePrefix = "posts"

// BlobStore saves opaque binary assets and hands back their object path.
type BlobStore interface {
	Save(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error
}

// MinioStore is the production BlobStore over a MinIO/S3 bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.MinioBucket, err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

// Save uploads the object under the given path.
func (s *MinioStore) Save(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", objectPath, err)
	}
	return nil
}

// PostImagePath generates a collision-free object path for an uploaded
// post image, preserving the original extension.
func PostImagePath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(PostImagePrefix, uuid.New().String()+ext)
}
