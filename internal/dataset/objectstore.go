package dataset

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig locates CSV resources in an S3 compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// ObjectStoreFetcher reads resources from a MinIO/S3 bucket under a key prefix.
type ObjectStoreFetcher struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewObjectStoreFetcher connects a minio client. No request is made until Fetch.
func NewObjectStoreFetcher(cfg ObjectStoreConfig) (*ObjectStoreFetcher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}
	return &ObjectStoreFetcher{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key for a resource file.
func (f *ObjectStoreFetcher) Key(name string) string {
	if f.prefix == "" {
		return name
	}
	return path.Join(f.prefix, name)
}

// Fetch streams the object. GetObject is lazy, so Stat surfaces missing keys before parsing.
func (f *ObjectStoreFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	key := f.Key(name)
	obj, err := f.client.GetObject(ctx, f.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", key, ErrResourceNotFound)
		}
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	return obj, nil
}
