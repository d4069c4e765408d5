// Package minio stores transcripts and evidence attachments in S3-compatible
// object storage.  Only object keys travel through the relational schema; the
// payloads live here.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
)

// ObjectAPI is the slice of the minio client the stores use.  Narrow on
// purpose so tests can fake it; GetObject returns an io.ReadCloser instead of
// *minio.Object, which cannot be constructed outside a live connection.
type ObjectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// minioAPI adapts *minio.Client to ObjectAPI.
type minioAPI struct {
	*minio.Client
}

func (a minioAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucketName, objectName, opts)
}

// Client owns the minio connection and the bucket the platform writes to.
type Client struct {
	api    ObjectAPI
	bucket string
	logger logging.Logger
}

// NewClient connects to object storage and makes sure the bucket exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{api: minioAPI{api}, bucket: cfg.Bucket, logger: log}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("object storage connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return c, nil
}

// NewClientWithAPI wraps a pre-built API. Used by tests.
func NewClientWithAPI(api ObjectAPI, bucket string, log logging.Logger) *Client {
	return &Client{api: api, bucket: bucket, logger: log}
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to reach object storage")
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create bucket")
	}
	c.logger.Info("created bucket", logging.String("bucket", c.bucket))
	return nil
}
