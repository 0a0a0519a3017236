package services

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultLogoURLExpiry bounds how long a presigned logo link stays valid.
const DefaultLogoURLExpiry = 24 * time.Hour

// LogoService stores service logos in an object bucket and hands out presigned links.
type LogoService interface {
	LogoURL(ctx context.Context, objectName string) (string, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioLogoService struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewLogoService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (LogoService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioLogoService{client: client, bucket: bucket, expiry: DefaultLogoURLExpiry}, nil
}

func (m *minioLogoService) LogoURL(ctx context.Context, objectName string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioLogoService) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Ping checks the bucket is reachable.
func (m *minioLogoService) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
