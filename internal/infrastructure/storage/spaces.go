package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/config"
)

var _ output.ArtifactStore = (*SpacesStore)(nil)

// SpacesStore keeps artifacts and documents in an S3-compatible bucket
// (DigitalOcean Spaces in production). Keys are relative to the configured
// folder.
type SpacesStore struct {
	client *minio.Client
	bucket string
	folder string
	public string
	logger output.LoggerPort
}

func NewSpacesStore(cfg config.StorageConfig, logger output.LoggerPort) (*SpacesStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("storage is not configured")
	}

	host, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.Key, cfg.Secret, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}

	return &SpacesStore{
		client: client,
		bucket: cfg.Bucket,
		folder: strings.Trim(cfg.Folder, "/"),
		public: fmt.Sprintf("%s://%s/%s", scheme, host, cfg.Bucket),
		logger: logger,
	}, nil
}

// Upload stores localPath under key and confirms the object landed with a
// stat call before returning its URL.
func (s *SpacesStore) Upload(ctx context.Context, localPath, key string) (string, error) {
	object := s.objectName(key)

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.FPutObject(ctx, s.bucket, object, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", object, err)
	}

	if _, err := s.client.StatObject(ctx, s.bucket, object, minio.StatObjectOptions{}); err != nil {
		return "", fmt.Errorf("verify %s: %w", object, err)
	}

	s.logger.Debug("Object stored", "key", object, "size", info.Size)
	return s.public + "/" + object, nil
}

func (s *SpacesStore) Download(ctx context.Context, key, localPath string) error {
	object := s.objectName(key)
	if err := s.client.FGetObject(ctx, s.bucket, object, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s: %w", object, err)
	}
	s.logger.Debug("Object fetched", "key", object)
	return nil
}

func (s *SpacesStore) objectName(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.folder == "" {
		return key
	}
	return path.Join(s.folder, key)
}

// splitEndpoint accepts either a bare host or a URL; a scheme overrides the
// use_ssl flag.
func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse storage endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("storage endpoint %q has no host", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
