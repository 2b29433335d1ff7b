package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// COSConfig holds COS-specific configuration.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g., "myqcloud.com"
	Scheme    string // e.g., "https" or "http"

	// Endpoint, when set, replaces the bucket URL derived from the fields
	// above. Used for COS-compatible gateways.
	Endpoint string
}

// COSStorage keeps archives and reports in a Tencent Cloud COS bucket.
type COSStorage struct {
	client    *cos.Client
	bucketURL string
}

// NewCOSStorage creates a new COSStorage instance.
func NewCOSStorage(cfg *COSConfig) (*COSStorage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, apperrors.New(apperrors.CodeConfigError, "bucket and region are required for COS storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, apperrors.New(apperrors.CodeConfigError, "credentials are required for COS storage")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	rawBucketURL := cfg.Endpoint
	if rawBucketURL == "" {
		rawBucketURL = fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain)
	}
	bucketURL, err := url.Parse(strings.TrimSuffix(rawBucketURL, "/"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to parse bucket URL", err)
	}

	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to parse service URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSStorage{
		client:    client,
		bucketURL: bucketURL.String(),
	}, nil
}

// Upload uploads data from reader to the specified key.
func (s *COSStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	_, err := s.client.Object.Put(ctx, key, reader, nil)
	if err != nil {
		return wrapCOSError(key, "failed to upload to COS", err)
	}
	return nil
}

// UploadFile uploads a local file to the specified key.
func (s *COSStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	_, err := s.client.Object.PutFromFile(ctx, key, localPath, nil)
	if err != nil {
		return wrapCOSError(key, "failed to upload file to COS", err)
	}
	return nil
}

// Download downloads data from the specified key.
func (s *COSStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, wrapCOSError(key, "failed to download from COS", err)
	}
	return resp.Body, nil
}

// DownloadFile downloads data from the specified key to a local file.
func (s *COSStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create directory", err)
	}

	_, err := s.client.Object.GetToFile(ctx, key, localPath, nil)
	if err != nil {
		return wrapCOSError(key, "failed to download file from COS", err)
	}
	return nil
}

// Delete deletes the object at the specified key.
func (s *COSStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.Object.Delete(ctx, key, nil)
	if err != nil {
		return wrapCOSError(key, "failed to delete from COS", err)
	}
	return nil
}

// Exists checks if an object exists at the specified key.
func (s *COSStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, wrapCOSError(key, "failed to check existence in COS", err)
	}
	return ok, nil
}

// GetURL returns the public URL for the specified key.
func (s *COSStorage) GetURL(key string) string {
	return s.bucketURL + "/" + strings.TrimPrefix(key, "/")
}

// wrapCOSError maps a 404 from COS to NOT_FOUND and anything else to
// STORAGE_ERROR.
func wrapCOSError(key, message string, err error) error {
	if cos.IsNotFoundError(err) {
		return apperrors.Newf(apperrors.CodeNotFound, "object not found: %s", key)
	}
	return apperrors.Wrap(apperrors.CodeStorageError, message, err)
}
