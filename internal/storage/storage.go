// Package storage moves archives and reports between the local disk and an
// object store.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/jar-analysis/pkg/config"
	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
)

// Storage defines the interface for object storage operations.
type Storage interface {
	// Upload uploads data from reader to the specified key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadFile uploads a local file to the specified key.
	UploadFile(ctx context.Context, key string, localPath string) error

	// Download opens the object at key. Missing objects are NOT_FOUND errors.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// DownloadFile copies the object at key to a local file.
	DownloadFile(ctx context.Context, key string, localPath string) error

	// Delete deletes the object at the specified key.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL for the specified key (if applicable).
	GetURL(key string) string
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeCOS   StorageType = "cos"
)

// Key prefixes used by the analysis service.
const (
	ArchivePrefix = "archives/"
	ReportPrefix  = "reports/"
)

// ReportName cleans a slash-separated report name so it stays below the
// report prefix or output directory. Leading slashes and ".." elements are
// dropped.
func ReportName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// ReportKey returns the object key of the report with the given name,
// e.g. "reports/libs/guava-33.0.jar.json.gz" for "libs/guava-33.0.jar".
func ReportKey(name string, format model.ReportFormat) string {
	return ReportPrefix + ReportName(name) + "." + format.Extension()
}

// ArchiveKey returns key unchanged when it already names an object under
// ArchivePrefix, and the prefixed key otherwise.
func ArchiveKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if strings.HasPrefix(key, ArchivePrefix) {
		return key
	}
	return ArchivePrefix + key
}

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch StorageType(cfg.Type) {
	case StorageTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
			Endpoint:  cfg.Endpoint,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return apperrors.New(apperrors.CodeConfigError, "storage config is nil")
	}

	switch StorageType(cfg.Type) {
	case StorageTypeLocal, "":
		if cfg.LocalPath == "" {
			return apperrors.New(apperrors.CodeConfigError, "local storage path is required")
		}
	case StorageTypeCOS:
		if cfg.Bucket == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS bucket is required")
		}
		if cfg.Region == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS credentials are required")
		}
	default:
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported storage type: %s", cfg.Type)
	}

	return nil
}
