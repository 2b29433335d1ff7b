package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// LocalStorage stores objects as files under a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./storage"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to create storage directory", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Upload uploads data from reader to the specified key.
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFile(s.getFullPath(key), reader)
}

// UploadFile uploads a local file to the specified key.
func (s *LocalStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to open source file", err)
	}
	defer src.Close()

	return writeFile(s.getFullPath(key), src)
}

// Download downloads data from the specified key.
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.open(key)
}

// DownloadFile downloads data from the specified key to a local file.
func (s *LocalStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := s.open(key)
	if err != nil {
		return err
	}
	defer src.Close()

	return writeFile(localPath, src)
}

// Delete removes the object; deleting a missing object is not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.getFullPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to delete file", err)
	}
	return nil
}

// Exists checks if an object exists at the specified key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.getFullPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.CodeStorageError, "failed to check file existence", err)
	}
	return true, nil
}

// GetURL returns the file path for local storage.
func (s *LocalStorage) GetURL(key string) string {
	return s.getFullPath(key)
}

// GetBasePath returns the base path for the local storage.
func (s *LocalStorage) GetBasePath() string {
	return s.basePath
}

func (s *LocalStorage) getFullPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

func (s *LocalStorage) open(key string) (*os.File, error) {
	file, err := os.Open(s.getFullPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "object not found: %s", key)
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to open file", err)
	}
	return file, nil
}

// writeFile copies reader into path, creating parent directories.
func writeFile(path string, reader io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create directory", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create file", err)
	}

	if _, err := io.Copy(dst, reader); err != nil {
		dst.Close()
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to write file", err)
	}
	if err := dst.Close(); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to write file", err)
	}
	return nil
}
