package mock

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of storage.Storage.
type MockStorage struct {
	mock.Mock

	uploadMu sync.Mutex
	uploads  map[string][]byte
}

// Upload mocks the Upload method. The uploaded bytes are recorded in
// Uploaded before the expectation is matched.
func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.recordUpload(key, data)

	args := m.Called(ctx, key, mock.Anything)
	return args.Error(0)
}

// UploadFile mocks the UploadFile method.
func (m *MockStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	args := m.Called(ctx, key, localPath)
	return args.Error(0)
}

// Download mocks the Download method.
func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// DownloadFile mocks the DownloadFile method.
func (m *MockStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	args := m.Called(ctx, key, localPath)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Exists mocks the Exists method.
func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// GetURL mocks the GetURL method.
func (m *MockStorage) GetURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// ExpectDownloadFile expects a DownloadFile of key and writes content to
// the requested local path when it happens.
func (m *MockStorage) ExpectDownloadFile(key string, content []byte) *mock.Call {
	return m.On("DownloadFile", mock.Anything, key, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			localPath := args.String(2)
			_ = os.MkdirAll(filepath.Dir(localPath), 0755)
			_ = os.WriteFile(localPath, content, 0644)
		}).
		Return(nil)
}

// Uploaded returns the bytes last uploaded to key.
func (m *MockStorage) Uploaded(key string) ([]byte, bool) {
	m.uploadMu.Lock()
	defer m.uploadMu.Unlock()
	data, ok := m.uploads[key]
	return bytes.Clone(data), ok
}

func (m *MockStorage) recordUpload(key string, data []byte) {
	m.uploadMu.Lock()
	defer m.uploadMu.Unlock()
	if m.uploads == nil {
		m.uploads = make(map[string][]byte)
	}
	m.uploads[key] = data
}
