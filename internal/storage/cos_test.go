package storage

import (
	"bytes"
	"context"
	"hash/crc64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jar-analysis/pkg/config"
	apperrors "github.com/jar-analysis/pkg/errors"
)

// fakeBucket is an in-memory object store speaking enough of the COS REST
// protocol for Put, Get, Head and Delete.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = data
		setChecksum(w, data)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		data, ok := b.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte(`<Error><Code>NoSuchKey</Code><Message>not found</Message></Error>`))
			}
			return
		}
		setChecksum(w, data)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	case http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// setChecksum sends the CRC64 the SDK verifies transfers against.
func setChecksum(w http.ResponseWriter, data []byte) {
	sum := crc64.Checksum(data, crc64.MakeTable(crc64.ECMA))
	w.Header().Set("x-cos-hash-crc64ecma", strconv.FormatUint(sum, 10))
}

func newFakeCOS(t *testing.T) *COSStorage {
	server := httptest.NewServer(&fakeBucket{objects: map[string][]byte{}})
	t.Cleanup(server.Close)

	s, err := NewCOSStorage(&COSConfig{
		Bucket:    "jars-1250000000",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
		Endpoint:  server.URL,
	})
	require.NoError(t, err)
	return s
}

func TestNewCOSStorage_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *COSConfig
		want string
	}{
		{"MissingBucket", &COSConfig{Region: "ap-guangzhou", SecretID: "id", SecretKey: "key"}, "bucket and region are required"},
		{"MissingRegion", &COSConfig{Bucket: "b", SecretID: "id", SecretKey: "key"}, "bucket and region are required"},
		{"MissingCredentials", &COSConfig{Bucket: "b", Region: "ap-guangzhou"}, "credentials are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewCOSStorage(tt.cfg)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, apperrors.CodeConfigError, apperrors.GetErrorCode(err))
		})
	}
}

func TestCOSStorage_GetURL(t *testing.T) {
	s, err := NewCOSStorage(&COSConfig{
		Bucket:    "my-bucket",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://my-bucket.cos.ap-guangzhou.myqcloud.com/reports/a.json", s.GetURL("reports/a.json"))

	s, err = NewCOSStorage(&COSConfig{
		Bucket:    "my-bucket",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
		Endpoint:  "http://gateway.local:9000/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://gateway.local:9000/reports/a.json", s.GetURL("/reports/a.json"))
}

func TestCOSStorage_RoundTrip(t *testing.T) {
	s := newFakeCOS(t)
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "archives/lib.jar", bytes.NewReader([]byte("jar bytes"))))

	ok, err := s.Exists(ctx, "archives/lib.jar")
	require.NoError(t, err)
	assert.True(t, ok)

	reader, err := s.Download(ctx, "archives/lib.jar")
	require.NoError(t, err)
	data, err := io.ReadAll(reader)
	reader.Close()
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", string(data))

	dest := filepath.Join(t.TempDir(), "work", "lib.jar")
	require.NoError(t, s.DownloadFile(ctx, "archives/lib.jar", dest))
	onDisk, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", string(onDisk))

	require.NoError(t, s.Delete(ctx, "archives/lib.jar"))
	ok, err = s.Exists(ctx, "archives/lib.jar")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCOSStorage_DownloadMissing(t *testing.T) {
	s := newFakeCOS(t)

	_, err := s.Download(context.Background(), "archives/missing.jar")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestNewStorage(t *testing.T) {
	t.Run("COS", func(t *testing.T) {
		s, err := NewStorage(&config.StorageConfig{
			Type:      "cos",
			Bucket:    "test-bucket",
			Region:    "ap-guangzhou",
			SecretID:  "test-id",
			SecretKey: "test-key",
		})
		require.NoError(t, err)
		assert.IsType(t, &COSStorage{}, s)
	})

	t.Run("LocalByDefault", func(t *testing.T) {
		s, err := NewStorage(&config.StorageConfig{LocalPath: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &LocalStorage{}, s)
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.StorageConfig
		want string
	}{
		{"NilConfig", nil, "storage config is nil"},
		{"InvalidStorageType", &config.StorageConfig{Type: "s3"}, "unsupported storage type"},
		{"COSMissingBucket", &config.StorageConfig{Type: "cos", Region: "r", SecretID: "i", SecretKey: "k"}, "COS bucket is required"},
		{"COSMissingRegion", &config.StorageConfig{Type: "cos", Bucket: "b", SecretID: "i", SecretKey: "k"}, "COS region is required"},
		{"COSMissingCredentials", &config.StorageConfig{Type: "cos", Bucket: "b", Region: "r"}, "COS credentials are required"},
		{"LocalMissingPath", &config.StorageConfig{Type: "local"}, "local storage path is required"},
		{"ValidCOSConfig", &config.StorageConfig{Type: "cos", Bucket: "b", Region: "r", SecretID: "i", SecretKey: "k"}, ""},
		{"ValidLocalConfig", &config.StorageConfig{Type: "local", LocalPath: "/tmp/storage"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
