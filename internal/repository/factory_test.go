package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jar-analysis/pkg/errors"
)

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.db")

	repos, err := Open(&DBConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	defer repos.Close()

	assert.NotNil(t, repos.Reports)
	assert.NotNil(t, repos.DB())
	assert.NotNil(t, repos.GormDB())
	assert.NoError(t, repos.HealthCheck(context.Background()))
	assert.FileExists(t, path)
}

func TestOpen_InMemoryDefault(t *testing.T) {
	repos, err := Open(&DBConfig{})
	require.NoError(t, err)
	defer repos.Close()

	_, err = repos.Reports.List(context.Background(), 10)
	assert.NoError(t, err)
}

func TestNewGormDB_UnsupportedType(t *testing.T) {
	_, err := NewGormDB(&DBConfig{Type: "oracle"})
	assert.Equal(t, apperrors.CodeConfigError, apperrors.GetErrorCode(err))
}

func TestRepositories_Close(t *testing.T) {
	repos, err := Open(&DBConfig{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	assert.NoError(t, repos.Close())
	assert.NoError(t, (&Repositories{}).Close())
}
