package jar_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jar-analysis/internal/jar"
	"github.com/jar-analysis/internal/testutil"
	apperrors "github.com/jar-analysis/pkg/errors"
)

func TestOpenFile(t *testing.T) {
	modified := time.Date(2020, 1, 2, 3, 4, 6, 0, time.UTC)
	path := testutil.NewJar().
		MultiRelease().
		ManifestAttr("Sealed", "true").
		AddClass("", testutil.NewClass("com/a/A")).
		AddAt("com/a/data.txt", []byte("hello"), modified).
		AddClass("META-INF/versions/11/", testutil.NewClass("com/a/A")).
		Write(t, "sample.jar")

	z, err := jar.OpenFile(path)
	require.NoError(t, err)
	defer z.Close()

	assert.Equal(t, path, z.Path())
	assert.True(t, z.MultiRelease())
	assert.True(t, z.Sealed())
	require.NotNil(t, z.Manifest())

	names := make([]string, 0)
	for _, e := range z.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		jar.ManifestPath,
		"com/a/A.class",
		"com/a/data.txt",
		"META-INF/versions/11/com/a/A.class",
	}, names)

	data, err := jar.ReadEntry(z, z.Entries()[2])
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.EqualValues(t, 5, z.Entries()[2].Size)
	assert.True(t, z.Entries()[2].Modified.Equal(modified))

	// Entries can be opened more than once.
	again, err := jar.ReadEntry(z, z.Entries()[2])
	require.NoError(t, err)
	assert.Equal(t, data, again)

	_, err = z.Open(jar.Entry{Name: "nope"})
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, z.Close())
	require.NoError(t, z.Close())
}

func TestOpenFile_NoManifest(t *testing.T) {
	path := testutil.NewJar().AddClass("", testutil.NewClass("A")).Write(t, "plain.jar")

	z, err := jar.OpenFile(path)
	require.NoError(t, err)
	defer z.Close()

	assert.Nil(t, z.Manifest())
	assert.False(t, z.MultiRelease())
	assert.False(t, z.Sealed())
}

func TestOpenFile_Errors(t *testing.T) {
	_, err := jar.OpenFile(filepath.Join(t.TempDir(), "missing.jar"))
	require.Error(t, err)
	assert.True(t, apperrors.IsArchiveError(err))

	notZip := filepath.Join(t.TempDir(), "bad.jar")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0644))
	_, err = jar.OpenFile(notZip)
	require.Error(t, err)
	assert.True(t, apperrors.IsArchiveError(err))
}
