package identification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jar-analysis/internal/analyzer"
	"github.com/jar-analysis/internal/jar"
	"github.com/jar-analysis/internal/testutil"
	"github.com/jar-analysis/pkg/model"
)

func TestIdentify(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	path := testutil.NewJar().
		ManifestAttr("Implementation-Title", "Acme Core").
		ManifestAttr("Implementation-Version", "3.1.0").
		ManifestAttr("Implementation-Vendor", "Acme Inc.").
		ManifestAttr("Specification-Version", "3.1").
		ManifestAttr("Extension-Name", "com.acme.core").
		AddAt("com/acme/core/A.class", testutil.NewClass("com/acme/core/A").Build(), day1).
		AddAt("com/acme/core/B.class", testutil.NewClass("com/acme/core/B").Build(), day1).
		AddAt("com/acme/util/C.class", testutil.NewClass("com/acme/util/C").Build(), day2).
		AddAt("META-INF/acme-version.txt", []byte("3.1.0-final\nignored\n"), day2).
		Write(t, "acme-core.jar")

	archive, err := analyzer.OpenArchive(path)
	require.NoError(t, err)
	defer archive.Close()

	id := NewIdentifier(analyzer.New(nil), nil).Identify(archive)

	assert.Equal(t, []string{"com.acme.core", "com.acme.util"}, id.GroupIDs)
	assert.Equal(t, []string{"Acme Core"}, id.Names)
	assert.Equal(t, []string{"Acme Inc."}, id.Vendors)
	assert.Equal(t, []string{"3.1.0", "3.1", "20240501", "3.1.0-final"}, id.Versions)
}

func TestTimestampExposer_Ties(t *testing.T) {
	r := jar.NewMemoryReader().
		AddAt("a", nil, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)).
		AddAt("b", nil, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)).
		Add("c", nil)

	id := &model.Identification{}
	(&TimestampExposer{}).Expose(id, analyzer.NewArchive("t.jar", r))
	assert.Equal(t, []string{"20200102"}, id.Versions)

	empty := &model.Identification{}
	(&TimestampExposer{}).Expose(empty, analyzer.NewArchive("e.jar", jar.NewMemoryReader()))
	assert.Empty(t, empty.Versions)
}

func TestManifestExposer_NoManifest(t *testing.T) {
	id := &model.Identification{}
	(&ManifestExposer{}).Expose(id, analyzer.NewArchive("x.jar", jar.NewMemoryReader()))
	assert.Equal(t, &model.Identification{}, id)
}

func TestManifestExposer_EntrySections(t *testing.T) {
	m := jar.ParseManifest([]byte("Manifest-Version: 1.0\n\nName: com/acme/\nSpecification-Title: Acme API\nSpecification-Vendor: Acme\n"))
	archive := analyzer.NewArchive("x.jar", jar.NewMemoryReader(), analyzer.WithManifest(m))

	id := &model.Identification{}
	(&ManifestExposer{}).Expose(id, archive)
	assert.Equal(t, []string{"Acme API"}, id.Names)
	assert.Equal(t, []string{"Acme"}, id.Vendors)
}

func TestTextFileExposer_SkipsClassesAndEmpty(t *testing.T) {
	r := jar.NewMemoryReader().
		Add("com/acme/Version.class", []byte{0xCA}).
		Add("VERSION", []byte("")).
		Add("build/version.properties", []byte("version=2\r\n"))

	id := &model.Identification{}
	NewTextFileExposer(nil).Expose(id, analyzer.NewArchive("x.jar", r))
	assert.Equal(t, []string{"version=2"}, id.Versions)
}
