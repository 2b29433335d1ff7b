package jar

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zip"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// ZipFile is a Reader over a jar on disk.
type ZipFile struct {
	path     string
	zr       *zip.ReadCloser
	files    map[string]*zip.File
	entries  []Entry
	manifest *Manifest

	closeOnce sync.Once
	closeErr  error
}

var _ Reader = (*ZipFile)(nil)

// OpenFile opens the archive at path, indexes its entries and parses its
// manifest. Missing files and non-ZIP content fail with ARCHIVE_ERROR.
func OpenFile(path string) (*ZipFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeArchiveError, fmt.Sprintf("stat %s", path), err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeArchiveError, fmt.Sprintf("open %s", path), err)
	}

	z := &ZipFile{
		path:    path,
		zr:      zr,
		files:   make(map[string]*zip.File, len(zr.File)),
		entries: make([]Entry, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		z.files[f.Name] = f
		z.entries = append(z.entries, Entry{
			Name:     f.Name,
			Size:     int64(f.UncompressedSize64),
			Modified: f.Modified,
		})
	}

	if f, ok := z.files[ManifestPath]; ok {
		data, err := readZipFile(f)
		if err != nil {
			zr.Close()
			return nil, apperrors.Wrap(apperrors.CodeArchiveError, "read manifest", err)
		}
		z.manifest = ParseManifest(data)
	}

	return z, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Path returns the archive's file path.
func (z *ZipFile) Path() string {
	return z.path
}

// Entries returns all entries in archive order.
func (z *ZipFile) Entries() []Entry {
	return z.entries
}

// Open opens the content of entry.
func (z *ZipFile) Open(entry Entry) (io.ReadCloser, error) {
	f, ok := z.files[entry.Name]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "entry %s not in %s", entry.Name, z.path)
	}
	return f.Open()
}

// Manifest returns the parsed manifest, or nil when the archive has none.
func (z *ZipFile) Manifest() *Manifest {
	return z.manifest
}

// MultiRelease reports whether the manifest declares Multi-Release: true.
func (z *ZipFile) MultiRelease() bool {
	return z.manifest.MultiRelease()
}

// Sealed reports whether the manifest declares Sealed: true.
func (z *ZipFile) Sealed() bool {
	return z.manifest.Sealed()
}

// Close releases the underlying file. It is safe to call more than once.
func (z *ZipFile) Close() error {
	z.closeOnce.Do(func() {
		z.closeErr = z.zr.Close()
	})
	return z.closeErr
}
