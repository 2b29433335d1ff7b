package analyzer

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/jar-analysis/internal/jar"
)

// Archive is an analysis handle for one jar. It owns at most one analysis
// result, computed on first use, plus any other per-archive values cached
// through Memo.
type Archive struct {
	name         string
	reader       jar.Reader
	manifest     *jar.Manifest
	multiRelease bool
	sealed       bool
	closer       io.Closer

	mu     sync.Mutex
	result *Result

	memoMu sync.Mutex
	memo   map[string]interface{}
}

// ArchiveOption configures an Archive built with NewArchive.
type ArchiveOption func(*Archive)

// WithMultiRelease marks the archive as multi-release.
func WithMultiRelease(multiRelease bool) ArchiveOption {
	return func(a *Archive) {
		a.multiRelease = multiRelease
	}
}

// WithSealed marks the archive as sealed.
func WithSealed(sealed bool) ArchiveOption {
	return func(a *Archive) {
		a.sealed = sealed
	}
}

// WithManifest attaches a parsed manifest and takes both flags from it.
func WithManifest(m *jar.Manifest) ArchiveOption {
	return func(a *Archive) {
		a.manifest = m
		a.multiRelease = m.MultiRelease()
		a.sealed = m.Sealed()
	}
}

// NewArchive wraps an entry reader. The multi-release flag defaults to false.
func NewArchive(name string, reader jar.Reader, opts ...ArchiveOption) *Archive {
	a := &Archive{
		name:   name,
		reader: reader,
		memo:   make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OpenArchive opens the jar at path. Flags come from its manifest.
func OpenArchive(path string) (*Archive, error) {
	z, err := jar.OpenFile(path)
	if err != nil {
		return nil, err
	}
	a := NewArchive(path, z, WithManifest(z.Manifest()))
	a.closer = z
	return a, nil
}

// Name returns the archive name, the file path for opened archives.
func (a *Archive) Name() string {
	return a.name
}

// BaseName returns the last element of Name.
func (a *Archive) BaseName() string {
	return filepath.Base(a.name)
}

// Reader returns the entry reader.
func (a *Archive) Reader() jar.Reader {
	return a.reader
}

// Entries returns every entry of the archive.
func (a *Archive) Entries() []jar.Entry {
	return a.reader.Entries()
}

// ClassEntries returns the class entries of the archive.
func (a *Archive) ClassEntries() []jar.Entry {
	return jar.ClassEntries(a.reader.Entries())
}

// Manifest returns the manifest, or nil.
func (a *Archive) Manifest() *jar.Manifest {
	return a.manifest
}

// MultiRelease reports whether the archive is a multi-release jar.
func (a *Archive) MultiRelease() bool {
	return a.multiRelease
}

// Sealed reports whether the archive is sealed.
func (a *Archive) Sealed() bool {
	return a.sealed
}

// Analyzed reports whether an analysis result is already attached.
func (a *Archive) Analyzed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result != nil
}

// Memo returns the value cached under key, computing it with fn on first
// use. Errors are returned and not cached.
func (a *Archive) Memo(key string, fn func() (interface{}, error)) (interface{}, error) {
	a.memoMu.Lock()
	defer a.memoMu.Unlock()

	if v, ok := a.memo[key]; ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return nil, err
	}
	a.memo[key] = v
	return v, nil
}

// Close releases the underlying file, if the archive owns one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
