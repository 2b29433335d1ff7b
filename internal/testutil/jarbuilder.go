package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

// JarEntry is one file written by JarBuilder.
type JarEntry struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// JarBuilder writes ZIP archives laid out like jars.
type JarBuilder struct {
	manifest []string
	entries  []JarEntry
}

// NewJar starts an empty archive.
func NewJar() *JarBuilder {
	return &JarBuilder{}
}

// ManifestAttr adds a main-section manifest attribute. The manifest entry is
// only written if at least one attribute was added.
func (b *JarBuilder) ManifestAttr(name, value string) *JarBuilder {
	b.manifest = append(b.manifest, name+": "+value)
	return b
}

// MultiRelease marks the archive as a multi-release jar.
func (b *JarBuilder) MultiRelease() *JarBuilder {
	return b.ManifestAttr("Multi-Release", "true")
}

// Add adds an arbitrary entry.
func (b *JarBuilder) Add(name string, data []byte) *JarBuilder {
	b.entries = append(b.entries, JarEntry{Name: name, Data: data})
	return b
}

// AddAt adds an entry with an explicit modification time.
func (b *JarBuilder) AddAt(name string, data []byte, modified time.Time) *JarBuilder {
	b.entries = append(b.entries, JarEntry{Name: name, Data: data, Modified: modified})
	return b
}

// AddClass adds a class built by c under its internal name, optionally
// prefixed (for example "META-INF/versions/11/").
func (b *JarBuilder) AddClass(prefix string, c *ClassBuilder) *JarBuilder {
	return b.Add(prefix+c.name+".class", c.Build())
}

// Entries returns the entries added so far, manifest excluded.
func (b *JarBuilder) Entries() []JarEntry {
	return b.entries
}

// Write writes the archive into a temp directory and returns its path.
func (b *JarBuilder) Write(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := b.WriteFile(path); err != nil {
		t.Fatalf("failed to write jar %s: %v", name, err)
	}
	return path
}

// WriteFile writes the archive to path.
func (b *JarBuilder) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if len(b.manifest) > 0 {
		content := "Manifest-Version: 1.0\r\n" + strings.Join(b.manifest, "\r\n") + "\r\n\r\n"
		w, err := zw.Create("META-INF/MANIFEST.MF")
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return err
		}
	}
	for _, e := range b.entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if !e.Modified.IsZero() {
			hdr.Modified = e.Modified
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if _, err := w.Write(e.Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}
