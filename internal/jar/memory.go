package jar

import (
	"bytes"
	"io"
	"time"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// MemoryReader serves entries from memory. Useful when archive content has
// already been extracted by the caller.
type MemoryReader struct {
	entries []Entry
	data    map[string][]byte
}

var _ Reader = (*MemoryReader)(nil)

// NewMemoryReader creates an empty MemoryReader.
func NewMemoryReader() *MemoryReader {
	return &MemoryReader{data: make(map[string][]byte)}
}

// Add appends an entry. Adding an existing name replaces its content but
// keeps its original position.
func (m *MemoryReader) Add(name string, data []byte) *MemoryReader {
	return m.AddAt(name, data, time.Time{})
}

// AddAt appends an entry with a modification time.
func (m *MemoryReader) AddAt(name string, data []byte, modified time.Time) *MemoryReader {
	if _, exists := m.data[name]; !exists {
		m.entries = append(m.entries, Entry{Name: name, Size: int64(len(data)), Modified: modified})
	}
	m.data[name] = data
	return m
}

// Entries returns the entries in insertion order.
func (m *MemoryReader) Entries() []Entry {
	return m.entries
}

// Open returns the content of entry.
func (m *MemoryReader) Open(entry Entry) (io.ReadCloser, error) {
	data, ok := m.data[entry.Name]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "entry %s not found", entry.Name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
