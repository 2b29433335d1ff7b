// Package jar provides access to the entries of Java archives and the
// path-level rules that partition them.
package jar

import (
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// ClassSuffix marks compiled class entries.
const ClassSuffix = ".class"

// Entry describes one archive member.
type Entry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// IsDir reports whether the entry is a directory marker.
func (e Entry) IsDir() bool {
	return strings.HasSuffix(e.Name, "/")
}

// IsClass reports whether the entry is a compiled class.
func (e Entry) IsClass() bool {
	return !e.IsDir() && strings.HasSuffix(e.Name, ClassSuffix)
}

// Reader enumerates archive entries and opens their content. Implementations
// must allow many sequential, independent Open calls.
type Reader interface {
	Entries() []Entry
	Open(entry Entry) (io.ReadCloser, error)
}

// ClassEntries returns the class entries of entries, keeping their order.
func ClassEntries(entries []Entry) []Entry {
	classes := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsClass() {
			classes = append(classes, e)
		}
	}
	return classes
}

// ReadEntry reads the full content of an entry. Failures are reported as
// ENTRY_READ_FAILURE.
func ReadEntry(r Reader, entry Entry) ([]byte, error) {
	rc, err := r.Open(entry)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeEntryReadFailure, fmt.Sprintf("open %s", entry.Name), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeEntryReadFailure, fmt.Sprintf("read %s", entry.Name), err)
	}
	return data, nil
}
