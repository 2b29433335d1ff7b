package identification

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/jar-analysis/internal/analyzer"
	apperrors "github.com/jar-analysis/pkg/errors"
)

const (
	fileHashKey     = "identification.file-hash"
	bytecodeHashKey = "identification.bytecode-hash"
)

// FileHash returns the hex SHA-1 of the archive file, the digest artifact
// repositories publish. The value is cached on the archive.
func FileHash(archive *analyzer.Archive) (string, error) {
	v, err := archive.Memo(fileHashKey, func() (interface{}, error) {
		f, err := os.Open(archive.Name())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeArchiveError, fmt.Sprintf("hash %s", archive.Name()), err)
		}
		defer f.Close()

		h := sha1.New()
		if _, err := io.Copy(h, f); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeArchiveError, fmt.Sprintf("hash %s", archive.Name()), err)
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// BytecodeHash returns the hex BLAKE3 digest of every class entry's content,
// in entry order. It ignores everything but class bytes, so rebuilt archives
// with identical classes hash the same. The value is cached on the archive.
func BytecodeHash(archive *analyzer.Archive) (string, error) {
	v, err := archive.Memo(bytecodeHashKey, func() (interface{}, error) {
		h := blake3.New()
		for _, entry := range archive.ClassEntries() {
			rc, err := archive.Reader().Open(entry)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeEntryReadFailure, fmt.Sprintf("open %s", entry.Name), err)
			}
			_, err = io.Copy(h, rc)
			rc.Close()
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeEntryReadFailure, fmt.Sprintf("read %s", entry.Name), err)
			}
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
