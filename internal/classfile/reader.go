package classfile

import (
	"encoding/binary"

	apperrors "github.com/jar-analysis/pkg/errors"
)

// reader is a bounds-checked big-endian cursor over classfile bytes.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) truncated(want int) error {
	return apperrors.Newf(apperrors.CodeMalformedClass,
		"truncated classfile: need %d bytes at offset %d, have %d", want, r.pos, len(r.data)-r.pos)
}

func (r *reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return r.truncated(n)
	}
	return nil
}

// ReadUint8 reads one byte.
func (r *reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadUint16 reads a big-endian u2.
func (r *reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a big-endian u4.
func (r *reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadBytes returns the next n bytes without copying.
func (r *reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances past n bytes.
func (r *reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Offset returns the current read position.
func (r *reader) Offset() int {
	return r.pos
}

func malformed(format string, args ...interface{}) error {
	return apperrors.Newf(apperrors.CodeMalformedClass, format, args...)
}
