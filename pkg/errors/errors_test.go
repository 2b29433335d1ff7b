package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeMalformedClass, "bad magic"),
			expected: "[MALFORMED_CLASS] bad magic",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeEntryReadFailure, "read a/B.class", errors.New("unexpected EOF")),
			expected: "[ENTRY_READ_FAILURE] read a/B.class: unexpected EOF",
		},
		{
			name:     "formatted message",
			err:      Newf(CodeInvalidArgument, "release %q is not an integer", "x"),
			expected: `[INVALID_ARGUMENT] release "x" is not an integer`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeArchiveError, "open failed", underlying)

	assert.Equal(t, underlying, err.Unwrap())
	assert.True(t, errors.Is(err, underlying))
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeMalformedClass, "error 1")
	err2 := New(CodeMalformedClass, "error 2")
	err3 := New(CodeEntryReadFailure, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("probe: %w", Wrap(CodeMalformedClass, "truncated", errors.New("EOF")))

	tests := []struct {
		name  string
		check func(error) bool
		err   error
		want  bool
	}{
		{"malformed direct", IsMalformedClass, ErrMalformedClass, true},
		{"malformed wrapped by fmt", IsMalformedClass, wrapped, true},
		{"malformed nil", IsMalformedClass, nil, false},
		{"entry read", IsEntryReadFailure, Wrap(CodeEntryReadFailure, "x", nil), true},
		{"entry read other", IsEntryReadFailure, ErrMalformedClass, false},
		{"invalid argument", IsInvalidArgument, New(CodeInvalidArgument, "missing"), true},
		{"archive", IsArchiveError, New(CodeArchiveError, "zip"), true},
		{"not found", IsNotFound, ErrNotFound, true},
		{"plain error", IsNotFound, errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeMalformedClass, GetErrorCode(ErrMalformedClass))
	assert.Equal(t, CodeInvalidArgument, GetErrorCode(fmt.Errorf("ctx: %w", ErrInvalidArgument)))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
	assert.Equal(t, CodeUnknown, GetErrorCode(nil))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "bad magic", GetErrorMessage(New(CodeMalformedClass, "bad magic")))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
