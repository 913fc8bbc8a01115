package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *PreviewError
		want string
	}{
		{"path and cause", NewIOError("cannot open file", "/tmp/a.txt", fs.ErrNotExist), "cannot open file: /tmp/a.txt: file does not exist"},
		{"path only", NewUnsupportedKind("volume stack is not supported", "/tmp/s.mrcs"), "volume stack is not supported: /tmp/s.mrcs"},
		{"cause only", NewClassificationError("probe failed", "", fs.ErrPermission), "probe failed: permission denied"},
		{"bare", &PreviewError{msg: "oops"}, "oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindMatchingThroughWrapping(t *testing.T) {
	base := NewDecodeError("not utf-8", "/tmp/b.bin", nil)
	wrapped := fmt.Errorf("render text: %w", base)

	assert.True(t, Is(wrapped, ErrDecode))
	assert.False(t, Is(wrapped, ErrIO))
	assert.Equal(t, DecodeError, KindOf(wrapped))
	assert.Equal(t, Unknown, KindOf(fmt.Errorf("plain")))

	var pe *PreviewError
	require.True(t, As(wrapped, &pe))
	assert.Equal(t, "/tmp/b.bin", pe.Path())
}

func TestUnwrapReachesCause(t *testing.T) {
	err := NewIOError("read failed", "/x", fs.ErrClosed)
	assert.True(t, Is(err, fs.ErrClosed))
	assert.Equal(t, "io error", IOError.String())
}
