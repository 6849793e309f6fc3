package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlendError_Error(t *testing.T) {
	err := NewError(KindBadMagic, "reading header", errors.New("not BLENDER"))
	require.Contains(t, err.Error(), "BadMagic")
	require.Contains(t, err.Error(), "reading header")
	require.Contains(t, err.Error(), "not BLENDER")
}

func TestBlendError_Annotations(t *testing.T) {
	base := NewError(KindTruncatedBlock, "scanning blocks", nil)
	withOffset := WithOffset(base, 128)
	withPath := WithPath(withOffset, "/tmp/scene.blend")
	withBlock := WithBlock(withPath, 3, "OB")

	var be *BlendError
	require.True(t, errors.As(withBlock, &be))
	require.Equal(t, int64(128), be.Offset)
	require.Equal(t, "/tmp/scene.blend", be.Path)
	require.Equal(t, 3, be.Block)
	require.Equal(t, "OB", be.Code)
}

func TestBlendError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("short read")
	wrapped := NewError(KindIO, "loading buffer", cause)

	require.True(t, errors.Is(wrapped, cause))
	require.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestWrapError(t *testing.T) {
	require.Nil(t, WrapError("context", nil))

	cause := errors.New("boom")
	wrapped := WrapError("context", cause)
	require.NotNil(t, wrapped)
	require.True(t, errors.Is(wrapped, cause))
}

func TestWithField_PassThroughNonBlendError(t *testing.T) {
	plain := errors.New("plain error")
	require.Equal(t, plain, WithField(plain, "next"))
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "BadSdna", KindBadSdna.String())
	require.Equal(t, "Unknown", Kind(999).String())
}
