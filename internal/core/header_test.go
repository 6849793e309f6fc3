package core

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHeader_Legacy32LittleEndian(t *testing.T) {
	h, n, err := DecodeHeader([]byte("BLENDER_v280"))
	require.NoError(t, err)
	require.Equal(t, 12, n)
	require.Equal(t, 32, h.PointerWidth)
	require.Equal(t, binary.LittleEndian, h.ByteOrder)
	require.Equal(t, 280, h.FileVersion)
	require.Equal(t, FormatLegacy, h.ContainerFormat)
}

func TestDecodeHeader_Legacy64BigEndian(t *testing.T) {
	h, n, err := DecodeHeader([]byte("BLENDER-V305"))
	require.NoError(t, err)
	require.Equal(t, 12, n)
	require.Equal(t, 64, h.PointerWidth)
	require.Equal(t, binary.BigEndian, h.ByteOrder)
	require.Equal(t, 305, h.FileVersion)
	require.Equal(t, FormatLegacy, h.ContainerFormat)
}

func TestDecodeHeader_V1(t *testing.T) {
	h, n, err := DecodeHeader([]byte("BLENDER17-01v4050"))
	require.NoError(t, err)
	require.Equal(t, 17, n)
	require.Equal(t, 64, h.PointerWidth)
	require.Equal(t, binary.LittleEndian, h.ByteOrder)
	require.Equal(t, 4050, h.FileVersion)
	require.Equal(t, FormatV1, h.ContainerFormat)
}

func TestDecodeHeader_BadMagic(t *testing.T) {
	_, _, err := DecodeHeader([]byte("NOTAFILE_v280"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "BadMagic")
}

func TestDecodeHeader_V1_BadHeaderSizeOrVariant(t *testing.T) {
	cases := []string{
		"BLENDER18-01v4050", // wrong header size
		"BLENDER17-02v4050", // wrong variant
		"BLENDER17-01V4050", // big-endian indicator not permitted
	}
	for _, c := range cases {
		_, _, err := DecodeHeader([]byte(c))
		require.Error(t, err, c)
		require.Contains(t, err.Error(), "BadHeader")
	}
}

func TestDecodeHeader_TooShort(t *testing.T) {
	_, _, err := DecodeHeader([]byte("BLEND"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "BadHeader")
}

func TestSniffHeader(t *testing.T) {
	dialect, ok := SniffHeader([]byte("BLENDER_v280"))
	require.True(t, ok)
	require.Equal(t, FormatLegacy, dialect)

	dialect, ok = SniffHeader([]byte("BLENDER17-01v4050"))
	require.True(t, ok)
	require.Equal(t, FormatV1, dialect)

	_, ok = SniffHeader([]byte("GARBAGE_"))
	require.False(t, ok)
}
