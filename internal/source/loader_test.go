package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectCompression(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want Mode
	}{
		{"zstd", []byte{0x28, 0xB5, 0x2F, 0xFD, 0x00}, ModeZstdMemory},
		{"gzip", []byte{0x1F, 0x8B, 0x08}, ModeGzipMemory},
		{"zlib-default", []byte{0x78, 0x9C, 0x00}, ModeZlibMemory},
		{"zlib-no-compression", []byte{0x78, 0x01, 0x00}, ModeZlibMemory},
		{"plain", []byte("BLENDER-v400"), ModeUncompressed},
		{"too-short", []byte{0x1F}, ModeUncompressed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, detectCompression(tc.buf))
		})
	}
}

func TestLoad_Uncompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.blend")
	content := []byte("BLENDER-v400" + "sentinelpayload")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	buf, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	defer buf.Close()

	require.Equal(t, ModeUncompressed, buf.Mode)
	require.Equal(t, content, buf.Bytes)
}

func TestLoad_MissingFileIsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.blend"), DefaultOptions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "IO")
}

func TestBuffer_CloseIsSafeWithoutBackingResource(t *testing.T) {
	b := &Buffer{Bytes: []byte("x"), Mode: ModeUncompressed}
	require.NoError(t, b.Close())
}
