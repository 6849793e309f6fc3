package source

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeGzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoad_GzipMemory(t *testing.T) {
	original := []byte("BLENDER-v400sentinelpayload")
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.blend.gz")
	require.NoError(t, os.WriteFile(path, encodeGzip(t, original), 0o600))

	buf, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	defer buf.Close()

	require.Equal(t, ModeGzipMemory, buf.Mode)
	require.Equal(t, original, buf.Bytes)
}

func TestLoad_GzipCorruptStreamIsBadCompression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.blend.gz")
	corrupt := append([]byte{0x1F, 0x8B, 0x08, 0x00}, []byte("not a real gzip body")...)
	require.NoError(t, os.WriteFile(path, corrupt, 0o600))

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "BadCompression")
}
