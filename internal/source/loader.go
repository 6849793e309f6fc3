// Package source produces a contiguous byte buffer from a file path,
// transparently unwrapping zstd/gzip/zlib envelopes (spec component C1).
package source

import (
	"io"
	"os"

	"github.com/scigolib/blendfile/internal/utils"
)

// Mode classifies how a Buffer's bytes are backed.
type Mode int

const (
	ModeUncompressed Mode = iota
	ModeZstdMemory
	ModeZstdTempfile
	ModeGzipMemory
	ModeZlibMemory
)

// Options controls how Load decompresses and bounds its input.
type Options struct {
	// MaxInMemoryBytes is the decompressed-size budget past which Load
	// spills to a temporary file instead of growing an in-memory buffer.
	MaxInMemoryBytes int64
	// PreferMmapTemp memory-maps a spilled temp file when the platform
	// supports it; otherwise the temp file is read back through a
	// buffered os.File.
	PreferMmapTemp bool
	// TempDir overrides the directory used for spilled temp files; the
	// OS default is used when empty.
	TempDir string
}

// DefaultOptions returns the zero-value-safe defaults Open uses when the
// caller supplies none.
func DefaultOptions() Options {
	return Options{
		MaxInMemoryBytes: 256 * 1024 * 1024,
		PreferMmapTemp:   true,
	}
}

// Buffer is an immutable byte slice plus the means to release any backing
// resource (a memory mapping, a spilled temp file) when the caller is done
// with it.
type Buffer struct {
	Bytes   []byte
	Mode    Mode
	closer  io.Closer
	tmpPath string
}

// Close releases any resource backing the buffer (closes a memory mapping
// or open file handle, and unlinks a spilled temp file). Safe to call on a
// pure in-memory Buffer.
func (b *Buffer) Close() error {
	var err error
	if b.closer != nil {
		err = b.closer.Close()
	}
	if b.tmpPath != "" {
		if rmErr := os.Remove(b.tmpPath); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}

// magic byte sequences that identify a compression envelope (spec §4.1).
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B}
)

func detectCompression(buf []byte) Mode {
	switch {
	case hasPrefix(buf, zstdMagic):
		return ModeZstdMemory
	case hasPrefix(buf, gzipMagic):
		return ModeGzipMemory
	case len(buf) >= 2 && buf[0] == 0x78 && isZlibFlagByte(buf[1]):
		return ModeZlibMemory
	default:
		return ModeUncompressed
	}
}

func isZlibFlagByte(b byte) bool {
	switch b {
	case 0x01, 0x5E, 0x9C, 0xDA:
		return true
	default:
		return false
	}
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if buf[i] != p {
			return false
		}
	}
	return true
}

// Load reads path and returns a Buffer holding its decompressed contents,
// choosing a Mode by sniffing the file's leading bytes. opts.MaxInMemoryBytes
// bounds in-memory decompression for the zstd envelope only (the other
// envelopes here are small-enough scene-document companions in practice and
// always decompress to memory; see zstd.go for the tempfile-spill path).
func Load(path string, opts Options) (*Buffer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.WithPath(utils.WrapError("failed to read file", err), path)
	}

	switch detectCompression(raw) {
	case ModeZstdMemory:
		return decodeZstd(raw, opts, path)
	case ModeGzipMemory:
		return decodeGzip(raw, path)
	case ModeZlibMemory:
		return decodeZlib(raw, path)
	default:
		return &Buffer{Bytes: raw, Mode: ModeUncompressed}, nil
	}
}
