package source

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/scigolib/blendfile/internal/utils"
)

// decodeZstd unwraps a zstd envelope into memory, spilling to a temp file
// (optionally memory-mapped) once the decompressed size exceeds
// opts.MaxInMemoryBytes (spec §4.1).
func decodeZstd(raw []byte, opts Options, path string) (*Buffer, error) {
	zr, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "zstd stream could not be opened", err), path)
	}
	defer zr.Close()

	limit := opts.MaxInMemoryBytes
	if limit <= 0 {
		limit = DefaultOptions().MaxInMemoryBytes
	}

	prefix, overflowed, err := readUpTo(zr, limit)
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "zstd stream truncated or corrupt", err), path)
	}

	if !overflowed {
		return &Buffer{Bytes: prefix, Mode: ModeZstdMemory}, nil
	}

	return spillToTempfile(prefix, zr, opts, path, ModeZstdTempfile)
}

// readUpTo reads at most limit+1 bytes from r, reporting whether more than
// limit bytes were available. When overflowed is true, prefix holds every
// byte read so far (including the one that tripped the limit) so the
// caller can still forward it to the spill path without losing data from
// the non-seekable stream.
func readUpTo(r io.Reader, limit int64) (prefix []byte, overflowed bool, err error) {
	lr := io.LimitReader(r, limit+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, false, err
	}
	overflowed = utils.ValidateBufferSize(uint64(len(data)), uint64(limit), "decompressed zstd prefix") != nil
	return data, overflowed, nil
}
