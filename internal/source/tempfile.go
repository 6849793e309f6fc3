package source

import (
	"io"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/scigolib/blendfile/internal/utils"
)

// spillToTempfile writes prefix followed by the remainder of rest to a
// private temp file, then opens it back either as a memory-mapped region
// (when opts.PreferMmapTemp and the platform supports it) or, failing
// that, as a plain buffered read. The temp file is unlinked when the
// returned Buffer is Closed (spec §4.1: "scoped to the buffer's lifetime").
func spillToTempfile(prefix []byte, rest io.Reader, opts Options, path string, mode Mode) (*Buffer, error) {
	tmp, err := os.CreateTemp(opts.TempDir, "blendfile-*.tmp")
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindIO, "failed to create spill tempfile", err), path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(prefix); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, utils.WithPath(utils.NewError(utils.KindIO, "failed to spill decompressed prefix", err), path)
	}
	scratch := utils.GetBuffer(32 * 1024)
	_, copyErr := io.CopyBuffer(tmp, rest, scratch)
	utils.ReleaseBuffer(scratch)
	if copyErr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "failed to spill remainder of decompressed stream", copyErr), path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, utils.WithPath(utils.NewError(utils.KindIO, "failed to finalize spill tempfile", err), path)
	}

	if opts.PreferMmapTemp {
		if buf, err := mmapBuffer(tmpPath, mode); err == nil {
			return buf, nil
		}
		// Mapping failed (unsupported platform, fd limits): fall through
		// to the buffered-file path rather than failing the whole load.
	}

	return bufferedFileBuffer(tmpPath, mode)
}

// mmapBuffer opens tmpPath through golang.org/x/exp/mmap and materializes
// its full contents into a flat slice via ReaderAt.ReadAt. This keeps the
// decode pipeline's uniform []byte contract (every downstream component
// from the block scanner on expects a contiguous buffer). The returned
// Bytes are a heap copy of the whole mapped file, not the mapping itself;
// the mapping stays open until the Buffer is Closed.
func mmapBuffer(tmpPath string, mode Mode) (*Buffer, error) {
	r, err := mmap.Open(tmpPath)
	if err != nil {
		return nil, err
	}

	data, err := materializeReaderAt(r, r.Len())
	if err != nil {
		r.Close()
		return nil, err
	}

	return &Buffer{
		Bytes:   data,
		Mode:    mode,
		closer:  r,
		tmpPath: tmpPath,
	}, nil
}

// materializeReaderAt copies the first n bytes behind r into a flat slice,
// tolerating an EOF that lands exactly at n (the common case for a ReaderAt
// backed by a file whose length we already know).
func materializeReaderAt(r io.ReaderAt, n int) ([]byte, error) {
	data := make([]byte, n)
	read, err := r.ReadAt(data, 0)
	if err != nil && !(err == io.EOF && read == n) {
		return nil, err
	}
	return data, nil
}

// bufferedFileBuffer reads tmpPath fully through a plain os.File, used when
// mmap is unavailable or disabled.
func bufferedFileBuffer(tmpPath string, mode Mode) (*Buffer, error) {
	f, err := os.Open(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, utils.WithPath(utils.NewError(utils.KindIO, "failed to reopen spill tempfile", err), tmpPath)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return nil, utils.WithPath(utils.NewError(utils.KindIO, "failed to read spill tempfile", err), tmpPath)
	}

	return &Buffer{
		Bytes:   data,
		Mode:    mode,
		tmpPath: tmpPath,
	}, nil
}
