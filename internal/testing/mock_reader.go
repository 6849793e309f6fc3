// Package testing provides byte-level fixtures for decode-pipeline tests.
package testing

import "github.com/scigolib/blendfile/internal/utils"

// MockReaderAt is an in-memory io.ReaderAt standing in for a spilled temp
// file or memory mapping, so tests can drive the materialization path
// (internal/source's mmapBuffer) without touching the filesystem.
type MockReaderAt struct {
	data []byte
}

// NewMockReaderAt creates a new mock reader with the given data.
func NewMockReaderAt(data []byte) *MockReaderAt {
	return &MockReaderAt{data: data}
}

// ReadAt implements io.ReaderAt, failing the same way the real source
// loader's tempfile path does: a *utils.BlendError tagged utils.KindIO, so
// tests exercising error branches see the same error shape production
// code returns.
func (m *MockReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, utils.NewError(utils.KindIO, "negative offset", nil)
	}

	if off >= int64(len(m.data)) {
		return 0, utils.NewError(utils.KindIO, "offset beyond EOF", nil)
	}

	n = copy(p, m.data[off:])
	if n < len(p) {
		err = utils.NewError(utils.KindIO, "short read", nil)
	}
	return
}
