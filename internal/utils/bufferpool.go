package utils

import "sync"

// bufferPool holds scratch buffers; the source loader's tempfile spill
// draws its copy buffer from here. Payload slices are never drawn from
// here — they must stay zero-copy views into the source buffer.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 32)
	},
}

// GetBuffer returns a scratch byte slice of length size, reusing a pooled
// buffer when its capacity suffices and allocating a new one otherwise.
func GetBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size, size*2) // Increase capacity.
	}
	return buf[:size]
}

// ReleaseBuffer returns a buffer to the pool.
func ReleaseBuffer(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}
