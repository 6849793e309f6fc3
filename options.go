package blendfile

import "github.com/scigolib/blendfile/internal/source"

// Options are the recognized configuration knobs spec §9 names. The zero
// value is not ready to use; call DefaultOptions and override selectively.
type Options struct {
	// MaxInMemoryBytes bounds in-memory zstd decompression before the
	// loader spills to a temp file.
	MaxInMemoryBytes int64
	// PreferMmapTemp memory-maps a spilled temp file where the platform
	// supports it.
	PreferMmapTemp bool
	// TempDir overrides the spill directory; empty uses the OS default.
	TempDir string
	// MaxBlockSize caps a single block's declared payload size.
	MaxBlockSize int64
	// AlignmentOverrides supplies known struct-alignment values for SDNA
	// type names the derivation rule in internal/core can't infer on its
	// own (e.g. a platform-specific oversized scalar). Nil uses the
	// derivation rule alone.
	AlignmentOverrides map[string]int
}

// DefaultOptions returns spec §9's stated defaults: 256 MiB in-memory
// budget, mmap preferred, OS temp dir, 100 MB per-block ceiling.
func DefaultOptions() Options {
	return Options{
		MaxInMemoryBytes: 256 * 1024 * 1024,
		PreferMmapTemp:   true,
		MaxBlockSize:     100 * 1024 * 1024,
	}
}

func (o Options) toSourceOptions() source.Options {
	return source.Options{
		MaxInMemoryBytes: o.MaxInMemoryBytes,
		PreferMmapTemp:   o.PreferMmapTemp,
		TempDir:          o.TempDir,
	}
}
