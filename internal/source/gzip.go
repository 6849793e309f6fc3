package source

import (
	"bytes"
	"io"

	"github.com/klauspost/pgzip"

	"github.com/scigolib/blendfile/internal/utils"
)

// decodeGzip unwraps a gzip envelope fully into memory; gzip-wrapped scene
// documents are small enough in practice that the tempfile-spill path
// (spec §4.1) applies only to the zstd envelope.
func decodeGzip(raw []byte, path string) (*Buffer, error) {
	gr, err := pgzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "gzip stream could not be opened", err), path)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "gzip stream truncated or corrupt", err), path)
	}
	return &Buffer{Bytes: data, Mode: ModeGzipMemory}, nil
}
