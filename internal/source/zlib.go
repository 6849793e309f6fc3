package source

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/scigolib/blendfile/internal/utils"
)

// decodeZlib unwraps a zlib envelope fully into memory. No third-party
// zlib decoder exists in the dependency set this module draws from, so
// this one concern is carried on the standard library.
func decodeZlib(raw []byte, path string) (*Buffer, error) {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "zlib stream could not be opened", err), path)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, utils.WithPath(utils.NewError(utils.KindBadCompression, "zlib stream truncated or corrupt", err), path)
	}
	return &Buffer{Bytes: data, Mode: ModeZlibMemory}, nil
}
