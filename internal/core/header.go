// Package core implements the container/block reader, the SDNA decoder, and
// the struct-layout computer: the file-format-facing half of the decode
// pipeline (spec components C2-C5).
package core

import (
	"encoding/binary"

	"github.com/scigolib/blendfile/internal/utils"
)

// Container format variants a FileHeader can carry.
const (
	FormatLegacy = "legacy"
	FormatV1     = "v1"
)

const magic = "BLENDER"

// FileHeader is the decoded file header: pointer width, byte order, file
// version, and container-format variant, fixed for the whole file.
type FileHeader struct {
	PointerWidth    int // 32 or 64
	ByteOrder       binary.ByteOrder
	FileVersion     int
	ContainerFormat string
}

// DecodeHeader decodes the first 12 or 17 bytes of buf per spec §4.2 and
// returns the header plus the number of bytes consumed.
func DecodeHeader(buf []byte) (*FileHeader, int, error) {
	if len(buf) < 12 {
		return nil, 0, utils.NewError(utils.KindBadHeader, "header too short", nil)
	}
	if string(buf[:7]) != magic {
		return nil, 0, utils.NewError(utils.KindBadMagic, "missing BLENDER signature", nil)
	}

	tag := buf[7]
	switch {
	case tag == '_' || tag == '-':
		return decodeLegacyHeader(buf)
	case isDigit(tag):
		return decodeV1Header(buf)
	default:
		return nil, 0, utils.NewError(utils.KindBadHeader, "unrecognized header dialect byte", nil)
	}
}

// SniffHeader reports the dialect ("legacy" or "v1") of buf without
// decoding the rest of the header, or ok=false if buf does not begin with
// the BLENDER signature or the dialect byte is unrecognized.
func SniffHeader(buf []byte) (dialect string, ok bool) {
	if len(buf) < 8 || string(buf[:7]) != magic {
		return "", false
	}
	tag := buf[7]
	switch {
	case tag == '_' || tag == '-':
		return FormatLegacy, true
	case isDigit(tag):
		return FormatV1, true
	default:
		return "", false
	}
}

func decodeLegacyHeader(buf []byte) (*FileHeader, int, error) {
	if len(buf) < 12 {
		return nil, 0, utils.NewError(utils.KindBadHeader, "legacy header truncated", nil)
	}

	var ptrWidth int
	switch buf[7] {
	case '_':
		ptrWidth = 32
	case '-':
		ptrWidth = 64
	default:
		return nil, 0, utils.NewError(utils.KindBadHeader, "unknown legacy pointer-width tag", nil)
	}

	var order binary.ByteOrder
	switch buf[8] {
	case 'v':
		order = binary.LittleEndian
	case 'V':
		order = binary.BigEndian
	default:
		return nil, 0, utils.NewError(utils.KindBadHeader, "unknown legacy endian tag", nil)
	}

	if !isDigit(buf[9]) || !isDigit(buf[10]) || !isDigit(buf[11]) {
		return nil, 0, utils.NewError(utils.KindBadHeader, "legacy version is not three ASCII digits", nil)
	}
	version := int(buf[9]-'0')*100 + int(buf[10]-'0')*10 + int(buf[11]-'0')

	return &FileHeader{
		PointerWidth:    ptrWidth,
		ByteOrder:       order,
		FileVersion:     version,
		ContainerFormat: FormatLegacy,
	}, 12, nil
}

func decodeV1Header(buf []byte) (*FileHeader, int, error) {
	if len(buf) < 17 {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 header truncated", nil)
	}
	if !isDigit(buf[7]) || !isDigit(buf[8]) {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 header size is not two ASCII digits", nil)
	}
	headerSize := int(buf[7]-'0')*10 + int(buf[8]-'0')
	if headerSize != 17 {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 header size must be 17", nil)
	}
	if buf[9] != '-' {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 header missing '-' separator", nil)
	}
	if !isDigit(buf[10]) || !isDigit(buf[11]) {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 format variant is not two ASCII digits", nil)
	}
	variant := int(buf[10]-'0')*10 + int(buf[11]-'0')
	if variant != 1 {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 format variant must be 1", nil)
	}
	// Byte 12 is the endian indicator. The v1 dialect is specified
	// (conservatively, per spec §9 open question (a)) as little-endian
	// only: any other value is rejected rather than guessed.
	if buf[12] != 'v' {
		return nil, 0, utils.NewError(utils.KindBadHeader, "v1 header endian indicator must be 'v' (little-endian only)", nil)
	}
	for i := 13; i < 17; i++ {
		if !isDigit(buf[i]) {
			return nil, 0, utils.NewError(utils.KindBadHeader, "v1 file version is not four ASCII digits", nil)
		}
	}
	version := 0
	for i := 13; i < 17; i++ {
		version = version*10 + int(buf[i]-'0')
	}

	return &FileHeader{
		PointerWidth:    64,
		ByteOrder:       binary.LittleEndian,
		FileVersion:     version,
		ContainerFormat: FormatV1,
	}, 17, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
