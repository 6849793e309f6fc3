package core

import (
	"encoding/binary"

	"github.com/scigolib/blendfile/internal/utils"
)

const (
	maxSdnaNames   = 1_000_000
	maxSdnaTypes   = 1_000_000
	maxSdnaStructs = 100_000
)

// FieldRaw is one (field-type-index, field-name-index) pair inside a
// struct record, before micro-syntax parsing.
type FieldRaw struct {
	TypeIndex int
	NameIndex int
}

// StructDef is a struct record: a type index plus its ordered fields.
type StructDef struct {
	TypeIndex int
	Fields    []FieldRaw
}

// SDNA is the decoded DNA1 payload: the five parallel tables spec §3
// describes (type names, type sizes, field-name strings, and struct
// records). Type alignments are derived lazily by the layout computer
// (spec §4.5) and cached here once computed.
type SDNA struct {
	TypeNames  []string
	TypeSizes  []uint16
	Names      []string
	Structs    []StructDef
	alignments []int // populated on first ComputeLayout call, same length as TypeNames
}

// DecodeSDNA parses the payload of a DNA1 block (spec §4.4).
func DecodeSDNA(payload []byte) (*SDNA, error) {
	pos := 0

	if !matchLiteral(payload, &pos, "SDNA") {
		return nil, utils.NewError(utils.KindBadSdna, "missing SDNA marker", nil)
	}

	names, pos2, err := readStringSection(payload, pos, "NAME", maxSdnaNames)
	if err != nil {
		return nil, err
	}
	pos = pos2

	pos, err = seekMarker(payload, pos, "TYPE")
	if err != nil {
		return nil, err
	}
	types, pos2, err := readStringSection(payload, pos, "TYPE", maxSdnaTypes)
	if err != nil {
		return nil, err
	}
	pos = pos2

	pos, err = seekMarker(payload, pos, "TLEN")
	if err != nil {
		return nil, err
	}
	if !matchLiteral(payload, &pos, "TLEN") {
		return nil, utils.NewError(utils.KindBadSdna, "missing TLEN marker", nil)
	}
	sizes := make([]uint16, len(types))
	for i := range types {
		if pos+2 > len(payload) {
			return nil, utils.NewError(utils.KindBadSdna, "TLEN table truncated", nil)
		}
		sizes[i] = binary.LittleEndian.Uint16(payload[pos : pos+2])
		pos += 2
	}

	pos, err = seekMarker(payload, pos, "STRC")
	if err != nil {
		return nil, err
	}
	if !matchLiteral(payload, &pos, "STRC") {
		return nil, utils.NewError(utils.KindBadSdna, "missing STRC marker", nil)
	}
	if pos+4 > len(payload) {
		return nil, utils.NewError(utils.KindBadSdna, "STRC count truncated", nil)
	}
	structCount := binary.LittleEndian.Uint32(payload[pos : pos+4])
	pos += 4
	if structCount > maxSdnaStructs {
		return nil, utils.NewError(utils.KindBadSdna, "struct count exceeds ceiling", nil)
	}

	structs := make([]StructDef, structCount)
	for i := range structs {
		if pos+4 > len(payload) {
			return nil, utils.NewError(utils.KindBadSdna, "struct record truncated", nil)
		}
		typeIdx := int(binary.LittleEndian.Uint16(payload[pos : pos+2]))
		fieldCount := int(binary.LittleEndian.Uint16(payload[pos+2 : pos+4]))
		pos += 4

		if typeIdx >= len(types) {
			return nil, utils.NewError(utils.KindUnknownTypeIndex, "struct record type index out of range", nil)
		}

		fields := make([]FieldRaw, fieldCount)
		for j := 0; j < fieldCount; j++ {
			if pos+4 > len(payload) {
				return nil, utils.NewError(utils.KindBadSdna, "struct field record truncated", nil)
			}
			ftype := int(binary.LittleEndian.Uint16(payload[pos : pos+2]))
			fname := int(binary.LittleEndian.Uint16(payload[pos+2 : pos+4]))
			pos += 4

			if ftype >= len(types) {
				return nil, utils.NewError(utils.KindUnknownTypeIndex, "field type index out of range", nil)
			}
			if fname >= len(names) {
				return nil, utils.NewError(utils.KindUnknownMemberIndex, "field name index out of range", nil)
			}
			fields[j] = FieldRaw{TypeIndex: ftype, NameIndex: fname}
		}

		structs[i] = StructDef{TypeIndex: typeIdx, Fields: fields}
	}

	return &SDNA{
		TypeNames: types,
		TypeSizes: sizes,
		Names:     names,
		Structs:   structs,
	}, nil
}

// matchLiteral reports whether payload[*pos:] starts with lit, advancing
// *pos past it on success.
func matchLiteral(payload []byte, pos *int, lit string) bool {
	if *pos+len(lit) > len(payload) || string(payload[*pos:*pos+len(lit)]) != lit {
		return false
	}
	*pos += len(lit)
	return true
}

// seekMarker rounds pos up to the next 4-byte boundary, then scans up to 8
// bytes forward looking for marker, per spec §4.4's writer-padding
// tolerance. Returns the position at which marker begins.
func seekMarker(payload []byte, pos int, marker string) (int, error) {
	pos = (pos + 3) &^ 3
	for delta := 0; delta <= 8; delta++ {
		p := pos + delta
		if p+len(marker) > len(payload) {
			break
		}
		if string(payload[p:p+len(marker)]) == marker {
			return p, nil
		}
	}
	return 0, utils.NewError(utils.KindBadSdna, "section marker "+marker+" not found within search tolerance", nil)
}

// readStringSection reads "<marker> count:u32 count*NUL-terminated strings"
// starting at pos, which must already point at marker.
func readStringSection(payload []byte, pos int, marker string, ceiling uint32) ([]string, int, error) {
	if !matchLiteral(payload, &pos, marker) {
		return nil, 0, utils.NewError(utils.KindBadSdna, "missing "+marker+" marker", nil)
	}
	if pos+4 > len(payload) {
		return nil, 0, utils.NewError(utils.KindBadSdna, marker+" count truncated", nil)
	}
	count := binary.LittleEndian.Uint32(payload[pos : pos+4])
	pos += 4
	if count > ceiling {
		return nil, 0, utils.NewError(utils.KindBadSdna, marker+" count exceeds ceiling", nil)
	}

	out := make([]string, count)
	for i := range out {
		start := pos
		for pos < len(payload) && payload[pos] != 0 {
			pos++
		}
		if pos >= len(payload) {
			return nil, 0, utils.NewError(utils.KindBadSdna, marker+" string not NUL-terminated", nil)
		}
		out[i] = string(payload[start:pos])
		pos++ // consume NUL
	}

	return out, pos, nil
}
