package structures

import (
	"encoding/binary"
	"strings"

	"github.com/scigolib/blendfile/internal/core"
)

// StructView is an immutable, zero-copy typed window over a byte buffer,
// combining a StructLayout with a base offset (spec §4.7). Cheap to clone;
// never outlives the buffer it borrows from.
type StructView struct {
	cache  *core.LayoutCache
	layout *core.StructLayout
	buf    []byte
	base   int
	order  binary.ByteOrder
	ptrBits int
}

// NewStructView builds a root view at base 0 over buf, using layout.
func NewStructView(cache *core.LayoutCache, layout *core.StructLayout, buf []byte, order binary.ByteOrder) StructView {
	return StructView{cache: cache, layout: layout, buf: buf, order: order, ptrBits: cache.PointerWidth()}
}

// Layout exposes the bound StructLayout.
func (v StructView) Layout() *core.StructLayout {
	return v.layout
}

// Member looks up the FieldLayout for name, absent if unknown.
func (v StructView) Member(name string) (core.FieldLayout, bool) {
	return v.layout.Field(name)
}

// Slice returns the byte range a field occupies within the buffer, absent
// if the member is missing or the range does not fit in the buffer.
func (v StructView) Slice(name string) ([]byte, bool) {
	m, ok := v.Member(name)
	if !ok {
		return nil, false
	}
	start := v.base + m.Offset
	end := start + m.Size
	if start < 0 || end > len(v.buf) {
		return nil, false
	}
	return v.buf[start:end], true
}

func (v StructView) scalarSlice(name string, width int) ([]byte, bool) {
	m, ok := v.Member(name)
	if !ok || m.Size < width {
		return nil, false
	}
	start := v.base + m.Offset
	if start < 0 || start+width > len(v.buf) {
		return nil, false
	}
	return v.buf[start : start+width], true
}

// U8 reads an 8-bit unsigned scalar.
func (v StructView) U8(name string) (uint8, bool) {
	s, ok := v.scalarSlice(name, 1)
	if !ok {
		return 0, false
	}
	return s[0], true
}

// U16 reads a 16-bit unsigned scalar with the buffer's byte order.
func (v StructView) U16(name string) (uint16, bool) {
	s, ok := v.scalarSlice(name, 2)
	if !ok {
		return 0, false
	}
	return v.order.Uint16(s), true
}

// U32 reads a 32-bit unsigned scalar with the buffer's byte order.
func (v StructView) U32(name string) (uint32, bool) {
	s, ok := v.scalarSlice(name, 4)
	if !ok {
		return 0, false
	}
	return v.order.Uint32(s), true
}

// U64 reads a 64-bit unsigned scalar with the buffer's byte order.
func (v StructView) U64(name string) (uint64, bool) {
	s, ok := v.scalarSlice(name, 8)
	if !ok {
		return 0, false
	}
	return v.order.Uint64(s), true
}

// I32 reads a 32-bit signed scalar with the buffer's byte order.
func (v StructView) I32(name string) (int32, bool) {
	u, ok := v.U32(name)
	if !ok {
		return 0, false
	}
	return int32(u), true
}

// F32 reads a 32-bit float scalar with the buffer's byte order.
func (v StructView) F32(name string) (float32, bool) {
	u, ok := v.U32(name)
	if !ok {
		return 0, false
	}
	return float32FromBits(u), true
}

// F64 reads a 64-bit float scalar with the buffer's byte order.
func (v StructView) F64(name string) (float64, bool) {
	u, ok := v.U64(name)
	if !ok {
		return 0, false
	}
	return float64FromBits(u), true
}

// Ptr reads a pointer-width integer and wraps it as an OldPointer using the
// file's pointer width (spec §4.7).
func (v StructView) Ptr(name string) (core.OldPointer, bool) {
	if v.ptrBits == 32 {
		u, ok := v.U32(name)
		if !ok {
			return core.NilPointer, false
		}
		return core.Ptr32(u), true
	}
	u, ok := v.U64(name)
	if !ok {
		return core.NilPointer, false
	}
	return core.Ptr64(u), true
}

// F32Array reads floor(m.size/4) consecutive f32 values.
func (v StructView) F32Array(name string) ([]float32, bool) {
	s, ok := v.Slice(name)
	if !ok {
		return nil, false
	}
	n := len(s) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32FromBits(v.order.Uint32(s[i*4 : i*4+4]))
	}
	return out, true
}

func (v StructView) fixedFloatArray(name string, n int) ([]float32, bool) {
	arr, ok := v.F32Array(name)
	if !ok || len(arr) < n {
		return nil, false
	}
	return arr[:n], true
}

// Vec2 reads 2 consecutive f32 values.
func (v StructView) Vec2(name string) ([]float32, bool) { return v.fixedFloatArray(name, 2) }

// Vec3 reads 3 consecutive f32 values.
func (v StructView) Vec3(name string) ([]float32, bool) { return v.fixedFloatArray(name, 3) }

// Vec4 reads 4 consecutive f32 values.
func (v StructView) Vec4(name string) ([]float32, bool) { return v.fixedFloatArray(name, 4) }

// Mat3x3 reads 9 consecutive f32 values.
func (v StructView) Mat3x3(name string) ([]float32, bool) { return v.fixedFloatArray(name, 9) }

// Mat4x4 reads 16 consecutive f32 values.
func (v StructView) Mat4x4(name string) ([]float32, bool) { return v.fixedFloatArray(name, 16) }

// AtMemberStruct builds a child view over a by-value struct field, absent
// unless the member is a value (not a pointer) whose referent type has a
// struct definition in SDNA (spec §4.7).
func (v StructView) AtMemberStruct(name string) (StructView, bool) {
	m, ok := v.Member(name)
	if !ok || m.Kind != core.KindValue {
		return StructView{}, false
	}
	structIdx, ok := v.cache.StructIndexForType(m.ReferentType)
	if !ok {
		return StructView{}, false
	}
	childLayout, err := v.cache.Layout(structIdx)
	if err != nil {
		return StructView{}, false
	}
	base := v.base + m.Offset
	if base < 0 || base+childLayout.Size > len(v.buf) {
		return StructView{}, false
	}
	return StructView{cache: v.cache, layout: childLayout, buf: v.buf, base: base, order: v.order, ptrBits: v.ptrBits}, true
}

// AtPathStruct applies AtMemberStruct repeatedly on each non-empty segment
// of a dotted path.
func (v StructView) AtPathStruct(dotted string) (StructView, bool) {
	cur := v
	for _, seg := range strings.Split(dotted, ".") {
		if seg == "" {
			continue
		}
		next, ok := cur.AtMemberStruct(seg)
		if !ok {
			return StructView{}, false
		}
		cur = next
	}
	return cur, true
}

// splitPath splits dotted at its last '.', returning the parent path (may
// be empty) and the leaf segment.
func splitPath(dotted string) (parent, leaf string) {
	idx := strings.LastIndexByte(dotted, '.')
	if idx < 0 {
		return "", dotted
	}
	return dotted[:idx], dotted[idx+1:]
}

func (v StructView) leafView(dotted string) (StructView, string, bool) {
	parent, leaf := splitPath(dotted)
	if parent == "" {
		return v, leaf, true
	}
	pv, ok := v.AtPathStruct(parent)
	if !ok {
		return StructView{}, "", false
	}
	return pv, leaf, true
}

// U32Path navigates a dotted path to a parent struct, then reads a u32 on
// the leaf field.
func (v StructView) U32Path(dotted string) (uint32, bool) {
	pv, leaf, ok := v.leafView(dotted)
	if !ok {
		return 0, false
	}
	return pv.U32(leaf)
}

// F32Path navigates a dotted path to a parent struct, then reads an f32 on
// the leaf field.
func (v StructView) F32Path(dotted string) (float32, bool) {
	pv, leaf, ok := v.leafView(dotted)
	if !ok {
		return 0, false
	}
	return pv.F32(leaf)
}

// PtrPath navigates a dotted path to a parent struct, then reads a pointer
// on the leaf field.
func (v StructView) PtrPath(dotted string) (core.OldPointer, bool) {
	pv, leaf, ok := v.leafView(dotted)
	if !ok {
		return core.NilPointer, false
	}
	return pv.Ptr(leaf)
}

// AtIndex returns a sibling view at element i within a block holding an
// array of this struct type (spec §4.7): base shifts by i*layout.Size,
// bounded by the buffer.
func (v StructView) AtIndex(i int) (StructView, bool) {
	newBase := v.base + i*v.layout.Size
	if newBase < 0 || newBase+v.layout.Size > len(v.buf) {
		return StructView{}, false
	}
	return StructView{cache: v.cache, layout: v.layout, buf: v.buf, base: newBase, order: v.order, ptrBits: v.ptrBits}, true
}

// DataBlockID returns the block-local identity string conventionally
// stored in Blender structs as a fixed-size "id" member's "name" field
// (first two bytes a two-letter type code, the rest a NUL-padded name).
// Absent if this struct has no "id" member or it is not a struct value.
func (v StructView) DataBlockID() (string, bool) {
	idView, ok := v.AtMemberStruct("id")
	if !ok {
		return "", false
	}
	raw, ok := idView.Slice("name")
	if !ok {
		return "", false
	}
	end := 0
	for end < len(raw) && raw[end] != 0 {
		end++
	}
	return string(raw[:end]), true
}
