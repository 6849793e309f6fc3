package core

import (
	"github.com/scigolib/blendfile/internal/utils"
)

// FieldLayout is one field of a computed StructLayout (spec §3).
type FieldLayout struct {
	Name            string
	Offset          int
	Size            int
	Alignment       int
	Kind            FieldKind
	ReferentType    int
	PointerDepth    int
	ArrayLength     int
}

// StructLayout is the computed field layout for one SDNA struct record
// (spec §3/§4.5).
type StructLayout struct {
	StructIndex int
	TypeIndex   int
	Size        int
	// ComputedSize is the footprint derived purely from field offsets and
	// alignment, before SDNA's declared type size (if nonzero) overrides
	// it. Equal to Size unless SDNA's TLEN table disagrees with the
	// field-by-field computation (original_source transform.rs's
	// size-mismatch cross-check).
	ComputedSize int
	Fields       []FieldLayout
	byName       map[string]int // first-occurrence-wins, per spec §4.5/§9(b)
}

// Field looks up a FieldLayout by base name. Absent if unknown.
func (l *StructLayout) Field(name string) (FieldLayout, bool) {
	idx, ok := l.byName[name]
	if !ok {
		return FieldLayout{}, false
	}
	return l.Fields[idx], true
}

// primitiveAlignments seeds the alignment-derivation rule (spec §4.5).
var primitiveAlignments = map[string]int{
	"char":   1,
	"uchar":  1,
	"short":  2,
	"ushort": 2,
	"int":    4,
	"long":   0, // pointer-width dependent, resolved at derive time
	"ulong":  0,
	"int64_t":  8,
	"uint64_t": 8,
	"float":  4,
	"double": 8,
}

// ComputeLayout computes the StructLayout for sdna.Structs[structIndex],
// deriving and caching a per-type alignment table on first use. overrides
// supplies known oversized alignments for specific SDNA type names (e.g. a
// platform's multi-word "long double"), consulted before the derivation
// rule; nil means the derivation rule alone applies.
func ComputeLayout(sdna *SDNA, structIndex int, pointerWidth int, overrides map[string]int) (*StructLayout, error) {
	if structIndex < 0 || structIndex >= len(sdna.Structs) {
		return nil, utils.NewError(utils.KindUnknownStructIndex, "struct index out of range", nil)
	}
	if sdna.alignments == nil {
		sdna.alignments = deriveAlignments(sdna, pointerWidth, overrides)
	}

	def := sdna.Structs[structIndex]
	fields := make([]FieldLayout, 0, len(def.Fields))
	byName := make(map[string]int, len(def.Fields))

	cursor := 0
	maxAlign := 1

	for _, raw := range def.Fields {
		if raw.TypeIndex >= len(sdna.TypeNames) {
			return nil, utils.NewError(utils.KindUnknownTypeIndex, "field type index out of range", nil)
		}
		if raw.NameIndex >= len(sdna.Names) {
			return nil, utils.NewError(utils.KindUnknownMemberIndex, "field name index out of range", nil)
		}

		parsed, err := ParseFieldName(sdna.Names[raw.NameIndex])
		if err != nil {
			return nil, utils.WithField(err, sdna.Names[raw.NameIndex])
		}

		var elemSize, elemAlign int
		if parsed.Kind == KindPointer {
			elemSize = pointerWidth / 8
			elemAlign = pointerWidth / 8
		} else {
			elemSize = int(sdna.TypeSizes[raw.TypeIndex])
			elemAlign = sdna.alignments[raw.TypeIndex]
		}
		if elemSize < 1 {
			elemSize = 1
		}
		if elemAlign < 1 {
			elemAlign = 1
		}

		offset := roundUp(cursor, elemAlign)
		totalElemBytes, err := utils.SafeMultiply(uint64(elemSize), uint64(parsed.ArrayLength))
		if err != nil {
			return nil, utils.WithField(utils.NewError(utils.KindBadFieldName, "field size overflows", err), sdna.Names[raw.NameIndex])
		}
		size := int(totalElemBytes)

		fl := FieldLayout{
			Name:         parsed.Base,
			Offset:       offset,
			Size:         size,
			Alignment:    elemAlign,
			Kind:         parsed.Kind,
			ReferentType: raw.TypeIndex,
			PointerDepth: parsed.PointerDepth,
			ArrayLength:  parsed.ArrayLength,
		}

		if _, exists := byName[fl.Name]; !exists {
			byName[fl.Name] = len(fields)
		}
		fields = append(fields, fl)

		cursor = offset + size
		if elemAlign > maxAlign {
			maxAlign = elemAlign
		}
	}

	computedSize := roundUp(cursor, maxAlign)
	totalSize := computedSize
	if def.TypeIndex < len(sdna.TypeSizes) && sdna.TypeSizes[def.TypeIndex] != 0 {
		totalSize = int(sdna.TypeSizes[def.TypeIndex])
	}

	return &StructLayout{
		StructIndex:  structIndex,
		TypeIndex:    def.TypeIndex,
		Size:         totalSize,
		ComputedSize: computedSize,
		Fields:       fields,
		byName:       byName,
	}, nil
}

func roundUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}

// deriveAlignments builds a per-type alignment table: "alignment = min(
// natural primitive alignment, pointer width)" seeded from scalar
// primitives, and for compound types, the max alignment of their fields
// (spec §4.5). Types SDNA does not classify as a known primitive or
// compound struct default to alignment 1 (single bytes / unknown blobs).
func deriveAlignments(sdna *SDNA, pointerWidth int, overrides map[string]int) []int {
	ptrBytes := pointerWidth / 8
	aligns := make([]int, len(sdna.TypeNames))

	structByType := make(map[int]int, len(sdna.Structs))
	for i, s := range sdna.Structs {
		structByType[s.TypeIndex] = i
	}

	var resolve func(typeIdx int, visiting map[int]bool) int
	resolve = func(typeIdx int, visiting map[int]bool) int {
		if typeIdx < 0 || typeIdx >= len(aligns) {
			return 1
		}
		if aligns[typeIdx] != 0 {
			return aligns[typeIdx]
		}
		if visiting[typeIdx] {
			return 1 // cycle guard: a struct embedding itself by value can't happen, but never spin
		}

		name := sdna.TypeNames[typeIdx]
		if a, ok := overrides[name]; ok && a > 0 {
			aligns[typeIdx] = a
			return a
		}
		if a, ok := primitiveAlignments[name]; ok && a != 0 {
			aligns[typeIdx] = min(a, ptrBytes)
			return aligns[typeIdx]
		}
		if name == "long" || name == "ulong" {
			aligns[typeIdx] = ptrBytes
			return aligns[typeIdx]
		}

		if structIdx, ok := structByType[typeIdx]; ok {
			visiting[typeIdx] = true
			max := 1
			for _, f := range sdna.Structs[structIdx].Fields {
				parsed, err := ParseFieldName(sdna.Names[f.NameIndex])
				if err != nil {
					continue
				}
				var a int
				if parsed.Kind == KindPointer {
					a = ptrBytes
				} else {
					a = resolve(f.TypeIndex, visiting)
				}
				if a > max {
					max = a
				}
			}
			delete(visiting, typeIdx)
			aligns[typeIdx] = max
			return max
		}

		aligns[typeIdx] = 1
		return 1
	}

	for i := range aligns {
		if aligns[i] == 0 {
			resolve(i, map[int]bool{})
		}
	}

	return aligns
}
