package core

import (
	"strings"

	"github.com/scigolib/blendfile/internal/utils"
)

// FieldKind classifies a parsed field as a plain value or a pointer of a
// given depth (spec §4.4).
type FieldKind int

const (
	KindValue FieldKind = iota
	KindPointer
)

// ParsedFieldName is a DNA field-name string decoded per spec §4.4's
// micro-syntax: pointer depth, base identifier, array length.
type ParsedFieldName struct {
	Base         string
	Kind         FieldKind
	PointerDepth int
	ArrayLength  int
}

// ParseFieldName decodes the DNA micro-syntax: leading '*' for pointer
// depth, an optional "(*name)(...)" function-pointer wrapper (treated as
// pointer depth 1), an identifier, and zero or more "[n]" array
// dimensions whose product is the array length.
func ParseFieldName(name string) (ParsedFieldName, error) {
	if strings.HasPrefix(name, "(*") {
		// Function pointer: "(*name)(args)" -- base is the token after
		// "(*", up to the closing ')' that ends the identifier.
		rest := name[2:]
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return ParsedFieldName{}, utils.NewError(utils.KindBadFieldName, "unterminated function-pointer name", nil)
		}
		base := rest[:end]
		if base == "" {
			return ParsedFieldName{}, utils.NewError(utils.KindBadFieldName, "empty function-pointer identifier", nil)
		}
		return ParsedFieldName{Base: base, Kind: KindPointer, PointerDepth: 1, ArrayLength: 1}, nil
	}

	depth := 0
	rest := name
	for len(rest) > 0 && rest[0] == '*' {
		depth++
		rest = rest[1:]
	}

	identEnd := 0
	for identEnd < len(rest) && rest[identEnd] != '[' && rest[identEnd] != '(' {
		identEnd++
	}
	base := rest[:identEnd]
	if base == "" {
		return ParsedFieldName{}, utils.NewError(utils.KindBadFieldName, "empty field identifier", nil)
	}

	arrayLen := 1
	hasDims := false
	tail := rest[identEnd:]
	for len(tail) > 0 {
		if tail[0] != '[' {
			break
		}
		closeIdx := strings.IndexByte(tail, ']')
		if closeIdx < 0 {
			return ParsedFieldName{}, utils.NewError(utils.KindBadFieldName, "unterminated array dimension", nil)
		}
		digits := tail[1:closeIdx]
		if digits == "" {
			return ParsedFieldName{}, utils.NewError(utils.KindBadFieldName, "empty array dimension", nil)
		}
		dim := 0
		for _, c := range digits {
			if c < '0' || c > '9' {
				return ParsedFieldName{}, utils.NewError(utils.KindBadFieldName, "non-digit in array dimension", nil)
			}
			dim = dim*10 + int(c-'0')
		}
		if dim == 0 {
			dim = 1 // clamp product to >= 1 per spec §4.4
		}
		if !hasDims {
			arrayLen = dim
			hasDims = true
		} else {
			arrayLen *= dim
		}
		tail = tail[closeIdx+1:]
	}

	kind := KindValue
	if depth > 0 {
		kind = KindPointer
	}

	return ParsedFieldName{
		Base:         base,
		Kind:         kind,
		PointerDepth: depth,
		ArrayLength:  arrayLen,
	}, nil
}
