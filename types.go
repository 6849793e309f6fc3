package blendfile

import (
	"github.com/scigolib/blendfile/internal/core"
	"github.com/scigolib/blendfile/internal/structures"
)

// These aliases expose the data model (spec §3) without requiring callers
// to import this module's internal packages directly.
type (
	FileHeader   = core.FileHeader
	BlockHeader  = core.BlockHeader
	Block        = core.Block
	SDNA         = core.SDNA
	FieldLayout  = core.FieldLayout
	StructLayout = core.StructLayout
	OldPointer   = core.OldPointer
	StructView   = structures.StructView
)

// NilPointer is the distinguished "no address" OldPointer value.
var NilPointer = core.NilPointer

// Container format variants a FileHeader can carry.
const (
	FormatLegacy = core.FormatLegacy
	FormatV1     = core.FormatV1
)
