package blendfile

import "github.com/scigolib/blendfile/internal/utils"

// Kind classifies a decode failure per the error taxonomy (spec §7). It is
// an alias of the internal taxonomy so callers outside this module can
// branch with errors.As without reaching into internal packages.
type Kind = utils.Kind

const (
	KindBadMagic           = utils.KindBadMagic
	KindBadHeader          = utils.KindBadHeader
	KindBadCompression     = utils.KindBadCompression
	KindSizeLimit          = utils.KindSizeLimit
	KindTruncatedBlock     = utils.KindTruncatedBlock
	KindBlockTooLarge      = utils.KindBlockTooLarge
	KindBadSdna            = utils.KindBadSdna
	KindBadFieldName       = utils.KindBadFieldName
	KindUnknownStructIndex = utils.KindUnknownStructIndex
	KindUnknownTypeIndex   = utils.KindUnknownTypeIndex
	KindUnknownMemberIndex = utils.KindUnknownMemberIndex
	KindIO                 = utils.KindIO
)

// Error is the structured error every exported operation returns. It is an
// alias of the internal type so errors.As(err, &*Error) works directly
// against values returned from this package.
type Error = utils.BlendError
