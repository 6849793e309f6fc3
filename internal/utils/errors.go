// Package utils provides utility functions shared by the decode pipeline:
// pooled scratch buffers, overflow-checked arithmetic, and the structured
// error type every stage wraps its causes in.
package utils

import "fmt"

// Kind classifies a BlendError per the error taxonomy: the caller branches
// on Kind, not on the formatted message.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadMagic
	KindBadHeader
	KindBadCompression
	KindSizeLimit
	KindTruncatedBlock
	KindBlockTooLarge
	KindBadSdna
	KindBadFieldName
	KindUnknownStructIndex
	KindUnknownTypeIndex
	KindUnknownMemberIndex
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindBadMagic:
		return "BadMagic"
	case KindBadHeader:
		return "BadHeader"
	case KindBadCompression:
		return "BadCompression"
	case KindSizeLimit:
		return "SizeLimit"
	case KindTruncatedBlock:
		return "TruncatedBlock"
	case KindBlockTooLarge:
		return "BlockTooLarge"
	case KindBadSdna:
		return "BadSdna"
	case KindBadFieldName:
		return "BadFieldName"
	case KindUnknownStructIndex:
		return "UnknownStructIndex"
	case KindUnknownTypeIndex:
		return "UnknownTypeIndex"
	case KindUnknownMemberIndex:
		return "UnknownMemberIndex"
	case KindIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// BlendError is the structured error every decode stage returns. It carries
// enough context (spec §7) for a caller to report path/offset/block/struct
// information without re-parsing the message string.
type BlendError struct {
	Kind    Kind
	Context string // short description of the operation that failed
	Path    string // file path, when known
	Offset  int64  // byte offset within the buffer, -1 if not applicable
	Block   int    // block index, -1 if not applicable
	Code    string // block type code, empty if not applicable
	Field   string // struct/field name, empty if not applicable
	Cause   error
}

// Error implements the error interface.
func (e *BlendError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Context)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (offset=%d)", e.Offset)
	}
	if e.Code != "" {
		msg += fmt.Sprintf(" (block=%d code=%s)", e.Block, e.Code)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap provides compatibility with errors.Unwrap/errors.Is/errors.As.
func (e *BlendError) Unwrap() error {
	return e.Cause
}

// NewError builds a BlendError with no positional context, offset defaulted
// to "not applicable".
func NewError(kind Kind, context string, cause error) error {
	return &BlendError{Kind: kind, Context: context, Offset: -1, Block: -1, Cause: cause}
}

// WithOffset returns a copy of err (if it is a *BlendError) annotated with a
// buffer offset. Non-BlendError values pass through unchanged.
func WithOffset(err error, offset int64) error {
	if be, ok := err.(*BlendError); ok {
		clone := *be
		clone.Offset = offset
		return &clone
	}
	return err
}

// WithPath returns a copy of err (if it is a *BlendError) annotated with a
// file path. Non-BlendError values pass through unchanged.
func WithPath(err error, path string) error {
	if be, ok := err.(*BlendError); ok {
		clone := *be
		clone.Path = path
		return &clone
	}
	return err
}

// WithBlock returns a copy of err (if it is a *BlendError) annotated with a
// block index and type code.
func WithBlock(err error, index int, code string) error {
	if be, ok := err.(*BlendError); ok {
		clone := *be
		clone.Block = index
		clone.Code = code
		return &clone
	}
	return err
}

// WithField returns a copy of err (if it is a *BlendError) annotated with a
// struct/field name.
func WithField(err error, field string) error {
	if be, ok := err.(*BlendError); ok {
		clone := *be
		clone.Field = field
		return &clone
	}
	return err
}

// WrapError wraps cause with a context string as a KindIO error (the source
// loader uses it for file-read failures). Callers that need another Kind
// should use NewError directly.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &BlendError{Kind: KindIO, Context: context, Offset: -1, Block: -1, Cause: cause}
}
