package blendfile

import "github.com/scigolib/blendfile/internal/core"

// DiagKind classifies a non-fatal Diagnostic collected while opening a
// file (spec §7's side channel).
type DiagKind = core.DiagKind

const (
	DiagENDBSizeNonzero    = core.DiagENDBSizeNonzero
	DiagDuplicateAddress   = core.DiagDuplicateAddress
	DiagStructSizeMismatch = core.DiagStructSizeMismatch
	DiagSuspiciousBlockSize = core.DiagSuspiciousBlockSize
)

// Diagnostic is a non-fatal warning. It never causes Open to fail.
type Diagnostic = core.Diagnostic
