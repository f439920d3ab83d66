package pkdispatch

import "github.com/ydario/pkdispatch/pkg/pkdispatch/pkerr"

// The sentinel taxonomy lives in pkerr so every internal layer (sexpr,
// padding, registry) can return it without importing this façade package.
// These aliases keep it part of the package's public API surface.
var (
	ErrInvObj      = pkerr.ErrInvObj
	ErrNoObj       = pkerr.ErrNoObj
	ErrInvPKAlgo   = pkerr.ErrInvPKAlgo
	ErrInvMDAlgo   = pkerr.ErrInvMDAlgo
	ErrWrongPKAlgo = pkerr.ErrWrongPKAlgo
	ErrConflict    = pkerr.ErrConflict
	ErrTooShort    = pkerr.ErrTooShort
	ErrInvFlag     = pkerr.ErrInvFlag
	ErrNoMem       = pkerr.ErrNoMem
	ErrInvOp       = pkerr.ErrInvOp
	ErrInvArg      = pkerr.ErrInvArg
	ErrNotImpl     = pkerr.ErrNotImpl
	ErrInternal    = pkerr.ErrInternal
	ErrGeneral     = pkerr.ErrGeneral
)

// RemapError is a pass-through for errors surfaced by backends and the
// sexpr/padding/registry layers. It exists as the single seam where a
// richer mapping (e.g. collapsing backend-specific errors onto the
// taxonomy above) can be introduced without touching call sites.
func RemapError(err error) error {
	return err
}
