package dm

import "errors"

var (
	ErrNotSetUp            = errors.New("dm: discretization not set up")
	ErrInvalidOrder        = errors.New("dm: polynomial order must be at least 1")
	ErrInvalidComponents   = errors.New("dm: number of components must be at least 1")
	ErrInconsistentClosure = errors.New("dm: closure size disagrees with the stratum height")
	ErrClosureNotTensor    = errors.New("dm: closure permutation is not tensor ordered")
	ErrInvalidPoint        = errors.New("dm: point out of range")
	ErrInvalidHeight       = errors.New("dm: unsupported stratum height")
	ErrMissingLabel        = errors.New("dm: label not found")
	ErrEmptyVector         = errors.New("dm: vector would have no entries")
	ErrVectorSize          = errors.New("dm: vector size mismatch")
	ErrInsertMode          = errors.New("dm: unknown insert mode")
)
