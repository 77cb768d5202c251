package ceed

import "errors"

var (
	ErrUnknownResource     = errors.New("ceed: unknown resource")
	ErrUnknownQFunction    = errors.New("ceed: unknown qfunction")
	ErrInvalidBasis        = errors.New("ceed: invalid basis")
	ErrQuadratureTooCoarse = errors.New("ceed: fewer quadrature points than nodes")
	ErrInvalidRestriction  = errors.New("ceed: invalid element restriction")
	ErrVectorLength        = errors.New("ceed: vector length mismatch")
	ErrVectorBorrowed      = errors.New("ceed: vector already wraps a slice")
	ErrUnknownField        = errors.New("ceed: field not declared by qfunction")
	ErrDuplicateField      = errors.New("ceed: field set twice")
	ErrMissingField        = errors.New("ceed: qfunction field not set")
	ErrIncompatibleField   = errors.New("ceed: field incompatible with its eval mode")
	ErrFieldSizeMismatch   = errors.New("ceed: fields disagree on element or quadrature point count")
	ErrNoActiveVector      = errors.New("ceed: active vector required")
	ErrDiagonalUnsupported = errors.New("ceed: operator diagonal not supported")
	ErrTransposeWeight     = errors.New("ceed: weights cannot be applied in transpose")
)
