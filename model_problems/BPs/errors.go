package BPs

import (
	"errors"
	"fmt"
)

// Stage names the part of the pipeline an error came from
type Stage uint8

const (
	StageConfigure Stage = iota
	StageRestriction
	StageBasis
	StageSetup
	StageOperator
	StageApply
	StageDiagonal
)

func (s Stage) String() string {
	return [...]string{"configure", "restriction build", "basis build", "setup pass",
		"operator build", "apply", "diagonal"}[s]
}

var (
	ErrUnknownProblem       = errors.New("unknown benchmark problem")
	ErrInvalidOrder         = errors.New("polynomial order must be at least 1")
	ErrInvalidQExtra        = errors.New("extra quadrature points must not be negative")
	ErrMissingBoundaryLabel = errors.New("boundary label required")
	ErrLocalSizeMismatch    = errors.New("restriction and local vector sizes differ")
	ErrUnsupportedMethod    = errors.New("only benchmark problems are supported")
	ErrInvalidState         = errors.New("operator shell state does not allow this")
	ErrNotAttached          = errors.New("operator shell is not attached")
	ErrReentrantCall        = errors.New("operator shell is already in use")
	ErrKershawBox           = errors.New("kershaw warp needs the unit cube")
)

// ConfigError rejects a configuration before any solver interaction
type ConfigError struct {
	Stage Stage
	Err   error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("%s: config: %v", e.Stage, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// TopologyError is a mesh and discretization mismatch
type TopologyError struct {
	Stage Stage
	Err   error
}

func (e *TopologyError) Error() string { return fmt.Sprintf("%s: topology: %v", e.Stage, e.Err) }
func (e *TopologyError) Unwrap() error { return e.Err }

// FieldError rejects an operator composition
type FieldError struct {
	Stage Stage
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: field: %v", e.Stage, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

// RuntimeError aborts an apply or diagonal call; no partial result is valid
type RuntimeError struct {
	Stage Stage
	Err   error
}

func (e *RuntimeError) Error() string { return fmt.Sprintf("%s: runtime: %v", e.Stage, e.Err) }
func (e *RuntimeError) Unwrap() error { return e.Err }
