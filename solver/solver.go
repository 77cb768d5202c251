// Package solver holds the Krylov solvers that drive matrix free operators.
// An operator only has to provide its action; preconditioners that need
// more, like Jacobi, ask for it through DiagonalOperator.
package solver

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrIterationLimit = errors.New("solver: iteration limit reached")
	ErrZeroDimension  = errors.New("solver: zero dimension")
	ErrInitialGuess   = errors.New("solver: mismatched length of initial guess")
	ErrBreakdown      = errors.New("solver: breakdown, operator is not positive definite")
	ErrNoDiagonal     = errors.New("solver: jacobi preconditioning needs the operator diagonal")
	ErrZeroPivot      = errors.New("solver: zero diagonal entry")
)

// Operator is the matrix free action y = A x
type Operator interface {
	Mult(x, y *mat.VecDense) error
}

// DiagonalOperator also provides its diagonal
type DiagonalOperator interface {
	Operator
	GetDiagonal(d *mat.VecDense) error
}

// Preconditioner solves M z = r
type Preconditioner interface {
	Apply(z, r *mat.VecDense) error
}

type Settings struct {
	Tolerance  float64       // Relative residual reduction, 1e-6 when zero
	Iterations int           // 2*dim when zero
	X0         *mat.VecDense // Initial guess, zero when nil
	Jacobi     bool          // Precondition with the inverse operator diagonal
}

type Stats struct {
	Iterations int
	MatVec     int
	PSolve     int
	Residual   float64 // Relative, at exit
	StartTime  time.Time
	Runtime    time.Duration
}

type Result struct {
	X     *mat.VecDense
	Stats Stats
}

func DefaultSettings() Settings {
	return Settings{
		Tolerance: 1e-6,
	}
}

func (s *Settings) defaults(dim int) {
	if s.Tolerance == 0 {
		s.Tolerance = 1e-6
	}
	if s.Iterations == 0 {
		s.Iterations = 2 * dim
	}
}

// preconditioner builds the preconditioner the settings ask for, nil for none
func (s *Settings) preconditioner(a Operator, dim int) (p Preconditioner, err error) {
	if !s.Jacobi {
		return nil, nil
	}
	da, ok := a.(DiagonalOperator)
	if !ok {
		return nil, ErrNoDiagonal
	}
	return NewJacobi(da, dim)
}
