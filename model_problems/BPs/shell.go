package BPs

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ShellState is the life cycle of an operator shell
type ShellState uint8

const (
	Unconfigured ShellState = iota
	Configured
	Attached
	Destroyed
)

func (s ShellState) String() string {
	return [...]string{"unconfigured", "configured", "attached", "destroyed"}[s]
}

// MatShell is the matrix free operator handed to a solver. Its context is
// exclusively owned; Mult and GetDiagonal never run concurrently on one
// shell, a second caller gets ErrReentrantCall instead of waiting.
type MatShell struct {
	mu    sync.Mutex
	state ShellState
	ctx   *MatShellContext
}

func newMatShell(ctx *MatShellContext) *MatShell {
	return &MatShell{state: Configured, ctx: ctx}
}

func (s *MatShell) State() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *MatShell) transition(from, to ShellState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return &RuntimeError{Stage: StageConfigure,
			Err: fmt.Errorf("%w: %s to %s from %s", ErrInvalidState, from, to, s.state)}
	}
	s.state = to
	return nil
}

// Attach hands a configured shell to a solver
func (s *MatShell) Attach() error { return s.transition(Configured, Attached) }

// Detach takes an attached shell back from the solver
func (s *MatShell) Detach() error { return s.transition(Attached, Configured) }

// Destroy drops the context; the shell cannot be used again
func (s *MatShell) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.ctx = Destroyed, nil
}

// Context is nil once the shell is destroyed
func (s *MatShell) Context() *MatShellContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Size is the global dimension of the operator
func (s *MatShell) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return 0
	}
	return s.ctx.DM.GlobalSize()
}

// CreateVecs returns a pair of global vectors compatible with the shell
func (s *MatShell) CreateVecs() (x, y *mat.VecDense, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil, nil, ErrInvalidState
	}
	if x, err = s.ctx.DM.CreateGlobalVector(); err != nil {
		return
	}
	y, err = s.ctx.DM.CreateGlobalVector()
	return
}

// enter takes the shell for one call
func (s *MatShell) enter(stage Stage, vecs ...*mat.VecDense) error {
	if !s.mu.TryLock() {
		return &RuntimeError{Stage: stage, Err: ErrReentrantCall}
	}
	if s.state != Attached {
		s.mu.Unlock()
		return &RuntimeError{Stage: stage, Err: fmt.Errorf("%w: state %s", ErrNotAttached, s.state)}
	}
	n := s.ctx.DM.GlobalSize()
	for _, v := range vecs {
		if v == nil || v.Len() != n {
			s.mu.Unlock()
			return &RuntimeError{Stage: stage, Err: fmt.Errorf("%w: global vector, expected %d", ErrLocalSizeMismatch, n)}
		}
	}
	return nil
}

// Mult computes y = A x
func (s *MatShell) Mult(x, y *mat.VecDense) (err error) {
	if err = s.enter(StageApply, x, y); err != nil {
		return
	}
	defer s.mu.Unlock()
	return s.ctx.applyLocal(x, y)
}

// GetDiagonal writes the diagonal of A into d
func (s *MatShell) GetDiagonal(d *mat.VecDense) (err error) {
	if err = s.enter(StageDiagonal, d); err != nil {
		return
	}
	defer s.mu.Unlock()
	return s.ctx.computeDiagonal(d)
}
