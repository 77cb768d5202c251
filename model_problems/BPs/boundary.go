package BPs

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BoundaryFunctionDiff is the manufactured solution of the diffusion
// problems, sin(pi(c+kx)) in each direction, used for every component
func BoundaryFunctionDiff(x [3]float64, u []float64) {
	var (
		c = [3]float64{0, 1, 2}
		k = [3]float64{1, 2, 3}
	)
	val := 1.
	for d := 0; d < 3; d++ {
		val *= math.Sin(math.Pi * (c[d] + k[d]*x[d]))
	}
	for i := range u {
		u[i] = val
	}
}

// ExactSolution returns BoundaryFunctionDiff at the unconstrained nodes as a
// global vector of the shell's discretization
func (ctx *MatShellContext) ExactSolution() (exact *mat.VecDense, err error) {
	var l *mat.VecDense
	if l, err = ctx.DM.ProjectFunction(BoundaryFunctionDiff); err != nil {
		return
	}
	if exact, err = ctx.DM.CreateGlobalVector(); err != nil {
		return
	}
	err = ctx.DM.LocalToGlobal(l, dmInsert, exact)
	return
}
