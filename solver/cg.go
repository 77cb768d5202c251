package solver

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// CG solves A x = b with the preconditioned conjugate gradient method. A must
// be symmetric positive definite. Convergence is |b - A x| < Tolerance |b|.
func CG(a Operator, b *mat.VecDense, settings Settings) (res Result, err error) {
	res.Stats.StartTime = time.Now()
	defer func() { res.Stats.Runtime = time.Since(res.Stats.StartTime) }()

	if b == nil || b.Len() == 0 {
		return res, ErrZeroDimension
	}
	n := b.Len()
	if settings.X0 != nil && settings.X0.Len() != n {
		return res, ErrInitialGuess
	}
	settings.defaults(n)
	var pre Preconditioner
	if pre, err = settings.preconditioner(a, n); err != nil {
		return
	}

	var (
		x     = mat.NewVecDense(n, nil)
		r     = mat.NewVecDense(n, nil)
		z     = mat.NewVecDense(n, nil)
		p     = mat.NewVecDense(n, nil)
		Ap    = mat.NewVecDense(n, nil)
		st    = &res.Stats
		bnorm = mat.Norm(b, 2)
	)
	res.X = x
	if bnorm == 0 {
		bnorm = 1
	}
	mult := func(src, dst *mat.VecDense) error {
		st.MatVec++
		return a.Mult(src, dst)
	}
	psolve := func() error {
		if pre == nil {
			z.CopyVec(r)
			return nil
		}
		st.PSolve++
		return pre.Apply(z, r)
	}

	// r_0 = b - A x_0
	if settings.X0 != nil {
		x.CopyVec(settings.X0)
		if err = mult(x, r); err != nil {
			return
		}
		r.SubVec(b, r)
	} else {
		r.CopyVec(b)
	}
	if st.Residual = mat.Norm(r, 2) / bnorm; st.Residual < settings.Tolerance {
		return
	}
	if err = psolve(); err != nil {
		return
	}
	p.CopyVec(z)
	rho := mat.Dot(r, z)

	for st.Iterations < settings.Iterations {
		if err = mult(p, Ap); err != nil {
			return
		}
		pAp := mat.Dot(p, Ap)
		if pAp <= 0 || math.IsNaN(pAp) {
			return res, ErrBreakdown
		}
		alpha := rho / pAp
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, Ap)
		st.Iterations++
		if st.Residual = mat.Norm(r, 2) / bnorm; st.Residual < settings.Tolerance {
			return
		}
		if err = psolve(); err != nil {
			return
		}
		rhoNext := mat.Dot(r, z)
		p.AddScaledVec(z, rhoNext/rho, p)
		rho = rhoNext
	}
	return res, ErrIterationLimit
}
