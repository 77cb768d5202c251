package BPs

import (
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// AssembleCSR forms the operator explicitly by applying the shell to every
// unit vector. Entries with magnitude at most dropTol are left out. Meant
// for checking small problems.
func AssembleCSR(s *MatShell, dropTol float64) (A *sparse.CSR, err error) {
	var (
		n    = s.Size()
		dok  = sparse.NewDOK(n, n)
		x, y *mat.VecDense
	)
	if x, y, err = s.CreateVecs(); err != nil {
		return nil, &RuntimeError{Stage: StageApply, Err: err}
	}
	for j := 0; j < n; j++ {
		x.Zero()
		x.SetVec(j, 1)
		if err = s.Mult(x, y); err != nil {
			return
		}
		for i := 0; i < n; i++ {
			if v := y.AtVec(i); math.Abs(v) > dropTol {
				dok.Set(i, j, v)
			}
		}
	}
	return dok.ToCSR(), nil
}
