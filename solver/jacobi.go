package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Jacobi is the diagonal preconditioner z = D^-1 r
type Jacobi struct {
	inv *mat.VecDense
}

// NewJacobi takes the diagonal of the operator once; the operator must not
// change while the preconditioner is in use
func NewJacobi(a DiagonalOperator, n int) (j *Jacobi, err error) {
	if n < 1 {
		return nil, ErrZeroDimension
	}
	d := mat.NewVecDense(n, nil)
	if err = a.GetDiagonal(d); err != nil {
		return
	}
	for i := 0; i < n; i++ {
		di := d.AtVec(i)
		if di == 0 {
			return nil, fmt.Errorf("%w: row %d", ErrZeroPivot, i)
		}
		d.SetVec(i, 1/di)
	}
	return &Jacobi{inv: d}, nil
}

func (j *Jacobi) Apply(z, r *mat.VecDense) error {
	z.MulElemVec(j.inv, r)
	return nil
}
