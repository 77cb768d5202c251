package BPs

import "github.com/notargets/meles/ceed"

// CreateBases returns the linear coordinate basis and the field basis of the
// given order, both on order+1+qExtra points per direction
func CreateBases(c *ceed.Ceed, dim, numComp, order, qExtra int, mode ceed.QuadMode) (basisX, basisU *ceed.Basis, err error) {
	if order < 1 {
		return nil, nil, &ConfigError{Stage: StageBasis, Err: ErrInvalidOrder}
	}
	if qExtra < 0 {
		return nil, nil, &ConfigError{Stage: StageBasis, Err: ErrInvalidQExtra}
	}
	var (
		P = order + 1
		Q = P + qExtra
	)
	if basisX, err = c.BasisTensorH1Lagrange(dim, dim, 2, Q, mode); err != nil {
		return nil, nil, &ConfigError{Stage: StageBasis, Err: err}
	}
	if basisU, err = c.BasisTensorH1Lagrange(dim, numComp, P, Q, mode); err != nil {
		return nil, nil, &ConfigError{Stage: StageBasis, Err: err}
	}
	return
}
