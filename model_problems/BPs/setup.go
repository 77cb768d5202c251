package BPs

import (
	"github.com/notargets/meles/ceed"
	"gonum.org/v1/gonum/mat"
)

// SetupQuadratureData runs the geometric setup kernel once over the local
// coordinates and returns the quadrature data it produces
func SetupQuadratureData(c *ceed.Ceed, coordLoc *mat.VecDense, basisX *ceed.Basis,
	restrX, restrQData *ceed.ElemRestriction, setupName string) (qdata *ceed.Vector, err error) {
	var (
		qf     *ceed.QFunction
		coords *ceed.Vector
		wrap   *ceed.SliceWrap
	)
	if qf, err = c.QFunctionByName(setupName); err != nil {
		return nil, &ConfigError{Stage: StageSetup, Err: err}
	}
	op := c.NewOperator(qf)
	for _, f := range []struct {
		name string
		r    *ceed.ElemRestriction
		b    *ceed.Basis
		v    ceed.VectorOpt
	}{
		{"dx", restrX, basisX, ceed.VectorActive},
		{"weights", nil, basisX, ceed.VectorNone},
		{"qdata", restrQData, ceed.BasisCollocated, ceed.VectorActive},
	} {
		if err = op.AddField(f.name, f.r, f.b, f.v); err != nil {
			return nil, &FieldError{Stage: StageSetup, Err: err}
		}
	}
	if err = op.Check(); err != nil {
		return nil, &FieldError{Stage: StageSetup, Err: err}
	}
	if qdata, err = restrQData.CreateLVector(c); err != nil {
		return nil, &RuntimeError{Stage: StageSetup, Err: err}
	}
	if coords, err = c.Vector(coordLoc.Len()); err != nil {
		return nil, &RuntimeError{Stage: StageSetup, Err: err}
	}
	if wrap, err = coords.WrapSlice(coordLoc.RawVector().Data); err != nil {
		return nil, &RuntimeError{Stage: StageSetup, Err: err}
	}
	defer wrap.Release()
	if err = op.Apply(coords, qdata); err != nil {
		return nil, &RuntimeError{Stage: StageSetup, Err: err}
	}
	return
}
