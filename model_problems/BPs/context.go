package BPs

import (
	"fmt"

	"github.com/notargets/meles/ceed"
	"github.com/notargets/meles/dm"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

const (
	dmInsert = dm.InsertValues
	dmAdd    = dm.AddValues
)

// MatShellContext is the private state of one operator shell: its own DM,
// the local work vectors and their ceed views, and the apply operator
type MatShellContext struct {
	DM         *dm.DM
	XLoc, YLoc *mat.VecDense
	XLocCeed   *ceed.Vector
	YLocCeed   *ceed.Vector
	Op         *ceed.Operator
	QData      *ceed.Vector
	RestrU     *ceed.ElemRestriction
	BasisU     *ceed.Basis
}

// NewMatShellContext discretizes a clone of the Meles DM, runs the setup
// pass and composes the apply operator
func NewMatShellContext(m *Meles) (ctx *MatShellContext, err error) {
	var (
		ps     = m.Spec
		c      = m.Ceed
		d      = m.DM.Clone()
		basisX *ceed.Basis
		restrX *ceed.ElemRestriction
		restrQ *ceed.ElemRestriction
		coordD *dm.DM
	)
	ctx = &MatShellContext{DM: d}
	// Work vectors
	if ctx.XLoc, err = d.CreateLocalVector(); err != nil {
		return nil, &ConfigError{Stage: StageOperator, Err: err}
	}
	if ctx.YLoc, err = d.CreateLocalVector(); err != nil {
		return nil, &ConfigError{Stage: StageOperator, Err: err}
	}
	if ctx.XLocCeed, err = c.Vector(ctx.XLoc.Len()); err != nil {
		return nil, &ConfigError{Stage: StageOperator, Err: err}
	}
	if ctx.YLocCeed, err = c.Vector(ctx.XLoc.Len()); err != nil {
		return nil, &ConfigError{Stage: StageOperator, Err: err}
	}
	// Bases
	if basisX, ctx.BasisU, err = CreateBases(c, 3, ps.NumComponents, m.Order, m.QExtra, ps.QuadMode); err != nil {
		return
	}
	// Restrictions
	if ctx.RestrU, err = CreateRestrictionFromPlex(c, d, 0, nil, 0); err != nil {
		return
	}
	if ctx.RestrU.LVectorSize() != ctx.XLoc.Len() {
		return nil, &ConfigError{Stage: StageOperator, Err: fmt.Errorf("%w: restriction %d, local vector %d",
			ErrLocalSizeMismatch, ctx.RestrU.LVectorSize(), ctx.XLoc.Len())}
	}
	if coordD, err = d.CoordinateDM(); err != nil {
		return nil, &TopologyError{Stage: StageRestriction, Err: err}
	}
	if restrX, err = CreateRestrictionFromPlex(c, coordD, 0, nil, 0); err != nil {
		return
	}
	if restrQ, err = CreateQDataRestriction(c, ctx.RestrU.NumElements(),
		ctx.BasisU.NumQuadraturePoints(), ps.QDataSize); err != nil {
		return
	}
	// Setup pass
	var coordLoc *mat.VecDense
	if coordLoc, err = m.DM.CoordinatesLocal(); err != nil {
		return nil, &TopologyError{Stage: StageSetup, Err: err}
	}
	if ctx.QData, err = SetupQuadratureData(c, coordLoc, basisX, restrX, restrQ, ps.SetupName); err != nil {
		return
	}
	// Apply operator
	var qf *ceed.QFunction
	if qf, err = c.QFunctionByName(ps.ApplyName); err != nil {
		return nil, &ConfigError{Stage: StageOperator, Err: err}
	}
	ctx.Op = c.NewOperator(qf)
	for _, f := range []struct {
		name string
		r    *ceed.ElemRestriction
		b    *ceed.Basis
		v    ceed.VectorOpt
	}{
		{ps.InputName, ctx.RestrU, ctx.BasisU, ceed.VectorActive},
		{"qdata", restrQ, ceed.BasisCollocated, ceed.VectorPassive(ctx.QData)},
		{ps.OutputName, ctx.RestrU, ctx.BasisU, ceed.VectorActive},
	} {
		if err = ctx.Op.AddField(f.name, f.r, f.b, f.v); err != nil {
			return nil, &FieldError{Stage: StageOperator, Err: err}
		}
	}
	if err = ctx.Op.Check(); err != nil {
		return nil, &FieldError{Stage: StageOperator, Err: err}
	}
	m.Log.WithFields(logrus.Fields{
		"problem":  m.ID,
		"elements": ctx.RestrU.NumElements(),
		"qpts":     ctx.BasisU.NumQuadraturePoints(),
		"dofs":     d.GlobalSize(),
	}).Info("operator context ready")
	return
}

// wrapLocal points a ceed vector at the storage of a local vector until
// the returned wrap is released
func wrapLocal(stage Stage, v *ceed.Vector, l *mat.VecDense) (w *ceed.SliceWrap, err error) {
	if w, err = v.WrapSlice(l.RawVector().Data); err != nil {
		return nil, &RuntimeError{Stage: stage, Err: err}
	}
	return
}

// applyLocal computes y = A x: scatter, local apply, zero y, gather
func (ctx *MatShellContext) applyLocal(x, y *mat.VecDense) (err error) {
	if err = ctx.DM.GlobalToLocal(x, dmInsert, ctx.XLoc); err != nil {
		return &RuntimeError{Stage: StageApply, Err: err}
	}
	if err = func() (err error) {
		var xw, yw *ceed.SliceWrap
		if xw, err = wrapLocal(StageApply, ctx.XLocCeed, ctx.XLoc); err != nil {
			return
		}
		defer xw.Release()
		if yw, err = wrapLocal(StageApply, ctx.YLocCeed, ctx.YLoc); err != nil {
			return
		}
		defer yw.Release()
		if err = ctx.Op.Apply(ctx.XLocCeed, ctx.YLocCeed); err != nil {
			return &RuntimeError{Stage: StageApply, Err: err}
		}
		return
	}(); err != nil {
		return
	}
	y.Zero()
	if err = ctx.DM.LocalToGlobal(ctx.YLoc, dmAdd, y); err != nil {
		return &RuntimeError{Stage: StageApply, Err: err}
	}
	return
}

// computeDiagonal assembles the operator diagonal into the input work vector
// and gathers it into d
func (ctx *MatShellContext) computeDiagonal(d *mat.VecDense) (err error) {
	if err = func() (err error) {
		var xw *ceed.SliceWrap
		if xw, err = wrapLocal(StageDiagonal, ctx.XLocCeed, ctx.XLoc); err != nil {
			return
		}
		defer xw.Release()
		if err = ctx.Op.LinearAssembleDiagonal(ctx.XLocCeed); err != nil {
			return &RuntimeError{Stage: StageDiagonal, Err: err}
		}
		return
	}(); err != nil {
		return
	}
	d.Zero()
	if err = ctx.DM.LocalToGlobal(ctx.XLoc, dmAdd, d); err != nil {
		return &RuntimeError{Stage: StageDiagonal, Err: err}
	}
	return
}
