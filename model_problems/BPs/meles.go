package BPs

import (
	"fmt"

	"github.com/notargets/meles/InputParameters"
	"github.com/notargets/meles/ceed"
	"github.com/notargets/meles/dm"
	"github.com/notargets/meles/mesh"
	"github.com/sirupsen/logrus"
)

// MethodType selects the family of problems Meles sets up
type MethodType uint8

const (
	BenchmarkProblem MethodType = iota
)

// Meles holds the ceed context and the base DM of one configured problem
type Meles struct {
	Ceed   *ceed.Ceed
	Method MethodType
	DM     *dm.DM
	ID     ProblemID
	Spec   ProblemSpec
	Order  int
	QExtra int
	Log    logrus.FieldLogger
}

// New builds the box mesh the parameters describe, warps it when a
// Kershaw parameter is set, and sets up the base DM. The Kershaw warp is
// defined on the unit cube only.
func New(ip *InputParameters.InputParametersBP, method MethodType) (m *Meles, err error) {
	var msh *mesh.Mesh
	if ip.Kershaw != 0 && (ip.Lower != [3]float64{0, 0, 0} || ip.Upper != [3]float64{1, 1, 1}) {
		return nil, &ConfigError{Stage: StageConfigure,
			Err: fmt.Errorf("%w: box %v - %v", ErrKershawBox, ip.Lower, ip.Upper)}
	}
	if msh, err = mesh.NewBoxMesh(ip.Faces, ip.Lower, ip.Upper); err != nil {
		return nil, &ConfigError{Stage: StageConfigure, Err: err}
	}
	if ip.Kershaw != 0 {
		if err = msh.KershawTransformation(ip.Kershaw); err != nil {
			return nil, &ConfigError{Stage: StageConfigure, Err: err}
		}
	}
	return NewWithMesh(ip, method, msh)
}

// NewWithMesh sets up the problem the parameters select on an existing mesh
func NewWithMesh(ip *InputParameters.InputParametersBP, method MethodType, msh *mesh.Mesh) (m *Meles, err error) {
	if method != BenchmarkProblem {
		return nil, &ConfigError{Stage: StageConfigure, Err: ErrUnsupportedMethod}
	}
	m = &Meles{
		Method: method,
		Order:  ip.Order,
		QExtra: ip.QExtra,
		Log:    logrus.StandardLogger(),
	}
	if m.ID, err = ParseProblemID(ip.Problem); err != nil {
		return nil, err
	}
	if m.Spec, err = Lookup(m.ID); err != nil {
		return nil, err
	}
	if ip.Order < 1 {
		return nil, &ConfigError{Stage: StageConfigure, Err: fmt.Errorf("%w: %d", ErrInvalidOrder, ip.Order)}
	}
	if ip.QExtra < 0 {
		return nil, &ConfigError{Stage: StageConfigure, Err: fmt.Errorf("%w: %d", ErrInvalidQExtra, ip.QExtra)}
	}
	if m.Ceed, err = ceed.Init(ip.Ceed); err != nil {
		return nil, &ConfigError{Stage: StageConfigure, Err: err}
	}
	m.DM = dm.Create(msh)
	var bcFn dm.BoundaryFunc
	if m.Spec.SetBoundaryConditions {
		bcFn = BoundaryFunctionDiff
	}
	if err = setupDMByOrder(m.DM, m.Order, m.Spec.NumComponents, m.Spec.SetBoundaryConditions, bcFn); err != nil {
		return nil, err
	}
	msh.LogStatistics(m.Log)
	m.Log.WithFields(logrus.Fields{
		"problem":   m.ID,
		"order":     m.Order,
		"qextra":    m.QExtra,
		"ceed":      m.Ceed.Resource(),
		"elements":  msh.NumElements,
		"essential": m.DM.HasEssentialBoundary(),
	}).Info("meles configured")
	return
}

// setupDMByOrder sets the Lagrange field, marks the boundary faces and
// imposes the essential boundary "wall" when asked, and orders closures
// for tensor bases
func setupDMByOrder(d *dm.DM, order, numComp int, enforceBC bool, fn dm.BoundaryFunc) (err error) {
	if err = d.SetFE(order, numComp); err != nil {
		return &ConfigError{Stage: StageConfigure, Err: err}
	}
	if enforceBC {
		if fn == nil {
			return &ConfigError{Stage: StageConfigure, Err: fmt.Errorf("%w: no boundary function", ErrMissingBoundaryLabel)}
		}
		label, ok := d.GetLabel("marker")
		if !ok {
			label = d.CreateLabel("marker")
			d.MarkBoundaryFaces(label, 1)
		}
		if label.StratumSize(1) == 0 {
			return &TopologyError{Stage: StageConfigure, Err: fmt.Errorf("%w: marker has no boundary faces", ErrMissingBoundaryLabel)}
		}
		if err = d.AddEssentialBoundary("wall", label, []int{1}, fn); err != nil {
			return &TopologyError{Stage: StageConfigure, Err: err}
		}
	}
	d.SetTensorClosurePermutation()
	if err = d.SetUp(); err != nil {
		return &TopologyError{Stage: StageConfigure, Err: err}
	}
	return
}

// MatShell builds a fresh operator context and returns it in a configured
// shell. Every call gives an independent shell.
func (m *Meles) MatShell() (s *MatShell, err error) {
	if m.Method != BenchmarkProblem {
		return nil, &ConfigError{Stage: StageConfigure, Err: ErrUnsupportedMethod}
	}
	var ctx *MatShellContext
	if ctx, err = NewMatShellContext(m); err != nil {
		return
	}
	return newMatShell(ctx), nil
}
