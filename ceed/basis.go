package ceed

import (
	"fmt"

	"github.com/notargets/meles/DG1D"
	"gonum.org/v1/gonum/mat"
)

// QuadMode selects the 1D quadrature rule of a tensor basis
type QuadMode uint8

const (
	Gauss QuadMode = iota
	GaussLobatto
)

func (q QuadMode) String() string {
	return [...]string{"Gauss", "GaussLobatto"}[q]
}

// Basis is a tensor product H1 Lagrange basis with nodes at the Gauss-Lobatto
// points. Element blocks are laid out [component][node] on the node side,
// [component][qpt] for interpolation and [dim][component][qpt] for gradients,
// with x the fastest tensor index.
type Basis struct {
	dim, numComp int
	P1d, Q1d     int
	qmode        QuadMode
	collocated   bool
	nodes1d      []float64
	qref1d       []float64
	qweight1d    []float64
	interp1d     []float64 // Q1d x P1d, row major
	grad1d       []float64 // Q1d x P1d, row major
	weights      []float64 // tensor product weights, Q1d^dim
}

// BasisCollocated marks a field that is already stored at quadrature points
var BasisCollocated = &Basis{collocated: true}

// BasisTensorH1Lagrange builds a basis of P nodes and Q points per direction
func (c *Ceed) BasisTensorH1Lagrange(dim, numComp, P, Q int, qmode QuadMode) (b *Basis, err error) {
	switch {
	case dim < 1 || dim > 3:
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidBasis, dim)
	case numComp < 1:
		return nil, fmt.Errorf("%w: %d components", ErrInvalidBasis, numComp)
	case P < 2:
		return nil, fmt.Errorf("%w: %d nodes per direction, need at least 2", ErrInvalidBasis, P)
	case qmode != Gauss && qmode != GaussLobatto:
		return nil, fmt.Errorf("%w: quadrature mode %d", ErrInvalidBasis, qmode)
	case qmode == GaussLobatto && Q < 2:
		return nil, fmt.Errorf("%w: Gauss-Lobatto rule needs 2 points, got %d", ErrInvalidBasis, Q)
	case Q < P:
		return nil, fmt.Errorf("%w: Q = %d, P = %d", ErrQuadratureTooCoarse, Q, P)
	}
	b = &Basis{
		dim:     dim,
		numComp: numComp,
		P1d:     P,
		Q1d:     Q,
		qmode:   qmode,
	}
	b.nodes1d, _ = DG1D.JacobiGL(0, 0, P-1)
	switch qmode {
	case Gauss:
		b.qref1d, b.qweight1d = DG1D.JacobiGQ(0, 0, Q-1)
	case GaussLobatto:
		b.qref1d, b.qweight1d = DG1D.JacobiGL(0, 0, Q-1)
	}
	var Interp, Grad *mat.Dense
	if Interp, Grad, err = DG1D.LagrangeOperators1D(b.nodes1d, b.qref1d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasis, err)
	}
	b.interp1d, b.grad1d = rowMajor(Interp), rowMajor(Grad)

	b.weights = make([]float64, b.NumQuadraturePoints())
	for q := range b.weights {
		w, rem := 1., q
		for d := 0; d < dim; d++ {
			w *= b.qweight1d[rem%Q]
			rem /= Q
		}
		b.weights[q] = w
	}
	return
}

func rowMajor(m *mat.Dense) (data []float64) {
	r, c := m.Dims()
	data = make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = m.At(i, j)
		}
	}
	return
}

func ipow(base, exp int) (r int) {
	r = 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return
}

func (b *Basis) IsCollocated() bool         { return b.collocated }
func (b *Basis) Dimension() int             { return b.dim }
func (b *Basis) NumComponents() int         { return b.numComp }
func (b *Basis) NumNodes1D() int            { return b.P1d }
func (b *Basis) NumQuadraturePoints1D() int { return b.Q1d }
func (b *Basis) NumNodes() int              { return ipow(b.P1d, b.dim) }
func (b *Basis) NumQuadraturePoints() int   { return ipow(b.Q1d, b.dim) }
func (b *Basis) QuadMode() QuadMode         { return b.qmode }
func (b *Basis) QRef1D() []float64          { return append([]float64(nil), b.qref1d...) }
func (b *Basis) QWeight1D() []float64       { return append([]float64(nil), b.qweight1d...) }
func (b *Basis) Nodes1D() []float64         { return append([]float64(nil), b.nodes1d...) }
func (b *Basis) Interp1D() []float64        { return append([]float64(nil), b.interp1d...) }
func (b *Basis) Grad1D() []float64          { return append([]float64(nil), b.grad1d...) }

// NodeBlockSize is the per-element length on the node side
func (b *Basis) NodeBlockSize() int { return b.numComp * b.NumNodes() }

// QBlockSize is the per-element length at quadrature points for an eval mode
func (b *Basis) QBlockSize(emode EvalMode) int {
	switch emode {
	case EvalInterp:
		return b.numComp * b.NumQuadraturePoints()
	case EvalGrad:
		return b.dim * b.numComp * b.NumQuadraturePoints()
	case EvalWeight:
		return b.NumQuadraturePoints()
	}
	return 0
}

// basisWork holds the scratch of one go routine
type basisWork struct {
	buf [2][]float64
}

func (b *Basis) newWork() *basisWork {
	n := b.P1d
	if b.Q1d > n {
		n = b.Q1d
	}
	size := ipow(n, b.dim)
	return &basisWork{buf: [2][]float64{make([]float64, size), make([]float64, size)}}
}

// Apply evaluates the basis on numElem consecutive element blocks of u
// into v. In transpose the result overwrites v.
func (b *Basis) Apply(numElem int, tmode TransposeMode, emode EvalMode, u, v *Vector) error {
	if b.collocated {
		return fmt.Errorf("%w: collocated basis has no action", ErrInvalidBasis)
	}
	if tmode == Transpose && emode == EvalWeight {
		return ErrTransposeWeight
	}
	var (
		nodeSize = b.NodeBlockSize()
		qSize    = b.QBlockSize(emode)
		inSize   = nodeSize
		outSize  = qSize
	)
	if qSize == 0 {
		return fmt.Errorf("%w: eval mode %s", ErrInvalidBasis, emode)
	}
	if tmode == Transpose {
		inSize, outSize = qSize, nodeSize
	}
	if emode != EvalWeight && (u == nil || u.Len() != numElem*inSize) {
		return fmt.Errorf("%w: basis input", ErrVectorLength)
	}
	if v == nil || v.Len() != numElem*outSize {
		return fmt.Errorf("%w: basis output", ErrVectorLength)
	}
	w := b.newWork()
	for e := 0; e < numElem; e++ {
		var in []float64
		if emode != EvalWeight {
			in = u.Array()[e*inSize : (e+1)*inSize]
		}
		b.applyElement(tmode, emode, in, v.Array()[e*outSize:(e+1)*outSize], w)
	}
	return nil
}

// applyElement evaluates one element block; sizes are the caller's business
func (b *Basis) applyElement(tmode TransposeMode, emode EvalMode, u, v []float64, w *basisWork) {
	var (
		Pd, Qd    = b.NumNodes(), b.NumQuadraturePoints()
		nc        = b.numComp
		transpose = tmode == Transpose
		mats      = make([][]float64, b.dim)
	)
	switch emode {
	case EvalWeight:
		copy(v, b.weights)
	case EvalInterp:
		for d := range mats {
			mats[d] = b.interp1d
		}
		for c := 0; c < nc; c++ {
			if transpose {
				b.tensor(mats, true, u[c*Qd:(c+1)*Qd], v[c*Pd:(c+1)*Pd], w, false)
			} else {
				b.tensor(mats, false, u[c*Pd:(c+1)*Pd], v[c*Qd:(c+1)*Qd], w, false)
			}
		}
	case EvalGrad:
		for d := 0; d < b.dim; d++ {
			for dd := range mats {
				mats[dd] = b.interp1d
			}
			mats[d] = b.grad1d
			for c := 0; c < nc; c++ {
				q := (d*nc + c) * Qd
				if transpose {
					b.tensor(mats, true, u[q:q+Qd], v[c*Pd:(c+1)*Pd], w, d > 0)
				} else {
					b.tensor(mats, false, u[c*Pd:(c+1)*Pd], v[q:q+Qd], w, false)
				}
			}
		}
	}
}

// tensor applies mats[d] (Q1d x P1d) along each direction d in turn, or
// their transposes. With add set the final stage accumulates into v.
func (b *Basis) tensor(mats [][]float64, transpose bool, u, v []float64, w *basisWork, add bool) {
	var (
		nIn, nOut = b.P1d, b.Q1d
		cur       = u
	)
	if transpose {
		nIn, nOut = nOut, nIn
	}
	for d := 0; d < b.dim; d++ {
		var (
			pre  = ipow(nIn, b.dim-1-d) // directions above d are untouched
			post = ipow(nOut, d)        // directions below d are done
			dst  []float64
			last = d == b.dim-1
		)
		if last {
			dst = v
		} else {
			dst = w.buf[d%2][:pre*nOut*post]
		}
		contract(mats[d], b.Q1d, b.P1d, transpose, pre, post, cur, dst, last && add)
		cur = dst
	}
}

// contract views u as [pre][J][post] and applies B (rows x cols, row major)
// or its transpose to the middle index, giving v as [pre][outJ][post].
func contract(B []float64, rows, cols int, transpose bool, pre, post int, u, v []float64, add bool) {
	J, outJ := cols, rows
	if transpose {
		J, outJ = rows, cols
	}
	if !add {
		for i := range v[:pre*outJ*post] {
			v[i] = 0
		}
	}
	for a := 0; a < pre; a++ {
		for o := 0; o < outJ; o++ {
			vo := (a*outJ + o) * post
			for j := 0; j < J; j++ {
				var coef float64
				if transpose {
					coef = B[j*cols+o]
				} else {
					coef = B[o*cols+j]
				}
				if coef == 0 {
					continue
				}
				uo := (a*J + j) * post
				for c := 0; c < post; c++ {
					v[vo+c] += coef * u[uo+c]
				}
			}
		}
	}
}

// scalarMatrices tabulates the element basis of a single component: one
// Qd x Pd row major matrix for interpolation, one per direction for gradients
func (b *Basis) scalarMatrices(emode EvalMode) (mats [][]float64) {
	var (
		Pd, Qd = b.NumNodes(), b.NumQuadraturePoints()
		ndir   = 1
	)
	if emode == EvalGrad {
		ndir = b.dim
	}
	mats = make([][]float64, ndir)
	for dir := range mats {
		m := make([]float64, Qd*Pd)
		for q := 0; q < Qd; q++ {
			for n := 0; n < Pd; n++ {
				val, qr, nr := 1., q, n
				for d := 0; d < b.dim; d++ {
					qi, ni := qr%b.Q1d, nr%b.P1d
					if emode == EvalGrad && d == dir {
						val *= b.grad1d[qi*b.P1d+ni]
					} else {
						val *= b.interp1d[qi*b.P1d+ni]
					}
					qr /= b.Q1d
					nr /= b.P1d
				}
				m[q*Pd+n] = val
			}
		}
		mats[dir] = m
	}
	return
}
