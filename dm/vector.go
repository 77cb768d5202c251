package dm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// InsertMode selects overwrite or accumulate for scatters
type InsertMode uint8

const (
	InsertValues InsertMode = iota
	AddValues
)

func (m InsertMode) String() string {
	return [...]string{"INSERT_VALUES", "ADD_VALUES"}[m]
}

func newVector(n int) (*mat.VecDense, error) {
	if n < 1 {
		return nil, ErrEmptyVector
	}
	return mat.NewVecDense(n, nil), nil
}

// CreateGlobalVector holds one entry per unconstrained dof
func (d *DM) CreateGlobalVector() (*mat.VecDense, error) {
	if !d.setUp {
		return nil, ErrNotSetUp
	}
	return newVector(d.GlobalSize())
}

// CreateLocalVector holds one entry per dof, constrained ones included
func (d *DM) CreateLocalVector() (*mat.VecDense, error) {
	if !d.setUp {
		return nil, ErrNotSetUp
	}
	return newVector(d.LocalSize())
}

func (d *DM) checkSizes(g, l *mat.VecDense) error {
	if !d.setUp {
		return ErrNotSetUp
	}
	if g == nil || g.Len() != d.GlobalSize() {
		return fmt.Errorf("%w: global vector, expected %d", ErrVectorSize, d.GlobalSize())
	}
	if l == nil || l.Len() != d.LocalSize() {
		return fmt.Errorf("%w: local vector, expected %d", ErrVectorSize, d.LocalSize())
	}
	return nil
}

// GlobalToLocal scatters g into l. With InsertValues the constrained
// entries of l are zeroed; InsertBoundaryValues fills them.
func (d *DM) GlobalToLocal(g *mat.VecDense, mode InsertMode, l *mat.VecDense) (err error) {
	if err = d.checkSizes(g, l); err != nil {
		return
	}
	var (
		gd = g.RawVector()
		ld = l.RawVector()
		nc = d.numComp
	)
	for ln, gi := range d.globalIndex {
		for c := 0; c < nc; c++ {
			li := (ln*nc + c) * ld.Inc
			var val float64
			if gi >= 0 {
				val = gd.Data[(gi*nc+c)*gd.Inc]
			}
			switch mode {
			case InsertValues:
				ld.Data[li] = val
			case AddValues:
				ld.Data[li] += val
			default:
				return fmt.Errorf("%w: %d", ErrInsertMode, mode)
			}
		}
	}
	return
}

// LocalToGlobal gathers l into g; constrained entries are dropped. With
// AddValues local entries are summed into g.
func (d *DM) LocalToGlobal(l *mat.VecDense, mode InsertMode, g *mat.VecDense) (err error) {
	if err = d.checkSizes(g, l); err != nil {
		return
	}
	var (
		gd = g.RawVector()
		ld = l.RawVector()
		nc = d.numComp
	)
	for ln, gi := range d.globalIndex {
		if gi < 0 {
			continue
		}
		for c := 0; c < nc; c++ {
			var (
				li = (ln*nc + c) * ld.Inc
				gj = (gi*nc + c) * gd.Inc
			)
			switch mode {
			case InsertValues:
				gd.Data[gj] = ld.Data[li]
			case AddValues:
				gd.Data[gj] += ld.Data[li]
			default:
				return fmt.Errorf("%w: %d", ErrInsertMode, mode)
			}
		}
	}
	return
}

// InsertBoundaryValues writes the essential boundary values into the
// constrained entries of the local vector l
func (d *DM) InsertBoundaryValues(l *mat.VecDense) error {
	if !d.setUp {
		return ErrNotSetUp
	}
	if l == nil || l.Len() != d.LocalSize() {
		return fmt.Errorf("%w: local vector, expected %d", ErrVectorSize, d.LocalSize())
	}
	u := make([]float64, d.numComp)
	for ln, fn := range d.bcFn {
		if fn == nil {
			continue
		}
		fn(d.nodeCoords[ln], u)
		for c, val := range u {
			l.SetVec(ln*d.numComp+c, val)
		}
	}
	return nil
}

// ProjectFunction evaluates fn at every node into a local vector
func (d *DM) ProjectFunction(fn BoundaryFunc) (l *mat.VecDense, err error) {
	if l, err = d.CreateLocalVector(); err != nil {
		return
	}
	u := make([]float64, d.numComp)
	for ln, x := range d.nodeCoords {
		fn(x, u)
		for c, val := range u {
			l.SetVec(ln*d.numComp+c, val)
		}
	}
	return
}
