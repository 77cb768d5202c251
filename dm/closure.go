package dm

import (
	"fmt"
	"sort"

	"github.com/notargets/meles/mesh"
)

// LocalOffsets holds, for every selected point, the local vector offset of
// each closure node. Components of a node follow its offset with stride 1.
// Constrained nodes are stored as -(offset+1).
type LocalOffsets struct {
	NumCells      int
	CellSize      int
	NumComponents int
	LSize         int
	Offsets       []int
}

// entityDim is the dimension of the cell entity a tensor node lives on
func (d *DM) entityDim(ijk [3]int) (dim int) {
	for _, i := range ijk {
		if i > 0 && i < d.order {
			dim++
		}
	}
	return
}

// closureNodes returns the tensor node numbers of a cell or of one local face
// of a cell in closure order. face < 0 selects the whole cell.
func (d *DM) closureNodes(face int) (nodes []int) {
	Np := d.NodesPerCell()
	for n := 0; n < Np; n++ {
		if face >= 0 {
			fa := mesh.HexFaceAxis[face]
			fixed := 0
			if fa.High {
				fixed = d.order
			}
			if d.tensorIndex(n)[fa.Axis] != fixed {
				continue
			}
		}
		nodes = append(nodes, n)
	}
	if !d.tensorClosure {
		sort.SliceStable(nodes, func(i, j int) bool {
			return d.entityDim(d.tensorIndex(nodes[i])) > d.entityDim(d.tensorIndex(nodes[j]))
		})
	}
	return
}

// pointNodes returns the local nodes in the closure of a point
func (d *DM) pointNodes(point int) (nodes []int, err error) {
	var (
		K    = d.mesh.NumElements
		cell = point
		face = -1
	)
	switch {
	case point < 0 || point >= K+d.mesh.NumFaces:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoint, point)
	case point >= K:
		f := d.mesh.Faces[point-K]
		cell, face = f.Element, f.LocalID
	}
	for _, n := range d.closureNodes(face) {
		nodes = append(nodes, d.cellNodes[cell][n])
	}
	return
}

// ClosureIndices returns the local vector offset of each node in the closure
// of a cell or face point
func (d *DM) ClosureIndices(point int) (indices []int, err error) {
	if !d.setUp {
		return nil, ErrNotSetUp
	}
	var nodes []int
	if nodes, err = d.pointNodes(point); err != nil {
		return
	}
	indices = make([]int, len(nodes))
	for i, ln := range nodes {
		indices[i] = ln * d.numComp
	}
	return
}

// PlexLocalOffsets gathers closure offsets over the points at height (0 for
// cells, 1 for faces). With a label the points are those carrying value, and
// every one of them must have the closure size of that height.
func (d *DM) PlexLocalOffsets(l *Label, value, height int) (lo LocalOffsets, err error) {
	if !d.setUp {
		return lo, ErrNotSetUp
	}
	if !d.tensorClosure {
		return lo, ErrClosureNotTensor
	}
	var (
		first, last int
		points      []int
	)
	switch height {
	case 0:
		lo.CellSize = d.NodesPerCell()
		first, last = 0, d.mesh.NumElements
	case 1:
		lo.CellSize = d.NodesPerFace()
		first, last = d.FacePoint(0), d.FacePoint(d.mesh.NumFaces)
	default:
		return lo, fmt.Errorf("%w: %d", ErrInvalidHeight, height)
	}
	if l != nil {
		points = l.StratumPoints(value)
	} else {
		for p := first; p < last; p++ {
			points = append(points, p)
		}
	}
	lo.NumCells = len(points)
	lo.NumComponents = d.numComp
	lo.LSize = d.LocalSize()
	lo.Offsets = make([]int, 0, lo.NumCells*lo.CellSize)
	for _, p := range points {
		var indices []int
		if indices, err = d.ClosureIndices(p); err != nil {
			return
		}
		if len(indices) != lo.CellSize {
			return lo, fmt.Errorf("%w: point %d has %d closure nodes, expected %d",
				ErrInconsistentClosure, p, len(indices), lo.CellSize)
		}
		for _, ind := range indices {
			if d.constrained[ind/d.numComp] {
				ind = -(ind + 1)
			}
			lo.Offsets = append(lo.Offsets, ind)
		}
	}
	return
}
