package dm

import (
	"fmt"
	"sort"

	"github.com/notargets/meles/DG1D"
	"github.com/notargets/meles/mesh"
	"github.com/sirupsen/logrus"
)

// BoundaryFunc evaluates the prescribed value of every component at x
type BoundaryFunc func(x [3]float64, u []float64)

type essentialBC struct {
	name   string
	label  *Label
	values []int
	fn     BoundaryFunc
}

// DM discretizes a hex mesh with a continuous Lagrange field of one order
// and a number of components. Nodes sit at the Gauss-Lobatto points of each
// cell; nodes shared between cells are numbered once.
type DM struct {
	mesh          *mesh.Mesh
	order         int
	numComp       int
	tensorClosure bool
	labels        map[string]*Label
	essential     []essentialBC
	coordDM       *DM

	// built by SetUp
	setUp       bool
	cellNodes   [][]int // local node of each cell node, tensor order
	numNodes    int
	constrained []bool
	globalIndex []int // -1 for constrained nodes
	numGlobal   int
	nodeCoords  [][3]float64
	bcFn        []BoundaryFunc // per node, nil unless constrained
}

func Create(m *mesh.Mesh) *DM {
	return &DM{mesh: m, labels: make(map[string]*Label)}
}

func (d *DM) Mesh() *mesh.Mesh { return d.mesh }

// NumCells is the height 0 stratum size
func (d *DM) NumCells() int { return d.mesh.NumElements }

// SetFE sets a Lagrange field of polynomial order with numComp components.
// It invalidates a previous SetUp.
func (d *DM) SetFE(order, numComp int) error {
	if order < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if numComp < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidComponents, numComp)
	}
	d.order, d.numComp, d.setUp = order, numComp, false
	return nil
}

func (d *DM) Order() int         { return d.order }
func (d *DM) NumComponents() int { return d.numComp }

// SetTensorClosurePermutation orders cell closures lexicographically with
// x fastest instead of by entity dimension
func (d *DM) SetTensorClosurePermutation() { d.tensorClosure = true }

func (d *DM) IsTensorClosure() bool { return d.tensorClosure }

// CreateLabel returns the label called name, creating it if needed
func (d *DM) CreateLabel(name string) *Label {
	if l, ok := d.labels[name]; ok {
		return l
	}
	l := NewLabel(name)
	d.labels[name] = l
	return l
}

func (d *DM) GetLabel(name string) (l *Label, ok bool) {
	l, ok = d.labels[name]
	return
}

// FacePoint is the point number of mesh face f
func (d *DM) FacePoint(f int) int { return d.mesh.NumElements + f }

// MarkBoundaryFaces gives value to every boundary face point in l
func (d *DM) MarkBoundaryFaces(l *Label, value int) {
	for _, f := range d.mesh.BoundaryFaces() {
		l.SetValue(d.FacePoint(f), value)
	}
}

// AddEssentialBoundary constrains every node in the closure of the label
// points carrying one of values; fn supplies their values
func (d *DM) AddEssentialBoundary(name string, l *Label, values []int, fn BoundaryFunc) error {
	if l == nil {
		return fmt.Errorf("%w: boundary %q has no label", ErrMissingLabel, name)
	}
	d.essential = append(d.essential, essentialBC{
		name: name, label: l, values: append([]int(nil), values...), fn: fn,
	})
	d.setUp = false
	return nil
}

func (d *DM) HasEssentialBoundary() bool { return len(d.essential) != 0 }

// nodeKey identifies a node independently of the cell that sees it: the
// sorted vertices with nonzero trilinear weight and the weight numerators
type nodeKey struct {
	n     int
	pairs [8][2]int
}

// tensorIndex splits a cell node number into per direction indices
func (d *DM) tensorIndex(n int) (ijk [3]int) {
	P := d.order + 1
	ijk[0], ijk[1], ijk[2] = n%P, (n/P)%P, n/(P*P)
	return
}

func (d *DM) key(cell int, ijk [3]int) (k nodeKey) {
	var (
		p     = d.order
		verts = d.mesh.EtoV[cell]
	)
	for corner := 0; corner < 8; corner++ {
		w := 1
		for dir := 0; dir < 3; dir++ {
			if corner>>dir&1 == 1 {
				w *= ijk[dir]
			} else {
				w *= p - ijk[dir]
			}
		}
		if w == 0 {
			continue
		}
		k.pairs[k.n] = [2]int{verts[mesh.HexTensorCorners[corner]], w}
		k.n++
	}
	sort.Slice(k.pairs[:k.n], func(i, j int) bool { return k.pairs[i][0] < k.pairs[j][0] })
	return
}

// SetUp numbers the nodes and applies the essential boundaries
func (d *DM) SetUp() (err error) {
	if d.order < 1 {
		return fmt.Errorf("%w: call SetFE first", ErrNotSetUp)
	}
	var (
		K     = d.mesh.NumElements
		Np    = d.NodesPerCell()
		index = make(map[nodeKey]int)
		r, _  = DG1D.JacobiGL(0, 0, d.order)
	)
	d.cellNodes = make([][]int, K)
	d.nodeCoords = nil
	for k := 0; k < K; k++ {
		d.cellNodes[k] = make([]int, Np)
		for n := 0; n < Np; n++ {
			ijk := d.tensorIndex(n)
			key := d.key(k, ijk)
			ln, ok := index[key]
			if !ok {
				ln = len(index)
				index[key] = ln
				d.nodeCoords = append(d.nodeCoords,
					d.mapReference(k, [3]float64{r[ijk[0]], r[ijk[1]], r[ijk[2]]}))
			}
			d.cellNodes[k][n] = ln
		}
	}
	d.numNodes = len(index)
	d.constrained = make([]bool, d.numNodes)
	d.bcFn = make([]BoundaryFunc, d.numNodes)
	for _, bc := range d.essential {
		for _, value := range bc.values {
			for _, point := range bc.label.StratumPoints(value) {
				var nodes []int
				if nodes, err = d.pointNodes(point); err != nil {
					return fmt.Errorf("essential boundary %q: %w", bc.name, err)
				}
				for _, ln := range nodes {
					d.constrained[ln] = true
					d.bcFn[ln] = bc.fn
				}
			}
		}
	}
	d.globalIndex = make([]int, d.numNodes)
	d.numGlobal = 0
	for ln := range d.globalIndex {
		if d.constrained[ln] {
			d.globalIndex[ln] = -1
			continue
		}
		d.globalIndex[ln] = d.numGlobal
		d.numGlobal++
	}
	d.setUp = true
	logrus.WithFields(logrus.Fields{
		"order":       d.order,
		"components":  d.numComp,
		"nodes":       d.numNodes,
		"constrained": d.numNodes - d.numGlobal,
	}).Debug("dm set up")
	return
}

// mapReference maps a point of [-1,1]^3 through the trilinear cell map
func (d *DM) mapReference(cell int, r [3]float64) (x [3]float64) {
	verts := d.mesh.EtoV[cell]
	for corner := 0; corner < 8; corner++ {
		w := 1.
		for dir := 0; dir < 3; dir++ {
			if corner>>dir&1 == 1 {
				w *= (1 + r[dir]) / 2
			} else {
				w *= (1 - r[dir]) / 2
			}
		}
		v := d.mesh.Vertices[verts[mesh.HexTensorCorners[corner]]]
		for dir := 0; dir < 3; dir++ {
			x[dir] += w * v[dir]
		}
	}
	return
}

// NodesPerCell is (order+1)^3
func (d *DM) NodesPerCell() int {
	P := d.order + 1
	return P * P * P
}

// NodesPerFace is (order+1)^2
func (d *DM) NodesPerFace() int {
	P := d.order + 1
	return P * P
}

func (d *DM) NumLocalNodes() int  { return d.numNodes }
func (d *DM) NumGlobalNodes() int { return d.numGlobal }

// LocalSize is the length of a local vector, constrained nodes included
func (d *DM) LocalSize() int { return d.numNodes * d.numComp }

// GlobalSize is the length of a global vector, the unconstrained unknowns
func (d *DM) GlobalSize() int { return d.numGlobal * d.numComp }

// IsConstrained reports whether local node ln is fixed by a boundary
func (d *DM) IsConstrained(ln int) bool { return d.constrained[ln] }

// GlobalIndex is the global node of local node ln, -1 when constrained
func (d *DM) GlobalIndex(ln int) int { return d.globalIndex[ln] }

// NodeCoordinates returns the physical location of every local node
func (d *DM) NodeCoordinates() [][3]float64 {
	return append([][3]float64(nil), d.nodeCoords...)
}

// Clone shares the mesh and copies labels, discretization and boundaries.
// Vectors created from the clone are independent of the receiver.
func (d *DM) Clone() (c *DM) {
	c = &DM{
		mesh:          d.mesh,
		order:         d.order,
		numComp:       d.numComp,
		tensorClosure: d.tensorClosure,
		labels:        make(map[string]*Label),
		coordDM:       d.coordDM,
	}
	relabel := make(map[*Label]*Label)
	for name, l := range d.labels {
		c.labels[name] = l.clone()
		relabel[l] = c.labels[name]
	}
	for _, bc := range d.essential {
		l, ok := relabel[bc.label]
		if !ok {
			l = bc.label
		}
		c.essential = append(c.essential, essentialBC{name: bc.name, label: l, values: bc.values, fn: bc.fn})
	}
	if d.setUp {
		c.setUp = true
		c.cellNodes, c.numNodes = d.cellNodes, d.numNodes
		c.constrained, c.globalIndex, c.numGlobal = d.constrained, d.globalIndex, d.numGlobal
		c.nodeCoords, c.bcFn = d.nodeCoords, d.bcFn
	}
	return
}
