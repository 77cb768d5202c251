package dm

import (
	"testing"

	"github.com/notargets/meles/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newBoxDM(t *testing.T, faces [3]int, order, ncomp int, bc bool) (d *DM) {
	m, err := mesh.NewBoxMesh(faces, [3]float64{0, 0, 0}, [3]float64{1, 1, 1})
	require.NoError(t, err)
	d = Create(m)
	require.NoError(t, d.SetFE(order, ncomp))
	if bc {
		l := d.CreateLabel("marker")
		d.MarkBoundaryFaces(l, 1)
		require.NoError(t, d.AddEssentialBoundary("wall", l, []int{1},
			func(x [3]float64, u []float64) {
				for c := range u {
					u[c] = x[0] + 10*float64(c)
				}
			}))
	}
	d.SetTensorClosurePermutation()
	require.NoError(t, d.SetUp())
	return
}

func TestNodeCounts(t *testing.T) {
	cases := []struct {
		faces        [3]int
		order, nodes int
	}{
		{[3]int{1, 1, 1}, 1, 8},
		{[3]int{1, 1, 1}, 4, 125},
		{[3]int{2, 1, 1}, 2, 5 * 3 * 3},
		{[3]int{3, 3, 3}, 3, 1000},
		{[3]int{2, 3, 1}, 2, 5 * 7 * 3},
	}
	for _, tc := range cases {
		d := newBoxDM(t, tc.faces, tc.order, 2, false)
		assert.Equal(t, tc.nodes, d.NumLocalNodes())
		assert.Equal(t, 2*tc.nodes, d.LocalSize())
		assert.Equal(t, d.LocalSize(), d.GlobalSize())
	}
}

func TestEssentialBoundary(t *testing.T) {
	d := newBoxDM(t, [3]int{2, 2, 2}, 2, 1, true)
	assert.Equal(t, 125, d.NumLocalNodes())
	assert.Equal(t, 27, d.NumGlobalNodes())
	for ln, x := range d.NodeCoordinates() {
		onBoundary := false
		for _, xi := range x {
			if xi < 1e-12 || xi > 1-1e-12 {
				onBoundary = true
			}
		}
		assert.Equal(t, onBoundary, d.IsConstrained(ln), "node %d at %v", ln, x)
	}

	l, err := d.CreateLocalVector()
	require.NoError(t, err)
	require.NoError(t, d.InsertBoundaryValues(l))
	for ln, x := range d.NodeCoordinates() {
		if d.IsConstrained(ln) {
			assert.InDelta(t, x[0], l.AtVec(ln), 1e-14)
		} else {
			assert.Equal(t, 0., l.AtVec(ln))
		}
	}
}

func TestScatters(t *testing.T) {
	d := newBoxDM(t, [3]int{2, 1, 1}, 2, 3, true)
	g, err := d.CreateGlobalVector()
	require.NoError(t, err)
	l, err := d.CreateLocalVector()
	require.NoError(t, err)
	for i := 0; i < g.Len(); i++ {
		g.SetVec(i, float64(i+1))
	}
	for i := 0; i < l.Len(); i++ {
		l.SetVec(i, -1)
	}
	require.NoError(t, d.GlobalToLocal(g, InsertValues, l))
	var nonzero int
	for ln := 0; ln < d.NumLocalNodes(); ln++ {
		for c := 0; c < 3; c++ {
			if d.IsConstrained(ln) {
				assert.Equal(t, 0., l.AtVec(3*ln+c))
			} else {
				nonzero++
			}
		}
	}
	assert.Equal(t, g.Len(), nonzero)

	g2, _ := d.CreateGlobalVector()
	require.NoError(t, d.LocalToGlobal(l, AddValues, g2))
	require.NoError(t, d.LocalToGlobal(l, AddValues, g2))
	var expect mat.VecDense
	expect.ScaleVec(2, g)
	assert.True(t, mat.EqualApprox(&expect, g2, 1e-14))

	require.NoError(t, d.LocalToGlobal(l, InsertValues, g2))
	assert.True(t, mat.Equal(g, g2))

	short := mat.NewVecDense(3, nil)
	assert.ErrorIs(t, d.GlobalToLocal(short, InsertValues, l), ErrVectorSize)
	assert.ErrorIs(t, d.LocalToGlobal(l, InsertMode(9), g2), ErrInsertMode)
}

func TestPlexLocalOffsets(t *testing.T) {
	d := newBoxDM(t, [3]int{2, 2, 2}, 1, 3, true)
	lo, err := d.PlexLocalOffsets(nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, lo.NumCells)
	assert.Equal(t, 8, lo.CellSize)
	assert.Equal(t, 3, lo.NumComponents)
	assert.Equal(t, 27*3, lo.LSize)
	require.Len(t, lo.Offsets, 64)

	// The center vertex is the only unknown and every cell touches it
	count := make(map[int]int)
	var negative int
	for _, o := range lo.Offsets {
		if o < 0 {
			negative++
			o = -(o + 1)
		}
		assert.Less(t, o, lo.LSize)
		assert.Equal(t, 0, o%3)
		count[o]++
	}
	assert.Equal(t, 56, negative)
	assert.Len(t, count, 27)

	// Boundary faces by label
	l, ok := d.GetLabel("marker")
	require.True(t, ok)
	lf, err := d.PlexLocalOffsets(l, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 24, lf.NumCells)
	assert.Equal(t, 4, lf.CellSize)
	for _, o := range lf.Offsets {
		assert.Less(t, o, 0)
	}

	_, err = d.PlexLocalOffsets(nil, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidHeight)

	// Labeled points must sit at the requested height
	_, err = d.PlexLocalOffsets(l, 1, 0)
	assert.ErrorIs(t, err, ErrInconsistentClosure)
	mixed := d.CreateLabel("mixed")
	mixed.SetValue(d.FacePoint(0), 2)
	mixed.SetValue(3, 2)
	_, err = d.PlexLocalOffsets(mixed, 2, 1)
	assert.ErrorIs(t, err, ErrInconsistentClosure)
	mixed.SetValue(3, 5)
	lm, err := d.PlexLocalOffsets(mixed, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, lm.NumCells)

	assert.True(t, d.HasEssentialBoundary())
	assert.False(t, newBoxDM(t, [3]int{1, 1, 1}, 1, 1, false).HasEssentialBoundary())
}

func TestFaceClosureOnFacePlane(t *testing.T) {
	d := newBoxDM(t, [3]int{2, 1, 1}, 3, 1, false)
	coords := d.NodeCoordinates()
	for f, face := range d.Mesh().Faces {
		indices, err := d.ClosureIndices(d.FacePoint(f))
		require.NoError(t, err)
		require.Len(t, indices, 16)
		// The fixed axis of the owning cell is also fixed in physical space
		axis := mesh.HexFaceAxis[face.LocalID].Axis
		x0 := coords[indices[0]][axis]
		for _, ind := range indices {
			assert.InDelta(t, x0, coords[ind][axis], 1e-14)
		}
	}
}

func TestClosureOrdering(t *testing.T) {
	m, err := mesh.NewBoxMesh([3]int{1, 1, 1}, [3]float64{}, [3]float64{1, 1, 1})
	require.NoError(t, err)
	d := Create(m)
	require.NoError(t, d.SetFE(2, 1))
	require.NoError(t, d.SetUp())

	_, err = d.PlexLocalOffsets(nil, 0, 0)
	assert.ErrorIs(t, err, ErrClosureNotTensor)

	// Interior node first, vertices last
	ind, err := d.ClosureIndices(0)
	require.NoError(t, err)
	assert.Equal(t, 13, ind[0])
	assert.Equal(t, 26, ind[26])

	d.SetTensorClosurePermutation()
	ind, err = d.ClosureIndices(0)
	require.NoError(t, err)
	for n := range ind {
		assert.Equal(t, n, ind[n])
	}
	_, err = d.ClosureIndices(42)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestCoordinatesAndClone(t *testing.T) {
	d := newBoxDM(t, [3]int{2, 2, 1}, 3, 1, true)
	coords, err := d.CoordinatesLocal()
	require.NoError(t, err)
	assert.Equal(t, 3*d.Mesh().NumVertices, coords.Len())
	cd, err := d.CoordinateDM()
	require.NoError(t, err)
	assert.True(t, cd.IsTensorClosure())
	assert.Equal(t, 1, cd.Order())

	c := d.Clone()
	assert.Equal(t, d.GlobalSize(), c.GlobalSize())
	l, ok := c.GetLabel("marker")
	require.True(t, ok)
	l.SetValue(0, 7)
	orig, _ := d.GetLabel("marker")
	_, ok = orig.GetValue(0)
	assert.False(t, ok)

	_, err = Create(d.Mesh()).CreateGlobalVector()
	assert.ErrorIs(t, err, ErrNotSetUp)
	assert.ErrorIs(t, Create(d.Mesh()).SetFE(0, 1), ErrInvalidOrder)
}
