package mesh

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoxMesh(t *testing.T) {
	m, err := NewBoxMesh([3]int{3, 2, 1}, [3]float64{0, 0, 0}, [3]float64{3, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumElements)
	assert.Equal(t, 4*3*2, m.NumVertices)
	// Unique faces: x-normal 4*2*1 + y-normal 3*3*1 + z-normal 3*2*2
	assert.Equal(t, 8+9+12, m.NumFaces)
	// Boundary faces: 2*(2*1 + 3*1 + 3*2)
	assert.Len(t, m.BoundaryFaces(), 22)
	assert.Equal(t, [3]float64{3, 2, 1}, m.Vertices[m.NumVertices-1])

	// Element 0 touches element 1 through its x=1 face and element 3 through y=1
	assert.Equal(t, 1, m.EToE[0][3])
	assert.Equal(t, 3, m.EToE[0][4])
	assert.Equal(t, -1, m.EToE[0][5])
	assert.Equal(t, m.EToF[0][3], m.EToF[1][5])
	for k := 0; k < m.NumElements; k++ {
		for f, nbr := range m.EToE[k] {
			if nbr < 0 {
				continue
			}
			assert.Contains(t, m.EToE[nbr], k, "element %d face %d", k, f)
		}
	}

	_, err = NewBoxMesh([3]int{0, 1, 1}, [3]float64{}, [3]float64{1, 1, 1})
	assert.Error(t, err)
	_, err = NewBoxMesh([3]int{1, 1, 1}, [3]float64{1, 0, 0}, [3]float64{1, 1, 1})
	assert.Error(t, err)
}

func TestHexFaceAxisMatchesFaces(t *testing.T) {
	// Reference cube corner coordinates by vertex number
	var corner [8][3]int
	for c, v := range HexTensorCorners {
		corner[v] = [3]int{c & 1, (c >> 1) & 1, (c >> 2) & 1}
	}
	verts := []int{0, 1, 2, 3, 4, 5, 6, 7}
	for f, fv := range GetElementFaces(Hex, verts) {
		ax := HexFaceAxis[f]
		want := 0
		if ax.High {
			want = 1
		}
		for _, v := range fv {
			assert.Equal(t, want, corner[v][ax.Axis], "face %d vertex %d", f, v)
		}
	}
}

func TestPermute(t *testing.T) {
	m, err := NewBoxMesh([3]int{2, 2, 2}, [3]float64{}, [3]float64{1, 1, 1})
	require.NoError(t, err)
	perm := []int{7, 6, 5, 4, 3, 2, 1, 0}
	pm, err := m.Permute(perm)
	require.NoError(t, err)
	assert.Equal(t, m.EtoV[7], pm.EtoV[0])
	assert.Equal(t, m.NumFaces, pm.NumFaces)
	assert.Len(t, pm.BoundaryFaces(), len(m.BoundaryFaces()))

	_, err = m.Permute([]int{0, 0, 1, 2, 3, 4, 5, 6})
	assert.Error(t, err)
	_, err = m.Permute([]int{0})
	assert.Error(t, err)
}

func TestKershawTransformation(t *testing.T) {
	m, err := NewBoxMesh([3]int{6, 2, 2}, [3]float64{}, [3]float64{1, 1, 1})
	require.NoError(t, err)
	orig := append([][3]float64(nil), m.Vertices...)
	require.NoError(t, m.KershawTransformation(1))
	for i := range orig {
		assert.InDeltaSlice(t, orig[i][:], m.Vertices[i][:], 1e-14)
	}
	require.NoError(t, m.KershawTransformation(0.3))
	for i, v := range m.Vertices {
		// x is untouched and the boundary of the cube is preserved
		assert.Equal(t, orig[i][0], v[0])
		for d := 1; d < 3; d++ {
			if orig[i][d] == 0 || orig[i][d] == 1 {
				assert.InDelta(t, orig[i][d], v[d], 1e-14)
			}
			assert.True(t, v[d] >= 0 && v[d] <= 1)
		}
	}
	assert.Error(t, m.KershawTransformation(0))
	assert.Error(t, m.KershawTransformation(1.5))
}

func TestLogStatistics(t *testing.T) {
	m, err := NewBoxMesh([3]int{2, 2, 2}, [3]float64{}, [3]float64{1, 1, 1})
	require.NoError(t, err)
	log, hook := test.NewNullLogger()
	m.LogStatistics(log)
	assert.Empty(t, hook.Entries)

	log.SetLevel(logrus.DebugLevel)
	m.LogStatistics(log)
	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, e.Level)
	assert.Equal(t, 8, e.Data["elements"])
	assert.Equal(t, 27, e.Data["vertices"])
	assert.Equal(t, 24, e.Data["boundary_faces"])
	assert.Equal(t, "Hex", Hex.String())
}
