package mesh

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// ElementType represents different element types
type ElementType int

const (
	Hex ElementType = iota
)

func (e ElementType) String() string {
	return [...]string{"Hex"}[e]
}

// HexTensorCorners maps the tensor corner index i + 2j + 4k of the reference
// cube to the element vertex number (vertices 0-3 counter clockwise on the
// bottom face, 4-7 above them).
var HexTensorCorners = [8]int{0, 1, 3, 2, 4, 5, 7, 6}

// HexFaceAxis gives, for each local face of a hex, the reference axis that
// is fixed on the face and whether it sits at the high end of that axis.
var HexFaceAxis = [6]struct {
	Axis int
	High bool
}{
	{2, false}, // Face 0 (bottom)
	{2, true},  // Face 1 (top)
	{1, false}, // Face 2
	{0, true},  // Face 3
	{1, true},  // Face 4
	{0, false}, // Face 5
}

// Face represents a face of an element
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // Parent element
	LocalID  int   // Local face ID within element
}

// Mesh is an unstructured conforming hexahedral mesh with face connectivity
type Mesh struct {
	// Geometry
	Vertices [][3]float64 // Vertex coordinates

	// Element data
	EtoV         [][]int       // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []ElementType // Element type for each element

	// Connectivity (built during initialization)
	EToE [][]int // Element to element connectivity [nelems][nfaces_per_elem], -1 on the boundary
	EToF [][]int // Element to global face ID [nelems][nfaces_per_elem]

	// Face data
	Faces   []Face         // All unique faces in mesh
	FaceMap map[string]int // Map from sorted vertex string to face ID

	// Mesh statistics
	NumElements int
	NumVertices int
	NumFaces    int
}

// NewMesh creates a mesh from vertices and hex connectivity and builds the
// face connectivity
func NewMesh(vertices [][3]float64, EtoV [][]int) (m *Mesh, err error) {
	m = &Mesh{
		Vertices:     vertices,
		EtoV:         EtoV,
		ElementTypes: make([]ElementType, len(EtoV)),
		NumElements:  len(EtoV),
		NumVertices:  len(vertices),
	}
	for k, verts := range EtoV {
		if len(verts) != 8 {
			return nil, fmt.Errorf("element %d has %d vertices, only 8 node hexahedra are supported", k, len(verts))
		}
		for _, v := range verts {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("element %d references vertex %d, mesh has %d", k, v, len(vertices))
			}
		}
		m.ElementTypes[k] = Hex
	}
	m.BuildConnectivity()
	return
}

// BuildConnectivity builds element-to-element and face connectivity
func (m *Mesh) BuildConnectivity() {
	m.EToE = make([][]int, m.NumElements)
	m.EToF = make([][]int, m.NumElements)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		faceVertices := GetElementFaces(m.ElementTypes[elemID], m.EtoV[elemID])

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))
		for i := range m.EToE[elemID] {
			m.EToE[elemID][i] = -1
			m.EToF[elemID][i] = -1
		}

		for localFaceID, faceVerts := range faceVertices {
			sorted := make([]int, len(faceVerts))
			copy(sorted, faceVerts)
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if faceID, exists := m.FaceMap[key]; exists {
				// Face already exists - this is an interior face
				face := &m.Faces[faceID]
				m.EToE[elemID][localFaceID] = face.Element
				m.EToE[face.Element][face.LocalID] = elemID
				m.EToF[elemID][localFaceID] = faceID
			} else {
				faceID := len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
				})
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}
	m.NumFaces = len(m.Faces)
}

// GetElementFaces returns the face vertices for each element type
func GetElementFaces(elemType ElementType, vertices []int) [][]int {
	switch elemType {
	case Hex:
		return [][]int{
			{vertices[0], vertices[3], vertices[2], vertices[1]}, // Face 0 (bottom)
			{vertices[4], vertices[5], vertices[6], vertices[7]}, // Face 1 (top)
			{vertices[0], vertices[1], vertices[5], vertices[4]}, // Face 2
			{vertices[1], vertices[2], vertices[6], vertices[5]}, // Face 3
			{vertices[2], vertices[3], vertices[7], vertices[6]}, // Face 4
			{vertices[3], vertices[0], vertices[4], vertices[7]}, // Face 5
		}
	default:
		return [][]int{}
	}
}

// BoundaryFaces returns the IDs of faces attached to a single element
func (m *Mesh) BoundaryFaces() (faces []int) {
	for faceID, face := range m.Faces {
		if m.EToE[face.Element][face.LocalID] < 0 {
			faces = append(faces, faceID)
		}
	}
	return
}

// Permute returns a copy of the mesh with element k of the result equal to
// element perm[k] of the receiver. Vertex numbering is unchanged.
func (m *Mesh) Permute(perm []int) (pm *Mesh, err error) {
	if len(perm) != m.NumElements {
		return nil, fmt.Errorf("permutation has %d entries, mesh has %d elements", len(perm), m.NumElements)
	}
	var (
		seen = make([]bool, m.NumElements)
		EtoV = make([][]int, m.NumElements)
	)
	for k, p := range perm {
		if p < 0 || p >= m.NumElements || seen[p] {
			return nil, fmt.Errorf("invalid permutation entry %d at %d", p, k)
		}
		seen[p] = true
		EtoV[k] = append([]int(nil), m.EtoV[p]...)
	}
	verts := make([][3]float64, len(m.Vertices))
	copy(verts, m.Vertices)
	return NewMesh(verts, EtoV)
}

// LogStatistics logs mesh statistics at debug level
func (m *Mesh) LogStatistics(log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{
		"vertices":       m.NumVertices,
		"elements":       m.NumElements,
		"faces":          m.NumFaces,
		"boundary_faces": len(m.BoundaryFaces()),
	}).Debug("mesh statistics")
}
