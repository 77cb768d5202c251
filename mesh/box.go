package mesh

import "fmt"

// NewBoxMesh creates a structured hexahedral mesh of the box [lower, upper]
// with faces[d] elements along each axis. Vertices and elements are numbered
// lexicographically with x fastest.
func NewBoxMesh(faces [3]int, lower, upper [3]float64) (m *Mesh, err error) {
	for d := 0; d < 3; d++ {
		if faces[d] < 1 {
			return nil, fmt.Errorf("box mesh needs at least one element along axis %d, got %d", d, faces[d])
		}
		if upper[d] <= lower[d] {
			return nil, fmt.Errorf("box mesh upper bound %v must exceed lower bound %v along axis %d", upper[d], lower[d], d)
		}
	}
	var (
		nx, ny, nz = faces[0] + 1, faces[1] + 1, faces[2] + 1
		vertices   = make([][3]float64, nx*ny*nz)
		EtoV       = make([][]int, faces[0]*faces[1]*faces[2])
		vid        = func(i, j, k int) int { return i + nx*(j+ny*k) }
	)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				vertices[vid(i, j, k)] = [3]float64{
					lower[0] + (upper[0]-lower[0])*float64(i)/float64(faces[0]),
					lower[1] + (upper[1]-lower[1])*float64(j)/float64(faces[1]),
					lower[2] + (upper[2]-lower[2])*float64(k)/float64(faces[2]),
				}
			}
		}
	}
	var e int
	for k := 0; k < faces[2]; k++ {
		for j := 0; j < faces[1]; j++ {
			for i := 0; i < faces[0]; i++ {
				EtoV[e] = []int{
					vid(i, j, k), vid(i+1, j, k), vid(i+1, j+1, k), vid(i, j+1, k),
					vid(i, j, k+1), vid(i+1, j, k+1), vid(i+1, j+1, k+1), vid(i, j+1, k+1),
				}
				e++
			}
		}
	}
	return NewMesh(vertices, EtoV)
}
