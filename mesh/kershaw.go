package mesh

import "fmt"

// KershawTransformation warps the vertices of a mesh of the unit cube into
// the Kershaw layered mesh. eps must be in (0, 1]; eps = 1 leaves a uniform
// mesh untouched.
func (m *Mesh) KershawTransformation(eps float64) error {
	if eps <= 0 || eps > 1 {
		return fmt.Errorf("kershaw parameter must be in (0, 1], got %v", eps)
	}
	// step transitions from a at x=0 to b at x=1
	step := func(a, b, x float64) float64 {
		switch {
		case x <= 0:
			return a
		case x >= 1:
			return b
		default:
			return a + (b-a)*x
		}
	}
	right := func(x float64) float64 {
		if x <= 0.5 {
			return (2 - eps) * x
		}
		return 1 + eps*(x-1)
	}
	left := func(x float64) float64 {
		return 1 - right(1-x)
	}

	for i, v := range m.Vertices {
		var (
			x, y, z = v[0], v[1], v[2]
			layer   = int(6 * x)
			lambda  = (x - float64(layer)/6) * 6
		)
		switch layer {
		case 0:
			y, z = left(y), left(z)
		case 1, 4:
			y, z = step(left(y), right(y), lambda), step(left(z), right(z), lambda)
		case 2:
			y, z = step(right(y), left(y), lambda/2), step(right(z), left(z), lambda/2)
		case 3:
			y, z = step(right(y), left(y), (1+lambda)/2), step(right(z), left(z), (1+lambda)/2)
		default:
			y, z = right(y), right(z)
		}
		m.Vertices[i] = [3]float64{x, y, z}
	}
	return nil
}
