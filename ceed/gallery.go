package ceed

var gallery = map[string]func(c *Ceed) *QFunction{
	"Mass3DBuild": func(c *Ceed) *QFunction {
		return c.NewQFunction("Mass3DBuild", mass3DBuild).
			AddInput("dx", 9, EvalGrad).
			AddInput("weights", 1, EvalWeight).
			AddOutput("qdata", 1, EvalNone)
	},
	"MassApply": func(c *Ceed) *QFunction {
		return c.NewQFunction("MassApply", massApply(1)).
			AddInput("u", 1, EvalInterp).
			AddInput("qdata", 1, EvalNone).
			AddOutput("v", 1, EvalInterp)
	},
	"Vector3MassApply": func(c *Ceed) *QFunction {
		return c.NewQFunction("Vector3MassApply", massApply(3)).
			AddInput("u", 3, EvalInterp).
			AddInput("qdata", 1, EvalNone).
			AddOutput("v", 3, EvalInterp)
	},
	"Poisson3DBuild": func(c *Ceed) *QFunction {
		return c.NewQFunction("Poisson3DBuild", poisson3DBuild).
			AddInput("dx", 9, EvalGrad).
			AddInput("weights", 1, EvalWeight).
			AddOutput("qdata", 6, EvalNone)
	},
	"Poisson3DApply": func(c *Ceed) *QFunction {
		return c.NewQFunction("Poisson3DApply", poisson3DApply(1)).
			AddInput("du", 3, EvalGrad).
			AddInput("qdata", 6, EvalNone).
			AddOutput("dv", 3, EvalGrad)
	},
	"Vector3Poisson3DApply": func(c *Ceed) *QFunction {
		return c.NewQFunction("Vector3Poisson3DApply", poisson3DApply(3)).
			AddInput("du", 9, EvalGrad).
			AddInput("qdata", 6, EvalNone).
			AddOutput("dv", 9, EvalGrad)
	},
}

// jacobian returns J[i][j] = dx_i/dxi_j at point q from a coordinate
// gradient laid out [j][i][qpt]
func jacobian(dx []float64, Q, q int) (J [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			J[i][j] = dx[(j*3+i)*Q+q]
		}
	}
	return
}

func det3(J [3][3]float64) float64 {
	return J[0][0]*(J[1][1]*J[2][2]-J[1][2]*J[2][1]) -
		J[0][1]*(J[1][0]*J[2][2]-J[1][2]*J[2][0]) +
		J[0][2]*(J[1][0]*J[2][1]-J[1][1]*J[2][0])
}

// adjugate is the transposed cofactor matrix, adj(J) = det(J) J^-1
func adjugate(J [3][3]float64) (A [3][3]float64) {
	A[0][0] = J[1][1]*J[2][2] - J[1][2]*J[2][1]
	A[0][1] = J[0][2]*J[2][1] - J[0][1]*J[2][2]
	A[0][2] = J[0][1]*J[1][2] - J[0][2]*J[1][1]
	A[1][0] = J[1][2]*J[2][0] - J[1][0]*J[2][2]
	A[1][1] = J[0][0]*J[2][2] - J[0][2]*J[2][0]
	A[1][2] = J[0][2]*J[1][0] - J[0][0]*J[1][2]
	A[2][0] = J[1][0]*J[2][1] - J[1][1]*J[2][0]
	A[2][1] = J[0][1]*J[2][0] - J[0][0]*J[2][1]
	A[2][2] = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	return
}

func mass3DBuild(Q int, in, out [][]float64) error {
	dx, w, qd := in[0], in[1], out[0]
	for q := 0; q < Q; q++ {
		qd[q] = det3(jacobian(dx, Q, q)) * w[q]
	}
	return nil
}

func massApply(ncomp int) Kernel {
	return func(Q int, in, out [][]float64) error {
		u, qd, v := in[0], in[1], out[0]
		for c := 0; c < ncomp; c++ {
			for q := 0; q < Q; q++ {
				v[c*Q+q] = qd[q] * u[c*Q+q]
			}
		}
		return nil
	}
}

// voigt maps the symmetric pair (i,j) to its slot in 00,11,22,12,02,01 order
var voigt = [3][3]int{
	{0, 5, 4},
	{5, 1, 3},
	{4, 3, 2},
}

// poisson3DBuild stores w adj(J) adj(J)^T / det(J)
func poisson3DBuild(Q int, in, out [][]float64) error {
	dx, w, qd := in[0], in[1], out[0]
	for q := 0; q < Q; q++ {
		J := jacobian(dx, Q, q)
		A := adjugate(J)
		scale := w[q] / det3(J)
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				var s float64
				for k := 0; k < 3; k++ {
					s += A[i][k] * A[j][k]
				}
				qd[voigt[i][j]*Q+q] = scale * s
			}
		}
	}
	return nil
}

func poisson3DApply(ncomp int) Kernel {
	return func(Q int, in, out [][]float64) error {
		du, qd, dv := in[0], in[1], out[0]
		for q := 0; q < Q; q++ {
			for c := 0; c < ncomp; c++ {
				for i := 0; i < 3; i++ {
					var s float64
					for j := 0; j < 3; j++ {
						s += qd[voigt[i][j]*Q+q] * du[(j*ncomp+c)*Q+q]
					}
					dv[(i*ncomp+c)*Q+q] = s
				}
			}
		}
		return nil
	}
}
