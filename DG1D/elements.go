package DG1D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGL returns the N+1 Gauss-Lobatto points of the Jacobi polynomial
// family (alpha, beta) on [-1,1]. For alpha = beta = 0 the Legendre-Gauss-
// Lobatto quadrature weights are returned in W, otherwise W is nil.
func JacobiGL(alpha, beta float64, N int) (X, W []float64) {
	if N < 1 {
		panic(fmt.Sprintf("JacobiGL needs at least two points, got N = %d", N))
	}
	X = make([]float64, N+1)
	X[0], X[N] = -1, 1
	if N > 1 {
		xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
		copy(X[1:N], xint)
	}
	if alpha != 0 || beta != 0 {
		return
	}
	// w_i = 2 / (N (N+1) P_N(x_i)^2)
	W = make([]float64, N+1)
	fN := float64(N)
	for i, x := range X {
		pn := legendreP(N, x)
		W[i] = 2. / (fN * (fN + 1) * pn * pn)
	}
	return
}

// JacobiGQ returns the N+1 Gauss quadrature points and weights of the Jacobi
// weight (1-x)^alpha (1+x)^beta, from the eigen decomposition of the Jacobi
// matrix (Golub-Welsch).
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	var (
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{gamma0(alpha, beta)}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -(alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	VVr = mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	W = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i, v := range VVr.RawRowView(0) {
		W[i] = v * v * g0
	}
	return
}

// Vandermonde1D evaluates the orthonormal Legendre modes 0..N at R, one
// mode per column.
func Vandermonde1D(N int, R []float64) (V *mat.Dense) {
	V = mat.NewDense(len(R), N+1, nil)
	for j := 0; j < N+1; j++ {
		V.SetCol(j, JacobiP(R, 0, 0, j))
	}
	return
}

// GradVandermonde1D evaluates the derivatives of the orthonormal Legendre
// modes 0..N at R.
func GradVandermonde1D(N int, R []float64) (Vr *mat.Dense) {
	Vr = mat.NewDense(len(R), N+1, nil)
	for j := 0; j < N+1; j++ {
		Vr.SetCol(j, GradJacobiP(R, 0, 0, j))
	}
	return
}

// JacobiP evaluates the normalized Jacobi polynomial of degree N at r.
func JacobiP(r []float64, alpha, beta float64, N int) (p []float64) {
	var (
		Nc = len(r)
	)
	rg := 1. / math.Sqrt(gamma0(alpha, beta))
	p = make([]float64, Nc)
	if N == 0 {
		for i := range p {
			p[i] = rg
		}
		return
	}
	ab := alpha + beta
	rg1 := 1. / math.Sqrt(gamma1(alpha, beta))
	pm1 := make([]float64, Nc)
	for i := 0; i < Nc; i++ {
		pm1[i] = rg
		p[i] = rg1 * ((ab+2.0)*r[i]/2.0 + (alpha-beta)/2.0)
	}
	if N == 1 {
		return
	}

	a1 := alpha + 1.
	b1 := beta + 1.
	ab1 := ab + 1.
	aold := 2.0 * math.Sqrt(a1*b1/(ab+3.0)) / (ab + 2.0)
	for i := 0; i < N-1; i++ {
		ip1 := float64(i + 1)
		ip2 := ip1 + 1
		h1 := 2.0*ip1 + ab
		anew := 2.0 / (h1 + 2.0) * math.Sqrt(ip2*(ip1+ab1)*(ip1+a1)*(ip1+b1)/(h1+1.0)/(h1+3.0))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2.0)
		for j := 0; j < Nc; j++ {
			next := (-aold*pm1[j] + (r[j]-bnew)*p[j]) / anew
			pm1[j], p[j] = p[j], next
		}
		aold = anew
	}
	return
}

// GradJacobiP evaluates the derivative of the normalized Jacobi polynomial
// of degree N at r.
func GradJacobiP(r []float64, alpha, beta float64, N int) (p []float64) {
	if N == 0 {
		p = make([]float64, len(r))
		return
	}
	p = JacobiP(r, alpha+1, beta+1, N-1)
	fN := float64(N)
	fac := math.Sqrt(fN * (fN + alpha + beta + 1))
	for i, val := range p {
		p[i] = val * fac
	}
	return
}

// LagrangeOperators1D returns the Q x P interpolation and derivative
// matrices that map values at the P nodes to values and derivatives at the
// Q points. Both are built in modal space: Interp = V(q) V(nodes)^-1 and
// Grad = Vr(q) V(nodes)^-1.
func LagrangeOperators1D(nodes, points []float64) (Interp, Grad *mat.Dense, err error) {
	var (
		N    = len(nodes) - 1
		Vinv mat.Dense
	)
	if err = Vinv.Inverse(Vandermonde1D(N, nodes)); err != nil {
		return nil, nil, fmt.Errorf("nodal Vandermonde matrix is singular: %w", err)
	}
	Interp, Grad = &mat.Dense{}, &mat.Dense{}
	Interp.Mul(Vandermonde1D(N, points), &Vinv)
	Grad.Mul(GradVandermonde1D(N, points), &Vinv)
	return
}
