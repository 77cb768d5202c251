package DG1D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJacobiGQ_PartitionAndFirstMoment(t *testing.T) {
	const (
		α   = 0.3
		β   = 0.7
		N   = 5
		tol = 1e-12
	)
	x, w := JacobiGQ(α, β, N)

	// ∫_{-1}^1 (1-x)^α (1+x)^β dx = 2^{α+β+1} B(α+1, β+1)
	exactZero := math.Pow(2, α+β+1) * beta(α+1, β+1)
	exactOne := (β - α) / (α + β + 2) * exactZero

	var sum0, sum1 float64
	for i := range x {
		sum0 += w[i]
		sum1 += x[i] * w[i]
	}
	assert.InDeltaf(t, exactZero, sum0, tol, "sum(w) = %v, want %v", sum0, exactZero)
	assert.InDeltaf(t, exactOne, sum1, tol, "sum(x*w) = %v, want %v", sum1, exactOne)
}

func TestJacobiGQ_RootsAndMoments(t *testing.T) {
	const (
		α   = 0.3
		β   = 0.7
		N   = 5
		tol = 1e-10
	)
	X, W := JacobiGQ(α, β, N)
	require.Equal(t, N+1, len(X))
	require.Equal(t, N+1, len(W))

	// The nodes are the roots of P_{N+1}
	for i, xi := range X {
		pi := JacobiP([]float64{xi}, α, β, N+1)[0]
		assert.InDeltaf(t, 0, pi, 1e-10, "JacobiP_%d(%g) = %g (node %d)", N+1, xi, pi, i)
	}
	// Exact up to degree 2N+1
	for k := 0; k <= 2*N+1; k++ {
		var s float64
		for i, xi := range X {
			s += W[i] * math.Pow(xi, float64(k))
		}
		assert.InDeltaf(t, exactMoment(k, α, β), s, tol, "moment %d", k)
	}
	for i := range X {
		assert.True(t, X[i] > -1 && X[i] < 1)
		assert.True(t, W[i] > 0)
	}
}

func TestJacobiGL_LegendreWeights(t *testing.T) {
	for N := 1; N < 9; N++ {
		X, W := JacobiGL(0, 0, N)
		require.Len(t, X, N+1)
		require.Len(t, W, N+1)
		assert.Equal(t, -1., X[0])
		assert.Equal(t, 1., X[N])
		// Lobatto rules with N+1 points integrate degree 2N-1 exactly
		for k := 0; k <= 2*N-1; k++ {
			var s float64
			for i := range X {
				s += W[i] * math.Pow(X[i], float64(k))
			}
			assert.InDeltaf(t, exactMoment(k, 0, 0), s, 1e-12, "N = %d, moment %d", N, k)
		}
		for i := 0; i < len(X)/2; i++ {
			j := len(X) - 1 - i
			assert.InDelta(t, -X[i], X[j], 1e-13)
			assert.InDelta(t, W[i], W[j], 1e-13)
		}
	}
	_, W := JacobiGL(1, 1, 4)
	assert.Nil(t, W)
}

func TestExactMomentLegendre(t *testing.T) {
	for k := 0; k <= 20; k++ {
		want := 0.
		if k%2 == 0 {
			want = 2 / float64(k+1)
		}
		assert.InDelta(t, want, exactMoment(k, 0, 0), 1e-15, "moment %d", k)
	}
}

func TestJacobiGQ_Asymmetric(t *testing.T) {
	const (
		α = 0.3
		β = 0.7
	)
	// The mean of the weight is (β-α)/(α+β+2) for any number of points
	for N := 0; N < 8; N++ {
		x, w := JacobiGQ(α, β, N)
		var s0, s1 float64
		for i := range x {
			s0 += w[i]
			s1 += w[i] * x[i]
		}
		assert.InDelta(t, exactMoment(0, α, β), s0, 1e-12, "N = %d", N)
		assert.InDelta(t, (β-α)/(α+β+2), s1/s0, 1e-12, "N = %d", N)
	}
	// Nodes are the roots of P_{N+1}, here P_6
	x, _ := JacobiGQ(α, β, 5)
	assert.InDelta(t, 0, JacobiP([]float64{x[len(x)-1]}, α, β, 6)[0], 1e-10)
}

func TestJacobiPOrthogonality_WithJacobiGQ(t *testing.T) {
	const (
		α    = 0.3
		β    = 0.7
		Nmax = 6
		tol  = 1e-10
	)
	nodes, weights := JacobiGQ(α, β, Nmax+3)
	Pvals := make([][]float64, Nmax+1)
	for n := 0; n <= Nmax; n++ {
		Pvals[n] = JacobiP(nodes, α, β, n)
	}
	for m := 0; m <= Nmax; m++ {
		for n := 0; n <= Nmax; n++ {
			var sum float64
			for i := range nodes {
				sum += weights[i] * Pvals[m][i] * Pvals[n][i]
			}
			if m == n {
				assert.InDeltaf(t, 1., sum, tol, "norm of P_%d", m)
			} else {
				assert.InDeltaf(t, 0., sum, tol, "<P_%d, P_%d>", m, n)
			}
		}
	}
}

func TestLagrangeOperators1D(t *testing.T) {
	var (
		P                 = 4
		nodes, _          = JacobiGL(0, 0, P-1)
		points, _         = JacobiGQ(0, 0, P+1)
		f                 = func(x float64) float64 { return 2*x*x*x - x + 0.5 }
		df                = func(x float64) float64 { return 6*x*x - 1 }
		fNodes            = make([]float64, P)
		Interp, Grad, err = LagrangeOperators1D(nodes, points)
	)
	require.NoError(t, err)
	r, c := Interp.Dims()
	assert.Equal(t, len(points), r)
	assert.Equal(t, P, c)
	for i, x := range nodes {
		fNodes[i] = f(x)
	}
	for q, x := range points {
		var fi, dfi, rowSum float64
		for j := 0; j < P; j++ {
			fi += Interp.At(q, j) * fNodes[j]
			dfi += Grad.At(q, j) * fNodes[j]
			rowSum += Interp.At(q, j)
		}
		assert.InDelta(t, f(x), fi, 1e-12)
		assert.InDelta(t, df(x), dfi, 1e-11)
		assert.InDelta(t, 1., rowSum, 1e-13)
	}
}

// exactMoment computes ∫_{-1}^1 x^k (1-x)^α (1+x)^β dx. Integrating the
// derivative of x^k (1-x)^{α+1} (1+x)^{β+1} over [-1,1] gives
//
//	M_{k+1} = (k M_{k-1} + (β-α) M_k) / (k+α+β+2)
//
// which stays accurate where a binomial expansion cancels.
func exactMoment(k int, α, β float64) float64 {
	if k < 0 {
		return 0
	}
	prev, cur := 0., math.Pow(2, α+β+1)*beta(α+1, β+1)
	for j := 0; j < k; j++ {
		fj := float64(j)
		prev, cur = cur, (fj*prev+(β-α)*cur)/(fj+α+β+2)
	}
	return cur
}

func beta(a, b float64) float64 {
	return math.Gamma(a) * math.Gamma(b) / math.Gamma(a+b)
}
