package DG1D

import "math"

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func gamma1(alpha, beta float64) float64 {
	ab := alpha + beta
	a1 := alpha + 1.
	b1 := beta + 1.
	return a1 * b1 * gamma0(alpha, beta) / (ab + 3.0)
}

// legendreP evaluates the classical (unnormalized) Legendre polynomial of
// degree N at x with the three term recurrence.
func legendreP(N int, x float64) float64 {
	if N == 0 {
		return 1
	}
	p0, p1 := 1., x
	for n := 1; n < N; n++ {
		fn := float64(n)
		p0, p1 = p1, ((2*fn+1)*x*p1-fn*p0)/(fn+1)
	}
	return p1
}
