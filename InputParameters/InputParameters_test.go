package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
########################################
Title: "BP3 on a warped mesh"
Problem: bp3
Order: 4
QExtra: 2
Ceed: /cpu/self/go/4
Faces: [4, 2, 2]
Upper: [1, 0.5, 0.5]
Kershaw: 0.3
MaxIterations: 50
########################################
`)
	ip := NewInputParametersBP()
	require.NoError(t, ip.Parse(data))
	assert.Equal(t, "BP3 on a warped mesh", ip.Title)
	assert.Equal(t, "bp3", ip.Problem)
	assert.Equal(t, 4, ip.Order)
	assert.Equal(t, 2, ip.QExtra)
	assert.Equal(t, "/cpu/self/go/4", ip.Ceed)
	assert.Equal(t, [3]int{4, 2, 2}, ip.Faces)
	assert.Equal(t, [3]float64{0, 0, 0}, ip.Lower)
	assert.Equal(t, [3]float64{1, 0.5, 0.5}, ip.Upper)
	assert.Equal(t, 0.3, ip.Kershaw)
	assert.Equal(t, 50, ip.MaxIters)
	// Untouched keys keep their defaults
	assert.Equal(t, 1.e-10, ip.RelTol)

	assert.Error(t, ip.Parse([]byte("Order: [1, 2")))
}
