package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/meles/InputParameters"
	"github.com/notargets/meles/model_problems/BPs"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInputBP(t *testing.T) {
	ip, err := processInputBP(&ModelBP{})
	require.NoError(t, err)
	assert.Equal(t, InputParameters.NewInputParametersBP(), ip)

	file := filepath.Join(t.TempDir(), "bp.yaml")
	require.NoError(t, os.WriteFile(file, []byte(exampleFileBP), 0644))
	ip, err = processInputBP(&ModelBP{InputFile: file})
	require.NoError(t, err)
	assert.Equal(t, "bp3", ip.Problem)
	assert.Equal(t, 0.3, ip.Kershaw)
	assert.Equal(t, 1000, ip.MaxIters)

	_, err = processInputBP(&ModelBP{InputFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("Order: [1, 2"), 0644))
	_, err = processInputBP(&ModelBP{InputFile: bad})
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	ip := InputParameters.NewInputParametersBP()
	v := viper.New()
	applyOverrides(v, ip)
	assert.Equal(t, InputParameters.NewInputParametersBP(), ip)

	v.Set("problem", "bp6")
	v.Set("order", 5)
	v.Set("qextra", 0)
	v.Set("ceed", "/cpu/self/ref/serial")
	applyOverrides(v, ip)
	assert.Equal(t, "bp6", ip.Problem)
	assert.Equal(t, 5, ip.Order)
	assert.Equal(t, 0, ip.QExtra)
	assert.Equal(t, "/cpu/self/ref/serial", ip.Ceed)
}

func TestStartProfile(t *testing.T) {
	stop, err := startProfile("")
	require.NoError(t, err)
	stop()
	_, err = startProfile("gpu")
	assert.Error(t, err)
}

func TestRunBPs(t *testing.T) {
	cases := []struct {
		problem string
		kershaw float64
	}{
		{"bp1", 0},
		{"bp3", 0},
		{"bp4", 0},
		{"bp5", 0.5},
	}
	for _, tc := range cases {
		ip := InputParameters.NewInputParametersBP()
		ip.Problem = tc.problem
		ip.Order = 2
		ip.Faces = [3]int{2, 2, 2}
		ip.Kershaw = tc.kershaw
		ip.RelTol = 1e-12
		rep, err := RunBPs(ip, false)
		require.NoError(t, err, tc.problem)
		assert.Equal(t, tc.problem, rep.Problem.String())
		assert.Equal(t, 8, rep.Elements)
		assert.Greater(t, rep.Iterations, 0)
		assert.Less(t, rep.Residual, 1e-12)
		assert.Less(t, rep.MaxError, 1e-8, tc.problem)
		assert.Less(t, rep.RelError, 1e-8, tc.problem)
		assert.Zero(t, rep.Instructions)
	}

	ip := InputParameters.NewInputParametersBP()
	ip.Problem = "bp8"
	_, err := RunBPs(ip, false)
	assert.ErrorIs(t, err, BPs.ErrUnknownProblem)
}
