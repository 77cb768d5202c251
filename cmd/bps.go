/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/notargets/meles/InputParameters"
	"github.com/notargets/meles/model_problems/BPs"
	"github.com/notargets/meles/solver"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"
)

type ModelBP struct {
	InputFile string
	Profile   string // cpu, mem or empty
	Perf      bool
}

// BPsCmd represents the bps command
var BPsCmd = &cobra.Command{
	Use:   "bps",
	Short: "CEED benchmark problems BP1 through BP6",
	Long: `
Builds the matrix free operator of one benchmark problem on a box mesh and
solves A x = A x_exact with Jacobi preconditioned CG, reporting the error
against the manufactured solution.

meles bps -I input.yaml -p bp3 -o 4`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mbp := &ModelBP{}
		mbp.InputFile, _ = cmd.Flags().GetString("inputParametersFile")
		mbp.Profile, _ = cmd.Flags().GetString("profile")
		mbp.Perf, _ = cmd.Flags().GetBool("perf")
		var ip *InputParameters.InputParametersBP
		if ip, err = processInputBP(mbp); err != nil {
			return
		}
		applyOverrides(viper.GetViper(), ip)
		ip.Print()
		var stop func()
		if stop, err = startProfile(mbp.Profile); err != nil {
			return
		}
		defer stop()
		var rep *Report
		if rep, err = RunBPs(ip, mbp.Perf); err != nil {
			return
		}
		rep.Print()
		return
	},
}

func init() {
	rootCmd.AddCommand(BPsCmd)
	BPsCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- Problem\n\t- Order\n\t- Faces")
	BPsCmd.Flags().StringP("problem", "p", "", "benchmark problem, bp1 through bp6")
	BPsCmd.Flags().IntP("order", "o", 0, "polynomial order of the field")
	BPsCmd.Flags().IntP("qextra", "q", 0, "quadrature points beyond order+1 per direction")
	BPsCmd.Flags().StringP("ceed", "c", "", "ceed resource, /cpu/self, /cpu/self/ref/serial or /cpu/self/go[/N]")
	BPsCmd.Flags().String("profile", "", "write a pprof profile of the run: cpu or mem")
	BPsCmd.Flags().Bool("perf", false, "count CPU instructions of one operator apply (linux)")
	for _, key := range []string{"problem", "order", "qextra", "ceed"} {
		if err := viper.BindPFlag(key, BPsCmd.Flags().Lookup(key)); err != nil {
			panic(err)
		}
	}
}

const exampleFileBP = `
########################################
Title: "BP3 on a warped mesh"
Problem: bp3 # bp1 through bp6
Order: 3
QExtra: 1
Ceed: /cpu/self
Faces: [3, 3, 3]
Lower: [0, 0, 0]
Upper: [1, 1, 1]
Kershaw: 0.3 # Omit for a uniform box
RelTol: 1.e-10
MaxIterations: 1000
########################################
`

// processInputBP reads the input file over the defaults. Without a file the
// defaults are used.
func processInputBP(mbp *ModelBP) (ip *InputParameters.InputParametersBP, err error) {
	ip = InputParameters.NewInputParametersBP()
	if len(mbp.InputFile) == 0 {
		fmt.Printf("no input parameters file (-I, --inputParametersFile), using defaults\n")
		fmt.Printf("Example File:%s\n", exampleFileBP)
		return
	}
	var data []byte
	if data, err = os.ReadFile(mbp.InputFile); err != nil {
		return nil, err
	}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", mbp.InputFile, err)
	}
	return
}

// applyOverrides replaces input file values with those set by flags, the
// environment or the config file
func applyOverrides(v *viper.Viper, ip *InputParameters.InputParametersBP) {
	if v.IsSet("problem") {
		ip.Problem = v.GetString("problem")
	}
	if v.IsSet("order") {
		ip.Order = v.GetInt("order")
	}
	if v.IsSet("qextra") {
		ip.QExtra = v.GetInt("qextra")
	}
	if v.IsSet("ceed") {
		ip.Ceed = v.GetString("ceed")
	}
}

// startProfile returns the function that ends the profile
func startProfile(mode string) (stop func(), err error) {
	var p interface{ Stop() }
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return nil, fmt.Errorf("unknown profile %q, use cpu or mem", mode)
	}
	return p.Stop, nil
}

// Report summarizes one benchmark solve
type Report struct {
	Problem      BPs.ProblemID
	Order        int
	QExtra       int
	Elements     int
	DoFs         int
	Iterations   int
	MatVecs      int
	Residual     float64 // Relative, at exit
	MaxError     float64
	RelError     float64 // Euclidean norm of the error over that of the exact solution
	SetupTime    time.Duration
	SolveTime    time.Duration
	Instructions uint64 // One operator apply, zero unless counted
}

// RunBPs sets up the problem, solves it and measures the error. The right
// hand side is the operator applied to the exact solution, so the solve
// recovers it to solver tolerance.
func RunBPs(ip *InputParameters.InputParametersBP, countPerf bool) (rep *Report, err error) {
	var (
		start = time.Now()
		m     *BPs.Meles
		s     *BPs.MatShell
	)
	if m, err = BPs.New(ip, BPs.BenchmarkProblem); err != nil {
		return
	}
	if s, err = m.MatShell(); err != nil {
		return
	}
	defer s.Destroy()
	if err = s.Attach(); err != nil {
		return
	}
	var (
		n     = s.Size()
		exact *mat.VecDense
		rhs   = mat.NewVecDense(n, nil)
	)
	if exact, err = s.Context().ExactSolution(); err != nil {
		return
	}
	if err = s.Mult(exact, rhs); err != nil {
		return
	}
	rep = &Report{
		Problem:   m.ID,
		Order:     m.Order,
		QExtra:    m.QExtra,
		Elements:  m.DM.NumCells(),
		DoFs:      n,
		SetupTime: time.Since(start),
	}
	var res solver.Result
	res, err = solver.CG(s, rhs, solver.Settings{
		Tolerance:  ip.RelTol,
		Iterations: ip.MaxIters,
		Jacobi:     true,
	})
	if err != nil {
		return nil, err
	}
	rep.Iterations, rep.MatVecs, rep.Residual = res.Stats.Iterations, res.Stats.MatVec, res.Stats.Residual
	rep.SolveTime = res.Stats.Runtime

	var diff mat.VecDense
	diff.SubVec(res.X, exact)
	rep.MaxError = mat.Norm(&diff, math.Inf(1))
	if en := mat.Norm(exact, 2); en != 0 {
		rep.RelError = mat.Norm(&diff, 2) / en
	}

	if countPerf {
		if rep.Instructions, err = countInstructions(func() error {
			return s.Mult(exact, rhs)
		}); err != nil {
			return nil, err
		}
	}
	m.Log.WithFields(logrus.Fields{
		"problem":    rep.Problem,
		"dofs":       rep.DoFs,
		"iterations": rep.Iterations,
		"maxError":   rep.MaxError,
	}).Info("solve done")
	return
}

func (r *Report) Print() {
	fmt.Printf("[%s]\t\t\t= Problem\n", r.Problem)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", r.Order)
	fmt.Printf("[%d]\t\t\t\t= Extra Quadrature Points\n", r.QExtra)
	fmt.Printf("[%d]\t\t\t= Elements\n", r.Elements)
	fmt.Printf("[%d]\t\t\t= Global DoFs\n", r.DoFs)
	fmt.Printf("[%d]\t\t\t= CG Iterations\n", r.Iterations)
	fmt.Printf("%8.2e\t\t= Relative Residual\n", r.Residual)
	fmt.Printf("%8.2e\t\t= Max Error\n", r.MaxError)
	fmt.Printf("%8.2e\t\t= Relative Error\n", r.RelError)
	fmt.Printf("%v\t\t= Setup Time\n", r.SetupTime)
	fmt.Printf("%v\t\t= Solve Time\n", r.SolveTime)
	if r.SolveTime > 0 && r.Iterations > 0 {
		fmt.Printf("%8.2e\t\t= DoFs x Iterations / s\n",
			float64(r.DoFs)*float64(r.Iterations)/r.SolveTime.Seconds())
	}
	if r.Instructions != 0 {
		fmt.Printf("[%d]\t\t= Instructions per Apply\n", r.Instructions)
	}
}
