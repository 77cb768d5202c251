package BPs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/meles/ceed"
)

// ProblemID is one of the CEED benchmark problems
type ProblemID uint8

const (
	BP1 ProblemID = iota + 1
	BP2
	BP3
	BP4
	BP5
	BP6
)

func (p ProblemID) String() string {
	return "bp" + strconv.Itoa(int(p))
}

// ParseProblemID accepts "bp1" through "bp6", case insensitive. The number
// is a single digit with no sign or padding.
func ParseProblemID(s string) (p ProblemID, err error) {
	ls := strings.ToLower(strings.TrimSpace(s))
	if len(ls) != 3 || !strings.HasPrefix(ls, "bp") || ls[2] < '1' || ls[2] > '6' {
		return 0, &ConfigError{Stage: StageConfigure, Err: fmt.Errorf("%w: %q", ErrUnknownProblem, s)}
	}
	return ProblemID(ls[2] - '0'), nil
}

// ProblemIDs lists the catalog in order
func ProblemIDs() []ProblemID {
	return []ProblemID{BP1, BP2, BP3, BP4, BP5, BP6}
}

// ProblemSpec is the shape of one benchmark problem
type ProblemSpec struct {
	NumComponents         int
	QDataSize             int
	SetupName             string
	ApplyName             string
	InputName             string
	OutputName            string
	QuadMode              ceed.QuadMode
	SetBoundaryConditions bool
}

var (
	massScalar = ProblemSpec{
		NumComponents: 1, QDataSize: 1,
		SetupName: "Mass3DBuild", ApplyName: "MassApply",
		InputName: "u", OutputName: "v",
		QuadMode: ceed.Gauss,
	}
	poissonScalar = ProblemSpec{
		NumComponents: 1, QDataSize: 6,
		SetupName: "Poisson3DBuild", ApplyName: "Poisson3DApply",
		InputName: "du", OutputName: "dv",
		QuadMode: ceed.Gauss, SetBoundaryConditions: true,
	}
)

var catalog = map[ProblemID]ProblemSpec{
	BP1: massScalar,
	BP2: vector3(massScalar, "Vector3MassApply"),
	BP3: poissonScalar,
	BP4: vector3(poissonScalar, "Vector3Poisson3DApply"),
	BP5: lobatto(poissonScalar),
	BP6: lobatto(vector3(poissonScalar, "Vector3Poisson3DApply")),
}

func vector3(ps ProblemSpec, apply string) ProblemSpec {
	ps.NumComponents, ps.ApplyName = 3, apply
	return ps
}

func lobatto(ps ProblemSpec) ProblemSpec {
	ps.QuadMode = ceed.GaussLobatto
	return ps
}

// Lookup returns the shape of a problem
func Lookup(id ProblemID) (ps ProblemSpec, err error) {
	var ok bool
	if ps, ok = catalog[id]; !ok {
		return ps, &ConfigError{Stage: StageConfigure, Err: fmt.Errorf("%w: %d", ErrUnknownProblem, id)}
	}
	return
}
