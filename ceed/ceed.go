package ceed

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Ceed is a library context bound to a backend resource
type Ceed struct {
	resource       string
	ParallelDegree int // Number of go routines used for element batches
}

// Init creates a context for one of the resources
//
//	/cpu/self              - all CPUs
//	/cpu/self/ref/serial   - one go routine
//	/cpu/self/go[/N]       - N go routines, all CPUs when N is omitted
func Init(resource string) (c *Ceed, err error) {
	c = &Ceed{resource: resource}
	switch {
	case resource == "/cpu/self":
		c.ParallelDegree = runtime.NumCPU()
	case resource == "/cpu/self/ref/serial":
		c.ParallelDegree = 1
	case resource == "/cpu/self/go":
		c.ParallelDegree = runtime.NumCPU()
	case strings.HasPrefix(resource, "/cpu/self/go/"):
		var np int
		if np, err = strconv.Atoi(strings.TrimPrefix(resource, "/cpu/self/go/")); err != nil || np < 1 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
		}
		c.ParallelDegree = np
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return
}

func (c *Ceed) Resource() string { return c.resource }

// TransposeMode selects the direction of a restriction or basis action
type TransposeMode uint8

const (
	NoTranspose TransposeMode = iota
	Transpose
)

// EvalMode is what a basis produces at quadrature points
type EvalMode uint8

const (
	EvalNone EvalMode = iota
	EvalInterp
	EvalGrad
	EvalWeight
)

func (e EvalMode) String() string {
	return [...]string{"none", "interp", "grad", "weight"}[e]
}
