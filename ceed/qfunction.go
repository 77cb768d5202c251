package ceed

import "fmt"

// QFunctionField is one input or output of a pointwise kernel. Size counts
// the values per quadrature point (components times dimension for gradients).
type QFunctionField struct {
	Name     string
	Size     int
	EvalMode EvalMode
}

// Kernel evaluates Q quadrature points. in[i] and out[i] hold field i laid
// out [component][qpt], each of length Size*Q.
type Kernel func(Q int, in, out [][]float64) error

// QFunction is a pointwise kernel with its declared fields
type QFunction struct {
	name    string
	kernel  Kernel
	inputs  []QFunctionField
	outputs []QFunctionField
}

// NewQFunction declares a user kernel; fields are added with AddInput and
// AddOutput in the order the kernel expects them
func (c *Ceed) NewQFunction(name string, kernel Kernel) *QFunction {
	return &QFunction{name: name, kernel: kernel}
}

func (qf *QFunction) AddInput(name string, size int, emode EvalMode) *QFunction {
	qf.inputs = append(qf.inputs, QFunctionField{Name: name, Size: size, EvalMode: emode})
	return qf
}

func (qf *QFunction) AddOutput(name string, size int, emode EvalMode) *QFunction {
	qf.outputs = append(qf.outputs, QFunctionField{Name: name, Size: size, EvalMode: emode})
	return qf
}

func (qf *QFunction) Name() string              { return qf.name }
func (qf *QFunction) Inputs() []QFunctionField  { return qf.inputs }
func (qf *QFunction) Outputs() []QFunctionField { return qf.outputs }

// QFunctionByName looks a kernel up in the gallery
func (c *Ceed) QFunctionByName(name string) (qf *QFunction, err error) {
	build, ok := gallery[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQFunction, name)
	}
	return build(c), nil
}

// GalleryNames lists the registered kernels
func GalleryNames() (names []string) {
	for name := range gallery {
		names = append(names, name)
	}
	return
}
