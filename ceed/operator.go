package ceed

import (
	"fmt"
	"sync"

	"github.com/notargets/meles/utils"
)

type vectorRole uint8

const (
	roleActive vectorRole = iota
	roleNone
	rolePassive
)

// VectorOpt binds an operator field to its data
type VectorOpt struct {
	role vectorRole
	v    *Vector
}

var (
	// VectorActive is supplied at Apply time
	VectorActive = VectorOpt{role: roleActive}
	// VectorNone has no backing data, used for quadrature weights
	VectorNone = VectorOpt{role: roleNone}
)

// VectorPassive binds a field to v for the lifetime of the operator
func VectorPassive(v *Vector) VectorOpt { return VectorOpt{role: rolePassive, v: v} }

type opField struct {
	QFunctionField
	restr *ElemRestriction
	basis *Basis
	vec   VectorOpt
}

// Operator composes restrictions, bases and a QFunction into the action
// out = sum_e R_e^T B^T D(B R_e in)
type Operator struct {
	ceed            *Ceed
	qf              *QFunction
	inputs, outputs []*opField
	numElem, numQ   int
	checkOnce       sync.Once
	checkErr        error
	diagOnce        sync.Once
	diag            *diagonalData
	diagErr         error
}

func (c *Ceed) NewOperator(qf *QFunction) *Operator {
	return &Operator{
		ceed:    c,
		qf:      qf,
		inputs:  make([]*opField, len(qf.inputs)),
		outputs: make([]*opField, len(qf.outputs)),
	}
}

// AddField binds the QFunction field called name. Weight fields take a nil
// restriction and VectorNone; quadrature data takes BasisCollocated.
func (op *Operator) AddField(name string, r *ElemRestriction, b *Basis, v VectorOpt) error {
	set := func(fields []*opField, decl []QFunctionField) bool {
		for i, f := range decl {
			if f.Name != name {
				continue
			}
			if fields[i] != nil {
				return true
			}
			fields[i] = &opField{QFunctionField: f, restr: r, basis: b, vec: v}
			return true
		}
		return false
	}
	for _, fl := range [][]*opField{op.inputs, op.outputs} {
		for _, f := range fl {
			if f != nil && f.Name == name {
				return fmt.Errorf("%w: %q", ErrDuplicateField, name)
			}
		}
	}
	if !set(op.inputs, op.qf.inputs) && !set(op.outputs, op.qf.outputs) {
		return fmt.Errorf("%w: %q in %s", ErrUnknownField, name, op.qf.name)
	}
	return nil
}

func (op *Operator) NumElements() int { return op.numElem }

// NumQuadraturePoints is the per element point count, valid after Check
func (op *Operator) NumQuadraturePoints() int { return op.numQ }

// Check validates the composition once; later calls return the same result
func (op *Operator) Check() error {
	op.checkOnce.Do(func() { op.checkErr = op.check() })
	return op.checkErr
}

func (op *Operator) check() (err error) {
	var (
		numElem, numQ = -1, -1
		isOutput      bool
	)
	agree := func(name string, have *int, val int, what string) error {
		if *have == -1 {
			*have = val
			return nil
		}
		if *have != val {
			return fmt.Errorf("%w: field %q has %d %s, expected %d",
				ErrFieldSizeMismatch, name, val, what, *have)
		}
		return nil
	}
	for _, fields := range [][]*opField{op.inputs, op.outputs} {
		for i, f := range fields {
			if f == nil {
				decl := op.qf.inputs
				if isOutput {
					decl = op.qf.outputs
				}
				return fmt.Errorf("%w: %q", ErrMissingField, decl[i].Name)
			}
			if err = f.compatible(isOutput); err != nil {
				return
			}
			if f.restr != nil {
				if err = agree(f.Name, &numElem, f.restr.numElem, "elements"); err != nil {
					return
				}
			}
			q := f.restr.elemSizeOrZero()
			if !f.basis.collocated {
				q = f.basis.NumQuadraturePoints()
			}
			if err = agree(f.Name, &numQ, q, "quadrature points"); err != nil {
				return
			}
		}
		isOutput = true
	}
	if numElem == -1 {
		return fmt.Errorf("%w: no field has a restriction", ErrFieldSizeMismatch)
	}
	op.numElem, op.numQ = numElem, numQ
	return
}

// elemSizeOrZero is the element size, zero for a nil restriction
func (r *ElemRestriction) elemSizeOrZero() int {
	if r == nil {
		return 0
	}
	return r.elemSize
}

func (f *opField) compatible(isOutput bool) error {
	bad := func(format string, a ...interface{}) error {
		return fmt.Errorf("%w: field %q (%s) %s", ErrIncompatibleField, f.Name, f.EvalMode,
			fmt.Sprintf(format, a...))
	}
	if f.basis == nil {
		return bad("has no basis")
	}
	if (f.EvalMode == EvalWeight) != (f.vec.role == roleNone) {
		return bad("must pair weights with VectorNone")
	}
	if f.vec.role == rolePassive && f.vec.v == nil {
		return bad("passive vector is nil")
	}
	switch f.EvalMode {
	case EvalWeight:
		if isOutput || f.restr != nil || f.basis.collocated {
			return bad("needs a tensor basis and no restriction")
		}
		return nil
	case EvalNone:
		if !f.basis.collocated {
			return bad("needs BasisCollocated")
		}
		if f.restr == nil || f.restr.numComp != f.Size {
			return bad("needs a restriction with %d components", f.Size)
		}
		return nil
	}
	if f.basis.collocated || f.restr == nil {
		return bad("needs a tensor basis and a restriction")
	}
	size := f.basis.numComp
	if f.EvalMode == EvalGrad {
		size *= f.basis.dim
	}
	switch {
	case size != f.Size:
		return bad("basis provides %d values per point, kernel expects %d", size, f.Size)
	case f.restr.numComp != f.basis.numComp:
		return bad("restriction has %d components, basis %d", f.restr.numComp, f.basis.numComp)
	case f.restr.elemSize != f.basis.NumNodes():
		return bad("restriction element size %d, basis has %d nodes", f.restr.elemSize, f.basis.NumNodes())
	}
	return nil
}

// lvector resolves the L-vector a field reads or writes
func (f *opField) lvector(active *Vector) (v *Vector, err error) {
	switch f.vec.role {
	case roleNone:
		return nil, nil
	case rolePassive:
		v = f.vec.v
	default:
		if active == nil {
			return nil, fmt.Errorf("%w: field %q", ErrNoActiveVector, f.Name)
		}
		v = active
	}
	if v.Len() != f.restr.lSize {
		return nil, fmt.Errorf("%w: field %q has L-vector size %d, vector has %d",
			ErrVectorLength, f.Name, f.restr.lSize, v.Len())
	}
	return
}

// opWork is the scratch of one go routine
type opWork struct {
	inE, inQ, outQ [][]float64
	basis          []*basisWork
}

func (op *Operator) newWork() (w *opWork) {
	w = &opWork{
		inE:   make([][]float64, len(op.inputs)),
		inQ:   make([][]float64, len(op.inputs)),
		outQ:  make([][]float64, len(op.outputs)),
		basis: make([]*basisWork, len(op.inputs)+len(op.outputs)),
	}
	for i, f := range op.inputs {
		switch f.EvalMode {
		case EvalWeight:
			w.inQ[i] = append([]float64(nil), f.basis.weights...)
		case EvalNone:
			w.inQ[i] = make([]float64, f.Size*op.numQ)
		default:
			w.inE[i] = make([]float64, f.restr.blockSize())
			w.inQ[i] = make([]float64, f.Size*op.numQ)
			w.basis[i] = f.basis.newWork()
		}
	}
	for i, f := range op.outputs {
		w.outQ[i] = make([]float64, f.Size*op.numQ)
		if f.EvalMode != EvalNone {
			w.basis[len(op.inputs)+i] = f.basis.newWork()
		}
	}
	return
}

// prepareInputs fills the quadrature point data of every input except the
// skipped one
func (op *Operator) prepareInputs(e int, src []*Vector, w *opWork, skip int) {
	for i, f := range op.inputs {
		if i == skip {
			continue
		}
		switch f.EvalMode {
		case EvalWeight:
		case EvalNone:
			f.restr.restrictElement(e, src[i].Array(), w.inQ[i])
		default:
			f.restr.restrictElement(e, src[i].Array(), w.inE[i])
			f.basis.applyElement(NoTranspose, f.EvalMode, w.inE[i], w.inQ[i], w.basis[i])
		}
	}
}

// parallelElements runs fn over contiguous element ranges on the context's
// go routines and returns the first error
func (op *Operator) parallelElements(fn func(kMin, kMax int) error) error {
	var (
		np   = utils.ParallelDegree(op.ceed.ParallelDegree, op.numElem)
		pm   = utils.NewPartitionMap(np, op.numElem)
		errs = make([]error, np)
		wg   = sync.WaitGroup{}
	)
	for n := 0; n < np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(n)
			errs[n] = fn(kMin, kMax)
		}(n)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Apply evaluates the operator with in bound to the active inputs and out
// to the active outputs. Output L-vectors are overwritten.
func (op *Operator) Apply(in, out *Vector) (err error) {
	if err = op.Check(); err != nil {
		return
	}
	var (
		src  = make([]*Vector, len(op.inputs))
		dst  = make([]*Vector, len(op.outputs))
		eOut = make([][]float64, len(op.outputs))
	)
	for i, f := range op.inputs {
		if src[i], err = f.lvector(in); err != nil {
			return
		}
	}
	for i, f := range op.outputs {
		if dst[i], err = f.lvector(out); err != nil {
			return
		}
		eOut[i] = make([]float64, f.restr.EVectorSize())
	}
	err = op.parallelElements(func(kMin, kMax int) error {
		w := op.newWork()
		for e := kMin; e < kMax; e++ {
			op.prepareInputs(e, src, w, -1)
			for i, f := range op.outputs {
				if f.EvalMode == EvalNone {
					bs := f.restr.blockSize()
					w.outQ[i] = eOut[i][e*bs : (e+1)*bs]
				}
			}
			if err := op.qf.kernel(op.numQ, w.inQ, w.outQ); err != nil {
				return fmt.Errorf("%s on element %d: %w", op.qf.name, e, err)
			}
			for i, f := range op.outputs {
				if f.EvalMode == EvalNone {
					continue
				}
				bs := f.restr.blockSize()
				f.basis.applyElement(Transpose, f.EvalMode, w.outQ[i], eOut[i][e*bs:(e+1)*bs],
					w.basis[len(op.inputs)+i])
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	for i, f := range op.outputs {
		l := dst[i].Array()
		for j := range l {
			l[j] = 0
		}
		bs := f.restr.blockSize()
		for e := 0; e < op.numElem; e++ {
			f.restr.accumulateElement(e, eOut[i][e*bs:(e+1)*bs], l)
		}
	}
	return
}

type diagonalData struct {
	in, out       int         // active field indices
	bIn, bOut     [][]float64 // scalar element matrices per direction
	ncomp, nnodes int
}

func (op *Operator) diagonalSetup() (d *diagonalData, err error) {
	d = &diagonalData{in: -1, out: -1}
	for i, f := range op.inputs {
		if f.vec.role != roleActive {
			continue
		}
		if d.in != -1 || f.EvalMode == EvalNone {
			return nil, fmt.Errorf("%w: needs a single active input with a tensor basis", ErrDiagonalUnsupported)
		}
		d.in = i
	}
	for i, f := range op.outputs {
		if f.vec.role != roleActive {
			continue
		}
		if d.out != -1 || f.EvalMode == EvalNone {
			return nil, fmt.Errorf("%w: needs a single active output with a tensor basis", ErrDiagonalUnsupported)
		}
		d.out = i
	}
	if d.in == -1 || d.out == -1 {
		return nil, fmt.Errorf("%w: no active input or output", ErrDiagonalUnsupported)
	}
	fi, fo := op.inputs[d.in], op.outputs[d.out]
	if fi.basis.numComp != fo.basis.numComp || fi.basis.NumNodes() != fo.basis.NumNodes() {
		return nil, fmt.Errorf("%w: active input and output bases differ", ErrDiagonalUnsupported)
	}
	d.ncomp, d.nnodes = fo.basis.numComp, fo.basis.NumNodes()
	d.bIn = fi.basis.scalarMatrices(fi.EvalMode)
	d.bOut = fo.basis.scalarMatrices(fo.EvalMode)
	return
}

// LinearAssembleDiagonal writes the operator diagonal into out without
// assembling the matrix. The pointwise kernel is probed with unit inputs to
// get the coupling D_q between eval components, and for node j
//
//	diag_j = sum_q sum_ab Bout[b,q,j] D_q[b][a] Bin[a,q,j]
//
// is summed over elements with the transpose restriction. out is overwritten.
func (op *Operator) LinearAssembleDiagonal(out *Vector) (err error) {
	if err = op.Check(); err != nil {
		return
	}
	op.diagOnce.Do(func() { op.diag, op.diagErr = op.diagonalSetup() })
	if err = op.diagErr; err != nil {
		return
	}
	var (
		d    = op.diag
		fOut = op.outputs[d.out]
		src  = make([]*Vector, len(op.inputs))
		Q    = op.numQ
		bs   = fOut.restr.blockSize()
		eOut = make([]float64, fOut.restr.EVectorSize())
		dst  *Vector
	)
	if dst, err = fOut.lvector(out); err != nil {
		return
	}
	for i, f := range op.inputs {
		if i == d.in {
			continue
		}
		if src[i], err = f.lvector(nil); err != nil {
			return
		}
	}
	var (
		sizeIn  = op.inputs[d.in].Size
		sizeOut = fOut.Size
		nDirIn  = len(d.bIn)
		nDirOut = len(d.bOut)
	)
	err = op.parallelElements(func(kMin, kMax int) error {
		var (
			w     = op.newWork()
			probe = w.inQ[d.in]
			D     = make([][]float64, sizeIn) // D[a][b*Q+q]
		)
		for a := range D {
			D[a] = make([]float64, sizeOut*Q)
		}
		for e := kMin; e < kMax; e++ {
			op.prepareInputs(e, src, w, d.in)
			for a := 0; a < sizeIn; a++ {
				for i := range probe {
					probe[i] = 0
				}
				for q := 0; q < Q; q++ {
					probe[a*Q+q] = 1
				}
				if err := op.qf.kernel(Q, w.inQ, w.outQ); err != nil {
					return fmt.Errorf("%s on element %d: %w", op.qf.name, e, err)
				}
				copy(D[a], w.outQ[d.out])
			}
			block := eOut[e*bs : (e+1)*bs]
			for c := 0; c < d.ncomp; c++ {
				for n := 0; n < d.nnodes; n++ {
					var sum float64
					for q := 0; q < Q; q++ {
						for di := 0; di < nDirIn; di++ {
							bi := d.bIn[di][q*d.nnodes+n]
							if bi == 0 {
								continue
							}
							a := di*d.ncomp + c
							for do := 0; do < nDirOut; do++ {
								b := do*d.ncomp + c
								sum += d.bOut[do][q*d.nnodes+n] * D[a][b*Q+q] * bi
							}
						}
					}
					block[c*d.nnodes+n] = sum
				}
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	l := dst.Array()
	for j := range l {
		l[j] = 0
	}
	for e := 0; e < op.numElem; e++ {
		fOut.restr.accumulateElement(e, eOut[e*bs:(e+1)*bs], l)
	}
	return
}
