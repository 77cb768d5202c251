package ceed

import "fmt"

// StridesBackend asks a strided restriction for the layout the backend
// prefers, which is [elem][comp][node].
var StridesBackend = [3]int{-1, -1, -1}

// Involute decodes an offset; constrained nodes are stored as -(i+1)
func Involute(i int) int {
	if i >= 0 {
		return i
	}
	return -(i + 1)
}

// ElemRestriction maps an L-vector of length lSize to element blocks laid
// out [elem][comp][node]
type ElemRestriction struct {
	numElem, elemSize, numComp int
	compStride, lSize          int
	offsets                    []int  // numElem*elemSize, nil when strided
	strides                    [3]int // node, comp, elem
}

// ElemRestriction builds an offset restriction. Node n of element e holds
// component c at L-vector index Involute(offsets[e*elemSize+n]) + c*compStride.
// A negative offset marks a constrained node, which transpose skips.
func (c *Ceed) ElemRestriction(numElem, elemSize, numComp, compStride, lSize int, offsets []int) (r *ElemRestriction, err error) {
	if numElem < 0 || elemSize < 1 || numComp < 1 || lSize < 0 {
		return nil, fmt.Errorf("%w: %d elements of size %d with %d components",
			ErrInvalidRestriction, numElem, elemSize, numComp)
	}
	if numComp > 1 && compStride < 1 {
		return nil, fmt.Errorf("%w: component stride %d", ErrInvalidRestriction, compStride)
	}
	if len(offsets) != numElem*elemSize {
		return nil, fmt.Errorf("%w: %d offsets for %d elements of size %d",
			ErrInvalidRestriction, len(offsets), numElem, elemSize)
	}
	for i, o := range offsets {
		if ind := Involute(o) + (numComp-1)*compStride; ind >= lSize {
			return nil, fmt.Errorf("%w: offset %d reaches index %d, L-vector size %d",
				ErrInvalidRestriction, i, ind, lSize)
		}
	}
	r = &ElemRestriction{
		numElem:    numElem,
		elemSize:   elemSize,
		numComp:    numComp,
		compStride: compStride,
		lSize:      lSize,
		offsets:    append([]int(nil), offsets...),
	}
	return
}

// StridedElemRestriction builds a restriction whose L-vector index for
// (node, comp, elem) is node*strides[0] + comp*strides[1] + elem*strides[2]
func (c *Ceed) StridedElemRestriction(numElem, elemSize, numComp, lSize int, strides [3]int) (r *ElemRestriction, err error) {
	if numElem < 0 || elemSize < 1 || numComp < 1 {
		return nil, fmt.Errorf("%w: %d elements of size %d with %d components",
			ErrInvalidRestriction, numElem, elemSize, numComp)
	}
	if strides == StridesBackend {
		strides = [3]int{1, elemSize, elemSize * numComp}
	}
	if numElem > 0 {
		last := (elemSize-1)*strides[0] + (numComp-1)*strides[1] + (numElem-1)*strides[2]
		if strides[0] < 0 || strides[1] < 0 || strides[2] < 0 || last >= lSize {
			return nil, fmt.Errorf("%w: strides %v do not fit L-vector size %d",
				ErrInvalidRestriction, strides, lSize)
		}
	}
	r = &ElemRestriction{
		numElem:  numElem,
		elemSize: elemSize,
		numComp:  numComp,
		lSize:    lSize,
		strides:  strides,
	}
	return
}

func (r *ElemRestriction) NumElements() int   { return r.numElem }
func (r *ElemRestriction) ElementSize() int   { return r.elemSize }
func (r *ElemRestriction) NumComponents() int { return r.numComp }
func (r *ElemRestriction) CompStride() int    { return r.compStride }
func (r *ElemRestriction) LVectorSize() int   { return r.lSize }
func (r *ElemRestriction) EVectorSize() int   { return r.numElem * r.elemSize * r.numComp }
func (r *ElemRestriction) IsStrided() bool    { return r.offsets == nil }
func (r *ElemRestriction) Strides() [3]int    { return r.strides }
func (r *ElemRestriction) Offsets() []int     { return append([]int(nil), r.offsets...) }
func (r *ElemRestriction) blockSize() int     { return r.elemSize * r.numComp }

// CreateLVector and CreateEVector allocate zeroed vectors sized for r
func (r *ElemRestriction) CreateLVector(c *Ceed) (*Vector, error) { return c.Vector(r.lSize) }
func (r *ElemRestriction) CreateEVector(c *Ceed) (*Vector, error) { return c.Vector(r.EVectorSize()) }

// index is the L-vector index of node n, component c of element e, with
// constrained offsets returned negative
func (r *ElemRestriction) index(e, n, c int) int {
	if r.offsets == nil {
		return n*r.strides[0] + c*r.strides[1] + e*r.strides[2]
	}
	o := r.offsets[e*r.elemSize+n]
	if o < 0 {
		return o - c*r.compStride
	}
	return o + c*r.compStride
}

// restrictElement gathers element e of l into the block b
func (r *ElemRestriction) restrictElement(e int, l, b []float64) {
	for c := 0; c < r.numComp; c++ {
		for n := 0; n < r.elemSize; n++ {
			b[c*r.elemSize+n] = l[Involute(r.index(e, n, c))]
		}
	}
}

// accumulateElement adds the block b of element e into l, skipping
// constrained nodes
func (r *ElemRestriction) accumulateElement(e int, b, l []float64) {
	for c := 0; c < r.numComp; c++ {
		for n := 0; n < r.elemSize; n++ {
			if ind := r.index(e, n, c); ind >= 0 {
				l[ind] += b[c*r.elemSize+n]
			}
		}
	}
}

// Apply restricts u (L-vector) into v (E-vector), or in transpose sums the
// element blocks of u into v without clearing it first
func (r *ElemRestriction) Apply(tmode TransposeMode, u, v *Vector) error {
	lv, ev := u, v
	if tmode == Transpose {
		lv, ev = v, u
	}
	if lv == nil || lv.Len() != r.lSize {
		return fmt.Errorf("%w: L-vector of restriction", ErrVectorLength)
	}
	if ev == nil || ev.Len() != r.EVectorSize() {
		return fmt.Errorf("%w: E-vector of restriction", ErrVectorLength)
	}
	bs := r.blockSize()
	for e := 0; e < r.numElem; e++ {
		block := ev.Array()[e*bs : (e+1)*bs]
		if tmode == Transpose {
			r.accumulateElement(e, block, lv.Array())
		} else {
			r.restrictElement(e, lv.Array(), block)
		}
	}
	return nil
}
