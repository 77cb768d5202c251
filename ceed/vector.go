package ceed

import "fmt"

// Vector is a ceed-side array. It either owns its storage or, between
// WrapSlice and Release, aliases a caller slice.
type Vector struct {
	length int
	owned  []float64
	array  []float64
	// set while a caller slice is wrapped
	borrowed bool
}

func (c *Ceed) Vector(n int) (v *Vector, err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrVectorLength, n)
	}
	v = &Vector{length: n, owned: make([]float64, n)}
	v.array = v.owned
	return
}

// VectorFromSlice creates an owning vector initialised with a copy of data
func (c *Ceed) VectorFromSlice(data []float64) *Vector {
	v := &Vector{length: len(data), owned: append([]float64(nil), data...)}
	v.array = v.owned
	return v
}

func (v *Vector) Len() int { return v.length }

// Array is the current storage, the wrapped slice while one is wrapped
func (v *Vector) Array() []float64 { return v.array }

func (v *Vector) SetValue(val float64) {
	for i := range v.array {
		v.array[i] = val
	}
}

// SliceWrap is the scope of a WrapSlice; Release hands storage back to the
// vector.
type SliceWrap struct {
	v *Vector
}

// WrapSlice makes the vector alias s until the returned wrap is released.
// len(s) must equal the vector length.
func (v *Vector) WrapSlice(s []float64) (w *SliceWrap, err error) {
	if v.borrowed {
		return nil, ErrVectorBorrowed
	}
	if len(s) != v.length {
		return nil, fmt.Errorf("%w: wrapping %d values into a vector of length %d", ErrVectorLength, len(s), v.length)
	}
	v.array, v.borrowed = s, true
	return &SliceWrap{v: v}, nil
}

// Release restores the vector's own storage; releasing twice is a no-op
func (w *SliceWrap) Release() {
	if w == nil || w.v == nil {
		return
	}
	w.v.array, w.v.borrowed = w.v.owned, false
	w.v = nil
}
