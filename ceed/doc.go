// Package ceed is a CPU library for matrix-free evaluation of high-order
// finite element operators.
//
// An Operator composes a pointwise QFunction with, for each of its fields,
// an ElemRestriction (L-vector to per-element E-vector) and a Basis (nodes to
// quadrature points). Evaluation follows
//
//	L-vector -> restriction -> E-vector -> basis -> Q-vector -> QFunction
//
// and back through the transposes for the outputs. Element batches are
// spread across go routines; the final transpose restriction into the
// output L-vector is serial, so results do not depend on the number of
// go routines.
package ceed
