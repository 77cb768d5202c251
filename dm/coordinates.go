package dm

import "gonum.org/v1/gonum/mat"

// CoordinateDM returns the linear three component DM of the cell geometry.
// It follows the closure ordering of the receiver.
func (d *DM) CoordinateDM() (cd *DM, err error) {
	if d.coordDM == nil {
		cd = Create(d.mesh)
		if err = cd.SetFE(1, 3); err != nil {
			return
		}
		if err = cd.SetUp(); err != nil {
			return
		}
		d.coordDM = cd
	}
	d.coordDM.tensorClosure = d.tensorClosure
	return d.coordDM, nil
}

// CoordinatesLocal returns a fresh local vector of the coordinate DM
// holding the vertex coordinates
func (d *DM) CoordinatesLocal() (coords *mat.VecDense, err error) {
	var cd *DM
	if cd, err = d.CoordinateDM(); err != nil {
		return
	}
	return cd.ProjectFunction(func(x [3]float64, u []float64) {
		copy(u, x[:])
	})
}
