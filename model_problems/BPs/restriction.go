package BPs

import (
	"github.com/notargets/meles/ceed"
	"github.com/notargets/meles/dm"
)

// CreateRestrictionFromPlex builds the element restriction of the points at
// height (0 cells, 1 faces) of d, optionally only those carrying value in
// label. Node order is the tensor closure order the bases use; constrained
// nodes keep their negative encoding.
func CreateRestrictionFromPlex(c *ceed.Ceed, d *dm.DM, height int, label *dm.Label, value int) (r *ceed.ElemRestriction, err error) {
	var lo dm.LocalOffsets
	if lo, err = d.PlexLocalOffsets(label, value, height); err != nil {
		return nil, &TopologyError{Stage: StageRestriction, Err: err}
	}
	if r, err = c.ElemRestriction(lo.NumCells, lo.CellSize, lo.NumComponents, 1, lo.LSize, lo.Offsets); err != nil {
		return nil, &TopologyError{Stage: StageRestriction, Err: err}
	}
	return
}

// CreateQDataRestriction lays quadrature data out [elem][component][qpt]
func CreateQDataRestriction(c *ceed.Ceed, numElem, numQ, qdataSize int) (r *ceed.ElemRestriction, err error) {
	if r, err = c.StridedElemRestriction(numElem, numQ, qdataSize, numElem*numQ*qdataSize,
		ceed.StridesBackend); err != nil {
		return nil, &TopologyError{Stage: StageRestriction, Err: err}
	}
	return
}
