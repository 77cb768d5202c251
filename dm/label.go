package dm

import "sort"

// Label assigns integer values to mesh points. Cells are points [0, K),
// faces are [K, K+NumFaces).
type Label struct {
	name   string
	values map[int]int
}

func NewLabel(name string) *Label {
	return &Label{name: name, values: make(map[int]int)}
}

func (l *Label) Name() string { return l.name }

func (l *Label) SetValue(point, value int) { l.values[point] = value }

func (l *Label) GetValue(point int) (value int, ok bool) {
	value, ok = l.values[point]
	return
}

// StratumPoints returns the sorted points carrying value
func (l *Label) StratumPoints(value int) (points []int) {
	for p, v := range l.values {
		if v == value {
			points = append(points, p)
		}
	}
	sort.Ints(points)
	return
}

func (l *Label) StratumSize(value int) int { return len(l.StratumPoints(value)) }

func (l *Label) clone() *Label {
	c := NewLabel(l.name)
	for p, v := range l.values {
		c.values[p] = v
	}
	return c
}
