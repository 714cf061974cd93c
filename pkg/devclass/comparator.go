package devclass

import "github.com/openlvs/lvscore/pkg/netlist"

// Comparator implements EqualDeviceParameters (spec.md §4.7): two devices
// of the same class have equal parameters when every compared parameter
// matches within an absolute-or-relative tolerance. By default only
// primary parameters (IsPrimary) are compared; Ignore adds further
// exclusions by parameter ID (e.g. a layout-only field that shouldn't gate
// a match).
type Comparator struct {
	AbsTol      float64
	RelTol      float64
	PrimaryOnly bool
	Ignore      map[int]bool
}

// NewComparator builds a Comparator with the given tolerances.
func NewComparator(absTol, relTol float64, primaryOnly bool) *Comparator {
	return &Comparator{AbsTol: absTol, RelTol: relTol, PrimaryOnly: primaryOnly, Ignore: map[int]bool{}}
}

// WithIgnore returns a copy of c that additionally ignores the named
// parameter (by class parameter ID) during comparison.
func (c *Comparator) WithIgnore(paramID int) *Comparator {
	ignore := make(map[int]bool, len(c.Ignore)+1)
	for k := range c.Ignore {
		ignore[k] = true
	}
	ignore[paramID] = true
	return &Comparator{AbsTol: c.AbsTol, RelTol: c.RelTol, PrimaryOnly: c.PrimaryOnly, Ignore: ignore}
}

// Equal implements netlist.ParameterComparator.
func (c *Comparator) Equal(a, b *netlist.Device) bool {
	if a.Class() != b.Class() {
		return false
	}
	for _, pd := range a.Class().Parameters() {
		if c.PrimaryOnly && !pd.IsPrimary {
			continue
		}
		if c.Ignore[pd.ID] {
			continue
		}
		va := a.ParameterValue(pd.ID)
		vb := b.ParameterValue(pd.ID)
		if !withinTolerance(va, vb, c.AbsTol, c.RelTol) {
			return false
		}
	}
	return true
}

func withinTolerance(a, b, absTol, relTol float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff <= absTol {
		return true
	}
	ref := a
	if ref < 0 {
		ref = -ref
	}
	if rb := b; rb < 0 {
		if -rb > ref {
			ref = -rb
		}
	} else if rb > ref {
		ref = rb
	}
	return diff <= relTol*ref
}
