package categorize

import (
	"fmt"
	"strconv"

	"github.com/openlvs/lvscore/pkg/netlist"
)

// CircuitPinCategorizer maintains, per circuit, an equivalence-class
// structure over pin IDs: merging two pins makes them swappable for
// matching purposes (spec.md §4.5). Only pins of a circuit explicitly
// marked as belonging to the reference netlist may be declared
// swappable; the merge is mirrored by pin name onto whichever layout
// circuit circuits has bound to it, so both sides of a comparison see
// the same swap classes.
type CircuitPinCategorizer struct {
	circuits  *CircuitCategorizer
	reference map[*netlist.Circuit]bool
	uf        map[*netlist.Circuit]*unionFind
	ids       map[*netlist.Circuit]*ids
}

// NewCircuitPinCategorizer builds a pin categorizer that mirrors merges
// through circuits' Bind pairings.
func NewCircuitPinCategorizer(circuits *CircuitCategorizer) *CircuitPinCategorizer {
	return &CircuitPinCategorizer{
		circuits:  circuits,
		reference: map[*netlist.Circuit]bool{},
		uf:        map[*netlist.Circuit]*unionFind{},
		ids:       map[*netlist.Circuit]*ids{},
	}
}

// MarkReference designates circuit as belonging to the reference
// netlist, the only side allowed to declare swappable pins.
func (p *CircuitPinCategorizer) MarkReference(circuit *netlist.Circuit) {
	p.reference[circuit] = true
}

func (p *CircuitPinCategorizer) ufFor(circuit *netlist.Circuit) *unionFind {
	if u, ok := p.uf[circuit]; ok {
		return u
	}
	u := newUnionFind()
	p.uf[circuit] = u
	return u
}

func (p *CircuitPinCategorizer) idsFor(circuit *netlist.Circuit) *ids {
	if t, ok := p.ids[circuit]; ok {
		return t
	}
	t := newIDs()
	p.ids[circuit] = t
	return t
}

func pinKey(id int) string { return strconv.Itoa(id) }

// MergePins declares pins a and b of circuit swappable. circuit must
// have been marked reference via MarkReference; if circuits has a bound
// layout circuit for it, the same-named pins there are merged too.
func (p *CircuitPinCategorizer) MergePins(circuit *netlist.Circuit, a, b int) error {
	if !p.reference[circuit] {
		return fmt.Errorf("categorize: only reference-netlist circuits may declare swappable pins (circuit %q)", circuit.Name())
	}
	p.ufFor(circuit).union(pinKey(a), pinKey(b))

	layout, ok := p.circuits.BoundCircuit(circuit)
	if !ok {
		return nil
	}
	pa, pb := circuit.Pin(a), circuit.Pin(b)
	if pa == nil || pb == nil {
		return nil
	}
	la, lb := layout.PinByName(pa.Name()), layout.PinByName(pb.Name())
	if la != nil && lb != nil {
		p.ufFor(layout).union(pinKey(la.ID()), pinKey(lb.ID()))
	}
	return nil
}

// Category returns the small integer swap-class for pin pinID of circuit.
func (p *CircuitPinCategorizer) Category(circuit *netlist.Circuit, pinID int) int {
	return p.idsFor(circuit).intern(p.ufFor(circuit).find(pinKey(pinID)))
}

// SamePin reports whether pins a and b of circuit are currently
// swappable.
func (p *CircuitPinCategorizer) SamePin(circuit *netlist.Circuit, a, b int) bool {
	return p.ufFor(circuit).sameSet(pinKey(a), pinKey(b))
}
