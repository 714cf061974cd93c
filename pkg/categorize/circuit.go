package categorize

import (
	"fmt"

	"github.com/openlvs/lvscore/pkg/netlist"
)

// CircuitCategorizer categorizes Circuits the same way
// DeviceClassCategorizer categorizes DeviceClasses (by normalized name
// unless merged), plus an explicit Bind operation pairing one circuit of
// the reference netlist with one circuit of the layout netlist for a
// single comparison pass: a circuit may be bound to at most one other
// circuit, and binding a circuit a second time to a different partner is
// an error (spec.md §4.5).
type CircuitCategorizer struct {
	normalize func(string) string
	uf        *unionFind
	ids       *ids
	boundTo   map[*netlist.Circuit]*netlist.Circuit
}

func NewCircuitCategorizer(normalize func(string) string) *CircuitCategorizer {
	return &CircuitCategorizer{
		normalize: normalize,
		uf:        newUnionFind(),
		ids:       newIDs(),
		boundTo:   map[*netlist.Circuit]*netlist.Circuit{},
	}
}

func (c *CircuitCategorizer) key(circuit *netlist.Circuit) string {
	return c.normalize(circuit.Name())
}

// Category returns circuit's current small integer category.
func (c *CircuitCategorizer) Category(circuit *netlist.Circuit) int {
	return c.ids.intern(c.uf.find(c.key(circuit)))
}

// Same reports whether a and b currently share a category.
func (c *CircuitCategorizer) Same(a, b *netlist.Circuit) bool {
	return c.uf.sameSet(c.key(a), c.key(b))
}

// Bind pairs a with b as the matched circuit for one comparison,
// merging their categories even when their names differ. Binding a
// circuit already bound to a different partner is rejected: each
// circuit participates in at most one cross-netlist comparison.
func (c *CircuitCategorizer) Bind(a, b *netlist.Circuit) error {
	if existing, ok := c.boundTo[a]; ok && existing != b {
		return fmt.Errorf("categorize: circuit %q is already bound to %q", a.Name(), existing.Name())
	}
	if existing, ok := c.boundTo[b]; ok && existing != a {
		return fmt.Errorf("categorize: circuit %q is already bound to %q", b.Name(), existing.Name())
	}
	c.boundTo[a] = b
	c.boundTo[b] = a
	c.uf.union(c.key(a), c.key(b))
	return nil
}

// BoundCircuit returns the circuit a was bound to via Bind, if any.
func (c *CircuitCategorizer) BoundCircuit(a *netlist.Circuit) (*netlist.Circuit, bool) {
	b, ok := c.boundTo[a]
	return b, ok
}
