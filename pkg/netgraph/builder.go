package netgraph

import (
	"github.com/openlvs/lvscore/pkg/categorize"
	"github.com/openlvs/lvscore/pkg/netlist"
)

// Build constructs the net graph for circuit (spec.md §4.6): one node per
// net, one virtual node per subcircuit instance, one transition per
// device terminal-pair touching two distinct nets, and one transition per
// connected subcircuit pin linking that pin's net to the instance's
// virtual node.
//
// deviceFilter, if non-nil, excludes devices it returns false for (the
// cap/res filters spec.md §4.7 asks the matcher to support); a nil
// deviceFilter includes every device.
//
// A subcircuit instance needs no identity of its own beyond its
// CircuitCategorizer category and the pin categories of the nets it
// touches: two instances of the same child circuit are meant to produce
// identical-looking transitions from the matcher's point of view (that
// is exactly the structural-equivalence question matching answers), and
// each instance already has a distinct virtual Node/index in the graph
// to hang the edges it owns off of. No separate per-instance tag is
// threaded through Transition.
func Build(
	circuit *netlist.Circuit,
	devClass *categorize.DeviceClassCategorizer,
	circClass *categorize.CircuitCategorizer,
	pinClass *categorize.CircuitPinCategorizer,
	deviceFilter func(*netlist.Device) bool,
) *Graph {
	nets := circuit.Nets()
	subckts := circuit.SubCircuits()

	g := &Graph{
		Circuit:       circuit,
		Nodes:         make([]*Node, 0, len(nets)+len(subckts)),
		indexOfNet:    make(map[*netlist.Net]int, len(nets)),
		indexOfSubckt: make(map[*netlist.SubCircuit]int, len(subckts)),
	}

	for _, net := range nets {
		idx := len(g.Nodes)
		g.indexOfNet[net] = idx
		g.Nodes = append(g.Nodes, newNode())
		g.Nodes[idx].Net = net
	}
	for _, sc := range subckts {
		idx := len(g.Nodes)
		g.indexOfSubckt[sc] = idx
		g.Nodes = append(g.Nodes, newNode())
		g.Nodes[idx].SubCircuit = sc
	}

	for _, d := range circuit.Devices() {
		if deviceFilter != nil && !deviceFilter(d) {
			continue
		}
		buildDeviceTransitions(g, d, devClass)
	}
	for _, sc := range subckts {
		buildSubcircuitTransitions(g, sc, circClass, pinClass)
	}

	for _, n := range g.Nodes {
		n.finalize()
	}
	return g
}

// buildDeviceTransitions emits one Transition for every unordered pair of
// terminals of d that land on two distinct nets, normalizing each
// terminal through the class's equivalence map unless the class's
// category is Strict (spec.md §4.6/§4.3's swappable-terminal rule).
//
// Open design point (no original_source/ .cc is available for
// Transition's constructor to check directly): after normalizing a
// terminal pair through EquivalentTerminalID, the two resulting IDs are
// re-sorted so ID1<=ID2. Without this, a device wired with its
// terminals in one order and a structurally identical device wired with
// them swapped would normalize to the same *set* of IDs but opposite
// *order*, producing Transitions that compare unequal and defeat the
// terminal-equivalence collapsing spec.md §4.6 asks for.
func buildDeviceTransitions(g *Graph, d *netlist.Device, devClass *categorize.DeviceClassCategorizer) {
	class := d.Class()
	terminals := class.Terminals()
	category := devClass.Category(class)
	strict := devClass.Strict(class)

	for i := 0; i < len(terminals); i++ {
		ni := g.IndexOfNet(d.TerminalNet(terminals[i].ID))
		if ni == NoMatch {
			continue
		}
		for j := i + 1; j < len(terminals); j++ {
			nj := g.IndexOfNet(d.TerminalNet(terminals[j].ID))
			if nj == NoMatch || ni == nj {
				continue
			}
			id1, id2 := terminals[i].ID, terminals[j].ID
			if !strict {
				id1 = class.EquivalentTerminalID(id1)
				id2 = class.EquivalentTerminalID(id2)
				if id1 > id2 {
					id1, id2 = id2, id1
				}
			}
			t := Transition{Category: category, ID1: id1, ID2: id2}
			g.Nodes[ni].addTransition(nj, t)
			g.Nodes[nj].addTransition(ni, t)
		}
	}
}

// buildSubcircuitTransitions links the net of each connected pin of sc
// to the virtual node representing sc (a star; pins are not linked to
// each other directly), with a subcircuit transition labeled by sc's
// circuit category and the pin's swap category as both ID1 and ID2
// (spec.md §4.6). Pins are normalized through pinClass rather than an
// EquivalentTerminalID map, since pin swappability is declared per
// reference circuit (pkg/categorize.CircuitPinCategorizer), not per
// device class.
func buildSubcircuitTransitions(
	g *Graph,
	sc *netlist.SubCircuit,
	circClass *categorize.CircuitCategorizer,
	pinClass *categorize.CircuitPinCategorizer,
) {
	child := sc.Child()
	vnode := g.IndexOfSubCircuit(sc)
	category := circClass.Category(child)

	pinCount := child.PinCount()
	for i := 0; i < pinCount; i++ {
		ni := g.IndexOfNet(sc.PinNet(i))
		if ni == NoMatch {
			continue
		}
		id1 := pinClass.Category(child, i)
		t := Transition{Category: category, ID1: id1, ID2: id1, IsSubcircuit: true}
		g.Nodes[ni].addTransition(vnode, t)
		g.Nodes[vnode].addTransition(ni, t)
	}
}
