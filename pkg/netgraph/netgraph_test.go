package netgraph

import (
	"testing"

	"github.com/openlvs/lvscore/pkg/categorize"
	"github.com/openlvs/lvscore/pkg/netlist"
)

func fold(s string) string { return s }

func twoTerminalClass(name string, swap bool) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("A", "")
	c.AddTerminal("B", "")
	if swap {
		c.SetEquivalentTerminals(0, 1)
	}
	return c
}

// TestBuildDeviceTransitionSharedBetweenNodes checks that a single
// two-terminal device wired between two nets produces one Transition on
// each of those nets' edges to each other.
func TestBuildDeviceTransitionSharedBetweenNodes(t *testing.T) {
	nl := netlist.New(false)
	c, err := nl.AddCircuit("TOP")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	class := twoTerminalClass("RES", false)
	d := c.AddDevice(class, "R1")
	d.Connect(0, n1)
	d.Connect(1, n2)

	devClass := categorize.NewDeviceClassCategorizer(fold)
	circClass := categorize.NewCircuitCategorizer(fold)
	pinClass := categorize.NewCircuitPinCategorizer(circClass)

	g := Build(c, devClass, circClass, pinClass, nil)

	i1, i2 := g.IndexOfNet(n1), g.IndexOfNet(n2)
	if i1 == NoMatch || i2 == NoMatch {
		t.Fatalf("expected both nets to have graph nodes, got %d, %d", i1, i2)
	}
	edge, ok := g.Nodes[i1].FindEdge([]Transition{{Category: devClass.Category(class), ID1: 0, ID2: 1}})
	if !ok {
		t.Fatal("expected to find the R1 transition on N1's edge to N2")
	}
	if edge.OtherNode != i2 {
		t.Fatalf("edge should point at N2's node (%d), got %d", i2, edge.OtherNode)
	}
}

// TestBuildDeviceTransitionNormalizesSwappableTerminals checks that a
// device with declared-swappable terminals produces the same Transition
// regardless of which physical terminal is wired to which net.
func TestBuildDeviceTransitionNormalizesSwappableTerminals(t *testing.T) {
	nl := netlist.New(false)
	c, err := nl.AddCircuit("TOP")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	class := twoTerminalClass("MOS", true)

	forward := c.AddDevice(class, "M1")
	forward.Connect(0, n1)
	forward.Connect(1, n2)

	reversed := c.AddDevice(class, "M2")
	reversed.Connect(0, n2)
	reversed.Connect(1, n1)

	devClass := categorize.NewDeviceClassCategorizer(fold)
	circClass := categorize.NewCircuitCategorizer(fold)
	pinClass := categorize.NewCircuitPinCategorizer(circClass)

	g := Build(c, devClass, circClass, pinClass, nil)
	i1 := g.IndexOfNet(n1)

	if len(g.Nodes[i1].Edges) != 1 {
		t.Fatalf("expected the forward and reversed devices to collapse onto one edge, got %d edges", len(g.Nodes[i1].Edges))
	}
	if len(g.Nodes[i1].Edges[0].Transitions) != 2 {
		t.Fatalf("expected two equal transitions (one per device) on the shared edge, got %d", len(g.Nodes[i1].Edges[0].Transitions))
	}
	if !g.Nodes[i1].Edges[0].Transitions[0].Equal(g.Nodes[i1].Edges[0].Transitions[1]) {
		t.Fatal("forward and reversed device wiring should normalize to equal transitions")
	}
}

// TestBuildStrictClassSkipsNormalization checks that a Strict device
// class's terminal IDs are left unordered/unmapped, so swapped wiring on
// a strict class does NOT collapse to the same transition.
func TestBuildStrictClassSkipsNormalization(t *testing.T) {
	nl := netlist.New(false)
	c, err := nl.AddCircuit("TOP")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	class := twoTerminalClass("STRICTMOS", true)
	class.SetStrict(true)

	d := c.AddDevice(class, "M1")
	d.Connect(0, n2)
	d.Connect(1, n1)

	devClass := categorize.NewDeviceClassCategorizer(fold)
	circClass := categorize.NewCircuitCategorizer(fold)
	pinClass := categorize.NewCircuitPinCategorizer(circClass)

	g := Build(c, devClass, circClass, pinClass, nil)
	i1 := g.IndexOfNet(n1)
	tr := g.Nodes[i1].Edges[0].Transitions[0]
	// buildDeviceTransitions iterates terminal pairs in class order
	// (0, 1); a Strict class skips EquivalentTerminalID and the
	// canonical re-sort entirely, so the raw terminal IDs pass through
	// unchanged no matter which net each terminal happens to be wired to.
	if tr.ID1 != 0 || tr.ID2 != 1 {
		t.Fatalf("strict class should keep raw terminal IDs, got ID1=%d ID2=%d", tr.ID1, tr.ID2)
	}
}

// TestBuildDeviceFilterExcludesDevice checks that deviceFilter drops a
// device's transitions entirely.
func TestBuildDeviceFilterExcludesDevice(t *testing.T) {
	nl := netlist.New(false)
	c, err := nl.AddCircuit("TOP")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	class := twoTerminalClass("CAP", false)
	d := c.AddDevice(class, "C1")
	d.Connect(0, n1)
	d.Connect(1, n2)

	devClass := categorize.NewDeviceClassCategorizer(fold)
	circClass := categorize.NewCircuitCategorizer(fold)
	pinClass := categorize.NewCircuitPinCategorizer(circClass)

	g := Build(c, devClass, circClass, pinClass, func(*netlist.Device) bool { return false })
	i1 := g.IndexOfNet(n1)
	if len(g.Nodes[i1].Edges) != 0 {
		t.Fatalf("expected no edges once the only device is filtered out, got %d", len(g.Nodes[i1].Edges))
	}
}

// TestBuildSubcircuitTransitionsConnectPinsThroughVirtualNode checks that
// a subcircuit instance's pins are all connected to each other through
// its virtual node.
func TestBuildSubcircuitTransitionsConnectPinsThroughVirtualNode(t *testing.T) {
	nl := netlist.New(false)
	child, err := nl.AddCircuit("INV")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	child.AddPin("IN")
	child.AddPin("OUT")

	top, err := nl.AddCircuit("TOP")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	a := top.AddNet("A")
	y := top.AddNet("Y")
	sc, err := top.AddSubCircuit(child, "X1")
	if err != nil {
		t.Fatalf("AddSubCircuit: %v", err)
	}
	sc.Connect(0, a)
	sc.Connect(1, y)

	devClass := categorize.NewDeviceClassCategorizer(fold)
	circClass := categorize.NewCircuitCategorizer(fold)
	pinClass := categorize.NewCircuitPinCategorizer(circClass)

	g := Build(top, devClass, circClass, pinClass, nil)

	vnode := g.IndexOfSubCircuit(sc)
	if vnode == NoMatch {
		t.Fatal("expected a virtual node for the subcircuit instance")
	}
	ia, iy := g.IndexOfNet(a), g.IndexOfNet(y)
	if len(g.Nodes[vnode].Edges) != 2 {
		t.Fatalf("expected the virtual node to have one edge per pin, got %d", len(g.Nodes[vnode].Edges))
	}
	foundA, foundY := false, false
	for _, e := range g.Nodes[vnode].Edges {
		if e.OtherNode == ia {
			foundA = true
		}
		if e.OtherNode == iy {
			foundY = true
		}
		if !e.Transitions[0].IsSubcircuit {
			t.Fatal("subcircuit pin edges must set IsSubcircuit")
		}
	}
	if !foundA || !foundY {
		t.Fatal("expected the virtual node to connect to both A and Y")
	}
}

func TestTransitionListOrderingAndEquality(t *testing.T) {
	a := []Transition{{Category: 1, ID1: 0, ID2: 1}}
	b := []Transition{{Category: 1, ID1: 0, ID2: 2}}
	if !transitionListLess(a, b) {
		t.Fatal("expected a < b by ID2")
	}
	if transitionListEqual(a, b) {
		t.Fatal("a and b should not be equal")
	}
	c := []Transition{{Category: 1, ID1: 0, ID2: 1}}
	if !transitionListEqual(a, c) {
		t.Fatal("a and c should be equal")
	}
}

func TestSortTransitionsOrdersByCategoryThenIDs(t *testing.T) {
	ts := []Transition{
		{Category: 2, ID1: 0, ID2: 0},
		{Category: 1, ID1: 5, ID2: 5},
		{Category: 1, ID1: 0, ID2: 1},
	}
	sortTransitions(ts)
	want := []Transition{
		{Category: 1, ID1: 0, ID2: 1},
		{Category: 1, ID1: 5, ID2: 5},
		{Category: 2, ID1: 0, ID2: 0},
	}
	for i := range want {
		if !ts[i].Equal(want[i]) {
			t.Fatalf("index %d: got %+v, want %+v", i, ts[i], want[i])
		}
	}
}

func TestNodeIdentifyUnidentify(t *testing.T) {
	n := newNode()
	if n.Matched() {
		t.Fatal("fresh node should be unmatched")
	}
	n.Identify(3, true)
	if !n.Matched() || n.MatchedNode != 3 || !n.ExactMatch {
		t.Fatal("Identify should record the peer index and exactness")
	}
	n.Unidentify()
	if n.Matched() || n.MatchedNode != NoMatch {
		t.Fatal("Unidentify should clear the match back to NoMatch")
	}
}
