package matcher

import (
	"testing"

	"github.com/openlvs/lvscore/pkg/netlist"
	"github.com/openlvs/lvscore/pkg/xref"
)

func twoTerminalClass(name string) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("A", "")
	c.AddTerminal("B", "")
	return c
}

// buildSimpleCircuit builds a single-device, two-pin circuit: pin P1
// feeds one device terminal, pin P2 feeds the other, directly (no
// internal net), so the comparison graph has exactly two net nodes
// joined by one device edge.
func buildSimpleCircuit(t *testing.T, nl *netlist.Netlist, circuitName string, class *netlist.DeviceClass, value float64) *netlist.Circuit {
	t.Helper()
	c, err := nl.AddCircuit(circuitName)
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	p1 := c.AddPin("P1")
	p2 := c.AddPin("P2")
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	c.ConnectPin(p1.ID(), n1)
	c.ConnectPin(p2.ID(), n2)
	d := c.AddDevice(class, "R1")
	d.Connect(0, n1)
	d.Connect(1, n2)
	if class.ParameterByName("R") != nil {
		d.SetParameterValueByName("R", value)
	}
	return c
}

func TestCompareMatchesIdenticalCircuits(t *testing.T) {
	classA := twoTerminalClass("RES")
	classB := twoTerminalClass("RES")

	a := netlist.New(false)
	b := netlist.New(false)
	ca := buildSimpleCircuit(t, a, "TOP", classA, 0)
	cb := buildSimpleCircuit(t, b, "top", classB, 0) // differing case, same structure

	xr := xref.NewCrossReference()
	m := New(false, xr)
	if !m.Compare(a, b) {
		t.Fatalf("expected circuits to match")
	}
	if !m.Verified(ca) {
		t.Fatalf("expected TOP to be verified")
	}
	matched, ok := m.MatchedCircuit(ca)
	if !ok || matched != cb {
		t.Fatalf("expected TOP matched to layout circuit, got %v, %v", matched, ok)
	}

	rec := xr.RecordFor(ca, cb)
	if rec == nil || !rec.Matching {
		t.Fatalf("expected a matching CircuitRecord, got %+v", rec)
	}
	if len(rec.Devices) != 1 {
		t.Fatalf("expected one matched device, got %d", len(rec.Devices))
	}
	if len(rec.Nets) != 2 {
		t.Fatalf("expected two matched nets, got %d", len(rec.Nets))
	}
}

func TestCompareReportsDifferentParameters(t *testing.T) {
	classA := twoTerminalClass("RES")
	classA.AddParameter(netlist.ParameterDefinition{Name: "R", IsPrimary: true})
	classA.SetComparator(exactComparator{})
	classB := twoTerminalClass("RES")
	classB.AddParameter(netlist.ParameterDefinition{Name: "R", IsPrimary: true})
	classB.SetComparator(exactComparator{})

	a := netlist.New(false)
	b := netlist.New(false)
	ca := buildSimpleCircuit(t, a, "TOP", classA, 10)
	cb := buildSimpleCircuit(t, b, "TOP", classB, 20)

	xr := xref.NewCrossReference()
	m := New(false, xr)
	if !m.Compare(a, b) {
		t.Fatalf("a parameter mismatch alone should not fail the structural match")
	}

	rec := xr.RecordFor(ca, cb)
	if rec == nil || len(rec.Devices) != 1 {
		t.Fatalf("expected one reported device pair, got %+v", rec)
	}
	if rec.Devices[0].DifferentParameters != true {
		t.Fatalf("expected device pair flagged as having different parameters: %+v", rec.Devices[0])
	}
}

type exactComparator struct{}

func (exactComparator) Equal(a, b *netlist.Device) bool {
	va, _ := a.ParameterValueByName("R")
	vb, _ := b.ParameterValueByName("R")
	return va == vb
}

func TestComparePinCountMismatchFails(t *testing.T) {
	classA := twoTerminalClass("RES")
	classB := twoTerminalClass("RES")

	a := netlist.New(false)
	b := netlist.New(false)
	buildSimpleCircuit(t, a, "TOP", classA, 0)

	cb, _ := b.AddCircuit("TOP")
	cb.AddPin("ONLY")

	m := New(false, nil)
	if m.Compare(a, b) {
		t.Fatalf("expected pin-count mismatch to fail the compare")
	}
}

func TestCompareSkipsParentWhenChildUnverified(t *testing.T) {
	classA := twoTerminalClass("RES")
	classB := twoTerminalClass("RES")

	a := netlist.New(false)
	b := netlist.New(false)

	childA := buildSimpleCircuit(t, a, "LEAF", classA, 0)
	childB, _ := b.AddCircuit("LEAF")
	childB.AddPin("P1")
	childB.AddPin("P2")
	childB.AddPin("P3") // pin count mismatch: LEAF never verifies

	topA, _ := a.AddCircuit("TOP")
	if _, err := topA.AddSubCircuit(childA, "X1"); err != nil {
		t.Fatalf("AddSubCircuit: %v", err)
	}
	topB, _ := b.AddCircuit("TOP")
	if _, err := topB.AddSubCircuit(childB, "X1"); err != nil {
		t.Fatalf("AddSubCircuit: %v", err)
	}

	m := New(false, nil)
	if m.Compare(a, b) {
		t.Fatalf("expected overall compare to fail because LEAF never verified")
	}
	if m.Verified(topA) {
		t.Fatalf("TOP should have been skipped, not verified, once its child failed")
	}
}

func TestJoinSymmetricNetsMergesInterchangeableLegs(t *testing.T) {
	class := twoTerminalClass("RES")

	nl := netlist.New(false)
	c, _ := nl.AddCircuit("DIV")
	pIn := c.AddPin("IN")
	pOut := c.AddPin("OUT")
	nIn := c.AddNet("IN")
	nOut := c.AddNet("OUT")
	leg1 := c.AddNet("LEG1")
	leg2 := c.AddNet("LEG2")
	c.ConnectPin(pIn.ID(), nIn)
	c.ConnectPin(pOut.ID(), nOut)

	d1 := c.AddDevice(class, "R1")
	d1.Connect(0, nIn)
	d1.Connect(1, leg1)
	d2 := c.AddDevice(class, "R2")
	d2.Connect(0, leg1)
	d2.Connect(1, nOut)

	d3 := c.AddDevice(class, "R3")
	d3.Connect(0, nIn)
	d3.Connect(1, leg2)
	d4 := c.AddDevice(class, "R4")
	d4.Connect(0, leg2)
	d4.Connect(1, nOut)

	m := New(false, nil)
	m.JoinSymmetricNets(c)

	if len(c.Nets()) != 3 {
		t.Fatalf("expected LEG1/LEG2 to merge into one net, got %d nets: %v", len(c.Nets()), c.Nets())
	}
}

func TestNewDefaultsAreIdiomatic(t *testing.T) {
	m := New(false, nil)
	if m.MaxBranchComplexity() != 100 {
		t.Fatalf("expected a non-zero default branch complexity, got %d", m.MaxBranchComplexity())
	}
	if !m.DepthFirst() {
		t.Fatalf("expected depth-first search by default")
	}
	if m.DontConsiderNetNames() {
		t.Fatalf("expected net names to be considered by default")
	}
}
