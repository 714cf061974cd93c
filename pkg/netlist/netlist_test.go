package netlist

import "testing"

func simpleClass() *DeviceClass {
	c := NewDeviceClass("RES")
	c.AddTerminal("A", "terminal A")
	c.AddTerminal("B", "terminal B")
	c.AddParameter(ParameterDefinition{Name: "R", IsPrimary: true, SIScaling: 1})
	return c
}

func TestCircuitConnectionsAreSymmetric(t *testing.T) {
	nl := New(true)
	cls := simpleClass()
	nl.AddDeviceClass(cls)

	c, err := nl.AddCircuit("TOP")
	if err != nil {
		t.Fatalf("AddCircuit: %v", err)
	}
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	d := c.AddDevice(cls, "R1")
	d.Connect(0, n1)
	d.Connect(1, n2)

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	refs := n1.TerminalRefs()
	if len(refs) != 1 || refs[0].Device != d || refs[0].TerminalID != 0 {
		t.Fatalf("n1 terminal refs = %+v", refs)
	}

	d.Disconnect(0)
	if len(n1.TerminalRefs()) != 0 {
		t.Fatalf("expected n1 to have no terminal refs after disconnect")
	}
}

func TestPinRemovalRenumbers(t *testing.T) {
	nl := New(true)
	c, _ := nl.AddCircuit("TOP")
	p0 := c.AddPin("A")
	_ = p0
	p1 := c.AddPin("B")
	p2 := c.AddPin("C")

	n := c.AddNet("N")
	c.ConnectPin(p2.ID(), n)

	c.RemovePin(0)

	if p1.ID() != 0 {
		t.Errorf("p1.ID() = %d, want 0", p1.ID())
	}
	if p2.ID() != 1 {
		t.Errorf("p2.ID() = %d, want 1", p2.ID())
	}
	if c.PinNet(1) != n {
		t.Errorf("net did not follow renumbered pin")
	}
}

func TestJoinNets(t *testing.T) {
	nl := New(true)
	cls := simpleClass()
	nl.AddDeviceClass(cls)
	c, _ := nl.AddCircuit("TOP")

	n1 := c.AddNet("A")
	n2 := c.AddNet("B")
	d1 := c.AddDevice(cls, "R1")
	d1.Connect(0, n1)
	d2 := c.AddDevice(cls, "R2")
	d2.Connect(0, n2)

	c.JoinNets(n1, n2)

	if n1.Name() != "A,B" {
		t.Errorf("joined name = %q, want \"A,B\"", n1.Name())
	}
	if d2.TerminalNet(0) != n1 {
		t.Errorf("d2 terminal 0 should now point at n1")
	}
	if len(c.Nets()) != 1 {
		t.Errorf("expected n2 to be removed, got %d nets", len(c.Nets()))
	}
}

func TestFloatingPassiveInternal(t *testing.T) {
	nl := New(true)
	cls := simpleClass()
	nl.AddDeviceClass(cls)
	c, _ := nl.AddCircuit("TOP")

	isolated := c.AddNet("ISO")
	if !isolated.Floating() {
		t.Errorf("isolated net should be floating")
	}

	internal := c.AddNet("INT")
	d1 := c.AddDevice(cls, "R1")
	d1.Connect(0, internal)
	d2 := c.AddDevice(cls, "R2")
	d2.Connect(0, internal)
	if !internal.Internal() {
		t.Errorf("two-terminal net should be internal")
	}
	if internal.Passive() {
		t.Errorf("net with device terminals should not be passive")
	}
}

func TestCyclicSubcircuitDetected(t *testing.T) {
	nl := New(true)
	a, _ := nl.AddCircuit("A")
	b, _ := nl.AddCircuit("B")
	a.AddPin("p")
	b.AddPin("p")
	if _, err := a.AddSubCircuit(b, "X1"); err != nil {
		t.Fatalf("AddSubCircuit: %v", err)
	}
	if _, err := b.AddSubCircuit(a, "X2"); err != nil {
		t.Fatalf("AddSubCircuit: %v", err)
	}

	if _, err := nl.BeginTopDown(); err == nil {
		t.Fatalf("expected cyclic structural error")
	}
}

func TestRemoveCircuitFailsWhileReferenced(t *testing.T) {
	nl := New(true)
	parent, _ := nl.AddCircuit("PARENT")
	child, _ := nl.AddCircuit("CHILD")
	if _, err := parent.AddSubCircuit(child, "X1"); err != nil {
		t.Fatalf("AddSubCircuit: %v", err)
	}

	if err := nl.RemoveCircuit(child); err == nil {
		t.Fatalf("expected RemoveCircuit to fail while referenced")
	}

	parent.RemoveSubCircuit(parent.SubCircuits()[0])
	if err := nl.RemoveCircuit(child); err != nil {
		t.Fatalf("RemoveCircuit: %v", err)
	}
}

func TestToStringFromStringRoundTrip(t *testing.T) {
	nl := New(true)
	cls := simpleClass()
	nl.AddDeviceClass(cls)
	c, _ := nl.AddCircuit("TOP")
	c.AddPin("IN")
	c.AddPin("OUT")
	n1 := c.AddNet("N1")
	n2 := c.AddNet("N2")
	c.ConnectPin(0, n1)
	c.ConnectPin(1, n2)
	d := c.AddDevice(cls, "R1")
	d.Connect(0, n1)
	d.Connect(1, n2)
	d.SetParameterValueByName("R", 7650)

	text := ToString(nl)

	nl2 := New(true)
	nl2.AddDeviceClass(simpleClass())
	if err := FromString(nl2, text); err != nil {
		t.Fatalf("FromString: %v", err)
	}

	c2 := nl2.CircuitByName("TOP")
	if c2 == nil {
		t.Fatalf("circuit TOP not found after round trip")
	}
	if c2.PinCount() != 2 {
		t.Fatalf("pin count = %d, want 2", c2.PinCount())
	}
	if len(c2.Devices()) != 1 {
		t.Fatalf("device count = %d, want 1", len(c2.Devices()))
	}
	got := c2.Devices()[0]
	if v, _ := got.ParameterValueByName("R"); v != 7650 {
		t.Errorf("R = %v, want 7650", v)
	}
	if got.TerminalNet(0) != c2.PinNet(0) {
		t.Errorf("round-tripped device terminal 0 should be on pin 0's net")
	}
}
