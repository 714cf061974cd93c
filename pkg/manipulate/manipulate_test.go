package manipulate

import (
	"testing"

	"github.com/openlvs/lvscore/pkg/devclass"
	"github.com/openlvs/lvscore/pkg/netlist"
)

func buildResistor(nl *netlist.Netlist) *netlist.DeviceClass {
	for _, c := range nl.DeviceClasses() {
		if c.Name() == devclass.Resistor {
			return c
		}
	}
	for _, c := range devclass.Library() {
		nl.AddDeviceClass(c)
	}
	return nl.DeviceClassByName(devclass.Resistor)
}

func TestPurgeNetsRemovesFloating(t *testing.T) {
	nl := netlist.New(true)
	c, _ := nl.AddCircuit("TOP")
	c.AddNet("FLOAT")
	kept := c.AddNet("USED")
	p := c.AddPin("P")
	c.ConnectPin(p.ID(), kept)
	q := c.AddPin("Q")
	c.ConnectPin(q.ID(), kept)

	PurgeNets(nl)

	if len(c.Nets()) != 1 || c.Nets()[0].Name() != "USED" {
		t.Fatalf("expected only USED net to survive, got %+v", c.Nets())
	}
}

func TestMakeTopLevelPins(t *testing.T) {
	nl := netlist.New(true)
	res := buildResistor(nl)
	c, _ := nl.AddCircuit("TOP")
	n1 := c.AddNet("IN")
	n2 := c.AddNet("OUT")
	d := c.AddDevice(res, "R1")
	d.Connect(0, n1)
	d.Connect(1, n2)

	MakeTopLevelPins(nl)

	if c.PinCount() != 2 {
		t.Fatalf("pin count = %d, want 2", c.PinCount())
	}
	if c.PinNet(0) == nil || c.PinNet(1) == nil {
		t.Fatalf("pins should be wired to their nets")
	}
}

func TestCombineDevicesParallel(t *testing.T) {
	nl := netlist.New(true)
	res := buildResistor(nl)
	c, _ := nl.AddCircuit("TOP")
	n1 := c.AddNet("A")
	n2 := c.AddNet("B")
	d1 := c.AddDevice(res, "R1")
	d1.SetParameterValueByName("R", 1000)
	d1.Connect(0, n1)
	d1.Connect(1, n2)
	d2 := c.AddDevice(res, "R2")
	d2.SetParameterValueByName("R", 1000)
	d2.Connect(0, n1)
	d2.Connect(1, n2)

	CombineDevices(nl)

	devs := c.Devices()
	if len(devs) != 1 {
		t.Fatalf("expected one surviving device, got %d", len(devs))
	}
	if v, _ := devs[0].ParameterValueByName("R"); v != 500 {
		t.Errorf("combined R = %v, want 500", v)
	}
}

func TestCombineDevicesSerial(t *testing.T) {
	nl := netlist.New(true)
	res := buildResistor(nl)
	c, _ := nl.AddCircuit("TOP")
	left := c.AddNet("LEFT")
	mid := c.AddNet("MID")
	right := c.AddNet("RIGHT")
	d1 := c.AddDevice(res, "R1")
	d1.SetParameterValueByName("R", 1000)
	d1.Connect(0, left)
	d1.Connect(1, mid)
	d2 := c.AddDevice(res, "R2")
	d2.SetParameterValueByName("R", 2000)
	d2.Connect(0, mid)
	d2.Connect(1, right)

	CombineDevices(nl)

	devs := c.Devices()
	if len(devs) != 1 {
		t.Fatalf("expected one surviving device, got %d", len(devs))
	}
	if v, _ := devs[0].ParameterValueByName("R"); v != 3000 {
		t.Errorf("combined R = %v, want 3000", v)
	}
	if devs[0].TerminalNet(1) != right {
		t.Errorf("surviving device should now terminate on the far net")
	}
	for _, n := range c.Nets() {
		if n == mid {
			t.Errorf("internal junction net should have been removed")
		}
	}
}

func TestFlattenCircuit(t *testing.T) {
	nl := netlist.New(true)
	res := buildResistor(nl)

	leaf, _ := nl.AddCircuit("LEAF")
	leaf.AddPin("P1")
	leaf.AddPin("P2")
	internal := leaf.AddNet("INT")
	leaf.ConnectPin(0, internal)
	d := leaf.AddDevice(res, "R1")
	d.SetParameterValueByName("R", 42)
	d.Connect(0, internal)
	n2 := leaf.AddNet("N2")
	leaf.ConnectPin(1, n2)
	d.Connect(1, n2)

	top, _ := nl.AddCircuit("TOP")
	a := top.AddNet("A")
	b := top.AddNet("B")
	sc, _ := top.AddSubCircuit(leaf, "X1")
	sc.Connect(0, a)
	sc.Connect(1, b)

	FlattenCircuit(nl, leaf)

	if nl.CircuitByName("LEAF") != nil {
		t.Fatalf("LEAF should have been removed after flattening")
	}
	if len(top.SubCircuits()) != 0 {
		t.Fatalf("expected no remaining subcircuit instances in TOP")
	}
	devs := top.Devices()
	if len(devs) != 1 {
		t.Fatalf("expected one spliced device in TOP, got %d", len(devs))
	}
	if devs[0].TerminalNet(0) != a || devs[0].TerminalNet(1) != b {
		t.Errorf("spliced device should be wired to TOP's A/B nets")
	}
}

func TestSimplify(t *testing.T) {
	nl := netlist.New(true)
	res := buildResistor(nl)
	top, _ := nl.AddCircuit("TOP")
	n1 := top.AddNet("A")
	n2 := top.AddNet("B")
	d1 := top.AddDevice(res, "R1")
	d1.SetParameterValueByName("R", 1000)
	d1.Connect(0, n1)
	d1.Connect(1, n2)
	d2 := top.AddDevice(res, "R2")
	d2.SetParameterValueByName("R", 1000)
	d2.Connect(0, n1)
	d2.Connect(1, n2)
	top.AddNet("FLOAT")

	Simplify(nl)

	if top.PinCount() != 2 {
		t.Fatalf("expected 2 top-level pins after simplify, got %d", top.PinCount())
	}
	if len(top.Devices()) != 1 {
		t.Fatalf("expected combined devices after simplify, got %d", len(top.Devices()))
	}
	for _, n := range top.Nets() {
		if n.Name() == "FLOAT" {
			t.Errorf("floating net should have been purged")
		}
	}
}
