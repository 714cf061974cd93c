// Package devclass provides the built-in DeviceClass library (spec.md
// §4.3): Resistor, Capacitor, Inductor, Diode, BJT and MOS families, wired
// with their parallel/serial combiners and a tolerance-based parameter
// comparator.
package devclass

import "github.com/openlvs/lvscore/pkg/netlist"

// Names of the built-in classes, as they would appear in a SPICE deck or a
// ToString dump.
const (
	Resistor          = "RES"
	ResistorWithBulk  = "RES3"
	Capacitor         = "CAP"
	CapacitorWithBulk = "CAP3"
	InductorClass     = "IND"
	DiodeClass        = "DIODE"
	BJT3Class         = "BJT3"
	BJT4Class         = "BJT4"
	MOS3Class         = "MOS3"
	MOS4Class         = "MOS4"
)

func NewResistor(name string, withBulk bool) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("A", "terminal A")
	c.AddTerminal("B", "terminal B")
	if withBulk {
		c.AddTerminal("W", "bulk/well terminal")
	}
	c.AddParameter(netlist.ParameterDefinition{Name: "R", Description: "resistance", IsPrimary: true, SIScaling: 1, GeometryExponent: 0})
	c.AddParameter(netlist.ParameterDefinition{Name: "L", Description: "length", SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "W", Description: "width", SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "A", Description: "area", SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "P", Description: "perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.SetSupportsParallelCombination(true)
	c.SetSupportsSerialCombination(true)
	c.SetCombiner(resistorCombiner{})
	c.SetComparator(NewComparator(0, 1e-6, true))
	return c
}

func NewCapacitor(name string, withBulk bool) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("A", "terminal A")
	c.AddTerminal("B", "terminal B")
	if withBulk {
		c.AddTerminal("W", "bulk/well terminal")
	}
	c.AddParameter(netlist.ParameterDefinition{Name: "C", Description: "capacitance", IsPrimary: true, SIScaling: 1, GeometryExponent: 0})
	c.AddParameter(netlist.ParameterDefinition{Name: "A", Description: "area", SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "P", Description: "perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.SetSupportsParallelCombination(true)
	c.SetSupportsSerialCombination(true)
	c.SetCombiner(capacitorCombiner{})
	c.SetComparator(NewComparator(0, 1e-6, true))
	return c
}

func NewInductor(name string) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("A", "terminal A")
	c.AddTerminal("B", "terminal B")
	c.AddParameter(netlist.ParameterDefinition{Name: "L", Description: "inductance", IsPrimary: true, SIScaling: 1, GeometryExponent: 0})
	c.SetSupportsParallelCombination(true)
	c.SetSupportsSerialCombination(true)
	c.SetCombiner(inductorCombiner{})
	c.SetComparator(NewComparator(0, 1e-6, true))
	return c
}

func NewDiode(name string) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("A", "anode")
	c.AddTerminal("C", "cathode")
	c.AddParameter(netlist.ParameterDefinition{Name: "A", Description: "area", IsPrimary: true, SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "P", Description: "perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.SetComparator(NewComparator(0, 1e-6, true))
	return c
}

func NewBJT(name string, fourTerminal bool) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	c.AddTerminal("C", "collector")
	c.AddTerminal("B", "base")
	c.AddTerminal("E", "emitter")
	if fourTerminal {
		c.AddTerminal("S", "substrate")
	}
	c.AddParameter(netlist.ParameterDefinition{Name: "AE", Description: "emitter area", IsPrimary: true, SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "PE", Description: "emitter perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "AB", Description: "base area", SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "PB", Description: "base perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "AC", Description: "collector area", SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "PC", Description: "collector perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "NE", Description: "number of emitter fingers", SIScaling: 1})
	c.SetComparator(NewComparator(0, 1e-6, true))
	return c
}

func NewMOS(name string, fourTerminal bool) *netlist.DeviceClass {
	c := netlist.NewDeviceClass(name)
	s := c.AddTerminal("S", "source")
	c.AddTerminal("G", "gate")
	d := c.AddTerminal("D", "drain")
	if fourTerminal {
		c.AddTerminal("B", "bulk")
	}
	// Source and drain are electrically interchangeable by default
	// (spec.md §4.3); strict=true in a per-comparison override disables
	// this via DeviceClass.Strict.
	c.SetEquivalentTerminals(s.ID, d.ID)

	c.AddParameter(netlist.ParameterDefinition{Name: "L", Description: "gate length", IsPrimary: true, SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "W", Description: "gate width", IsPrimary: true, SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "AS", Description: "source area", SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "AD", Description: "drain area", SIScaling: 1e-12, GeometryExponent: 2})
	c.AddParameter(netlist.ParameterDefinition{Name: "PS", Description: "source perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.AddParameter(netlist.ParameterDefinition{Name: "PD", Description: "drain perimeter", SIScaling: 1e-6, GeometryExponent: 1})
	c.SetComparator(NewComparator(0, 1e-6, true))
	return c
}

// Library builds one instance of every built-in DeviceClass. Callers that
// need to mutate a class (e.g. set Strict for a one-off comparison) should
// take the returned classes, not construct their own — the parallel test
// scenarios in spec.md §8 rely on stable terminal/parameter IDs across
// instances built this way.
func Library() []*netlist.DeviceClass {
	return []*netlist.DeviceClass{
		NewResistor(Resistor, false),
		NewResistor(ResistorWithBulk, true),
		NewCapacitor(Capacitor, false),
		NewCapacitor(CapacitorWithBulk, true),
		NewInductor(InductorClass),
		NewDiode(DiodeClass),
		NewBJT(BJT3Class, false),
		NewBJT(BJT4Class, true),
		NewMOS(MOS3Class, false),
		NewMOS(MOS4Class, true),
	}
}

// Register adds every built-in class to nl.
func Register(nl *netlist.Netlist) {
	for _, c := range Library() {
		nl.AddDeviceClass(c)
	}
}
