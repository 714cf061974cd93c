package devclass

import "github.com/openlvs/lvscore/pkg/netlist"

// resistorCombiner implements the Resistor/ResistorWithBulk combination
// rule from spec.md §4.3: parallel devices combine as 1/R = 1/R1 + 1/R2,
// series devices combine as R = R1 + R2. Non-primary parameters (L, W, A,
// P) are not meaningful for a merged device and are left at dst's value.
type resistorCombiner struct{}

func (resistorCombiner) CombineParallel(dst, src *netlist.Device) {
	r1, _ := dst.ParameterValueByName("R")
	r2, _ := src.ParameterValueByName("R")
	dst.SetParameterValueByName("R", parallelSum(r1, r2))
}

func (resistorCombiner) CombineSerial(dst, src *netlist.Device, via *netlist.Net) {
	r1, _ := dst.ParameterValueByName("R")
	r2, _ := src.ParameterValueByName("R")
	dst.SetParameterValueByName("R", r1+r2)
}

// capacitorCombiner implements the Capacitor/CapacitorWithBulk rule:
// parallel devices combine as C = C1 + C2 (areas add, physically), series
// devices combine as 1/C = 1/C1 + 1/C2 — the reciprocal of the resistor
// rule, since capacitive reactance is inversely proportional to C.
type capacitorCombiner struct{}

func (capacitorCombiner) CombineParallel(dst, src *netlist.Device) {
	c1, _ := dst.ParameterValueByName("C")
	c2, _ := src.ParameterValueByName("C")
	dst.SetParameterValueByName("C", c1+c2)
}

func (capacitorCombiner) CombineSerial(dst, src *netlist.Device, via *netlist.Net) {
	c1, _ := dst.ParameterValueByName("C")
	c2, _ := src.ParameterValueByName("C")
	dst.SetParameterValueByName("C", parallelSum(c1, c2))
}

// inductorCombiner: an inductor is a through element like a resistor (its
// impedance is directly, not inversely, proportional to L), so it shares
// the resistor's combine shape rather than the capacitor's.
type inductorCombiner struct{}

func (inductorCombiner) CombineParallel(dst, src *netlist.Device) {
	l1, _ := dst.ParameterValueByName("L")
	l2, _ := src.ParameterValueByName("L")
	dst.SetParameterValueByName("L", parallelSum(l1, l2))
}

func (inductorCombiner) CombineSerial(dst, src *netlist.Device, via *netlist.Net) {
	l1, _ := dst.ParameterValueByName("L")
	l2, _ := src.ParameterValueByName("L")
	dst.SetParameterValueByName("L", l1+l2)
}

func parallelSum(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return 1 / (1/a + 1/b)
}
