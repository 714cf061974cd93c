package manipulate

import "github.com/openlvs/lvscore/pkg/netlist"

// CombineDevices iterates every circuit's devices and merges any pair of
// the same class that the class's Combiner accepts as parallel or serial
// (spec.md §4.2, §4.3). It repeats full passes until none combine, since
// combining two devices can expose a new combinable pair (e.g. three
// resistors in parallel combine two at a time).
func CombineDevices(nl *netlist.Netlist) {
	for _, c := range nl.Circuits() {
		combineInCircuit(c)
	}
}

func combineInCircuit(c *netlist.Circuit) {
	for {
		combined := false
		devices := c.Devices()
		for i := 0; i < len(devices); i++ {
			d1 := devices[i]
			if d1.Circuit() != c {
				continue // already removed by an earlier combination this pass
			}
			for j := i + 1; j < len(devices); j++ {
				d2 := devices[j]
				if d2.Circuit() != c {
					continue
				}
				if tryCombine(c, d1, d2) {
					combined = true
					break
				}
			}
			if combined {
				break
			}
		}
		if !combined {
			return
		}
	}
}

func tryCombine(c *netlist.Circuit, d1, d2 *netlist.Device) bool {
	class := d1.Class()
	if class != d2.Class() {
		return false
	}
	cb := class.Combiner()
	if cb == nil {
		return false
	}

	if class.SupportsParallelCombination() && sameNetMultiset(d1, d2) {
		cb.CombineParallel(d1, d2)
		c.RemoveDevice(d2)
		return true
	}

	if class.SupportsSerialCombination() {
		if via, t1, t2, ok := sharedInternalNet(class, d1, d2); ok {
			far := otherTerminalNet(d2, t2)
			cb.CombineSerial(d1, d2, via)
			d1.Connect(t1, far)
			c.RemoveDevice(d2)
			c.RemoveNet(via)
			return true
		}
	}

	return false
}

// sameNetMultiset reports whether d1 and d2 are wired to the same set of
// nets across their terminals, regardless of terminal order — the
// connectivity test for "wired in parallel."
func sameNetMultiset(d1, d2 *netlist.Device) bool {
	terms := d1.Class().Terminals()
	if len(terms) != len(d2.Class().Terminals()) {
		return false
	}
	counts := map[*netlist.Net]int{}
	for _, td := range terms {
		counts[d1.TerminalNet(td.ID)]++
	}
	for _, td := range terms {
		counts[d2.TerminalNet(td.ID)]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

// sharedInternalNet finds a terminal pair (t1 on d1, t2 on d2) wired
// together through a net that is otherwise fully internal (exactly these
// two terminal connections, Net.Internal()). Only terminal IDs 0 and 1
// (the A/B pair every combinable built-in class defines first, per
// pkg/devclass) are eligible as the series junction; any further terminal
// (e.g. a bulk terminal at ID 2) must be wired to the same net on both
// devices for the combination to be valid — the connectivity test for
// "wired in series."
func sharedInternalNet(class *netlist.DeviceClass, d1, d2 *netlist.Device) (via *netlist.Net, t1, t2 int, ok bool) {
	for _, a := range [2]int{0, 1} {
		n := d1.TerminalNet(a)
		if n == nil || !n.Internal() {
			continue
		}
		for _, b := range [2]int{0, 1} {
			if d2.TerminalNet(b) != n {
				continue
			}
			otherA, otherB := 1-a, 1-b
			if d1.TerminalNet(otherA) == nil || d2.TerminalNet(otherB) == nil {
				continue
			}
			if sideTerminalsMatch(class, d1, d2) {
				return n, a, b, true
			}
		}
	}
	return nil, 0, 0, false
}

// sideTerminalsMatch checks that every terminal beyond the A/B pair (IDs
// 0 and 1) is wired identically on both devices.
func sideTerminalsMatch(class *netlist.DeviceClass, d1, d2 *netlist.Device) bool {
	for _, td := range class.Terminals() {
		if td.ID == 0 || td.ID == 1 {
			continue
		}
		if d1.TerminalNet(td.ID) != d2.TerminalNet(td.ID) {
			return false
		}
	}
	return true
}

func otherTerminalNet(d *netlist.Device, skip int) *netlist.Net {
	return d.TerminalNet(1 - skip)
}
