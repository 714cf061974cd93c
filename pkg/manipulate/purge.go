// Package manipulate implements the netlist bulk-transformation operations
// of spec.md §4.2: Purge, PurgeNets, Flatten/FlattenCircuit/FlattenCircuits,
// CombineDevices, MakeTopLevelPins and Simplify. These operate on an
// already-built *netlist.Netlist; they never parse or write text.
package manipulate

import "github.com/openlvs/lvscore/pkg/netlist"

// Purge removes every circuit unreachable from keep (recursing through
// subcircuit references) that is not protected by DontPurge. If keep is
// empty, the netlist's current top-level circuits (those with no
// referrers) are used, so a bare Purge(nl) is a safe no-op unless some
// other non-top circuit has also become unreferenced.
func Purge(nl *netlist.Netlist, keep ...*netlist.Circuit) {
	if len(keep) == 0 {
		keep = nl.TopLevelCircuits()
	}

	reachable := map[*netlist.Circuit]bool{}
	var mark func(c *netlist.Circuit)
	mark = func(c *netlist.Circuit) {
		if reachable[c] {
			return
		}
		reachable[c] = true
		for _, sc := range c.SubCircuits() {
			mark(sc.Child())
		}
	}
	for _, c := range keep {
		mark(c)
	}

	for changed := true; changed; {
		changed = false
		for _, c := range nl.Circuits() {
			if reachable[c] || c.DontPurge() {
				continue
			}
			if len(nl.Referrers(c)) == 0 {
				nl.RemoveCircuit(c)
				changed = true
			}
		}
	}
}

// PurgeNets deletes every floating net (fewer than two connections, per
// Net.Floating) in every circuit of nl.
func PurgeNets(nl *netlist.Netlist) {
	for _, c := range nl.Circuits() {
		for _, n := range c.Nets() {
			if n.Floating() {
				c.RemoveNet(n)
			}
		}
	}
}

// MakeTopLevelPins gives every top-level circuit with zero pins one pin
// per named, connected net, wired to that net (spec.md §4.2). Circuits
// that already have pins, and unnamed or unconnected nets, are left alone.
func MakeTopLevelPins(nl *netlist.Netlist) {
	for _, c := range nl.TopLevelCircuits() {
		if c.PinCount() > 0 {
			continue
		}
		for _, n := range c.Nets() {
			if n.Name() == "" || n.ConnectionCount() == 0 {
				continue
			}
			p := c.AddPin(n.Name())
			c.ConnectPin(p.ID(), n)
		}
	}
}

// Simplify runs make_top_level_pins, Purge (against the netlist's
// top-level circuits captured before any change), CombineDevices and
// PurgeNets, in that order, per spec.md §4.2.
func Simplify(nl *netlist.Netlist) {
	MakeTopLevelPins(nl)
	keep := nl.TopLevelCircuits()
	Purge(nl, keep...)
	CombineDevices(nl)
	PurgeNets(nl)
}
