package manipulate

import "github.com/openlvs/lvscore/pkg/netlist"

// FlattenCircuit splices c's internals into every circuit that currently
// instantiates it (nl.Referrers(c)), one independent copy per instance,
// then deletes c (spec.md §4.2). Device and subcircuit IDs are assigned
// fresh by the parent's own counters, so no ID rewriting is needed across
// the splice.
func FlattenCircuit(nl *netlist.Netlist, c *netlist.Circuit) {
	for _, sc := range nl.Referrers(c) {
		spliceInto(sc)
	}
	nl.RemoveCircuit(c)
}

// spliceInto copies the child circuit's nets, devices and nested
// subcircuit instances into sc's parent circuit, then removes sc.
func spliceInto(sc *netlist.SubCircuit) {
	parent := sc.Circuit()
	child := sc.Child()

	// Map every net owned by child to a net in parent: a pin-bound net
	// maps to whatever is already wired to that pin on sc; any other net
	// gets a freshly created, instance-private net in parent.
	netMap := map[*netlist.Net]*netlist.Net{}
	for _, p := range child.Pins() {
		if bound := child.PinNet(p.ID()); bound != nil {
			netMap[bound] = sc.PinNet(p.ID())
		}
	}
	for _, n := range child.Nets() {
		if _, ok := netMap[n]; ok {
			continue
		}
		netMap[n] = parent.AddNet(sc.Name() + "." + n.Name())
	}
	resolve := func(n *netlist.Net) *netlist.Net {
		if n == nil {
			return nil
		}
		return netMap[n]
	}

	for _, d := range child.Devices() {
		nd := parent.AddDevice(d.Class(), sc.Name()+"."+d.Name())
		for _, td := range d.Class().Terminals() {
			nd.Connect(td.ID, resolve(d.TerminalNet(td.ID)))
		}
		for _, pd := range d.Class().Parameters() {
			nd.SetParameterValue(pd.ID, d.ParameterValue(pd.ID))
		}
	}

	for _, nested := range child.SubCircuits() {
		nsc, err := parent.AddSubCircuit(nested.Child(), sc.Name()+"."+nested.Name())
		if err != nil {
			continue
		}
		for _, p := range nested.Child().Pins() {
			nsc.Connect(p.ID(), resolve(nested.PinNet(p.ID())))
		}
	}

	parent.RemoveSubCircuit(sc)
}

// FlattenCircuits flattens exactly the given circuits, which must be
// listed in top-down topological order (parents before children) so that
// a circuit nested inside another flattened circuit ends up directly in
// its eventual top-level parent(s) by the time its own turn comes.
func FlattenCircuits(nl *netlist.Netlist, circuits []*netlist.Circuit) error {
	for _, c := range circuits {
		FlattenCircuit(nl, c)
	}
	return nil
}

// Flatten flattens every non-top-level circuit in nl, leaving a netlist
// whose only circuits are the original top-level ones (now fully
// expanded). Circuits with DontPurge set are still flattened into their
// referrers (DontPurge protects against Purge's orphan collection, not
// against flattening); callers who want to keep a circuit intact should
// exclude it from the list instead, via FlattenCircuits.
func Flatten(nl *netlist.Netlist) error {
	order, err := nl.BeginTopDown()
	if err != nil {
		return err
	}
	top := map[*netlist.Circuit]bool{}
	for _, c := range nl.TopLevelCircuits() {
		top[c] = true
	}
	var toFlatten []*netlist.Circuit
	for _, c := range order {
		if !top[c] {
			toFlatten = append(toFlatten, c)
		}
	}
	return FlattenCircuits(nl, toFlatten)
}
