package netlist

// TerminalRef is a back-reference from a Net to one device terminal
// connected to it.
type TerminalRef struct {
	Device     *Device
	TerminalID int
}

// SubcircuitPinRef is a back-reference from a Net to one pin of a
// SubCircuit instance connected to it.
type SubcircuitPinRef struct {
	SubCircuit *SubCircuit
	PinID      int
}

// Net is an electrical node within a Circuit. It owns back-references to
// every device terminal, subcircuit pin, and circuit (boundary) pin
// connected to it; those back-references are maintained symmetrically by
// Circuit/Device/SubCircuit connect/disconnect methods (spec.md §3) and
// must never be mutated directly from outside this package.
type Net struct {
	circuit   *Circuit
	name      string
	clusterID int

	terminalRefs []TerminalRef
	scPinRefs    []SubcircuitPinRef
	ownPinIDs    []int // IDs of this circuit's own boundary pins bound here
}

// Circuit returns the owning circuit.
func (n *Net) Circuit() *Circuit { return n.circuit }

// Name returns the net's name, which may be empty.
func (n *Net) Name() string { return n.name }

// SetName renames the net.
func (n *Net) SetName(name string) { n.name = name }

// ClusterID returns the opaque cluster identifier linking this net to an
// external geometric shape cluster (0 if unset).
func (n *Net) ClusterID() int { return n.clusterID }

// SetClusterID sets the cluster identifier.
func (n *Net) SetClusterID(id int) { n.clusterID = id }

// TerminalRefs returns the device terminals connected to this net.
func (n *Net) TerminalRefs() []TerminalRef {
	out := make([]TerminalRef, len(n.terminalRefs))
	copy(out, n.terminalRefs)
	return out
}

// SubcircuitPinRefs returns the subcircuit pins connected to this net.
func (n *Net) SubcircuitPinRefs() []SubcircuitPinRef {
	out := make([]SubcircuitPinRef, len(n.scPinRefs))
	copy(out, n.scPinRefs)
	return out
}

// PinIDs returns the IDs of this net's circuit's own boundary pins that
// are bound to this net.
func (n *Net) PinIDs() []int {
	out := make([]int, len(n.ownPinIDs))
	copy(out, n.ownPinIDs)
	return out
}

// ConnectionCount is the total number of terminal/pin connections on this
// net, used by the Floating/Passive predicates.
func (n *Net) ConnectionCount() int {
	return len(n.terminalRefs) + len(n.scPinRefs) + len(n.ownPinIDs)
}

// Floating reports whether the net has fewer than two connections.
func (n *Net) Floating() bool { return n.ConnectionCount() < 2 }

// Passive reports whether the net has no devices or subcircuits attached
// (it may still be bound to a boundary pin).
func (n *Net) Passive() bool { return len(n.terminalRefs) == 0 && len(n.scPinRefs) == 0 }

// Internal reports whether the net has exactly two device terminals and
// no subcircuit pins or boundary pins — the signature of a net that is
// purely a series connection inside the circuit.
func (n *Net) Internal() bool {
	return len(n.terminalRefs) == 2 && len(n.scPinRefs) == 0 && len(n.ownPinIDs) == 0
}

func (n *Net) addTerminalRef(d *Device, terminalID int) {
	n.terminalRefs = append(n.terminalRefs, TerminalRef{Device: d, TerminalID: terminalID})
}

func (n *Net) removeTerminalRef(d *Device, terminalID int) {
	for i, r := range n.terminalRefs {
		if r.Device == d && r.TerminalID == terminalID {
			n.terminalRefs = append(n.terminalRefs[:i], n.terminalRefs[i+1:]...)
			return
		}
	}
}

func (n *Net) addSubcircuitPinRef(sc *SubCircuit, pinID int) {
	n.scPinRefs = append(n.scPinRefs, SubcircuitPinRef{SubCircuit: sc, PinID: pinID})
}

func (n *Net) removeSubcircuitPinRef(sc *SubCircuit, pinID int) {
	for i, r := range n.scPinRefs {
		if r.SubCircuit == sc && r.PinID == pinID {
			n.scPinRefs = append(n.scPinRefs[:i], n.scPinRefs[i+1:]...)
			return
		}
	}
}

func (n *Net) addOwnPinID(id int) {
	n.ownPinIDs = append(n.ownPinIDs, id)
}

func (n *Net) removeOwnPinID(id int) {
	for i, v := range n.ownPinIDs {
		if v == id {
			n.ownPinIDs = append(n.ownPinIDs[:i], n.ownPinIDs[i+1:]...)
			return
		}
	}
}

// renumberOwnPinID shifts every reference to pin ID `from` down to `to`,
// used when a pin removal renumbers the trailing pins of a circuit.
func (n *Net) renumberOwnPinID(from, to int) {
	for i, v := range n.ownPinIDs {
		if v == from {
			n.ownPinIDs[i] = to
		}
	}
}

// absorb merges another net's connections into this one, rewriting every
// back-reference to point at n instead, and combines the two names as
// "A,B" (spec.md §3's join-nets rule). It does not remove other from its
// circuit; the caller (Circuit.JoinNets) does that.
func (n *Net) absorb(other *Net) {
	for _, r := range other.terminalRefs {
		r.Device.terminalNets[r.TerminalID] = n
	}
	n.terminalRefs = append(n.terminalRefs, other.terminalRefs...)

	for _, r := range other.scPinRefs {
		r.SubCircuit.pinNets[r.PinID] = n
	}
	n.scPinRefs = append(n.scPinRefs, other.scPinRefs...)

	for _, id := range other.ownPinIDs {
		n.circuit.pinNets[id] = n
	}
	n.ownPinIDs = append(n.ownPinIDs, other.ownPinIDs...)

	n.name = combineNetNames(n.name, other.name)

	other.terminalRefs = nil
	other.scPinRefs = nil
	other.ownPinIDs = nil
}

func combineNetNames(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case a == b:
		return a
	default:
		return a + "," + b
	}
}
