package netlist

import "fmt"

// BoundaryGeometry is an opaque placeholder for geometric boundary data
// attached to a circuit (layout extraction is an external collaborator;
// the core only stores and passes this value through).
type BoundaryGeometry struct {
	Points [][2]float64
}

// Circuit is a named, parameterizable module within a Netlist: it owns
// an ordered Pin list and sets of Net, Device and SubCircuit (spec.md §3).
type Circuit struct {
	netlist *Netlist

	name         string
	caseSensitive bool
	cellIndex    *int
	dontPurge    bool
	boundary     *BoundaryGeometry

	pins    []*Pin
	pinNets []*Net // parallel to pins

	nets []*Net

	devices   []*Device
	nextDevID int

	subcircuits []*SubCircuit
	nextSCID    int
}

func newCircuit(nl *Netlist, name string) *Circuit {
	return &Circuit{netlist: nl, name: name, caseSensitive: nl.caseSensitive}
}

// Netlist returns the owning netlist.
func (c *Circuit) Netlist() *Netlist { return c.netlist }

// Name returns the circuit's name.
func (c *Circuit) Name() string { return c.name }

// SetName renames the circuit. The caller (Netlist) is responsible for
// re-validating uniqueness.
func (c *Circuit) SetName(name string) { c.name = name }

// CaseSensitive reports whether this circuit's own name/net comparisons
// are case-sensitive (combined with the other operand's flag per
// spec.md §4.2's combined_case_sensitive policy).
func (c *Circuit) CaseSensitive() bool { return c.caseSensitive }

// SetCaseSensitive sets the flag.
func (c *Circuit) SetCaseSensitive(v bool) { c.caseSensitive = v }

// CellIndex returns the optional link to a layout cell, or nil.
func (c *Circuit) CellIndex() *int { return c.cellIndex }

// SetCellIndex sets the layout cell link.
func (c *Circuit) SetCellIndex(idx int) { c.cellIndex = &idx }

// DontPurge reports whether this circuit is protected from removal by
// Manipulator.Purge even if it becomes unreferenced.
func (c *Circuit) DontPurge() bool { return c.dontPurge }

// SetDontPurge sets the flag.
func (c *Circuit) SetDontPurge(v bool) { c.dontPurge = v }

// Boundary returns the circuit's geometric boundary, or nil.
func (c *Circuit) Boundary() *BoundaryGeometry { return c.boundary }

// SetBoundary sets the circuit's geometric boundary.
func (c *Circuit) SetBoundary(b *BoundaryGeometry) { c.boundary = b }

// --- Pins ---------------------------------------------------------------

// Pins returns the ordered pin list.
func (c *Circuit) Pins() []*Pin { return c.pins }

// PinCount returns the number of pins.
func (c *Circuit) PinCount() int { return len(c.pins) }

// Pin returns the pin with the given ID, or nil if out of range.
func (c *Circuit) Pin(id int) *Pin {
	if id < 0 || id >= len(c.pins) {
		return nil
	}
	return c.pins[id]
}

// PinByName returns the first pin with the given name, or nil.
func (c *Circuit) PinByName(name string) *Pin {
	for _, p := range c.pins {
		if p.name == name {
			return p
		}
	}
	return nil
}

// AddPin appends a new pin and returns it. Its ID is its index.
func (c *Circuit) AddPin(name string) *Pin {
	p := &Pin{name: name, id: len(c.pins)}
	c.pins = append(c.pins, p)
	c.pinNets = append(c.pinNets, nil)
	c.netlist.invalidateTopology()
	return p
}

// RemovePin removes the pin with the given ID, disconnecting its net and
// renumbering every trailing pin (and their net back-references) down by
// one, preserving the dense 0..N-1 invariant.
func (c *Circuit) RemovePin(id int) {
	if id < 0 || id >= len(c.pins) {
		return
	}
	if net := c.pinNets[id]; net != nil {
		net.removeOwnPinID(id)
	}
	c.pins = append(c.pins[:id], c.pins[id+1:]...)
	c.pinNets = append(c.pinNets[:id], c.pinNets[id+1:]...)
	for i := id; i < len(c.pins); i++ {
		c.pins[i].id = i
		if net := c.pinNets[i]; net != nil {
			net.renumberOwnPinID(i+1, i)
		}
	}
	c.netlist.invalidateTopology()
}

// PinNet returns the net connected to the given pin ID, or nil.
func (c *Circuit) PinNet(id int) *Net {
	if id < 0 || id >= len(c.pinNets) {
		return nil
	}
	return c.pinNets[id]
}

// ConnectPin wires the circuit's own pin id to net.
func (c *Circuit) ConnectPin(id int, net *Net) {
	if id < 0 || id >= len(c.pinNets) {
		return
	}
	if cur := c.pinNets[id]; cur != nil {
		cur.removeOwnPinID(id)
	}
	c.pinNets[id] = net
	if net != nil {
		net.addOwnPinID(id)
	}
}

// --- Nets -----------------------------------------------------------------

// Nets returns the set of nets owned by this circuit.
func (c *Circuit) Nets() []*Net {
	out := make([]*Net, len(c.nets))
	copy(out, c.nets)
	return out
}

// AddNet creates and owns a new, unconnected net.
func (c *Circuit) AddNet(name string) *Net {
	n := &Net{circuit: c, name: name}
	c.nets = append(c.nets, n)
	return n
}

// RemoveNet disconnects and removes a net from this circuit.
func (c *Circuit) RemoveNet(n *Net) {
	if n.circuit != c {
		return
	}
	for _, r := range n.terminalRefs {
		r.Device.terminalNets[r.TerminalID] = nil
	}
	for _, r := range n.scPinRefs {
		r.SubCircuit.pinNets[r.PinID] = nil
	}
	for _, id := range n.ownPinIDs {
		if id < len(c.pinNets) {
			c.pinNets[id] = nil
		}
	}
	n.terminalRefs = nil
	n.scPinRefs = nil
	n.ownPinIDs = nil

	for i, x := range c.nets {
		if x == n {
			c.nets = append(c.nets[:i], c.nets[i+1:]...)
			break
		}
	}
}

// JoinNets merges src into dst (spec.md §3): every reference of src is
// reparented onto dst, their names are combined as "A,B", and src is
// removed from the circuit. dst and src must belong to this circuit.
func (c *Circuit) JoinNets(dst, src *Net) {
	if dst == src || dst.circuit != c || src.circuit != c {
		return
	}
	dst.absorb(src)
	for i, x := range c.nets {
		if x == src {
			c.nets = append(c.nets[:i], c.nets[i+1:]...)
			break
		}
	}
}

// --- Devices ----------------------------------------------------------

// Devices returns the set of devices owned by this circuit.
func (c *Circuit) Devices() []*Device {
	out := make([]*Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// AddDevice creates and owns a new device of the given class, with
// default parameter values, and assigns it a fresh ID.
func (c *Circuit) AddDevice(class *DeviceClass, name string) *Device {
	d := &Device{
		circuit:      c,
		class:        class,
		name:         name,
		id:           c.nextDevID,
		params:       make([]float64, len(class.Parameters())),
		terminalNets: make([]*Net, len(class.Terminals())),
	}
	for _, pd := range class.Parameters() {
		d.params[pd.ID] = pd.Default
	}
	c.nextDevID++
	c.devices = append(c.devices, d)
	c.netlist.invalidateTopology()
	return d
}

// RemoveDevice disconnects and removes a device from this circuit.
func (c *Circuit) RemoveDevice(d *Device) {
	if d.circuit != c {
		return
	}
	d.disconnectAll()
	for i, x := range c.devices {
		if x == d {
			c.devices = append(c.devices[:i], c.devices[i+1:]...)
			break
		}
	}
	c.netlist.invalidateTopology()
}

// --- SubCircuits --------------------------------------------------------

// SubCircuits returns the set of subcircuit instances owned by this
// circuit.
func (c *Circuit) SubCircuits() []*SubCircuit {
	out := make([]*SubCircuit, len(c.subcircuits))
	copy(out, c.subcircuits)
	return out
}

// AddSubCircuit creates and owns a new instance of child, which must
// belong to the same netlist, and assigns it a fresh ID.
func (c *Circuit) AddSubCircuit(child *Circuit, name string) (*SubCircuit, error) {
	if child.netlist != c.netlist {
		return nil, fmt.Errorf("netlist: subcircuit %q references circuit %q from a different netlist", name, child.name)
	}
	sc := &SubCircuit{
		circuit: c,
		child:   child,
		name:    name,
		id:      c.nextSCID,
		pinNets: make([]*Net, len(child.Pins())),
	}
	c.nextSCID++
	c.subcircuits = append(c.subcircuits, sc)
	c.netlist.addReferrer(child, sc)
	c.netlist.invalidateTopology()
	return sc, nil
}

// RemoveSubCircuit disconnects and removes a subcircuit instance.
func (c *Circuit) RemoveSubCircuit(sc *SubCircuit) {
	if sc.circuit != c {
		return
	}
	sc.disconnectAll()
	for i, x := range c.subcircuits {
		if x == sc {
			c.subcircuits = append(c.subcircuits[:i], c.subcircuits[i+1:]...)
			break
		}
	}
	c.netlist.removeReferrer(sc.child, sc)
	c.netlist.invalidateTopology()
}

// Validate checks the symmetry invariants from spec.md §3 (every
// device/subcircuit terminal-net link has a matching net-side
// back-reference, pin IDs are dense). It is intended for tests and
// diagnostics, not the hot path.
func (c *Circuit) Validate() error {
	for i, p := range c.pins {
		if p.id != i {
			return fmt.Errorf("netlist: circuit %q pin %q has id %d, want %d", c.name, p.name, p.id, i)
		}
	}
	for _, d := range c.devices {
		for t, net := range d.terminalNets {
			if net == nil {
				continue
			}
			found := false
			for _, r := range net.terminalRefs {
				if r.Device == d && r.TerminalID == t {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("netlist: circuit %q device %q terminal %d missing net back-reference", c.name, d.name, t)
			}
		}
	}
	for _, sc := range c.subcircuits {
		for p, net := range sc.pinNets {
			if net == nil {
				continue
			}
			found := false
			for _, r := range net.scPinRefs {
				if r.SubCircuit == sc && r.PinID == p {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("netlist: circuit %q subcircuit %q pin %d missing net back-reference", c.name, sc.name, p)
			}
		}
	}
	return nil
}
