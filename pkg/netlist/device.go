package netlist

// Reconnection records that an outer terminal of a combined device was
// originally wired through another (now removed) device, for devices
// produced by Manipulator.CombineDevices (spec.md §3, §4.2).
type Reconnection struct {
	TerminalID int
	ViaNet     *Net
}

// Device is an instance of a DeviceClass within a Circuit.
type Device struct {
	circuit *Circuit
	class   *DeviceClass
	name    string
	id      int

	params       []float64
	terminalNets []*Net

	reconnections []Reconnection
	otherAbstract []*Device
}

// Circuit returns the owning circuit.
func (d *Device) Circuit() *Circuit { return d.circuit }

// Class returns the device's class.
func (d *Device) Class() *DeviceClass { return d.class }

// Name returns the device's name.
func (d *Device) Name() string { return d.name }

// SetName renames the device.
func (d *Device) SetName(name string) { d.name = name }

// ID returns the device's ID, unique within its circuit.
func (d *Device) ID() int { return d.id }

// ParameterValue returns the value stored for the given class parameter
// ID, or 0 if the ID is out of range.
func (d *Device) ParameterValue(paramID int) float64 {
	if paramID < 0 || paramID >= len(d.params) {
		return 0
	}
	return d.params[paramID]
}

// SetParameterValue stores a value for the given class parameter ID. It
// grows the parameter slice lazily so devices built before all class
// parameters were registered still behave correctly.
func (d *Device) SetParameterValue(paramID int, value float64) {
	if paramID < 0 {
		return
	}
	if paramID >= len(d.params) {
		grown := make([]float64, paramID+1)
		copy(grown, d.params)
		d.params = grown
	}
	d.params[paramID] = value
}

// ParameterValueByName resolves a parameter by name before delegating to
// ParameterValue; used by combiners and writers.
func (d *Device) ParameterValueByName(name string) (float64, bool) {
	pd := d.class.ParameterByName(name)
	if pd == nil {
		return 0, false
	}
	return d.ParameterValue(pd.ID), true
}

// SetParameterValueByName resolves a parameter by name before delegating
// to SetParameterValue.
func (d *Device) SetParameterValueByName(name string, value float64) bool {
	pd := d.class.ParameterByName(name)
	if pd == nil {
		return false
	}
	d.SetParameterValue(pd.ID, value)
	return true
}

// TerminalNet returns the net connected to the given terminal ID, or nil
// if unconnected.
func (d *Device) TerminalNet(terminalID int) *Net {
	if terminalID < 0 || terminalID >= len(d.terminalNets) {
		return nil
	}
	return d.terminalNets[terminalID]
}

// Connect wires the given terminal to net, updating both sides of the
// back-reference symmetrically. Connecting an already-connected terminal
// first disconnects it.
func (d *Device) Connect(terminalID int, net *Net) {
	if terminalID < 0 {
		return
	}
	if terminalID >= len(d.terminalNets) {
		grown := make([]*Net, terminalID+1)
		copy(grown, d.terminalNets)
		d.terminalNets = grown
	}
	if cur := d.terminalNets[terminalID]; cur != nil {
		cur.removeTerminalRef(d, terminalID)
	}
	d.terminalNets[terminalID] = net
	if net != nil {
		net.addTerminalRef(d, terminalID)
	}
}

// Disconnect unwires the given terminal from whatever net it is on.
func (d *Device) Disconnect(terminalID int) {
	d.Connect(terminalID, nil)
}

// AddReconnection records that terminalID was rewired through an
// intermediate net when this device absorbed another during combination.
func (d *Device) AddReconnection(terminalID int, viaNet *Net) {
	d.reconnections = append(d.reconnections, Reconnection{TerminalID: terminalID, ViaNet: viaNet})
}

// Reconnections returns the recorded reconnection metadata.
func (d *Device) Reconnections() []Reconnection {
	out := make([]Reconnection, len(d.reconnections))
	copy(out, d.reconnections)
	return out
}

// AddOtherAbstract records another device subsumed by this one during
// CombineDevices, so that downstream geometry consumers can still trace
// back to every original device without this core duplicating geometry.
func (d *Device) AddOtherAbstract(other *Device) {
	d.otherAbstract = append(d.otherAbstract, other)
}

// OtherAbstract returns the devices subsumed by this one.
func (d *Device) OtherAbstract() []*Device {
	out := make([]*Device, len(d.otherAbstract))
	copy(out, d.otherAbstract)
	return out
}

func (d *Device) disconnectAll() {
	for t, net := range d.terminalNets {
		if net != nil {
			net.removeTerminalRef(d, t)
		}
	}
	d.terminalNets = nil
}
