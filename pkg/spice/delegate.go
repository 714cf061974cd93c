package spice

import (
	"fmt"

	"github.com/openlvs/lvscore/pkg/devclass"
	"github.com/openlvs/lvscore/pkg/netlist"
)

// Element is the decoded form of one SPICE element line, passed to
// Delegate.Element (spec.md §4.4, §6): the leading letter, the element's
// own name (without the letter), the bound model name (possibly ""), an
// explicit value for the primary parameter (ignored if hasValue is
// false), the terminal nets in the element's fixed order, and any
// key=value parameters parsed off the line (including M, SCALE-relevant
// geometry and anything the caller wants to see).
type Element struct {
	Kind     byte
	Name     string
	Model    string
	Value    float64
	HasValue bool
	Nets     []string
	Params   map[string]float64
}

// Delegate customizes SPICE reading (spec.md §4.4, §6): net name
// translation, claiming control statements the reader doesn't itself
// handle, opting into subcircuit-as-device treatment, and building the
// device for a decoded element.
type Delegate interface {
	Start(nl *netlist.Netlist)
	Finish(nl *netlist.Netlist)

	// ControlStatement handles a "."-statement the reader doesn't
	// recognize itself. It reports whether the statement was claimed.
	ControlStatement(name string, args []string) bool

	// WantsSubcircuit reports whether a named subcircuit should be
	// represented as an opaque device rather than expanded as a
	// SubCircuit instance.
	WantsSubcircuit(name string) bool

	// TranslateNetName maps a raw (already unescaped) net name to its
	// stored form.
	TranslateNetName(name string) string

	// Element builds (or rejects) the device for a decoded element
	// within circuit c.
	Element(nl *netlist.Netlist, c *netlist.Circuit, el Element) error
}

// DefaultDelegate is the built-in Delegate: it builds devices from
// pkg/devclass's built-in library, creating per-model classes on demand
// (e.g. an `M1 ... HVPMOS ...` line gets its own class named "HVPMOS"),
// and applies the M= multiplier scaling table from spec.md §4.4.
type DefaultDelegate struct {
	classes map[string]*netlist.DeviceClass
}

// NewDefaultDelegate builds a DefaultDelegate with the built-in classes
// pre-registered under their canonical names (RES, CAP, IND, ...).
func NewDefaultDelegate() *DefaultDelegate {
	d := &DefaultDelegate{classes: map[string]*netlist.DeviceClass{}}
	for _, c := range devclass.Library() {
		d.classes[c.Name()] = c
	}
	return d
}

func (d *DefaultDelegate) Start(nl *netlist.Netlist) {
	for _, c := range d.classes {
		if nl.DeviceClassByName(c.Name()) == nil {
			nl.AddDeviceClass(c)
		}
	}
}

func (d *DefaultDelegate) Finish(nl *netlist.Netlist) {}

func (d *DefaultDelegate) ControlStatement(name string, args []string) bool { return false }

func (d *DefaultDelegate) WantsSubcircuit(name string) bool { return false }

func (d *DefaultDelegate) TranslateNetName(name string) string { return unescapeName(name) }

// classFor resolves (creating if needed) the device class for a named
// model bound to a given built-in shape: "RES"/"CAP"/"IND"/"DIODE" when
// no explicit model is given (model == ""), or a class named after the
// model itself, cloned from the shape's terminal/parameter schema the
// first time it is seen.
func (d *DefaultDelegate) classFor(shape, model string, withBulk bool) *netlist.DeviceClass {
	name := model
	if name == "" {
		name = shape
	}
	if c, ok := d.classes[name]; ok {
		return c
	}
	var c *netlist.DeviceClass
	switch shape {
	case devclass.Resistor:
		c = devclass.NewResistor(name, withBulk)
	case devclass.Capacitor:
		c = devclass.NewCapacitor(name, withBulk)
	case devclass.InductorClass:
		c = devclass.NewInductor(name)
	case devclass.DiodeClass:
		c = devclass.NewDiode(name)
	default:
		return nil
	}
	d.classes[name] = c
	return c
}

func (d *DefaultDelegate) Element(nl *netlist.Netlist, c *netlist.Circuit, el Element) error {
	switch el.Kind {
	case 'R', 'C', 'L':
		return d.buildRCL(nl, c, el)
	case 'D':
		return d.buildDiode(nl, c, el)
	case 'M':
		return d.buildMOS(nl, c, el)
	case 'Q':
		return d.buildBJT(nl, c, el)
	default:
		return &SemanticError{Msg: fmt.Sprintf("unsupported element kind %q", string(el.Kind))}
	}
}

func multiplier(params map[string]float64) (float64, error) {
	m, ok := params["M"]
	if !ok {
		return 1, nil
	}
	if m <= 0 {
		return 0, &SemanticError{Msg: fmt.Sprintf("invalid multiplier M=%v: must be positive", m)}
	}
	return m, nil
}

func (d *DefaultDelegate) buildRCL(nl *netlist.Netlist, c *netlist.Circuit, el Element) error {
	var shape string
	var primary string
	switch el.Kind {
	case 'R':
		shape, primary = devclass.Resistor, "R"
	case 'C':
		shape, primary = devclass.Capacitor, "C"
	case 'L':
		shape, primary = devclass.InductorClass, "L"
	}
	withBulk := len(el.Nets) >= 3
	if withBulk && shape == devclass.Resistor {
		shape = devclass.ResistorWithBulk
	}
	if withBulk && shape == devclass.Capacitor {
		shape = devclass.CapacitorWithBulk
	}
	class := d.classFor(shape, el.Model, withBulk)
	if class == nil {
		return &SemanticError{Msg: fmt.Sprintf("no device class for element %s", el.Name)}
	}
	class = ensureClass(nl, class)

	dev := c.AddDevice(class, el.Name)
	if err := wireNets(nl, c, dev, el.Nets); err != nil {
		return err
	}

	m, err := multiplier(el.Params)
	if err != nil {
		return err
	}

	value := el.Value
	switch el.Kind {
	case 'R', 'L':
		value /= m
	case 'C':
		value *= m
	}
	if el.HasValue {
		dev.SetParameterValueByName(primary, value)
	}
	for name, v := range el.Params {
		if name == primary || name == "M" {
			continue
		}
		if isAreaLikeParam(name) {
			v *= m
		}
		dev.SetParameterValueByName(name, v)
	}
	return nil
}

func (d *DefaultDelegate) buildDiode(nl *netlist.Netlist, c *netlist.Circuit, el Element) error {
	if len(el.Nets) != 2 {
		return &SemanticError{Msg: fmt.Sprintf("diode %s: expected 2 nets, got %d", el.Name, len(el.Nets))}
	}
	class := d.classFor(devclass.DiodeClass, el.Model, false)
	class = ensureClass(nl, class)
	dev := c.AddDevice(class, el.Name)
	if err := wireNets(nl, c, dev, el.Nets); err != nil {
		return err
	}
	m, err := multiplier(el.Params)
	if err != nil {
		return err
	}
	for name, v := range el.Params {
		if name == "M" {
			continue
		}
		if isAreaLikeParam(name) {
			v *= m
		}
		dev.SetParameterValueByName(name, v)
	}
	return nil
}

func (d *DefaultDelegate) buildMOS(nl *netlist.Netlist, c *netlist.Circuit, el Element) error {
	if len(el.Nets) != 4 {
		return &SemanticError{Msg: fmt.Sprintf("MOS %s: expected 4 nets (D,G,S,B), got %d", el.Name, len(el.Nets))}
	}
	if el.Model == "" {
		return &SemanticError{Msg: fmt.Sprintf("MOS %s: missing model name", el.Name)}
	}
	class, ok := d.classes[el.Model]
	if !ok {
		class = devclass.NewMOS(el.Model, true)
		d.classes[el.Model] = class
	}
	class = ensureClass(nl, class)

	dev := c.AddDevice(class, el.Name)
	// Element node order is D,G,S,B; class terminal order is S,G,D,B.
	order := []string{el.Nets[2], el.Nets[1], el.Nets[0], el.Nets[3]}
	if err := wireNets(nl, c, dev, order); err != nil {
		return err
	}

	m, err := multiplier(el.Params)
	if err != nil {
		return err
	}
	for name, v := range el.Params {
		if name == "M" {
			continue
		}
		if name == "W" || isAreaLikeParam(name) {
			v *= m
		}
		dev.SetParameterValueByName(name, v)
	}
	return nil
}

func (d *DefaultDelegate) buildBJT(nl *netlist.Netlist, c *netlist.Circuit, el Element) error {
	fourTerminal := len(el.Nets) == 4
	if len(el.Nets) != 3 && len(el.Nets) != 4 {
		return &SemanticError{Msg: fmt.Sprintf("BJT %s: expected 3 or 4 nets, got %d", el.Name, len(el.Nets))}
	}
	if el.Model == "" {
		return &SemanticError{Msg: fmt.Sprintf("BJT %s: missing model name", el.Name)}
	}
	class, ok := d.classes[el.Model]
	if !ok {
		class = devclass.NewBJT(el.Model, fourTerminal)
		d.classes[el.Model] = class
	}
	class = ensureClass(nl, class)
	dev := c.AddDevice(class, el.Name)
	if err := wireNets(nl, c, dev, el.Nets); err != nil {
		return err
	}
	for name, v := range el.Params {
		dev.SetParameterValueByName(name, v)
	}
	return nil
}

// ensureClass registers c with nl the first time its name is seen and
// returns whichever instance is now canonical for that name.
func ensureClass(nl *netlist.Netlist, c *netlist.DeviceClass) *netlist.DeviceClass {
	if existing := nl.DeviceClassByName(c.Name()); existing != nil {
		return existing
	}
	nl.AddDeviceClass(c)
	return c
}

func isAreaLikeParam(name string) bool {
	switch name {
	case "A", "P", "AD", "AS", "PD", "PS", "AE", "AB", "AC", "PE", "PB", "PC":
		return true
	default:
		return false
	}
}

func wireNets(nl *netlist.Netlist, c *netlist.Circuit, dev *netlist.Device, nets []string) error {
	for i, n := range nets {
		dev.Connect(i, findOrCreateNet(nl, c, n))
	}
	return nil
}

// findOrCreateNet looks up a net by name within c under the netlist's
// case policy, creating it if this is the first reference (spec.md §4.4:
// a net springs into existence the first time an element or pin names
// it). Every device terminal the DefaultDelegate wires goes through this
// linear scan; Reader.netFor caches pin and subcircuit-call nets and
// falls back to this function on a cache miss.
func findOrCreateNet(nl *netlist.Netlist, c *netlist.Circuit, name string) *netlist.Net {
	for _, n := range c.Nets() {
		if nl.NormalizeName(n.Name()) == nl.NormalizeName(name) {
			return n
		}
	}
	return c.AddNet(name)
}
