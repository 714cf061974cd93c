package netlist

// TerminalDefinition describes one terminal of a DeviceClass.
type TerminalDefinition struct {
	Name        string
	Description string
	ID          int
}

// ParameterDefinition describes one parameter of a DeviceClass.
type ParameterDefinition struct {
	Name        string
	Description string
	Default     float64
	ID          int

	// IsPrimary marks parameters that participate in comparison by
	// default (spec.md §4.7).
	IsPrimary bool

	// SIScaling is the factor applied when a textual value with an SI
	// unit suffix is stored (e.g. µm -> m gives 1e-6).
	SIScaling float64

	// GeometryExponent is the exponent of the global geometry scale
	// applied by ApplyParameterScaling (spec.md §4.3).
	GeometryExponent float64
}

// Combiner implements the class-specific arithmetic for merging two
// devices of the same class into one, for the parallel and serial cases
// described in spec.md §4.3. The connectivity checks (same two nodes /
// exactly one shared node) are generic and live in package manipulate;
// Combiner only computes the resulting parameter values.
type Combiner interface {
	// CombineParallel merges src into dst, which are wired to the same
	// pair of nets (up to terminal-equivalence); dst survives, src will
	// be removed by the caller.
	CombineParallel(dst, src *Device)

	// CombineSerial merges src into dst, which share exactly one
	// terminal's net (via); dst survives, src will be removed by the
	// caller, and the caller rewires dst's terminal to whatever lies on
	// the far side of src.
	CombineSerial(dst, src *Device, via *Net)
}

// ParameterComparator decides whether two devices of the same class have
// equal parameters for comparison purposes (spec.md §4.7). Built-ins
// implement EqualDeviceParameters (absolute/relative tolerance per
// parameter, primary-only by default, with an ignore list).
type ParameterComparator interface {
	Equal(a, b *Device) bool
}

// DeviceClass is the schema for a family of devices: its terminal list,
// parameter list, terminal-equivalence map (for swappable terminals like
// MOS source/drain), and pluggable combination/comparison policy
// (spec.md §3, §4.3).
type DeviceClass struct {
	name        string
	description string

	terminals []TerminalDefinition
	params    []ParameterDefinition

	equivTerminal map[int]int

	strict                      bool
	supportsParallelCombination bool
	supportsSerialCombination   bool

	combiner   Combiner
	comparator ParameterComparator
}

// NewDeviceClass creates an empty device class with the given name.
func NewDeviceClass(name string) *DeviceClass {
	return &DeviceClass{name: name, equivTerminal: map[int]int{}}
}

// Name returns the class name.
func (c *DeviceClass) Name() string { return c.name }

// SetName renames the class.
func (c *DeviceClass) SetName(name string) { c.name = name }

// Description returns the class description.
func (c *DeviceClass) Description() string { return c.description }

// SetDescription sets the class description.
func (c *DeviceClass) SetDescription(d string) { c.description = d }

// AddTerminal appends a terminal definition, assigning it the next ID.
func (c *DeviceClass) AddTerminal(name, description string) TerminalDefinition {
	td := TerminalDefinition{Name: name, Description: description, ID: len(c.terminals)}
	c.terminals = append(c.terminals, td)
	return td
}

// Terminals returns the ordered terminal list.
func (c *DeviceClass) Terminals() []TerminalDefinition { return c.terminals }

// TerminalByName looks up a terminal definition by name.
func (c *DeviceClass) TerminalByName(name string) *TerminalDefinition {
	for i := range c.terminals {
		if c.terminals[i].Name == name {
			return &c.terminals[i]
		}
	}
	return nil
}

// AddParameter appends a parameter definition, assigning it the next ID.
func (c *DeviceClass) AddParameter(p ParameterDefinition) ParameterDefinition {
	p.ID = len(c.params)
	if p.SIScaling == 0 {
		p.SIScaling = 1
	}
	c.params = append(c.params, p)
	return p
}

// Parameters returns the ordered parameter list.
func (c *DeviceClass) Parameters() []ParameterDefinition { return c.params }

// ParameterByName looks up a parameter definition by name.
func (c *DeviceClass) ParameterByName(name string) *ParameterDefinition {
	for i := range c.params {
		if c.params[i].Name == name {
			return &c.params[i]
		}
	}
	return nil
}

// SetEquivalentTerminals declares that terminal b is interchangeable with
// terminal a (and vice versa), e.g. MOS source/drain. Strict classes
// ignore this map (EquivalentTerminalID returns the identity).
func (c *DeviceClass) SetEquivalentTerminals(a, b int) {
	c.equivTerminal[a] = a
	c.equivTerminal[b] = a
}

// EquivalentTerminalID normalizes a terminal ID through the
// terminal-equivalence map, so that swappable terminals collapse to the
// same canonical ID (spec.md §4.6). Strict classes always return id
// unchanged.
func (c *DeviceClass) EquivalentTerminalID(id int) int {
	if c.strict {
		return id
	}
	if canon, ok := c.equivTerminal[id]; ok {
		return canon
	}
	return id
}

// Strict returns whether terminal-equivalence is disabled for this class.
func (c *DeviceClass) Strict() bool { return c.strict }

// SetStrict sets the strict flag.
func (c *DeviceClass) SetStrict(v bool) { c.strict = v }

// SupportsParallelCombination returns whether devices of this class may
// be combined when wired in parallel.
func (c *DeviceClass) SupportsParallelCombination() bool { return c.supportsParallelCombination }

// SetSupportsParallelCombination sets the flag.
func (c *DeviceClass) SetSupportsParallelCombination(v bool) { c.supportsParallelCombination = v }

// SupportsSerialCombination returns whether devices of this class may be
// combined when wired in series.
func (c *DeviceClass) SupportsSerialCombination() bool { return c.supportsSerialCombination }

// SetSupportsSerialCombination sets the flag.
func (c *DeviceClass) SetSupportsSerialCombination(v bool) { c.supportsSerialCombination = v }

// Combiner returns the class's combination policy, or nil.
func (c *DeviceClass) Combiner() Combiner { return c.combiner }

// SetCombiner installs a combination policy.
func (c *DeviceClass) SetCombiner(cb Combiner) { c.combiner = cb }

// Comparator returns the class's parameter comparator, or nil (in which
// case devices are never considered parameter-equal by generic callers
// that require one).
func (c *DeviceClass) Comparator() ParameterComparator { return c.comparator }

// SetComparator installs a parameter comparator.
func (c *DeviceClass) SetComparator(cmp ParameterComparator) { c.comparator = cmp }
