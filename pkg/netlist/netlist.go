package netlist

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StructuralError reports a violation of a netlist structural invariant
// (spec.md §7): a cyclic subcircuit reference, or an attempt to remove a
// circuit that is still referenced by a live subcircuit instance.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return e.Msg }

// Netlist is the root container: it owns the set of DeviceClass and
// Circuit objects for its lifetime (spec.md §3).
type Netlist struct {
	caseSensitive bool

	deviceClasses []*DeviceClass
	circuits      []*Circuit

	// referrers maps a circuit to the live subcircuit instances that
	// reference it as a child, across the whole netlist — used by
	// RemoveCircuit/PurgeCircuit and topological sort.
	referrers map[*Circuit][]*SubCircuit

	topoOrder []*Circuit
	topoValid bool
	topoErr   error
	lockDepth int
	dirty     bool

	caser cases.Caser
}

// New creates an empty netlist. caseSensitive controls the default name
// comparison policy (spec.md §4.2); individual circuits may override it.
func New(caseSensitive bool) *Netlist {
	return &Netlist{
		caseSensitive: caseSensitive,
		referrers:     map[*Circuit][]*SubCircuit{},
		caser:         cases.Fold(),
	}
}

// CaseSensitive reports the netlist's default case-sensitivity policy.
func (nl *Netlist) CaseSensitive() bool { return nl.caseSensitive }

// NormalizeName applies the combined_case_sensitive name policy
// (spec.md §4.2): under a case-insensitive policy, names are folded with
// Unicode case folding before comparison/storage-as-key use.
func (nl *Netlist) NormalizeName(name string) string {
	if nl.caseSensitive {
		return name
	}
	return nl.caser.String(name)
}

// combinedCaseSensitive implements
// combined_case_sensitive(a,b) = a.case_sensitive && b.case_sensitive.
func combinedCaseSensitive(a, b *Circuit) bool {
	return a.CaseSensitive() && b.CaseSensitive()
}

// namesEqual compares two names under the combined case policy of the
// two circuits they come from (falls back to the netlist default if a
// circuit is nil, e.g. comparing bare device-class names).
func (nl *Netlist) namesEqual(a string, ca *Circuit, b string, cb *Circuit) bool {
	sensitive := nl.caseSensitive
	if ca != nil && cb != nil {
		sensitive = combinedCaseSensitive(ca, cb)
	}
	if sensitive {
		return a == b
	}
	return nl.caser.String(a) == nl.caser.String(b)
}

// --- Device classes -------------------------------------------------------

// AddDeviceClass adds a device class to the netlist.
func (nl *Netlist) AddDeviceClass(c *DeviceClass) {
	nl.deviceClasses = append(nl.deviceClasses, c)
}

// DeviceClasses returns all device classes in the netlist.
func (nl *Netlist) DeviceClasses() []*DeviceClass {
	out := make([]*DeviceClass, len(nl.deviceClasses))
	copy(out, nl.deviceClasses)
	return out
}

// DeviceClassByName looks up a device class by name under the netlist's
// case policy.
func (nl *Netlist) DeviceClassByName(name string) *DeviceClass {
	norm := nl.NormalizeName(name)
	for _, c := range nl.deviceClasses {
		if nl.NormalizeName(c.Name()) == norm {
			return c
		}
	}
	return nil
}

// --- Circuits --------------------------------------------------------------

// Circuits returns all circuits in the netlist, in insertion order (not
// necessarily topological order; use BeginTopDown/BeginBottomUp for
// that).
func (nl *Netlist) Circuits() []*Circuit {
	out := make([]*Circuit, len(nl.circuits))
	copy(out, nl.circuits)
	return out
}

// CircuitByName looks up a circuit by name under the netlist's case
// policy.
func (nl *Netlist) CircuitByName(name string) *Circuit {
	norm := nl.NormalizeName(name)
	for _, c := range nl.circuits {
		if nl.NormalizeName(c.Name()) == norm {
			return c
		}
	}
	return nil
}

// AddCircuit creates, owns and returns a new circuit. The name must be
// unique within the netlist under the case policy.
func (nl *Netlist) AddCircuit(name string) (*Circuit, error) {
	if nl.CircuitByName(name) != nil {
		return nil, fmt.Errorf("netlist: duplicate circuit name %q", name)
	}
	c := newCircuit(nl, name)
	nl.circuits = append(nl.circuits, c)
	nl.invalidateTopology()
	return c, nil
}

// RemoveCircuit removes a circuit from the netlist. If the circuit is
// still referenced by any live subcircuit instance, removal fails with a
// StructuralError rather than leaving a dangling reference (spec.md §3).
func (nl *Netlist) RemoveCircuit(c *Circuit) error {
	if refs := nl.referrers[c]; len(refs) > 0 {
		return &StructuralError{Msg: fmt.Sprintf("netlist: cannot remove circuit %q: still referenced by %d subcircuit instance(s)", c.Name(), len(refs))}
	}
	nl.removeCircuitUnchecked(c)
	return nil
}

// BlankCircuit keeps the circuit's pins (and therefore every caller's
// pin-to-net wiring) but drops its nets, devices and subcircuits,
// leaving a reference-safe empty shell. This is the alternative to
// RemoveCircuit's failure mode for circuits that must stay referenced
// (spec.md §3's "fail or blank" lifecycle rule).
func (c *Circuit) BlankCircuit() {
	for _, d := range c.Devices() {
		c.RemoveDevice(d)
	}
	for _, sc := range c.SubCircuits() {
		c.RemoveSubCircuit(sc)
	}
	for _, n := range c.Nets() {
		c.RemoveNet(n)
	}
}

func (nl *Netlist) removeCircuitUnchecked(c *Circuit) {
	for _, sc := range c.SubCircuits() {
		c.RemoveSubCircuit(sc)
	}
	delete(nl.referrers, c)
	for i, x := range nl.circuits {
		if x == c {
			nl.circuits = append(nl.circuits[:i], nl.circuits[i+1:]...)
			break
		}
	}
	nl.invalidateTopology()
}

// PurgeCircuit deletes c and, transitively, every child circuit that
// becomes unreferenced as a result (spec.md §4.2). Circuits with
// DontPurge set are skipped even if they become orphaned.
func (nl *Netlist) PurgeCircuit(c *Circuit) {
	nl.purgeCircuitRec(c, map[*Circuit]bool{})
}

func (nl *Netlist) purgeCircuitRec(c *Circuit, visited map[*Circuit]bool) {
	if visited[c] {
		return
	}
	visited[c] = true

	children := map[*Circuit]bool{}
	for _, sc := range c.SubCircuits() {
		children[sc.Child()] = true
	}

	nl.removeCircuitUnchecked(c)

	for child := range children {
		if child.DontPurge() {
			continue
		}
		if len(nl.referrers[child]) == 0 {
			nl.purgeCircuitRec(child, visited)
		}
	}
}

func (nl *Netlist) addReferrer(child *Circuit, sc *SubCircuit) {
	nl.referrers[child] = append(nl.referrers[child], sc)
}

func (nl *Netlist) removeReferrer(child *Circuit, sc *SubCircuit) {
	refs := nl.referrers[child]
	for i, x := range refs {
		if x == sc {
			nl.referrers[child] = append(refs[:i], refs[i+1:]...)
			return
		}
	}
}

// Referrers returns the live subcircuit instances that reference c as a
// child, across the whole netlist.
func (nl *Netlist) Referrers(c *Circuit) []*SubCircuit {
	out := make([]*SubCircuit, len(nl.referrers[c]))
	copy(out, nl.referrers[c])
	return out
}

// TopLevelCircuits returns the circuits with no referrers: the entry
// points of the hierarchy.
func (nl *Netlist) TopLevelCircuits() []*Circuit {
	var out []*Circuit
	for _, c := range nl.circuits {
		if len(nl.referrers[c]) == 0 {
			out = append(out, c)
		}
	}
	return out
}
