// Package matcher implements hierarchical netlist comparison: matching
// one netlist's circuits against another's nets, devices, subcircuits
// and pins, bottom-up through the circuit hierarchy (spec.md §4.7).
//
// Grounded on original_source/src/db/db/dbNetlistCompare.h's
// NetlistComparer, whose public configuration surface (same_nets,
// equivalent_pins, same_device_classes, same_circuits, exclude_caps,
// exclude_resistors, max_depth, max_branch_complexity, depth_first,
// dont_consider_net_names) Matcher's setters mirror one-for-one.
package matcher

import (
	"fmt"
	"strings"

	"github.com/openlvs/lvscore/pkg/categorize"
	"github.com/openlvs/lvscore/pkg/devclass"
	"github.com/openlvs/lvscore/pkg/netgraph"
	"github.com/openlvs/lvscore/pkg/netlist"
	"github.com/openlvs/lvscore/pkg/xref"
)

// Matcher compares circuits from two netlists and reports the outcome
// through a Logger. The zero value is not usable; construct with New.
type Matcher struct {
	logger xref.Logger

	devClass  *categorize.DeviceClassCategorizer
	circClass *categorize.CircuitCategorizer
	pinClass  *categorize.CircuitPinCategorizer

	netHints map[netPairKey]bool // explicit same_nets(a, b, mustMatch) overrides, keyed by pointer pair

	capThreshold    float64
	hasCapThreshold bool
	resThreshold    float64
	hasResThreshold bool

	maxDepth             int
	maxBranchComplexity  int
	depthFirst           bool
	dontConsiderNetNames bool

	verified map[*netlist.Circuit]bool
	pairOf   map[*netlist.Circuit]*netlist.Circuit
}

type netPairKey struct{ a, b *netlist.Net }

// New creates a Matcher. caseSensitive controls whether circuit, net
// and pin names are folded before comparison, mirroring
// netlist.Netlist.CaseSensitive.
func New(caseSensitive bool, logger xref.Logger) *Matcher {
	if logger == nil {
		logger = xref.NopLogger
	}
	fold := strings.ToUpper
	if caseSensitive {
		fold = func(s string) string { return s }
	}
	circClass := categorize.NewCircuitCategorizer(fold)
	return &Matcher{
		logger:              logger,
		devClass:            categorize.NewDeviceClassCategorizer(fold),
		circClass:           circClass,
		pinClass:            categorize.NewCircuitPinCategorizer(circClass),
		netHints:            map[netPairKey]bool{},
		maxBranchComplexity: 100,
		depthFirst:          true,
		verified:            map[*netlist.Circuit]bool{},
		pairOf:              map[*netlist.Circuit]*netlist.Circuit{},
	}
}

// SameNets declares na (from the reference netlist) and nb (from the
// layout netlist) as a forced or hinted net pairing. When mustMatch is
// true the compare fails outright if the backtracking search would
// otherwise identify na with a different node.
func (m *Matcher) SameNets(na, nb *netlist.Net, mustMatch bool) {
	m.netHints[netPairKey{na, nb}] = mustMatch
}

// EquivalentPins declares the pins of circuit (which must belong to
// the reference netlist) named by pinIDs as mutually swappable, the
// same relation netgraph.Build's pin categorizer consults when
// building a subcircuit instance's transitions.
func (m *Matcher) EquivalentPins(circuit *netlist.Circuit, pinIDs ...int) error {
	m.pinClass.MarkReference(circuit)
	for i := 1; i < len(pinIDs); i++ {
		if err := m.pinClass.MergePins(circuit, pinIDs[0], pinIDs[i]); err != nil {
			return err
		}
	}
	return nil
}

// SameDeviceClasses declares a and b as equivalent for matching
// purposes even though their names differ.
func (m *Matcher) SameDeviceClasses(a, b *netlist.DeviceClass) { m.devClass.SameClass(a, b) }

// SameCircuits pre-binds ca (reference) to cb (layout) as the circuit
// pair Compare should match, bypassing name-based pairing.
func (m *Matcher) SameCircuits(ca, cb *netlist.Circuit) error { return m.circClass.Bind(ca, cb) }

// ExcludeCaps drops capacitors whose primary "C" parameter falls below
// threshold from both graphs before matching, so stray parasitic caps
// don't block an otherwise-correct match.
func (m *Matcher) ExcludeCaps(threshold float64) {
	m.capThreshold, m.hasCapThreshold = threshold, true
}

// ExcludeResistors drops resistors whose primary "R" parameter exceeds
// threshold, the same filter for stray leakage-path resistors.
func (m *Matcher) ExcludeResistors(threshold float64) {
	m.resThreshold, m.hasResThreshold = threshold, true
}

func (m *Matcher) SetMaxDepth(n int) { m.maxDepth = n }
func (m *Matcher) MaxDepth() int     { return m.maxDepth }

func (m *Matcher) SetMaxBranchComplexity(n int) { m.maxBranchComplexity = n }
func (m *Matcher) MaxBranchComplexity() int     { return m.maxBranchComplexity }

func (m *Matcher) SetDepthFirst(v bool) { m.depthFirst = v }
func (m *Matcher) DepthFirst() bool     { return m.depthFirst }

// SetDontConsiderNetNames disables net-name-based pin seeding,
// matching circuit interfaces purely by pin position instead — mainly
// useful for testing the structural matcher in isolation.
func (m *Matcher) SetDontConsiderNetNames(v bool) { m.dontConsiderNetNames = v }
func (m *Matcher) DontConsiderNetNames() bool     { return m.dontConsiderNetNames }

func (m *Matcher) SetLogger(l xref.Logger) {
	if l == nil {
		l = xref.NopLogger
	}
	m.logger = l
}

// deviceFilter reports whether d should take part in matching, after
// ExcludeCaps/ExcludeResistors thresholds.
func (m *Matcher) deviceFilter(d *netlist.Device) bool {
	name := d.Class().Name()
	if m.hasCapThreshold && (name == devclass.Capacitor || name == devclass.CapacitorWithBulk) {
		if v, ok := d.ParameterValueByName("C"); ok && v < m.capThreshold {
			return false
		}
	}
	if m.hasResThreshold && (name == devclass.Resistor || name == devclass.ResistorWithBulk) {
		if v, ok := d.ParameterValueByName("R"); ok && v > m.resThreshold {
			return false
		}
	}
	return true
}

// Verified reports whether c was matched to a counterpart circuit by a
// prior Compare call.
func (m *Matcher) Verified(c *netlist.Circuit) bool { return m.verified[c] }

// MatchedCircuit returns the layout circuit ca (a reference circuit)
// was matched to by a prior Compare call.
func (m *Matcher) MatchedCircuit(ca *netlist.Circuit) (*netlist.Circuit, bool) {
	cb, ok := m.pairOf[ca]
	return cb, ok
}

// Compare matches a (the reference netlist) against b (the layout
// netlist), walking a's hierarchy bottom-up so every subcircuit
// instance's child circuit is already verified before its parent is
// compared (spec.md §2, §4.7). Returns true if every circuit in a
// found a matching, fully-equivalent counterpart in b, and every
// circuit in b was claimed by some circuit in a.
func (m *Matcher) Compare(a, b *netlist.Netlist) bool {
	m.logger.BeginNetlist(a, b)
	defer m.logger.EndNetlist(a, b)

	for _, c := range a.Circuits() {
		m.pinClass.MarkReference(c)
	}

	order, err := a.BeginBottomUp()
	if err != nil {
		m.logger.LogEntry(xref.SeverityError, fmt.Sprintf("reference netlist hierarchy: %v", err))
		return false
	}

	usedB := map[*netlist.Circuit]bool{}
	allGood := true
	for _, ca := range order {
		cb := m.pairFor(ca, b, usedB)
		if cb != nil {
			usedB[cb] = true
		}
		ok := m.compareCircuitPair(ca, cb)
		if ok {
			m.verified[ca] = true
			if cb != nil {
				m.verified[cb] = true
				m.pairOf[ca] = cb
			}
		}
		allGood = allGood && ok
	}

	for _, cb := range b.Circuits() {
		if !usedB[cb] {
			m.logger.CircuitMismatch(nil, cb, "no corresponding circuit in the reference netlist")
			allGood = false
		}
	}

	return allGood
}

// pairFor finds ca's counterpart in b: a pre-established SameCircuits
// binding takes priority, otherwise the first unclaimed circuit of b
// in the same name-category.
func (m *Matcher) pairFor(ca *netlist.Circuit, b *netlist.Netlist, usedB map[*netlist.Circuit]bool) *netlist.Circuit {
	if bound, ok := m.circClass.BoundCircuit(ca); ok && bound.Netlist() == b && !usedB[bound] {
		return bound
	}
	for _, cb := range b.Circuits() {
		if usedB[cb] {
			continue
		}
		if m.circClass.Same(ca, cb) {
			return cb
		}
	}
	return nil
}

// compareCircuitPair matches one circuit pair's pins, nets, devices and
// subcircuit instances. A circuit whose children aren't all verified
// is skipped outright (its own structure can't be trusted once a
// child is already known to mismatch) rather than compared anyway.
func (m *Matcher) compareCircuitPair(ca, cb *netlist.Circuit) bool {
	if cb == nil {
		m.logger.CircuitMismatch(ca, nil, "no corresponding circuit in the layout netlist")
		return false
	}
	if !m.allChildrenVerified(ca) || !m.allChildrenVerified(cb) {
		m.logger.CircuitSkipped(ca, cb, "a child subcircuit did not verify")
		return false
	}

	m.logger.BeginCircuit(ca, cb)

	if ca.PinCount() != cb.PinCount() {
		m.logger.EndCircuit(ca, cb, false, "pin counts differ")
		return false
	}

	g1 := netgraph.Build(ca, m.devClass, m.circClass, m.pinClass, m.deviceFilter)
	g2 := netgraph.Build(cb, m.devClass, m.circClass, m.pinClass, m.deviceFilter)

	st := newMapping()
	var queue []pairIdx
	for i := 0; i < ca.PinCount(); i++ {
		a1 := g1.IndexOfNet(ca.PinNet(i))
		var a2 int
		if m.dontConsiderNetNames {
			a2 = g2.IndexOfNet(cb.PinNet(i))
		} else if p := cb.PinByName(ca.Pin(i).Name()); p != nil {
			a2 = g2.IndexOfNet(cb.PinNet(p.ID()))
		} else {
			a2 = g2.IndexOfNet(cb.PinNet(i))
		}
		if a1 == netgraph.NoMatch || a2 == netgraph.NoMatch {
			continue
		}
		if !st.identify(a1, a2) {
			m.logger.EndCircuit(ca, cb, false, "pin interface nets conflict")
			return false
		}
		queue = append(queue, pairIdx{a1, a2})
	}

	for k, mustMatch := range m.netHints {
		a1, a2 := g1.IndexOfNet(k.a), g2.IndexOfNet(k.b)
		if a1 == netgraph.NoMatch || a2 == netgraph.NoMatch {
			continue
		}
		if !st.identify(a1, a2) {
			if mustMatch {
				m.logger.EndCircuit(ca, cb, false, "same_nets hint conflicts with structural match")
				return false
			}
			continue
		}
		queue = append(queue, pairIdx{a1, a2})
	}

	lim := limits{maxDepth: m.maxDepth, maxBranch: m.maxBranchComplexity, depthFirst: m.depthFirst}
	bud := newBudget(lim)
	und := &undecided{}
	ok := extend(g1, g2, st, queue, lim, bud, 0, und)

	if ok {
		ok = m.checkCoverage(ca, cb, g1, g2, st)
	}

	for _, p := range und.pairs {
		m.logger.LogEntry(xref.SeverityWarning, fmt.Sprintf(
			"circuit %q: ambiguity between node %d and node %d left undecided (search limit reached)",
			ca.Name(), p.A, p.B))
	}

	if ok {
		m.reportNets(g1, g2, st)
		m.reportDevices(ca, cb, g1, g2, st)
		m.reportSubcircuits(ca, cb, g1, g2, st)
		m.reportPins(ca, cb, g1, g2, st)
	}

	msg := ""
	if !ok {
		msg = "structural mismatch"
	}
	m.logger.EndCircuit(ca, cb, ok, msg)
	return ok
}

// allChildrenVerified reports whether every subcircuit instance inside
// c has a verified child circuit, the precondition spec.md §4.7 sets
// for comparing c's own structure at all.
func (m *Matcher) allChildrenVerified(c *netlist.Circuit) bool {
	for _, sc := range c.SubCircuits() {
		if !m.verified[sc.Child()] {
			return false
		}
	}
	return true
}

// checkCoverage reports whether every node in both graphs ended up
// matched — an unmatched net or subcircuit instance on either side
// means the two circuits aren't actually isomorphic even though no
// direct contradiction was hit during the walk (e.g. a whole
// disconnected component was never reached from the pin frontier).
func (m *Matcher) checkCoverage(ca, cb *netlist.Circuit, g1, g2 *netgraph.Graph, st *mapping) bool {
	ok := true
	for i, n := range g1.Nodes {
		if _, matched := st.bFor(i); !matched {
			reportUnmatchedNode(m.logger, n, nil)
			ok = false
		}
	}
	for j, n := range g2.Nodes {
		if _, matched := st.aFor(j); !matched {
			reportUnmatchedNode(m.logger, nil, n)
			ok = false
		}
	}
	return ok
}
