package matcher

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/openlvs/lvscore/pkg/netgraph"
	"github.com/openlvs/lvscore/pkg/netlist"
	"github.com/openlvs/lvscore/pkg/xref"
)

// reportNets walks every matched net/net pair and tells the logger
// about it, also recording the pairing on the graph nodes themselves
// via Identify so a caller walking g1/g2 afterwards can see the same
// result the logger was told about.
func (m *Matcher) reportNets(g1, g2 *netgraph.Graph, st *mapping) {
	for i, n1 := range g1.Nodes {
		if n1.Net == nil {
			continue
		}
		b, ok := st.bFor(i)
		if !ok {
			continue
		}
		n2 := g2.Nodes[b]
		ambiguous := st.isAmbiguous(i, b)
		n1.Identify(b, !ambiguous)
		n2.Identify(i, !ambiguous)
		if n2.Net == nil {
			continue
		}
		if ambiguous {
			m.logger.MatchAmbiguousNets(n1.Net, n2.Net, "net identity resolved by tie-break, not uniquely determined")
		} else {
			m.logger.MatchNets(n1.Net, n2.Net)
		}
	}
}

// reportSubcircuits matches ca's subcircuit instances against cb's by
// looking up, for each instance's virtual graph node, what the
// backtracking search matched it to — subcircuit instances are nodes
// in the comparison graph just like nets, so no separate equivalence
// tracker is needed beyond the mapping already built.
func (m *Matcher) reportSubcircuits(ca, cb *netlist.Circuit, g1, g2 *netgraph.Graph, st *mapping) {
	usedB := map[*netlist.SubCircuit]bool{}
	for _, sc := range ca.SubCircuits() {
		vn := g1.IndexOfSubCircuit(sc)
		vb, ok := st.bFor(vn)
		if !ok {
			m.logger.SubcircuitMismatch(sc, nil, "no corresponding subcircuit instance")
			continue
		}
		other := g2.Nodes[vb].SubCircuit
		if other == nil {
			m.logger.SubcircuitMismatch(sc, nil, "matched to a net, not a subcircuit instance")
			continue
		}
		usedB[other] = true
		if !m.circClass.Same(sc.Child(), other.Child()) {
			m.logger.SubcircuitMismatch(sc, other, "instances are of different child circuits")
			continue
		}
		m.logger.MatchSubcircuits(sc, other)
	}
	for _, sc := range cb.SubCircuits() {
		if !usedB[sc] {
			m.logger.SubcircuitMismatch(nil, sc, "no corresponding subcircuit instance in the reference circuit")
		}
	}
}

// reportPins reports, for each reference-circuit pin, which layout pin
// (if any) sits on the net the backtracking search matched its net to.
func (m *Matcher) reportPins(ca, cb *netlist.Circuit, g1, g2 *netgraph.Graph, st *mapping) {
	for i := 0; i < ca.PinCount(); i++ {
		pa := ca.Pin(i)
		a := g1.IndexOfNet(ca.PinNet(i))
		b, ok := st.bFor(a)
		if !ok || g2.Nodes[b].Net == nil {
			m.logger.PinMismatch(pa, nil, "pin net has no matched layout net")
			continue
		}
		var pb *netlist.Pin
		for j := 0; j < cb.PinCount(); j++ {
			if g2.IndexOfNet(cb.PinNet(j)) == b {
				pb = cb.Pin(j)
				break
			}
		}
		if pb == nil {
			m.logger.PinMismatch(pa, nil, "no layout pin on the matched net")
			continue
		}
		m.logger.MatchPins(pa, pb)
	}
}

// reportDevices pairs up ca's and cb's devices by translating each of
// ca's device's terminal net indices through the established net
// mapping and matching the translated key against cb's devices' own
// native keys — this is the "translated key" scheme spec.md §4.7's
// device equivalence tracker reduces to once the net mapping already
// exists, avoiding a second matching pass over devices.
func (m *Matcher) reportDevices(ca, cb *netlist.Circuit, g1, g2 *netgraph.Graph, st *mapping) {
	byKey := map[string]*netlist.Device{}
	for _, db := range cb.Devices() {
		if !m.deviceFilter(db) {
			continue
		}
		if key, ok := deviceKey(g2, db, m.devClass.Category(db.Class()), nil); ok {
			byKey[key] = db
		}
	}

	used := map[*netlist.Device]bool{}
	for _, da := range ca.Devices() {
		if !m.deviceFilter(da) {
			continue
		}
		key, ok := deviceKey(g1, da, m.devClass.Category(da.Class()), func(i int) (int, bool) { return st.bFor(i) })
		if !ok {
			m.logger.DeviceMismatch(da, nil, "a device terminal net was not matched")
			continue
		}
		db := byKey[key]
		if db == nil || used[db] {
			m.logger.DeviceMismatch(da, nil, "no corresponding device found in the layout circuit")
			continue
		}
		used[db] = true
		m.reportDevicePair(da, db)
	}

	for _, db := range cb.Devices() {
		if m.deviceFilter(db) && !used[db] {
			m.logger.DeviceMismatch(nil, db, "no corresponding device in the reference circuit")
		}
	}
}

func (m *Matcher) reportDevicePair(da, db *netlist.Device) {
	switch {
	case !m.devClass.Same(da.Class(), db.Class()):
		m.logger.MatchDevicesWithDifferentDeviceClasses(da, db)
	case da.Class().Comparator() != nil && !da.Class().Comparator().Equal(da, db):
		m.logger.MatchDevicesWithDifferentParameters(da, db)
	default:
		m.logger.MatchDevices(da, db)
	}
}

// deviceKey builds a string key identifying d by its device-class
// category and the sorted graph-node indices of the nets its
// terminals connect to, each optionally passed through translate
// (nil when keying the layout side's own devices, the net mapping's
// bFor when keying the reference side's devices for lookup against
// the layout side's table). A translate miss (a terminal net that
// wasn't matched to anything) makes the device unkeyable.
func deviceKey(g *netgraph.Graph, d *netlist.Device, category int, translate func(int) (int, bool)) (string, bool) {
	terms := d.Class().Terminals()
	idxs := make([]int, 0, len(terms))
	for _, t := range terms {
		net := d.TerminalNet(t.ID)
		if net == nil {
			continue
		}
		idx := g.IndexOfNet(net)
		if idx == netgraph.NoMatch {
			continue
		}
		if translate != nil {
			ti, ok := translate(idx)
			if !ok {
				return "", false
			}
			idx = ti
		}
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	parts := make([]string, len(idxs))
	for i, v := range idxs {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%d:%s", category, strings.Join(parts, ",")), true
}

// reportUnmatchedNode tells the logger about one graph node that the
// backtracking search never matched to anything — a's side is non-nil
// when a reference node went unmatched, b's side when a layout node
// did.
func reportUnmatchedNode(logger xref.Logger, a, b *netgraph.Node) {
	switch {
	case a != nil && a.Net != nil:
		logger.NetMismatch(a.Net, nil, "net has no structural counterpart")
	case b != nil && b.Net != nil:
		logger.NetMismatch(nil, b.Net, "net has no structural counterpart")
	case a != nil && a.SubCircuit != nil:
		logger.SubcircuitMismatch(a.SubCircuit, nil, "subcircuit instance has no structural counterpart")
	case b != nil && b.SubCircuit != nil:
		logger.SubcircuitMismatch(nil, b.SubCircuit, "subcircuit instance has no structural counterpart")
	}
}
