package matcher

// pairIdx names one frontier identification: node index a in graph 1
// paired with node index b in graph 2 (net indices and virtual
// subcircuit-instance indices share the same index space, per
// netgraph.Graph).
type pairIdx struct {
	A, B int
}

// mapping is the tentative net/virtual-node identification built up
// during one circuit-pair's backtracking search.
//
// Per spec.md §9's design note, this is the "immutable mapping
// snapshot" alternative to the original's in-place mutation plus undo
// record: Go has no RAII destructor to drive an automatic unwind, so
// instead of mutating one shared mapping and replaying undo records on
// failure, every speculative branch (pkg/matcher's ambiguity
// permutation trials) works against its own clone() and is simply
// discarded — never adopted — if it doesn't pan out.
type mapping struct {
	aToB      map[int]int
	bToA      map[int]int
	ambiguous map[pairIdx]bool
}

func newMapping() *mapping {
	return &mapping{aToB: map[int]int{}, bToA: map[int]int{}, ambiguous: map[pairIdx]bool{}}
}

func (m *mapping) clone() *mapping {
	c := &mapping{
		aToB:      make(map[int]int, len(m.aToB)),
		bToA:      make(map[int]int, len(m.bToA)),
		ambiguous: make(map[pairIdx]bool, len(m.ambiguous)),
	}
	for k, v := range m.aToB {
		c.aToB[k] = v
	}
	for k, v := range m.bToA {
		c.bToA[k] = v
	}
	for k, v := range m.ambiguous {
		c.ambiguous[k] = v
	}
	return c
}

// adopt replaces m's contents with o's, the "commit" half of the
// clone-and-discard undo model.
func (m *mapping) adopt(o *mapping) {
	m.aToB = o.aToB
	m.bToA = o.bToA
	m.ambiguous = o.ambiguous
}

// identify records a<->b, or confirms it if already recorded. It fails
// (returns false) if either side is already mapped to a different
// partner — a contradiction.
func (m *mapping) identify(a, b int) bool {
	if pb, ok := m.aToB[a]; ok {
		return pb == b
	}
	if pa, ok := m.bToA[b]; ok {
		return pa == a
	}
	m.aToB[a] = b
	m.bToA[b] = a
	return true
}

func (m *mapping) bFor(a int) (int, bool) { v, ok := m.aToB[a]; return v, ok }
func (m *mapping) aFor(b int) (int, bool) { v, ok := m.bToA[b]; return v, ok }

func (m *mapping) markAmbiguous(a, b int)    { m.ambiguous[pairIdx{a, b}] = true }
func (m *mapping) isAmbiguous(a, b int) bool { return m.ambiguous[pairIdx{a, b}] }
