package netlist

import "fmt"

// invalidateTopology marks the cached topological order stale. While a
// NetlistLocker is held (lockDepth > 0), the cache is kept in place for
// iteration stability but flagged dirty for recomputation on final
// release, per spec.md §4.2/§5.
func (nl *Netlist) invalidateTopology() {
	if nl.lockDepth > 0 {
		nl.dirty = true
		return
	}
	nl.topoValid = false
	nl.topoOrder = nil
	nl.topoErr = nil
}

// topDownOrder returns circuits ordered so that every circuit appears
// before any circuit it instantiates (parents before children). It is
// computed lazily and cached; a cyclic subcircuit reference is reported
// as a StructuralError, validated lazily as spec.md §4.4's failure
// semantics require (not at parse time).
func (nl *Netlist) topDownOrder() ([]*Circuit, error) {
	if nl.topoValid {
		return nl.topoOrder, nl.topoErr
	}

	// Index-sorted traversal keeps the result deterministic across runs
	// with the same insertion order, per spec.md §4.2.
	indexOf := make(map[*Circuit]int, len(nl.circuits))
	for i, c := range nl.circuits {
		indexOf[c] = i
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*Circuit]int, len(nl.circuits))
	var order []*Circuit
	var cyclic *Circuit

	var visit func(c *Circuit) bool
	visit = func(c *Circuit) bool {
		color[c] = gray
		children := childCircuitsSorted(c, indexOf)
		for _, child := range children {
			switch color[child] {
			case gray:
				cyclic = child
				return false
			case white:
				if !visit(child) {
					return false
				}
			}
		}
		color[c] = black
		order = append(order, c)
		return true
	}

	ok := true
	for _, c := range nl.circuits {
		if color[c] == white {
			if !visit(c) {
				ok = false
				break
			}
		}
	}

	if !ok {
		nl.topoErr = &StructuralError{Msg: fmt.Sprintf("netlist: cyclic subcircuit reference involving circuit %q", cyclic.Name())}
		nl.topoOrder = nil
		nl.topoValid = true
		return nil, nl.topoErr
	}

	// order is currently bottom-up (children emitted before parents, by
	// construction of the post-order DFS); reverse for top-down.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	nl.topoOrder = order
	nl.topoErr = nil
	nl.topoValid = true
	return order, nil
}

func childCircuitsSorted(c *Circuit, indexOf map[*Circuit]int) []*Circuit {
	seen := map[*Circuit]bool{}
	var out []*Circuit
	for _, sc := range c.SubCircuits() {
		child := sc.Child()
		if !seen[child] {
			seen[child] = true
			out = append(out, child)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if indexOf[out[j]] < indexOf[out[i]] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// BeginTopDown returns the netlist's circuits in top-down topological
// order (parents before children), or an error if the hierarchy is
// cyclic.
func (nl *Netlist) BeginTopDown() ([]*Circuit, error) {
	return nl.topDownOrder()
}

// BeginBottomUp returns the netlist's circuits in bottom-up topological
// order (children before parents) — the order the Comparer walks the
// hierarchy in (spec.md §2).
func (nl *Netlist) BeginBottomUp() ([]*Circuit, error) {
	order, err := nl.topDownOrder()
	if err != nil {
		return nil, err
	}
	out := make([]*Circuit, len(order))
	for i, c := range order {
		out[len(order)-1-i] = c
	}
	return out, nil
}

// Validate checks the whole netlist for structural consistency: per-
// circuit symmetry invariants and an acyclic subcircuit hierarchy.
func (nl *Netlist) Validate() error {
	for _, c := range nl.circuits {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	_, err := nl.topDownOrder()
	return err
}

// NetlistLocker pins the cached topological order during a sequence of
// structural edits so that any iteration in progress stays stable; the
// cache is revalidated (recomputed on next access, if dirty) only when
// the outermost locker releases (spec.md §4.2, §5).
type NetlistLocker struct {
	nl *Netlist
}

// Lock increments the netlist's lock nesting count and returns a guard.
// Call Unlock (or use the returned value with defer) to release it.
func (nl *Netlist) Lock() *NetlistLocker {
	nl.lockDepth++
	return &NetlistLocker{nl: nl}
}

// Unlock decrements the nesting count; on the final release, a pending
// invalidation (if any) is applied.
func (l *NetlistLocker) Unlock() {
	if l.nl.lockDepth == 0 {
		return
	}
	l.nl.lockDepth--
	if l.nl.lockDepth == 0 && l.nl.dirty {
		l.nl.dirty = false
		l.nl.topoValid = false
		l.nl.topoOrder = nil
		l.nl.topoErr = nil
	}
}
