package matcher

import "github.com/openlvs/lvscore/pkg/netgraph"

// limits bounds the backtracking search (spec.md §4.7's max_depth /
// max_branch_complexity): max_depth bounds recursion through ambiguity
// groups (0 = unbounded), max_branch bounds how many permutation trials
// resolveAmbiguity may attempt before giving up and falling back to an
// in-order, flagged-ambiguous pairing.
type limits struct {
	maxDepth   int
	maxBranch  int
	depthFirst bool
}

// budget counts permutation trials spent across one circuit pair's
// whole search, shared by every resolveAmbiguity call so a handful of
// small ambiguity groups can't each spend max_branch independently and
// blow the search open: once cap trials have been spent anywhere in the
// search, every further resolveAmbiguity call falls back to in-order
// pairing immediately instead of spending its own max_branch on top.
type budget struct {
	spent int
	cap   int
}

// newBudget derives the shared cap from lim.maxBranch, scaled up so a
// circuit with several independent ambiguity groups can each still get
// a fair, if reduced, share rather than starving after the first group.
func newBudget(lim limits) *budget {
	total := lim.maxBranch
	if total <= 0 {
		total = 100
	}
	return &budget{cap: total * 64}
}

// take records n trials spent and reports whether the shared cap still
// has room; once it returns false, every subsequent call also returns
// false (spent only grows).
func (b *budget) take(n int) bool {
	if b.spent >= b.cap {
		return false
	}
	b.spent += n
	return true
}

// undecided collects the node-index pairs the search gave up resolving
// exactly (hit max_depth or exhausted max_branch), reported as
// LogEntry warnings rather than mismatches (spec.md §4.7/§7).
type undecided struct {
	pairs []pairIdx
}

func (u *undecided) add(a, b int) { u.pairs = append(u.pairs, pairIdx{a, b}) }

// extend drains queue, a frontier of confirmed net/virtual-node
// identifications, resolving each pair's ambiguity groups in turn and
// pushing newly confirmed pairs back onto the queue. Returns false the
// instant a contradiction is found (two already-matched nodes can't
// also be matched to each other's peer), in which case st has already
// been mutated and must be discarded by the caller — extend is only
// ever called on a mapping the caller owns exclusively (its own clone
// or the top-level circuit-pair mapping).
func extend(g1, g2 *netgraph.Graph, st *mapping, queue []pairIdx, lim limits, bud *budget, depth int, und *undecided) bool {
	for len(queue) > 0 {
		var p pairIdx
		if lim.depthFirst {
			p, queue = queue[len(queue)-1], queue[:len(queue)-1]
		} else {
			p, queue = queue[0], queue[1:]
		}
		next, ok := resolveNode(g1, g2, st, p.A, p.B, lim, bud, depth, und)
		if !ok {
			return false
		}
		queue = append(queue, next...)
	}
	return true
}

// resolveNode pairs up n1's and n2's edges group by group (EdgeGroups on
// each side must agree in group count and size, since a1/a2 are already
// confirmed matched and their local structure is an isomorphism
// invariant) and returns every node pair newly confirmed.
func resolveNode(g1, g2 *netgraph.Graph, st *mapping, a1, a2 int, lim limits, bud *budget, depth int, und *undecided) ([]pairIdx, bool) {
	groups1 := netgraph.EdgeGroups(g1.Nodes[a1].Edges)
	groups2 := netgraph.EdgeGroups(g2.Nodes[a2].Edges)
	if len(groups1) != len(groups2) {
		return nil, false
	}

	var confirmed []pairIdx
	for i := range groups1 {
		grp1, grp2 := groups1[i], groups2[i]
		if len(grp1) != len(grp2) {
			return nil, false
		}
		if !netgraph.TransitionListEqual(grp1[0].Transitions, grp2[0].Transitions) {
			return nil, false
		}
		pairs, ok := resolveGroup(g1, g2, st, grp1, grp2, lim, bud, depth, und)
		if !ok {
			return nil, false
		}
		confirmed = append(confirmed, pairs...)
	}
	return confirmed, true
}

// resolveGroup matches one NodeRange ambiguity group (spec.md §4.7): a
// size-1 group identifies its pair outright; a larger group is handed
// to resolveAmbiguity's permutation search.
func resolveGroup(g1, g2 *netgraph.Graph, st *mapping, grp1, grp2 []netgraph.Edge, lim limits, bud *budget, depth int, und *undecided) ([]pairIdx, bool) {
	if len(grp1) == 1 {
		a, b := grp1[0].OtherNode, grp2[0].OtherNode
		if !st.identify(a, b) {
			return nil, false
		}
		return []pairIdx{{a, b}}, true
	}

	if lim.maxDepth > 0 && depth >= lim.maxDepth {
		und.add(grp1[0].OtherNode, grp2[0].OtherNode)
		return nil, true
	}

	pairs, resolved := resolveAmbiguity(g1, g2, st, grp1, grp2, lim, bud, depth, und)
	if resolved {
		// resolveAmbiguity already drove its own extend() over every
		// pair it confirmed, so there is nothing left for the caller
		// to re-queue.
		return nil, true
	}
	return pairs, pairs != nil
}

// resolveAmbiguity tries permutations of grp2 against grp1's fixed
// order, cloning st for each trial and adopting the first one whose
// identifications extend without contradiction. Permutation trials are
// capped by max_branch_complexity; beyond the cap it falls back to
// pairing both groups in their existing (edge-sorted) order and
// flagging every pair ambiguous, matching spec.md §4.7's "beyond the
// budget, fall back to in-order pairing and mark undecided" rule.
func resolveAmbiguity(g1, g2 *netgraph.Graph, st *mapping, grp1, grp2 []netgraph.Edge, lim limits, bud *budget, depth int, und *undecided) ([]pairIdx, bool) {
	n := len(grp1)
	branchCap := lim.maxBranch
	if branchCap <= 0 {
		branchCap = n * n // generous default when unset, still finite
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var accepted *mapping
	tried := 0
	exhausted := false
	permute(perm, 0, func(order []int) bool {
		if tried >= branchCap || !bud.take(1) {
			exhausted = true
			return true // stop: local or shared budget exhausted
		}
		tried++
		trial := st.clone()
		var queue []pairIdx
		ok := true
		for i, j := range order {
			a, b := grp1[i].OtherNode, grp2[j].OtherNode
			if !trial.identify(a, b) {
				ok = false
				break
			}
			queue = append(queue, pairIdx{a, b})
		}
		if ok && extend(g1, g2, trial, queue, lim, bud, depth+1, und) {
			accepted = trial
			return true
		}
		return false
	})

	if accepted != nil {
		st.adopt(accepted)
		return nil, true
	}
	if !exhausted {
		// Every permutation was tried within budget and each one
		// contradicted the mapping: the group cannot be matched.
		return nil, false
	}

	// Budget exhausted without a confirmed permutation: pair in
	// existing order, flag every pair ambiguous, and record the group
	// as undecided rather than failing the whole compare.
	var pairs []pairIdx
	for i := range grp1 {
		a, b := grp1[i].OtherNode, grp2[i].OtherNode
		if !st.identify(a, b) {
			return nil, false
		}
		st.markAmbiguous(a, b)
		pairs = append(pairs, pairIdx{a, b})
	}
	und.add(grp1[0].OtherNode, grp2[0].OtherNode)
	return pairs, false
}

// permute enumerates the orderings of perm[i:] in place by recursive
// swap and swap-back, calling try on each complete permutation and stopping at the first true return (an
// early-exit search, not an exhaustive generator).
func permute(perm []int, i int, try func([]int) bool) bool {
	if i == len(perm)-1 {
		return try(perm)
	}
	for k := i; k < len(perm); k++ {
		perm[i], perm[k] = perm[k], perm[i]
		if permute(perm, i+1, try) {
			return true
		}
		perm[i], perm[k] = perm[k], perm[i]
	}
	return false
}
