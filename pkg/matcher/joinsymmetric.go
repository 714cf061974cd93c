package matcher

import (
	"github.com/openlvs/lvscore/pkg/netgraph"
	"github.com/openlvs/lvscore/pkg/netlist"
)

// JoinSymmetricNets finds nets of c that are structurally
// interchangeable — swapping them leaves c's behavior unchanged — and
// merges each such group into one net via Circuit.JoinNets (spec.md
// §4.7's "join_symmetric_nets"). A pin's own net is never a candidate:
// only internal wiring can be freely interchangeable without changing
// the circuit's externally visible interface.
//
// This is the same structural-equivalence question Compare answers
// between two different circuits, asked here of c against itself; two
// nets are reported symmetric when the subtrees hanging off them (up
// to a bounded depth, to stay finite on a cyclic graph) are
// structurally identical. This finds the common case — matched device
// pairs such as a differential pair's two symmetric legs, or
// interchangeable dummy fill — without computing c's full
// automorphism group, which is a substantially harder problem this
// does not attempt.
func (m *Matcher) JoinSymmetricNets(c *netlist.Circuit) {
	g := netgraph.Build(c, m.devClass, m.circClass, m.pinClass, m.deviceFilter)

	locked := make([]bool, len(g.Nodes))
	for i := 0; i < c.PinCount(); i++ {
		if a := g.IndexOfNet(c.PinNet(i)); a != netgraph.NoMatch {
			locked[a] = true
		}
	}

	maxDepth := m.maxDepth
	if maxDepth <= 0 {
		maxDepth = 32
	}

	uf := newIntUnionFind(len(g.Nodes))
	visited := make([]bool, len(g.Nodes))
	var walk func(a int)
	walk = func(a int) {
		if visited[a] {
			return
		}
		visited[a] = true
		for _, grp := range netgraph.EdgeGroups(g.Nodes[a].Edges) {
			for i := 0; i < len(grp); i++ {
				for j := i + 1; j < len(grp); j++ {
					x, y := grp[i].OtherNode, grp[j].OtherNode
					if locked[x] || locked[y] {
						continue
					}
					if subtreesEqual(g, x, y, 0, maxDepth, map[[2]int]bool{}) {
						uf.union(x, y)
					}
				}
			}
			for _, e := range grp {
				walk(e.OtherNode)
			}
		}
	}
	for i := range g.Nodes {
		walk(i)
	}

	groups := map[int][]int{}
	for i, n := range g.Nodes {
		if n.Net == nil {
			continue
		}
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		survivor := g.Nodes[members[0]].Net
		for _, idx := range members[1:] {
			c.JoinNets(survivor, g.Nodes[idx].Net)
		}
	}
}

// subtreesEqual reports whether nodes a and b (in the same graph) are
// the roots of structurally identical subtrees, down to maxDepth —
// same edge-group shape and same transition labels at every level.
// Already-visited pairs are assumed consistent rather than re-walked,
// so a cyclic graph terminates.
func subtreesEqual(g *netgraph.Graph, a, b, depth, maxDepth int, visited map[[2]int]bool) bool {
	if a == b {
		return true
	}
	key := [2]int{a, b}
	if visited[key] {
		return true
	}
	visited[key] = true
	if depth >= maxDepth {
		return true
	}

	ga := netgraph.EdgeGroups(g.Nodes[a].Edges)
	gb := netgraph.EdgeGroups(g.Nodes[b].Edges)
	if len(ga) != len(gb) {
		return false
	}
	for i := range ga {
		if len(ga[i]) != len(gb[i]) {
			return false
		}
		if !netgraph.TransitionListEqual(ga[i][0].Transitions, gb[i][0].Transitions) {
			return false
		}
		if len(ga[i]) == 1 && !subtreesEqual(g, ga[i][0].OtherNode, gb[i][0].OtherNode, depth+1, maxDepth, visited) {
			return false
		}
	}
	return true
}

// intUnionFind is a plain union-find over a fixed range of small
// integers — the node indices netgraph.Graph already assigns — so no
// string-keyed map is needed the way categorize.unionFind needs one
// for circuit/device-class names.
type intUnionFind struct {
	parent []int
}

func newIntUnionFind(n int) *intUnionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &intUnionFind{parent: p}
}

func (u *intUnionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *intUnionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
