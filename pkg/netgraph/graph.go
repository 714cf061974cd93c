package netgraph

import (
	"sort"

	"github.com/openlvs/lvscore/pkg/netlist"
)

// Edge is one other-node's transition list, the unit Node.Edges
// keeps sorted for binary-searchable pairing across two graphs
// (spec.md §4.6).
type Edge struct {
	Transitions []Transition
	OtherNode   int // index into Graph.Nodes of the node at the far end
}

// Node is one net (or one virtual subcircuit-instance node) in a
// NetGraph. MatchedNode/ExactMatch record the peer-graph pairing set by
// the matcher via Identify/Unidentify; -1 means "not yet matched".
type Node struct {
	Net        *netlist.Net        // nil for a virtual subcircuit node
	SubCircuit *netlist.SubCircuit // set only for a virtual subcircuit node
	Edges      []Edge              // sorted by Transitions

	MatchedNode int
	ExactMatch  bool
}

const NoMatch = -1

func newNode() *Node { return &Node{MatchedNode: NoMatch} }

// Identify records that n is matched to the node at peerIndex in the
// other graph.
func (n *Node) Identify(peerIndex int, exact bool) {
	n.MatchedNode = peerIndex
	n.ExactMatch = exact
}

// Unidentify clears a prior Identify, undoing a backtracked match.
func (n *Node) Unidentify() {
	n.MatchedNode = NoMatch
	n.ExactMatch = false
}

func (n *Node) Matched() bool { return n.MatchedNode != NoMatch }

// addTransition appends t to the edge between n and otherIndex,
// creating the edge if this is the first transition between the pair.
// Edges are kept in insertion order here; finalize sorts them.
func (n *Node) addTransition(otherIndex int, t Transition) {
	for i := range n.Edges {
		if n.Edges[i].OtherNode == otherIndex {
			n.Edges[i].Transitions = append(n.Edges[i].Transitions, t)
			return
		}
	}
	n.Edges = append(n.Edges, Edge{OtherNode: otherIndex, Transitions: []Transition{t}})
}

// finalize sorts each edge's own transition list, then sorts the node's
// edges by that list so FindEdge can binary-search them.
func (n *Node) finalize() {
	for i := range n.Edges {
		sortTransitions(n.Edges[i].Transitions)
	}
	sort.Slice(n.Edges, func(i, j int) bool {
		return transitionListLess(n.Edges[i].Transitions, n.Edges[j].Transitions)
	})
}

// FindEdge looks up an edge with exactly this transition list via
// binary search (the edges are kept sorted by finalize, which Build calls), the same
// std::lower_bound + equality check the original's find_edge does.
func (n *Node) FindEdge(transitions []Transition) (Edge, bool) {
	i := sort.Search(len(n.Edges), func(i int) bool {
		return !transitionListLess(n.Edges[i].Transitions, transitions)
	})
	if i < len(n.Edges) && transitionListEqual(n.Edges[i].Transitions, transitions) {
		return n.Edges[i], true
	}
	return Edge{}, false
}

// EdgeGroups scans edges (assumed already sorted by finalize) and
// returns consecutive runs sharing an identical transition list — the
// NodeRange ambiguity groups package matcher resolves (spec.md §4.7):
// a run of length 1 identifies its other endpoint outright, a run of
// length >1 is a genuine ambiguity to resolve against the peer graph's
// run of the same label.
func EdgeGroups(edges []Edge) [][]Edge {
	var groups [][]Edge
	i := 0
	for i < len(edges) {
		j := i + 1
		for j < len(edges) && transitionListEqual(edges[i].Transitions, edges[j].Transitions) {
			j++
		}
		groups = append(groups, edges[i:j])
		i = j
	}
	return groups
}

// Graph is the net graph for one circuit: Nodes[0:numNets] are net
// nodes in Circuit.Nets() order, followed by one virtual node per
// subcircuit instance in Circuit.SubCircuits() order.
type Graph struct {
	Circuit       *netlist.Circuit
	Nodes         []*Node
	indexOfNet    map[*netlist.Net]int
	indexOfSubckt map[*netlist.SubCircuit]int
}

// IndexOfNet returns the node index for net, or -1 if net does not
// belong to this graph's circuit.
func (g *Graph) IndexOfNet(net *netlist.Net) int {
	if i, ok := g.indexOfNet[net]; ok {
		return i
	}
	return NoMatch
}

// IndexOfSubCircuit returns the virtual node index for a subcircuit
// instance, or -1 if it does not belong to this graph's circuit.
func (g *Graph) IndexOfSubCircuit(sc *netlist.SubCircuit) int {
	if i, ok := g.indexOfSubckt[sc]; ok {
		return i
	}
	return NoMatch
}
