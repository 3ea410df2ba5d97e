package api

import "fmt"

// NodeId indexes QueryGraph.Nodes; it is an arena index assigned at
// construction time, not a DocId.
type NodeId = uint32

// edgeSet holds the predecessor/successor bitmaps for one node. Node-id
// domains are small (one query has at most a few dozen nodes), so a
// roaring bitmap here is overkill for performance but keeps the algebra
// (union, subset-of-resolved checks) uniform with the DocId bitmaps used
// throughout the resolver.
type edgeSet struct {
	predecessors *Bitmap
	successors   *Bitmap
}

// QueryGraph is the DAG of query-term derivations resolved by
// internal/resolve.Resolver. Every node must lie on some path from
// RootNode to EndNode; a graph builder must prune dead nodes (and any
// edges through a DeletedNode) before handing the graph to the resolver.
type QueryGraph struct {
	Nodes    []QueryNode
	edges    []edgeSet
	RootNode NodeId
	EndNode  NodeId
}

// NewQueryGraph creates an empty graph with a Start and an End node, wired
// with no edge between them yet. Use AddTermNode and AddEdge to grow it.
func NewQueryGraph() *QueryGraph {
	g := &QueryGraph{}
	g.RootNode = g.addNode(QueryNode{Kind: StartNode})
	g.EndNode = g.addNode(QueryNode{Kind: EndNode})
	return g
}

func (g *QueryGraph) addNode(n QueryNode) NodeId {
	id := NodeId(len(g.Nodes))
	g.Nodes = append(g.Nodes, n)
	g.edges = append(g.edges, edgeSet{predecessors: NewBitmap(), successors: NewBitmap()})
	return id
}

// AddTermNode appends a Term node and returns its id.
func (g *QueryGraph) AddTermNode(term QueryTerm) NodeId {
	return g.addNode(QueryNode{Kind: TermNode, Term: term})
}

// AddEdge records a legal adjacency u -> v. Both directions of the
// predecessor/successor bitmaps are updated together, so u is always a
// predecessor of v and v always a successor of u.
func (g *QueryGraph) AddEdge(u, v NodeId) error {
	if int(u) >= len(g.Nodes) || int(v) >= len(g.Nodes) {
		return fmt.Errorf("rankcore/api: edge references out-of-range node (%d -> %d)", u, v)
	}
	g.edges[v].predecessors.Add(u)
	g.edges[u].successors.Add(v)
	return nil
}

// Predecessors returns the bitmap of node ids with an edge into n.
func (g *QueryGraph) Predecessors(n NodeId) *Bitmap { return g.edges[n].predecessors }

// Successors returns the bitmap of node ids n has an edge into.
func (g *QueryGraph) Successors(n NodeId) *Bitmap { return g.edges[n].successors }

// DeleteNode marks a node Deleted in place; encountering it during
// resolution is an invariant violation (the graph builder must prune
// edges through deleted nodes before resolution, not leave them dangling).
func (g *QueryGraph) DeleteNode(n NodeId) {
	g.Nodes[n] = QueryNode{Kind: DeletedNode}
}
