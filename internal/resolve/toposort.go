package resolve

import (
	"fmt"

	"github.com/agentic-research/rankcore/api"
)

// topologicalOrder computes a Kahn topological order over g's nodes. The
// order is computed once, up front, instead of bouncing nodes to the back
// of a queue until their predecessors happen to have been visited.
func topologicalOrder(g *api.QueryGraph) ([]api.NodeId, error) {
	n := len(g.Nodes)
	indegree := make([]int, n)
	for id := range g.Nodes {
		indegree[id] = int(g.Predecessors(api.NodeId(id)).GetCardinality())
	}

	queue := make([]api.NodeId, 0, n)
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, api.NodeId(id))
		}
	}

	order := make([]api.NodeId, 0, n)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)

		it := g.Successors(cur).Iterator()
		for it.HasNext() {
			s := it.Next()
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("%w: query graph is not a DAG (cycle among %d unresolved node(s))", api.ErrInvariantViolation, n-len(order))
	}
	return order, nil
}
