package surgery

import "github.com/matzehuels/flowmark/pkg/flow"

// Reachable returns the set of node ids reachable from start by following
// links forward, including start itself. Returns an empty set when start
// is not in the graph.
func Reachable(g *flow.Graph, start string) map[string]bool {
	return bfs(g, start, false)
}

// Ancestors returns the set of node ids that can reach target by
// following links forward, including target itself. Returns an empty set
// when target is not in the graph.
func Ancestors(g *flow.Graph, target string) map[string]bool {
	return bfs(g, target, true)
}

// adjacency builds a neighbor map in one pass over the link slice, so
// traversals run in time linear in nodes plus links. Neighbors keep link
// declaration order; parallel links yield repeated entries, which the
// visited set absorbs.
func adjacency(g *flow.Graph, reverse bool) map[string][]string {
	adj := make(map[string][]string, g.NodeCount())
	for _, l := range g.Links() {
		if reverse {
			adj[l.To] = append(adj[l.To], l.From)
		} else {
			adj[l.From] = append(adj[l.From], l.To)
		}
	}
	return adj
}

// bfs walks breadth-first from start, against the links when reverse is
// set, so the same loop serves both directions.
func bfs(g *flow.Graph, start string, reverse bool) map[string]bool {
	visited := make(map[string]bool)
	if _, ok := g.Node(start); !ok {
		return visited
	}
	adj := adjacency(g, reverse)
	visited[start] = true
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, to := range adj[cur] {
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return visited
}

// ShortestPath returns a minimum-hop path from source to target using
// breadth-first search. Links are expanded in declaration order, so among
// equal-length paths the first discovered wins. Returns nil when either
// endpoint is missing or target is unreachable, and [source] when source
// equals target.
func ShortestPath(g *flow.Graph, source, target string) []string {
	if _, ok := g.Node(source); !ok {
		return nil
	}
	if _, ok := g.Node(target); !ok {
		return nil
	}
	if source == target {
		return []string{source}
	}

	adj := adjacency(g, false)
	parent := map[string]string{source: ""}
	queue := []string{source}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, to := range adj[cur] {
			if _, seen := parent[to]; seen {
				continue
			}
			parent[to] = cur
			if to == target {
				return buildPath(parent, source, target)
			}
			queue = append(queue, to)
		}
	}
	return nil
}

// buildPath reconstructs the BFS path by walking parent pointers back
// from target to source.
func buildPath(parent map[string]string, source, target string) []string {
	var rev []string
	for cur := target; cur != ""; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == source {
			break
		}
	}
	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// LinearChain walks forward from start and returns the node ids visited
// up to and including end. The walk requires exactly one outgoing link at
// every step before end; any branch (more or fewer outgoing links) aborts
// the walk and returns nil. A walk longer than the graph's node count is
// cyclic and likewise returns nil. Returns [start] when start equals end.
func LinearChain(g *flow.Graph, start, end string) []string {
	if _, ok := g.Node(start); !ok {
		return nil
	}
	if _, ok := g.Node(end); !ok {
		return nil
	}

	adj := adjacency(g, false)
	path := []string{start}
	cur := start
	for cur != end {
		outs := adj[cur]
		if len(outs) != 1 {
			return nil
		}
		cur = outs[0]
		path = append(path, cur)
		if len(path) > g.NodeCount() {
			return nil
		}
	}
	return path
}
