package dinner

import "sync"

// ClaimGraph is a precedence graph over seats used to decide whether a
// seating admits circular wait before anything is launched.
// There is an Edge from seat p to seat q when p's second fork is q's
// first fork: p can end up blocked on a fork q grabbed first while q
// is itself still waiting for its second. A cycle therefore means a
// schedule exists where every seat on the cycle holds one fork and
// waits forever on the next.
type ClaimGraph struct {
	n     int
	edges []Edge
	mtx   sync.RWMutex // Mutex for synchronizing access to the edges slice.
}

// An Edge between seats in the ClaimGraph.
// If seat `from` may block on a fork that seat `to` claims first,
// then there is an Edge from `from` to `to`.
type Edge struct {
	from int
	to   int
}

func NewClaimGraph(n int) *ClaimGraph {
	return &ClaimGraph{n: n, edges: make([]Edge, 0)}
}

// BuildClaimGraph constructs the claim graph of a seating.
func BuildClaimGraph(seats []Philosopher) *ClaimGraph {
	g := NewClaimGraph(len(seats))
	for i, p := range seats {
		_, second := p.Forks()
		for j, q := range seats {
			if i == j {
				continue
			}
			first, _ := q.Forks()
			if second == first {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}

// Add an edge from `from` to `to`. Logically, `from` may wait for `to`.
func (g *ClaimGraph) AddEdge(from int, to int) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.edges = append(g.edges, Edge{from: from, to: to})
}

// Return true if a cycle exists; false otherwise.
func (g *ClaimGraph) DetectCycle() (hasCycle bool) {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	if len(g.edges) == 0 {
		return false
	}
	// Run a DFS from every seat; the graph need not be connected.
	for from := 0; from < g.n; from++ {
		if dfs(g, from, make(map[int]bool)) {
			return true
		}
	}
	return false
}

// depth-first search function to help detect cycles in a graph
func dfs(g *ClaimGraph, from int, seen map[int]bool) bool {
	seen[from] = true
	for _, e := range g.edges {
		if e.from != from {
			continue
		}
		if seen[e.to] {
			return true
		}
		if dfs(g, e.to, seen) {
			return true
		}
		delete(seen, e.to)
	}
	return false
}
