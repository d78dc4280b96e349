package roundrobin

import (
	"github.com/derekprior/tourney/internal/pairing"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// FormsRoundRobin reports whether matches could have been produced by the
// rounds of a round-robin schedule. Matches that split the field into two or
// more separate complete round-robins (of at least three competitors each)
// are rejected: those are independent sub-tournaments, not one schedule.
// Incomplete or irregular groups and connected structures are accepted.
//
// Duplicate pairs are treated as one match.
func FormsRoundRobin[T comparable](matches []pairing.Pair[T]) (bool, error) {
	index := make(map[T]int64)
	id := func(t T) int64 {
		if v, ok := index[t]; ok {
			return v
		}
		v := int64(len(index))
		index[t] = v
		return v
	}

	g := simple.NewUndirectedGraph()
	for _, m := range matches {
		if err := m.Validate(); err != nil {
			return false, err
		}
		a, b := simple.Node(id(m.A)), simple.Node(id(m.B))
		if g.HasEdgeBetween(a.ID(), b.ID()) {
			continue
		}
		g.SetEdge(g.NewEdge(a, b))
	}

	components := topo.ConnectedComponents(g)
	if len(components) < 2 {
		return true, nil
	}
	for _, c := range components {
		if len(c) < 3 || !complete(g, c) {
			return true, nil
		}
	}
	return false, nil
}

// complete reports whether every two nodes of c have played each other.
func complete(g graph.Undirected, c []graph.Node) bool {
	for i := range c {
		for j := i + 1; j < len(c); j++ {
			if !g.HasEdgeBetween(c[i].ID(), c[j].ID()) {
				return false
			}
		}
	}
	return true
}
