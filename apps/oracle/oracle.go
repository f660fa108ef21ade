// Package oracle builds a gonum graph mirror of a triple list and runs
// gonum's shortest-path/reachability algorithms against it, for use as the
// independent correctness check a cmd/lp-* executable's -o flag requests
// (config.Options.OracleCompare).
package oracle

import (
	"math"

	"github.com/gas2d/engine/matrix"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is a gonum-backed mirror of a triple set, built from the same
// (row, col, weight) triples the engine's matrix package partitions, before
// any hashing/reindexing/transpose the engine applies internally. It keeps
// both an unweighted and a weighted copy since gonum's Dijkstra treats an
// edgeless-of-Weight graph as unit-weight, which is exactly BFS.
type Graph struct {
	unweighted *simple.DirectedGraph
	weighted   *simple.WeightedDirectedGraph
	n          int
}

// FromTriples builds an oracle graph over n vertices from triples in "edge
// points from col to row" form — the same orientation graphio.LoadTriples
// leaves triples in after its default transpose, i.e. an edge
// Triple{Row: dst, Col: src} becomes a gonum edge src->dst, so a BFS/SSSP
// run on the oracle from a root matches hop counts/distances the engine
// computes by gathering along in-edges.
func FromTriples(n int, triples []matrix.Triple) *Graph {
	uw := simple.NewDirectedGraph()
	w := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for i := 0; i < n; i++ {
		uw.AddNode(simple.Node(int64(i)))
		w.AddNode(simple.Node(int64(i)))
	}
	for _, tr := range triples {
		if !uw.HasEdgeFromTo(int64(tr.Col), int64(tr.Row)) {
			uw.SetEdge(uw.NewEdge(simple.Node(int64(tr.Col)), simple.Node(int64(tr.Row))))
		}
		wt := tr.Weight
		if !tr.Weighted {
			wt = 1
		}
		w.SetWeightedEdge(w.NewWeightedEdge(simple.Node(int64(tr.Col)), simple.Node(int64(tr.Row)), wt))
	}
	return &Graph{unweighted: uw, weighted: w, n: n}
}

// BFSHops returns the hop count from root to every vertex (-1 if
// unreachable).
func (o *Graph) BFSHops(root uint32) []int32 {
	shortest := path.DijkstraFrom(simple.Node(int64(root)), o.unweighted)
	out := make([]int32, o.n)
	for v := 0; v < o.n; v++ {
		d := shortest.WeightTo(int64(v))
		if math.IsInf(d, 1) {
			out[v] = -1
		} else {
			out[v] = int32(d)
		}
	}
	return out
}

// SSSPDistances returns the weighted shortest distance from root to every
// vertex (+Inf if unreachable).
func (o *Graph) SSSPDistances(root uint32) []float64 {
	shortest := path.DijkstraFrom(simple.Node(int64(root)), o.weighted)
	out := make([]float64, o.n)
	for v := 0; v < o.n; v++ {
		out[v] = shortest.WeightTo(int64(v))
	}
	return out
}

// ConnectedComponents returns, for each vertex, the smallest vertex id
// reachable from it treating every edge as undirected — an independent
// check for min-label connected components.
func (o *Graph) ConnectedComponents() []uint32 {
	labels := make([]uint32, o.n)
	visited := make([]bool, o.n)
	adj := make([][]uint32, o.n)
	edges := o.unweighted.Edges()
	for edges.Next() {
		e := edges.Edge()
		u, v := uint32(e.From().ID()), uint32(e.To().ID())
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}
	for v := 0; v < o.n; v++ {
		if visited[v] {
			continue
		}
		queue := []uint32{uint32(v)}
		visited[v] = true
		component := []uint32{uint32(v)}
		minID := uint32(v)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, nb := range adj[u] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
					component = append(component, nb)
					if nb < minID {
						minID = nb
					}
				}
			}
		}
		for _, u := range component {
			labels[u] = minID
		}
	}
	return labels
}
