package apps

import (
	"math"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/mathutils"
	"github.com/gas2d/engine/matrix"
	"github.com/gas2d/engine/sparse"
)

// PRState is a vertex's current rank mass plus its out-degree, cached at
// init so Scatter can divide mass without a second lookup.
type PRState struct {
	Rank      float64
	OutDegree uint32
}

// PageRank implements the classic damped random-walk update: every vertex
// starts at rank 1, scatters rank/out-degree along each out-edge, and on each
// round sets its rank to (1-Alpha) + Alpha·(sum of its in-neighbours'
// rank/out-degree), until the per-vertex change drops below Tol. No separate residual/scratch fields
// are needed: the engine already serializes combine at the rowgroup leader.
type PageRank struct {
	Alpha      float64
	Tol        float64
	OutDegree  []uint32 // by absolute vertex id, computed by NewPageRank
}

// NewPageRank scans am's tiles for each vertex's out-degree (count of
// distinct edges where it is the source column) before the engine ever
// calls Init, since Algorithm.Init only receives a vertex id, not its
// adjacency. Parallel edges count once, matching the CSC's own dedup.
func NewPageRank(am *matrix.AnnotatedMatrix2D, alpha, tol float64) *PageRank {
	degrees := make([]uint32, am.NCols)
	seen := make(map[[2]uint32]struct{})
	for rg := range am.Tiles {
		for cg := range am.Tiles[rg] {
			for _, tr := range am.Tiles[rg][cg].Triples {
				key := [2]uint32{tr.Row, tr.Col}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				degrees[tr.Col]++
			}
		}
	}
	return &PageRank{Alpha: alpha, Tol: tol, OutDegree: degrees}
}

func (p *PageRank) Init(vid uint32, state *PRState) bool {
	state.Rank = 1.0
	state.OutDegree = p.OutDegree[vid]
	return true
}

func (*PageRank) Scatter(state PRState) float64 {
	if state.OutDegree == 0 {
		return 0
	}
	return state.Rank / float64(state.OutDegree)
}

func (*PageRank) Gather(_ engine.Edge, msg float64) float64 { return msg }

func (*PageRank) Combine(a float64, acc *float64) { *acc += a }

func (p *PageRank) Apply(acc float64, state *PRState) bool {
	newRank := (1 - p.Alpha) + p.Alpha*acc
	converged := mathutils.FloatEquals(newRank, state.Rank, p.Tol)
	state.Rank = newRank
	return !converged
}

// Stationary keeps every applied vertex scattering even after its own delta
// drops below Tol: the accumulator is rebuilt from scratch each round, so a
// vertex that went quiet would silently withdraw its whole mass from its
// neighbours' sums, not just its change.
func (*PageRank) Stationary() bool { return true }

// PRStateCodec serializes the (rank, out-degree) pair.
var PRStateCodec = sparse.Codec[PRState]{
	FixedSize: 12,
	Encode: func(v PRState) []byte {
		b := make([]byte, 12)
		putUint64(b[0:8], math.Float64bits(v.Rank))
		putUint32(b[8:12], v.OutDegree)
		return b
	},
	Decode: func(b []byte) PRState {
		return PRState{Rank: math.Float64frombits(getUint64(b[0:8])), OutDegree: getUint32(b[8:12])}
	},
}
