package apps

import (
	"encoding/binary"
	"sort"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/matrix"
	"github.com/gas2d/engine/sparse"
)

// TCState is a vertex's own out-neighbour set (sent once as a message) plus
// its running triangle count.
type TCState struct {
	Neighbors []uint32
	Count     int
}

// TC is triangle counting on a DAG (run it after cycle removal, so every
// edge points from a lower to a higher id): for
// directed edge u->v, the number of triangles through that edge equals
// |N+(u) ∩ N+(v)|, summed over every edge. Gather needs to read the
// destination's own out-neighbour set, so TC implements GatherWithState and
// is mirrored.
type TC struct {
	Neighbors [][]uint32 // by absolute vertex id, computed by NewTC
}

// NewTC scans am's tiles for each vertex's sorted out-neighbour list,
// mirroring NewPageRank's structural pre-pass for the same reason: Init
// only receives a vertex id, not its adjacency. Parallel edges contribute
// one neighbour entry, matching the CSC's own dedup, and keeping the lists
// strictly increasing for the sorted-intersection in GatherState.
func NewTC(am *matrix.AnnotatedMatrix2D) *TC {
	neighbors := make([][]uint32, am.NCols)
	seen := make(map[[2]uint32]struct{})
	for rg := range am.Tiles {
		for cg := range am.Tiles[rg] {
			for _, tr := range am.Tiles[rg][cg].Triples {
				key := [2]uint32{tr.Row, tr.Col}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				neighbors[tr.Col] = append(neighbors[tr.Col], tr.Row)
			}
		}
	}
	for _, n := range neighbors {
		sort.Slice(n, func(i, j int) bool { return n[i] < n[j] })
	}
	return &TC{Neighbors: neighbors}
}

func (t *TC) Init(vid uint32, state *TCState) bool {
	state.Neighbors = t.Neighbors[vid]
	return len(state.Neighbors) > 0
}

func (*TC) Scatter(state TCState) []uint32 { return state.Neighbors }

// Gather is never invoked (TC is always mirrored, see GatherState), but
// must exist to satisfy engine.Algorithm's method set.
func (*TC) Gather(engine.Edge, []uint32) int { return 0 }

func (*TC) GatherState(_ engine.Edge, msg []uint32, state TCState) int {
	return intersectionSize(msg, state.Neighbors)
}

func (*TC) Combine(a int, acc *int) { *acc += a }

func (*TC) Apply(acc int, state *TCState) bool {
	state.Count += acc
	return false
}

// intersectionSize counts common elements of two ascending-sorted slices.
func intersectionSize(a, b []uint32) int {
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

// TCMessageCodec serializes a []uint32 neighbour list as a 4-byte count
// followed by its packed elements.
var TCMessageCodec = sparse.Codec[[]uint32]{
	Encode: func(v []uint32) []byte {
		b := make([]byte, 4+4*len(v))
		binary.LittleEndian.PutUint32(b, uint32(len(v)))
		for i, x := range v {
			binary.LittleEndian.PutUint32(b[4+4*i:], x)
		}
		return b
	},
	Decode: func(b []byte) []uint32 {
		n := binary.LittleEndian.Uint32(b)
		out := make([]uint32, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(b[4+4*i:])
		}
		return out
	},
}

// TCStateCodec serializes TCState the same way, with the running count
// appended after the neighbour list.
var TCStateCodec = sparse.Codec[TCState]{
	Encode: func(v TCState) []byte {
		b := TCMessageCodec.Encode(v.Neighbors)
		tail := make([]byte, 8)
		binary.LittleEndian.PutUint64(tail, uint64(v.Count))
		return append(b, tail...)
	},
	Decode: func(b []byte) TCState {
		n := binary.LittleEndian.Uint32(b)
		neighbors := TCMessageCodec.Decode(b)
		count := binary.LittleEndian.Uint64(b[4+4*n:])
		return TCState{Neighbors: neighbors, Count: int(count)}
	},
}
