package apps

import (
	"math"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/sparse"
)

// SSSPState is a vertex's best known distance from the root and the
// neighbour it was last improved from.
type SSSPState struct {
	Dist   float64
	Parent uint32
}

// SSSP is single-source shortest paths via weighted relaxation: Root starts
// at distance 0, every other vertex at +Inf, and a vertex relaxes to the
// smallest candidate distance (own distance plus edge weight) it hears.
type SSSP struct {
	Root uint32
}

func (s SSSP) Init(vid uint32, state *SSSPState) bool {
	state.Parent = vid
	if vid == s.Root {
		state.Dist = 0
		return true
	}
	state.Dist = math.Inf(1)
	return false
}

func (SSSP) Scatter(state SSSPState) float64 { return state.Dist }

func (SSSP) Gather(edge engine.Edge, msg float64) SSSPState {
	w := edge.Weight
	if !edge.Weighted {
		w = 1
	}
	return SSSPState{Dist: msg + w, Parent: edge.Src}
}

func (SSSP) Combine(a SSSPState, acc *SSSPState) {
	if a.Dist < acc.Dist {
		*acc = a
	}
}

func (SSSP) Apply(acc SSSPState, state *SSSPState) bool {
	if acc.Dist < state.Dist {
		state.Dist = acc.Dist
		state.Parent = acc.Parent
		return true
	}
	return false
}

// SSSPStateCodec serializes the (dist, parent) accumulator/state pair.
var SSSPStateCodec = sparse.Codec[SSSPState]{
	FixedSize: 12,
	Encode: func(v SSSPState) []byte {
		b := make([]byte, 12)
		putUint64(b[0:8], math.Float64bits(v.Dist))
		putUint32(b[8:12], v.Parent)
		return b
	},
	Decode: func(b []byte) SSSPState {
		return SSSPState{Dist: math.Float64frombits(getUint64(b[0:8])), Parent: getUint32(b[8:12])}
	},
}
