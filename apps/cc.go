// Package apps implements vertex programs against the
// engine.Algorithm[S,M,A] capability set: connected components, BFS, SSSP,
// PageRank, triangle count, and degree (with top-k).
package apps

import (
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/mathutils"
	"github.com/gas2d/engine/sparse"
)

const NoLabel = ^uint32(0)

// CC is connected components via min-label propagation: every vertex starts
// labelled with its own id, and repeatedly adopts the smallest label it
// hears from a neighbour until no vertex changes.
type CC struct{}

func (CC) Init(vid uint32, state *uint32) bool {
	*state = vid
	return true
}

func (CC) Scatter(state uint32) uint32 { return state }

func (CC) Gather(_ engine.Edge, msg uint32) uint32 { return msg }

func (CC) Combine(a uint32, acc *uint32) {
	*acc = mathutils.Min(a, *acc)
}

func (CC) Apply(acc uint32, state *uint32) bool {
	if acc < *state {
		*state = acc
		return true
	}
	return false
}

// CCCodecs groups the message/accumulator/state codecs CC's engine needs;
// all three are plain uint32 labels.
var CCCodecs = struct {
	Msg   sparse.Codec[uint32]
	Accum sparse.Codec[uint32]
	State sparse.Codec[uint32]
}{Msg: Uint32Codec, Accum: Uint32Codec, State: Uint32Codec}

// Uint32Codec is the fixed-size codec shared by every app whose wire value
// is a bare uint32 (labels, degrees).
var Uint32Codec = sparse.Codec[uint32]{
	FixedSize: 4,
	Encode: func(v uint32) []byte {
		b := make([]byte, 4)
		putUint32(b, v)
		return b
	},
	Decode: func(b []byte) uint32 { return getUint32(b) },
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
