package apps

import (
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/sparse"
)

// BFSState is a vertex's hop distance from the root plus the neighbour it
// was first reached from.
type BFSState struct {
	Hops   int32 // -1 means unreached
	Parent uint32
}

// BFSMessage carries a candidate hop count/parent pair along an edge.
type BFSMessage struct {
	Hops   int32
	Parent uint32
}

// BFS is breadth-first search from a single root: Root is seeded with hops
// 0, every other vertex starts unreached, and a vertex adopts the smallest
// hop count it hears (ties keep the first parent seen, matching a
// deterministic single-source BFS frontier).
type BFS struct {
	Root uint32
}

func (b BFS) Init(vid uint32, state *BFSState) bool {
	state.Hops = -1
	state.Parent = vid
	if vid == b.Root {
		state.Hops = 0
		return true
	}
	return false
}

func (BFS) Scatter(state BFSState) BFSMessage {
	if state.Hops < 0 {
		// Unreached vertices still get scattered by the terminal sink pass;
		// their message must stay recognizably unreached.
		return BFSMessage{Hops: -1}
	}
	return BFSMessage{Hops: state.Hops + 1, Parent: 0} // Parent filled in by Gather from the edge's source.
}

func (BFS) Gather(edge engine.Edge, msg BFSMessage) BFSMessage {
	return BFSMessage{Hops: msg.Hops, Parent: edge.Src}
}

func (BFS) Combine(a BFSMessage, acc *BFSMessage) {
	if a.Hops < 0 {
		return
	}
	if acc.Hops < 0 || a.Hops < acc.Hops {
		*acc = a
	}
}

func (BFS) Apply(acc BFSMessage, state *BFSState) bool {
	if acc.Hops < 0 {
		return false
	}
	if state.Hops == -1 || acc.Hops < state.Hops {
		state.Hops = acc.Hops
		state.Parent = acc.Parent
		return true
	}
	return false
}

// BFSMessageCodec is the fixed 8-byte wire form (int32 hops, uint32 parent)
// BFS's engine needs for its message/accumulator type.
var BFSMessageCodec = sparse.Codec[BFSMessage]{
	FixedSize: 8,
	Encode: func(v BFSMessage) []byte {
		b := make([]byte, 8)
		putUint32(b[0:4], uint32(v.Hops))
		putUint32(b[4:8], v.Parent)
		return b
	},
	Decode: func(b []byte) BFSMessage {
		return BFSMessage{Hops: int32(getUint32(b[0:4])), Parent: getUint32(b[4:8])}
	},
}

// BFSStateCodec serializes BFSState the same way, for apps that mirror BFS
// state (BFS itself does not, but the codec is symmetric with the message
// form for consistency).
var BFSStateCodec = sparse.Codec[BFSState]{
	FixedSize: 8,
	Encode: func(v BFSState) []byte {
		b := make([]byte, 8)
		putUint32(b[0:4], uint32(v.Hops))
		putUint32(b[4:8], v.Parent)
		return b
	},
	Decode: func(b []byte) BFSState {
		return BFSState{Hops: int32(getUint32(b[0:4])), Parent: getUint32(b[4:8])}
	},
}
