package apps

import (
	"math"

	"github.com/gas2d/engine/sparse"
)

// Float64Codec is the fixed-size codec shared by every app whose wire value
// is a bare float64 (SSSP distances, PageRank mass).
var Float64Codec = sparse.Codec[float64]{
	FixedSize: 8,
	Encode: func(v float64) []byte {
		b := make([]byte, 8)
		putUint64(b, math.Float64bits(v))
		return b
	},
	Decode: func(b []byte) float64 { return math.Float64frombits(getUint64(b)) },
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// emptyCodec serializes struct{} as zero bytes, for apps (Degree) whose
// message carries no payload beyond the edge's mere existence.
var emptyCodec = sparse.Codec[struct{}]{
	FixedSize: 0,
	Encode:    func(struct{}) []byte { return nil },
	Decode:    func([]byte) struct{} { return struct{}{} },
}

// IntCodec serializes a bare int as 8 bytes, for TC's triangle-count
// accumulator.
var IntCodec = sparse.Codec[int]{
	FixedSize: 8,
	Encode: func(v int) []byte {
		b := make([]byte, 8)
		putUint64(b, uint64(v))
		return b
	},
	Decode: func(b []byte) int { return int(getUint64(b)) },
}
