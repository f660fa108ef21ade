package matrix

import "github.com/gas2d/engine/bitset"

// Dashboard is the leadership record for segment k: the rank owning tile
// (k, k) is its leader, and it holds the authoritative regular/sink/source
// classification for that segment, shared by every rank that has a tile in
// rowgrp k or colgrp k.
//
// Per-follower mirroring subsets live in the engine's mirroring protocol
// rather than as fields here.
type Dashboard struct {
	RG, CG, Kth uint32

	RowGrpFollowers []int // ranks with a tile in rowgrp Kth, besides the leader
	ColGrpFollowers []int // ranks with a tile in colgrp Kth, besides the leader

	Regular *bitset.BitVector
	Sink    *bitset.BitVector
	Source  *bitset.BitVector

	Locator *Locator // [regular | sink | source | isolated]
}
