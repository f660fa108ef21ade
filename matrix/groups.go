package matrix

import "github.com/gas2d/engine/bitset"

// RowGroup is the per-rowgrp metadata: its absolute row range, the tiles
// any rank owns within that row of the grid, and the bit vectors/locator
// used to split its rows into regular (processed every iteration) and sink
// (processed once, at the end) buckets.
//
type RowGroup struct {
	RG             uint32
	Offset, Endpos uint32 // absolute row range [Offset, Endpos)
	Leader         int
	Kth            uint32

	Tiles []*Tile // this rowgrp's full row of the tile grid, indexed by CG

	Local   *bitset.BitVector // rows with at least one non-zero in this rowgrp
	Regular *bitset.BitVector
	Sink    *bitset.BitVector

	// GloballyRegular/GloballySink are this rowgrp's view of the dashboard's
	// regular/sink classification (same domain, possibly a superset of what
	// this rank alone observed via Local).
	GloballyRegular *bitset.BitVector
	GloballySink    *bitset.BitVector

	Locator       *Locator // [regular | sink | rest], domain = range
	GlobalLocator *Locator // [globally_regular | globally_sink | rest]
}

func (rg *RowGroup) Range() uint32 { return rg.Endpos - rg.Offset }

// ColGroup is the colgrp analogue of RowGroup: regular vs source instead of
// regular vs sink, and no global locator, since messages are read from the
// column's own local colgrp rather than a dashboard-wide accumulator.
type ColGroup struct {
	CG             uint32
	Offset, Endpos uint32
	Leader         int
	Kth            uint32

	Tiles []*Tile // this colgrp's full column of the tile grid, indexed by RG

	Local   *bitset.BitVector
	Regular *bitset.BitVector
	Source  *bitset.BitVector

	Locator *Locator // [regular | source | rest]
}

func (cg *ColGroup) Range() uint32 { return cg.Endpos - cg.Offset }
