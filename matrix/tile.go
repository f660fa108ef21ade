package matrix

// Tile is one cell of the rowgrp x colgrp grid: a bucket of triples plus,
// once BuildCSCTiles has run, the two CSC views used at runtime
// (RegularCSC for non-sink destination rows, SinkCSC for sink rows).
type Tile struct {
	RG, CG uint32 // position in the full tile grid
	Ith, Jth, Nth uint32 // position within the owning rank's local grid
	Owner  int

	Triples []Triple

	RegularCSC *CSC
	SinkCSC    *CSC
}
