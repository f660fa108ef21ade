package matrix

import (
	"math"

	"github.com/gas2d/engine/enforce"
)

// Matrix2D is a square nrowgrps x ncolgrps tile grid over an nrows x ncols
// adjacency matrix, stored row-major: Tiles[rg][cg].
type Matrix2D struct {
	NRows, NCols     uint32
	NRowGrps, NColGrps uint32
	TileHeight, TileWidth uint32

	Tiles [][]*Tile // Tiles[rg][cg]
}

// NewMatrix2D builds an empty tile grid over an nrows x ncols matrix split
// into ntiles tiles. The grid must be square (nrowgrps == ncolgrps);
// bipartite inputs work by unioning both sides into a single vertex
// universe before tiling, not by rectangular grids.
func NewMatrix2D(nrows, ncols, ntiles uint32) *Matrix2D {
	enforce.ENFORCE(nrows == ncols, "Matrix2D requires a square matrix")

	nrowgrps := uint32(math.Sqrt(float64(ntiles)))
	ncolgrps := ntiles / nrowgrps
	enforce.ENFORCE(nrowgrps*ncolgrps == ntiles && nrowgrps == ncolgrps,
		"ntiles must be a perfect square with nrowgrps == ncolgrps")

	tileHeight := nrows/nrowgrps + 1
	tileWidth := ncols/ncolgrps + 1
	enforce.ENFORCE(tileHeight == tileWidth, "tile_height must equal tile_width")

	m := &Matrix2D{
		NRows: nrows, NCols: ncols,
		NRowGrps: nrowgrps, NColGrps: ncolgrps,
		TileHeight: tileHeight, TileWidth: tileWidth,
	}
	m.Tiles = make([][]*Tile, nrowgrps)
	for rg := uint32(0); rg < nrowgrps; rg++ {
		m.Tiles[rg] = make([]*Tile, ncolgrps)
		for cg := uint32(0); cg < ncolgrps; cg++ {
			m.Tiles[rg][cg] = &Tile{RG: rg, CG: cg}
		}
	}
	return m
}

// Insert buckets a triple into its owning tile by absolute row/col.
func (m *Matrix2D) Insert(t Triple) {
	rg := t.Row / m.TileHeight
	cg := t.Col / m.TileWidth
	tile := m.Tiles[rg][cg]
	tile.Triples = append(tile.Triples, t)
}

// SegmentOfIdx returns which rowgrp/colgrp segment an absolute row or
// column index falls into.
func (m *Matrix2D) SegmentOfIdx(idx uint32) uint32 {
	return idx / m.TileHeight
}
