package matrix

import "github.com/gas2d/engine/bitset"

// integerFactorize splits nranks into (rowgrpNRanks, colgrpNRanks) as close
// to sqrt(nranks) x sqrt(nranks) as an exact factorization allows.
func integerFactorize(nranks uint32) (rowgrpNRanks, colgrpNRanks uint32) {
	a := uint32(1)
	for a*a < nranks {
		a++
	}
	for nranks%a != 0 {
		a--
	}
	return a, nranks / a
}

// AssignTiles staggers tile ownership across nranks ranks and computes each
// tile's position within its owning rank's local grid. Returns the row/col
// rank-grid factorization so callers can size per-rank local grids.
func AssignTiles(m *Matrix2D, nranks uint32) (rowgrpNRanks, colgrpNRanks uint32) {
	rowgrpNRanks, colgrpNRanks = integerFactorize(nranks)
	rankNColGrps := m.NColGrps / rowgrpNRanks

	for rg := uint32(0); rg < m.NRowGrps; rg++ {
		for cg := uint32(0); cg < m.NColGrps; cg++ {
			tile := m.Tiles[rg][cg]
			tile.Owner = int((cg%rowgrpNRanks)*colgrpNRanks + (rg % colgrpNRanks))
			tile.Ith = rg / colgrpNRanks
			tile.Jth = cg / rowgrpNRanks
			tile.Nth = tile.Ith*rankNColGrps + tile.Jth
		}
	}
	return rowgrpNRanks, colgrpNRanks
}

// PermuteDiagonal swaps whole tile-grid rows so that the diagonal tiles
// tiles[k][k] carry as many distinct owners as possible — the segment
// leader assignment used throughout preprocessing.
func PermuteDiagonal(m *Matrix2D, nranks uint32) {
	seen := bitset.New(nranks)
	for rg := uint32(0); rg < m.NRowGrps; rg++ {
		if seen.Count() == nranks {
			seen.Clear()
		}
		for rg2 := rg; rg2 < m.NRowGrps; rg2++ {
			owner := uint32(m.Tiles[rg2][rg].Owner)
			if !seen.Touch(owner) {
				m.Tiles[rg], m.Tiles[rg2] = m.Tiles[rg2], m.Tiles[rg]
				break
			}
		}
	}
	for rg := uint32(0); rg < m.NRowGrps; rg++ {
		for cg := uint32(0); cg < m.NColGrps; cg++ {
			m.Tiles[rg][cg].RG = rg
			m.Tiles[rg][cg].CG = cg
		}
	}
}

// Distribute assigns tile ownership and applies the diagonal-leader
// permutation. There is no triple shuffle to perform: Insert already placed
// every triple in its owning tile, and all tiles live in one process's
// memory. Rank isolation is enforced where it matters — the vector segments
// (messages, accumulators, vertex state) only move between ranks through
// the substrate transport.
func (m *Matrix2D) Distribute(nranks uint32) (rowgrpNRanks, colgrpNRanks uint32) {
	rowgrpNRanks, colgrpNRanks = AssignTiles(m, nranks)
	PermuteDiagonal(m, nranks)
	return rowgrpNRanks, colgrpNRanks
}
