package matrix

// AnnotatedMatrix2D layers rowgrp/colgrp/dashboard metadata on top of a
// distributed Matrix2D: absolute ranges, per-segment leadership, and the
// follower lists the engine/substrate mirroring protocol walks.
//
// The metadata is built globally once, since every tile is resident in one
// process; LocalRowGroups/LocalColGroups/OwnedDashboards expose the
// rank-scoped views the engine iterates over.
type AnnotatedMatrix2D struct {
	*Matrix2D

	NRanks               uint32
	RowGrpNRanks, ColGrpNRanks uint32

	RowGroups  []*RowGroup // indexed by rg
	ColGroups  []*ColGroup // indexed by cg
	Dashboards []*Dashboard // indexed by k (rg == cg == k)
}

// NewAnnotatedMatrix2D distributes m across nranks and builds rowgrp/colgrp/
// dashboard metadata (ranges, leaders, follower lists).
func NewAnnotatedMatrix2D(m *Matrix2D, nranks uint32) *AnnotatedMatrix2D {
	rowgrpNRanks, colgrpNRanks := m.Distribute(nranks)

	am := &AnnotatedMatrix2D{
		Matrix2D:     m,
		NRanks:       nranks,
		RowGrpNRanks: rowgrpNRanks,
		ColGrpNRanks: colgrpNRanks,
	}

	am.RowGroups = make([]*RowGroup, m.NRowGrps)
	for rg := uint32(0); rg < m.NRowGrps; rg++ {
		offset := rg * m.TileHeight
		endpos := offset + m.TileHeight
		if endpos > m.NRows {
			endpos = m.NRows
		}
		am.RowGroups[rg] = &RowGroup{
			RG:     rg,
			Offset: offset,
			Endpos: endpos,
			Leader: m.Tiles[rg][rg].Owner,
			Kth:    rg,
			Tiles:  rowOf(m, rg),
		}
	}

	am.ColGroups = make([]*ColGroup, m.NColGrps)
	for cg := uint32(0); cg < m.NColGrps; cg++ {
		offset := cg * m.TileWidth
		endpos := offset + m.TileWidth
		if endpos > m.NCols {
			endpos = m.NCols
		}
		am.ColGroups[cg] = &ColGroup{
			CG:     cg,
			Offset: offset,
			Endpos: endpos,
			Leader: m.Tiles[cg][cg].Owner,
			Kth:    cg,
			Tiles:  colOf(m, cg),
		}
	}

	am.Dashboards = make([]*Dashboard, m.NRowGrps)
	for k := uint32(0); k < m.NRowGrps; k++ {
		leader := m.Tiles[k][k].Owner
		am.Dashboards[k] = &Dashboard{
			RG: k, CG: k, Kth: k,
			RowGrpFollowers: followersExcluding(owners(rowOf(m, k)), leader),
			ColGrpFollowers: followersExcluding(owners(colOf(m, k)), leader),
		}
	}

	return am
}

func rowOf(m *Matrix2D, rg uint32) []*Tile {
	out := make([]*Tile, m.NColGrps)
	copy(out, m.Tiles[rg])
	return out
}

func colOf(m *Matrix2D, cg uint32) []*Tile {
	out := make([]*Tile, m.NRowGrps)
	for rg := uint32(0); rg < m.NRowGrps; rg++ {
		out[rg] = m.Tiles[rg][cg]
	}
	return out
}

func owners(tiles []*Tile) []int {
	out := make([]int, len(tiles))
	for i, t := range tiles {
		out[i] = t.Owner
	}
	return out
}

func followersExcluding(owners []int, leader int) []int {
	seen := map[int]bool{leader: true}
	var out []int
	for _, o := range owners {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// LocalRowGroups returns the rowgroups that have at least one tile owned by
// rank.
func (am *AnnotatedMatrix2D) LocalRowGroups(rank int) []*RowGroup {
	var out []*RowGroup
	for _, rg := range am.RowGroups {
		for _, t := range rg.Tiles {
			if t.Owner == rank {
				out = append(out, rg)
				break
			}
		}
	}
	return out
}

// LocalColGroups returns the colgroups that have at least one tile owned by
// rank.
func (am *AnnotatedMatrix2D) LocalColGroups(rank int) []*ColGroup {
	var out []*ColGroup
	for _, cg := range am.ColGroups {
		for _, t := range cg.Tiles {
			if t.Owner == rank {
				out = append(out, cg)
				break
			}
		}
	}
	return out
}

// OwnedDashboards returns the dashboards this rank leads.
func (am *AnnotatedMatrix2D) OwnedDashboards(rank int) []*Dashboard {
	var out []*Dashboard
	for k, db := range am.Dashboards {
		if am.Tiles[k][k].Owner == rank {
			out = append(out, db)
		}
	}
	return out
}
