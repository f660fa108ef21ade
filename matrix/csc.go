package matrix

import "sort"

// CSCEntry is one non-zero in a CSC sub-matrix: GlobalIdx is the entry's
// reindexed position in the owning rowgroup's global locator order — below
// the locator's NRegular for regular rows, at NRegular or beyond for sink
// rows — so one accumulator segment serves both buckets without collision.
// OrigRow is the absolute row id for application-level output.
type CSCEntry struct {
	GlobalIdx uint32
	OrigRow   uint32
	Weight    float64
	Weighted  bool
}

// CSC is a compressed-sparse-column sub-matrix over a reindexed column
// range: ColPtrs has NCols+1 entries, ColIdxs[c] recovers the absolute
// column id of reindexed column c, and Entries[ColPtrs[c]:
// ColPtrs[c+1]] holds column c's non-zeros sorted by ascending GlobalIdx
// for cache-friendly accumulator writes.
type CSC struct {
	NCols   uint32
	ColPtrs []uint32
	ColIdxs []uint32
	Entries []CSCEntry
}

// buildCSC constructs a CSC sub-matrix from triples already filtered to a
// single rowgroup/tile and a single destination bucket (regular or sink).
// Triples carry absolute row/col ids; rgOffset/cgOffset rebase them into the
// rowgroup's and colgroup's local ranges.
// colLocator reindexes local columns (the [regular|source|rest]
// colgroup locator); globalLocator reindexes local rows into the
// destination accumulator space (the rowgroup's global locator).
//
// Parallel edges collapse here: duplicates with identical (row, col) are the
// same edge, and letting them through would double-count every spmv fan-in.
func buildCSC(triples []Triple, rgOffset, cgOffset uint32, colLocator, globalLocator *Locator, ncols uint32) *CSC {
	seen := make(map[[2]uint32]struct{}, len(triples))
	uniq := make([]Triple, 0, len(triples))
	for _, tr := range triples {
		key := [2]uint32{tr.Row, tr.Col}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, tr)
	}

	colptrs := make([]uint32, ncols+1)
	colidxs := make([]uint32, ncols)

	for _, tr := range uniq {
		c := colLocator.At(tr.Col - cgOffset)
		colptrs[c]++
		colidxs[c] = tr.Col
	}
	for i := uint32(0); i < ncols; i++ {
		colptrs[i+1] += colptrs[i]
	}

	entries := make([]CSCEntry, len(uniq))
	for _, tr := range uniq {
		c := colLocator.At(tr.Col - cgOffset)
		globalIdx := globalLocator.At(tr.Row - rgOffset)
		colptrs[c]--
		entries[colptrs[c]] = CSCEntry{
			GlobalIdx: globalIdx,
			OrigRow:   tr.Row,
			Weight:    tr.Weight,
			Weighted:  tr.Weighted,
		}
	}

	for i := uint32(0); i < ncols; i++ {
		sub := entries[colptrs[i]:colptrs[i+1]]
		sort.Slice(sub, func(a, b int) bool { return sub[a].GlobalIdx < sub[b].GlobalIdx })
	}

	return &CSC{NCols: ncols, ColPtrs: colptrs, ColIdxs: colidxs, Entries: entries}
}
