package matrix

import "github.com/gas2d/engine/bitset"

// Preprocess classifies every vertex as regular (has both incoming and
// outgoing edges), sink (incoming only), or source (outgoing only), then
// builds each rowgroup's/colgroup's/dashboard's bit vectors and locators
// from that classification.
//
// The classification is computed directly over the global row/col presence
// sets, since every tile is already resident in one process; a
// leader-reduces-then-fans-out exchange would produce identical bit
// vectors and locators, just with extra hops.
func Preprocess(am *AnnotatedMatrix2D) {
	hasRow := bitset.New(am.NRows)
	hasCol := bitset.New(am.NCols)
	for rg := range am.Tiles {
		for cg := range am.Tiles[rg] {
			for _, tr := range am.Tiles[rg][cg].Triples {
				hasRow.Touch(tr.Row)
				hasCol.Touch(tr.Col)
			}
		}
	}

	regular := bitset.New(am.NRows)
	sink := bitset.New(am.NRows)
	source := bitset.New(am.NRows)
	for idx := uint32(0); idx < am.NRows; idx++ {
		r, c := hasRow.Check(idx), hasCol.Check(idx)
		switch {
		case r && c:
			regular.Touch(idx)
		case r && !c:
			sink.Touch(idx)
		case !r && c:
			source.Touch(idx)
		}
	}

	for _, rg := range am.RowGroups {
		n := rg.Range()
		rg.Local = sliceBitVector(hasRow, rg.Offset, n)
		rg.Regular = sliceBitVector(regular, rg.Offset, n)
		rg.Sink = sliceBitVector(sink, rg.Offset, n)
		rg.GloballyRegular = rg.Regular
		rg.GloballySink = rg.Sink

		rg.Locator = NewLocator(n)
		rg.Locator.ForPair(rg.Regular, rg.Sink)
		rg.GlobalLocator = NewLocator(n)
		rg.GlobalLocator.ForPair(rg.GloballyRegular, rg.GloballySink)
	}

	for _, cg := range am.ColGroups {
		n := cg.Range()
		cg.Local = sliceBitVector(hasCol, cg.Offset, n)
		cg.Regular = sliceBitVector(regular, cg.Offset, n)
		cg.Source = sliceBitVector(source, cg.Offset, n)

		cg.Locator = NewLocator(n)
		cg.Locator.ForPair(cg.Regular, cg.Source)
	}

	for k, db := range am.Dashboards {
		rg := am.RowGroups[k]
		cg := am.ColGroups[k]
		db.Regular = rg.Regular
		db.Sink = rg.Sink
		db.Source = cg.Source

		db.Locator = NewLocator(rg.Range())
		db.Locator.ForDashboard(db.Regular, db.Sink, db.Source)
	}
}

// sliceBitVector extracts the [offset, offset+n) window of src into a fresh
// bit vector indexed from 0.
func sliceBitVector(src *bitset.BitVector, offset, n uint32) *bitset.BitVector {
	out := bitset.New(n)
	for idx := uint32(0); idx < n; idx++ {
		if src.Check(offset + idx) {
			out.Touch(idx)
		}
	}
	return out
}
