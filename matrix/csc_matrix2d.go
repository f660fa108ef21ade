package matrix

// BuildCSCTiles builds each tile's RegularCSC/SinkCSC from its triples, once
// Preprocess has populated rowgroup/colgroup locators. A tile's triples
// split by the owning rowgroup's classification of the destination row:
// regular rows go into RegularCSC (read every iteration), sink rows into
// SinkCSC (read once, at termination).
func BuildCSCTiles(am *AnnotatedMatrix2D) {
	for rg := range am.Tiles {
		rowgrp := am.RowGroups[rg]
		for cg := range am.Tiles[rg] {
			colgrp := am.ColGroups[cg]
			tile := am.Tiles[rg][cg]

			var regularTriples, sinkTriples []Triple
			for _, tr := range tile.Triples {
				vt, _ := rowgrp.Locator.Map(tr.Row - rowgrp.Offset)
				if vt == Secondary {
					sinkTriples = append(sinkTriples, tr)
				} else {
					regularTriples = append(regularTriples, tr)
				}
			}

			ncols := colgrp.Range()
			tile.RegularCSC = buildCSC(regularTriples, rowgrp.Offset, colgrp.Offset, colgrp.Locator, rowgrp.GlobalLocator, ncols)
			tile.SinkCSC = buildCSC(sinkTriples, rowgrp.Offset, colgrp.Offset, colgrp.Locator, rowgrp.GlobalLocator, ncols)
		}
	}
}
