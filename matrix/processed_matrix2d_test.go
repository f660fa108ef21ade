package matrix

import "testing"

// buildTestGraph makes a small 8-vertex graph with a regular core (0<->1,
// 1<->2), a sink (3, only ever a destination), and a source (4, only ever
// an origin), over a 4-tile (2x2) grid sized to fit all of it in one
// rowgroup/colgroup segment per vertex.
func buildTestGraph() *AnnotatedMatrix2D {
	m := NewMatrix2D(8, 8, 4)
	m.Insert(Triple{Row: 0, Col: 1})
	m.Insert(Triple{Row: 1, Col: 0})
	m.Insert(Triple{Row: 1, Col: 2})
	m.Insert(Triple{Row: 2, Col: 1})
	m.Insert(Triple{Row: 3, Col: 4}) // 3 is a sink (row only), 4 is a source (col only)

	am := NewAnnotatedMatrix2D(m, 1)
	Preprocess(am)
	return am
}

func TestPreprocessClassification(t *testing.T) {
	am := buildTestGraph()

	// Vertex 0,1,2 are regular (appear as both row and col).
	for _, v := range []uint32{0, 1, 2} {
		rg := am.RowGroups[am.SegmentOfIdx(v)]
		if !rg.Regular.Check(v - rg.Offset) {
			t.Fatalf("vertex %d should classify regular", v)
		}
	}

	rg3 := am.RowGroups[am.SegmentOfIdx(3)]
	if !rg3.Sink.Check(3 - rg3.Offset) {
		t.Fatal("vertex 3 should classify sink (row only)")
	}

	cg4 := am.ColGroups[am.SegmentOfIdx(4)]
	if !cg4.Source.Check(4 - cg4.Offset) {
		t.Fatal("vertex 4 should classify source (col only)")
	}
}

func TestBuildCSCTilesKeepsOneEntryPerTriple(t *testing.T) {
	am := buildTestGraph()
	BuildCSCTiles(am)

	total := 0
	for rg := range am.Tiles {
		for cg := range am.Tiles[rg] {
			tile := am.Tiles[rg][cg]
			total += len(tile.RegularCSC.Entries) + len(tile.SinkCSC.Entries)
		}
	}
	if total != 5 {
		t.Fatalf("got %d total CSC entries across all tiles, want 5 (one per inserted triple)", total)
	}
}

func TestBuildCSCTilesDeduplicatesParallelEdges(t *testing.T) {
	m := NewMatrix2D(8, 8, 4)
	m.Insert(Triple{Row: 0, Col: 1})
	m.Insert(Triple{Row: 0, Col: 1}) // parallel edge, same (row, col)
	m.Insert(Triple{Row: 1, Col: 0})
	m.Insert(Triple{Row: 1, Col: 0})
	m.Insert(Triple{Row: 1, Col: 0})

	am := NewAnnotatedMatrix2D(m, 1)
	Preprocess(am)
	BuildCSCTiles(am)

	total := 0
	for rg := range am.Tiles {
		for cg := range am.Tiles[rg] {
			tile := am.Tiles[rg][cg]
			total += len(tile.RegularCSC.Entries) + len(tile.SinkCSC.Entries)
		}
	}
	if total != 2 {
		t.Fatalf("got %d CSC entries, want 2 (duplicates collapse to one edge each)", total)
	}
}

func TestBuildCSCTilesSinkRowsGoToSinkCSC(t *testing.T) {
	am := buildTestGraph()
	BuildCSCTiles(am)

	rg := am.SegmentOfIdx(3)
	cg := am.SegmentOfIdx(4)
	tile := am.Tiles[rg][cg]

	if len(tile.SinkCSC.Entries) == 0 {
		t.Fatal("triple (3,4) should have landed in the sink CSC, since row 3 is a sink")
	}
	for _, e := range tile.RegularCSC.Entries {
		if e.OrigRow == 3 {
			t.Fatal("sink row 3 leaked into the regular CSC")
		}
	}
}
