package apps

import (
	"testing"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/matrix"
)

func TestSSSPWeightedShortestPaths(t *testing.T) {
	// Edges 0->1 (w=2), 1->2 (w=3), 0->2 (w=10) from root 0: the direct
	// 0->2 edge loses to the two-hop path.
	triples := []matrix.Triple{
		{Row: 1, Col: 0, Weight: 2, Weighted: true},
		{Row: 2, Col: 1, Weight: 3, Weighted: true},
		{Row: 2, Col: 0, Weight: 10, Weighted: true},
	}
	am := buildAM(3, 1, 1, triples)
	e := engine.NewEngine[SSSPState, float64, SSSPState](am, SSSP{Root: 0}, Float64Codec, SSSPStateCodec, SSSPStateCodec)
	e.Execute(0)

	want := []float64{0, 2, 5}
	var checksum float64
	for vid, w := range want {
		got := e.VertexValue(uint32(vid)).Dist
		if got != w {
			t.Errorf("vertex %d dist = %v, want %v", vid, got, w)
		}
		checksum += got
	}
	if checksum != 7 {
		t.Errorf("sum(distance) = %v, want 7", checksum)
	}
}
