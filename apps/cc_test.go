package apps

import (
	"testing"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/matrix"
)

// ccFixtureTriples builds the 4-vertex graph 0-1, 1-2 undirected, with
// vertex 3 isolated.
func ccFixtureTriples() []matrix.Triple {
	return []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 0, Col: 1},
		{Row: 2, Col: 1}, {Row: 1, Col: 2},
	}
}

func TestCCConvergesToMinLabel(t *testing.T) {
	am := buildAM(4, 4, 1, ccFixtureTriples())
	e := engine.NewEngine[uint32, uint32, uint32](am, CC{}, CCCodecs.Msg, CCCodecs.Accum, CCCodecs.State)
	e.Execute(0)

	want := []uint32{0, 0, 0, 3}
	for vid, w := range want {
		if got := e.VertexValue(uint32(vid)); got != w {
			t.Errorf("vertex %d label = %d, want %d", vid, got, w)
		}
	}

	sum := engine.Reduce[uint32, uint32, uint32, uint32](e, func(_ uint32, s uint32) uint32 { return s }, func(a, b uint32) uint32 { return a + b }, 0, false)
	if sum != 3 {
		t.Errorf("sum(label) = %d, want 3", sum)
	}
}

// TestCCSingleIterationFastPath exercises the single-iteration Execute(1)
// path: after exactly one round the labelling is partially but not fully
// propagated (vertex 2 hasn't yet heard vertex 0's label through vertex 1),
// unlike the converged run above.
func TestCCSingleIterationFastPath(t *testing.T) {
	am := buildAM(4, 4, 1, ccFixtureTriples())
	e := engine.NewEngine[uint32, uint32, uint32](am, CC{}, CCCodecs.Msg, CCCodecs.Accum, CCCodecs.State)
	e.Execute(1)

	want := []uint32{0, 0, 1, 3}
	for vid, w := range want {
		if got := e.VertexValue(uint32(vid)); got != w {
			t.Errorf("vertex %d label after 1 iter = %d, want %d", vid, got, w)
		}
	}
}
