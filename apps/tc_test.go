package apps

import (
	"testing"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/matrix"
)

func TestTriangleCountAfterCycleRemoval(t *testing.T) {
	// The triangle {0-1, 1-2, 2-0} with only the col>row direction
	// kept (0->1, 1->2, 0->2), giving exactly one triangle.
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 0},
	}
	am := buildAM(3, 1, 1, triples)
	tc := NewTC(am)
	e := engine.NewEngine[TCState, []uint32, int](am, tc, TCMessageCodec, IntCodec, TCStateCodec)
	e.Execute(0)

	total := 0
	for vid := 0; vid < 3; vid++ {
		total += e.VertexValue(uint32(vid)).Count
	}
	if total != 1 {
		t.Errorf("total triangles = %d, want 1", total)
	}
}
