package apps

import (
	"testing"

	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/matrix"
)

func TestBFSPathFromRoot(t *testing.T) {
	// The path 0->1->2->3->4 from root 0.
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 2, Col: 1}, {Row: 3, Col: 2}, {Row: 4, Col: 3},
	}
	am := buildAM(5, 4, 1, triples)
	e := engine.NewEngine[BFSState, BFSMessage, BFSMessage](am, BFS{Root: 0}, BFSMessageCodec, BFSMessageCodec, BFSStateCodec)
	e.Execute(0)

	wantHops := []int32{0, 1, 2, 3, 4}
	wantParent := []uint32{0, 0, 1, 2, 3}
	for vid := range wantHops {
		s := e.VertexValue(uint32(vid))
		if s.Hops != wantHops[vid] {
			t.Errorf("vertex %d hops = %d, want %d", vid, s.Hops, wantHops[vid])
		}
		if s.Parent != wantParent[vid] {
			t.Errorf("vertex %d parent = %d, want %d", vid, s.Parent, wantParent[vid])
		}
	}
}

func TestBFSReversedFromOtherEnd(t *testing.T) {
	// Same path, edges reversed, root at the far end: hops = [4,3,2,1,0].
	triples := []matrix.Triple{
		{Row: 0, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 3}, {Row: 3, Col: 4},
	}
	am := buildAM(5, 4, 1, triples)
	e := engine.NewEngine[BFSState, BFSMessage, BFSMessage](am, BFS{Root: 4}, BFSMessageCodec, BFSMessageCodec, BFSStateCodec)
	e.Execute(0)

	wantHops := []int32{4, 3, 2, 1, 0}
	for vid, want := range wantHops {
		if got := e.VertexValue(uint32(vid)).Hops; got != want {
			t.Errorf("vertex %d hops = %d, want %d", vid, got, want)
		}
	}
}
