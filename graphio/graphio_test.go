package graphio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gas2d/engine/matrix"
	"github.com/gas2d/engine/rhash"
)

func TestSaveLoadTriplesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.bin")

	want := []matrix.Triple{
		{Row: 1, Col: 0},
		{Row: 2, Col: 1},
	}
	if err := SaveTriples(path, 3, 3, want, false); err != nil {
		t.Fatalf("SaveTriples: %v", err)
	}

	lr, err := LoadTriples(path, LoadOptions{Reverse: true})
	if err != nil {
		t.Fatalf("LoadTriples: %v", err)
	}
	if lr.NRows != 3 || lr.NCols != 3 {
		t.Fatalf("dims = (%d,%d), want (3,3)", lr.NRows, lr.NCols)
	}
	if len(lr.Triples) != len(want) {
		t.Fatalf("got %d triples, want %d", len(lr.Triples), len(want))
	}
	for i, tr := range lr.Triples {
		if tr.Row != want[i].Row || tr.Col != want[i].Col {
			t.Errorf("triple %d = %+v, want %+v", i, tr, want[i])
		}
	}
}

func TestLoadTriplesDropsSelfLoopsAndTransposes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.bin")

	in := []matrix.Triple{
		{Row: 0, Col: 0}, // self-loop, dropped
		{Row: 1, Col: 0}, // kept, transposed to Row=0,Col=1
	}
	if err := SaveTriples(path, 2, 2, in, false); err != nil {
		t.Fatalf("SaveTriples: %v", err)
	}

	lr, err := LoadTriples(path, LoadOptions{})
	if err != nil {
		t.Fatalf("LoadTriples: %v", err)
	}
	if len(lr.Triples) != 1 {
		t.Fatalf("got %d triples, want 1", len(lr.Triples))
	}
	if lr.Triples[0].Row != 0 || lr.Triples[0].Col != 1 {
		t.Fatalf("triple = %+v, want transposed (0,1)", lr.Triples[0])
	}
}

func TestLoadMatrixMarket(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.mtx")
	contents := "%%MatrixMarket matrix coordinate pattern general\n3 3 2\n1 2\n2 3\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write mtx: %v", err)
	}

	lr, err := LoadMatrixMarket(path, LoadOptions{Reverse: true})
	if err != nil {
		t.Fatalf("LoadMatrixMarket: %v", err)
	}
	if len(lr.Triples) != 2 {
		t.Fatalf("got %d triples, want 2", len(lr.Triples))
	}
	if lr.Triples[0].Row != 0 || lr.Triples[0].Col != 1 {
		t.Errorf("triple 0 = %+v, want (0,1)", lr.Triples[0])
	}
}

func TestSaveLoadMatrixMarketRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.mtx")

	want := []matrix.Triple{
		{Row: 0, Col: 1, Weight: 2.5, Weighted: true},
		{Row: 1, Col: 2, Weight: 3, Weighted: true},
	}
	if err := SaveMatrixMarket(path, 3, 3, want, true); err != nil {
		t.Fatalf("SaveMatrixMarket: %v", err)
	}

	lr, err := LoadMatrixMarket(path, LoadOptions{Weighted: true, Reverse: true})
	if err != nil {
		t.Fatalf("LoadMatrixMarket: %v", err)
	}
	if len(lr.Triples) != len(want) {
		t.Fatalf("got %d triples, want %d", len(lr.Triples), len(want))
	}
	for i, tr := range lr.Triples {
		if tr.Row != want[i].Row || tr.Col != want[i].Col || tr.Weight != want[i].Weight {
			t.Errorf("triple %d = %+v, want %+v", i, tr, want[i])
		}
	}
}

func TestHashIDsRoundTrips(t *testing.T) {
	lr := LoadResult{NRows: 256, NCols: 256, Triples: []matrix.Triple{
		{Row: 3, Col: 7}, {Row: 200, Col: 41},
	}}
	orig := append([]matrix.Triple(nil), lr.Triples...)

	h := rhash.NewBucket(256, 2)
	HashIDs(&lr, h)
	for i, tr := range lr.Triples {
		if got := uint32(h.Unhash(int64(tr.Row))); got != orig[i].Row {
			t.Errorf("triple %d row unhash = %d, want %d", i, got, orig[i].Row)
		}
		if got := uint32(h.Unhash(int64(tr.Col))); got != orig[i].Col {
			t.Errorf("triple %d col unhash = %d, want %d", i, got, orig[i].Col)
		}
	}
}

func TestBuildMatrix(t *testing.T) {
	lr := LoadResult{NRows: 4, NCols: 4, Triples: []matrix.Triple{{Row: 0, Col: 1}, {Row: 1, Col: 2}}}
	m := BuildMatrix(lr, 4)
	if m.NRows != 4 || m.NColGrps != 2 {
		t.Fatalf("unexpected matrix shape: rows=%d colgrps=%d", m.NRows, m.NColGrps)
	}
}
