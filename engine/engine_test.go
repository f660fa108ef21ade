package engine

import (
	"testing"

	"github.com/gas2d/engine/matrix"
	"github.com/gas2d/engine/sparse"
)

var u32Codec = sparse.Codec[uint32]{
	FixedSize: 4,
	Encode: func(v uint32) []byte {
		return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	},
	Decode: func(b []byte) uint32 {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	},
}

func buildAM(nrows, ntiles, nranks uint32, triples []matrix.Triple) *matrix.AnnotatedMatrix2D {
	m := matrix.NewMatrix2D(nrows, nrows, ntiles)
	for _, tr := range triples {
		m.Insert(tr)
	}
	am := matrix.NewAnnotatedMatrix2D(m, nranks)
	matrix.Preprocess(am)
	matrix.BuildCSCTiles(am)
	return am
}

// minLabel is an inline min-label propagation program (every vertex adopts
// the smallest label it hears), used to drive the engine without depending
// on the apps package.
type minLabel struct{}

func (minLabel) Init(vid uint32, state *uint32) bool { *state = vid; return true }
func (minLabel) Scatter(state uint32) uint32         { return state }
func (minLabel) Gather(_ Edge, msg uint32) uint32    { return msg }
func (minLabel) Combine(a uint32, acc *uint32) {
	if a < *acc {
		*acc = a
	}
}
func (minLabel) Apply(acc uint32, state *uint32) bool {
	if acc < *state {
		*state = acc
		return true
	}
	return false
}

const unreached = ^uint32(0)

// minHops is an inline hop-count relaxation from a fixed root, covering the
// source (root with no in-edges) and sink (vertex with no out-edges) roles.
type minHops struct{ root uint32 }

func (h minHops) Init(vid uint32, state *uint32) bool {
	if vid == h.root {
		*state = 0
		return true
	}
	*state = unreached
	return false
}
func (minHops) Scatter(state uint32) uint32 {
	if state == unreached {
		return unreached // the sink pass scatters unreached vertices too
	}
	return state + 1
}
func (minHops) Gather(_ Edge, msg uint32) uint32 { return msg }
func (minHops) Combine(a uint32, acc *uint32) {
	if a < *acc {
		*acc = a
	}
}
func (minHops) Apply(acc uint32, state *uint32) bool {
	if acc < *state {
		*state = acc
		return true
	}
	return false
}

func TestExecuteMultiRankLabelPropagation(t *testing.T) {
	// Two undirected components {0,1,2} and {3,4}, vertex 5 isolated, spread
	// over a 2x2 tile grid with one rank per tile so every message crosses a
	// simulated rank boundary.
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 0, Col: 1},
		{Row: 2, Col: 1}, {Row: 1, Col: 2},
		{Row: 4, Col: 3}, {Row: 3, Col: 4},
	}
	am := buildAM(6, 4, 4, triples)
	e := NewEngine[uint32, uint32, uint32](am, minLabel{}, u32Codec, u32Codec, u32Codec)
	e.Execute(0)

	want := []uint32{0, 0, 0, 3, 3, 5}
	for vid, w := range want {
		if got := e.VertexValue(uint32(vid)); got != w {
			t.Errorf("vertex %d label = %d, want %d", vid, got, w)
		}
	}
}

func TestExecuteSourceAndSinkRoles(t *testing.T) {
	// Path 0 -> 1 -> 2 stored as (dst, src) triples: vertex 0 is a source
	// (scatters only its one-time init message), vertex 2 a sink (applied
	// only by the terminal pass).
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 2, Col: 1},
	}
	am := buildAM(3, 4, 4, triples)
	e := NewEngine[uint32, uint32, uint32](am, minHops{root: 0}, u32Codec, u32Codec, u32Codec)
	e.Execute(0)

	want := []uint32{0, 1, 2}
	for vid, w := range want {
		if got := e.VertexValue(uint32(vid)); got != w {
			t.Errorf("vertex %d hops = %d, want %d", vid, got, w)
		}
	}
}

func TestExecuteUnreachedSourceStaysSilent(t *testing.T) {
	// Rooting at the sink end of the path: the source vertex 0 is never
	// reached and must not scatter its init-time state, or vertex 1 would
	// adopt a bogus hop count.
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 2, Col: 1},
	}
	am := buildAM(3, 1, 1, triples)
	e := NewEngine[uint32, uint32, uint32](am, minHops{root: 2}, u32Codec, u32Codec, u32Codec)
	e.Execute(0)

	want := []uint32{unreached, unreached, 0}
	for vid, w := range want {
		if got := e.VertexValue(uint32(vid)); got != w {
			t.Errorf("vertex %d hops = %d, want %d", vid, got, w)
		}
	}
}

func TestExecuteIterationCap(t *testing.T) {
	// A 4-vertex path needs three iterations to fully propagate the min
	// label; capping at one must leave the far end untouched.
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 0, Col: 1},
		{Row: 2, Col: 1}, {Row: 1, Col: 2},
		{Row: 3, Col: 2}, {Row: 2, Col: 3},
	}
	am := buildAM(4, 1, 1, triples)
	e := NewEngine[uint32, uint32, uint32](am, minLabel{}, u32Codec, u32Codec, u32Codec)
	e.Execute(1)

	want := []uint32{0, 0, 1, 2}
	for vid, w := range want {
		if got := e.VertexValue(uint32(vid)); got != w {
			t.Errorf("vertex %d label after 1 iter = %d, want %d", vid, got, w)
		}
	}
}

type statefulGatherer struct{ minLabel }

func (statefulGatherer) GatherState(_ Edge, msg uint32, _ uint32) uint32 { return msg }

type iterAware struct{ minLabel }

func (iterAware) ApplyIter(acc uint32, state *uint32, _ int) bool { return false }

type nonOptimizable struct{ minLabel }

func (nonOptimizable) Optimizable() bool { return false }

type stationaryAlgo struct{ minLabel }

func (stationaryAlgo) Stationary() bool { return true }

func TestDetectCapabilities(t *testing.T) {
	base := detectCapabilities[uint32, uint32, uint32](minLabel{})
	if base.mirrored || base.iterAware || base.stationary || !base.optimizable {
		t.Errorf("plain algorithm capabilities = %+v, want optimizable only", base)
	}
	if c := detectCapabilities[uint32, uint32, uint32](statefulGatherer{}); !c.mirrored {
		t.Error("GatherState implementer should be detected as mirrored")
	}
	if c := detectCapabilities[uint32, uint32, uint32](iterAware{}); !c.iterAware {
		t.Error("ApplyIter implementer should be detected as iteration-aware")
	}
	if c := detectCapabilities[uint32, uint32, uint32](nonOptimizable{}); c.optimizable {
		t.Error("Optimizable()==false should disable the sink deferral")
	}
	if c := detectCapabilities[uint32, uint32, uint32](stationaryAlgo{}); !c.stationary {
		t.Error("Stationary()==true should be detected")
	}
}

type nonOptimizableHops struct{ minHops }

func (nonOptimizableHops) Optimizable() bool { return false }

func TestExecuteNonOptimizableMatchesSinkPass(t *testing.T) {
	// The same path graph through both strategies: deferring sink rows to
	// the terminal pass and folding them into every iteration must agree.
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 2, Col: 1},
	}
	want := []uint32{0, 1, 2}

	amA := buildAM(3, 1, 1, triples)
	a := NewEngine[uint32, uint32, uint32](amA, minHops{root: 0}, u32Codec, u32Codec, u32Codec)
	a.Execute(0)
	for vid, w := range want {
		if got := a.VertexValue(uint32(vid)); got != w {
			t.Errorf("optimizable run: vertex %d = %d, want %d", vid, got, w)
		}
	}

	amB := buildAM(3, 1, 1, triples)
	b := NewEngine[uint32, uint32, uint32](amB, nonOptimizableHops{minHops{root: 0}}, u32Codec, u32Codec, u32Codec)
	b.Execute(0)
	for vid, w := range want {
		if got := b.VertexValue(uint32(vid)); got != w {
			t.Errorf("non-optimizable run: vertex %d = %d, want %d", vid, got, w)
		}
	}
}

func TestReduceAndTopK(t *testing.T) {
	triples := []matrix.Triple{
		{Row: 1, Col: 0}, {Row: 0, Col: 1},
		{Row: 2, Col: 1}, {Row: 1, Col: 2},
	}
	am := buildAM(4, 4, 4, triples)
	e := NewEngine[uint32, uint32, uint32](am, minLabel{}, u32Codec, u32Codec, u32Codec)
	e.Execute(0)

	sum := Reduce[uint32, uint32, uint32, uint32](e, func(_ uint32, s uint32) uint32 { return s }, func(a, b uint32) uint32 { return a + b }, 0, false)
	if sum != 3 {
		t.Errorf("sum(label) = %d, want 3", sum)
	}

	top := TopK[uint32, uint32, uint32, uint32](e, 2, func(_ uint32, s uint32) uint32 { return s }, func(a, b uint32) bool { return a > b }, false)
	if len(top) != 2 || top[0].Val != 3 || top[0].Vid != 3 {
		t.Errorf("top-2 = %+v, want vertex 3 (label 3) first", top)
	}
}
