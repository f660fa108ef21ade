package apps

import (
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/matrix"
)

// Degree computes per-vertex in-degree by treating each incoming edge's
// message as a constant unit of mass and summing it, then exposes the
// result via the engine's top-k support. Degree never re-activates once
// applied, since in-degree is a static structural property, not an
// iterative fixed point.
type Degree struct{}

func (Degree) Init(uint32, *uint32) bool { return true }

func (Degree) Scatter(uint32) struct{} { return struct{}{} }

func (Degree) Gather(engine.Edge, struct{}) uint32 { return 1 }

func (Degree) Combine(a uint32, acc *uint32) { *acc += a }

func (Degree) Apply(acc uint32, state *uint32) bool {
	*state = acc
	return false
}

// DegreeMessageCodec serializes Degree's empty message (no payload needed:
// the mere presence of an edge is the signal gather() counts).
var DegreeMessageCodec = emptyCodec

// NewDegreeEngine is a convenience constructor exercising engine.NewEngine
// over the Degree program, for callers (tests, cmd/lp-degree) that don't
// need the matrix build step inlined.
func NewDegreeEngine(am *matrix.AnnotatedMatrix2D) *engine.Engine[uint32, struct{}, uint32] {
	return engine.NewEngine[uint32, struct{}, uint32](am, Degree{}, emptyCodec, Uint32Codec, Uint32Codec)
}
