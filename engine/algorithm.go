// Package engine implements the vertex program execution core: the
// Algorithm capability set applications implement, and the GAS iteration
// loop (scatter, tile-local SpMV gather, partial combine, apply, activation
// tracking, convergence) that drives it across a fixed set of
// goroutine-backed ranks.
//
// Optional capabilities — does gather read vertex state, does apply depend
// on the iteration number, and so on — are declared by implementing the
// GatherWithState/ApplyWithIter/InitForeign/Optimizable/Stationary
// interfaces below; detectCapabilities resolves each with a single
// type assertion.
package engine

// Edge is the (src, dst, weight?) view of one CSC entry that SpMV hands to
// Gather: src is the column's original vertex id, dst the row's.
type Edge struct {
	Src, Dst uint32
	Weight   float64
	Weighted bool
}

// Algorithm is the capability set every vertex program implements: S is
// per-vertex persistent state, M the scatter output (message), A the
// gather/combine accumulator.
type Algorithm[S, M, A any] interface {
	// Init seeds vid's initial state, returning whether it starts active
	// (and therefore scatters an initial message).
	Init(vid uint32, state *S) (activate bool)
	// Scatter produces the outgoing message for a vertex currently in state.
	Scatter(state S) M
	// Gather combines one incoming edge's message into an accumulator
	// value, given the edge's structural metadata (no vertex state read —
	// see GatherWithState for the mirrored variant).
	Gather(edge Edge, msg M) A
	// Combine folds a into acc. Must be associative and commutative: the
	// engine combines arriving partials in non-deterministic order.
	Combine(a A, acc *A)
	// Apply folds an accumulated value into state, returning whether the
	// vertex should remain/become active next iteration.
	Apply(acc A, state *S) (activated bool)
}

// GatherWithState is the mirrored variant of Gather: implementing it tells
// the engine gather needs to read the destination vertex's own current
// state, which requires mirroring that state to every rank holding a tile
// in the vertex's rowgroup before the first SpMV of each execute() call.
type GatherWithState[S, M, A any] interface {
	GatherState(edge Edge, msg M, state S) A
}

// ApplyWithIter is the iteration-aware variant of Apply: when implemented,
// the engine calls ApplyIter instead of Apply, passing the current iteration
// number (-1 in the terminal sink pass).
type ApplyWithIter[S, A any] interface {
	ApplyIter(acc A, state *S, iter int) (activated bool)
}

// InitForeign is the init variant that receives a vertex's state from
// another program. detectCapabilities records whether an algorithm
// implements it, but Execute never calls InitForeign: every vertex is seeded
// through Init, and no state vector is carried from one program to the next.
type InitForeign[S any] interface {
	InitForeign(vid uint32, foreign S, state *S) (activate bool)
}

// Optimizable, when implemented and returning false, disables the engine's
// deferral of sink rows to a terminal pass: sink processing then runs
// alongside regular processing every iteration instead.
type Optimizable interface {
	Optimizable() bool
}

// Stationary, when implemented and returning true, tells the engine to
// scatter a vertex's state every iteration regardless of Apply's activation
// result — used by PageRank, where every vertex's current rank, not an
// activation event, is what must keep flowing.
type Stationary interface {
	Stationary() bool
}

// capabilities is the result of the engine's one-time type-assertion probe
// over an Algorithm value.
type capabilities struct {
	mirrored    bool
	iterAware   bool
	foreignInit bool
	optimizable bool
	stationary  bool
}

func detectCapabilities[S, M, A any](algo Algorithm[S, M, A]) capabilities {
	c := capabilities{optimizable: true}
	if _, ok := algo.(GatherWithState[S, M, A]); ok {
		c.mirrored = true
	}
	if _, ok := algo.(ApplyWithIter[S, A]); ok {
		c.iterAware = true
	}
	if _, ok := algo.(InitForeign[S]); ok {
		c.foreignInit = true
	}
	if o, ok := algo.(Optimizable); ok {
		c.optimizable = o.Optimizable()
	}
	if s, ok := algo.(Stationary); ok {
		c.stationary = s.Stationary()
	}
	return c
}
