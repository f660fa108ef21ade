// Package vector implements the per-rank vertex program state shards:
// master + mirrored vertex state, outgoing/incoming message segments split
// into regular/source sub-segments, and partial/final accumulator segments.
//
// Every segment here is sized and indexed by the matrix package's locators,
// so a segment's position i always means "the i-th regular (or sink, or
// source) vertex" in the same order the locator that built it enumerated
// them.
package vector

import (
	"github.com/gas2d/engine/bitset"
	"github.com/gas2d/engine/sparse"
)

// VertexState is the master-side state for one owned dashboard: one entry
// per local row index in that dashboard's rowgroup, plus the activity bit
// vector the engine resets and repopulates every iteration.
type VertexState[S any] struct {
	Values   []S
	Activity *bitset.BitVector
}

// NewVertexState allocates master state over [0, n) local row indices.
func NewVertexState[S any](n uint32) *VertexState[S] {
	return &VertexState[S]{Values: make([]S, n), Activity: bitset.New(n)}
}

func (v *VertexState[S]) Get(idx uint32) S    { return v.Values[idx] }
func (v *VertexState[S]) Set(idx uint32, s S) { v.Values[idx] = s }

// Activate marks idx active, matching an Init/Apply call that returned true.
func (v *VertexState[S]) Activate(idx uint32) { v.Activity.Touch(idx) }

func (v *VertexState[S]) IsActive(idx uint32) bool { return v.Activity.Check(idx) }

// ResetActivity clears the activity set at the start of each iteration.
func (v *VertexState[S]) ResetActivity() { v.Activity.Clear() }

// Mirror is a read-only shadow of a master's regular-bucket state values, held by
// non-owning ranks that hold a tile in the dashboard's rowgroup, populated
// once per mirroring round.
type Mirror[S any] struct {
	Values *sparse.RandomAccessArray[S]
}

// NewMirror allocates a mirror segment over [0, n) with the given codec
// (needed only if the mirror is ever serialized across a real wire; the
// in-process substrate just passes the pointer).
func NewMirror[S any](n uint32, codec sparse.Codec[S]) *Mirror[S] {
	return &Mirror[S]{Values: sparse.NewRandomAccessArray[S](n, codec)}
}

// OutgoingSegment is the leader-side scatter output for one dashboard,
// split into a Regular sub-segment (new messages from applied regular
// vertices) and a Source sub-segment (messages pushed once, at
// initialization, from vertices that never receive an accumulator because
// they have no incoming edges). A source vertex is never the target of a
// gather/combine/apply round, so its only message is the one Scatter emits
// from its initial state.
type OutgoingSegment[M any] struct {
	Regular *sparse.StreamingArray[M]
	Source  *sparse.StreamingArray[M]
}

// NewOutgoingSegment allocates fresh Regular/Source sub-segments sized to
// the dashboard locator's regular/source bucket counts.
func NewOutgoingSegment[M any](nregular, nsource uint32, codec sparse.Codec[M]) *OutgoingSegment[M] {
	return &OutgoingSegment[M]{
		Regular: sparse.NewStreamingArray[M](nregular, codec),
		Source:  sparse.NewStreamingArray[M](nsource, codec),
	}
}

// Reset replaces both sub-segments for a new iteration's scatter.
func (o *OutgoingSegment[M]) Reset(nregular, nsource uint32, codec sparse.Codec[M]) {
	o.Regular = sparse.NewStreamingArray[M](nregular, codec)
	o.Source = sparse.NewStreamingArray[M](nsource, codec)
}

// IncomingSegment is the follower-side mirror of an OutgoingSegment: the
// same shape, received (not produced) once per iteration. A follower never
// mutates it, only iterates it through its own Cursor, since several
// followers may share one segment.
type IncomingSegment[M any] = OutgoingSegment[M]

// Cursor returns an independent, non-destructive streaming position over
// seg's activity set while sharing seg's underlying value slice — the
// per-task state each parallel SpMV fan-out task needs, without copying
// the (potentially large) value buffer itself.
func Cursor[M any](seg *sparse.StreamingArray[M]) *sparse.StreamingArray[M] {
	return seg.CursorClone()
}

// AccumSegment is both the partial accumulator a tile-local SpMV writes
// into and, once combined at the leader, the final accumulator apply reads
// from — the same GlobalIdx space serves both roles, indexed over a
// rowgroup's regular bucket followed by its sink bucket.
type AccumSegment[A any] struct {
	Values *sparse.RandomAccessArray[A]
}

// NewAccumSegment allocates an accumulator segment over [0, n) — n is the
// owning rowgroup's full Range(), though only the first
// GlobalLocator.NRegular()+NSecondary() positions are ever touched.
func NewAccumSegment[A any](n uint32, codec sparse.Codec[A]) *AccumSegment[A] {
	return &AccumSegment[A]{Values: sparse.NewRandomAccessArray[A](n, codec)}
}

// Tag component kinds: each segment uth owns six consecutive tags,
// 6*uth + kind.
const (
	KindRowGrpRegular = 0
	KindRowGrpSink    = 1
	KindMirrorRegular = 2
	KindMirrorSink    = 3
	KindColGrpRegular = 4
	KindColGrpSource  = 5
)

// Tag computes the substrate message tag for segment uth and component kind.
func Tag(uth uint32, kind int) int { return int(6*uth) + kind }
