package engine

import (
	"sync"

	"github.com/gas2d/engine/enforce"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/mathutils"
	"github.com/gas2d/engine/matrix"
	"github.com/gas2d/engine/sparse"
	"github.com/gas2d/engine/substrate"
	"github.com/gas2d/engine/vector"
	"github.com/rs/zerolog/log"
)

// Engine drives one vertex program execution over a preprocessed
// AnnotatedMatrix2D: one goroutine per rank, communicating only through the
// substrate transport. Mirroring is branched on via the detected
// GatherWithState capability rather than a separate code path, and only 2D
// partitioning is supported, since Preprocess/BuildCSCTiles never produce
// anything else.
type Engine[S, M, A any] struct {
	AM         *matrix.AnnotatedMatrix2D
	Algo       Algorithm[S, M, A]
	MsgCodec   sparse.Codec[M]
	AccumCodec sparse.Codec[A]
	StateCodec sparse.Codec[S]

	caps capabilities
	rt   *substrate.Runtime
	conv *substrate.Collective

	mu      sync.Mutex
	ranks   map[int]*rankLocal[S, M, A]
	watches map[int]*mathutils.Watch
}

// rankLocal is the state one rank's goroutine owns exclusively: its master
// vertex segments, outgoing/final segments for the dashboards it leads, and
// the bookkeeping needed to know when a rowgroup's local tiles have all
// consumed their incoming message wave.
type rankLocal[S, M, A any] struct {
	rank int

	localRowGroups []uint32
	localColGroups []uint32
	owned          []uint32          // dashboards this rank leads
	tilesByRow     map[uint32][]uint32 // rowgroup idx -> local colgrp indices

	masters  map[uint32]*vector.VertexState[S]      // by owned dashboard k
	outgoing map[uint32]*vector.OutgoingSegment[M]   // by owned dashboard k
	finals   map[uint32]*vector.AccumSegment[A]      // by owned dashboard k
	partials map[uint32]*vector.AccumSegment[A]      // by local rowgroup idx
	mirrors  map[uint32]*vector.Mirror[S]            // by local rowgroup idx (mirrored mode only)

	// srcSegs keeps each owned dashboard's one-time source message
	// sub-segment beyond the initial broadcast: source columns feed the
	// regular CSC only in the very first iteration, but feed the sink CSC
	// again in the terminal pass.
	srcSegs map[uint32]*sparse.StreamingArray[M]
}

// NewEngine builds an engine over a preprocessed matrix. Preprocess and
// BuildCSCTiles must already have run on am.
func NewEngine[S, M, A any](am *matrix.AnnotatedMatrix2D, algo Algorithm[S, M, A], msgCodec sparse.Codec[M], accumCodec sparse.Codec[A], stateCodec sparse.Codec[S]) *Engine[S, M, A] {
	return &Engine[S, M, A]{
		AM:         am,
		Algo:       algo,
		MsgCodec:   msgCodec,
		AccumCodec: accumCodec,
		StateCodec: stateCodec,
		caps:       detectCapabilities[S, M, A](algo),
		rt:         substrate.NewRuntime(int(am.NRanks)),
		conv:       substrate.NewCollective(int(am.NRanks)),
		ranks:      make(map[int]*rankLocal[S, M, A]),
		watches:    make(map[int]*mathutils.Watch),
	}
}

func (e *Engine[S, M, A]) buildRankLocal(rank int) *rankLocal[S, M, A] {
	rl := &rankLocal[S, M, A]{
		rank:       rank,
		masters:    make(map[uint32]*vector.VertexState[S]),
		outgoing:   make(map[uint32]*vector.OutgoingSegment[M]),
		finals:     make(map[uint32]*vector.AccumSegment[A]),
		partials:   make(map[uint32]*vector.AccumSegment[A]),
		mirrors:    make(map[uint32]*vector.Mirror[S]),
		srcSegs:    make(map[uint32]*sparse.StreamingArray[M]),
		tilesByRow: make(map[uint32][]uint32),
	}

	for _, rg := range e.AM.LocalRowGroups(rank) {
		rl.localRowGroups = append(rl.localRowGroups, rg.RG)
		rl.partials[rg.RG] = vector.NewAccumSegment[A](rg.Range(), e.AccumCodec)
		if e.caps.mirrored {
			rl.mirrors[rg.RG] = vector.NewMirror[S](rg.Range(), e.StateCodec)
		}
		for cg, t := range rg.Tiles {
			if t.Owner == rank {
				rl.tilesByRow[rg.RG] = append(rl.tilesByRow[rg.RG], uint32(cg))
			}
		}
	}
	for _, cg := range e.AM.LocalColGroups(rank) {
		rl.localColGroups = append(rl.localColGroups, cg.CG)
	}
	for _, db := range e.AM.OwnedDashboards(rank) {
		rl.owned = append(rl.owned, db.Kth)
		rg := e.AM.RowGroups[db.Kth]
		rl.masters[db.Kth] = vector.NewVertexState[S](rg.Range())
		rl.finals[db.Kth] = vector.NewAccumSegment[A](rg.Range(), e.AccumCodec)
	}
	return rl
}

func (e *Engine[S, M, A]) leaderOf(k uint32) int { return e.AM.Tiles[k][k].Owner }

// colIncomingTag is this port's single tag for a dashboard's whole outgoing
// segment broadcast (both the regular and source sub-arrays travel in one
// message as one *vector.OutgoingSegment value), so the
// colgrp_regular/colgrp_source tag split collapses to one here.
func colIncomingTag(k uint32) int { return vector.Tag(k, vector.KindColGrpRegular) }
func accumTag(k uint32) int       { return vector.Tag(k, vector.KindRowGrpRegular) }
func mirrorTag(k uint32) int      { return vector.Tag(k, vector.KindMirrorRegular) }

// initDashboard runs Algo.Init over every local vertex of dashboard k,
// seeding the master state and the initial outgoing segment (activated
// regular vertices plus the one-time source messages).
func (e *Engine[S, M, A]) initDashboard(rl *rankLocal[S, M, A], k uint32) {
	db := e.AM.Dashboards[k]
	rg := e.AM.RowGroups[k]
	n := rg.Range()
	st := rl.masters[k]

	out := vector.NewOutgoingSegment[M](db.Locator.NRegular(), db.Locator.NSource(), e.MsgCodec)
	for absIdx := uint32(0); absIdx < n; absIdx++ {
		absVid := rg.Offset + absIdx
		pos := db.Locator.At(absIdx)
		var s S
		activate := e.Algo.Init(absVid, &s)
		st.Values[pos] = s
		if !activate {
			continue
		}
		// Both sub-arrays are fed in ascending absIdx order, which is also
		// ascending bucket-relative order, satisfying StreamingArray's push
		// ordering contract.
		switch vtype, relPos := db.Locator.Map(absIdx); vtype {
		case matrix.Regular:
			st.Activate(pos)
			out.Regular.Push(relPos, e.Algo.Scatter(s))
		case matrix.Tertiary:
			// A source vertex never receives an accumulator, so this initial
			// scatter is its only message — and only if Init activated it.
			out.Source.Push(relPos, e.Algo.Scatter(s))
		}
	}
	rl.outgoing[k] = out
	rl.srcSegs[k] = out.Source
}

// rebuildOutgoing scatters a fresh segment from this iteration's applied,
// still-active regular vertices. The segment is a new allocation every
// iteration: the previous broadcast's receivers may still be reading the old
// one. Its Source sub-array stays empty — source messages travel only in
// the initial broadcast (the source→regular SpMV runs in the very first
// iteration only), and again through the terminal sink pass's own segment.
func (e *Engine[S, M, A]) rebuildOutgoing(rl *rankLocal[S, M, A], k uint32) {
	db := e.AM.Dashboards[k]
	rg := e.AM.RowGroups[k]
	st := rl.masters[k]

	arr := sparse.NewStreamingArray[M](db.Locator.NRegular(), e.MsgCodec)
	for absIdx := uint32(0); absIdx < rg.Range(); absIdx++ {
		vtype, relPos := db.Locator.Map(absIdx)
		if vtype != matrix.Regular {
			continue
		}
		pos := db.Locator.At(absIdx)
		if st.IsActive(pos) {
			arr.Push(relPos, e.Algo.Scatter(st.Get(pos)))
		}
	}
	rl.outgoing[k] = &vector.OutgoingSegment[M]{
		Regular: arr,
		Source:  sparse.NewStreamingArray[M](db.Locator.NSource(), e.MsgCodec),
	}
}

// broadcastOutgoing sends dashboard k's current outgoing segment to every
// rank holding a tile in colgroup k (leader included), for consumption next
// iteration.
func (e *Engine[S, M, A]) broadcastOutgoing(rank int, k uint32) {
	db := e.AM.Dashboards[k]
	dests := append([]int{rank}, db.ColGrpFollowers...)
	seen := map[int]bool{}
	for _, d := range dests {
		if seen[d] {
			continue
		}
		seen[d] = true
		e.rt.Isend(rank, d, colIncomingTag(k), e.ranks[rank].outgoing[k])
	}
}

// spmv runs the gather step over one CSC sub-matrix: for each active
// message at reindexed column colOffset+relIdx, gather+combine every entry
// in that column into partial.
func (e *Engine[S, M, A]) spmv(csc *matrix.CSC, msgs *sparse.StreamingArray[M], colOffset uint32, partial *vector.AccumSegment[A], mirror *sparse.RandomAccessArray[S]) {
	if csc == nil {
		return
	}
	cur := vector.Cursor(msgs)
	for {
		relIdx, msg, ok := cur.Next()
		if !ok {
			break
		}
		c := colOffset + relIdx
		if c+1 >= uint32(len(csc.ColPtrs)) {
			continue
		}
		for p := csc.ColPtrs[c]; p < csc.ColPtrs[c+1]; p++ {
			entry := csc.Entries[p]
			edge := Edge{Src: csc.ColIdxs[c], Dst: entry.OrigRow, Weight: entry.Weight, Weighted: entry.Weighted}
			var a A
			if e.caps.mirrored {
				gs, _ := e.Algo.(GatherWithState[S, M, A])
				a = gs.GatherState(edge, msg, mirror.At(entry.GlobalIdx))
			} else {
				a = e.Algo.Gather(edge, msg)
			}
			if !partial.Values.Activity.Check(entry.GlobalIdx) {
				// First contribution to this slot this iteration: seed it
				// directly instead of folding into an arbitrary zero value,
				// since Combine's identity element is algorithm-specific
				// (min/max have no zero identity).
				partial.Values.Push(entry.GlobalIdx, a)
			} else {
				acc := partial.Values.At(entry.GlobalIdx)
				e.Algo.Combine(a, &acc)
				partial.Values.Push(entry.GlobalIdx, acc)
			}
		}
	}
}

// Execute runs the GAS loop to convergence or maxIters (0 means unbounded),
// then a terminal sink pass; non-optimizable programs fold sink processing
// into every iteration instead.
func (e *Engine[S, M, A]) Execute(maxIters int) {
	nranks := int(e.AM.NRanks)
	var wg sync.WaitGroup
	wg.Add(nranks)
	for r := 0; r < nranks; r++ {
		rank := r
		go func() {
			defer wg.Done()
			e.runRank(rank, maxIters)
		}()
	}
	wg.Wait()
}

func (e *Engine[S, M, A]) runRank(rank int, maxIters int) {
	watch := &mathutils.Watch{}
	watch.Start()
	e.mu.Lock()
	e.ranks[rank] = e.buildRankLocal(rank)
	e.watches[rank] = watch
	e.mu.Unlock()
	rl := e.ranks[rank]

	for _, k := range rl.owned {
		e.initDashboard(rl, k)
	}
	if e.caps.mirrored {
		e.refreshMirrors(rl, rank)
	}
	// Initial scatter: every dashboard's seeded outgoing segment goes out
	// before the loop starts.
	for _, k := range rl.owned {
		e.broadcastOutgoing(rank, k)
	}

	iter := 0
	for {
		iter++
		for _, k := range rl.owned {
			rl.masters[k].ResetActivity()
		}

		incomingReqs := make(map[uint32]*substrate.RecvRequest, len(rl.localColGroups))
		for _, j := range rl.localColGroups {
			incomingReqs[j] = e.rt.Irecv(rank, colIncomingTag(j))
		}

		incoming := make(map[uint32]*vector.IncomingSegment[M], len(rl.localColGroups))
		pending := append([]uint32(nil), rl.localColGroups...)

		// Drain column segments as they become ready; each arrival is
		// immediately fanned out across every local rowgroup that has a tile
		// in that column.
		for len(pending) > 0 {
			reqs := make([]*substrate.RecvRequest, len(pending))
			for i, j := range pending {
				reqs[i] = incomingReqs[j]
			}
			idxs, msgs := substrate.WaitSome(reqs)
			arrived := make(map[uint32]bool, len(idxs))
			for n, i := range idxs {
				j := pending[i]
				seg := msgs[n].Body.(*vector.OutgoingSegment[M])
				incoming[j] = seg
				arrived[j] = true
			}
			var rest []uint32
			for _, j := range pending {
				if !arrived[j] {
					rest = append(rest, j)
				}
			}
			pending = rest

			for j := range arrived {
				e.consumeColumn(rl, rank, j, incoming[j])
			}
		}

		// Send completed row partials to their leaders, then drain this
		// rank's own leader-side accumulator receives.
		for _, i := range rl.localRowGroups {
			e.rt.Isend(rank, e.leaderOf(i), accumTag(i), rl.partials[i])
		}
		for _, k := range rl.owned {
			e.gatherFinal(rl, rank, k)
		}

		nactivated := 0
		for _, k := range rl.owned {
			nactivated += e.apply(rl, k, iter, false)
			if !e.caps.optimizable {
				nactivated += e.apply(rl, k, iter, true)
			}
		}
		for _, i := range rl.localRowGroups {
			rl.partials[i] = vector.NewAccumSegment[A](e.AM.RowGroups[i].Range(), e.AccumCodec)
		}

		// Convergence counts Apply activations, not the scatter activity set:
		// a stationary program keeps every applied vertex in the scatter set,
		// and would otherwise never report converged.
		localConverged := nactivated == 0
		globalConverged := e.conv.AllreduceAnd(rank, localConverged)
		if globalConverged || (maxIters > 0 && iter >= maxIters) {
			// No broadcast on the way out: a segment sent now would have no
			// consumer, and would collide with the sink pass's scatter on the
			// same tag.
			break
		}
		for _, k := range rl.owned {
			e.rebuildOutgoing(rl, k)
			e.broadcastOutgoing(rank, k)
		}
	}

	e.conv.Barrier(rank)
	if e.caps.optimizable {
		e.sinkPass(rl, rank)
	}
	log.Debug().Msg("rank " + glog.V(rank) + " finished after " + glog.V(iter) + " iterations in " + glog.V(watch.AbsoluteElapsed()))
}

// consumeColumn runs SpMV for every local tile in (rowgroup i, colgroup j)
// once colgroup j's incoming segment has arrived. A rowgroup's partial is
// sent to its leader only once every local colgroup has arrived (see
// runRank's drain loop), rather than eagerly as soon as that rowgroup's
// last tile is consumed.
func (e *Engine[S, M, A]) consumeColumn(rl *rankLocal[S, M, A], rank int, j uint32, seg *vector.IncomingSegment[M]) {
	cg := e.AM.ColGroups[j]
	for _, i := range rl.localRowGroups {
		needsCol := false
		for _, ownedCG := range rl.tilesByRow[i] {
			if ownedCG == j {
				needsCol = true
				break
			}
		}
		if !needsCol {
			continue
		}
		tile := e.AM.Tiles[i][j]
		var mirror *sparse.RandomAccessArray[S]
		if e.caps.mirrored {
			mirror = rl.mirrors[i].Values
		}
		e.spmv(tile.RegularCSC, seg.Regular, 0, rl.partials[i], mirror)
		e.spmv(tile.RegularCSC, seg.Source, cg.Locator.NRegular(), rl.partials[i], mirror)
		if !e.caps.optimizable {
			e.spmv(tile.SinkCSC, seg.Regular, 0, rl.partials[i], mirror)
			e.spmv(tile.SinkCSC, seg.Source, cg.Locator.NRegular(), rl.partials[i], mirror)
		}
	}
}

// gatherFinal drains the len(RowGrpFollowers)+1 partial accumulators owed
// to dashboard k's leader (itself included) and combines them into the
// final accumulator.
func (e *Engine[S, M, A]) gatherFinal(rl *rankLocal[S, M, A], rank int, k uint32) {
	db := e.AM.Dashboards[k]
	final := rl.finals[k]
	n := len(db.RowGrpFollowers) + 1
	for c := 0; c < n; c++ {
		req := e.rt.Irecv(rank, accumTag(k))
		msg := req.Wait()
		partial := msg.Body.(*vector.AccumSegment[A])
		cur := partial.Values
		for {
			idx, val, ok := cur.Next()
			if !ok {
				break
			}
			if !final.Values.Activity.Check(idx) {
				final.Values.Push(idx, val)
			} else {
				acc := final.Values.At(idx)
				e.Algo.Combine(val, &acc)
				final.Values.Push(idx, acc)
			}
		}
	}
}

// apply runs Algo.Apply (or ApplyIter) over dashboard k's regular bucket
// (sink=false) or sink bucket (sink=true, used either by the terminal pass
// or, for non-optimizable programs, every iteration), returning how many
// Apply calls reported activation — the count convergence is decided on,
// independent of the scatter activity set a stationary program inflates.
func (e *Engine[S, M, A]) apply(rl *rankLocal[S, M, A], k uint32, iter int, sink bool) int {
	db := e.AM.Dashboards[k]
	st := rl.masters[k]
	final := rl.finals[k]

	var lo, hi uint32
	if !sink {
		lo, hi = 0, db.Locator.NRegular()
	} else {
		lo, hi = db.Locator.NRegular(), db.Locator.NRegular()+db.Locator.NSink()
	}

	nactivated := 0
	for pos := lo; pos < hi; pos++ {
		if !final.Values.Activity.Check(pos) {
			continue
		}
		acc := final.Values.At(pos)
		s := st.Get(pos)
		var activated bool
		if ia, ok := e.Algo.(ApplyWithIter[S, A]); ok {
			activated = ia.ApplyIter(acc, &s, iter)
		} else {
			activated = e.Algo.Apply(acc, &s)
		}
		st.Set(pos, s)
		if activated {
			nactivated++
		}
		if activated || (e.caps.stationary && !sink) {
			st.Activate(pos)
		}
		// Untouch only this call's own range: a non-optimizable program
		// applies regular and sink buckets in two separate calls sharing the
		// same final segment, and clearing the whole activity set after the
		// first call would wipe out the second bucket's still-pending
		// entries.
		final.Values.Activity.Untouch(pos)
	}
	return nactivated
}

// refreshMirrors ships the master state of every owned dashboard to every
// rank holding a tile in that dashboard's rowgroup, filtered to the regular
// bucket. Runs once at initialization only; the engine never refreshes
// mid-run, so GatherState sees init-time state throughout.
func (e *Engine[S, M, A]) refreshMirrors(rl *rankLocal[S, M, A], rank int) {
	for _, k := range rl.owned {
		db := e.AM.Dashboards[k]
		rg := e.AM.RowGroups[k]
		st := rl.masters[k]
		mirror := sparse.NewRandomAccessArray[S](rg.Range(), e.StateCodec)
		for pos := uint32(0); pos < db.Locator.NRegular(); pos++ {
			mirror.Push(pos, st.Get(pos))
		}
		dests := append([]int{rank}, db.RowGrpFollowers...)
		seen := map[int]bool{}
		for _, d := range dests {
			if seen[d] {
				continue
			}
			seen[d] = true
			e.rt.Isend(rank, d, mirrorTag(k), mirror)
		}
	}
	for _, i := range rl.localRowGroups {
		req := e.rt.Irecv(rank, mirrorTag(i))
		msg := req.Wait()
		rl.mirrors[i].Values = msg.Body.(*sparse.RandomAccessArray[S])
	}
}

// sinkPass runs the terminal sink pass: scatter every regular vertex's
// final state, run each tile's SinkCSC, combine, and apply to the
// sink-offset region of the state vector.
func (e *Engine[S, M, A]) sinkPass(rl *rankLocal[S, M, A], rank int) {
	for _, k := range rl.owned {
		db := e.AM.Dashboards[k]
		st := rl.masters[k]
		arr := sparse.NewStreamingArray[M](db.Locator.NRegular(), e.MsgCodec)
		for pos := uint32(0); pos < db.Locator.NRegular(); pos++ {
			arr.Push(pos, e.Algo.Scatter(st.Get(pos)))
		}
		// Source columns of the sink CSC still need the one-time source
		// messages, so the retained init-time sub-segment rides along.
		rl.outgoing[k] = &vector.OutgoingSegment[M]{Regular: arr, Source: rl.srcSegs[k]}
		e.broadcastOutgoing(rank, k)
	}

	incomingReqs := make(map[uint32]*substrate.RecvRequest, len(rl.localColGroups))
	for _, j := range rl.localColGroups {
		incomingReqs[j] = e.rt.Irecv(rank, colIncomingTag(j))
	}
	for _, j := range rl.localColGroups {
		msg := incomingReqs[j].Wait()
		seg := msg.Body.(*vector.OutgoingSegment[M])
		cg := e.AM.ColGroups[j]
		for _, i := range rl.localRowGroups {
			owns := false
			for _, ownedCG := range rl.tilesByRow[i] {
				if ownedCG == j {
					owns = true
					break
				}
			}
			if !owns {
				continue
			}
			tile := e.AM.Tiles[i][j]
			var mirror *sparse.RandomAccessArray[S]
			if e.caps.mirrored {
				mirror = rl.mirrors[i].Values
			}
			e.spmv(tile.SinkCSC, seg.Regular, 0, rl.partials[i], mirror)
			e.spmv(tile.SinkCSC, seg.Source, cg.Locator.NRegular(), rl.partials[i], mirror)
		}
	}
	for _, i := range rl.localRowGroups {
		e.rt.Isend(rank, e.leaderOf(i), accumTag(i), rl.partials[i])
	}
	for _, k := range rl.owned {
		e.gatherFinal(rl, rank, k)
		e.apply(rl, k, -1, true)
	}
}

// VertexValue returns dashboard k's current state at absolute vertex id
// vid, for use by application tests/reductions after Execute returns.
func (e *Engine[S, M, A]) VertexValue(vid uint32) S {
	k := e.AM.SegmentOfIdx(vid)
	db := e.AM.Dashboards[k]
	rg := e.AM.RowGroups[k]
	rank := e.leaderOf(k)
	rl := e.ranks[rank]
	pos := db.Locator.At(vid - rg.Offset)
	enforce.ENFORCE(rl != nil, "VertexValue called before Execute")
	return rl.masters[k].Get(pos)
}
