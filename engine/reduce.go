package engine

import "sort"

// BatchSize is the number of independent rankings a single BatchTopK call
// computes.
const BatchSize = 8

// Reduce folds mapFn over every local vertex's current state (every vertex
// if activeOnly is false, only currently-active ones otherwise), combines
// local partials with reduceFn, and returns the fully combined result.
func Reduce[S, M, A, V any](e *Engine[S, M, A], mapFn func(vid uint32, s S) V, reduceFn func(a, b V) V, zero V, activeOnly bool) V {
	snapshot := e.snapshotRanks()
	results := make([]V, 0, len(snapshot))
	done := make(chan V, len(snapshot))
	for _, rl := range snapshot {
		local := rl
		go func() {
			acc := zero
			for _, k := range local.owned {
				db := e.AM.Dashboards[k]
				rg := e.AM.RowGroups[k]
				st := local.masters[k]
				for absIdx := uint32(0); absIdx < rg.Range(); absIdx++ {
					pos := db.Locator.At(absIdx)
					if activeOnly && !st.IsActive(pos) {
						continue
					}
					acc = reduceFn(acc, mapFn(rg.Offset+absIdx, st.Get(pos)))
				}
			}
			done <- acc
		}()
	}
	for range snapshot {
		results = append(results, <-done)
	}
	out := zero
	for _, v := range results {
		out = reduceFn(out, v)
	}
	return out
}

// snapshotRanks returns the engine's per-rank state after Execute has
// populated it, for use by post-run reductions/top-k.
func (e *Engine[S, M, A]) snapshotRanks() map[int]*rankLocal[S, M, A] {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int]*rankLocal[S, M, A], len(e.ranks))
	for k, v := range e.ranks {
		out[k] = v
	}
	return out
}

// kv pairs a vertex id with its ranked value, for TopK/BatchTopK.
type kv[V any] struct {
	Vid uint32
	Val V
}

// TopK finds the k best entries by cmp (cmp(a,b) reports whether a ranks
// before b) over mapFn(vid, state), across every rank's local vertices
// (active-only if activeOnly is set): each rank locally partial-sorts its
// own k entries, and the combined view is partial-sorted again.
func TopK[S, M, A, V any](e *Engine[S, M, A], k int, mapFn func(vid uint32, s S) V, cmp func(a, b V) bool, activeOnly bool) []kv[V] {
	snapshot := e.snapshotRanks()
	type partial = []kv[V]
	done := make(chan partial, len(snapshot))
	for _, rl := range snapshot {
		local := rl
		go func() {
			var entries []kv[V]
			for _, dk := range local.owned {
				db := e.AM.Dashboards[dk]
				rg := e.AM.RowGroups[dk]
				st := local.masters[dk]
				for absIdx := uint32(0); absIdx < rg.Range(); absIdx++ {
					pos := db.Locator.At(absIdx)
					if activeOnly && !st.IsActive(pos) {
						continue
					}
					entries = append(entries, kv[V]{Vid: rg.Offset + absIdx, Val: mapFn(rg.Offset+absIdx, st.Get(pos))})
				}
			}
			sort.Slice(entries, func(i, j int) bool { return cmp(entries[i].Val, entries[j].Val) })
			if len(entries) > k {
				entries = entries[:k]
			}
			done <- entries
		}()
	}
	var merged []kv[V]
	for range snapshot {
		merged = append(merged, <-done...)
	}
	sort.Slice(merged, func(i, j int) bool { return cmp(merged[i].Val, merged[j].Val) })
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged
}

// BatchTopK runs TopK for BatchSize independent rankings at once, one
// mapFn/cmp pair per slot; nil slots are skipped.
func BatchTopK[S, M, A, V any](e *Engine[S, M, A], k int, mapFns [BatchSize]func(vid uint32, s S) V, cmps [BatchSize]func(a, b V) bool, activeOnly bool) [BatchSize][]kv[V] {
	var out [BatchSize][]kv[V]
	for i := 0; i < BatchSize; i++ {
		if mapFns[i] == nil {
			continue
		}
		out[i] = TopK(e, k, mapFns[i], cmps[i], activeOnly)
	}
	return out
}
