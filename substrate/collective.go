package substrate

import "sync"

// Collective is a reusable, generation-counted rendezvous: every one of N
// ranks calls Do once per round with its own input; the Nth arrival computes
// combine(inputs) once and every caller (including the Nth) returns that same
// result. Calling it again starts the next round automatically. This single
// primitive backs Allreduce, Bcast, and Gather below — in MPI terms it's a
// generic "everyone contributes, everyone learns the combined answer"
// collective; the engine picks combine() to get whichever semantics it
// needs.
type Collective struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	arrived int
	gen     int
	inputs  []any
	output  any
}

// NewCollective allocates a collective shared by n ranks.
func NewCollective(n int) *Collective {
	c := &Collective{n: n, inputs: make([]any, n)}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Do submits rank's input for the current round and blocks until every rank
// has submitted, then returns combine(allInputs) — the same value to every
// caller in the round.
func (c *Collective) Do(rank int, input any, combine func(inputs []any) any) any {
	c.mu.Lock()
	c.inputs[rank] = input
	myGen := c.gen
	c.arrived++
	if c.arrived == c.n {
		c.output = combine(c.inputs)
		c.arrived = 0
		c.gen++
		c.cond.Broadcast()
		out := c.output
		c.mu.Unlock()
		return out
	}
	for c.gen == myGen {
		c.cond.Wait()
	}
	out := c.output
	c.mu.Unlock()
	return out
}

// Barrier blocks every rank until all n have arrived for this round.
func (c *Collective) Barrier(rank int) {
	c.Do(rank, nil, func([]any) any { return nil })
}

// AllreduceAnd performs a logical-AND all-reduce over local — the engine's
// convergence test: a rank has locally converged iff no vertex was
// activated, and the job halts only once every rank agrees.
func (c *Collective) AllreduceAnd(rank int, local bool) bool {
	return c.Do(rank, local, func(inputs []any) any {
		res := true
		for _, v := range inputs {
			res = res && v.(bool)
		}
		return res
	}).(bool)
}

// Bcast distributes root's value to every rank. Non-root callers' value
// argument is ignored.
func (c *Collective) Bcast(rank, root int, value any) any {
	return c.Do(rank, value, func(inputs []any) any { return inputs[root] })
}

// Gather collects every rank's value, in rank order, to every caller (an
// "allgather": every rank sees the combined set, not just a designated
// root).
func (c *Collective) Gather(rank int, value any) []any {
	out := c.Do(rank, value, func(inputs []any) any {
		cp := make([]any, len(inputs))
		copy(cp, inputs)
		return cp
	}).([]any)
	return out
}
