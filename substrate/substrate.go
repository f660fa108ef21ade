// Package substrate implements the rank/transport layer the engine runs on:
// rank identity, non-blocking point-to-point send/recv with probe, and
// collective operations (allreduce, broadcast, gather, barrier); the engine
// uses the allreduce for its convergence test and the barrier before its
// sink pass.
//
// Ranks are goroutines, and the "network" is a set of per-rank mailboxes
// plus generation-counted rendezvous barriers for the collectives — the
// natural Go expression of "N peers meet, combine, and all proceed with the
// same answer".
//
// Messages carry live Go values instead of serialized bytes, so the
// probe-then-allocate two-phase receive a byte-oriented transport needs for
// dynamically-sized payloads collapses to a single delivery; there is no
// byte count to learn in advance. RecvRequest still records a
// Probed/Receiving/Ready state in an unexported field, even though every
// transition here is instantaneous.
package substrate

import "sync"

// Message is one payload delivered from Src to a destination rank's mailbox
// under Tag. Body carries whatever the engine/vector layer chose to send —
// a *vector.OutgoingSegment[M], a *vector.AccumSegment[A], a
// *sparse.RandomAccessArray[S] of mirrored state, etc.
type Message struct {
	Src  int
	Tag  int
	Body any
}

// RequestState names the phases of a pending receive.
type RequestState int

const (
	Probed RequestState = iota
	Receiving
	Ready
)

type mailbox struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending map[int][]Message
}

func newMailbox() *mailbox {
	mb := &mailbox{pending: make(map[int][]Message)}
	mb.cond = sync.NewCond(&mb.mu)
	return mb
}

func (mb *mailbox) deliver(msg Message) {
	mb.mu.Lock()
	mb.pending[msg.Tag] = append(mb.pending[msg.Tag], msg)
	mb.cond.Broadcast()
	mb.mu.Unlock()
}

func (mb *mailbox) tryTake(tag int) (Message, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	q := mb.pending[tag]
	if len(q) == 0 {
		return Message{}, false
	}
	m := q[0]
	mb.pending[tag] = q[1:]
	return m, true
}

func (mb *mailbox) has(tag int) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.pending[tag]) > 0
}

func (mb *mailbox) hasAny(tags []int) (int, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for _, t := range tags {
		if len(mb.pending[t]) > 0 {
			return t, true
		}
	}
	return 0, false
}

func (mb *mailbox) waitAny(tags []int) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for {
		for _, t := range tags {
			if len(mb.pending[t]) > 0 {
				return t
			}
		}
		mb.cond.Wait()
	}
}

// RecvRequest is a pending, possibly-already-satisfied non-blocking receive
// posted by Runtime.Irecv.
type RecvRequest struct {
	rt    *Runtime
	rank  int
	tag   int
	state RequestState
}

// Runtime is the channel-backed transport shared by every rank goroutine in
// one engine run.
type Runtime struct {
	NRanks    int
	mailboxes []*mailbox

	commMu    sync.Mutex
	commBytes uint64 // message counter for this runtime
}

// NewRuntime allocates a transport for nranks goroutine-backed ranks.
func NewRuntime(nranks int) *Runtime {
	rt := &Runtime{NRanks: nranks, mailboxes: make([]*mailbox, nranks)}
	for i := range rt.mailboxes {
		rt.mailboxes[i] = newMailbox()
	}
	return rt
}

// Isend posts a non-blocking send; delivery is immediate since there is no
// wire to cross. Callers must still treat the sent body as surrendered
// until the receiver is done with it — in practice every sender allocates a
// fresh body per send rather than mutating one in flight.
func (rt *Runtime) Isend(src, dest, tag int, body any) {
	rt.commMu.Lock()
	rt.commBytes++ // one logical message; exact byte accounting isn't meaningful for live Go values
	rt.commMu.Unlock()
	rt.mailboxes[dest].deliver(Message{Src: src, Tag: tag, Body: body})
}

// CommBytes returns the number of messages sent through rt so far.
func (rt *Runtime) CommBytes() uint64 {
	rt.commMu.Lock()
	defer rt.commMu.Unlock()
	return rt.commBytes
}

// Irecv posts a non-blocking receive for rank, tag. The request starts
// Probed; Ready() advances it to Receiving once a matching message has
// arrived, and Wait() marks it Ready when it takes the message.
func (rt *Runtime) Irecv(rank, tag int) *RecvRequest {
	return &RecvRequest{rt: rt, rank: rank, tag: tag, state: Probed}
}

// Iprobe reports whether a message is already available without consuming it.
func (rt *Runtime) Iprobe(rank, tag int) bool {
	return rt.mailboxes[rank].has(tag)
}

// Ready reports whether req's message has arrived, without blocking.
func (req *RecvRequest) Ready() bool {
	if req.state == Ready {
		return true
	}
	if req.rt.mailboxes[req.rank].has(req.tag) {
		req.state = Receiving
		return true
	}
	return false
}

// Wait blocks until req's message arrives and returns it.
func (req *RecvRequest) Wait() Message {
	req.state = Receiving
	tag := req.rt.mailboxes[req.rank].waitAny([]int{req.tag})
	m, _ := req.rt.mailboxes[req.rank].tryTake(tag)
	req.state = Ready
	return m
}

// WaitSome blocks until at least one of reqs is ready, consumes every
// ready request's message, and returns their indices and messages.
func WaitSome(reqs []*RecvRequest) (indices []int, msgs []Message) {
	if len(reqs) == 0 {
		return nil, nil
	}
	rt := reqs[0].rt
	rank := reqs[0].rank
	tagToIdx := make(map[int]int, len(reqs))
	tags := make([]int, len(reqs))
	for i, r := range reqs {
		tags[i] = r.tag
		tagToIdx[r.tag] = i
	}

	mb := rt.mailboxes[rank]
	mb.mu.Lock()
	for {
		found := false
		for tag, idx := range tagToIdx {
			if len(mb.pending[tag]) > 0 {
				m := mb.pending[tag][0]
				mb.pending[tag] = mb.pending[tag][1:]
				indices = append(indices, idx)
				msgs = append(msgs, m)
				found = true
			}
		}
		if found {
			break
		}
		mb.cond.Wait()
	}
	mb.mu.Unlock()
	return indices, msgs
}

// TestSome is the non-blocking counterpart to WaitSome: it returns whatever
// is ready right now without blocking, possibly nothing.
func TestSome(reqs []*RecvRequest) (indices []int, msgs []Message) {
	if len(reqs) == 0 {
		return nil, nil
	}
	rt := reqs[0].rt
	rank := reqs[0].rank
	mb := rt.mailboxes[rank]
	for i, r := range reqs {
		if m, ok := mb.tryTake(r.tag); ok {
			indices = append(indices, i)
			msgs = append(msgs, m)
		}
	}
	return indices, msgs
}
