package sparse

import (
	"encoding/binary"

	"github.com/gas2d/engine/bitset"
	"github.com/gas2d/engine/enforce"
)

// StreamingArray pairs a bit-vector activity set with a compacted value
// array: Push appends values in insertion order while marking idx active,
// and Pop/Next walk the activity set's own (ascending) bit order, reading
// values out of the compacted array position by position. This only yields
// correctly-paired (idx, val) results when the caller pushes in ascending
// idx order — exactly the producer pattern of a scatter phase emitting
// messages to increasing destinations. It offers no random access and no
// Fill; consumers stream it front to back exactly once.
type StreamingArray[V any] struct {
	Activity *bitset.BitVector

	vals  []V
	n     uint32
	pos   uint32
	codec Codec[V]
}

// NewStreamingArray allocates a streaming array over [0, n).
func NewStreamingArray[V any](n uint32, codec Codec[V]) *StreamingArray[V] {
	return &StreamingArray[V]{
		Activity: bitset.New(n),
		vals:     make([]V, n+1), // +1 matches the activity set's sentinel slot
		n:        n,
		codec:    codec,
	}
}

func (s *StreamingArray[V]) Size() uint32 { return s.n }

// CursorClone returns an independent streaming cursor (its own Activity bit
// vector and read position) over the same shared, read-only vals buffer, so
// concurrent consumers can each stream the same segment without racing on a
// shared cursor.
func (s *StreamingArray[V]) CursorClone() *StreamingArray[V] {
	return &StreamingArray[V]{
		Activity: s.Activity.Clone(),
		vals:     s.vals,
		n:        s.n,
		pos:      0,
		codec:    s.codec,
	}
}

func (s *StreamingArray[V]) Clear() {
	s.Activity.Clear()
	s.Rewind()
}

func (s *StreamingArray[V]) Rewind() {
	s.pos = 0
	s.Activity.Rewind()
}

// TemporarilyResize shrinks the logical size without reallocating; requires
// the array be empty first (inherited from the activity set's own contract).
func (s *StreamingArray[V]) TemporarilyResize(n2 uint32) {
	s.Rewind()
	s.Activity.TemporarilyResize(n2)
	s.n = n2
	s.Rewind()
}

// Push records val at the next compacted slot and marks idx active.
func (s *StreamingArray[V]) Push(idx uint32, val V) {
	s.vals[s.Activity.Count()] = val
	s.Activity.Push(idx)
}

// Pop destructively streams the next (idx, val) pair.
func (s *StreamingArray[V]) Pop() (idx uint32, val V, ok bool) {
	val = s.vals[s.pos]
	s.pos++
	idx, ok = s.Activity.Pop()
	return idx, val, ok
}

// Next non-destructively streams the next (idx, val) pair.
func (s *StreamingArray[V]) Next() (idx uint32, val V, ok bool) {
	val = s.vals[s.pos]
	s.pos++
	idx, ok = s.Activity.Next()
	return idx, val, ok
}

// Serialize encodes the array's active entries, draining them from the
// activity set (and therefore the array) if destructive is true. The wire
// format is: count-prefixed activity blob, then either the packed fixed-size
// values, or one 4-byte length per value followed by all encoded values
// concatenated.
func (s *StreamingArray[V]) Serialize(destructive bool) []byte {
	if s.codec.FixedSize == 0 {
		return s.serializeDynamic(destructive)
	}

	nactive := s.Activity.Count()
	activityBlob := s.Activity.Serialize()

	buf := make([]byte, 0, len(activityBlob)+int(nactive)*s.codec.FixedSize)
	buf = append(buf, activityBlob...)

	s.Rewind()
	for i := uint32(0); i < nactive; i++ {
		var (
			val V
			ok  bool
		)
		if destructive {
			_, val, ok = s.Pop()
		} else {
			_, val, ok = s.Next()
		}
		enforce.ENFORCE(ok, "activity set underflow during streaming serialize")
		buf = append(buf, s.codec.Encode(val)...)
	}
	s.Rewind()
	return buf
}

func (s *StreamingArray[V]) serializeDynamic(destructive bool) []byte {
	nactive := s.Activity.Count()
	activityBlob := s.Activity.Serialize()

	if nactive == 0 {
		return activityBlob
	}

	encoded := make([][]byte, nactive)
	s.Rewind()
	for i := uint32(0); i < nactive; i++ {
		var (
			val V
			ok  bool
		)
		if destructive {
			_, val, ok = s.Pop()
		} else {
			_, val, ok = s.Next()
		}
		enforce.ENFORCE(ok, "activity set underflow during streaming serialize")
		encoded[i] = s.codec.Encode(val)
	}
	s.Rewind()

	sizesLen := 4 * int(nactive)
	valuesLen := 0
	for _, e := range encoded {
		valuesLen += len(e)
	}

	buf := make([]byte, len(activityBlob)+sizesLen+valuesLen)
	off := copy(buf, activityBlob)
	sizesOff := off
	off += sizesLen
	for i, e := range encoded {
		binary.LittleEndian.PutUint32(buf[sizesOff+4*i:], uint32(len(e)))
		off += copy(buf[off:], e)
	}
	return buf
}

// Deserialize replaces the array's contents by decoding blob for a vector of
// logical size n.
func (s *StreamingArray[V]) Deserialize(blob []byte, n uint32) {
	activity, consumed := bitset.DeserializePrefix(blob, n)
	s.Activity = activity
	s.n = n
	nactive := activity.Count()

	if s.codec.FixedSize == 0 {
		s.deserializeDynamic(blob[consumed:], nactive)
		s.Rewind()
		return
	}

	rest := blob[consumed:]
	for i := uint32(0); i < nactive; i++ {
		s.vals[i] = s.codec.Decode(rest[i*uint32(s.codec.FixedSize):])
	}
	s.Rewind()
}

func (s *StreamingArray[V]) deserializeDynamic(rest []byte, nactive uint32) {
	if nactive == 0 {
		return
	}
	sizes := make([]uint32, nactive)
	off := 0
	for i := uint32(0); i < nactive; i++ {
		sizes[i] = binary.LittleEndian.Uint32(rest[off:])
		off += 4
	}
	for i := uint32(0); i < nactive; i++ {
		s.vals[i] = s.codec.Decode(rest[off : off+int(sizes[i])])
		off += int(sizes[i])
	}
}
