package sparse

import (
	"encoding/binary"

	"github.com/gas2d/engine/bitset"
)

// RandomAccessArray pairs a bit-vector activity set with a directly-indexed
// value array: Push writes vals[idx] in place, At offers plain random
// access, and Pop/Next walk the activity set returning (idx, vals[idx]) in
// ascending idx order — unlike StreamingArray, insertion order never
// matters. Used for accumulators, where a vertex's contribution is written
// once at its own index, not appended.
type RandomAccessArray[V any] struct {
	Activity *bitset.BitVector

	vals  []V
	n     uint32
	codec Codec[V]
}

// NewRandomAccessArray allocates a random-access array over [0, n), all
// entries zero-valued and inactive.
func NewRandomAccessArray[V any](n uint32, codec Codec[V]) *RandomAccessArray[V] {
	return &RandomAccessArray[V]{
		Activity: bitset.New(n),
		vals:     make([]V, n+1),
		n:        n,
		codec:    codec,
	}
}

func (a *RandomAccessArray[V]) Size() uint32 { return a.n }

// At returns the value stored at idx regardless of activity.
func (a *RandomAccessArray[V]) At(idx uint32) V { return a.vals[idx] }

// Fill overwrites every value slot (not the activity set) with val.
func (a *RandomAccessArray[V]) Fill(val V) {
	for i := uint32(0); i < a.n; i++ {
		a.vals[i] = val
	}
}

// Clear drains every active entry, zeroing its value as it goes.
func (a *RandomAccessArray[V]) Clear() {
	a.Rewind()
	for {
		if _, _, ok := a.Pop(); !ok {
			break
		}
	}
	a.Rewind()
}

func (a *RandomAccessArray[V]) Rewind() { a.Activity.Rewind() }

// TemporarilyResize shrinks the logical size without reallocating.
func (a *RandomAccessArray[V]) TemporarilyResize(n2 uint32) {
	a.Rewind()
	a.Activity.TemporarilyResize(n2)
	a.n = n2
}

// Push writes val at idx and marks idx active.
func (a *RandomAccessArray[V]) Push(idx uint32, val V) {
	a.Activity.Push(idx)
	a.vals[idx] = val
}

// Pop destructively streams the next active (idx, val), zeroing the slot.
func (a *RandomAccessArray[V]) Pop() (idx uint32, val V, ok bool) {
	idx, ok = a.Activity.Pop()
	val = a.vals[idx]
	var zero V
	a.vals[idx] = zero
	return idx, val, ok
}

// Next non-destructively streams the next active (idx, val).
func (a *RandomAccessArray[V]) Next() (idx uint32, val V, ok bool) {
	idx, ok = a.Activity.Next()
	val = a.vals[idx]
	return idx, val, ok
}

// Serialize encodes the array's active entries, draining them if destructive.
func (a *RandomAccessArray[V]) Serialize(destructive bool) []byte {
	if a.codec.FixedSize == 0 {
		return a.serializeDynamic(destructive)
	}

	nactive := a.Activity.Count()
	activityBlob := a.Activity.Serialize()

	buf := make([]byte, len(activityBlob)+int(nactive)*a.codec.FixedSize)
	off := copy(buf, activityBlob)

	a.Rewind()
	for i := uint32(0); i < nactive; i++ {
		var (
			val V
			ok  bool
		)
		if destructive {
			_, val, ok = a.Pop()
		} else {
			_, val, ok = a.Next()
		}
		if !ok {
			break
		}
		off += copy(buf[off:], a.codec.Encode(val))
	}
	a.Rewind()
	return buf
}

func (a *RandomAccessArray[V]) serializeDynamic(destructive bool) []byte {
	nactive := a.Activity.Count()
	activityBlob := a.Activity.Serialize()
	if nactive == 0 {
		return activityBlob
	}

	encoded := make([][]byte, 0, nactive)
	a.Rewind()
	for {
		var (
			val V
			ok  bool
		)
		if destructive {
			_, val, ok = a.Pop()
		} else {
			_, val, ok = a.Next()
		}
		if !ok {
			break
		}
		encoded = append(encoded, a.codec.Encode(val))
	}
	a.Rewind()

	sizesLen := 4 * len(encoded)
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
// logical size n. Unlike StreamingArray, values land back at their original
// idx rather than a compacted position.
func (a *RandomAccessArray[V]) Deserialize(blob []byte, n uint32) {
	activity, consumed := bitset.DeserializePrefix(blob, n)
	rest := blob[consumed:]
	a.n = n

	if a.codec.FixedSize == 0 {
		a.deserializeDynamic(activity, rest)
		return
	}

	activity.Rewind()
	off := 0
	for {
		idx, ok := activity.Next()
		if !ok {
			break
		}
		a.vals[idx] = a.codec.Decode(rest[off:])
		off += a.codec.FixedSize
	}
	a.Activity = activity
	a.Rewind()
}

func (a *RandomAccessArray[V]) deserializeDynamic(activity *bitset.BitVector, rest []byte) {
	nactive := activity.Count()
	if nactive == 0 {
		a.Activity = activity
		return
	}

	sizes := make([]uint32, nactive)
	off := 0
	for i := uint32(0); i < nactive; i++ {
		sizes[i] = binary.LittleEndian.Uint32(rest[off:])
		off += 4
	}

	activity.Rewind()
	i := uint32(0)
	for {
		idx, ok := activity.Next()
		if !ok {
			break
		}
		a.vals[idx] = a.codec.Decode(rest[off : off+int(sizes[i])])
		off += int(sizes[i])
		i++
	}
	a.Activity = activity
	a.Rewind()
}
