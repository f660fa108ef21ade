// Package bitset implements a dense bit vector: a packed array of n+1 bits
// (the extra bit is a sentinel, always set, used to terminate streaming
// iteration), with O(1) maintained popcount, set algebra, a streaming
// cursor, and a density-adaptive serialization format.
//
// The on-wire format leads with a count field that by itself (together with
// the vector's size) determines whether the rest of the blob is dense or
// sparse — this lets a count-prefixed bit vector be embedded in a larger
// blob (see sparse.StreamingArray) without needing its own length.
package bitset

import (
	"encoding/binary"
	"math/bits"

	"github.com/gas2d/engine/enforce"
)

const wordBits = 64

// BitVector is a packed bit array of size n+1 (the last bit is a permanent
// sentinel). It is not safe for concurrent use; callers needing per-tile
// parallelism should own disjoint BitVectors (see engine's fan-out).
type BitVector struct {
	words []uint64
	n     uint32 // logical size, NOT counting the sentinel bit at index n
	count uint32 // maintained population count, excluding the sentinel
	pos   uint32 // streaming cursor, in words
	cache uint64 // non-destructive streaming cache for Next
}

// New allocates a BitVector over [0, n) plus its sentinel bit at index n.
func New(n uint32) *BitVector {
	bv := &BitVector{n: n}
	bv.words = make([]uint64, nwords(n))
	bv.Rewind()
	return bv
}

func nwords(n uint32) uint32 {
	total := uint64(n) + 1 // +1 for the sentinel
	w := total / wordBits
	if total%wordBits != 0 {
		w++
	}
	return uint32(w)
}

// Size returns n, the logical size (not counting the sentinel).
func (bv *BitVector) Size() uint32 { return bv.n }

// Count returns the number of set bits below the sentinel (O(1)).
func (bv *BitVector) Count() uint32 { return bv.count }

// Rewind resets the streaming cursor to the start and restores the sentinel
// bit if it was consumed by a destructive Pop.
func (bv *BitVector) Rewind() {
	bv.pos = 0
	bv.cache = 0
	bv.touchRaw(bv.n)
}

// Touch sets bit idx. Returns true if the bit was already set (no change made).
func (bv *BitVector) Touch(idx uint32) bool { return bv.touchRaw(idx) }

func (bv *BitVector) touchRaw(idx uint32) bool {
	w, b := idx/wordBits, idx%wordBits
	orig := bv.words[w]
	bv.words[w] |= 1 << b
	changed := orig != bv.words[w]
	if changed && idx < bv.n {
		bv.count++
	}
	return !changed
}

// Untouch clears bit idx. Returns true if the bit was set (and is now cleared).
func (bv *BitVector) Untouch(idx uint32) bool {
	w, b := idx/wordBits, idx%wordBits
	orig := bv.words[w]
	bv.words[w] &^= 1 << b
	changed := orig != bv.words[w]
	if changed && idx < bv.n {
		bv.count--
	}
	return changed
}

// Check reports whether bit idx is set.
func (bv *BitVector) Check(idx uint32) bool { return bv.check(idx) }

func (bv *BitVector) check(idx uint32) bool {
	w, b := idx/wordBits, idx%wordBits
	return bv.words[w]&(1<<b) != 0
}

// Clear zeroes every bit, then restores the sentinel.
func (bv *BitVector) Clear() {
	for i := range bv.words {
		bv.words[i] = 0
	}
	bv.count = 0
	bv.Rewind()
}

// Fill sets every bit below the sentinel, then restores the sentinel. Bits
// above the sentinel stay clear so a later recount over the raw words
// cannot overcount.
func (bv *BitVector) Fill() {
	for i := range bv.words {
		bv.words[i] = ^uint64(0)
	}
	if top := (uint64(bv.n) + 1) % wordBits; top != 0 {
		bv.words[len(bv.words)-1] = (1 << top) - 1
	}
	bv.count = bv.n
	bv.Rewind()
}

// TemporarilyResize shrinks the logical size without reallocating. Requires
// the vector be empty first; it is a constant-time operation that rewrites
// the sentinel to its new position.
func (bv *BitVector) TemporarilyResize(n2 uint32) {
	enforce.ENFORCE(bv.Count() == 0, "TemporarilyResize requires an empty bit vector")
	enforce.ENFORCE(n2 <= bv.n, "TemporarilyResize can only shrink")
	bv.Rewind()
	bv.Untouch(bv.n)
	bv.n = n2
	bv.count = 0
	bv.Rewind()
}

// Push is the streaming-write counterpart to Touch; semantically identical,
// named separately to mirror the producer-side vocabulary used by callers.
func (bv *BitVector) Push(idx uint32) { bv.Touch(idx) }

// Pop destructively streams the next set bit at or after the cursor, clearing
// it as it goes. Returns false once only the sentinel remains.
func (bv *BitVector) Pop() (idx uint32, ok bool) {
	for bv.words[bv.pos] == 0 {
		bv.pos++
	}
	lsb := uint32(bits.TrailingZeros64(bv.words[bv.pos]))
	bv.words[bv.pos] ^= 1 << lsb
	idx = bv.pos*wordBits + lsb
	if idx < bv.n {
		bv.count--
		return idx, true
	}
	return idx, false
}

// Next non-destructively streams the next set bit at or after the cursor.
func (bv *BitVector) Next() (idx uint32, ok bool) {
	for bv.words[bv.pos] == 0 {
		bv.pos++
	}
	if bv.cache == 0 {
		bv.cache = bv.words[bv.pos]
	}
	lsb := uint32(bits.TrailingZeros64(bv.cache))
	bv.cache ^= 1 << lsb
	idx = bv.pos*wordBits + lsb
	if bv.cache == 0 {
		bv.pos++
	}
	return idx, idx < bv.n
}

// UnionWith sets this vector to the bitwise union with other. Both must share
// the same size.
func (bv *BitVector) UnionWith(other *BitVector) {
	enforce.ENFORCE(bv.n == other.n, "UnionWith size mismatch")
	bv.combine(other, func(a, b uint64) uint64 { return a | b })
}

// IntersectWith sets this vector to the bitwise intersection with other.
func (bv *BitVector) IntersectWith(other *BitVector) {
	enforce.ENFORCE(bv.n == other.n, "IntersectWith size mismatch")
	bv.combine(other, func(a, b uint64) uint64 { return a & b })
}

// DifferenceWith removes from this vector every bit set in other, then
// restores the sentinel (a difference against an operand whose own sentinel
// is set would otherwise erase it).
func (bv *BitVector) DifferenceWith(other *BitVector) {
	enforce.ENFORCE(bv.n == other.n, "DifferenceWith size mismatch")
	bv.combine(other, func(a, b uint64) uint64 { return a &^ b })
}

// combine applies op word-wise, re-establishes the sentinel (set algebra can
// knock it out, e.g. a difference against a vector that also has it set),
// and recomputes the maintained popcount.
func (bv *BitVector) combine(other *BitVector, op func(a, b uint64) uint64) {
	for i := range bv.words {
		bv.words[i] = op(bv.words[i], other.words[i])
	}
	bv.touchRaw(bv.n)
	bv.recount()
}

func (bv *BitVector) recount() {
	c := uint32(0)
	for _, w := range bv.words {
		c += uint32(bits.OnesCount64(w))
	}
	if bv.check(bv.n) {
		c--
	}
	bv.count = c
}

// isDenseCount reports whether the packed-words wire form is used: dense
// once the set-bit count exceeds two thirds of n/wordBits (the number of
// whole words), otherwise the sparse index list.
func isDenseCount(count, n uint32) bool {
	return count > (n/wordBits)*2/3
}

func (bv *BitVector) isDense() bool { return isDenseCount(bv.count, bv.n) }

// blobLen returns the number of bytes a count-prefixed serialization of a
// vector of size n holding count set bits occupies, without needing the blob
// itself — the header (count, size) fully determines the shape. This lets a
// BitVector be embedded inside a larger blob (see sparse.StreamingArray).
func blobLen(count, n uint32) int {
	if isDenseCount(count, n) {
		return 4 + int(nwords(n))*8
	}
	return 4 + int(count)*4
}

// Serialize encodes the vector as a 4-byte count header followed by either
// the packed words (dense) or the 32-bit indices of the set bits (sparse),
// whichever the density threshold selects.
func (bv *BitVector) Serialize() []byte {
	buf := make([]byte, blobLen(bv.count, bv.n))
	binary.LittleEndian.PutUint32(buf[0:4], bv.count)

	if bv.isDense() {
		for i, w := range bv.words {
			binary.LittleEndian.PutUint64(buf[4+i*8:], w)
		}
		return buf
	}

	bv.Rewind()
	i := 0
	for {
		idx, ok := bv.Next()
		if !ok {
			break
		}
		binary.LittleEndian.PutUint32(buf[4+i*4:], idx)
		i++
	}
	bv.Rewind()
	return buf
}

// DeserializePrefix decodes a count-prefixed BitVector of logical size n from
// the start of blob, returning the vector and the number of bytes consumed
// (so callers embedding it inside a larger buffer can find what follows it).
func DeserializePrefix(blob []byte, n uint32) (*BitVector, int) {
	count := binary.LittleEndian.Uint32(blob[0:4])
	enforce.ENFORCE(count <= n, "corrupt bit vector blob: count exceeds size")
	length := blobLen(count, n)

	bv := New(n)
	if isDenseCount(count, n) {
		for i := range bv.words {
			bv.words[i] = binary.LittleEndian.Uint64(blob[4+i*8:])
		}
		bv.recount()
		bv.Rewind()
		return bv, length
	}

	bv.Rewind()
	for i := uint32(0); i < count; i++ {
		idx := binary.LittleEndian.Uint32(blob[4+i*4:])
		bv.Push(idx)
	}
	return bv, length
}

// Deserialize decodes a blob produced by Serialize for a vector of logical
// size n.
func Deserialize(blob []byte, n uint32) *BitVector {
	bv, _ := DeserializePrefix(blob, n)
	return bv
}

// Clone deep-copies the vector, preserving its streaming cursor position.
func (bv *BitVector) Clone() *BitVector {
	out := &BitVector{
		n:     bv.n,
		count: bv.count,
		pos:   bv.pos,
		cache: bv.cache,
		words: make([]uint64, len(bv.words)),
	}
	copy(out.words, bv.words)
	return out
}
