// Package sparse implements two activity-tagged array flavours: a
// StreamingArray (producer-once/consumer-once, e.g. message queues) and a
// RandomAccessArray (indexable, e.g. accumulators). Both pair a bitset.BitVector
// activity set with a value array, and both share a dual serialization
// contract: fixed-size values are packed directly into the blob, while
// dynamically-sized values are emitted as a run of 4-byte lengths followed
// by the concatenated encoded values.
package sparse

// Codec describes how to turn a value of type V into bytes and back, for the
// purposes of (de)serializing a StreamingArray or RandomAccessArray.
//
// FixedSize, when non-zero, declares that Encode always returns exactly
// FixedSize bytes: the array then uses the packed, non-prefixed wire form.
// FixedSize == 0 selects the dynamically-sized form, where every encoded
// value's 4-byte length is written first, then the encoded values.
type Codec[V any] struct {
	FixedSize int
	Encode    func(v V) []byte
	Decode    func(b []byte) V
}
