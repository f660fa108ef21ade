package sparse

import (
	"encoding/binary"
	"math"
	"testing"
)

func float64Codec() Codec[float64] {
	return Codec[float64]{
		FixedSize: 8,
		Encode: func(v float64) []byte {
			b := make([]byte, 8)
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
			return b
		},
		Decode: func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		},
	}
}

func stringCodec() Codec[string] {
	return Codec[string]{
		FixedSize: 0,
		Encode:    func(v string) []byte { return []byte(v) },
		Decode:    func(b []byte) string { return string(b) },
	}
}

func TestStreamingArrayPushPopOrder(t *testing.T) {
	sa := NewStreamingArray[float64](10, float64Codec())
	sa.Push(1, 1.5)
	sa.Push(3, 3.5)
	sa.Push(7, 7.5)

	sa.Rewind()
	want := []struct {
		idx uint32
		val float64
	}{{1, 1.5}, {3, 3.5}, {7, 7.5}}
	for _, w := range want {
		idx, val, ok := sa.Pop()
		if !ok || idx != w.idx || val != w.val {
			t.Fatalf("got (%d,%v,%v), want (%d,%v)", idx, val, ok, w.idx, w.val)
		}
	}
	if _, _, ok := sa.Pop(); ok {
		t.Fatalf("expected exhaustion after draining all pushed entries")
	}
}

func TestStreamingArrayFixedSizeRoundTrip(t *testing.T) {
	sa := NewStreamingArray[float64](20, float64Codec())
	for _, idx := range []uint32{0, 4, 9, 19} {
		sa.Push(idx, float64(idx)*1.25)
	}

	blob := sa.Serialize(false)

	out := NewStreamingArray[float64](20, float64Codec())
	out.Deserialize(blob, 20)

	out.Rewind()
	for _, idx := range []uint32{0, 4, 9, 19} {
		gotIdx, gotVal, ok := out.Next()
		if !ok || gotIdx != idx || gotVal != float64(idx)*1.25 {
			t.Fatalf("round trip mismatch at %d: got (%d,%v,%v)", idx, gotIdx, gotVal, ok)
		}
	}
}

func TestStreamingArrayDynamicRoundTrip(t *testing.T) {
	sa := NewStreamingArray[string](8, stringCodec())
	sa.Push(0, "alpha")
	sa.Push(2, "b")
	sa.Push(5, "gamma-ray-burst")

	blob := sa.Serialize(false)

	out := NewStreamingArray[string](8, stringCodec())
	out.Deserialize(blob, 8)

	out.Rewind()
	want := []struct {
		idx uint32
		val string
	}{{0, "alpha"}, {2, "b"}, {5, "gamma-ray-burst"}}
	for _, w := range want {
		idx, val, ok := out.Next()
		if !ok || idx != w.idx || val != w.val {
			t.Fatalf("got (%d,%q,%v), want (%d,%q)", idx, val, ok, w.idx, w.val)
		}
	}
}

func TestStreamingArrayDestructiveSerializeDrains(t *testing.T) {
	sa := NewStreamingArray[float64](5, float64Codec())
	sa.Push(1, 1)
	sa.Push(3, 3)

	_ = sa.Serialize(true)
	if sa.Activity.Count() != 0 {
		t.Fatalf("destructive serialize should drain the activity set, count=%d", sa.Activity.Count())
	}
}

func TestStreamingArrayEmptySerialize(t *testing.T) {
	sa := NewStreamingArray[float64](6, float64Codec())
	blob := sa.Serialize(false)
	out := NewStreamingArray[float64](6, float64Codec())
	out.Deserialize(blob, 6)
	if out.Activity.Count() != 0 {
		t.Fatalf("expected empty array to round trip empty, got count=%d", out.Activity.Count())
	}
}
