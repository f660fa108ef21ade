package sparse

import "testing"

func TestRandomAccessArrayPushAt(t *testing.T) {
	ra := NewRandomAccessArray[float64](10, float64Codec())
	ra.Push(4, 4.5)
	ra.Push(1, 1.5)

	if ra.At(4) != 4.5 || ra.At(1) != 1.5 {
		t.Fatalf("At() mismatch: %v %v", ra.At(4), ra.At(1))
	}
	if ra.Activity.Count() != 2 {
		t.Fatalf("count = %d, want 2", ra.Activity.Count())
	}
}

func TestRandomAccessArrayNextAscendingOrder(t *testing.T) {
	ra := NewRandomAccessArray[float64](20, float64Codec())
	ra.Push(9, 9)
	ra.Push(2, 2)
	ra.Push(15, 15)

	ra.Rewind()
	want := []uint32{2, 9, 15}
	for _, idx := range want {
		gotIdx, gotVal, ok := ra.Next()
		if !ok || gotIdx != idx || gotVal != float64(idx) {
			t.Fatalf("got (%d,%v,%v), want idx %d", gotIdx, gotVal, ok, idx)
		}
	}
}

func TestRandomAccessArrayPopZeroesSlot(t *testing.T) {
	ra := NewRandomAccessArray[float64](10, float64Codec())
	ra.Push(3, 42)

	ra.Rewind()
	idx, val, ok := ra.Pop()
	if !ok || idx != 3 || val != 42 {
		t.Fatalf("got (%d,%v,%v)", idx, val, ok)
	}
	if ra.At(3) != 0 {
		t.Fatalf("Pop should zero the drained slot, got %v", ra.At(3))
	}
	if ra.Activity.Count() != 0 {
		t.Fatalf("count after pop = %d, want 0", ra.Activity.Count())
	}
}

func TestRandomAccessArrayFixedSizeRoundTrip(t *testing.T) {
	ra := NewRandomAccessArray[float64](16, float64Codec())
	ra.Push(0, 10)
	ra.Push(8, 80)
	ra.Push(15, 150)

	blob := ra.Serialize(false)

	out := NewRandomAccessArray[float64](16, float64Codec())
	out.Deserialize(blob, 16)

	for _, idx := range []uint32{0, 8, 15} {
		if !out.Activity.Check(idx) {
			t.Fatalf("expected idx %d active after round trip", idx)
		}
		if out.At(idx) != ra.At(idx) {
			t.Fatalf("idx %d: got %v, want %v", idx, out.At(idx), ra.At(idx))
		}
	}
}

func TestRandomAccessArrayDynamicRoundTrip(t *testing.T) {
	ra := NewRandomAccessArray[string](12, stringCodec())
	ra.Push(0, "zero")
	ra.Push(11, "eleven")

	blob := ra.Serialize(false)

	out := NewRandomAccessArray[string](12, stringCodec())
	out.Deserialize(blob, 12)

	if out.At(0) != "zero" || out.At(11) != "eleven" {
		t.Fatalf("round trip mismatch: %q %q", out.At(0), out.At(11))
	}
	if out.Activity.Count() != 2 {
		t.Fatalf("count = %d, want 2", out.Activity.Count())
	}
}

func TestRandomAccessArrayClearDrainsAndZeroes(t *testing.T) {
	ra := NewRandomAccessArray[float64](8, float64Codec())
	ra.Push(2, 2)
	ra.Push(5, 5)

	ra.Clear()
	if ra.Activity.Count() != 0 {
		t.Fatalf("count after Clear = %d, want 0", ra.Activity.Count())
	}
	if ra.At(2) != 0 || ra.At(5) != 0 {
		t.Fatalf("Clear should zero drained slots")
	}
}
