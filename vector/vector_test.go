package vector

import (
	"testing"

	"github.com/gas2d/engine/sparse"
)

func TestVertexStateActivity(t *testing.T) {
	vs := NewVertexState[uint32](4)
	vs.Set(2, 99)
	if got := vs.Get(2); got != 99 {
		t.Fatalf("Get(2) = %d, want 99", got)
	}
	if vs.IsActive(2) {
		t.Fatal("vertex 2 should start inactive")
	}
	vs.Activate(2)
	if !vs.IsActive(2) {
		t.Fatal("vertex 2 should be active after Activate")
	}
	vs.ResetActivity()
	if vs.IsActive(2) {
		t.Fatal("ResetActivity should clear activation")
	}
}

func TestOutgoingSegmentResetReshapes(t *testing.T) {
	codec := sparse.Codec[uint32]{
		FixedSize: 4,
		Encode:    func(v uint32) []byte { return []byte{byte(v)} },
		Decode:    func(b []byte) uint32 { return uint32(b[0]) },
	}
	seg := NewOutgoingSegment[uint32](3, 2, codec)
	if seg.Regular.Size() != 3 || seg.Source.Size() != 2 {
		t.Fatalf("got regular=%d source=%d, want 3,2", seg.Regular.Size(), seg.Source.Size())
	}
	seg.Reset(5, 1, codec)
	if seg.Regular.Size() != 5 || seg.Source.Size() != 1 {
		t.Fatalf("after Reset got regular=%d source=%d, want 5,1", seg.Regular.Size(), seg.Source.Size())
	}
}

func TestCursorIsIndependentOfSource(t *testing.T) {
	codec := sparse.Codec[uint32]{
		FixedSize: 4,
		Encode:    func(v uint32) []byte { return []byte{byte(v)} },
		Decode:    func(b []byte) uint32 { return uint32(b[0]) },
	}
	seg := sparse.NewStreamingArray[uint32](4, codec)
	seg.Push(0, 10)
	seg.Push(1, 20)

	c := Cursor(seg)
	idx, val, ok := c.Next()
	if !ok || idx != 0 || val != 10 {
		t.Fatalf("cursor.Next() = %d,%d,%v, want 0,10,true", idx, val, ok)
	}
	// The cursor's own walk must not have advanced seg's position.
	idx2, val2, ok2 := seg.Next()
	if !ok2 || idx2 != 0 || val2 != 10 {
		t.Fatalf("original segment advanced by cursor read: got %d,%d,%v", idx2, val2, ok2)
	}
}

func TestTagEncodesUthAndKind(t *testing.T) {
	cases := []struct {
		uth  uint32
		kind int
		want int
	}{
		{0, KindRowGrpRegular, 0},
		{0, KindMirrorSink, 3},
		{1, KindColGrpRegular, 10},
		{2, KindColGrpSource, 17},
	}
	for _, c := range cases {
		if got := Tag(c.uth, c.kind); got != c.want {
			t.Errorf("Tag(%d,%d) = %d, want %d", c.uth, c.kind, got, c.want)
		}
	}
}
