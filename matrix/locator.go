package matrix

import "github.com/gas2d/engine/bitset"

// VertexType classifies a reindexed position produced by a Locator.
type VertexType int

const (
	Regular VertexType = iota
	Secondary          // sink (rowgroup/global) or source (colgroup)
	Tertiary           // source, dashboard-only
	Isolated
)

// Locator re-indexes the tile_width (or tile_height) range of a group so
// that regular entries land first, then a secondary bucket (sink or
// source), then an optional tertiary bucket (source, dashboard only), then
// everything else (isolated).
//
type Locator struct {
	array       []uint32
	nregular    uint32
	nsecondary  uint32
	ntertiary   uint32
}

// NewLocator allocates a Locator over [0, rng).
func NewLocator(rng uint32) *Locator {
	return &Locator{array: make([]uint32, rng)}
}

func (l *Locator) NRegular() uint32   { return l.nregular }
func (l *Locator) NSecondary() uint32 { return l.nsecondary }
func (l *Locator) NTertiary() uint32  { return l.ntertiary }

// Rowgroup/colgroup-flavoured aliases for the secondary/tertiary counts.
func (l *Locator) NSink() uint32   { return l.nsecondary }
func (l *Locator) NSource() uint32 { return l.ntertiary }

// At returns the reindexed position of the original index idx.
func (l *Locator) At(idx uint32) uint32 { return l.array[idx] }

// Map classifies the original index idx, returning its bucket and its
// 0-based position within that bucket.
func (l *Locator) Map(idx uint32) (VertexType, uint32) {
	pos := l.array[idx]
	beyondRegular := pos >= l.nregular
	beyondSecondary := pos >= l.nregular+l.nsecondary
	beyondTertiary := pos >= l.nregular+l.nsecondary+l.ntertiary

	t := VertexType(b2u(beyondRegular) + b2u(beyondSecondary) + b2u(beyondTertiary))
	out := pos
	if beyondRegular {
		out -= l.nregular
	}
	if beyondSecondary {
		out -= l.nsecondary
	}
	if beyondTertiary {
		out -= l.ntertiary
	}
	return t, out
}

func b2u(b bool) VertexType {
	if b {
		return 1
	}
	return 0
}

// ForDashboard builds the 4-way [regular | sink | source | isolated]
// ordering a Dashboard locator uses.
func (l *Locator) ForDashboard(regular, sink, source *bitset.BitVector) {
	rest := bitset.New(regular.Size())
	rest.Fill()
	rest.DifferenceWith(regular)
	rest.DifferenceWith(sink)
	rest.DifferenceWith(source)

	l.nregular = regular.Count()
	l.nsecondary = sink.Count()
	l.ntertiary = source.Count()

	pos := uint32(0)
	regular.Rewind()
	sink.Rewind()
	source.Rewind()

	for {
		idx, ok := regular.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}
	for {
		idx, ok := sink.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}
	for {
		idx, ok := source.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}
	for {
		idx, ok := rest.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}

	regular.Rewind()
	sink.Rewind()
	source.Rewind()
}

// ForPair builds the 3-way [regular | secondary | rest] ordering shared by
// the rowgroup locator ([regular|sink|rest]), the colgroup locator
// ([regular|source|rest]), and the global rowgroup locator
// ([globally_regular|globally_sink|rest]) — all three are the same shape,
// differing only in which bit vectors are supplied.
func (l *Locator) ForPair(regular, secondary *bitset.BitVector) {
	rest := bitset.New(regular.Size())
	rest.Fill()
	rest.DifferenceWith(regular)
	rest.DifferenceWith(secondary)

	l.nregular = regular.Count()
	l.nsecondary = secondary.Count()

	pos := uint32(0)
	regular.Rewind()
	secondary.Rewind()

	for {
		idx, ok := regular.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}
	for {
		idx, ok := secondary.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}
	for {
		idx, ok := rest.Next()
		if !ok {
			break
		}
		l.array[idx] = pos
		pos++
	}

	regular.Rewind()
	secondary.Rewind()
}
