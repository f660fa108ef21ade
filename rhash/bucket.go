package rhash

// bucketMultiplier splits each of the nbuckets ranks into 128 logical
// sub-buckets so that round-robin assignment interleaves at finer
// granularity than one contiguous range per rank.
const bucketMultiplier = 128

// Bucket is a reversible bijection that interleaves vertex IDs across
// nbuckets logical partitions at bucketMultiplier-fold granularity, so a
// contiguous range of original IDs spreads evenly across ranks.
//
// IDs at or beyond maxRange (height*nparts) pass through unchanged —
// maxRange need not equal maxDomain when maxDomain isn't a multiple of
// nparts.
type Bucket struct {
	nparts   int64
	height   int64
	maxRange int64
}

// NewBucket builds a Bucket hasher for IDs in [0, maxDomain) split across
// nbuckets ranks.
func NewBucket(maxDomain, nbuckets int64) *Bucket {
	nparts := nbuckets * bucketMultiplier
	height := maxDomain / nparts
	return &Bucket{
		nparts:   nparts,
		height:   height,
		maxRange: height * nparts,
	}
}

func (b *Bucket) Hash(v int64) int64 {
	if v >= b.maxRange {
		return v
	}
	col := v % b.nparts
	row := v / b.nparts
	return row + col*b.height
}

func (b *Bucket) Unhash(v int64) int64 {
	if v >= b.maxRange {
		return v
	}
	col := v / b.height
	row := v % b.height
	return col + row*b.nparts
}
