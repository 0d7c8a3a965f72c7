package lzopt

// Splitter decides where to cut a range of input bytes into
// independently-Huffman-coded sub-blocks, by recursively bisecting a
// range wherever the byte-value distribution on either side of the
// midpoint diverges enough that two separate codes would likely beat
// one shared one.
//
// This is a simplified form of the reference encoder's recursive
// splitter: it uses the same core signal (a per-half byte-value
// histogram and a drift threshold between them) without reproducing
// every tuning constant of the original 18-feature accumulator, since
// the spec leaves the exact split heuristic an implementation choice as
// long as it converges and respects the size/depth guards below.
type Splitter struct {
	// MinBlockSize is the smallest sub-block this splitter will ever
	// produce; ranges below 2*MinBlockSize are never split further.
	MinBlockSize int
	// MaxDepth bounds recursion so pathological inputs can't produce an
	// unbounded number of sub-blocks.
	MaxDepth int
	// MaxSplits bounds the total number of split points returned.
	MaxSplits int
	// DriftThreshold is the fraction (0-1) of histogram-weight
	// divergence between a range's two halves required to justify a
	// split at their midpoint.
	DriftThreshold float64
}

// DefaultSplitter matches the reference encoder's depth/size/count
// guards (recursion depth < 6, minimum sub-block 8192 bytes, at most 64
// split points) with a drift threshold tuned for the same 45% divergence
// trigger.
func DefaultSplitter() *Splitter {
	return &Splitter{
		MinBlockSize:   8192,
		MaxDepth:       6,
		MaxSplits:      64,
		DriftThreshold: 0.45,
	}
}

// Split returns the sorted set of offsets into data (absolute indices,
// strictly between start and end) at which data[start:end] should be cut
// into independently coded sub-blocks.
func (s *Splitter) Split(data []byte, start, end int) []int {
	var splits []int
	s.split(data, start, end, 0, &splits)
	return splits
}

func (s *Splitter) split(data []byte, start, end, depth int, splits *[]int) {
	if len(*splits) >= s.MaxSplits {
		return
	}
	if depth >= s.MaxDepth || end-start < 2*s.MinBlockSize {
		return
	}

	mid := (start + end) / 2

	var left, right [256]int
	for i := start; i < mid; i++ {
		left[data[i]]++
	}
	for i := mid; i < end; i++ {
		right[data[i]]++
	}

	if !shouldSplit(left[:], mid-start, right[:], end-mid, s.DriftThreshold) {
		return
	}

	// Recurse left before appending mid, and right after, so splits
	// accumulates in strictly ascending order: callers (the block
	// encoder) treat the returned slice as a sequence of ascending
	// sub-block boundaries.
	s.split(data, start, mid, depth+1, splits)
	*splits = append(*splits, mid)
	s.split(data, mid, end, depth+1, splits)
}

// shouldSplit compares two byte-value histograms (normalizing each by
// its own sample count) and reports whether their total
// variation distance exceeds threshold, i.e. whether the two ranges'
// byte distributions have drifted enough to be worth coding separately.
func shouldSplit(left []int, leftN int, right []int, rightN int, threshold float64) bool {
	if leftN == 0 || rightN == 0 {
		return false
	}
	var drift float64
	for i := range left {
		pl := float64(left[i]) / float64(leftN)
		pr := float64(right[i]) / float64(rightN)
		d := pl - pr
		if d < 0 {
			d = -d
		}
		drift += d
	}
	// drift ranges from 0 (identical distributions) to 2 (disjoint
	// supports); normalize to 0-1 total variation distance.
	return drift/2 > threshold
}
