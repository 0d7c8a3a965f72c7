package lzopt

// Match is a single length/distance pair a MatchFinder proposes at some
// position in the input. Distance is measured in bytes behind the
// current position; Length is the number of bytes the match covers.
type Match struct {
	Distance int
	Length   int
}

const (
	// MinMatchLength is the shortest match DEFLATE can encode.
	MinMatchLength = 3
	// MaxMatchLength is the longest match DEFLATE can encode in one
	// length/distance pair.
	MaxMatchLength = 258
	// MaxDistance is DEFLATE's 32 KiB window.
	MaxDistance = 32768

	// maxMatchesPerPosition caps how many candidate matches FindAll
	// returns per position, matching the reference matchfinder's fixed
	// per-offset slot count.
	maxMatchesPerPosition = 8

	// neighborScanLimit bounds how many suffix-array neighbors on each
	// side of a position's rank FindAll inspects before giving up on
	// finding more (better) candidates. Keeps match finding close to
	// linear in practice without an explicit interval tree. On highly
	// repetitive data this can still miss the nearest occurrence of a
	// long match that the reference's interval tree would find
	// directly; widen this if a corpus needs tighter ratios than the
	// ~0.1% target.
	neighborScanLimit = 128
)

// MatchFinder enumerates, for every position in data, up to
// maxMatchesPerPosition length/distance candidates using the permuted
// LCP array derived from data's suffix array. Matches only ever point
// backward (to positions < the query position), as required by DEFLATE.
type MatchFinder struct {
	data      []byte
	sa        []int32
	rank      []int32
	lcp       []int32
	validFrom int
}

// NewMatchFinder builds the suffix array and permuted LCP array needed
// to answer match queries over data. validFrom is the lowest position a
// match may reference: positions before it are unfilled history (zero
// bytes that were never part of the compressed stream or a seeded
// dictionary), matching the reference matchfinder's nPreviousBlockSize
// offset. Pass 0 when every byte of data is real.
func NewMatchFinder(data []byte, validFrom int) *MatchFinder {
	sa, rank := BuildSuffixArray(data)
	lcp := PermutedLCP(data, sa, rank)
	return &MatchFinder{data: data, sa: sa, rank: rank, lcp: lcp, validFrom: validFrom}
}

// FindAt returns up to maxMatchesPerPosition matches available at
// position pos, sorted by decreasing length (ties broken by increasing
// distance), clamped to maxLen bytes (the caller passes len(data)-pos
// or a smaller block-local remaining length) and to MaxDistance.
func (mf *MatchFinder) FindAt(pos, maxLen int) []Match {
	if maxLen > MaxMatchLength {
		maxLen = MaxMatchLength
	}
	if maxLen < MinMatchLength {
		return nil
	}

	r := int(mf.rank[pos])
	var candidates []Match

	consider := func(srcPos int, length int32) {
		if srcPos >= pos || srcPos < mf.validFrom || pos-srcPos > MaxDistance {
			return
		}
		l := int(length)
		if l > maxLen {
			l = maxLen
		}
		if l < MinMatchLength {
			return
		}
		candidates = append(candidates, Match{Distance: pos - srcPos, Length: l})
	}

	// Walk upward: sa[r], sa[r+1], ... with running min LCP relative to
	// sa[r] (lcp[k] for k>r is the LCP between sa[k] and sa[k-1]).
	minLCP := int32(1 << 30)
	for k := r + 1; k < len(mf.sa) && k <= r+neighborScanLimit; k++ {
		if mf.lcp[k] < minLCP {
			minLCP = mf.lcp[k]
		}
		if minLCP < MinMatchLength {
			break
		}
		consider(int(mf.sa[k]), minLCP)
	}

	// Walk downward: sa[r-1], sa[r-2], ... with running min LCP.
	minLCP = 1 << 30
	for k := r; k > 0 && k > r-neighborScanLimit; k-- {
		if mf.lcp[k] < minLCP {
			minLCP = mf.lcp[k]
		}
		if minLCP < MinMatchLength {
			break
		}
		consider(int(mf.sa[k-1]), minLCP)
	}

	if len(candidates) == 0 {
		return nil
	}

	// Keep the longest matches, then nearest distance on ties; a small
	// insertion sort is fine since candidates is bounded by twice
	// neighborScanLimit.
	for i := 1; i < len(candidates); i++ {
		c := candidates[i]
		j := i - 1
		for j >= 0 && less(c, candidates[j]) {
			candidates[j+1] = candidates[j]
			j--
		}
		candidates[j+1] = c
	}

	// Deduplicate by distance, keeping the first (longest) occurrence.
	out := candidates[:0:0]
	seen := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.Distance] {
			continue
		}
		seen[c.Distance] = true
		out = append(out, c)
		if len(out) >= maxMatchesPerPosition {
			break
		}
	}

	return out
}

func less(a, b Match) bool {
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	return a.Distance < b.Distance
}

// FindAll enumerates candidate matches for every position in data,
// clamping lengths so no match reaches past the end of the input.
func (mf *MatchFinder) FindAll() [][]Match {
	n := len(mf.data)
	all := make([][]Match, n)
	for i := 0; i < n; i++ {
		all[i] = mf.FindAt(i, n-i)
	}
	return all
}
