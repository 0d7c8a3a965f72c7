// Package lzopt builds the suffix-array-backed match finder, the
// backward-DP optimal parser, and the recursive block splitter that
// drive the near-optimal DEFLATE block encoder in the parent package.
package lzopt

import "sort"

// BuildSuffixArray returns the suffix array of data (sa[k] is the start
// offset of the k-th suffix in lexicographic order) using prefix-doubling
// rank comparison, and the inverse permutation rank (rank[sa[k]] == k).
//
// This runs in O(n log^2 n) using sort.Slice per doubling round rather
// than a linear-time induced sort (SA-IS/DC3): it trades asymptotic
// optimality for an implementation small enough to verify by hand on the
// short strings exercised in tests, which matters more here than raw
// throughput on multi-megabyte inputs.
func BuildSuffixArray(data []byte) (sa, rank []int32) {
	n := len(data)
	sa = make([]int32, n)
	rank = make([]int32, n)
	if n == 0 {
		return sa, rank
	}

	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int32(data[i])
	}

	tmp := make([]int32, n)
	for k := 1; ; k *= 2 {
		rankAt := func(i int32) int32 {
			if int(i) >= n {
				return -1
			}
			return rank[i]
		}
		less := func(i, j int32) bool {
			ri, rj := rank[i], rank[j]
			if ri != rj {
				return ri < rj
			}
			return rankAt(i+int32(k)) < rankAt(j+int32(k))
		}
		sort.Slice(sa, func(a, b int) bool { return less(sa[a], sa[b]) })

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			r := tmp[sa[i-1]]
			if less(sa[i-1], sa[i]) {
				r++
			}
			tmp[sa[i]] = r
		}
		copy(rank, tmp)

		if int(rank[sa[n-1]]) == n-1 || k > n {
			break
		}
	}

	return sa, rank
}

// PermutedLCP returns, for each suffix-array rank r >= 1, the length of
// the longest common prefix between sa[r] and sa[r-1], computed in
// O(n) total with Kasai's algorithm (the same permuted-LCP recurrence
// Kärkkäinen's PLCP method exploits: lcp(rank[i]) >= lcp(rank[i-1]) - 1).
// lcp[0] is always 0.
func PermutedLCP(data []byte, sa, rank []int32) []int32 {
	n := len(data)
	lcp := make([]int32, n)
	if n == 0 {
		return lcp
	}

	h := int32(0)
	for i := 0; i < n; i++ {
		r := rank[i]
		if r > 0 {
			j := int(sa[r-1])
			for int(h) < n-i && int(h) < n-j && data[i+int(h)] == data[j+int(h)] {
				h++
			}
			lcp[r] = h
			if h > 0 {
				h--
			}
		} else {
			h = 0
		}
	}
	return lcp
}
