package lzopt

// CostModel prices literals and matches in bits, typically backed by the
// current Huffman code lengths for a block so the parse the optimizer
// picks matches the cost the entropy stage will actually charge for it.
type CostModel interface {
	LiteralCost(b byte) int
	MatchCost(length, distance int) int
}

// Op is one decision the optimal parser made: either a single literal
// byte (Distance == 0, Length == 1) or a length/distance match.
type Op struct {
	Distance int
	Length   int
}

// IsLiteral reports whether op represents a literal byte rather than a
// match.
func (op Op) IsLiteral() bool { return op.Distance == 0 }

const (
	// LeaveAlone is the match length at and above which Parse only
	// considers a candidate's full (clamped) length, matching the
	// reference's zultra_optimize_matches_lwd: below it, every
	// sub-length from MinMatchLength up is priced individually so a
	// shorter match can still win when it leads into a cheaper
	// continuation; above it, the combinatorial cost of doing the same
	// isn't worth the gain.
	LeaveAlone = 40

	// LastLiterals is the number of trailing bytes of a parsed range
	// that a match may never cover, so the parse always ends on a
	// literal.
	LastLiterals = 1
)

// Parse runs a backward dynamic program over data[start:end], choosing
// at each position the cheapest combination of "emit one literal" or
// "emit a match" under cost, given the match candidates matchesAt
// returns for each position (as produced by MatchFinder.FindAt/FindAll).
// It returns the chosen ops in forward order.
//
// This mirrors the reference encoder's backward-cost optimizer: cost[i]
// is the minimum bit cost of encoding data[i:end], computed from the end
// backward so every choice at i already knows the true cost of
// everything after it, rather than relying on a greedy forward choice.
func Parse(data []byte, start, end int, matchesAt func(pos int) []Match, cost CostModel) []Op {
	n := end - start
	if n <= 0 {
		return nil
	}

	totalCost := make([]int, n+1)
	choice := make([]Op, n+1)

	for i := n - 1; i >= 0; i-- {
		pos := start + i
		best := totalCost[i+1] + cost.LiteralCost(data[pos])
		bestOp := Op{Distance: 0, Length: 1}

		maxLen := n - LastLiterals - i

		for _, m := range matchesAt(pos) {
			length := m.Length
			if length > maxLen {
				length = maxLen
			}
			if length < MinMatchLength {
				continue
			}

			if length >= LeaveAlone {
				c := totalCost[i+length] + cost.MatchCost(length, m.Distance)
				if c < best {
					best = c
					bestOp = Op{Distance: m.Distance, Length: length}
				}
				continue
			}

			for k := MinMatchLength; k <= length; k++ {
				c := totalCost[i+k] + cost.MatchCost(k, m.Distance)
				if c < best {
					best = c
					bestOp = Op{Distance: m.Distance, Length: k}
				}
			}
		}

		totalCost[i] = best
		choice[i] = bestOp
	}

	var ops []Op
	for i := 0; i < n; {
		op := choice[i]
		ops = append(ops, op)
		i += op.Length
	}
	return ops
}

// TotalCost replays cost over a completed parse, returning the bit count
// it implies. Useful for comparing two candidate parses (e.g. before and
// after a block split) under the same cost model.
func TotalCost(ops []Op, data []byte, start int, cost CostModel) int {
	total := 0
	pos := start
	for _, op := range ops {
		if op.IsLiteral() {
			total += cost.LiteralCost(data[pos])
		} else {
			total += cost.MatchCost(op.Length, op.Distance)
		}
		pos += op.Length
	}
	return total
}
