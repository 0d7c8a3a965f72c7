package zultra

import (
	"encoding/binary"

	"github.com/gozultra/zultra/bitio"
	"github.com/gozultra/zultra/huffman"
	"github.com/gozultra/zultra/internal/lzopt"
)

// convergencePasses is the number of extra parse/rebuild rounds the
// dynamic path runs after its first one (convergencePasses+1 rounds in
// all, following the initial greedy-seeded table build), so the
// parser's cost model settles toward the frequencies its own output
// actually produces.
const convergencePasses = 3

// rleMaskCandidates returns the code-length-alphabet RLE enablement
// masks the dynamic-block encoder searches over when packing the
// literal/distance code-length sequences: every combination of the
// three run-length symbols (0-7), plus the odd values above 8 that also
// carry one of the split-suppression bits (9, 11, 13, ..., 31).
func rleMaskCandidates() []uint32 {
	masks := make([]uint32, 0, 16)
	for m := uint32(0); m <= 7; m++ {
		masks = append(masks, m)
	}
	for m := uint32(9); m <= huffman.MaxCodesMask; m += 2 {
		masks = append(masks, m)
	}
	return masks
}

// blockEncoder encodes one DEFLATE sub-block at a time: static versus
// dynamic Huffman cost comparison, the convergence loop that lets the
// optimal parser and the code it's priced against settle on each other,
// and the stored-block fallback when neither compresses.
type blockEncoder struct{}

func newBlockEncoder() *blockEncoder { return &blockEncoder{} }

// EncodeBlock encodes data[start:end] as one DEFLATE block into bw.
// data may extend before start (history available to the match finder)
// and mf must already cover data[:end]. isLastBlock marks the very last
// sub-block of the very last input block, the only one allowed to carry
// BFINAL=1.
func (e *blockEncoder) EncodeBlock(data []byte, mf *lzopt.MatchFinder, start, end int, isLastBlock bool, bw *bitio.Writer) error {
	checkpoint := bw.Save()

	matchesAt := func(pos int) []lzopt.Match {
		return mf.FindAt(pos, end-pos)
	}

	lit := huffman.NewEncoder(NLiteralSyms, MaxLitCodeLength, 0)
	dist := huffman.NewEncoder(NOffsetSyms, MaxDistCodeLength, 0)
	seedFrequencies(data, start, end, matchesAt, lit, dist)
	lit.BuildDynamicCodewords()
	dist.BuildDynamicCodewords()

	var ops []lzopt.Op
	for pass := 0; pass <= convergencePasses; pass++ {
		injectDefaultLengths(lit, dist)
		cost := &blockCost{lit: lit, dist: dist}
		ops = lzopt.Parse(data, start, end, matchesAt, cost)

		nextLit := huffman.NewEncoder(NLiteralSyms, MaxLitCodeLength, 0)
		nextDist := huffman.NewEncoder(NOffsetSyms, MaxDistCodeLength, 0)
		accumulateFrequencies(ops, data, start, nextLit, nextDist)
		nextLit.BuildDynamicCodewords()
		nextDist.BuildDynamicCodewords()
		lit, dist = nextLit, nextDist
	}

	ensureTwoDistanceSymbols(dist)

	lit, dist = optimizeForRLE(lit, dist)

	finalCost := &blockCost{lit: lit, dist: dist}
	ops = postOptimizeMatches(ops, data, start, finalCost)

	litCount := lit.GetDefinedVarLengthsCount(257)
	distCount := dist.GetDefinedVarLengthsCount(1)

	combined := make([]int, litCount+distCount)
	copy(combined, lit.CodeLength[:litCount])
	copy(combined[litCount:], dist.CodeLength[:distCount])

	bestMask, bestCL, bestBits := searchRLEMask(combined)

	bodyCost := lzopt.TotalCost(ops, data, start, finalCost) + lit.CodeLength[EndOfBlockSymbol]
	dynamicBits := 3 + 5 + 5 + 4 + bestBits + bodyCost

	staticBody := lzopt.TotalCost(ops, data, start, staticCostModel) + staticCostModel.lit.CodeLength[EndOfBlockSymbol]
	staticBits := 3 + staticBody

	rawBits := (end - start) * 8

	bfinal := uint32(0)
	if isLastBlock {
		bfinal = 1
	}

	useDynamic := dynamicBits <= staticBits
	chosenBits := staticBits
	if useDynamic {
		chosenBits = dynamicBits
	}

	if chosenBits >= rawBits+24 {
		bw.Restore(checkpoint)
		return writeStoredBlocks(bw, data[start:end], isLastBlock)
	}

	if err := bw.PutBits(bfinal, 1); err != nil {
		return err
	}

	if useDynamic {
		if err := bw.PutBits(2, 2); err != nil {
			return err
		}
		if err := writeDynamicHeader(bw, litCount, distCount, bestCL, bestMask, combined); err != nil {
			return err
		}
		return writeBody(bw, data, start, ops, lit, dist)
	}

	if err := bw.PutBits(1, 2); err != nil {
		return err
	}
	return writeBody(bw, data, start, ops, staticCostModel.lit, staticCostModel.dist)
}

func seedFrequencies(data []byte, start, end int, matchesAt func(int) []lzopt.Match, lit, dist *huffman.Encoder) {
	for i := start; i < end; {
		matches := matchesAt(i)
		if len(matches) > 0 && matches[0].Length >= lzopt.MinMatchLength {
			m := matches[0]
			lit.Entropy[lengthSymbol(m.Length)]++
			dist.Entropy[distSymbol(m.Distance)]++
			i += m.Length
		} else {
			lit.Entropy[data[i]]++
			i++
		}
	}
	lit.Entropy[EndOfBlockSymbol]++
}

func accumulateFrequencies(ops []lzopt.Op, data []byte, start int, lit, dist *huffman.Encoder) {
	pos := start
	for _, op := range ops {
		if op.IsLiteral() {
			lit.Entropy[data[pos]]++
		} else {
			lit.Entropy[lengthSymbol(op.Length)]++
			dist.Entropy[distSymbol(op.Distance)]++
		}
		pos += op.Length
	}
	lit.Entropy[EndOfBlockSymbol]++
}

// injectDefaultLengths assigns the reference encoder's default code
// lengths (9 for literals, 6 for distances) to symbols the current
// frequency table left at zero, so the parser can still consider them
// this round; the next frequency-driven table rebuild discards these
// again for symbols that remain unused.
func injectDefaultLengths(lit, dist *huffman.Encoder) {
	for i := 0; i < lit.Symbols; i++ {
		if lit.Entropy[i] == 0 {
			lit.CodeLength[i] = 9
		}
	}
	for i := 0; i < dist.Symbols; i++ {
		if dist.Entropy[i] == 0 {
			dist.CodeLength[i] = 6
		}
	}
}

// ensureTwoDistanceSymbols works around a historical decoder bug by
// guaranteeing at least two distance symbols carry non-zero frequency
// (and therefore non-zero code length) before the code-length table is
// finalized.
func ensureTwoDistanceSymbols(dist *huffman.Encoder) {
	nonzero := 0
	for i := 0; i < dist.Symbols; i++ {
		if dist.Entropy[i] > 0 {
			nonzero++
		}
	}
	if nonzero >= 2 {
		return
	}
	for i := 0; i < dist.Symbols && nonzero < 2; i++ {
		if dist.Entropy[i] == 0 {
			dist.Entropy[i] = 1
			nonzero++
		}
	}
	dist.BuildDynamicCodewords()
}

// optimizeForRLE tries a zopfli-style entropy smoothing pass over the
// literal and distance frequency tables, so their code lengths form
// longer runs for the code-length RLE, and keeps the smoothed tables
// only when they give a smaller total: the block's symbols priced under
// each code plus that code's own RLE-packed code-length table.
func optimizeForRLE(lit, dist *huffman.Encoder) (*huffman.Encoder, *huffman.Encoder) {
	smoothLit := huffman.NewEncoder(NLiteralSyms, MaxLitCodeLength, 0)
	copy(smoothLit.Entropy[:], huffman.OptimizeForRLE(lit.Entropy[:]))
	smoothLit.BuildDynamicCodewords()

	smoothDist := huffman.NewEncoder(NOffsetSyms, MaxDistCodeLength, 0)
	copy(smoothDist.Entropy[:], huffman.OptimizeForRLE(dist.Entropy[:]))
	smoothDist.BuildDynamicCodewords()

	tableBits := func(l, d *huffman.Encoder) int {
		litCount := l.GetDefinedVarLengthsCount(257)
		distCount := d.GetDefinedVarLengthsCount(1)
		combined := make([]int, litCount+distCount)
		copy(combined, l.CodeLength[:litCount])
		copy(combined[litCount:], d.CodeLength[:distCount])
		_, _, bits := searchRLEMask(combined)
		return bits
	}

	origBits, smoothBits := tableBits(lit, dist), tableBits(smoothLit, smoothDist)
	for i := 0; i < lit.Symbols; i++ {
		origBits += lit.Entropy[i] * lit.CodeLength[i]
		smoothBits += lit.Entropy[i] * smoothLit.CodeLength[i]
	}
	for i := 0; i < dist.Symbols; i++ {
		origBits += dist.Entropy[i] * dist.CodeLength[i]
		smoothBits += dist.Entropy[i] * smoothDist.CodeLength[i]
	}

	if smoothBits < origBits {
		return smoothLit, smoothDist
	}
	return lit, dist
}

// postOptimizeMatches walks a finished parse once more and downgrades
// any match whose emission cost (under the final, fixed code lengths)
// exceeds the summed literal cost of the bytes it covers.
func postOptimizeMatches(ops []lzopt.Op, data []byte, start int, cost *blockCost) []lzopt.Op {
	out := make([]lzopt.Op, 0, len(ops))
	pos := start
	for _, op := range ops {
		if op.IsLiteral() {
			out = append(out, op)
			pos++
			continue
		}

		matchCost := cost.MatchCost(op.Length, op.Distance)
		litSum := 0
		allDefined := true
		for k := 0; k < op.Length; k++ {
			cl := cost.lit.CodeLength[data[pos+k]]
			if cl == 0 {
				allDefined = false
				break
			}
			litSum += cl
		}

		if allDefined && litSum < matchCost {
			for k := 0; k < op.Length; k++ {
				out = append(out, lzopt.Op{Distance: 0, Length: 1})
			}
		} else {
			out = append(out, op)
		}
		pos += op.Length
	}
	return out
}

func searchRLEMask(combined []int) (uint32, *huffman.Encoder, int) {
	var bestMask uint32
	var bestCL *huffman.Encoder
	bestBits := -1

	for _, mask := range rleMaskCandidates() {
		cl := huffman.NewEncoder(NCodeLenSyms, MaxCLCodeLength, 0)
		cl.UpdateVarLengthsEntropy(len(combined), combined, mask)
		cl.BuildDynamicCodewords()

		rawSize := cl.GetRawTableSize()
		bits := rawSize*3 + cl.GetVarLengthsSize(len(combined), combined, mask)

		if bestBits == -1 || bits < bestBits {
			bestBits = bits
			bestMask = mask
			bestCL = cl
		}
	}

	return bestMask, bestCL, bestBits
}

func writeDynamicHeader(bw *bitio.Writer, litCount, distCount int, cl *huffman.Encoder, mask uint32, combined []int) error {
	rawSize := cl.GetRawTableSize()

	if err := bw.PutBits(uint32(litCount-257), 5); err != nil {
		return err
	}
	if err := bw.PutBits(uint32(distCount-1), 5); err != nil {
		return err
	}
	if err := bw.PutBits(uint32(rawSize-4), 4); err != nil {
		return err
	}
	if err := cl.WriteRawTable(3, rawSize, bw); err != nil {
		return err
	}
	return cl.WriteVarLengths(len(combined), combined, mask, bw)
}

func writeBody(bw *bitio.Writer, data []byte, start int, ops []lzopt.Op, lit, dist *huffman.Encoder) error {
	pos := start
	for _, op := range ops {
		if op.IsLiteral() {
			if err := lit.WriteCodeword(int(data[pos]), bw); err != nil {
				return err
			}
			pos++
			continue
		}

		lsym := lengthSymbol(op.Length)
		if err := lit.WriteCodeword(lsym, bw); err != nil {
			return err
		}
		if nbits := lengthExtraBits[lsym-257]; nbits > 0 {
			if err := bw.PutBits(uint32(op.Length-lengthBase[lsym-257]), uint(nbits)); err != nil {
				return err
			}
		}

		dsym := distSymbol(op.Distance)
		if err := dist.WriteCodeword(dsym, bw); err != nil {
			return err
		}
		if nbits := distExtraBits[dsym]; nbits > 0 {
			if err := bw.PutBits(uint32(op.Distance-distBase[dsym]), uint(nbits)); err != nil {
				return err
			}
		}

		pos += op.Length
	}

	return lit.WriteCodeword(EndOfBlockSymbol, bw)
}

// writeStoredBlocks emits data as one or more BTYPE=00 stored blocks, at
// most 65535 bytes each; only the final chunk carries isLastBlock's
// BFINAL bit.
func writeStoredBlocks(bw *bitio.Writer, data []byte, isLastBlock bool) error {
	for {
		chunkLen := len(data)
		if chunkLen > 65535 {
			chunkLen = 65535
		}
		chunk := data[:chunkLen]
		data = data[chunkLen:]

		bfinal := uint32(0)
		if isLastBlock && len(data) == 0 {
			bfinal = 1
		}

		if err := bw.PutBits(bfinal, 1); err != nil {
			return err
		}
		if err := bw.PutBits(0, 2); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}

		var lenBytes [4]byte
		binary.LittleEndian.PutUint16(lenBytes[0:2], uint16(chunkLen))
		binary.LittleEndian.PutUint16(lenBytes[2:4], ^uint16(chunkLen))
		if err := bw.WriteBytes(lenBytes[:]); err != nil {
			return err
		}
		if err := bw.WriteBytes(chunk); err != nil {
			return err
		}

		if len(data) == 0 {
			return nil
		}
	}
}
