package zultra

import "github.com/gozultra/zultra/huffman"

// blockCost prices literals and matches in bits using a pair of Huffman
// encoders' current code lengths, implementing lzopt.CostModel.
type blockCost struct {
	lit  *huffman.Encoder
	dist *huffman.Encoder
}

func (c *blockCost) LiteralCost(b byte) int {
	return c.lit.CodeLength[b]
}

func (c *blockCost) MatchCost(length, distance int) int {
	lsym := lengthSymbol(length)
	dsym := distSymbol(distance)
	return c.lit.CodeLength[lsym] + lengthExtraBits[lsym-257] +
		c.dist.CodeLength[dsym] + distExtraBits[dsym]
}

// staticCostModel is the fixed-length cost model RFC 1951 §3.2.6 assigns to
// BTYPE=01 blocks; it never changes, so it's built once at package init.
var staticCostModel = func() *blockCost {
	lit := huffman.NewEncoder(NLiteralSyms, MaxLitCodeLength, 0)
	litLens := staticLiteralLengths()
	copy(lit.CodeLength[:], litLens[:])
	lit.BuildStaticCodewords()

	dist := huffman.NewEncoder(NOffsetSyms, MaxDistCodeLength, 0)
	distLens := staticDistLengths()
	copy(dist.CodeLength[:], distLens[:])
	dist.BuildStaticCodewords()

	return &blockCost{lit: lit, dist: dist}
}()
