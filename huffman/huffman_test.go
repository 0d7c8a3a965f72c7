package huffman

import "testing"

func kraftSum(codeLength []int, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		if codeLength[i] > 0 {
			sum += 1.0 / float64(int(1)<<uint(codeLength[i]))
		}
	}
	return sum
}

func TestEstimateDynamicCodeLensSingleSymbol(t *testing.T) {
	e := NewEncoder(8, 7, 0)
	e.Entropy[3] = 42
	e.EstimateDynamicCodeLens()

	if e.CodeLength[3] != 1 {
		t.Fatalf("expected symbol 3 to get length 1, got %d", e.CodeLength[3])
	}
	for i := 0; i < 8; i++ {
		if i != 3 && e.CodeLength[i] != 0 {
			t.Fatalf("expected unused symbol %d to have length 0, got %d", i, e.CodeLength[i])
		}
	}
}

func TestEstimateDynamicCodeLensKraftInequality(t *testing.T) {
	e := NewEncoder(8, 15, 0)
	freqs := []int{1, 1, 2, 3, 5, 8, 13, 21}
	for i, f := range freqs {
		e.Entropy[i] = f
	}
	e.EstimateDynamicCodeLens()

	sum := kraftSum(e.CodeLength[:], 8)
	if sum > 1.0+1e-9 {
		t.Fatalf("Kraft sum exceeds 1: %v", sum)
	}

	// A symbol with lower frequency should never receive a strictly
	// shorter code than one with higher frequency.
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			if freqs[i] < freqs[j] && e.CodeLength[i] != 0 && e.CodeLength[j] != 0 {
				if e.CodeLength[i] < e.CodeLength[j] {
					t.Fatalf("lower-frequency symbol %d got shorter code than higher-frequency symbol %d", i, j)
				}
			}
		}
	}
}

func TestBuildDynamicCodewordsRespectsMaxLength(t *testing.T) {
	e := NewEncoder(20, 5, 0)
	// Skewed Fibonacci-like frequencies tend to blow past short max
	// lengths without length-limiting.
	e.Entropy[0] = 1000000
	f0, f1 := 1, 1
	for i := 1; i < 20; i++ {
		e.Entropy[i] = f1
		f0, f1 = f1, f0+f1
	}
	e.BuildDynamicCodewords()

	for i := 0; i < 20; i++ {
		if e.CodeLength[i] > 5 {
			t.Fatalf("symbol %d exceeds max code length: %d", i, e.CodeLength[i])
		}
	}

	sum := kraftSum(e.CodeLength[:], 20)
	if sum > 1.0+1e-9 {
		t.Fatalf("Kraft sum exceeds 1 after length limiting: %v", sum)
	}
}

func TestBuildStaticCodewordsPrefixFree(t *testing.T) {
	e := NewEncoder(8, 15, 0)
	lengths := []int{2, 2, 3, 3, 4, 4, 4, 4}
	for i, l := range lengths {
		e.CodeLength[i] = l
	}
	e.BuildStaticCodewords()

	type entry struct {
		code uint32
		n    int
	}
	var seen []entry
	for sym := 0; sym < 8; sym++ {
		n := e.CodeLength[sym]
		c := e.CodeWord[sym]
		for _, s := range seen {
			minLen := n
			if s.n < minLen {
				minLen = s.n
			}
			mask := uint32(1)<<uint(minLen) - 1
			if c&mask == s.code&mask {
				t.Fatalf("codeword for symbol %d is a prefix of/conflicts with an earlier one", sym)
			}
		}
		seen = append(seen, entry{code: c, n: n})
	}
}

type fakeBitWriter struct {
	bits []uint32
	n    []uint
}

func (f *fakeBitWriter) PutBits(value uint32, n uint) error {
	f.bits = append(f.bits, value&(uint32(1)<<n-1))
	f.n = append(f.n, n)
	return nil
}

func TestVarLengthsRoundTripBitCount(t *testing.T) {
	codeLength := []int{0, 0, 0, 5, 5, 5, 5, 5, 5, 5, 0, 0, 0, 0, 0, 3, 3, 0, 0}

	tables := NewEncoder(19, 7, 0)
	mask := uint32(RLEEnable16 | RLEEnable17 | RLEEnable18)
	tables.UpdateVarLengthsEntropy(len(codeLength), codeLength, mask)
	tables.BuildDynamicCodewords()

	size := tables.GetVarLengthsSize(len(codeLength), codeLength, mask)

	fw := &fakeBitWriter{}
	if err := tables.WriteVarLengths(len(codeLength), codeLength, mask, fw); err != nil {
		t.Fatalf("WriteVarLengths: %v", err)
	}

	written := 0
	for _, n := range fw.n {
		written += int(n)
	}
	if written != size {
		t.Fatalf("GetVarLengthsSize=%d but WriteVarLengths wrote %d bits", size, written)
	}
}

func TestGetRawTableSizeTrimsTrailingZerosNotBelowFour(t *testing.T) {
	e := NewEncoder(19, 7, 0)
	e.CodeLength[CodeLenSymOrder[0]] = 3
	if got := e.GetRawTableSize(); got != 4 {
		t.Fatalf("expected floor of 4, got %d", got)
	}

	e2 := NewEncoder(19, 7, 0)
	for i := 0; i < 10; i++ {
		e2.CodeLength[CodeLenSymOrder[i]] = 3
	}
	if got := e2.GetRawTableSize(); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestOptimizeForRLEKeepsLengthAndZeroRuns(t *testing.T) {
	counts := []int{0, 0, 0, 0, 0, 0, 5, 5, 5, 5, 5, 5, 5, 2, 0, 0, 0, 0, 0, 0}
	out := OptimizeForRLE(counts)

	if len(out) != len(counts) {
		t.Fatalf("length mismatch: got %d want %d", len(out), len(counts))
	}
	for i, v := range counts {
		if v == 0 && out[i] != 0 {
			t.Fatalf("index %d: zero count must stay zero, got %d", i, out[i])
		}
	}
}
