package huffman

// walkVarLengths enumerates the code-length-alphabet commands needed to
// describe codeLength[0:writeSymbols] under the given RLE enablement
// mask, calling emit(sym, extraValue, extraBits) for each one in order.
// sym is 0-18 (16/17/18 are the run codes; 0-15 are raw code lengths).
func walkVarLengths(writeSymbols int, codeLength []int, mask uint32, emit func(sym int, extra uint32, extraBits uint)) {
	i := 0
	for i < writeSymbols {
		length := codeLength[i]
		runLen := 1
		for i+runLen < writeSymbols && codeLength[i+runLen] == length {
			runLen++
		}

		if length == 0 {
			n := runLen
			for n > 0 {
				switch {
				case n >= 11 && mask&RLEEnable18 != 0:
					c := n
					if c > 138 {
						c = 138
					}
					emit(18, uint32(c-11), 7)
					n -= c
				case n >= 3 && mask&RLEEnable17 != 0:
					c := n
					if c > 10 {
						c = 10
					}
					emit(17, uint32(c-3), 3)
					n -= c
				default:
					emit(0, 0, 0)
					n--
				}
			}
		} else {
			emit(length, 0, 0)
			n := runLen - 1

			switch {
			case n == 7 && mask&RLEEnable16 != 0 && mask&RLENoSplit7 == 0:
				emit(16, 1, 2) // repeat 4
				emit(16, 0, 2) // repeat 3
				n = 0
			case n == 8 && mask&RLEEnable16 != 0 && mask&RLENoSplit8 == 0:
				emit(16, 1, 2) // repeat 4
				emit(16, 1, 2) // repeat 4
				n = 0
			default:
				for n > 0 {
					if n >= 3 && mask&RLEEnable16 != 0 {
						c := n
						if c > 6 {
							c = 6
						}
						emit(16, uint32(c-3), 2)
						n -= c
					} else {
						emit(length, 0, 0)
						n--
					}
				}
			}
		}

		i += runLen
	}
}

// UpdateVarLengthsEntropy accumulates, into the code-length alphabet
// encoder tables, the frequency of each command that would be produced
// encoding codeLength[0:writeSymbols] under mask. Called once per
// candidate mask before building the code-length alphabet's own
// canonical code, so that code reflects the commands actually chosen.
func (tables *Encoder) UpdateVarLengthsEntropy(writeSymbols int, codeLength []int, mask uint32) {
	walkVarLengths(writeSymbols, codeLength, mask, func(sym int, extra uint32, extraBits uint) {
		tables.Entropy[sym]++
	})
}

// GetVarLengthsSize returns the number of bits needed to write
// codeLength[0:writeSymbols] as code-length-alphabet commands under mask,
// using tables' already-built canonical code for the command symbols.
func (tables *Encoder) GetVarLengthsSize(writeSymbols int, codeLength []int, mask uint32) int {
	total := 0
	walkVarLengths(writeSymbols, codeLength, mask, func(sym int, extra uint32, extraBits uint) {
		total += tables.CodeLength[sym] + int(extraBits)
	})
	return total
}

// WriteVarLengths writes codeLength[0:writeSymbols] as code-length-alphabet
// commands under mask, using tables' canonical code.
func (tables *Encoder) WriteVarLengths(writeSymbols int, codeLength []int, mask uint32, w bitWriter) error {
	var werr error
	walkVarLengths(writeSymbols, codeLength, mask, func(sym int, extra uint32, extraBits uint) {
		if werr != nil {
			return
		}
		if err := tables.WriteCodeword(sym, w); err != nil {
			werr = err
			return
		}
		if extraBits > 0 {
			if err := w.PutBits(extra, extraBits); err != nil {
				werr = err
				return
			}
		}
	})
	return werr
}

// OptimizeForRLE smooths a set of symbol frequencies so that the
// resulting Huffman code lengths form longer runs, which the code-length
// RLE commands above compress better, at a small cost in the optimality
// of the literal/length or distance code itself. This is zopfli's
// OptimizeHuffmanForRle heuristic: trailing zero counts are dropped,
// then stretches of the array that are "already good for RLE" (an
// existing run of zeros at least 5 long, or of equal nonzero values at
// least 7 long) are protected, and every other maximal stretch of length
// at least 4 (or at least 3 when every count in it is already zero) has
// its members replaced by their rounded average.
func OptimizeForRLE(counts []int) []int {
	length := len(counts)
	for length > 0 && counts[length-1] == 0 {
		length--
	}
	if length == 0 {
		return counts
	}

	good := make([]bool, length)

	// A run of zeros of length >= 5, or of identical nonzero values of
	// length >= 7, already RLEs well and must not be smoothed over.
	stride := 0
	symbol := counts[0]
	step := 0
	if symbol == 0 {
		step = 5
	} else {
		step = 7
	}
	for i := 1; i <= length; i++ {
		if i == length || counts[i] != symbol {
			if stride+1 >= step {
				for j := i - stride - 1; j < i; j++ {
					good[j] = true
				}
			}
			if i < length {
				symbol = counts[i]
				if symbol == 0 {
					step = 5
				} else {
					step = 7
				}
			}
			stride = 0
		} else {
			stride++
		}
	}

	out := make([]int, len(counts))
	copy(out, counts)

	i := 0
	for i < length {
		if good[i] {
			i++
			continue
		}
		j := i
		for j < length && !good[j] {
			j++
		}

		run := j - i
		allZero := true
		for k := i; k < j; k++ {
			if counts[k] != 0 {
				allZero = false
				break
			}
		}

		if run >= 4 || (allZero && run >= 3) {
			sum, limit := 0, j
			for k := i; k < limit; k++ {
				sum += counts[k]
			}
			avg := (sum + run/2) / run
			if avg == 0 && !allZero {
				avg = 1
			}
			for k := i; k < j; k++ {
				out[k] = avg
			}
		}

		i = j
	}

	return out
}
