package zultra

// RFC 1951 §3.2.5 length and distance code tables. Symbols 257-285 (29
// of them) encode match lengths 3-258; symbols 0-29 of the distance
// alphabet encode distances 1-32768.
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtraBits = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// lengthSymbolOf maps length-MinMatchLength (0-255) to its RFC 1951
// length symbol (257-285).
var lengthSymbolOf [256]int

// distSymbolOf maps a distance to its RFC 1951 distance symbol (0-29).
// Entries 0-255 are indexed directly by distance-1 for distances 1-256;
// entries 256-511 are indexed by ((distance-257)>>7)+256 for larger
// distances, per spec.
var distSymbolOf [512]int

func init() {
	li := 0
	for length := 3; length <= 258; length++ {
		for li+1 < len(lengthBase) && length >= lengthBase[li+1] {
			li++
		}
		lengthSymbolOf[length-3] = 257 + li
	}

	symbolForDistance := func(d int) int {
		lo := 0
		for lo+1 < len(distBase) && d >= distBase[lo+1] {
			lo++
		}
		return lo
	}

	for d := 1; d <= 256; d++ {
		distSymbolOf[d-1] = symbolForDistance(d)
	}
	for k := 0; k < 256; k++ {
		d := 257 + (k << 7)
		if d > 32768 {
			d = 32768
		}
		distSymbolOf[256+k] = symbolForDistance(d)
	}
}

// lengthSymbol returns the RFC 1951 length symbol for a match of the
// given length (3-258).
func lengthSymbol(length int) int {
	return lengthSymbolOf[length-3]
}

// distSymbol returns the RFC 1951 distance symbol for the given
// distance (1-32768).
func distSymbol(distance int) int {
	if distance <= 256 {
		return distSymbolOf[distance-1]
	}
	idx := (distance-257)>>7 + 256
	if idx > 511 {
		idx = 511
	}
	return distSymbolOf[idx]
}

// Alphabet sizes. NLiteralSyms/NOffsetSyms are the table sizes the
// Huffman encoder allocates; NValid* are the symbols RFC 1951 actually
// defines (286/30) versus the two reserved literal/length slots and two
// reserved distance slots tables still budget room for.
const (
	NLiteralSyms      = 288
	NValidLiteralSyms = 286
	EndOfBlockSymbol  = 256
	NOffsetSyms       = 32
	NValidOffsetSyms  = 30
	NCodeLenSyms      = 19
	MaxLitCodeLength  = 15
	MaxDistCodeLength = 15
	MaxCLCodeLength   = 7
)

// staticLiteralLengths and staticDistLengths are the fixed Huffman code
// lengths RFC 1951 §3.2.6 assigns for BTYPE=01 blocks.
func staticLiteralLengths() [NLiteralSyms]int {
	var lens [NLiteralSyms]int
	for i := 0; i <= 143; i++ {
		lens[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lens[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lens[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lens[i] = 8
	}
	return lens
}

func staticDistLengths() [NOffsetSyms]int {
	var lens [NOffsetSyms]int
	for i := range lens {
		lens[i] = 5
	}
	return lens
}
