package zultra

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"math/rand"
	"testing"
)

func decodeDeflate(t *testing.T, compressed []byte) []byte {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate decode: %v", err)
	}
	return out
}

func decodeZlib(t *testing.T, compressed []byte, dict []byte) []byte {
	t.Helper()
	var r io.ReadCloser
	var err error
	if dict != nil {
		r, err = zlib.NewReaderDict(bytes.NewReader(compressed), dict)
	} else {
		r, err = zlib.NewReader(bytes.NewReader(compressed))
	}
	if err != nil {
		t.Fatalf("zlib.NewReader: %v", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("zlib decode: %v", err)
	}
	return out
}

func decodeGzip(t *testing.T, compressed []byte) []byte {
	t.Helper()
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("gzip decode: %v", err)
	}
	return out
}

func TestCompressBlockEmptyInputZlib(t *testing.T) {
	out, err := CompressBlock(nil, nil, Options{Framing: ZlibFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if len(out) < 6 {
		t.Fatalf("expected at least a 2-byte header + 4-byte trailer, got %d bytes", len(out))
	}
	got := decodeZlib(t, out, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty round trip, got %d bytes", len(got))
	}
}

func TestCompressBlockRepeatedByteGzip(t *testing.T) {
	input := bytes.Repeat([]byte{'A'}, 262144)
	out, err := CompressBlock(nil, input, Options{Framing: GzipFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if len(out) >= 512 {
		t.Fatalf("expected highly compressed output under 512 bytes, got %d", len(out))
	}
	got := decodeGzip(t, out)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(input))
	}
}

func TestCompressBlockRandomDataGzip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	input := make([]byte, 65537)
	rng.Read(input)

	out, err := CompressBlock(nil, input, Options{Framing: GzipFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	got := decodeGzip(t, out)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch on random data")
	}
	if len(out) > len(input)+1024 {
		t.Fatalf("stored fallback should keep expansion small: got %d for input %d", len(out), len(input))
	}
}

func TestCompressBlockLeadingZeroRunFirstBlockGzip(t *testing.T) {
	// A run of zero bytes at the very start of the first block used to
	// let the match finder reference the unfilled (zero-valued) history
	// region before the start of the stream, producing a match whose
	// distance pointed before byte 0 of the output.
	input := append(bytes.Repeat([]byte{0}, 1000), []byte("trailing non-zero content")...)
	out, err := CompressBlock(nil, input, Options{Framing: GzipFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	got := decodeGzip(t, out)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch on leading zero run")
	}
}

func TestCompressBlockDictionaryZlib(t *testing.T) {
	dict := []byte("abcdefgh")
	input := bytes.Repeat(dict, 1000)

	out, err := CompressBlock(nil, input, Options{Framing: ZlibFraming, Dictionary: dict})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	got := decodeZlib(t, out, dict)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch with dictionary")
	}
}

func TestCompressBlockDictionaryRejectedForGzip(t *testing.T) {
	_, err := CompressBlock(nil, []byte("hello"), Options{Framing: GzipFraming, Dictionary: []byte("x")})
	if err != ErrDictionary {
		t.Fatalf("expected ErrDictionary, got %v", err)
	}
}

func TestCompressBlockEnglishTextDeflate(t *testing.T) {
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 2000)
	out, err := CompressBlock(nil, text, Options{Framing: DeflateFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	got := decodeDeflate(t, out)
	if !bytes.Equal(got, text) {
		t.Fatalf("round trip mismatch")
	}

	var refBuf bytes.Buffer
	fw, _ := flate.NewWriter(&refBuf, flate.BestCompression)
	fw.Write(text)
	fw.Close()
	if len(out) > refBuf.Len()*2 {
		t.Fatalf("compressed size %d unexpectedly far from stdlib's %d", len(out), refBuf.Len())
	}
}

func TestWriterStreamingMatchesOneShot(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := make([]byte, 10000)
	rng.Read(input)
	// Make it partly repetitive so matches actually occur.
	copy(input[5000:], input[:3000])

	oneShot, err := CompressBlock(nil, input, Options{Framing: GzipFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}

	var streamed bytes.Buffer
	w, err := NewWriter(&streamed, Options{Framing: GzipFraming})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	const chunks = 37
	pos := 0
	for i := 0; i < chunks; i++ {
		end := (i + 1) * len(input) / chunks
		if i == chunks-1 {
			end = len(input)
		}
		if _, err := w.Write(input[pos:end]); err != nil {
			t.Fatalf("Write chunk %d: %v", i, err)
		}
		pos = end
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	gotStreamed := decodeGzip(t, streamed.Bytes())
	if !bytes.Equal(gotStreamed, input) {
		t.Fatalf("streamed round trip mismatch")
	}
	gotOneShot := decodeGzip(t, oneShot)
	if !bytes.Equal(gotOneShot, input) {
		t.Fatalf("one-shot round trip mismatch")
	}
	if !bytes.Equal(streamed.Bytes(), oneShot) {
		t.Fatalf("streamed output differs from one-shot output")
	}
}

func TestWriterIdempotent(t *testing.T) {
	input := bytes.Repeat([]byte("idempotence check payload "), 500)
	out1, err := CompressBlock(nil, input, Options{Framing: DeflateFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	out2, err := CompressBlock(nil, input, Options{Framing: DeflateFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if !bytes.Equal(out1, out2) {
		t.Fatalf("expected identical output across runs on the same input")
	}
}

func TestMaxCompressedSizeIsRespected(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{0, 1, 100, 65535, 65536, 200000} {
		input := make([]byte, n)
		rng.Read(input)
		out, err := CompressBlock(nil, input, Options{Framing: GzipFraming})
		if err != nil {
			t.Fatalf("CompressBlock(n=%d): %v", n, err)
		}
		bound := MaxCompressedSize(n, Options{Framing: GzipFraming})
		if len(out) > bound {
			t.Fatalf("n=%d: compressed size %d exceeds bound %d", n, len(out), bound)
		}
	}
}

func TestSmallInputAllLiterals(t *testing.T) {
	input := []byte("ab")
	out, err := CompressBlock(nil, input, Options{Framing: DeflateFraming})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	got := decodeDeflate(t, out)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch for input shorter than MinMatchLength")
	}
}

func TestMinBlockSizeMultiBlockStream(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	input := make([]byte, MinBlockSize*3+17)
	rng.Read(input)
	copy(input[MinBlockSize:], input[:1000])
	copy(input[2*MinBlockSize:], input[:1000])

	out, err := CompressBlock(nil, input, Options{Framing: GzipFraming, MaxBlockSize: MinBlockSize})
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	got := decodeGzip(t, out)
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch across multiple minimum-size blocks")
	}
}
