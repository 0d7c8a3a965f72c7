package zultra

import (
	"hash"
	"io"

	"github.com/gozultra/zultra/bitio"
	"github.com/gozultra/zultra/internal/lzopt"
)

// Writer implements io.WriteCloser over the near-optimal DEFLATE
// encoder: it accumulates input into a sliding window, and whenever the
// window fills (or the caller calls Close) it runs one input block
// through the match finder, block splitter, and block encoder, and
// drains the compressed bytes to the underlying writer.
type Writer struct {
	dst  io.Writer
	opts Options

	window      []byte // [0:HistorySize) history, [HistorySize:HistorySize+maxBlockSize) new bytes
	curInBytes  int
	headerDone  bool
	closed      bool
	totalIn     uint64
	checksum    hash.Hash32
	enc         *blockEncoder
	bw          *bitio.Writer
	outBuf      []byte
	dictionary  bool
	dictSum     uint32

	// previousBlockSize is the number of valid (real) bytes sitting in
	// window[HistorySize-previousBlockSize:HistorySize]: 0 until a
	// dictionary or a first block has filled any of it. The match
	// finder must never reference positions before
	// HistorySize-previousBlockSize, since everything before that is
	// Go's zero-filled padding, not part of the compressed stream.
	previousBlockSize int

	// BlockHook, if set, is called after each block is emitted with the
	// number of input bytes the block consumed and the compressed bytes
	// it produced (a view into outBuf, valid only for the call's
	// duration). It exists for the CLI's --verbose per-block log line;
	// ordinary library callers leave it nil.
	BlockHook func(inBytes int, compressed []byte)
}

// NewWriter returns a Writer that wraps compressed output in opts'
// framing and writes it to dst. Options.Dictionary, if set, must pair
// with ZlibFraming.
func NewWriter(dst io.Writer, opts Options) (*Writer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.normalized()

	w := &Writer{
		dst:      dst,
		opts:     opts,
		window:   make([]byte, HistorySize+opts.MaxBlockSize),
		checksum: newChecksum(opts.Framing),
		enc:      newBlockEncoder(),
	}

	// Output buffer sized generously for one block's worth of stored
	// fallback in the worst case: every byte raw, plus a stored-block
	// header per 65535-byte chunk, plus headroom for a Huffman-coded
	// attempt that temporarily exceeds the stored size before being
	// discarded.
	outCap := opts.MaxBlockSize*2 + (opts.MaxBlockSize/65535+2)*8 + 64
	w.outBuf = make([]byte, outCap)
	w.bw = bitio.NewWriter(w.outBuf, 0, len(w.outBuf))

	if len(opts.Dictionary) > 0 {
		dict := opts.Dictionary
		if len(dict) > HistorySize {
			dict = dict[len(dict)-HistorySize:]
		}
		copy(w.window[HistorySize-len(dict):HistorySize], dict)
		w.dictionary = true
		w.dictSum = adler32Of(dict)
		w.previousBlockSize = len(dict)
	}

	return w, nil
}

// Write accumulates p into the sliding window, updating the running
// checksum, and emits finished blocks to the underlying writer as the
// window fills.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	if err := w.ensureHeader(); err != nil {
		return 0, err
	}

	n := 0
	for len(p) > 0 {
		space := w.opts.MaxBlockSize - w.curInBytes
		chunk := len(p)
		if chunk > space {
			chunk = space
		}

		copy(w.window[HistorySize+w.curInBytes:], p[:chunk])
		if w.checksum != nil {
			w.checksum.Write(p[:chunk])
		}
		w.curInBytes += chunk
		w.totalIn += uint64(chunk)
		p = p[chunk:]
		n += chunk

		if w.curInBytes == w.opts.MaxBlockSize {
			if err := w.flushBlock(false); err != nil {
				return n, err
			}
		}
	}

	return n, nil
}

// Flush forces a block boundary without closing the stream, so a
// caller composing Writer with something like bufio gets the verb it
// expects.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if err := w.ensureHeader(); err != nil {
		return err
	}
	if w.curInBytes == 0 {
		return nil
	}
	return w.flushBlock(false)
}

// Close finalizes the stream: encodes any remaining buffered bytes as
// the last block, flushes the bit writer, and writes the framing
// footer. The Writer must not be reused afterward.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.ensureHeader(); err != nil {
		return err
	}
	if err := w.flushBlock(true); err != nil {
		return err
	}
	w.closed = true

	var checksum uint32
	if w.checksum != nil {
		checksum = w.checksum.Sum32()
	}
	return writeFooter(w.dst, w.opts.Framing, checksum, w.totalIn)
}

func (w *Writer) ensureHeader() error {
	if w.headerDone {
		return nil
	}
	if err := writeHeader(w.dst, w.opts.Framing, w.dictionary, w.dictSum); err != nil {
		return err
	}
	w.headerDone = true
	return nil
}

func (w *Writer) flushBlock(isFinal bool) error {
	data := w.window[:HistorySize+w.curInBytes]
	validFrom := HistorySize - w.previousBlockSize
	mf := lzopt.NewMatchFinder(data, validFrom)

	splitter := lzopt.DefaultSplitter()
	splits := splitter.Split(data, HistorySize, HistorySize+w.curInBytes)
	boundaries := append(splits, HistorySize+w.curInBytes)

	w.bw.Reset(w.outBuf, 0, len(w.outBuf))
	start := HistorySize
	for i, end := range boundaries {
		last := isFinal && i == len(boundaries)-1
		if err := w.enc.EncodeBlock(data, mf, start, end, last, w.bw); err != nil {
			if err == bitio.ErrOverflow {
				return ErrDestination
			}
			return err
		}
		start = end
	}

	// A non-final block can end mid-byte. Zero padding there would be
	// read as the next block's header, so close it with an empty stored
	// block, which leaves the stream byte-aligned at a block boundary.
	if !isFinal && !w.bw.Aligned() {
		if err := writeStoredBlocks(w.bw, nil, false); err != nil {
			return ErrDestination
		}
	}

	if err := w.bw.Flush(); err != nil {
		return err
	}
	out := w.bw.Bytes()
	if _, err := w.dst.Write(out); err != nil {
		return ErrDestination
	}
	if w.BlockHook != nil {
		w.BlockHook(w.curInBytes, out)
	}

	w.shiftHistory()
	w.curInBytes = 0
	return nil
}

// shiftHistory moves the trailing min(HistorySize, validBytes) bytes of
// the just-processed window down to the end of the history region
// (window[HistorySize-copyLen:HistorySize]), immediately adjacent to
// where the next block's new bytes will be written at window[HistorySize:],
// and records how many of those bytes are real for the next block's
// match finder. validBytes is previousBlockSize+curInBytes: only that
// much of the window (ending at HistorySize+curInBytes) was ever
// written to, so copyLen must never exceed it or the copy would pull
// in zero-filled padding from before the dictionary/first block.
func (w *Writer) shiftHistory() {
	processedEnd := HistorySize + w.curInBytes
	validBytes := w.previousBlockSize + w.curInBytes
	copyLen := validBytes
	if copyLen > HistorySize {
		copyLen = HistorySize
	}
	dstStart := HistorySize - copyLen
	copy(w.window[dstStart:HistorySize], w.window[processedEnd-copyLen:processedEnd])
	w.previousBlockSize = copyLen
}
