package zultra

import (
	"bytes"

	"github.com/gozultra/zultra/internal/lzopt"
)

// CompressBlock compresses src in one call and returns the result,
// appending to dst (which may be nil). It is the one-shot equivalent of
// constructing a Writer, writing src, and closing it.
func CompressBlock(dst, src []byte, opts Options) ([]byte, error) {
	buf := bytes.NewBuffer(dst)

	w, err := NewWriter(buf, opts)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// MaxCompressedSize returns an upper bound on the compressed size of an
// input of srcLen bytes under opts, accounting for the worst case where
// every sub-block falls back to stored encoding: raw bytes plus a 5-byte
// stored-block header per 65535-byte chunk and per sub-block the block
// splitter can cut, a 5-byte empty stored block closing each input
// block, and a final padding byte, plus framing overhead.
func MaxCompressedSize(srcLen int, opts Options) int {
	opts = opts.normalized()

	blocks := (srcLen + opts.MaxBlockSize - 1) / opts.MaxBlockSize
	if blocks == 0 {
		blocks = 1
	}
	headers := srcLen/65535 + srcLen/lzopt.DefaultSplitter().MinBlockSize + 2*blocks
	bound := srcLen + headers*5 + 1

	switch opts.Framing {
	case ZlibFraming:
		bound += 2 + 4 // CMF/FLG + Adler-32 trailer
		if len(opts.Dictionary) > 0 {
			bound += 4 // FDICT Adler-32
		}
	case GzipFraming:
		bound += 10 + 8 // header + CRC-32/size trailer
	}

	return bound
}
