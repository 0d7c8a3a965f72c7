package zultra

import (
	"encoding/binary"
	"hash"
	"hash/adler32"
	"hash/crc32"
	"io"
)

// adler32Of returns the Adler-32 checksum of data, used for a zlib
// preset dictionary's FDICT trailer.
func adler32Of(data []byte) uint32 {
	h := adler32.New()
	h.Write(data)
	return h.Sum32()
}

// newChecksum returns the running checksum Framing requires (Adler-32
// for zlib, CRC-32 for gzip), or nil for bare deflate framing, which has
// no trailer to verify against.
func newChecksum(f Framing) hash.Hash32 {
	switch f {
	case ZlibFraming:
		return adler32.New()
	case GzipFraming:
		return crc32.NewIEEE()
	default:
		return nil
	}
}

// writeHeader emits the framing-specific header. For zlib framing with
// a dictionary, dictChecksum is that dictionary's Adler-32.
func writeHeader(w io.Writer, f Framing, hasDict bool, dictChecksum uint32) error {
	switch f {
	case DeflateFraming:
		return nil

	case ZlibFraming:
		const cmf = 0x78
		flg := byte(0)
		if hasDict {
			flg |= 0x20
		}
		for fcheck := 0; fcheck < 32; fcheck++ {
			candidate := flg | byte(fcheck)
			if (cmf*256+int(candidate))%31 == 0 {
				flg = candidate
				break
			}
		}
		if _, err := w.Write([]byte{cmf, flg}); err != nil {
			return err
		}
		if hasDict {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], dictChecksum)
			if _, err := w.Write(b[:]); err != nil {
				return err
			}
		}
		return nil

	case GzipFraming:
		header := []byte{0x1f, 0x8b, 8, 0, 0, 0, 0, 0, 2, 255}
		_, err := w.Write(header)
		return err

	default:
		return ErrCompression
	}
}

// writeFooter emits the framing-specific trailer given the checksum of
// the uncompressed input and, for gzip, its length mod 2^32.
func writeFooter(w io.Writer, f Framing, checksum uint32, totalIn uint64) error {
	switch f {
	case DeflateFraming:
		return nil

	case ZlibFraming:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], checksum)
		_, err := w.Write(b[:])
		return err

	case GzipFraming:
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], checksum)
		binary.LittleEndian.PutUint32(b[4:8], uint32(totalIn))
		_, err := w.Write(b[:])
		return err

	default:
		return ErrCompression
	}
}
