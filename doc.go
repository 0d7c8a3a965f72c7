// Package zultra implements a near-optimal DEFLATE (RFC 1951) encoder,
// optionally wrapped in zlib (RFC 1950) or gzip (RFC 1952) framing. It
// trades the single forward pass a typical deflate implementation makes
// for a suffix-array match finder, a cost-driven optimal parser, and a
// recursive block splitter, aiming for compression ratios close to
// multi-pass optimizers at a fraction of their running time.
//
// Compression is streaming and push-based: construct a Writer, call
// Write as input becomes available, and Close to finalize. Use
// CompressBlock for a one-shot call over an in-memory buffer.
//
// Decompression is out of scope; any RFC 1951/1950/1952-conforming
// decoder reads gozultra's output.
package zultra
