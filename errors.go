package zultra

import "errors"

// Error taxonomy. These are sentinels: callers compare with errors.Is,
// and functions that need to add context wrap one of these with
// fmt.Errorf("%w", ...) rather than returning a fresh error string.
var (
	// ErrSource is returned when reading the input failed.
	ErrSource = errors.New("zultra: source read failed")

	// ErrDestination is returned when writing output failed, including
	// a bit writer running out of capacity.
	ErrDestination = errors.New("zultra: destination write failed")

	// ErrDictionary is returned when a dictionary was supplied but is
	// invalid for the chosen framing (only zlib framing supports one).
	ErrDictionary = errors.New("zultra: dictionary invalid for this configuration")

	// ErrMemory stands for a failed buffer allocation. It is kept for
	// parity with the C error taxonomy; ordinary Go allocation failure
	// panics instead, and no function in this package returns it.
	ErrMemory = errors.New("zultra: allocation failed")

	// ErrCompression is returned when an internal invariant was
	// violated: a parse left bytes unconsumed, a bit writer offset was
	// corrupt, or header encoding failed. It is always a bug, never a
	// property of the input.
	ErrCompression = errors.New("zultra: internal compression invariant violated")

	// ErrClosed is returned by Write/Flush after Close has finalized
	// the stream.
	ErrClosed = errors.New("zultra: write to closed stream")
)
