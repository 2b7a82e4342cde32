package x86dec

// ByteSource is the external byte-stream adapter. It is the
// decoder's sole collaborator: a single-pass producer of bytes plus the
// current address, so PC-relative operands can be rebased by the caller.
// The decoder never peeks or rewinds a ByteSource; on failure it returns
// a Truncated *DecodeError instead.
type ByteSource interface {
	// NextByte returns the next byte in the stream, or an error (any
	// non-nil error is treated as exhaustion) if none remains.
	NextByte() (byte, error)
	// Addr reports the address of the byte that will be returned by the
	// next call to NextByte.
	Addr() int64
}
