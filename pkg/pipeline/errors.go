package pipeline

import "errors"

var (
	// ErrConfig is returned for invalid or missing configuration, before any processing starts.
	ErrConfig = errors.New("gifcut: invalid configuration")

	// ErrDecode is returned when the input cannot be opened or read.
	ErrDecode = errors.New("gifcut: decode failed")

	// ErrShapeMismatch is returned when two compared frames differ in size.
	ErrShapeMismatch = errors.New("gifcut: frame shape mismatch")

	// ErrEmptySegment is returned when a segment with no frames reaches the emitter.
	ErrEmptySegment = errors.New("gifcut: empty segment")

	// ErrEncode is returned when the encoder or output sink fails.
	ErrEncode = errors.New("gifcut: encode failed")
)
