package attr

import "errors"

// Codec errors. The bridge boundary maps these to externally visible
// outcomes with errors.Is; none of them terminates the process.
var (
	// ErrLengthMismatch indicates the device returned a different number
	// of bytes than the attribute declares.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrUnavailable indicates the device has not yet initialized the
	// attribute (every byte of the declared width reads 0xff).
	ErrUnavailable = errors.New("attribute not initialized by device")

	// ErrValueTooLarge indicates a write value that does not fit in the
	// attribute's declared width.
	ErrValueTooLarge = errors.New("value too large")

	// ErrInvalidValue indicates a write value whose encoding collides
	// with the reserved all-0xff marker.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnitMismatch indicates a write whose unit differs from the unit
	// the attribute declares.
	ErrUnitMismatch = errors.New("unit mismatch")
)
