// Package attr implements the typed attribute layer over raw
// characteristic payloads: unsigned integer quantities, fixed-point
// scaled quantities, and the descriptor table that maps named
// attributes to characteristic short identifiers.
package attr

import "fmt"

// Attribute byte-width limits. Values are carried in uint64, so eight
// bytes is the hard ceiling.
const (
	MinWidth = 1
	MaxWidth = 8
)

// UintQuantity is an unsigned integer with an optional unit. An empty
// Unit means the attribute is unitless.
type UintQuantity struct {
	Value uint64 `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// UintCodec converts between raw characteristic bytes and UintQuantity
// values for one attribute of a fixed byte width.
//
// Byte order is big-endian in both directions: the first byte on the
// wire is the most significant. Encode is the exact inverse of Decode.
type UintCodec struct {
	Width int
	Unit  string
}

// Decode converts raw bytes read from the device into a quantity.
// Returns ErrLengthMismatch when the payload width disagrees with the
// attribute, and ErrUnavailable when the payload is the all-0xff
// "unset" marker.
func (c UintCodec) Decode(data []byte) (UintQuantity, error) {
	if len(data) != c.Width {
		return UintQuantity{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrLengthMismatch, c.Width, len(data))
	}
	if isUnsetMarker(data) {
		return UintQuantity{}, ErrUnavailable
	}

	var value uint64
	for _, b := range data {
		value = value<<8 | uint64(b)
	}
	return UintQuantity{Value: value, Unit: c.Unit}, nil
}

// Encode converts a quantity into the bytes to write to the device.
// The quantity's unit must equal the attribute's declared unit, with
// both empty counting as agreement. Returns ErrValueTooLarge when the
// value does not fit in Width bytes and ErrInvalidValue when the
// encoding would produce the reserved all-0xff marker.
func (c UintCodec) Encode(q UintQuantity) ([]byte, error) {
	if q.Unit != c.Unit {
		return nil, fmt.Errorf("%w: got %q, attribute declares %q", ErrUnitMismatch, q.Unit, c.Unit)
	}

	buf := make([]byte, c.Width)
	v := q.Value
	for i := c.Width - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	if v != 0 {
		return nil, fmt.Errorf("%w: %d does not fit in %d bytes", ErrValueTooLarge, q.Value, c.Width)
	}
	if isUnsetMarker(buf) {
		return nil, fmt.Errorf("%w: encoding collides with the reserved unset marker", ErrInvalidValue)
	}
	return buf, nil
}

// isUnsetMarker reports whether every byte equals 0xff, the pattern the
// device reserves for "value not yet set".
func isUnsetMarker(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		if b != 0xff {
			return false
		}
	}
	return true
}
