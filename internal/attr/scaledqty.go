package attr

import (
	"fmt"
	"math"
)

// ScaledQuantity is a floating-point quantity with a mandatory unit.
// The device stores it as a fixed-point unsigned integer; the real
// value is the raw integer multiplied by the attribute's scale factor.
type ScaledQuantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ScaledCodec converts between raw characteristic bytes and
// ScaledQuantity values. It layers fixed-point scaling on top of
// UintCodec, inheriting its length, unset-marker, overflow, and unit
// checks unchanged.
type ScaledCodec struct {
	Width int
	Unit  string
	Scale float64
}

// Decode reads the raw integer with a unitless UintCodec, scales it,
// and attaches the mandatory unit. ErrLengthMismatch and ErrUnavailable
// surface unchanged.
func (c ScaledCodec) Decode(data []byte) (ScaledQuantity, error) {
	raw, err := UintCodec{Width: c.Width}.Decode(data)
	if err != nil {
		return ScaledQuantity{}, err
	}
	return ScaledQuantity{
		Value: float64(raw.Value) * c.Scale,
		Unit:  c.Unit,
	}, nil
}

// Encode rejects a disagreeing unit before any conversion happens,
// then rounds the requested value to the nearest multiple of the scale
// factor and delegates to UintCodec.Encode, so overflow and
// unset-marker collisions are rejected there.
func (c ScaledCodec) Encode(q ScaledQuantity) ([]byte, error) {
	if q.Unit != c.Unit {
		return nil, fmt.Errorf("%w: got %q, attribute declares %q", ErrUnitMismatch, q.Unit, c.Unit)
	}
	raw := math.Round(q.Value / c.Scale)
	if math.IsNaN(raw) || raw < 0 || raw >= math.MaxUint64 {
		return nil, fmt.Errorf("%w: %v is not representable", ErrValueTooLarge, q.Value)
	}
	return UintCodec{Width: c.Width, Unit: c.Unit}.Encode(UintQuantity{
		Value: uint64(raw),
		Unit:  q.Unit,
	})
}
