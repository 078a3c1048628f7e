package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledCodec_Decode(t *testing.T) {
	tests := []struct {
		name     string
		codec    ScaledCodec
		data     []byte
		expected ScaledQuantity
		delta    float64
		wantErr  error
	}{
		{
			name:     "battery voltage",
			codec:    ScaledCodec{Width: 2, Unit: "volts", Scale: 1.00709544518e-4},
			data:     []byte{0x27, 0x10}, // raw 10000
			expected: ScaledQuantity{Value: 1.00709544518, Unit: "volts"},
			delta:    1e-12,
		},
		{
			name:     "light level",
			codec:    ScaledCodec{Width: 4, Unit: "lux", Scale: 1e-3},
			data:     []byte{0x00, 0x00, 0x75, 0x30}, // raw 30000
			expected: ScaledQuantity{Value: 30.0, Unit: "lux"},
			delta:    1e-9,
		},
		{
			name:    "length mismatch surfaces unchanged",
			codec:   ScaledCodec{Width: 2, Unit: "volts", Scale: 1e-3},
			data:    []byte{0x01},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "unset marker surfaces unchanged",
			codec:   ScaledCodec{Width: 2, Unit: "volts", Scale: 1e-3},
			data:    []byte{0xff, 0xff},
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.Decode(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Unit, got.Unit)
			assert.InDelta(t, tt.expected.Value, got.Value, tt.delta)
		})
	}
}

func TestScaledCodec_Encode(t *testing.T) {
	tests := []struct {
		name     string
		codec    ScaledCodec
		quantity ScaledQuantity
		expected []byte
		wantErr  error
	}{
		{
			name:     "threshold rounds to raw integer",
			codec:    ScaledCodec{Width: 4, Unit: "lux", Scale: 1e-1},
			quantity: ScaledQuantity{Value: 12.3, Unit: "lux"},
			expected: []byte{0x00, 0x00, 0x00, 0x7b}, // raw 123
		},
		{
			name:     "rounding to nearest multiple",
			codec:    ScaledCodec{Width: 2, Unit: "g", Scale: 1e-3},
			quantity: ScaledQuantity{Value: 6.2504, Unit: "g"},
			expected: []byte{0x18, 0x6a}, // raw 6250
		},
		{
			name:     "unit mismatch is case sensitive",
			codec:    ScaledCodec{Width: 4, Unit: "lux", Scale: 1e-1},
			quantity: ScaledQuantity{Value: 12.3, Unit: "LUX"},
			wantErr:  ErrUnitMismatch,
		},
		{
			name:     "missing unit",
			codec:    ScaledCodec{Width: 4, Unit: "lux", Scale: 1e-1},
			quantity: ScaledQuantity{Value: 12.3},
			wantErr:  ErrUnitMismatch,
		},
		{
			name:     "overflow inherited",
			codec:    ScaledCodec{Width: 1, Unit: "lux", Scale: 1e-1},
			quantity: ScaledQuantity{Value: 100.0, Unit: "lux"}, // raw 1000
			wantErr:  ErrValueTooLarge,
		},
		{
			name:     "unset marker collision inherited",
			codec:    ScaledCodec{Width: 1, Unit: "lux", Scale: 1e-1},
			quantity: ScaledQuantity{Value: 25.5, Unit: "lux"}, // raw 255
			wantErr:  ErrInvalidValue,
		},
		{
			name:     "negative value rejected",
			codec:    ScaledCodec{Width: 2, Unit: "g", Scale: 1e-3},
			quantity: ScaledQuantity{Value: -1.0, Unit: "g"},
			wantErr:  ErrValueTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.Encode(tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestScaledCodec_RoundTrip verifies the written value reads back within
// one scale unit (the rounding error of round(v/s)).
func TestScaledCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		codec ScaledCodec
		value float64
	}{
		{
			name:  "light threshold",
			codec: ScaledCodec{Width: 4, Unit: "lux", Scale: 1e-1},
			value: 12.3,
		},
		{
			name:  "acceleration threshold",
			codec: ScaledCodec{Width: 2, Unit: "g", Scale: 1e-3},
			value: 6.25,
		},
		{
			name:  "value between scale steps",
			codec: ScaledCodec{Width: 2, Unit: "g", Scale: 1e-3},
			value: 1.23456,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.codec.Encode(ScaledQuantity{Value: tt.value, Unit: tt.codec.Unit})
			require.NoError(t, err)

			got, err := tt.codec.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.codec.Unit, got.Unit)
			assert.InDelta(t, tt.value, got.Value, tt.codec.Scale)
		})
	}
}
