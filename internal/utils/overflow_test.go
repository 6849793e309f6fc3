package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckMultiplyOverflow(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		wantErr bool
	}{
		{name: "zero operand", a: 0, b: 1 << 40, wantErr: false},
		{name: "small values", a: 16, b: 32, wantErr: false},
		{name: "array length times element size", a: 4096, b: 64, wantErr: false},
		{name: "overflow", a: 1 << 40, b: 1 << 40, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMultiplyOverflow(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSafeMultiply(t *testing.T) {
	got, err := SafeMultiply(8, 16)
	require.NoError(t, err)
	require.Equal(t, uint64(128), got)

	_, err = SafeMultiply(1<<40, 1<<40)
	require.Error(t, err)
}

func TestValidateBufferSize(t *testing.T) {
	require.NoError(t, ValidateBufferSize(100, 256, "decompressed size"))

	err := ValidateBufferSize(300, 256, "decompressed size")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decompressed size")
}
