package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeLayout_Scenario2(t *testing.T) {
	sdna := scenarioS2()

	nodeLayout, err := ComputeLayout(sdna, 0, 64, nil)
	require.NoError(t, err)
	require.Equal(t, 8, nodeLayout.Size)
	f, ok := nodeLayout.Field("next")
	require.True(t, ok)
	require.Equal(t, KindPointer, f.Kind)
	require.Equal(t, 1, f.PointerDepth)
	require.Equal(t, 0, f.Offset)
	require.Equal(t, 8, f.Size)

	ownerLayout, err := ComputeLayout(sdna, 1, 64, nil)
	require.NoError(t, err)
	require.Equal(t, 16, ownerLayout.Size)
	lb, ok := ownerLayout.Field("lb")
	require.True(t, ok)
	require.Equal(t, KindValue, lb.Kind)
	require.Equal(t, 16, lb.Size)
}

func TestComputeLayout_UnknownStructIndex(t *testing.T) {
	sdna := scenarioS2()
	_, err := ComputeLayout(sdna, 99, 64, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UnknownStructIndex")
}

func TestComputeLayout_MonotoneOffsetsAndAlignment(t *testing.T) {
	// A struct with char, then int: offset of int must be rounded up to
	// its own alignment, and must not overlap the char field.
	names := []string{"c", "n"}
	types := []string{"char", "int", "Mix"}
	sizes := []uint16{1, 4, 8}
	structs := []testStruct{
		{typeIndex: 2, fields: []testField{
			{typeIndex: 0, nameIndex: 0},
			{typeIndex: 1, nameIndex: 1},
		}},
	}
	payload := buildDNA1(names, types, sizes, structs)
	sdna, err := DecodeSDNA(payload)
	require.NoError(t, err)

	layout, err := ComputeLayout(sdna, 0, 64, nil)
	require.NoError(t, err)

	cField, _ := layout.Field("c")
	nField, _ := layout.Field("n")
	require.Equal(t, 0, cField.Offset)
	require.Equal(t, 1, cField.Size)
	require.GreaterOrEqual(t, nField.Offset, cField.Offset+cField.Size)
	require.Zero(t, nField.Offset%nField.Alignment)
	require.Equal(t, 8, layout.Size)
}

func TestComputeLayout_DuplicateBaseNameFirstWins(t *testing.T) {
	// Two fields sharing the base name "x" (legal per spec §4.5/§9(b)):
	// StructLayout.Field must resolve to the first occurrence; the second
	// remains reachable only by ordinal index.
	names := []string{"x"}
	types := []string{"int", "Mix"}
	sizes := []uint16{4, 8}
	structs := []testStruct{
		{typeIndex: 1, fields: []testField{
			{typeIndex: 0, nameIndex: 0},
			{typeIndex: 0, nameIndex: 0},
		}},
	}
	payload := buildDNA1(names, types, sizes, structs)
	sdna, err := DecodeSDNA(payload)
	require.NoError(t, err)

	layout, err := ComputeLayout(sdna, 0, 64, nil)
	require.NoError(t, err)
	require.Len(t, layout.Fields, 2)

	f, ok := layout.Field("x")
	require.True(t, ok)
	require.Equal(t, 0, f.Offset) // first occurrence

	require.Equal(t, 4, layout.Fields[1].Offset) // second occurrence, ordinal-only
}
