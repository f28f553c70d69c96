package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat64Pointer(t *testing.T) {
	for _, val := range []float64{3.14, 0, -42.5} {
		ptr := Float64Pointer(val)
		require.NotNil(t, ptr)
		require.Equal(t, val, *ptr)
	}
}

func TestDeref(t *testing.T) {
	require.Equal(t, 7, Deref(IntPointer(7), 1))
	require.Equal(t, 1, Deref[int](nil, 1))
	require.Equal(t, "x", Deref(StringPointer("x"), ""))
	require.Equal(t, "def", Deref[string](nil, "def"))
}
