package hashfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultHasher_IsDeterministic(t *testing.T) {
	a := DefaultHasher([]byte("hello"))
	b := DefaultHasher([]byte("hello"))
	require.Equal(t, a, b)
}

func TestDefaultHasher_DifferentKeysUsuallyDiffer(t *testing.T) {
	a := DefaultHasher([]byte("hello"))
	b := DefaultHasher([]byte("world"))
	require.NotEqual(t, a, b)
}
