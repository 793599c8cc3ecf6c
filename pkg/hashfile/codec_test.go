package hashfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteU_RoundTrips(t *testing.T) {
	cases := []struct {
		width int
		value uint64
	}{
		{1, 0xAB},
		{2, 0xBEEF},
		{4, 0xDEADBEEF},
		{8, 0x0102030405060708},
	}

	for _, c := range cases {
		buf := make([]byte, 16)
		writeU(buf, 3, c.width, c.value)
		got := readU(buf, 3, c.width)
		require.Equal(t, c.value, got, "width=%d", c.width)
	}
}

func TestWriteU_IsLittleEndian(t *testing.T) {
	buf := make([]byte, 8)
	writeU(buf, 0, 4, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf[:4])
}

func TestWriteU_TruncatesWidth(t *testing.T) {
	buf := make([]byte, 8)
	writeU(buf, 0, 1, 0x1234)
	require.Equal(t, byte(0x34), buf[0])
}
