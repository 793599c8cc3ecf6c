package hashfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderPage_CreateAndOpen(t *testing.T) {
	buf := make([]byte, PageSize)
	CreateHeaderPage(buf, 7)

	h := OpenHeaderPage(buf)
	require.True(t, h.Valid())
	require.Equal(t, uint64(7), h.PageCount())
	require.Equal(t, headerMagic, h.Version())
}

func TestHeaderPage_InvalidVersionDetected(t *testing.T) {
	buf := make([]byte, PageSize)
	CreateHeaderPage(buf, 7)
	writeU(buf, headerVersionOffset, 8, headerMagic+1)

	h := OpenHeaderPage(buf)
	require.False(t, h.Valid())
}

func TestHeaderPage_ReservedRegionIsZeroed(t *testing.T) {
	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	CreateHeaderPage(buf, 3)

	for i := headerReservedOffset; i < PageSize; i++ {
		require.Zerof(t, buf[i], "reserved byte %d not zeroed", i)
	}
}
