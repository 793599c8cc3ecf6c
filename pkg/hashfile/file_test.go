package hashfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateFile_LaysOutHeaderAndDataPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	f, err := CreateFile(path, 10)
	require.NoError(t, err)
	defer f.Close()

	require.GreaterOrEqual(t, f.PageCount(), uint64(3))

	buf := make([]byte, PageSize)
	for i := uint64(1); i < f.PageCount(); i++ {
		require.NoError(t, f.ReadPage(i, buf))
		page := OpenDataPage(buf)
		require.True(t, page.IsFree())
		require.Equal(t, 0, page.EntryCount())
	}
}

func TestCreateFile_FailsIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	f, err := CreateFile(path, 10)
	require.NoError(t, err)
	f.Close()

	_, err = CreateFile(path, 10)
	require.ErrorIs(t, err, ErrCannotOpen)
}

func TestCreateFile_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db")

	f, err := CreateFile(path, 10)
	require.NoError(t, err)
	defer f.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "db", entries[0].Name())
}

func TestOpenFile_RejectsBadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	f, err := CreateFile(path, 10)
	require.NoError(t, err)
	f.Close()

	// Corrupt the version field on disk through a second File handle.
	raw, err := OpenFile(path)
	require.NoError(t, err)
	buf := make([]byte, PageSize)
	require.NoError(t, raw.ReadPage(0, buf))
	writeU(buf, headerVersionOffset, 8, headerMagic+1)
	require.NoError(t, raw.WritePage(0, buf))
	raw.Close()

	_, err = OpenFile(path)
	require.ErrorIs(t, err, ErrBadVersion)
}

func TestOpenFile_MissingFileFails(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrCannotOpen)
}

func TestFile_ReadWritePageRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	f, err := CreateFile(path, 10)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	require.NoError(t, f.WritePage(1, buf))

	got := make([]byte, PageSize)
	require.NoError(t, f.ReadPage(1, got))
	require.Equal(t, buf, got)
}

func TestPageCountForElements_MatchesSizingFormula(t *testing.T) {
	// N = 2*ceil((n*210 - 4096 + 1) / 4096) + 1, with the ceiling at least 1
	require.Equal(t, uint64(3), pageCountForElements(1))
	got := pageCountForElements(10)
	require.GreaterOrEqual(t, got, uint64(3))
}
