package hashfile

import (
	"fmt"
	"io"
	"os"

	"github.com/hashkv/store/internal/fs"
)

// File is the open database file: an os.File plus the page count read
// from its header. It holds a shared lock on page 0 for its entire
// session, released on Close.
type File struct {
	f         *os.File
	pageCount uint64
}

// pageCountForElements applies the sizing formula from the file layer
// design: N = 2*ceil((requestedElements*averageRecordSize - PageSize + 1) / PageSize) + 1.
// The ceiling is raised to at least 1, so every file has a header page
// and at least two data pages.
func pageCountForElements(requestedElements uint64) uint64 {
	numerator := int64(requestedElements)*averageRecordSize - PageSize + 1
	if numerator < 0 {
		numerator = 0
	}

	quotient := (numerator + PageSize - 1) / PageSize
	if quotient < 1 {
		quotient = 1
	}
	return uint64(2*quotient + 1)
}

// CreateFile creates a new database file sized for roughly
// requestedElements records. Fails with ErrCannotOpen if the file
// already exists. The header page and every data page are laid out in
// memory first, then written out through [fs.FS.WriteFileAtomic] (temp
// file + rename on the same filesystem), so a crash mid-create never
// leaves a half-written file visible at path.
func CreateFile(path string, requestedElements uint64) (*File, error) {
	if requestedElements == 0 {
		return nil, fmt.Errorf("%w: requested element count must be positive", ErrBadArgument)
	}

	filesystem := fs.NewReal()

	exists, err := filesystem.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotOpen, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already exists", ErrCannotOpen, path)
	}

	pageCount := pageCountForElements(requestedElements)
	image := buildInitialImage(pageCount)

	if err := filesystem.WriteFileAtomic(path, image, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return OpenFile(path)
}

// buildInitialImage lays out the header page followed by pageCount-1
// pristine data pages, back to back, as the full initial file contents.
func buildInitialImage(pageCount uint64) []byte {
	image := make([]byte, PageSize*pageCount)

	CreateHeaderPage(image[:PageSize], pageCount)

	for i := uint64(1); i < pageCount; i++ {
		InitializeDataPage(image[i*PageSize:(i+1)*PageSize], i)
	}

	return image
}

// OpenFile opens an existing database file read/write, acquires a shared
// lock on page 0 for the session, reads the header, and verifies
// database_version.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCannotOpen, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrCannotOpen, err)
	}

	if err := lockPage(f.Fd(), 0, SharedLock); err != nil {
		f.Close()
		return nil, err
	}

	headerBuf := make([]byte, PageSize)
	if err := readPageAt(f, 0, headerBuf); err != nil {
		unlockPage(f.Fd(), 0)
		f.Close()
		return nil, err
	}

	header := OpenHeaderPage(headerBuf)
	if !header.Valid() {
		unlockPage(f.Fd(), 0)
		f.Close()
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadVersion, header.Version(), headerMagic)
	}

	return &File{f: f, pageCount: header.PageCount()}, nil
}

// PageCount returns the total number of pages in the file, including
// page 0.
func (file *File) PageCount() uint64 {
	return file.pageCount
}

// ReadPage seeks to page index and reads exactly PageSize bytes into buf.
// A short read is a fatal ErrIO.
func (file *File) ReadPage(index uint64, buf []byte) error {
	return readPageAt(file.f, index, buf)
}

func readPageAt(f *os.File, index uint64, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("%w: page buffer must be exactly %d bytes", ErrBadArgument, PageSize)
	}

	n, err := f.ReadAt(buf, int64(index)*PageSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: read page %d: %v", ErrIO, index, err)
	}
	if n != PageSize {
		return fmt.Errorf("%w: short read on page %d: got %d bytes", ErrIO, index, n)
	}

	return nil
}

// WritePage writes buf (exactly PageSize bytes) to page index. A short
// write is a fatal ErrIO.
func (file *File) WritePage(index uint64, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("%w: page buffer must be exactly %d bytes", ErrBadArgument, PageSize)
	}

	n, err := file.f.WriteAt(buf, int64(index)*PageSize)
	if err != nil {
		return fmt.Errorf("%w: write page %d: %v", ErrIO, index, err)
	}
	if n != PageSize {
		return fmt.Errorf("%w: short write on page %d: wrote %d bytes", ErrIO, index, n)
	}

	return nil
}

// LockPage acquires a blocking advisory byte-range lock over page
// index's bytes, in the given kind.
func (file *File) LockPage(index uint64, kind LockKind) error {
	return lockPage(file.f.Fd(), index, kind)
}

// UnlockPage releases this process's lock on page index's byte range.
func (file *File) UnlockPage(index uint64) error {
	return unlockPage(file.f.Fd(), index)
}

// Close releases the page-0 session lock and closes the file descriptor.
func (file *File) Close() error {
	unlockErr := unlockPage(file.f.Fd(), 0)
	closeErr := file.f.Close()

	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
