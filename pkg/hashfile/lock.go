package hashfile

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// LockKind selects the advisory lock mode for a page byte range.
type LockKind int16

const (
	SharedLock    LockKind = unix.F_RDLCK
	ExclusiveLock LockKind = unix.F_WRLCK
)

// maxEINTRRetries bounds the retry loop against a pathological signal
// storm; in practice a single retry clears EINTR.
const maxEINTRRetries = 10000

// lockPage blocks until it acquires an advisory byte-range lock over
// page index's bytes [index*PageSize, (index+1)*PageSize) on fd, in the
// given kind. Blocking acquisition is required: the engine's probing
// serializes against concurrent writers by blocking on this call.
func lockPage(fd uintptr, index uint64, kind LockKind) error {
	lk := &unix.Flock_t{
		Type:   int16(kind),
		Whence: 0, // SEEK_SET
		Start:  int64(index) * PageSize,
		Len:    PageSize,
	}

	for attempt := 0; attempt < maxEINTRRetries; attempt++ {
		err := unix.FcntlFlock(fd, unix.F_SETLKW, lk)
		if err == nil {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		return fmt.Errorf("%w: lock page %d: %v", ErrLock, index, err)
	}

	return fmt.Errorf("%w: lock page %d: interrupted too many times", ErrLock, index)
}

// unlockPage releases whatever lock this process holds on page index's
// byte range.
func unlockPage(fd uintptr, index uint64) error {
	lk := &unix.Flock_t{
		Type:   unix.F_UNLCK,
		Whence: 0,
		Start:  int64(index) * PageSize,
		Len:    PageSize,
	}

	for attempt := 0; attempt < maxEINTRRetries; attempt++ {
		err := unix.FcntlFlock(fd, unix.F_SETLKW, lk)
		if err == nil {
			return nil
		}
		if err == unix.EINTR {
			continue
		}
		return fmt.Errorf("%w: unlock page %d: %v", ErrLock, index, err)
	}

	return fmt.Errorf("%w: unlock page %d: interrupted too many times", ErrLock, index)
}
