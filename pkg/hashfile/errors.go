package hashfile

import "errors"

// Sentinel errors for the error kinds distinguished at every engine entry
// point. Not-found is success with a false "found" flag, not one of these.
var (
	// ErrCannotOpen means the file is missing, has the wrong permissions,
	// or already exists where a create was requested.
	ErrCannotOpen = errors.New("hashfile: cannot open database file")

	// ErrBadVersion means the header page's database_version field does
	// not match the compiled-in constant.
	ErrBadVersion = errors.New("hashfile: bad database version")

	// ErrIO covers short reads, short writes, and seek failures.
	ErrIO = errors.New("hashfile: i/o error")

	// ErrLock means lock acquisition was interrupted or otherwise failed.
	ErrLock = errors.New("hashfile: lock error")

	// ErrPoolExhausted means the buffer pool had no free buffer to hand out.
	ErrPoolExhausted = errors.New("hashfile: buffer pool exhausted")

	// ErrBadArgument covers an oversized record or an out-of-range or
	// empty key/value.
	ErrBadArgument = errors.New("hashfile: bad argument")
)
