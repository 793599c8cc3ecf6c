package hashfile

import (
	"fmt"
	"time"
)

// predicateResult is the tri-state outcome a probing predicate returns
// for a visited page.
type predicateResult int

const (
	notFound predicateResult = iota
	found
	abort
)

// predicate inspects a page during probing and decides whether to stop
// (found or abort) or continue to the next page in the probe ring.
type predicate func(page *DataPage, index uint64) predicateResult

// Engine is the open-addressing hash table over a [File]'s data pages.
// It implements Query, Insert, and Delete with probing, per-page
// byte-range locking, and the insert-overwrite rule. The engine is
// single-threaded per process; cross-process coordination happens
// entirely through the file's advisory locks.
type Engine struct {
	file  *File
	pool  *BufferPool
	hash  Hasher
	now   func() time.Time
}

// EngineOption configures an [Engine] beyond its required File.
type EngineOption func(*Engine)

// WithHasher overrides the default XXH64 hasher.
func WithHasher(h Hasher) EngineOption {
	return func(e *Engine) { e.hash = h }
}

// WithBufferPool overrides the default-sized buffer pool.
func WithBufferPool(p *BufferPool) EngineOption {
	return func(e *Engine) { e.pool = p }
}

// NewEngine wraps an already-open [File] with the hash table algorithm.
func NewEngine(file *File, opts ...EngineOption) *Engine {
	e := &Engine{
		file: file,
		pool: NewBufferPool(DefaultPoolSize),
		hash: DefaultHasher,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pool returns the engine's buffer pool, so callers can Release records
// returned by Query and Delete.
func (e *Engine) Pool() *BufferPool {
	return e.pool
}

// home computes the home index of key: (H(key) mod (N-1)) + 1, always in
// [1, N-1].
func (e *Engine) home(key []byte) uint64 {
	n := e.file.PageCount()
	return e.hash(key)%(n-1) + 1
}

// nextProbe advances i to the next index in the probe ring over the
// data-page range [1, N-1], wrapping from N-1 back to 1.
func (e *Engine) nextProbe(i uint64) uint64 {
	n := e.file.PageCount()
	if i == n-1 {
		return 1
	}
	return (i + 1) % n
}

// findElement walks the probe sequence starting at from, evaluating pred
// on each visited page under a shared lock, decoding each visited page
// into callerBuf (a page-sized buffer owned by the caller). On FOUND, the
// shared lock on the winning page is left held and its index returned;
// the caller must unlock it later. On ABORT or ring exhaustion, no lock
// is held and ok is false.
func (e *Engine) findElement(pred predicate, from uint64, callerBuf *Buffer) (index uint64, page *DataPage, ok bool, err error) {
	n := e.file.PageCount()
	i := from

	for visited := uint64(0); visited < n-1; visited++ {
		if err := e.file.LockPage(i, SharedLock); err != nil {
			return 0, nil, false, err
		}

		if err := e.file.ReadPage(i, callerBuf.Bytes()); err != nil {
			e.file.UnlockPage(i)
			return 0, nil, false, err
		}

		page := OpenDataPage(callerBuf.Bytes())

		switch pred(page, i) {
		case found:
			return i, page, true, nil
		case abort:
			e.file.UnlockPage(i)
			return 0, nil, false, nil
		default:
			e.file.UnlockPage(i)
			i = e.nextProbe(i)
		}
	}

	return 0, nil, false, nil
}

// keyMatch builds the key-match predicate used by Query and Delete: ABORT
// on a pristine page, FOUND if the page's home_hash matches originalHome
// and the page contains key, otherwise NOT_FOUND.
func keyMatch(key []byte, originalHome uint64) predicate {
	return func(page *DataPage, index uint64) predicateResult {
		if page.IsFree() {
			return abort
		}
		if page.HomeHash() == originalHome {
			if _, ok := page.Find(key); ok {
				return found
			}
		}
		return notFound
	}
}

// spaceEnough builds the space-enough predicate used by Insert: FOUND on
// an empty page, or on a page whose home_hash matches originalHome and
// has room for recordLen more bytes. Never ABORTs — insertion must probe
// past emptied-but-dirty pages.
func spaceEnough(originalHome uint64, recordLen int) predicate {
	return func(page *DataPage, index uint64) predicateResult {
		if page.EntryCount() == 0 {
			return found
		}
		if page.HomeHash() == originalHome && recordLen <= page.FreeSpace() {
			return found
		}
		return notFound
	}
}

// Query looks up key. foundRec is false (with no error) if no live record
// with that key exists. The caller owns the returned record's buffer and
// should call its Release method when done with it.
func (e *Engine) Query(key []byte) (rec *Record, foundRec bool, err error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	home := e.home(key)

	winnerBuf, err := e.pool.AcquirePage()
	if err != nil {
		return nil, false, err
	}
	defer e.pool.Release(winnerBuf)

	index, page, ok, err := e.findElement(keyMatch(key, home), home, winnerBuf)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	defer e.file.UnlockPage(index)

	match, _ := page.Find(key)

	recBuf, err := e.pool.AcquireRecord()
	if err != nil {
		return nil, false, err
	}
	clone := match.Clone(recBuf)

	return clone, true, nil
}

// Delete removes the live record with key, if any. It returns the
// deleted record's clone (used by Insert to carry forward first_ts) and
// whether a record was found; the caller owns the returned record's
// buffer and should call its Release method when done with it. Delete is
// idempotent: deleting an absent key reports foundRec=false with no error.
func (e *Engine) Delete(key []byte) (deleted *Record, foundRec bool, err error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	home := e.home(key)

	findBuf, err := e.pool.AcquirePage()
	if err != nil {
		return nil, false, err
	}
	defer e.pool.Release(findBuf)

	index, _, ok, err := e.findElement(keyMatch(key, home), home, findBuf)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	// Release the shared lock and upgrade to exclusive before mutating,
	// per the engine's delete protocol. The brief gap is acceptable
	// because delete is idempotent under re-check.
	if err := e.file.UnlockPage(index); err != nil {
		return nil, false, err
	}

	if err := e.file.LockPage(index, ExclusiveLock); err != nil {
		return nil, false, err
	}
	defer e.file.UnlockPage(index)

	pageBuf, err := e.pool.AcquirePage()
	if err != nil {
		return nil, false, err
	}
	defer e.pool.Release(pageBuf)

	if err := e.file.ReadPage(index, pageBuf.Bytes()); err != nil {
		return nil, false, err
	}
	page := OpenDataPage(pageBuf.Bytes())

	recBuf, err := e.pool.AcquireRecord()
	if err != nil {
		return nil, false, err
	}

	clone, ok := page.Delete(key, recBuf)
	if !ok {
		// A concurrent deleter won the race; report not-found.
		e.pool.Release(recBuf)
		return nil, false, nil
	}

	if err := e.file.WritePage(index, pageBuf.Bytes()); err != nil {
		return nil, false, err
	}

	return clone, true, nil
}

// Insert stores value under key, overwriting any existing record while
// preserving its creation timestamp. It implements the delete-then-insert
// sequence: find a landing page by the space-enough predicate, delete any
// stale copy of the key (which may live on a different page), then
// exclusively insert the new record into the landing page.
func (e *Engine) Insert(key, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	home := e.home(key)

	recBuf, err := e.pool.AcquireRecord()
	if err != nil {
		return err
	}
	defer e.pool.Release(recBuf)

	rec, err := NewRecord(recBuf, key, value, e.now())
	if err != nil {
		return err
	}
	recordLen := rec.TotalLength()

	landingBuf, err := e.pool.AcquirePage()
	if err != nil {
		return err
	}

	landingIndex, _, ok, err := e.findElement(spaceEnough(home, recordLen), home, landingBuf)
	e.pool.Release(landingBuf)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no page has room for key", ErrIO)
	}

	// Step 1: release the shared lock findElement left held.
	if err := e.file.UnlockPage(landingIndex); err != nil {
		return err
	}

	// Step 2: delete any stale copy of key, which may be on a different
	// page than landingIndex. If found, carry its first_ts forward.
	prior, hadPrior, err := e.Delete(key)
	if err != nil {
		return err
	}
	if hadPrior {
		rec.SetFirstTimestamp(prior.FirstTS())
		prior.Release(e.pool)
	}

	// Step 3: acquire exclusive on the landing page, re-read (it may have
	// changed since the space-enough probe), and insert.
	if err := e.file.LockPage(landingIndex, ExclusiveLock); err != nil {
		return err
	}
	defer e.file.UnlockPage(landingIndex)

	pageBuf, err := e.pool.AcquirePage()
	if err != nil {
		return err
	}
	defer e.pool.Release(pageBuf)

	if err := e.file.ReadPage(landingIndex, pageBuf.Bytes()); err != nil {
		return err
	}
	page := OpenDataPage(pageBuf.Bytes())

	if !page.Insert(rec, home) {
		return fmt.Errorf("%w: landing page %d has no room after re-read", ErrIO, landingIndex)
	}

	return e.file.WritePage(landingIndex, pageBuf.Bytes())
}

func validateKey(key []byte) error {
	if len(key) == 0 || len(key) > maxKeyLen {
		return fmt.Errorf("%w: key length %d out of range [1,%d]", ErrBadArgument, len(key), maxKeyLen)
	}
	return nil
}

// Close closes the underlying file, releasing the session lock on page 0.
func (e *Engine) Close() error {
	return e.file.Close()
}
