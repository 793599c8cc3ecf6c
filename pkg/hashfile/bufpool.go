package hashfile

import "sync"

// DefaultPoolSize is the default number of page-sized and record-sized
// buffers carried by a [BufferPool]. A request/response in the engine
// holds at most two page buffers and one record buffer simultaneously,
// so this is comfortably sufficient.
const DefaultPoolSize = 4

// Buffer is a pool-owned byte slice handed out by [BufferPool.AcquirePage]
// or [BufferPool.AcquireRecord]. Callers must return it with
// [BufferPool.Release] when done. Buffers are not zeroed on release.
type Buffer struct {
	bytes []byte
	slot  int
	page  bool
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte { return b.bytes }

// BufferPool is a process-local, fixed-capacity pool of page-sized
// (4096-byte) and record-sized (maxRecordLen-byte) buffers. It hands out
// buffers by reference and rejects acquisition once exhausted rather than
// allocating on the hot path.
type BufferPool struct {
	mu sync.Mutex

	pageBufs  [][]byte
	pageUsed  []bool
	recBufs   [][]byte
	recUsed   []bool
}

// NewBufferPool builds a pool with size page-sized buffers and size
// record-sized buffers. A size below 1 falls back to [DefaultPoolSize].
func NewBufferPool(size int) *BufferPool {
	if size < 1 {
		size = DefaultPoolSize
	}

	p := &BufferPool{
		pageBufs: make([][]byte, size),
		pageUsed: make([]bool, size),
		recBufs:  make([][]byte, size),
		recUsed:  make([]bool, size),
	}

	for i := range p.pageBufs {
		p.pageBufs[i] = make([]byte, PageSize)
		p.recBufs[i] = make([]byte, maxRecordLen)
	}

	return p
}

// AcquirePage returns a free page-sized buffer, or ErrPoolExhausted if
// every slot is currently checked out.
func (p *BufferPool) AcquirePage() (*Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, used := range p.pageUsed {
		if !used {
			p.pageUsed[i] = true
			return &Buffer{bytes: p.pageBufs[i], slot: i, page: true}, nil
		}
	}

	return nil, ErrPoolExhausted
}

// AcquireRecord returns a free record-sized buffer, or ErrPoolExhausted if
// every slot is currently checked out.
func (p *BufferPool) AcquireRecord() (*Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, used := range p.recUsed {
		if !used {
			p.recUsed[i] = true
			return &Buffer{bytes: p.recBufs[i], slot: i, page: false}, nil
		}
	}

	return nil, ErrPoolExhausted
}

// Release returns b to the pool. Releasing an already-released buffer, or
// one not owned by this pool, is a caller bug and panics.
func (p *BufferPool) Release(b *Buffer) {
	if b == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if b.page {
		if !p.pageUsed[b.slot] {
			panic("hashfile: release of unacquired page buffer")
		}
		p.pageUsed[b.slot] = false
		return
	}

	if !p.recUsed[b.slot] {
		panic("hashfile: release of unacquired record buffer")
	}
	p.recUsed[b.slot] = false
}
