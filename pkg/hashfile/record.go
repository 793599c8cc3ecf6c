package hashfile

import (
	"fmt"
	"time"
)

// Timestamp is the on-disk seconds+nanoseconds pair used for both the
// first (creation) and last (modification) timestamps of a record.
type Timestamp struct {
	Seconds int64
	Nanos   int64
}

// TimestampFromTime truncates t to UTC seconds+nanoseconds.
func TimestampFromTime(t time.Time) Timestamp {
	u := t.UTC()
	return Timestamp{Seconds: u.Unix(), Nanos: int64(u.Nanosecond())}
}

// Time reconstructs a [time.Time] from the timestamp, UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, ts.Nanos).UTC()
}

// Format renders the timestamp as "YYYY-MM-DD HH:MM:SS.mmm" UTC, truncating
// nanoseconds to milliseconds as spec'd for the `ts` CLI command.
func (ts Timestamp) Format() string {
	return ts.Time().Format("2006-01-02 15:04:05.000")
}

// Record is a view over a packed record's bytes. It can overlay an
// existing page's bytes in place (zero-copy, via [RecordFromBuffer]) or
// own a freshly acquired buffer (via [NewRecord] or [Record.Clone]).
// Callers must clone a record before the underlying page bytes might be
// unlocked or reused — a view is only valid while its backing buffer is
// stable.
type Record struct {
	// full is the entire writable region this record is allowed to use.
	// buf is the currently-live prefix of full holding the encoded record.
	full []byte
	buf  []byte

	// owner is set when this record's buffer came from a [BufferPool], so
	// [Record.Release] can return it.
	owner *Buffer
}

// Release returns the record's backing buffer to pool, if it owns one.
// Records overlaying a page's bytes in place (from [RecordFromBuffer])
// own nothing and Release is a no-op for them.
func (r *Record) Release(pool *BufferPool) {
	if r.owner != nil {
		pool.Release(r.owner)
		r.owner = nil
	}
}

// RecordFromBuffer overlays a view on an existing on-disk record. buf must
// be at least as long as the record's embedded total_length. The view is
// read-only with respect to growth: [Record.UpdateValue] fails if the
// grown record would not fit within buf.
func RecordFromBuffer(buf []byte) (*Record, error) {
	if len(buf) < recTotalLengthWidth {
		return nil, fmt.Errorf("%w: record buffer too short", ErrBadArgument)
	}

	total := int(readU(buf, 0, recTotalLengthWidth))
	if total == 0 || total > len(buf) {
		return nil, fmt.Errorf("%w: record total_length %d out of range", ErrBadArgument, total)
	}

	return &Record{full: buf, buf: buf[:total]}, nil
}

// NewRecord formats a fresh record into dst: zeroes the buffer, encodes
// key and value, and sets both timestamps to now. Keys and values must be
// 1-100 bytes.
func NewRecord(dst *Buffer, key, value []byte, now time.Time) (*Record, error) {
	if err := validateKeyValue(key, value); err != nil {
		return nil, err
	}

	full := dst.bytes
	for i := range full {
		full[i] = 0
	}

	ts := TimestampFromTime(now)
	total, err := encodeRecord(full, key, value, ts, ts)
	if err != nil {
		return nil, err
	}

	return &Record{full: full, buf: full[:total], owner: dst}, nil
}

func validateKeyValue(key, value []byte) error {
	if len(key) == 0 || len(key) > maxKeyLen {
		return fmt.Errorf("%w: key length %d out of range [1,%d]", ErrBadArgument, len(key), maxKeyLen)
	}
	if len(value) == 0 || len(value) > maxValueLen {
		return fmt.Errorf("%w: value length %d out of range [1,%d]", ErrBadArgument, len(value), maxValueLen)
	}
	return nil
}

// encodeRecord writes a complete record into buf starting at offset 0 and
// returns its total length. buf must be zeroed. Fails if the encoded
// record would not fit in buf.
func encodeRecord(buf []byte, key, value []byte, first, last Timestamp) (int, error) {
	total := recTotalLengthWidth + recKeyLengthWidth + len(key) + 1 +
		recValueLengthWidth + len(value) + 1 + 4*recTimestampWidth
	if total > len(buf) {
		return 0, fmt.Errorf("%w: record of %d bytes does not fit in %d-byte buffer", ErrBadArgument, total, len(buf))
	}

	off := recTotalLengthWidth

	writeU(buf, off, recKeyLengthWidth, uint64(len(key)))
	off += recKeyLengthWidth
	copy(buf[off:], key)
	off += len(key) + 1 // +1 for the NUL terminator, already zero

	writeU(buf, off, recValueLengthWidth, uint64(len(value)))
	off += recValueLengthWidth
	copy(buf[off:], value)
	off += len(value) + 1

	writeU(buf, off, recTimestampWidth, uint64(first.Seconds))
	off += recTimestampWidth
	writeU(buf, off, recTimestampWidth, uint64(first.Nanos))
	off += recTimestampWidth
	writeU(buf, off, recTimestampWidth, uint64(last.Seconds))
	off += recTimestampWidth
	writeU(buf, off, recTimestampWidth, uint64(last.Nanos))
	off += recTimestampWidth

	writeU(buf, 0, recTotalLengthWidth, uint64(off))

	return off, nil
}

// TotalLength returns the record's total byte length.
func (r *Record) TotalLength() int {
	return int(readU(r.buf, 0, recTotalLengthWidth))
}

func (r *Record) keyLength() int {
	return int(readU(r.buf, recTotalLengthWidth, recKeyLengthWidth))
}

// Key returns the record's key bytes, excluding the NUL terminator.
func (r *Record) Key() []byte {
	off := recTotalLengthWidth + recKeyLengthWidth
	n := r.keyLength()
	return r.buf[off : off+n]
}

func (r *Record) valueLengthOffset() int {
	return recTotalLengthWidth + recKeyLengthWidth + r.keyLength() + 1
}

func (r *Record) valueLength() int {
	return int(readU(r.buf, r.valueLengthOffset(), recValueLengthWidth))
}

// Value returns the record's value bytes, excluding the NUL terminator.
func (r *Record) Value() []byte {
	off := r.valueLengthOffset() + recValueLengthWidth
	n := r.valueLength()
	return r.buf[off : off+n]
}

func (r *Record) timestampOffset() int {
	return r.valueLengthOffset() + recValueLengthWidth + r.valueLength() + 1
}

// FirstTS returns the record's creation timestamp.
func (r *Record) FirstTS() Timestamp {
	off := r.timestampOffset()
	return Timestamp{
		Seconds: int64(readU(r.buf, off, recTimestampWidth)),
		Nanos:   int64(readU(r.buf, off+recTimestampWidth, recTimestampWidth)),
	}
}

// LastTS returns the record's last-modification timestamp.
func (r *Record) LastTS() Timestamp {
	off := r.timestampOffset() + 2*recTimestampWidth
	return Timestamp{
		Seconds: int64(readU(r.buf, off, recTimestampWidth)),
		Nanos:   int64(readU(r.buf, off+recTimestampWidth, recTimestampWidth)),
	}
}

// SetFirstTimestamp overwrites the record's first_* fields. Used by
// insert-overwrite to carry a prior record's creation time forward.
func (r *Record) SetFirstTimestamp(ts Timestamp) {
	off := r.timestampOffset()
	writeU(r.buf, off, recTimestampWidth, uint64(ts.Seconds))
	writeU(r.buf, off+recTimestampWidth, recTimestampWidth, uint64(ts.Nanos))
}

// UpdateValue overwrites the record's value in place, relocating the
// timestamp region and recomputing total_length, and refreshes last_*.
// It does not touch first_*. Fails with ErrBadArgument if the grown
// record would not fit within the record's backing buffer.
func (r *Record) UpdateValue(value []byte, now time.Time) error {
	if len(value) == 0 || len(value) > maxValueLen {
		return fmt.Errorf("%w: value length %d out of range [1,%d]", ErrBadArgument, len(value), maxValueLen)
	}

	key := append([]byte(nil), r.Key()...)
	first := r.FirstTS()
	last := TimestampFromTime(now)

	for i := range r.full {
		r.full[i] = 0
	}

	total, err := encodeRecord(r.full, key, value, first, last)
	if err != nil {
		return err
	}
	r.buf = r.full[:total]

	return nil
}

// Clone copies the record into a freshly acquired buffer, returning an
// independent view. Use this to carry a record across a lock release,
// since page bytes are not guaranteed to survive unlock.
func (r *Record) Clone(dst *Buffer) *Record {
	n := copy(dst.bytes, r.buf)
	return &Record{full: dst.bytes, buf: dst.bytes[:n], owner: dst}
}

// bytes returns the raw packed bytes of the record, for writing into a
// page's data region.
func (r *Record) bytes() []byte {
	return r.buf
}
