package hashfile

// DataPage is a view over one 4096-byte data page: a small fixed header
// (home_hash, is_free, entry_count, free_space) followed by a packed
// sequence of records. All operations are O(entries).
type DataPage struct {
	buf []byte // exactly PageSize bytes
}

// OpenDataPage wraps an existing page's bytes without modifying them.
func OpenDataPage(buf []byte) *DataPage {
	return &DataPage{buf: buf}
}

// InitializeDataPage zeroes buf and writes a pristine empty data page:
// is_free=1, entry_count=0, free_space=dataRegionSize, and a placeholder
// home_hash equal to pageIndex (overwritten by the first insert).
func InitializeDataPage(buf []byte, pageIndex uint64) *DataPage {
	for i := range buf {
		buf[i] = 0
	}

	p := &DataPage{buf: buf}
	writeU(p.buf, dataHomeHashOffset, 8, pageIndex)
	writeU(p.buf, dataIsFreeOffset, 1, 1)
	writeU(p.buf, dataEntryCountOffset, 2, 0)
	writeU(p.buf, dataFreeSpaceOffset, 2, uint64(dataRegionSize))

	return p
}

// HomeHash returns the home index shared by every record on this page
// (meaningful only once EntryCount > 0 or the page has ever held data).
func (p *DataPage) HomeHash() uint64 {
	return readU(p.buf, dataHomeHashOffset, 8)
}

// IsFree reports whether this page has never held a record. It is sticky:
// once an insert has happened, it stays false forever, even if the page
// later becomes empty again.
func (p *DataPage) IsFree() bool {
	return readU(p.buf, dataIsFreeOffset, 1) == 1
}

// EntryCount returns the number of live records currently packed into
// this page.
func (p *DataPage) EntryCount() int {
	return int(readU(p.buf, dataEntryCountOffset, 2))
}

// FreeSpace returns the number of bytes remaining in the data region
// after the last packed record.
func (p *DataPage) FreeSpace() int {
	return int(readU(p.buf, dataFreeSpaceOffset, 2))
}

// firstFreeOffset is the page offset where the next record would be
// appended: the data region start plus everything already packed.
func (p *DataPage) firstFreeOffset() int {
	return dataOffset + (dataRegionSize - p.FreeSpace())
}

// Find scans the page's packed records for one whose key matches key,
// returning a zero-copy view and true, or (nil, false) if absent. Scanning
// stops at the first zero length byte or the end of the data region.
func (p *DataPage) Find(key []byte) (*Record, bool) {
	off := dataOffset
	end := PageSize

	for off < end {
		total := int(readU(p.buf, off, recTotalLengthWidth))
		if total == 0 {
			break
		}

		rec, err := RecordFromBuffer(p.buf[off : off+total])
		if err != nil {
			break
		}

		if string(rec.Key()) == string(key) {
			return rec, true
		}

		off += total
	}

	return nil, false
}

// Insert appends rec's bytes at the current free slot. home is the page's
// intended home index: if this is the page's first live record,
// home_hash is set to home and is_free cleared. Returns false if rec does
// not fit in the page's remaining free space; the page is left unchanged
// in that case.
func (p *DataPage) Insert(rec *Record, home uint64) bool {
	length := rec.TotalLength()
	if length > p.FreeSpace() {
		return false
	}

	off := p.firstFreeOffset()
	copy(p.buf[off:off+length], rec.bytes())

	count := p.EntryCount() + 1
	writeU(p.buf, dataEntryCountOffset, 2, uint64(count))

	if count == 1 {
		writeU(p.buf, dataHomeHashOffset, 8, home)
		writeU(p.buf, dataIsFreeOffset, 1, 0)
	}

	writeU(p.buf, dataFreeSpaceOffset, 2, uint64(p.FreeSpace()-length))

	return true
}

// Delete locates the record with key, clones it into dst, compacts the
// remaining records leftward to close the gap, and updates the page
// header. Returns (clone, true) if key was present, else (nil, false)
// with the page unchanged.
func (p *DataPage) Delete(key []byte, dst *Buffer) (*Record, bool) {
	off := dataOffset
	end := PageSize

	for off < end {
		total := int(readU(p.buf, off, recTotalLengthWidth))
		if total == 0 {
			break
		}

		rec, err := RecordFromBuffer(p.buf[off : off+total])
		if err != nil {
			break
		}

		if string(rec.Key()) != string(key) {
			off += total
			continue
		}

		clone := rec.Clone(dst)

		tailStart := off + total
		tailEnd := p.firstFreeOffset()
		n := copy(p.buf[off:], p.buf[tailStart:tailEnd])
		for i := off + n; i < tailEnd; i++ {
			p.buf[i] = 0
		}

		writeU(p.buf, dataEntryCountOffset, 2, uint64(p.EntryCount()-1))
		writeU(p.buf, dataFreeSpaceOffset, 2, uint64(p.FreeSpace()+total))

		return clone, true
	}

	return nil, false
}
