package hashfile

// HeaderPage is a view over page 0: the database's magic/version and
// total page count. It is read-only after creation except for future
// metadata fields.
type HeaderPage struct {
	buf []byte // exactly PageSize bytes
}

// CreateHeaderPage zeroes buf and writes the magic/version and pageCount.
func CreateHeaderPage(buf []byte, pageCount uint64) *HeaderPage {
	for i := range buf {
		buf[i] = 0
	}

	h := &HeaderPage{buf: buf}
	writeU(h.buf, headerPageIDOffset, 8, 0)
	writeU(h.buf, headerVersionOffset, 8, headerMagic)
	writeU(h.buf, headerPageCountOffset, 8, pageCount)

	return h
}

// OpenHeaderPage wraps an existing header page's bytes.
func OpenHeaderPage(buf []byte) *HeaderPage {
	return &HeaderPage{buf: buf}
}

// Version returns the on-disk database_version field.
func (h *HeaderPage) Version() uint64 {
	return readU(h.buf, headerVersionOffset, 8)
}

// PageCount returns the total number of pages in the file, including
// page 0.
func (h *HeaderPage) PageCount() uint64 {
	return readU(h.buf, headerPageCountOffset, 8)
}

// Valid reports whether the on-disk version matches the compiled-in
// constant. Checked on every database open.
func (h *HeaderPage) Valid() bool {
	return h.Version() == headerMagic
}
