// Package hashfile implements the on-disk paged hash table: a
// single-file key/value store using open addressing with linear
// probing over fixed-size 4096-byte pages, coordinated across
// processes with advisory byte-range locks.
package hashfile

const (
	// PageSize is the fixed size of every page, including the header page.
	PageSize = 4096

	// headerMagic identifies a valid database file. It is checked against
	// the on-disk database_version field on every open.
	headerMagic uint64 = 3834052067

	// Header page field offsets.
	headerPageIDOffset      = 0
	headerVersionOffset     = 8
	headerPageCountOffset   = 16
	headerReservedOffset    = 24
	headerReservedSize      = PageSize - headerReservedOffset

	// Data page field offsets.
	dataHomeHashOffset   = 0
	dataIsFreeOffset     = 8
	dataEntryCountOffset = 9
	dataFreeSpaceOffset  = 11
	// dataOffset is where the packed record region begins.
	dataOffset = 13
	// dataRegionSize is the number of bytes available for packed records.
	dataRegionSize = PageSize - dataOffset

	// Record field widths.
	recTotalLengthWidth = 2
	recKeyLengthWidth   = 1
	recValueLengthWidth = 1
	recTimestampWidth   = 8

	// Key/value bounds.
	maxKeyLen   = 100
	maxValueLen = 100

	// maxRecordLen is the largest a single record can be:
	// 2 (total_length) + 1 (key_length) + 101 (key+NUL) + 1 (value_length) +
	// 101 (value+NUL) + 32 (four 8-byte timestamp fields) = 238.
	maxRecordLen = recTotalLengthWidth + recKeyLengthWidth + maxKeyLen + 1 +
		recValueLengthWidth + maxValueLen + 1 + 4*recTimestampWidth

	// averageRecordSize is used by create_file's page-count sizing formula.
	averageRecordSize = 210
)
