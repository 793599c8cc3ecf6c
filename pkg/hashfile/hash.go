package hashfile

import "github.com/OneOfOne/xxhash"

// Hasher computes a stable 64-bit keyed hash of a key. The engine uses it
// to compute a record's home index; any stable 64-bit hash works, but
// changing it invalidates every existing database file since home indexes
// are derived from it.
type Hasher func(key []byte) uint64

// DefaultHasher is XXH64 with seed 0, the reference hash this format is
// built around.
func DefaultHasher(key []byte) uint64 {
	return xxhash.Checksum64(key)
}
