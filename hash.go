package vraster

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// SceneHasher is the capability small-surface a PackedScene exposes so
// hash.go doesn't need to import the scene package directly (avoiding a
// dependency cycle, since scene.PackedScene is built from vraster types).
type SceneHasher interface {
	HashFields() [][]byte
}

// Hash64 walks fields (in a caller-fixed order) through a single
// hash/fnv FNV-1a accumulator, the same primitive the rest of this
// module's hashing uses. Two structurally equal inputs hash identically
// regardless of how they were constructed.
func Hash64(fields [][]byte) uint64 {
	h := fnv.New64a()
	for _, f := range fields {
		_, _ = h.Write(f)
	}
	return h.Sum64()
}

// Hash64Scene hashes anything exposing HashFields, e.g. scene.PackedScene.
func Hash64Scene(s SceneHasher) uint64 {
	return Hash64(s.HashFields())
}

// PutU32 appends u as little-endian bytes, a small helper the scene
// package's HashFields implementation uses to build its field list
// without reaching for encoding/gob or similar heavier machinery.
func PutU32(dst []byte, u uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u)
	return append(dst, b[:]...)
}

// PutF32 appends f's IEEE-754 bit pattern as little-endian bytes.
func PutF32(dst []byte, f float32) []byte {
	return PutU32(dst, math.Float32bits(f))
}
