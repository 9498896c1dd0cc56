// Package cipher implements the keyed, length-preserving byte permutation that
// sits under every revtext alphabet.
//
// Byte i of the input maps to fwd[in[i] ^ pad(i)] where fwd is a key-derived
// permutation of 0..255 and pad(i) is a key-derived positional byte. Both
// steps are bijections on a single byte, so the whole map is a bijection on
// sequences of equal length.
package cipher

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const golden = 0x9E3779B97F4A7C15

// Table holds the forward and inverse permutations for one key.
// A Table is immutable after New and safe for concurrent use.
type Table struct {
	seed uint64
	fwd  [256]byte
	inv  [256]byte
}

func New(key []byte) *Table {
	t := &Table{seed: xxhash.Sum64(key)}
	for i := range t.fwd {
		t.fwd[i] = byte(i)
	}

	// Fisher-Yates driven by splitmix64.
	state := t.seed
	for i := len(t.fwd) - 1; i > 0; i-- {
		state += golden
		j := int(mix(state) % uint64(i+1))
		t.fwd[i], t.fwd[j] = t.fwd[j], t.fwd[i]
	}
	for i, b := range t.fwd {
		t.inv[b] = byte(i)
	}
	return t
}

// Seed is the 64-bit key digest the table was built from.
func (t *Table) Seed() uint64 { return t.seed }

// Forward writes the permuted form of src into dst. len(dst) must be >= len(src).
// dst and src may be the same slice.
func (t *Table) Forward(dst, src []byte) {
	_ = dst[:len(src)]
	for i, b := range src {
		dst[i] = t.fwd[b^t.pad(i)]
	}
}

// Inverse undoes Forward. len(dst) must be >= len(src).
func (t *Table) Inverse(dst, src []byte) {
	_ = dst[:len(src)]
	for i, b := range src {
		dst[i] = t.inv[b] ^ t.pad(i)
	}
}

func (t *Table) pad(i int) byte {
	return byte(mix(t.seed + uint64(i)*golden))
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Fingerprint digests parts in order. Each part is length-prefixed so
// ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...[]byte) uint64 {
	d := xxhash.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = d.Write(n[:])
		_, _ = d.Write(p)
	}
	return d.Sum64()
}
