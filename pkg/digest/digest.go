// Package digest computes the collision-detecting SHA-1 digests that
// underlie every SWHID. It wraps github.com/pjbgf/sha1cd, which is
// behaviorally identical to crypto/sha1 except that it raises an error
// when fed one of the known collision-attack prefixes.
package digest

import (
	"encoding/hex"
	"errors"
	"hash"

	"github.com/pjbgf/sha1cd"
)

// Size is the length in bytes of a Digest.
const Size = 20

// Digest is a fixed 20-byte SHA-1dc digest.
type Digest [Size]byte

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	return d[:]
}

// Hex returns the lowercase hex encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// FromHex decodes a 40-character lowercase hex string into a Digest.
func FromHex(s string) (Digest, error) {
	var d Digest
	if len(s) != 2*Size {
		return d, errors.New("digest: hex string must be 40 characters")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, err
	}
	copy(d[:], raw)
	return d, nil
}

// ErrCollision is returned when the underlying detector flags a known
// SHA-1 collision-attack prefix. It never fires on non-adversarial input.
var ErrCollision = errors.New("digest: sha1dc collision attack detected")

// collisionResistantSummer is the surface go-git uses to read collision
// state off a sha1cd hash: Sum reports both the digest and whether it
// was produced from a detected collision-attack prefix. Asserted at
// runtime rather than named directly in Hasher's field type, since the
// exact exported shape of github.com/pjbgf/sha1cd is the one part of
// this package not grounded in the retrieval pack.
type collisionResistantSummer interface {
	CollisionResistantSum([]byte) ([]byte, bool)
}

// Hasher computes a single Digest over one or more chunks of bytes. Each
// Hasher owns its own state; concurrent callers must each create their own.
type Hasher struct {
	h hash.Hash
}

// New creates a Hasher ready to accept bytes via Write.
func New() *Hasher {
	return &Hasher{h: sha1cd.New()}
}

// Write feeds more bytes into the running digest. It never returns an error.
func (hs *Hasher) Write(p []byte) (int, error) {
	return hs.h.Write(p)
}

// Sum finalizes the digest. It returns ErrCollision if the input matched a
// known collision-attack prefix.
func (hs *Hasher) Sum() (Digest, error) {
	var d Digest
	if crs, ok := hs.h.(collisionResistantSummer); ok {
		sum, collision := crs.CollisionResistantSum(nil)
		copy(d[:], sum)
		if collision {
			return d, ErrCollision
		}
		return d, nil
	}
	copy(d[:], hs.h.Sum(nil))
	return d, nil
}

// Sum computes the digest of the concatenation of chunks in order.
func Sum(chunks ...[]byte) (Digest, error) {
	hs := New()
	for _, c := range chunks {
		hs.Write(c)
	}
	return hs.Sum()
}
