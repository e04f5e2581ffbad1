// Package keyschedule derives the deterministic working-key stream used
// to key every transform invocation from a password, salt, and optional
// zone label. The derivation and window-positioning formulas are v1 of
// the wire format (see SPEC_FULL.md §4.B) — changing either breaks every
// ciphertext produced against an earlier version, so they are fixed
// constants, not tunables.
package keyschedule

import (
	"crypto/sha256"
	"encoding/binary"
)

// SaltSize is the fixed length of the salt in CryptoLibOptions.
const SaltSize = 12

const (
	chunkSize = sha256.Size // 32

	// RStride and SStride space out the (round, position) windows within
	// one encryption so no two transform invocations share key material.
	// Chosen as two primes comfortably larger than any realistic
	// global_rounds/sequence-length product.
	RStride = 97
	SStride = 131

	// perTransformStride gives every repetition of a TransformRef its own
	// 32-byte-aligned slice of the window space.
	perTransformStride = chunkSize
)

// KeyStream is a deterministic, conceptually infinite byte sequence
// derived from (password, salt, zone). It is owned by exactly one cipher
// instance; concurrent use from multiple goroutines requires external
// synchronization (see SPEC_FULL.md §5).
type KeyStream struct {
	seed [32]byte
}

// New derives the master key and builds the base key stream:
// master = SHA-256(password || salt || zone).
func New(password []byte, salt [SaltSize]byte, zone []byte) *KeyStream {
	h := sha256.New()
	h.Write(password)
	h.Write(salt[:])
	h.Write(zone)
	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return &KeyStream{seed: seed}
}

// WithIV folds a per-encryption IV into the stream seed, producing a new
// KeyStream whose derivation is otherwise identical to New's. Both
// Encrypt and EncryptBlock use this so the two code paths share one
// stream-derivation function.
func (ks *KeyStream) WithIV(iv []byte) *KeyStream {
	h := sha256.New()
	h.Write(ks.seed[:])
	h.Write(iv)
	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return &KeyStream{seed: seed}
}

// chunk returns the index-th 32-byte block of the stream:
// SHA-256(seed || LE64(index)).
func (ks *KeyStream) chunk(index uint64) [32]byte {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], index)
	h := sha256.New()
	h.Write(ks.seed[:])
	h.Write(idx[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Bytes returns length bytes of the stream starting at offset.
func (ks *KeyStream) Bytes(offset, length int) []byte {
	out := make([]byte, length)
	if length == 0 {
		return out
	}
	chunkIdx := uint64(offset / chunkSize)
	chunkOff := offset % chunkSize
	pos := 0
	for pos < length {
		c := ks.chunk(chunkIdx)
		n := copy(out[pos:], c[chunkOff:])
		pos += n
		chunkOff = 0
		chunkIdx++
	}
	return out
}

// Window returns the key-window material for one transform invocation:
// round-index r, position-in-sequence pos, repetition index t, sized to
// the payload length. The offset formula is load-bearing wire format —
// see SPEC_FULL.md §4.B.
func (ks *KeyStream) Window(r, pos, t, payloadLen int) []byte {
	offset := r*RStride + pos*SStride + t*perTransformStride
	return ks.Bytes(offset, payloadLen)
}
