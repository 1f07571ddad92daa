// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package detrand provides a seeded, deterministic random stream for
// fixture generation and tests. The stream is a ChaCha20 keystream over a
// fixed nonce: the same seed always yields the same bytes, across
// platforms and process runs. It is NOT a substitute for crypto/rand in
// production key generation.
package detrand

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// Rand is a deterministic io.Reader.
type Rand struct {
	cipher *chacha20.Cipher
}

// New returns a Rand seeded from a uint64 convenience seed.
func New(seed uint64) *Rand {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], seed)
	return NewFromKey(blake2b.Sum256(raw[:]))
}

// NewFromKey returns a Rand keyed with the full 32-byte key.
func NewFromKey(key [32]byte) *Rand {
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// Key and nonce sizes are fixed above; this cannot happen.
		panic(err)
	}
	return &Rand{cipher: c}
}

// Read fills p with the next bytes of the deterministic stream. It never
// returns an error.
func (r *Rand) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Bytes draws and returns n fresh bytes from the stream.
func (r *Rand) Bytes(n int) []byte {
	out := make([]byte, n)
	_, _ = r.Read(out)
	return out
}

// Uint64 draws the next 8 stream bytes as a little-endian uint64.
func (r *Rand) Uint64() uint64 {
	return binary.LittleEndian.Uint64(r.Bytes(8))
}
