// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sig provides deterministic Ed25519 signatures with mandatory
// domain separation. Every signature is bound to a context tag; a
// signature produced under one tag never verifies under another, so
// protocol surfaces (block signatures, fog authority signatures, ...)
// cannot be confused for each other.
package sig

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// SignatureSize is the byte length of signatures produced by Sign.
const SignatureSize = ed25519.SignatureSize

var (
	// ErrVerificationFailed is returned when a signature does not verify.
	ErrVerificationFailed = errors.New("sig: signature verification failed")
	// ErrBadKey is returned for keys of the wrong length.
	ErrBadKey = errors.New("sig: bad key length")
	// ErrBadSignature is returned for signatures of the wrong length.
	ErrBadSignature = errors.New("sig: bad signature length")
)

// digest computes the domain-separated prehash: BLAKE2b-256 over the
// length-framed context tag followed by the message. Length framing keeps
// tag/message boundaries unambiguous.
func digest(contextTag string, message []byte) [32]byte {
	h, _ := blake2b.New256(nil)
	var frame [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(frame[:], uint64(len(contextTag)))
	h.Write(frame[:n])
	h.Write([]byte(contextTag))
	h.Write(message)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Sign produces a deterministic signature over message, bound to
// contextTag. The same inputs always yield the same signature.
func Sign(contextTag string, priv ed25519.PrivateKey, message []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, ErrBadKey
	}
	d := digest(contextTag, message)
	return ed25519.Sign(priv, d[:]), nil
}

// Verify checks signature over message under contextTag. The context tag
// must match the one used at signing time.
func Verify(contextTag string, pub ed25519.PublicKey, message, signature []byte) error {
	if len(pub) != ed25519.PublicKeySize {
		return ErrBadKey
	}
	if len(signature) != SignatureSize {
		return ErrBadSignature
	}
	d := digest(contextTag, message)
	if !ed25519.Verify(pub, d[:], signature) {
		return ErrVerificationFailed
	}
	return nil
}
