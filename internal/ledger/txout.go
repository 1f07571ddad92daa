// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ledger implements the transaction core types: transaction
// outputs with masked amounts, key images, blocks and block signatures.
package ledger

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/toeirei/ledgersmith/internal/account"
	"github.com/toeirei/ledgersmith/internal/security"
	"github.com/toeirei/ledgersmith/internal/units"
)

// Domain-separation tags for the txout shared-secret expansions.
// Changing any of these is a wire break.
const (
	targetKeyTag   = "ledgersmith-txout-target"
	amountBlindTag = "ledgersmith-amount-blind"
	amountMaskTag  = "ledgersmith-amount-mask"
	keyImageTag    = "ledgersmith-key-image"
)

var (
	// ErrBadRecipient is returned when an address is missing key material.
	ErrBadRecipient = errors.New("ledger: recipient address missing keys")
	// ErrBadCommitment is returned when an amount commitment does not
	// match the recovered value.
	ErrBadCommitment = errors.New("ledger: amount commitment mismatch")
)

// MaskedAmount hides a txout value behind the txout shared secret. The
// commitment binds the value; the masked value lets the view key holder
// recover it.
type MaskedAmount struct {
	Commitment  []byte `json:"commitment"`
	MaskedValue uint64 `json:"masked_value"`
}

// TxOut is a single transaction output.
type TxOut struct {
	// TargetKey is the one-time output key bound to the recipient's
	// subaddress spend key.
	TargetKey []byte `json:"target_key"`
	// PublicKey is the per-output X25519 transaction public key.
	PublicKey []byte `json:"public_key"`
	// Amount is the masked output value.
	Amount MaskedAmount `json:"amount"`
}

// NewTxOut builds an output of the given value addressed to recipient.
// The per-output key pair is drawn from rng; pass a deterministic reader
// for reproducible fixtures.
func NewTxOut(value units.Amount, recipient *account.PublicAddress, rng io.Reader) (*TxOut, error) {
	if recipient == nil || len(recipient.ViewPublic) != 32 || len(recipient.SpendPublic) != ed25519.PublicKeySize {
		return nil, ErrBadRecipient
	}
	txPriv := make([]byte, 32)
	if _, err := io.ReadFull(rng, txPriv); err != nil {
		return nil, fmt.Errorf("ledger: draw txout key: %w", err)
	}
	defer security.Wipe(txPriv)

	txPub, err := curve25519.X25519(txPriv, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("ledger: txout public key: %w", err)
	}
	shared, err := curve25519.X25519(txPriv, recipient.ViewPublic)
	if err != nil {
		return nil, fmt.Errorf("ledger: txout shared secret: %w", err)
	}
	defer security.Wipe(shared)

	target, err := targetKey(shared, recipient.SpendPublic)
	if err != nil {
		return nil, err
	}
	masked, err := maskAmount(shared, value)
	if err != nil {
		return nil, err
	}
	return &TxOut{TargetKey: target, PublicKey: txPub, Amount: *masked}, nil
}

// ViewKeyMatch checks whether the output belongs to the subaddress with
// the given view private and spend public keys, and recovers the value
// when it does. A commitment that does not match the recovered value is
// an error, not a miss.
func (t *TxOut) ViewKeyMatch(viewPrivate, spendPublic []byte) (units.Amount, bool, error) {
	shared, err := curve25519.X25519(viewPrivate, t.PublicKey)
	if err != nil {
		return 0, false, fmt.Errorf("ledger: txout shared secret: %w", err)
	}
	defer security.Wipe(shared)

	target, err := targetKey(shared, spendPublic)
	if err != nil {
		return 0, false, err
	}
	if !bytes.Equal(target, t.TargetKey) {
		return 0, false, nil
	}
	value, err := t.Amount.unmask(shared)
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// Hash returns the digest of the output used as a merkle leaf.
func (t *TxOut) Hash() []byte {
	h, _ := blake2b.New256(nil)
	h.Write(t.TargetKey)
	h.Write(t.PublicKey)
	h.Write(t.Amount.Commitment)
	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], t.Amount.MaskedValue)
	h.Write(v[:])
	return h.Sum(nil)
}

// KeyImage marks an output as spent. It is deterministic for a given
// spend key and output, so a double spend produces the same image.
type KeyImage [32]byte

// NewKeyImage derives the key image for the output target key under the
// given subaddress spend private key.
func NewKeyImage(spendPrivate ed25519.PrivateKey, targetKey []byte) (KeyImage, error) {
	var img KeyImage
	if len(spendPrivate) != ed25519.PrivateKeySize {
		return img, ErrBadRecipient
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return img, err
	}
	h.Write([]byte(keyImageTag))
	h.Write(spendPrivate.Seed())
	h.Write(targetKey)
	copy(img[:], h.Sum(nil))
	return img, nil
}

func targetKey(shared, spendPublic []byte) ([]byte, error) {
	pad, err := expand(shared, targetKeyTag, 32)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(pad)
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	h.Write(spendPublic)
	h.Write(pad)
	return h.Sum(nil), nil
}

func maskAmount(shared []byte, value units.Amount) (*MaskedAmount, error) {
	mask, err := valueMask(shared)
	if err != nil {
		return nil, err
	}
	commitment, err := commit(shared, value)
	if err != nil {
		return nil, err
	}
	return &MaskedAmount{
		Commitment:  commitment,
		MaskedValue: uint64(value) ^ mask,
	}, nil
}

func (m *MaskedAmount) unmask(shared []byte) (units.Amount, error) {
	mask, err := valueMask(shared)
	if err != nil {
		return 0, err
	}
	value := units.Amount(m.MaskedValue ^ mask)
	want, err := commit(shared, value)
	if err != nil {
		return 0, err
	}
	if !bytes.Equal(want, m.Commitment) {
		return 0, ErrBadCommitment
	}
	return value, nil
}

func commit(shared []byte, value units.Amount) ([]byte, error) {
	blind, err := expand(shared, amountBlindTag, 32)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(blind)
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	h.Write(blind)
	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], uint64(value))
	h.Write(v[:])
	return h.Sum(nil), nil
}

func valueMask(shared []byte) (uint64, error) {
	out, err := expand(shared, amountMaskTag, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(out), nil
}

func expand(key []byte, tag string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha512.New, key, []byte(tag), nil)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
