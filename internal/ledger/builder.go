// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"github.com/toeirei/ledgersmith/internal/account"
	"github.com/toeirei/ledgersmith/internal/units"
)

// RingSize is the required number of decoy-padded ring members per
// input.
const RingSize = 11

var (
	// ErrNoInputs is returned when a transaction is built without inputs.
	ErrNoInputs = errors.New("ledger: transaction has no inputs")
	// ErrInvalidRingSize is returned for input rings of the wrong size.
	ErrInvalidRingSize = errors.New("ledger: ring has incorrect size")
	// ErrRingMissingInput is returned when the spent output is not a
	// member of its own ring.
	ErrRingMissingInput = errors.New("ledger: spent output not in its ring")
	// ErrBadAmount is returned when inputs, outputs and fee do not
	// balance, or an amount overflows.
	ErrBadAmount = errors.New("ledger: bad amount")
	// ErrKeyError is returned when supplied key material is unusable.
	ErrKeyError = errors.New("ledger: key error")
)

type txInput struct {
	output    TxOut
	ring      []TxOut
	value     units.Amount
	spendPriv ed25519.PrivateKey
}

// Tx is a built, balance-checked transaction.
type Tx struct {
	Outputs   []TxOut      `json:"outputs"`
	KeyImages []KeyImage   `json:"key_images"`
	Fee       units.Amount `json:"fee"`
}

// Contents returns the transaction payload as block contents.
func (t *Tx) Contents() *BlockContents {
	return &BlockContents{KeyImages: t.KeyImages, Outputs: t.Outputs}
}

// TxBuilder assembles a transaction from spent outputs and new outputs.
// Amounts must balance: inputs = outputs + fee.
type TxBuilder struct {
	inputs  []txInput
	outputs []TxOut
	outSum  units.Amount
	fee     units.Amount
	rng     io.Reader
	err     error
}

// NewTxBuilder returns a builder drawing output randomness from rng.
func NewTxBuilder(rng io.Reader) *TxBuilder {
	return &TxBuilder{rng: rng}
}

// AddInput records an output to spend, its known value, the subaddress
// spend key that controls it, and the ring it hides in.
func (b *TxBuilder) AddInput(output TxOut, value units.Amount, spendPriv ed25519.PrivateKey, ring []TxOut) *TxBuilder {
	if b.err != nil {
		return b
	}
	if len(spendPriv) != ed25519.PrivateKeySize {
		b.err = fmt.Errorf("%w: spend key has %d bytes", ErrKeyError, len(spendPriv))
		return b
	}
	if len(ring) != RingSize {
		b.err = fmt.Errorf("%w: got %d, want %d", ErrInvalidRingSize, len(ring), RingSize)
		return b
	}
	found := false
	for i := range ring {
		if bytes.Equal(ring[i].TargetKey, output.TargetKey) {
			found = true
			break
		}
	}
	if !found {
		b.err = ErrRingMissingInput
		return b
	}
	b.inputs = append(b.inputs, txInput{output: output, ring: ring, value: value, spendPriv: spendPriv})
	return b
}

// AddOutput mints a new output of the given value for recipient.
func (b *TxBuilder) AddOutput(value units.Amount, recipient *account.PublicAddress) *TxBuilder {
	if b.err != nil {
		return b
	}
	txo, err := NewTxOut(value, recipient, b.rng)
	if err != nil {
		b.err = err
		return b
	}
	sum, err := b.outSum.CheckedAdd(value)
	if err != nil {
		b.err = fmt.Errorf("%w: output sum overflow", ErrBadAmount)
		return b
	}
	b.outSum = sum
	b.outputs = append(b.outputs, *txo)
	return b
}

// SetFee sets the transaction fee.
func (b *TxBuilder) SetFee(fee units.Amount) *TxBuilder {
	if b.err == nil {
		b.fee = fee
	}
	return b
}

// Build balance-checks the transaction and derives the key images.
func (b *TxBuilder) Build() (*Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.inputs) == 0 {
		return nil, ErrNoInputs
	}
	var inSum units.Amount
	for _, in := range b.inputs {
		sum, err := inSum.CheckedAdd(in.value)
		if err != nil {
			return nil, fmt.Errorf("%w: input sum overflow", ErrBadAmount)
		}
		inSum = sum
	}
	spend, err := b.outSum.CheckedAdd(b.fee)
	if err != nil {
		return nil, fmt.Errorf("%w: outputs plus fee overflow", ErrBadAmount)
	}
	if inSum != spend {
		return nil, fmt.Errorf("%w: inputs %d != outputs %d + fee %d", ErrBadAmount, inSum, b.outSum, b.fee)
	}
	images := make([]KeyImage, 0, len(b.inputs))
	for _, in := range b.inputs {
		img, err := NewKeyImage(in.spendPriv, in.output.TargetKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyError, err)
		}
		images = append(images, img)
	}
	return &Tx{Outputs: b.outputs, KeyImages: images, Fee: b.fee}, nil
}
