// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package slip10

import (
	"errors"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var (
	// ErrInvalidMnemonic is returned for phrases that fail BIP-39
	// validation.
	ErrInvalidMnemonic = errors.New("slip10: invalid mnemonic")
	// ErrEntropyBits is returned for unsupported entropy sizes.
	ErrEntropyBits = errors.New("slip10: entropy bits must be 128, 160, 192, 224 or 256")
)

// NewMnemonic generates a fresh mnemonic with the given entropy size in
// bits (256 for the 24-word phrases account keys use).
func NewMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", ErrEntropyBits
	}
	return bip39.NewMnemonic(entropy)
}

// MnemonicFromEntropyReader builds a mnemonic from entropy drawn off r.
// Sample-key generation feeds a deterministic reader here so fixture runs
// are reproducible.
func MnemonicFromEntropyReader(r io.Reader, bits int) (string, error) {
	if bits%32 != 0 || bits < 128 || bits > 256 {
		return "", ErrEntropyBits
	}
	entropy := make([]byte, bits/8)
	if _, err := io.ReadFull(r, entropy); err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic reports whether the phrase is a valid BIP-39 mnemonic
// after whitespace normalization.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalize(mnemonic))
}

// SeedFromMnemonic validates the phrase and returns its 64-byte BIP-39
// seed. The passphrase is fixed empty, matching keyfile semantics.
func SeedFromMnemonic(mnemonic string) ([]byte, error) {
	m := normalize(mnemonic)
	if !bip39.IsMnemonicValid(m) {
		return nil, ErrInvalidMnemonic
	}
	return bip39.NewSeed(m, ""), nil
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}
