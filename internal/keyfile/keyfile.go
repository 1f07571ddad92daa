// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keyfile reads and writes account credentials on disk. A
// keyfile is a small JSON document holding a BIP-39 mnemonic, an
// account index and optional fog details; a pubfile is the binary
// encoding of a single public address.
package keyfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/toeirei/ledgersmith/internal/account"
	"github.com/toeirei/ledgersmith/internal/slip10"
)

var (
	// ErrMissingMnemonic is returned when a keyfile has no mnemonic.
	ErrMissingMnemonic = errors.New("keyfile: missing mnemonic")
	// ErrFogInconsistent is returned when fog fields are partially set.
	// A keyfile either names a full fog configuration or none at all.
	ErrFogInconsistent = errors.New("keyfile: fog report id or authority set without report url")
)

// Keyfile is the on-disk JSON representation of an account identity.
type Keyfile struct {
	Mnemonic         string `json:"mnemonic"`
	AccountIndex     uint32 `json:"account_index"`
	FogReportURL     string `json:"fog_report_url,omitempty"`
	FogReportID      string `json:"fog_report_id,omitempty"`
	FogAuthoritySPKI []byte `json:"fog_authority_spki,omitempty"`
}

// Validate checks that the keyfile carries a usable identity.
func (k *Keyfile) Validate() error {
	if k.Mnemonic == "" {
		return ErrMissingMnemonic
	}
	if !slip10.ValidateMnemonic(k.Mnemonic) {
		return slip10.ErrInvalidMnemonic
	}
	if k.FogReportURL == "" && (k.FogReportID != "" || len(k.FogAuthoritySPKI) > 0) {
		return ErrFogInconsistent
	}
	return nil
}

// AccountKey derives the account key described by the keyfile.
func (k *Keyfile) AccountKey() (*account.AccountKey, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	key, err := account.FromMnemonic(k.Mnemonic, k.AccountIndex)
	if err != nil {
		return nil, err
	}
	if k.FogReportURL != "" {
		if err := key.SetFog(k.FogReportURL, k.FogReportID, k.FogAuthoritySPKI); err != nil {
			key.Zero()
			return nil, err
		}
	}
	return key, nil
}

// Write stores a keyfile as JSON, readable only by the owner.
func Write(path string, k *Keyfile) error {
	if err := k.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(k)
	if err != nil {
		return fmt.Errorf("keyfile: encode: %w", err)
	}
	return os.WriteFile(path, raw, 0600)
}

// ReadKeyfile loads the raw keyfile document from disk.
func ReadKeyfile(path string) (*Keyfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadKeyfileData(f)
}

// ReadKeyfileData decodes a keyfile document from a reader.
func ReadKeyfileData(r io.Reader) (*Keyfile, error) {
	var k Keyfile
	if err := json.NewDecoder(r).Decode(&k); err != nil {
		return nil, fmt.Errorf("keyfile: decode: %w", err)
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return &k, nil
}

// Read loads a keyfile and derives the account key it describes.
func Read(path string) (*account.AccountKey, error) {
	k, err := ReadKeyfile(path)
	if err != nil {
		return nil, err
	}
	return k.AccountKey()
}

// WritePubfile stores a public address in its binary encoding.
func WritePubfile(path string, addr *account.PublicAddress) error {
	raw, err := addr.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// ReadPubfile loads a binary public address from disk.
func ReadPubfile(path string) (*account.PublicAddress, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var addr account.PublicAddress
	if err := addr.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return &addr, nil
}
