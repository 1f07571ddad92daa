// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sample generates deterministic account and ledger fixtures.
// Given the same seed, the produced keyfiles and the origin block are
// byte-for-byte reproducible, and the first n accounts of a larger run
// match a run of exactly n.
package sample

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/toeirei/ledgersmith/internal/account"
	"github.com/toeirei/ledgersmith/internal/detrand"
	"github.com/toeirei/ledgersmith/internal/keyfile"
	"github.com/toeirei/ledgersmith/internal/ledger"
	"github.com/toeirei/ledgersmith/internal/ledgerdb"
	"github.com/toeirei/ledgersmith/internal/logging"
	"github.com/toeirei/ledgersmith/internal/slip10"
	"github.com/toeirei/ledgersmith/internal/units"
)

// KeysDirName is the subdirectory keyfiles are written into.
const KeysDirName = "account_keys"

var (
	// ErrNoAccounts is returned when zero accounts are requested.
	ErrNoAccounts = errors.New("sample: number of accounts must be positive")
	// ErrNoAddresses is returned when a ledger is initialized without
	// any recipient addresses.
	ErrNoAddresses = errors.New("sample: no recipient addresses")
	// ErrBadParams is returned for non-positive ledger parameters.
	ErrBadParams = errors.New("sample: txouts per account and amount must be positive")
)

// KeyParams controls sample key generation.
type KeyParams struct {
	Num              int
	Seed             uint64
	FogReportURL     string
	FogReportID      string
	FogAuthoritySPKI []byte
}

// LedgerParams controls origin block generation.
type LedgerParams struct {
	TxOutsPerAccount int
	Amount           units.Amount
	Seed             uint64
}

// accountEntropy derives the per-account RNG key. Each account gets an
// independent stream, so generating 2n accounts and keeping the first n
// produces the same files as generating n.
func accountEntropy(seed uint64, index int) [32]byte {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	return blake2b.Sum256(buf[:])
}

// GenerateSampleKeys writes Num deterministic keyfile/pubfile pairs
// under outputDir/account_keys and returns the public addresses in
// account order.
func GenerateSampleKeys(outputDir string, p KeyParams) ([]*account.PublicAddress, error) {
	if p.Num <= 0 {
		return nil, ErrNoAccounts
	}
	keysDir := filepath.Join(outputDir, KeysDirName)
	if err := os.MkdirAll(keysDir, 0700); err != nil {
		return nil, fmt.Errorf("sample: create keys dir: %w", err)
	}

	addresses := make([]*account.PublicAddress, 0, p.Num)
	for i := 0; i < p.Num; i++ {
		rng := detrand.NewFromKey(accountEntropy(p.Seed, i))
		mnemonic, err := slip10.MnemonicFromEntropyReader(rng, 256)
		if err != nil {
			return nil, fmt.Errorf("sample: account %d mnemonic: %w", i, err)
		}
		kf := &keyfile.Keyfile{
			Mnemonic:         mnemonic,
			AccountIndex:     0,
			FogReportURL:     p.FogReportURL,
			FogReportID:      p.FogReportID,
			FogAuthoritySPKI: p.FogAuthoritySPKI,
		}
		keyPath := filepath.Join(keysDir, fmt.Sprintf("account_%d.json", i))
		if err := keyfile.Write(keyPath, kf); err != nil {
			return nil, fmt.Errorf("sample: write keyfile %d: %w", i, err)
		}

		key, err := kf.AccountKey()
		if err != nil {
			return nil, fmt.Errorf("sample: derive account %d: %w", i, err)
		}
		addr, err := key.DefaultSubaddress()
		key.Zero()
		if err != nil {
			return nil, fmt.Errorf("sample: account %d subaddress: %w", i, err)
		}
		pubPath := filepath.Join(keysDir, fmt.Sprintf("account_%d.pub", i))
		if err := keyfile.WritePubfile(pubPath, addr); err != nil {
			return nil, fmt.Errorf("sample: write pubfile %d: %w", i, err)
		}
		addresses = append(addresses, addr)
	}
	logging.Debugf("sample: wrote %d account key pairs to %s", p.Num, keysDir)
	return addresses, nil
}

// ReadPubfiles loads all pubfiles from a keys directory, in account
// order.
func ReadPubfiles(keysDir string) ([]*account.PublicAddress, error) {
	entries, err := os.ReadDir(keysDir)
	if err != nil {
		return nil, fmt.Errorf("sample: read keys dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pub") {
			names = append(names, e.Name())
		}
	}
	// account_2.pub sorts before account_10.pub: order by the numeric
	// suffix when both names carry one.
	sort.Slice(names, func(i, j int) bool {
		ni, iok := pubfileIndex(names[i])
		nj, jok := pubfileIndex(names[j])
		if iok && jok {
			return ni < nj
		}
		return names[i] < names[j]
	})

	addresses := make([]*account.PublicAddress, 0, len(names))
	for _, name := range names {
		addr, err := keyfile.ReadPubfile(filepath.Join(keysDir, name))
		if err != nil {
			return nil, fmt.Errorf("sample: read pubfile %s: %w", name, err)
		}
		addresses = append(addresses, addr)
	}
	if len(addresses) == 0 {
		return nil, ErrNoAddresses
	}
	return addresses, nil
}

func pubfileIndex(name string) (int, bool) {
	name = strings.TrimSuffix(name, ".pub")
	underscore := strings.LastIndexByte(name, '_')
	if underscore < 0 {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(name[underscore+1:], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// InitializeLedger builds the deterministic origin block distributing
// TxOutsPerAccount outputs of Amount to each address and appends it via
// the store.
func InitializeLedger(st ledgerdb.Store, addresses []*account.PublicAddress, p LedgerParams) (*ledger.Block, error) {
	if len(addresses) == 0 {
		return nil, ErrNoAddresses
	}
	if p.TxOutsPerAccount <= 0 || p.Amount == 0 {
		return nil, ErrBadParams
	}
	rng := detrand.New(p.Seed)
	contents := &ledger.BlockContents{}
	for _, addr := range addresses {
		for i := 0; i < p.TxOutsPerAccount; i++ {
			txo, err := ledger.NewTxOut(p.Amount, addr, rng)
			if err != nil {
				return nil, fmt.Errorf("sample: mint output: %w", err)
			}
			contents.Outputs = append(contents.Outputs, *txo)
		}
	}
	origin, err := ledger.NewOriginBlock(contents)
	if err != nil {
		return nil, err
	}
	if err := st.AppendBlock(origin, contents, nil); err != nil {
		return nil, fmt.Errorf("sample: append origin block: %w", err)
	}
	logging.Debugf("sample: origin block minted %d outputs for %d accounts", len(contents.Outputs), len(addresses))
	return origin, nil
}
