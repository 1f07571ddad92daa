// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledgerdb

import (
	"fmt"

	"github.com/toeirei/ledgersmith/internal/account"
	"github.com/toeirei/ledgersmith/internal/ledger"
	"github.com/toeirei/ledgersmith/internal/security"
	"github.com/toeirei/ledgersmith/internal/units"
)

// OwnedTxOut is an output recognized as belonging to an account during
// a view-key scan.
type OwnedTxOut struct {
	BlockIndex      uint64
	Position        int
	SubaddressIndex uint64
	Value           units.Amount
	TxOut           ledger.TxOut
	Spent           bool
}

// ScanOwned walks the whole ledger and returns the outputs owned by the
// account, trying subaddress indices 0 through subaddressLimit. Outputs
// whose key image is already in the store are marked spent.
func ScanOwned(st Store, key *account.AccountKey, subaddressLimit uint64) ([]OwnedTxOut, error) {
	type subaddressKeys struct {
		index     uint64
		viewPriv  security.Secret
		spendPub  []byte
		spendPriv []byte
	}
	var subs []subaddressKeys
	for idx := uint64(0); idx <= subaddressLimit; idx++ {
		viewPriv, err := key.SubaddressViewPrivate(idx)
		if err != nil {
			return nil, fmt.Errorf("derive subaddress %d view key: %w", idx, err)
		}
		spendPriv, err := key.SubaddressSpendPrivate(idx)
		if err != nil {
			return nil, fmt.Errorf("derive subaddress %d spend key: %w", idx, err)
		}
		addr, err := key.Subaddress(idx)
		if err != nil {
			return nil, fmt.Errorf("derive subaddress %d: %w", idx, err)
		}
		subs = append(subs, subaddressKeys{
			index:     idx,
			viewPriv:  viewPriv,
			spendPub:  addr.SpendPublic,
			spendPriv: spendPriv,
		})
	}
	defer func() {
		for i := range subs {
			subs[i].viewPriv.Zero()
			security.Wipe(subs[i].spendPriv)
		}
	}()

	numBlocks, err := st.NumBlocks()
	if err != nil {
		return nil, err
	}
	var owned []OwnedTxOut
	for blockIdx := uint64(0); blockIdx < numBlocks; blockIdx++ {
		txouts, err := st.GetTxOutsByBlock(blockIdx)
		if err != nil {
			return nil, fmt.Errorf("scan block %d: %w", blockIdx, err)
		}
		for pos := range txouts {
			txo := &txouts[pos]
			for _, sub := range subs {
				value, matched, err := txo.ViewKeyMatch(sub.viewPriv, sub.spendPub)
				if err != nil {
					return nil, fmt.Errorf("scan block %d txout %d: %w", blockIdx, pos, err)
				}
				if !matched {
					continue
				}
				image, err := ledger.NewKeyImage(sub.spendPriv, txo.TargetKey)
				if err != nil {
					return nil, err
				}
				spent, err := st.ContainsKeyImage(image)
				if err != nil {
					return nil, err
				}
				owned = append(owned, OwnedTxOut{
					BlockIndex:      blockIdx,
					Position:        pos,
					SubaddressIndex: sub.index,
					Value:           value,
					TxOut:           *txo,
					Spent:           spent,
				})
				break
			}
		}
	}
	return owned, nil
}
