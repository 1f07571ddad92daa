// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledgerdb

import (
	"github.com/toeirei/ledgersmith/internal/ledger"
)

// Store defines the interface for all ledger database operations. This
// allows for multiple database backends to be implemented.
type Store interface {
	// Block methods
	AppendBlock(block *ledger.Block, contents *ledger.BlockContents, sig *ledger.BlockSignature) error
	GetBlock(index uint64) (*ledger.Block, error)
	GetLatestBlock() (*ledger.Block, error)
	GetBlockContents(index uint64) (*ledger.BlockContents, error)
	GetBlockSignature(index uint64) (*ledger.BlockSignature, error)
	NumBlocks() (uint64, error)

	// TxOut methods
	NumTxOuts() (uint64, error)
	GetTxOutsByBlock(index uint64) ([]ledger.TxOut, error)
	GetTxOutByPublicKey(publicKey []byte) (*ledger.TxOut, error)

	// Key image methods
	ContainsKeyImage(image ledger.KeyImage) (bool, error)

	// Archive methods
	ExportArchive() (*Archive, error)
	ImportArchive(archive *Archive) error

	Close() error
}
