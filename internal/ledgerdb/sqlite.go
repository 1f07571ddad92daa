// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SQLite implementation of the ledger store.
package ledgerdb

import (
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/toeirei/ledgersmith/internal/ledger"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

func (s *SqliteStore) AppendBlock(block *ledger.Block, contents *ledger.BlockContents, sig *ledger.BlockSignature) error {
	return AppendBlockBun(s.bun, block, contents, sig)
}

func (s *SqliteStore) GetBlock(index uint64) (*ledger.Block, error) {
	return GetBlockBun(s.bun, index)
}

func (s *SqliteStore) GetLatestBlock() (*ledger.Block, error) {
	return GetLatestBlockBun(s.bun)
}

func (s *SqliteStore) GetBlockContents(index uint64) (*ledger.BlockContents, error) {
	return GetBlockContentsBun(s.bun, index)
}

func (s *SqliteStore) GetBlockSignature(index uint64) (*ledger.BlockSignature, error) {
	return GetBlockSignatureBun(s.bun, index)
}

func (s *SqliteStore) NumBlocks() (uint64, error) {
	return NumBlocksBun(s.bun)
}

func (s *SqliteStore) NumTxOuts() (uint64, error) {
	return NumTxOutsBun(s.bun)
}

func (s *SqliteStore) GetTxOutsByBlock(index uint64) ([]ledger.TxOut, error) {
	return GetTxOutsByBlockBun(s.bun, index)
}

func (s *SqliteStore) GetTxOutByPublicKey(publicKey []byte) (*ledger.TxOut, error) {
	return GetTxOutByPublicKeyBun(s.bun, publicKey)
}

func (s *SqliteStore) ContainsKeyImage(image ledger.KeyImage) (bool, error) {
	return ContainsKeyImageBun(s.bun, image)
}

func (s *SqliteStore) ExportArchive() (*Archive, error) {
	return exportArchive(s)
}

func (s *SqliteStore) ImportArchive(archive *Archive) error {
	return importArchive(s, archive)
}

func (s *SqliteStore) Close() error {
	return s.bun.Close()
}
