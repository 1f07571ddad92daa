// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the MySQL implementation of the ledger store.
package ledgerdb

import (
	_ "github.com/go-sql-driver/mysql" // MySQL database/sql driver
	"github.com/uptrace/bun"

	"github.com/toeirei/ledgersmith/internal/ledger"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) AppendBlock(block *ledger.Block, contents *ledger.BlockContents, sig *ledger.BlockSignature) error {
	return AppendBlockBun(s.bun, block, contents, sig)
}

func (s *MySQLStore) GetBlock(index uint64) (*ledger.Block, error) {
	return GetBlockBun(s.bun, index)
}

func (s *MySQLStore) GetLatestBlock() (*ledger.Block, error) {
	return GetLatestBlockBun(s.bun)
}

func (s *MySQLStore) GetBlockContents(index uint64) (*ledger.BlockContents, error) {
	return GetBlockContentsBun(s.bun, index)
}

func (s *MySQLStore) GetBlockSignature(index uint64) (*ledger.BlockSignature, error) {
	return GetBlockSignatureBun(s.bun, index)
}

func (s *MySQLStore) NumBlocks() (uint64, error) {
	return NumBlocksBun(s.bun)
}

func (s *MySQLStore) NumTxOuts() (uint64, error) {
	return NumTxOutsBun(s.bun)
}

func (s *MySQLStore) GetTxOutsByBlock(index uint64) ([]ledger.TxOut, error) {
	return GetTxOutsByBlockBun(s.bun, index)
}

func (s *MySQLStore) GetTxOutByPublicKey(publicKey []byte) (*ledger.TxOut, error) {
	return GetTxOutByPublicKeyBun(s.bun, publicKey)
}

func (s *MySQLStore) ContainsKeyImage(image ledger.KeyImage) (bool, error) {
	return ContainsKeyImageBun(s.bun, image)
}

func (s *MySQLStore) ExportArchive() (*Archive, error) {
	return exportArchive(s)
}

func (s *MySQLStore) ImportArchive(archive *Archive) error {
	return importArchive(s, archive)
}

func (s *MySQLStore) Close() error {
	return s.bun.Close()
}
