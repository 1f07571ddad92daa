// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the PostgreSQL implementation of the ledger store.
package ledgerdb

import (
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/uptrace/bun"

	"github.com/toeirei/ledgersmith/internal/ledger"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

func (s *PostgresStore) AppendBlock(block *ledger.Block, contents *ledger.BlockContents, sig *ledger.BlockSignature) error {
	return AppendBlockBun(s.bun, block, contents, sig)
}

func (s *PostgresStore) GetBlock(index uint64) (*ledger.Block, error) {
	return GetBlockBun(s.bun, index)
}

func (s *PostgresStore) GetLatestBlock() (*ledger.Block, error) {
	return GetLatestBlockBun(s.bun)
}

func (s *PostgresStore) GetBlockContents(index uint64) (*ledger.BlockContents, error) {
	return GetBlockContentsBun(s.bun, index)
}

func (s *PostgresStore) GetBlockSignature(index uint64) (*ledger.BlockSignature, error) {
	return GetBlockSignatureBun(s.bun, index)
}

func (s *PostgresStore) NumBlocks() (uint64, error) {
	return NumBlocksBun(s.bun)
}

func (s *PostgresStore) NumTxOuts() (uint64, error) {
	return NumTxOutsBun(s.bun)
}

func (s *PostgresStore) GetTxOutsByBlock(index uint64) ([]ledger.TxOut, error) {
	return GetTxOutsByBlockBun(s.bun, index)
}

func (s *PostgresStore) GetTxOutByPublicKey(publicKey []byte) (*ledger.TxOut, error) {
	return GetTxOutByPublicKeyBun(s.bun, publicKey)
}

func (s *PostgresStore) ContainsKeyImage(image ledger.KeyImage) (bool, error) {
	return ContainsKeyImageBun(s.bun, image)
}

func (s *PostgresStore) ExportArchive() (*Archive, error) {
	return exportArchive(s)
}

func (s *PostgresStore) ImportArchive(archive *Archive) error {
	return importArchive(s, archive)
}

func (s *PostgresStore) Close() error {
	return s.bun.Close()
}
