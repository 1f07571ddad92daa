// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledgerdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/toeirei/ledgersmith/internal/ledger"
	"github.com/toeirei/ledgersmith/internal/netid"
)

// BlockModel maps the `blocks` table for Bun queries.
type BlockModel struct {
	bun.BaseModel    `bun:"table:blocks"`
	Idx              int64  `bun:"idx,pk"`
	BlockID          []byte `bun:"block_id"`
	Version          int64  `bun:"version"`
	ParentID         []byte `bun:"parent_id"`
	CumulativeTxOuts int64  `bun:"cumulative_txout_count"`
	ContentsHash     []byte `bun:"contents_hash"`
}

// TxOutModel maps the `txouts` table.
type TxOutModel struct {
	bun.BaseModel `bun:"table:txouts"`
	ID            int64  `bun:"id,pk,autoincrement"`
	BlockIdx      int64  `bun:"block_idx"`
	Position      int64  `bun:"position"`
	TargetKey     []byte `bun:"target_key"`
	PublicKey     []byte `bun:"public_key"`
	Commitment    []byte `bun:"commitment"`
	MaskedValue   int64  `bun:"masked_value"`
}

// KeyImageModel maps the `key_images` table.
type KeyImageModel struct {
	bun.BaseModel `bun:"table:key_images"`
	Image         []byte `bun:"image,pk"`
	BlockIdx      int64  `bun:"block_idx"`
	Position      int64  `bun:"position"`
}

// BlockSignatureModel maps the `block_signatures` table.
type BlockSignatureModel struct {
	bun.BaseModel `bun:"table:block_signatures"`
	BlockIdx      int64  `bun:"block_idx,pk"`
	Signature     []byte `bun:"signature"`
	PublicKey     []byte `bun:"public_key"`
	Signer        string `bun:"signer"`
	SignedAt      int64  `bun:"signed_at"`
}

func blockModelToLedger(m BlockModel) *ledger.Block {
	return &ledger.Block{
		ID:                   append(ledger.BlockID(nil), m.BlockID...),
		Version:              uint32(m.Version),
		ParentID:             append(ledger.BlockID(nil), m.ParentID...),
		Index:                uint64(m.Idx),
		CumulativeTxOutCount: uint64(m.CumulativeTxOuts),
		ContentsHash:         append([]byte(nil), m.ContentsHash...),
	}
}

func txOutModelToLedger(m TxOutModel) ledger.TxOut {
	return ledger.TxOut{
		TargetKey: append([]byte(nil), m.TargetKey...),
		PublicKey: append([]byte(nil), m.PublicKey...),
		Amount: ledger.MaskedAmount{
			Commitment:  append([]byte(nil), m.Commitment...),
			MaskedValue: uint64(m.MaskedValue),
		},
	}
}

// AppendBlockBun appends a block with its contents and optional
// signature in a single transaction, enforcing chain continuity against
// the stored tip.
func AppendBlockBun(bdb *bun.DB, block *ledger.Block, contents *ledger.BlockContents, blockSig *ledger.BlockSignature) error {
	if err := block.Verify(contents); err != nil {
		return err
	}
	ctx := context.Background()

	tip, err := GetLatestBlockBun(bdb)
	if err != nil {
		return err
	}
	if tip == nil {
		if block.Index != 0 {
			return fmt.Errorf("%w: first block has index %d", ledger.ErrBrokenChain, block.Index)
		}
	} else if err := ledger.ValidateContinuity(tip, block); err != nil {
		return err
	}

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	bm := &BlockModel{
		Idx:              int64(block.Index),
		BlockID:          block.ID,
		Version:          int64(block.Version),
		ParentID:         block.ParentID,
		CumulativeTxOuts: int64(block.CumulativeTxOutCount),
		ContentsHash:     block.ContentsHash,
	}
	if _, err := tx.NewInsert().Model(bm).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	for i := range contents.Outputs {
		out := &contents.Outputs[i]
		tm := &TxOutModel{
			BlockIdx:    int64(block.Index),
			Position:    int64(i),
			TargetKey:   out.TargetKey,
			PublicKey:   out.PublicKey,
			Commitment:  out.Amount.Commitment,
			MaskedValue: int64(out.Amount.MaskedValue),
		}
		if _, err := tx.NewInsert().Model(tm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}
	for i := range contents.KeyImages {
		km := &KeyImageModel{
			Image:    contents.KeyImages[i][:],
			BlockIdx: int64(block.Index),
			Position: int64(i),
		}
		if _, err := tx.NewInsert().Model(km).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}
	if blockSig != nil {
		sm := &BlockSignatureModel{
			BlockIdx:  int64(block.Index),
			Signature: blockSig.Signature,
			PublicKey: blockSig.PublicKey,
			Signer:    string(blockSig.Signer),
			SignedAt:  blockSig.SignedAt,
		}
		if _, err := tx.NewInsert().Model(sm).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}
	return tx.Commit()
}

// GetBlockBun returns the block at the given index.
func GetBlockBun(bdb *bun.DB, index uint64) (*ledger.Block, error) {
	ctx := context.Background()
	var m BlockModel
	err := bdb.NewSelect().Model(&m).Where("idx = ?", int64(index)).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return blockModelToLedger(m), nil
}

// GetLatestBlockBun returns the tip block, or nil for an empty ledger.
func GetLatestBlockBun(bdb *bun.DB) (*ledger.Block, error) {
	ctx := context.Background()
	var m BlockModel
	err := bdb.NewSelect().Model(&m).Order("idx DESC").Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return blockModelToLedger(m), nil
}

// GetBlockContentsBun rebuilds the contents of the block at index.
func GetBlockContentsBun(bdb *bun.DB, index uint64) (*ledger.BlockContents, error) {
	ctx := context.Background()
	if _, err := GetBlockBun(bdb, index); err != nil {
		return nil, err
	}

	var tms []TxOutModel
	if err := bdb.NewSelect().Model(&tms).Where("block_idx = ?", int64(index)).Order("position ASC").Scan(ctx); err != nil {
		return nil, err
	}
	var kms []KeyImageModel
	if err := bdb.NewSelect().Model(&kms).Where("block_idx = ?", int64(index)).Order("position ASC").Scan(ctx); err != nil {
		return nil, err
	}

	contents := &ledger.BlockContents{}
	for _, tm := range tms {
		contents.Outputs = append(contents.Outputs, txOutModelToLedger(tm))
	}
	for _, km := range kms {
		var img ledger.KeyImage
		copy(img[:], km.Image)
		contents.KeyImages = append(contents.KeyImages, img)
	}
	return contents, nil
}

// GetBlockSignatureBun returns the stored signature for a block index.
func GetBlockSignatureBun(bdb *bun.DB, index uint64) (*ledger.BlockSignature, error) {
	ctx := context.Background()
	var m BlockSignatureModel
	err := bdb.NewSelect().Model(&m).Where("block_idx = ?", int64(index)).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ledger.BlockSignature{
		Signature: append([]byte(nil), m.Signature...),
		PublicKey: append([]byte(nil), m.PublicKey...),
		Signer:    netid.ResponderID(m.Signer),
		SignedAt:  m.SignedAt,
	}, nil
}

// NumBlocksBun returns the number of stored blocks.
func NumBlocksBun(bdb *bun.DB) (uint64, error) {
	n, err := bdb.NewSelect().Model((*BlockModel)(nil)).Count(context.Background())
	return uint64(n), err
}

// NumTxOutsBun returns the number of stored txouts.
func NumTxOutsBun(bdb *bun.DB) (uint64, error) {
	n, err := bdb.NewSelect().Model((*TxOutModel)(nil)).Count(context.Background())
	return uint64(n), err
}

// GetTxOutsByBlockBun returns the outputs of the block at index, in
// block order.
func GetTxOutsByBlockBun(bdb *bun.DB, index uint64) ([]ledger.TxOut, error) {
	ctx := context.Background()
	if _, err := GetBlockBun(bdb, index); err != nil {
		return nil, err
	}
	var tms []TxOutModel
	if err := bdb.NewSelect().Model(&tms).Where("block_idx = ?", int64(index)).Order("position ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]ledger.TxOut, 0, len(tms))
	for _, tm := range tms {
		out = append(out, txOutModelToLedger(tm))
	}
	return out, nil
}

// GetTxOutByPublicKeyBun looks an output up by its tx public key.
func GetTxOutByPublicKeyBun(bdb *bun.DB, publicKey []byte) (*ledger.TxOut, error) {
	ctx := context.Background()
	var m TxOutModel
	err := bdb.NewSelect().Model(&m).Where("public_key = ?", publicKey).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := txOutModelToLedger(m)
	return &out, nil
}

// ContainsKeyImageBun reports whether a key image has been spent.
func ContainsKeyImageBun(bdb *bun.DB, image ledger.KeyImage) (bool, error) {
	n, err := bdb.NewSelect().Model((*KeyImageModel)(nil)).Where("image = ?", image[:]).Count(context.Background())
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
