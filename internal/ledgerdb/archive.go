// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledgerdb

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/toeirei/ledgersmith/internal/ledger"
)

// Archive is a full copy of a ledger, suitable for transfer between
// stores or for cold storage.
type Archive struct {
	ArchiveID string         `json:"archive_id"`
	CreatedAt time.Time      `json:"created_at"`
	Blocks    []ArchiveBlock `json:"blocks"`
}

// ArchiveBlock bundles a block with its contents and signature.
type ArchiveBlock struct {
	Block     *ledger.Block          `json:"block"`
	Contents  *ledger.BlockContents  `json:"contents"`
	Signature *ledger.BlockSignature `json:"signature,omitempty"`
}

// exportArchive reads the whole ledger out of st, in chain order.
func exportArchive(st Store) (*Archive, error) {
	n, err := st.NumBlocks()
	if err != nil {
		return nil, fmt.Errorf("count blocks: %w", err)
	}
	archive := &Archive{
		ArchiveID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	for i := uint64(0); i < n; i++ {
		block, err := st.GetBlock(i)
		if err != nil {
			return nil, fmt.Errorf("export block %d: %w", i, err)
		}
		contents, err := st.GetBlockContents(i)
		if err != nil {
			return nil, fmt.Errorf("export block %d contents: %w", i, err)
		}
		blockSig, err := st.GetBlockSignature(i)
		if err != nil && err != ErrNotFound {
			return nil, fmt.Errorf("export block %d signature: %w", i, err)
		}
		archive.Blocks = append(archive.Blocks, ArchiveBlock{
			Block:     block,
			Contents:  contents,
			Signature: blockSig,
		})
	}
	return archive, nil
}

// importArchive validates the archived chain and appends it into an
// empty store.
func importArchive(st Store, archive *Archive) error {
	n, err := st.NumBlocks()
	if err != nil {
		return fmt.Errorf("count blocks: %w", err)
	}
	if n != 0 {
		return ErrLedgerNotEmpty
	}
	blocks := make([]*ledger.Block, 0, len(archive.Blocks))
	for _, ab := range archive.Blocks {
		if err := ab.Block.Verify(ab.Contents); err != nil {
			return fmt.Errorf("archive block %d: %w", ab.Block.Index, err)
		}
		blocks = append(blocks, ab.Block)
	}
	if err := ledger.ValidateChain(blocks); err != nil {
		return err
	}
	for _, ab := range archive.Blocks {
		if err := st.AppendBlock(ab.Block, ab.Contents, ab.Signature); err != nil {
			return fmt.Errorf("import block %d: %w", ab.Block.Index, err)
		}
	}
	return nil
}

// WriteArchive writes a zstd-compressed JSON archive to w.
func WriteArchive(archive *Archive, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	return zw.Close()
}

// ExportArchiveToWriter exports the store's ledger and writes it as a
// compressed archive in one step.
func ExportArchiveToWriter(st Store, w io.Writer) (*Archive, error) {
	archive, err := st.ExportArchive()
	if err != nil {
		return nil, err
	}
	if err := WriteArchive(archive, w); err != nil {
		return nil, err
	}
	return archive, nil
}

// ImportArchiveFromReader reads a compressed archive and imports it into
// the store.
func ImportArchiveFromReader(st Store, r io.Reader) (*Archive, error) {
	archive, err := ReadArchive(r)
	if err != nil {
		return nil, err
	}
	if err := st.ImportArchive(archive); err != nil {
		return nil, err
	}
	return archive, nil
}

// ReadArchive reads a zstd-compressed JSON archive from r.
func ReadArchive(r io.Reader) (*Archive, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var archive Archive
	if err := json.NewDecoder(zr).Decode(&archive); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	return &archive, nil
}
