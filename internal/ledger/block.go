// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cbergoon/merkletree"
	"golang.org/x/crypto/blake2b"
)

// BlockVersion is the only block format version currently written.
const BlockVersion uint32 = 1

const blockIDTag = "ledgersmith-block-id"

var (
	// ErrNoOutputs is returned for block contents without outputs.
	ErrNoOutputs = errors.New("ledger: block contents have no outputs")
	// ErrOriginKeyImages is returned when an origin block carries key
	// images.
	ErrOriginKeyImages = errors.New("ledger: origin block must not contain key images")
	// ErrBlockMismatch is returned when a block's hashes do not match its
	// contents.
	ErrBlockMismatch = errors.New("ledger: block does not match its contents")
	// ErrBrokenChain is returned when two blocks do not link up.
	ErrBrokenChain = errors.New("ledger: broken block chain")
)

// BlockID identifies a block. It is the digest of the block header
// fields, so it commits to the whole chain behind it.
type BlockID []byte

// Equal reports whether two block IDs are the same digest.
func (id BlockID) Equal(other BlockID) bool { return bytes.Equal(id, other) }

// BlockContents is the payload of a block: the outputs it mints and the
// key images it spends.
type BlockContents struct {
	KeyImages []KeyImage `json:"key_images,omitempty"`
	Outputs   []TxOut    `json:"outputs"`
}

// Hash returns the contents digest: the merkle root over the output
// hashes, folded with a digest of the key images.
func (c *BlockContents) Hash() ([]byte, error) {
	if len(c.Outputs) == 0 {
		return nil, ErrNoOutputs
	}
	leaves := make([]merkletree.Content, 0, len(c.Outputs))
	for i := range c.Outputs {
		leaves = append(leaves, txoLeaf(c.Outputs[i].Hash()))
	}
	tree, err := merkletree.NewTree(leaves)
	if err != nil {
		return nil, fmt.Errorf("ledger: merkle tree: %w", err)
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	h.Write(tree.MerkleRoot())
	for i := range c.KeyImages {
		h.Write(c.KeyImages[i][:])
	}
	return h.Sum(nil), nil
}

// txoLeaf adapts a txout hash to the merkle tree content interface.
type txoLeaf []byte

func (l txoLeaf) CalculateHash() ([]byte, error) {
	sum := blake2b.Sum256(l)
	return sum[:], nil
}

func (l txoLeaf) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(txoLeaf)
	if !ok {
		return false, errors.New("ledger: merkle content type mismatch")
	}
	return bytes.Equal(l, o), nil
}

// Block is a ledger block header.
type Block struct {
	ID                   BlockID `json:"id"`
	Version              uint32  `json:"version"`
	ParentID             BlockID `json:"parent_id"`
	Index                uint64  `json:"index"`
	CumulativeTxOutCount uint64  `json:"cumulative_txout_count"`
	ContentsHash         []byte  `json:"contents_hash"`
}

// NewOriginBlock builds the block at index zero. Origin contents mint
// the initial outputs and must not spend anything.
func NewOriginBlock(contents *BlockContents) (*Block, error) {
	if len(contents.KeyImages) != 0 {
		return nil, ErrOriginKeyImages
	}
	contentsHash, err := contents.Hash()
	if err != nil {
		return nil, err
	}
	b := &Block{
		Version:              BlockVersion,
		ParentID:             make(BlockID, blake2b.Size256),
		Index:                0,
		CumulativeTxOutCount: uint64(len(contents.Outputs)),
		ContentsHash:         contentsHash,
	}
	b.ID = b.computeID()
	return b, nil
}

// NewBlock builds the child of parent holding the given contents.
func NewBlock(parent *Block, contents *BlockContents) (*Block, error) {
	contentsHash, err := contents.Hash()
	if err != nil {
		return nil, err
	}
	b := &Block{
		Version:              BlockVersion,
		ParentID:             append(BlockID(nil), parent.ID...),
		Index:                parent.Index + 1,
		CumulativeTxOutCount: parent.CumulativeTxOutCount + uint64(len(contents.Outputs)),
		ContentsHash:         contentsHash,
	}
	b.ID = b.computeID()
	return b, nil
}

func (b *Block) computeID() BlockID {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(blockIDTag))
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], b.Version)
	h.Write(buf[:])
	h.Write(b.ParentID)
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], b.Index)
	h.Write(idx[:])
	var cum [8]byte
	binary.LittleEndian.PutUint64(cum[:], b.CumulativeTxOutCount)
	h.Write(cum[:])
	h.Write(b.ContentsHash)
	return h.Sum(nil)
}

// Verify recomputes the block's hashes against its contents.
func (b *Block) Verify(contents *BlockContents) error {
	if b.Index == 0 && len(contents.KeyImages) != 0 {
		return ErrOriginKeyImages
	}
	contentsHash, err := contents.Hash()
	if err != nil {
		return err
	}
	if !bytes.Equal(contentsHash, b.ContentsHash) {
		return fmt.Errorf("%w: contents hash", ErrBlockMismatch)
	}
	if !b.ID.Equal(b.computeID()) {
		return fmt.Errorf("%w: block id", ErrBlockMismatch)
	}
	return nil
}

// ValidateContinuity checks that child directly extends parent.
func ValidateContinuity(parent, child *Block) error {
	if child.Index != parent.Index+1 {
		return fmt.Errorf("%w: index %d does not follow %d", ErrBrokenChain, child.Index, parent.Index)
	}
	if !child.ParentID.Equal(parent.ID) {
		return fmt.Errorf("%w: parent id mismatch at index %d", ErrBrokenChain, child.Index)
	}
	if child.CumulativeTxOutCount < parent.CumulativeTxOutCount {
		return fmt.Errorf("%w: cumulative txout count shrank at index %d", ErrBrokenChain, child.Index)
	}
	return nil
}

// ValidateChain checks continuity across an ordered run of blocks and
// that the first block is a well-formed start (origin when index 0).
func ValidateChain(blocks []*Block) error {
	if len(blocks) == 0 {
		return nil
	}
	if blocks[0].Index == 0 && !blocks[0].ParentID.Equal(make(BlockID, blake2b.Size256)) {
		return fmt.Errorf("%w: origin block has a parent", ErrBrokenChain)
	}
	for i := 1; i < len(blocks); i++ {
		if err := ValidateContinuity(blocks[i-1], blocks[i]); err != nil {
			return err
		}
	}
	return nil
}
