// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"crypto/ed25519"
	"time"

	"github.com/toeirei/ledgersmith/internal/netid"
	"github.com/toeirei/ledgersmith/internal/sig"
)

const blockSigContext = "ledgersmith-block-sig"

// BlockSignature attributes a block to the node that produced it.
type BlockSignature struct {
	Signature []byte            `json:"signature"`
	PublicKey []byte            `json:"public_key"`
	Signer    netid.ResponderID `json:"signer"`
	SignedAt  int64             `json:"signed_at"`
}

// SignBlock signs the block ID with the node's key.
func SignBlock(b *Block, priv ed25519.PrivateKey, signer netid.ResponderID) (*BlockSignature, error) {
	signature, err := sig.Sign(blockSigContext, priv, b.ID)
	if err != nil {
		return nil, err
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &BlockSignature{
		Signature: signature,
		PublicKey: append([]byte(nil), pub...),
		Signer:    signer,
		SignedAt:  time.Now().Unix(),
	}, nil
}

// Verify checks the signature against the block it claims to cover.
func (s *BlockSignature) Verify(b *Block) error {
	return sig.Verify(blockSigContext, ed25519.PublicKey(s.PublicKey), b.ID, s.Signature)
}
