// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slip10 implements BIP-39 mnemonic handling and the SLIP-10
// Ed25519 key hierarchy used to derive account keys. Only hardened
// derivation exists for Ed25519, so every child index is hardened
// implicitly.
package slip10

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"

	"github.com/toeirei/ledgersmith/internal/security"
)

// Account keys live at m/44'/866'/account'.
const (
	PurposeBIP44 uint32 = 44
	CoinType     uint32 = 866
)

// hardenedOffset marks an index as hardened per SLIP-10.
const hardenedOffset uint32 = 0x8000_0000

// masterKeySalt is the HMAC key for the master node, fixed by SLIP-10.
var masterKeySalt = []byte("ed25519 seed")

// ErrShortSeed is returned for seeds under 16 bytes.
var ErrShortSeed = errors.New("slip10: seed too short")

// Node is one node of the SLIP-10 hierarchy, holding a 32-byte private
// key and a 32-byte chain code.
type Node struct {
	key       security.Secret
	chainCode security.Secret
}

// FromSeed computes the master node for a BIP-39 seed.
func FromSeed(seed []byte) (*Node, error) {
	if len(seed) < 16 {
		return nil, ErrShortSeed
	}
	mac := hmac.New(sha512.New, masterKeySalt)
	mac.Write(seed)
	sum := mac.Sum(nil)
	defer security.Wipe(sum)
	return &Node{
		key:       security.FromBytes(sum[:32]),
		chainCode: security.FromBytes(sum[32:]),
	}, nil
}

// Derive returns the hardened child node at index. The hardened bit is
// applied here; callers pass plain indexes.
func (n *Node) Derive(index uint32) *Node {
	mac := hmac.New(sha512.New, n.chainCode)
	mac.Write([]byte{0x00})
	mac.Write(n.key)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index|hardenedOffset)
	mac.Write(idx[:])
	sum := mac.Sum(nil)
	defer security.Wipe(sum)
	return &Node{
		key:       security.FromBytes(sum[:32]),
		chainCode: security.FromBytes(sum[32:]),
	}
}

// DerivePath derives along a sequence of hardened indexes.
func (n *Node) DerivePath(indexes ...uint32) *Node {
	node := n
	for _, idx := range indexes {
		child := node.Derive(idx)
		if node != n {
			node.Zero()
		}
		node = child
	}
	return node
}

// Key returns a copy of the node's 32-byte private key.
func (n *Node) Key() []byte { return n.key.Bytes() }

// Zero wipes the node's key material.
func (n *Node) Zero() {
	n.key.Zero()
	n.chainCode.Zero()
}

// DeriveAccountNode derives the account-level node m/44'/866'/account'
// from a BIP-39 seed.
func DeriveAccountNode(seed []byte, accountIndex uint32) (*Node, error) {
	master, err := FromSeed(seed)
	if err != nil {
		return nil, err
	}
	defer master.Zero()
	return master.DerivePath(PurposeBIP44, CoinType, accountIndex), nil
}
