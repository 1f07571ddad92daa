// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package account implements account keys and public addresses.
//
// An account is rooted in a 32-byte SLIP-10 node key, expanded into two
// private keys by domain-separated HKDF: an X25519 view key (used to
// recognize and unmask incoming outputs) and an Ed25519 spend key (used
// to sign). Subaddresses are derived per-index from the same roots, so a
// single account can hand out unlinkable addresses.
package account

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/toeirei/ledgersmith/internal/security"
	"github.com/toeirei/ledgersmith/internal/sig"
	"github.com/toeirei/ledgersmith/internal/slip10"
)

// HKDF domain-separation tags. Changing any of these is a wire break.
const (
	viewKeyTag          = "ledgersmith-x25519-view"
	spendKeyTag         = "ledgersmith-ed25519-spend"
	subaddressViewTag   = "ledgersmith-subaddress-view"
	subaddressSpendTag  = "ledgersmith-subaddress-spend"
	fogAuthorityContext = "ledgersmith-fog-authority-sig"
)

// DefaultSubaddressIndex is the subaddress handed out when no explicit
// index is requested.
const DefaultSubaddressIndex uint64 = 0

var (
	// ErrBadKeyLength is returned for root key material of the wrong size.
	ErrBadKeyLength = errors.New("account: bad key length")
	// ErrFogInconsistent is returned when fog fields are set without a
	// report URL.
	ErrFogInconsistent = errors.New("account: fog report id or authority set without fog report url")
)

// AccountKey holds an account's private key material plus optional fog
// fields.
type AccountKey struct {
	viewPrivate  security.Secret // X25519 scalar (32 bytes)
	spendPrivate security.Secret // Ed25519 seed (32 bytes)

	fogReportURL     string
	fogReportID      string
	fogAuthoritySPKI []byte
}

// NewAccountKey builds an AccountKey from raw 32-byte view and spend
// private keys. The inputs are copied.
func NewAccountKey(viewPrivate, spendPrivate []byte) (*AccountKey, error) {
	if len(viewPrivate) != 32 || len(spendPrivate) != 32 {
		return nil, ErrBadKeyLength
	}
	return &AccountKey{
		viewPrivate:  security.FromBytes(viewPrivate),
		spendPrivate: security.FromBytes(spendPrivate),
	}, nil
}

// FromSlip10Key expands a 32-byte SLIP-10 node key into an AccountKey.
func FromSlip10Key(key []byte) (*AccountKey, error) {
	if len(key) != 32 {
		return nil, ErrBadKeyLength
	}
	view, err := hkdfExpand(key, viewKeyTag, nil, 32)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(view)
	spend, err := hkdfExpand(key, spendKeyTag, nil, 32)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(spend)
	return NewAccountKey(view, spend)
}

// FromMnemonic derives the AccountKey for a mnemonic and account index
// along m/44'/866'/account'.
func FromMnemonic(mnemonic string, accountIndex uint32) (*AccountKey, error) {
	seed, err := slip10.SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(seed)
	node, err := slip10.DeriveAccountNode(seed, accountIndex)
	if err != nil {
		return nil, err
	}
	defer node.Zero()
	key := node.Key()
	defer security.Wipe(key)
	return FromSlip10Key(key)
}

// SetFog attaches fog report fields. A report ID or authority SPKI
// without a report URL is rejected.
func (a *AccountKey) SetFog(reportURL, reportID string, authoritySPKI []byte) error {
	if reportURL == "" && (reportID != "" || len(authoritySPKI) > 0) {
		return ErrFogInconsistent
	}
	a.fogReportURL = reportURL
	a.fogReportID = reportID
	a.fogAuthoritySPKI = append([]byte(nil), authoritySPKI...)
	return nil
}

// HasFog reports whether a fog report URL is attached.
func (a *AccountKey) HasFog() bool { return a.fogReportURL != "" }

// FogReportURL returns the attached fog report URL, if any.
func (a *AccountKey) FogReportURL() string { return a.fogReportURL }

// FogReportID returns the attached fog report ID, if any.
func (a *AccountKey) FogReportID() string { return a.fogReportID }

// FogAuthoritySPKI returns a copy of the attached authority SPKI DER.
func (a *AccountKey) FogAuthoritySPKI() []byte {
	return append([]byte(nil), a.fogAuthoritySPKI...)
}

// ViewPublicKey returns the account's root X25519 view public key.
func (a *AccountKey) ViewPublicKey() ([]byte, error) {
	return curve25519.X25519(a.viewPrivate, curve25519.Basepoint)
}

// SpendPublicKey returns the account's root Ed25519 spend public key.
func (a *AccountKey) SpendPublicKey() ed25519.PublicKey {
	priv := ed25519.NewKeyFromSeed(a.spendPrivate)
	defer security.Wipe(priv)
	pub := priv.Public().(ed25519.PublicKey)
	return append(ed25519.PublicKey(nil), pub...)
}

// SubaddressViewPrivate derives the X25519 view private key for a
// subaddress index. Output scanning needs this key.
func (a *AccountKey) SubaddressViewPrivate(index uint64) (security.Secret, error) {
	out, err := hkdfExpand(a.viewPrivate, subaddressViewTag, indexInfo(index), 32)
	if err != nil {
		return nil, err
	}
	return security.Secret(out), nil
}

// SubaddressSpendPrivate derives the full Ed25519 spend private key for a
// subaddress index.
func (a *AccountKey) SubaddressSpendPrivate(index uint64) (ed25519.PrivateKey, error) {
	seed, err := hkdfExpand(a.spendPrivate, subaddressSpendTag, indexInfo(index), 32)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(seed)
	return ed25519.NewKeyFromSeed(seed), nil
}

// Subaddress builds the public address for a subaddress index. When fog
// fields are attached, the address carries a fog authority signature made
// with the subaddress spend key.
func (a *AccountKey) Subaddress(index uint64) (*PublicAddress, error) {
	viewPriv, err := a.SubaddressViewPrivate(index)
	if err != nil {
		return nil, err
	}
	defer viewPriv.Zero()
	viewPub, err := curve25519.X25519(viewPriv, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	spendPriv, err := a.SubaddressSpendPrivate(index)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(spendPriv)
	spendPub := append(ed25519.PublicKey(nil), spendPriv.Public().(ed25519.PublicKey)...)

	addr := &PublicAddress{
		ViewPublic:   viewPub,
		SpendPublic:  spendPub,
		FogReportURL: a.fogReportURL,
		FogReportID:  a.fogReportID,
	}
	if a.HasFog() && len(a.fogAuthoritySPKI) > 0 {
		authSig, err := sig.Sign(fogAuthorityContext, spendPriv, a.fogAuthoritySPKI)
		if err != nil {
			return nil, err
		}
		addr.FogAuthoritySig = authSig
	}
	return addr, nil
}

// DefaultSubaddress returns the address at DefaultSubaddressIndex.
func (a *AccountKey) DefaultSubaddress() (*PublicAddress, error) {
	return a.Subaddress(DefaultSubaddressIndex)
}

// Zero wipes the account's private key material.
func (a *AccountKey) Zero() {
	a.viewPrivate.Zero()
	a.spendPrivate.Zero()
}

// VerifyFogAuthoritySig checks the fog authority signature on addr
// against the authority SPKI it should cover.
func VerifyFogAuthoritySig(addr *PublicAddress, authoritySPKI []byte) error {
	return sig.Verify(fogAuthorityContext, ed25519.PublicKey(addr.SpendPublic), authoritySPKI, addr.FogAuthoritySig)
}

func hkdfExpand(key []byte, tag string, info []byte, outLen int) ([]byte, error) {
	reader := hkdf.New(sha512.New, key, []byte(tag), info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

func indexInfo(index uint64) []byte {
	var info [8]byte
	binary.LittleEndian.PutUint64(info[:], index)
	return info[:]
}
