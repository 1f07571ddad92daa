// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package account

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Binary address layout: magic, version, fixed keys, then length-framed
// fog fields. The layout is deterministic so pubfiles are byte-stable.
var addressMagic = []byte("LSPA")

const (
	addressVersion  = 1
	addressChecksum = 4
)

var (
	// ErrBadAddress is returned for malformed binary or base58 addresses.
	ErrBadAddress = errors.New("account: malformed public address")
	// ErrBadChecksum is returned when a base58 address fails its checksum.
	ErrBadChecksum = errors.New("account: public address checksum mismatch")
)

// PublicAddress is the shareable half of a subaddress: the X25519 view
// public key, the Ed25519 spend public key, and optional fog report
// routing fields.
type PublicAddress struct {
	ViewPublic  []byte
	SpendPublic []byte

	FogReportURL    string
	FogReportID     string
	FogAuthoritySig []byte
}

// HasFog reports whether the address carries fog routing fields.
func (p *PublicAddress) HasFog() bool { return p.FogReportURL != "" }

// Equal reports whether two addresses are identical field for field.
func (p *PublicAddress) Equal(other *PublicAddress) bool {
	if p == nil || other == nil {
		return p == other
	}
	return bytes.Equal(p.ViewPublic, other.ViewPublic) &&
		bytes.Equal(p.SpendPublic, other.SpendPublic) &&
		p.FogReportURL == other.FogReportURL &&
		p.FogReportID == other.FogReportID &&
		bytes.Equal(p.FogAuthoritySig, other.FogAuthoritySig)
}

// MarshalBinary encodes the address deterministically.
func (p *PublicAddress) MarshalBinary() ([]byte, error) {
	if len(p.ViewPublic) != 32 || len(p.SpendPublic) != 32 {
		return nil, ErrBadAddress
	}
	var buf bytes.Buffer
	buf.Write(addressMagic)
	buf.WriteByte(addressVersion)
	buf.Write(p.ViewPublic)
	buf.Write(p.SpendPublic)
	writeFramed(&buf, []byte(p.FogReportURL))
	writeFramed(&buf, []byte(p.FogReportID))
	writeFramed(&buf, p.FogAuthoritySig)
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes an address written by MarshalBinary.
func (p *PublicAddress) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	magic := make([]byte, len(addressMagic))
	if _, err := r.Read(magic); err != nil || !bytes.Equal(magic, addressMagic) {
		return ErrBadAddress
	}
	version, err := r.ReadByte()
	if err != nil {
		return ErrBadAddress
	}
	if version != addressVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrBadAddress, version)
	}
	view := make([]byte, 32)
	spend := make([]byte, 32)
	if _, err := io.ReadFull(r, view); err != nil {
		return ErrBadAddress
	}
	if _, err := io.ReadFull(r, spend); err != nil {
		return ErrBadAddress
	}
	url, err := readFramed(r)
	if err != nil {
		return ErrBadAddress
	}
	id, err := readFramed(r)
	if err != nil {
		return ErrBadAddress
	}
	authSig, err := readFramed(r)
	if err != nil {
		return ErrBadAddress
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: trailing bytes", ErrBadAddress)
	}
	p.ViewPublic = view
	p.SpendPublic = spend
	p.FogReportURL = string(url)
	p.FogReportID = string(id)
	if len(authSig) > 0 {
		p.FogAuthoritySig = authSig
	} else {
		p.FogAuthoritySig = nil
	}
	return nil
}

// B58 renders the address as base58 with a 4-byte BLAKE2b checksum
// prefix, for human exchange.
func (p *PublicAddress) B58() (string, error) {
	payload, err := p.MarshalBinary()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(payload)
	return base58.Encode(append(sum[:addressChecksum], payload...)), nil
}

// ParseB58 decodes and checksum-verifies a base58 address.
func ParseB58(s string) (*PublicAddress, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAddress, err)
	}
	if len(raw) <= addressChecksum {
		return nil, ErrBadAddress
	}
	payload := raw[addressChecksum:]
	sum := blake2b.Sum256(payload)
	if !bytes.Equal(sum[:addressChecksum], raw[:addressChecksum]) {
		return nil, ErrBadChecksum
	}
	var addr PublicAddress
	if err := addr.UnmarshalBinary(payload); err != nil {
		return nil, err
	}
	return &addr, nil
}

func writeFramed(buf *bytes.Buffer, b []byte) {
	var frame [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(frame[:], uint64(len(b)))
	buf.Write(frame[:n])
	buf.Write(b)
}

func readFramed(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, ErrBadAddress
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
