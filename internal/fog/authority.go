// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package fog handles fog authority certificate material. A fog operator
// publishes an X.509 chain; accounts pin the root's SubjectPublicKeyInfo
// and sign it into their public addresses so report servers can prove
// authority over fog-enabled addresses.
package fog

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoCertificates is returned when the PEM input contains no
	// certificate blocks.
	ErrNoCertificates = errors.New("fog: no certificates in PEM input")
	// ErrBadChain is returned when the chain does not verify.
	ErrBadChain = errors.New("fog: certificate chain did not verify")
	// ErrExpired is returned when a certificate is outside its validity
	// window.
	ErrExpired = errors.New("fog: certificate outside validity window")
)

// ParseChainPEM extracts all CERTIFICATE blocks from pemData, in order.
func ParseChainPEM(pemData []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := pemData
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("fog: parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}
	return certs, nil
}

// VerifyChain checks that certs[0] is self-signed and each certificate
// signs the next, and that every certificate covers the given time.
func VerifyChain(certs []*x509.Certificate, now time.Time) error {
	if len(certs) == 0 {
		return ErrNoCertificates
	}
	for _, cert := range certs {
		if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
			return fmt.Errorf("%w: %q", ErrExpired, cert.Subject.CommonName)
		}
	}
	if err := certs[0].CheckSignatureFrom(certs[0]); err != nil {
		return fmt.Errorf("%w: root is not self-signed: %v", ErrBadChain, err)
	}
	for i := 0; i+1 < len(certs); i++ {
		if err := certs[i+1].CheckSignatureFrom(certs[i]); err != nil {
			return fmt.Errorf("%w: link %d: %v", ErrBadChain, i, err)
		}
	}
	return nil
}

// AuthoritySPKI parses and verifies a PEM chain and returns the root
// certificate's SubjectPublicKeyInfo in DER form. This is the value
// accounts pin as the fog authority.
func AuthoritySPKI(pemData []byte) ([]byte, error) {
	certs, err := ParseChainPEM(pemData)
	if err != nil {
		return nil, err
	}
	if err := VerifyChain(certs, time.Now()); err != nil {
		return nil, err
	}
	return append([]byte(nil), certs[0].RawSubjectPublicKeyInfo...), nil
}
