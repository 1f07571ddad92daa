// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package keyfile

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/toeirei/ledgersmith/internal/security"
)

const (
	envelopeVersion = 1
	saltSize        = 16
	envelopePrefix  = "LSENC1\n"
)

var (
	// ErrAuthFailed is returned when the passphrase does not match.
	ErrAuthFailed = errors.New("keyfile: passphrase authentication failed")
	// ErrBadEnvelope is returned when encrypted data is malformed.
	ErrBadEnvelope = errors.New("keyfile: invalid encrypted envelope")
	// ErrNotEncrypted is returned when plaintext data is passed to a
	// decryption routine.
	ErrNotEncrypted = errors.New("keyfile: data is not an encrypted envelope")
)

// envelope is the encrypted keyfile container. KDF parameters travel
// with the ciphertext so they can be tightened later without breaking
// old files.
type envelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// IsEncrypted reports whether data looks like an encrypted keyfile.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(envelopePrefix))
}

// Encrypt seals plaintext under a passphrase using argon2id and
// XChaCha20-Poly1305.
func Encrypt(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, salt)
	defer security.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	env := envelope{
		Version:     envelopeVersion,
		KDF:         "argon2id",
		KDFTime:     2,
		KDFMemoryKB: 64 * 1024,
		KDFThreads:  1,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, plaintext, nil),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("keyfile: encode envelope: %w", err)
	}
	return append([]byte(envelopePrefix), raw...), nil
}

// Decrypt opens an encrypted envelope with the given passphrase.
func Decrypt(passphrase string, data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, ErrNotEncrypted
	}
	var env envelope
	if err := json.Unmarshal(data[len(envelopePrefix):], &env); err != nil {
		return nil, ErrBadEnvelope
	}
	if env.Version != envelopeVersion || env.KDF != "argon2id" {
		return nil, ErrBadEnvelope
	}
	// aead.Open panics on a wrong-length nonce, so reject it here.
	if len(env.Nonce) != chacha20poly1305.NonceSizeX || len(env.Salt) != saltSize {
		return nil, ErrBadEnvelope
	}
	key := argon2.IDKey([]byte(passphrase), env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads, chacha20poly1305.KeySize)
	defer security.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// WriteEncrypted stores a keyfile sealed under a passphrase.
func WriteEncrypted(path, passphrase string, k *Keyfile) error {
	if err := k.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(k)
	if err != nil {
		return fmt.Errorf("keyfile: encode: %w", err)
	}
	defer security.Wipe(raw)
	sealed, err := Encrypt(passphrase, raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, sealed, 0600)
}

// ReadEncrypted loads a passphrase-sealed keyfile from disk.
func ReadEncrypted(path, passphrase string) (*Keyfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := Decrypt(passphrase, data)
	if err != nil {
		return nil, err
	}
	defer security.Wipe(raw)
	return ReadKeyfileData(bytes.NewReader(raw))
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 2, 64*1024, 1, chacha20poly1305.KeySize)
}
