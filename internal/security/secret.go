// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds the Secret wrapper used for sensitive material
// (mnemonics, private keys, passphrases). Secrets redact themselves in
// formatting, JSON and text encoding so key material cannot leak through
// logs or serialized state by accident.
package security

import (
	"crypto/subtle"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
)

// redacted is the placeholder emitted wherever a Secret would otherwise
// be rendered.
const redacted = "[REDACTED]"

// Secret wraps a byte slice holding sensitive material. The zero value is
// an empty secret.
type Secret []byte

// FromString wraps a string as a Secret.
func FromString(s string) Secret { return Secret([]byte(s)) }

// FromBytes wraps a copy of b as a Secret, so later mutation of b does not
// affect the secret.
func FromBytes(b []byte) Secret {
	out := make(Secret, len(b))
	copy(out, b)
	return out
}

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter so %v, %s, %#v and friends stay redacted.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, redacted)
}

// Bytes returns a copy of the underlying bytes. Callers are responsible
// for zeroing the copy when done.
func (s Secret) Bytes() []byte {
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// Len reports the length of the underlying material without exposing it.
func (s Secret) Len() int { return len(s) }

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool { return len(s) == 0 }

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare(s, other) == 1
}

// Zero overwrites the underlying bytes with zeros.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
}

// Use executes fn with the underlying bytes (not a copy). The slice must
// not be retained past the call.
func (s Secret) Use(fn func([]byte) error) error {
	return fn([]byte(s))
}

// MarshalJSON redacts secrets in JSON output.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// MarshalText redacts secrets in text encodings.
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Value implements driver.Valuer to store raw bytes as-is. Database storage
// is an explicit act, unlike formatting, so no redaction happens here.
func (s Secret) Value() (driver.Value, error) { return []byte(s), nil }

// Scan implements sql.Scanner to read bytes from the database into a Secret.
func (s *Secret) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*s = FromBytes(v)
		return nil
	case string:
		*s = FromString(v)
		return nil
	default:
		return fmt.Errorf("security: cannot scan %T into Secret", src)
	}
}

// Wipe zeroes b in place. It is a convenience for intermediate buffers that
// held key material but are not Secrets themselves.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
