// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package netid holds node identity types shared across the ledger.
package netid

import (
	"errors"
	"fmt"
	"net"
)

// ErrInvalidResponderID is returned when a responder ID is not of the
// host:port shape.
var ErrInvalidResponderID = errors.New("netid: invalid responder id")

// ResponderID uniquely identifies a node, expressed as host:port.
type ResponderID string

// ParseResponderID validates src as host:port and returns it as a
// ResponderID.
func ParseResponderID(src string) (ResponderID, error) {
	host, port, err := net.SplitHostPort(src)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidResponderID, src)
	}
	if host == "" || port == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidResponderID, src)
	}
	return ResponderID(src), nil
}

// String returns the host:port form.
func (r ResponderID) String() string { return string(r) }

// MarshalText implements encoding.TextMarshaler.
func (r ResponderID) MarshalText() ([]byte, error) { return []byte(r), nil }

// UnmarshalText implements encoding.TextUnmarshaler with validation.
func (r *ResponderID) UnmarshalText(text []byte) error {
	id, err := ParseResponderID(string(text))
	if err != nil {
		return err
	}
	*r = id
	return nil
}
