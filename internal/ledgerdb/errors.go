// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ledgerdb contains shared database errors and helpers.
package ledgerdb

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicate is returned when attempting to insert a record that
	// already exists (a replayed txout public key or key image).
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when a block, txout or signature does not
	// exist.
	ErrNotFound = errors.New("record not found")
	// ErrLedgerNotEmpty is returned when importing an archive into a
	// ledger that already has blocks.
	ErrLedgerNotEmpty = errors.New("ledger is not empty")
)

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors. This is a conservative,
// string-based mapping to avoid importing SQL driver packages here.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite
	// unique constraint.
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
