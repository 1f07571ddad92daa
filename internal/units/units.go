// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package units defines the monetary amounts used throughout the ledger.
// The base unit is the picocoin (1e-12 of a coin); all ledger values are
// held as unsigned 64-bit picocoin counts, the same way time.Duration
// holds nanoseconds.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// Amount is a quantity of money in picocoins.
type Amount uint64

// Named denominations.
const (
	Pico  Amount = 1
	Nano         = 1_000 * Pico
	Micro        = 1_000 * Nano
	Milli        = 1_000 * Micro
	Coin         = 1_000 * Milli
	Kilo         = 1_000 * Coin
	Mega         = 1_000 * Kilo
	Giga         = 1_000 * Mega
)

// ErrOverflow is returned when an arithmetic helper would wrap around.
var ErrOverflow = errors.New("units: amount overflow")

// CheckedAdd returns a+b or ErrOverflow.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}

// CheckedMul returns a*n or ErrOverflow.
func (a Amount) CheckedMul(n uint64) (Amount, error) {
	if a == 0 || n == 0 {
		return 0, nil
	}
	prod := a * Amount(n)
	if prod/Amount(n) != a {
		return 0, ErrOverflow
	}
	return prod, nil
}

// Coins returns the amount as a floating point number of whole coins.
// Use only for display; ledger arithmetic stays in picocoins.
func (a Amount) Coins() float64 {
	return float64(a) / float64(Coin)
}

// String renders the amount as a decimal coin value with trailing zeros
// trimmed, e.g. "1.5" for 1_500_000_000_000 picocoins.
func (a Amount) String() string {
	whole := uint64(a / Coin)
	frac := uint64(a % Coin)
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	s := strings.TrimRight(fmt.Sprintf("%012d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, s)
}
