package units

import (
	"errors"
	"math"
	"testing"
)

func TestDenominations(t *testing.T) {
	if Nano != 1_000 {
		t.Fatalf("Nano = %d", uint64(Nano))
	}
	if Coin != 1_000_000_000_000 {
		t.Fatalf("Coin = %d", uint64(Coin))
	}
	if Giga != 1_000_000_000*Coin {
		t.Fatalf("Giga = %d", uint64(Giga))
	}
}

func TestCheckedAdd(t *testing.T) {
	sum, err := Coin.CheckedAdd(Milli)
	if err != nil {
		t.Fatalf("CheckedAdd failed: %v", err)
	}
	if sum != 1_001_000_000_000 {
		t.Fatalf("sum = %d", uint64(sum))
	}
	if _, err := Amount(math.MaxUint64).CheckedAdd(1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestCheckedMul(t *testing.T) {
	prod, err := Coin.CheckedMul(3)
	if err != nil {
		t.Fatalf("CheckedMul failed: %v", err)
	}
	if prod != 3*Coin {
		t.Fatalf("prod = %d", uint64(prod))
	}
	if _, err := Giga.CheckedMul(math.MaxUint64 / 2); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	zero, err := Amount(0).CheckedMul(math.MaxUint64)
	if err != nil || zero != 0 {
		t.Fatalf("zero multiply: %d, %v", uint64(zero), err)
	}
}

func TestString(t *testing.T) {
	cases := map[Amount]string{
		0:               "0",
		Coin:            "1",
		Coin + Coin/2:   "1.5",
		Pico:            "0.000000000001",
		250 * Milli:     "0.25",
		42*Coin + Micro: "42.000001",
	}
	for amt, want := range cases {
		if got := amt.String(); got != want {
			t.Fatalf("Amount(%d).String() = %q, want %q", uint64(amt), got, want)
		}
	}
}
