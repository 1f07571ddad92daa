package slip10

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/ledgersmith/internal/testutil"
)

// SLIP-10 Ed25519 test vector 1 (seed 000102030405060708090a0b0c0d0e0f).
func TestSlip10Vector1(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	master, err := FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed failed: %v", err)
	}
	wantMaster := "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7"
	if got := hex.EncodeToString(master.Key()); got != wantMaster {
		t.Fatalf("master key = %s, want %s", got, wantMaster)
	}

	// m/0'
	child := master.Derive(0)
	wantChild := "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3"
	if got := hex.EncodeToString(child.Key()); got != wantChild {
		t.Fatalf("m/0' key = %s, want %s", got, wantChild)
	}

	// m/0'/1'
	grandchild := child.Derive(1)
	wantGrandchild := "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2"
	if got := hex.EncodeToString(grandchild.Key()); got != wantGrandchild {
		t.Fatalf("m/0'/1' key = %s, want %s", got, wantGrandchild)
	}
}

func TestDerivePathMatchesStepwise(t *testing.T) {
	seed, _ := hex.DecodeString("fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeaba8a5a29f9c999693908d8a8784817e7b7875726f6c696663605d5a5754514e4b484542")
	master, err := FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed failed: %v", err)
	}
	stepwise := master.Derive(PurposeBIP44).Derive(CoinType).Derive(3)
	path := master.DerivePath(PurposeBIP44, CoinType, 3)
	if !bytes.Equal(stepwise.Key(), path.Key()) {
		t.Fatal("DerivePath differs from stepwise derivation")
	}
}

func TestFromSeedRejectsShortSeed(t *testing.T) {
	if _, err := FromSeed([]byte("short")); !errors.Is(err, ErrShortSeed) {
		t.Fatalf("expected ErrShortSeed, got %v", err)
	}
}

func TestDeriveAccountNodeDeterministic(t *testing.T) {
	mnemonic, err := NewMnemonic(256)
	if err != nil {
		t.Fatalf("NewMnemonic failed: %v", err)
	}
	seed, err := SeedFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("SeedFromMnemonic failed: %v", err)
	}
	a, err := DeriveAccountNode(seed, 0)
	if err != nil {
		t.Fatalf("DeriveAccountNode failed: %v", err)
	}
	b, err := DeriveAccountNode(seed, 0)
	if err != nil {
		t.Fatalf("DeriveAccountNode failed: %v", err)
	}
	if !bytes.Equal(a.Key(), b.Key()) {
		t.Fatal("account derivation is not deterministic")
	}
	other, err := DeriveAccountNode(seed, 1)
	if err != nil {
		t.Fatalf("DeriveAccountNode failed: %v", err)
	}
	if bytes.Equal(a.Key(), other.Key()) {
		t.Fatal("distinct account indexes produced identical keys")
	}
}

func TestMnemonicValidation(t *testing.T) {
	m, err := NewMnemonic(128)
	if err != nil {
		t.Fatalf("NewMnemonic failed: %v", err)
	}
	if !ValidateMnemonic(m) {
		t.Fatal("fresh mnemonic failed validation")
	}
	if !ValidateMnemonic("  " + strings.ReplaceAll(m, " ", "   ") + " ") {
		t.Fatal("whitespace normalization not applied")
	}
	if ValidateMnemonic("zebra zebra zebra") {
		t.Fatal("junk phrase passed validation")
	}
	if _, err := SeedFromMnemonic("zebra zebra zebra"); !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
}

func TestNewMnemonicRejectsBadBits(t *testing.T) {
	if _, err := NewMnemonic(100); !errors.Is(err, ErrEntropyBits) {
		t.Fatalf("expected ErrEntropyBits, got %v", err)
	}
}

func TestMnemonicFromEntropyReaderDeterministic(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		seed := rng.Uint64()
		m1, err := MnemonicFromEntropyReader(testutil.NewRand(seed), 256)
		if err != nil {
			t.Fatalf("MnemonicFromEntropyReader failed: %v", err)
		}
		m2, err := MnemonicFromEntropyReader(testutil.NewRand(seed), 256)
		if err != nil {
			t.Fatalf("MnemonicFromEntropyReader failed: %v", err)
		}
		if m1 != m2 {
			t.Fatal("deterministic entropy produced different mnemonics")
		}
		if !ValidateMnemonic(m1) {
			t.Fatal("generated mnemonic is invalid")
		}
	})
}
