package account

import (
	"bytes"
	"errors"
	"testing"

	"github.com/toeirei/ledgersmith/internal/slip10"
	"github.com/toeirei/ledgersmith/internal/testutil"
)

func testMnemonic(t *testing.T, rng *testutil.Rand) string {
	t.Helper()
	m, err := slip10.MnemonicFromEntropyReader(rng, 256)
	if err != nil {
		t.Fatalf("mnemonic generation failed: %v", err)
	}
	return m
}

func TestFromMnemonicDeterministic(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		mnemonic := testMnemonic(t, rng)
		a, err := FromMnemonic(mnemonic, 0)
		if err != nil {
			t.Fatalf("FromMnemonic failed: %v", err)
		}
		b, err := FromMnemonic(mnemonic, 0)
		if err != nil {
			t.Fatalf("FromMnemonic failed: %v", err)
		}
		addrA, err := a.DefaultSubaddress()
		if err != nil {
			t.Fatalf("DefaultSubaddress failed: %v", err)
		}
		addrB, err := b.DefaultSubaddress()
		if err != nil {
			t.Fatalf("DefaultSubaddress failed: %v", err)
		}
		if !addrA.Equal(addrB) {
			t.Fatal("identical mnemonics produced different addresses")
		}
	})
}

func TestAccountIndexesDiffer(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		mnemonic := testMnemonic(t, rng)
		a, err := FromMnemonic(mnemonic, 0)
		if err != nil {
			t.Fatalf("FromMnemonic failed: %v", err)
		}
		b, err := FromMnemonic(mnemonic, 1)
		if err != nil {
			t.Fatalf("FromMnemonic failed: %v", err)
		}
		if bytes.Equal(a.SpendPublicKey(), b.SpendPublicKey()) {
			t.Fatal("distinct account indexes share a spend key")
		}
	})
}

func TestSubaddressesDiffer(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		mnemonic := testMnemonic(t, rng)
		a, err := FromMnemonic(mnemonic, 0)
		if err != nil {
			t.Fatalf("FromMnemonic failed: %v", err)
		}
		s0, err := a.Subaddress(0)
		if err != nil {
			t.Fatalf("Subaddress(0) failed: %v", err)
		}
		s1, err := a.Subaddress(1)
		if err != nil {
			t.Fatalf("Subaddress(1) failed: %v", err)
		}
		if s0.Equal(s1) {
			t.Fatal("distinct subaddress indexes produced identical addresses")
		}
	})
}

func TestFromSlip10KeyRejectsBadLength(t *testing.T) {
	if _, err := FromSlip10Key([]byte{1, 2, 3}); !errors.Is(err, ErrBadKeyLength) {
		t.Fatalf("expected ErrBadKeyLength, got %v", err)
	}
	if _, err := NewAccountKey(make([]byte, 32), make([]byte, 16)); !errors.Is(err, ErrBadKeyLength) {
		t.Fatalf("expected ErrBadKeyLength, got %v", err)
	}
}

func TestSetFogValidation(t *testing.T) {
	a, err := NewAccountKey(make([]byte, 32), make([]byte, 32))
	if err != nil {
		t.Fatalf("NewAccountKey failed: %v", err)
	}
	if err := a.SetFog("", "1", nil); !errors.Is(err, ErrFogInconsistent) {
		t.Fatalf("expected ErrFogInconsistent, got %v", err)
	}
	if err := a.SetFog("", "", []byte{1}); !errors.Is(err, ErrFogInconsistent) {
		t.Fatalf("expected ErrFogInconsistent, got %v", err)
	}
	if err := a.SetFog("fog://fog.example.com", "1", []byte{1, 2}); err != nil {
		t.Fatalf("SetFog failed: %v", err)
	}
	if !a.HasFog() {
		t.Fatal("HasFog should be true after SetFog")
	}
}

func TestFogAuthoritySignature(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		mnemonic := testMnemonic(t, rng)
		a, err := FromMnemonic(mnemonic, 0)
		if err != nil {
			t.Fatalf("FromMnemonic failed: %v", err)
		}
		spki := rng.Bytes(64)
		if err := a.SetFog("fog://fog.example.com", "1", spki); err != nil {
			t.Fatalf("SetFog failed: %v", err)
		}
		addr, err := a.DefaultSubaddress()
		if err != nil {
			t.Fatalf("DefaultSubaddress failed: %v", err)
		}
		if len(addr.FogAuthoritySig) == 0 {
			t.Fatal("expected fog authority signature on address")
		}
		if err := VerifyFogAuthoritySig(addr, spki); err != nil {
			t.Fatalf("fog authority signature did not verify: %v", err)
		}
		if err := VerifyFogAuthoritySig(addr, rng.Bytes(64)); err == nil {
			t.Fatal("fog authority signature verified against wrong SPKI")
		}
	})
}

func TestZeroWipesKeys(t *testing.T) {
	a, err := NewAccountKey(bytes.Repeat([]byte{7}, 32), bytes.Repeat([]byte{9}, 32))
	if err != nil {
		t.Fatalf("NewAccountKey failed: %v", err)
	}
	a.Zero()
	if !a.viewPrivate.Equal(make([]byte, 32)) || !a.spendPrivate.Equal(make([]byte, 32)) {
		t.Fatal("Zero did not wipe private keys")
	}
}
