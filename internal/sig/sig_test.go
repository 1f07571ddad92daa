package sig

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/toeirei/ledgersmith/internal/testutil"
)

func TestSignVerify(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		pub, priv := testutil.Ed25519Keypair(t, rng)
		s, err := Sign("test", priv, []byte("foobar"))
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if err := Verify("test", pub, []byte("foobar"), s); err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
	})
}

func TestSignDeterministic(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		_, priv := testutil.Ed25519Keypair(t, rng)
		s1, err := Sign("test", priv, []byte("foobar"))
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		s2, err := Sign("test", priv, []byte("foobar"))
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if !bytes.Equal(s1, s2) {
			t.Fatal("signatures over identical inputs differ")
		}
	})
}

func TestVerifyFailsWithWrongKey(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		pub, _ := testutil.Ed25519Keypair(t, rng)
		_, priv2 := testutil.Ed25519Keypair(t, rng)
		s, err := Sign("test", priv2, []byte("foobar"))
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if err := Verify("test", pub, []byte("foobar"), s); !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("expected verification failure, got %v", err)
		}
	})
}

func TestVerifyFailsWithWrongMessage(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		pub, priv := testutil.Ed25519Keypair(t, rng)
		s, err := Sign("test", priv, []byte("foobar"))
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if err := Verify("test", pub, []byte("foobarbaz"), s); !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("expected verification failure, got %v", err)
		}
	})
}

func TestVerifyFailsWithWrongContext(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		pub, priv := testutil.Ed25519Keypair(t, rng)
		s, err := Sign("test", priv, []byte("foobar"))
		if err != nil {
			t.Fatalf("Sign failed: %v", err)
		}
		if err := Verify("prod", pub, []byte("foobar"), s); !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("expected verification failure, got %v", err)
		}
	})
}

func TestBadLengths(t *testing.T) {
	if _, err := Sign("test", ed25519.PrivateKey{1, 2, 3}, []byte("m")); !errors.Is(err, ErrBadKey) {
		t.Fatalf("expected ErrBadKey, got %v", err)
	}
	if err := Verify("test", ed25519.PublicKey{1}, []byte("m"), make([]byte, SignatureSize)); !errors.Is(err, ErrBadKey) {
		t.Fatalf("expected ErrBadKey, got %v", err)
	}
	pub, _ := testutil.Ed25519Keypair(t, testutil.NewRand(1))
	if err := Verify("test", pub, []byte("m"), []byte("short")); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}
