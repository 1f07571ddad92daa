// Copyright (c) 2026 ToeiRei
// Ledgersmith - account key and ledger toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package keyfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/toeirei/ledgersmith/internal/account"
	"github.com/toeirei/ledgersmith/internal/slip10"
	"github.com/toeirei/ledgersmith/internal/testutil"
)

func testMnemonic(t *testing.T, rng *testutil.Rand) string {
	t.Helper()
	mnemonic, err := slip10.MnemonicFromEntropyReader(rng, 256)
	if err != nil {
		t.Fatalf("mnemonic generation failed: %v", err)
	}
	return mnemonic
}

func sameAccountKey(t *testing.T, want, got *account.AccountKey) {
	t.Helper()
	wantView, err := want.ViewPublicKey()
	if err != nil {
		t.Fatalf("view public key: %v", err)
	}
	gotView, err := got.ViewPublicKey()
	if err != nil {
		t.Fatalf("view public key: %v", err)
	}
	if !bytes.Equal(wantView, gotView) {
		t.Fatal("view public keys differ")
	}
	if !bytes.Equal(want.SpendPublicKey(), got.SpendPublicKey()) {
		t.Fatal("spend public keys differ")
	}
	if want.FogReportURL() != got.FogReportURL() || want.FogReportID() != got.FogReportID() {
		t.Fatal("fog report details differ")
	}
	if !bytes.Equal(want.FogAuthoritySPKI(), got.FogAuthoritySPKI()) {
		t.Fatal("fog authority SPKI differs")
	}
}

func TestKeyfileRoundTripNoFog(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		mnemonic := testMnemonic(t, rng)
		path := filepath.Join(t.TempDir(), "no_fog.json")

		if err := Write(path, &Keyfile{Mnemonic: mnemonic, AccountIndex: 0}); err != nil {
			t.Fatalf("write keyfile: %v", err)
		}
		want, err := account.FromMnemonic(mnemonic, 0)
		if err != nil {
			t.Fatalf("derive expected key: %v", err)
		}
		got, err := Read(path)
		if err != nil {
			t.Fatalf("read keyfile: %v", err)
		}
		sameAccountKey(t, want, got)
	})
}

func TestKeyfileRoundTripWithFog(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		mnemonic := testMnemonic(t, rng)
		spki := rng.Bytes(64)
		path := filepath.Join(t.TempDir(), "with_fog.json")

		kf := &Keyfile{
			Mnemonic:         mnemonic,
			AccountIndex:     1,
			FogReportURL:     "fog://unittest.example.com",
			FogReportID:      "1",
			FogAuthoritySPKI: spki,
		}
		if err := Write(path, kf); err != nil {
			t.Fatalf("write keyfile: %v", err)
		}
		want, err := account.FromMnemonic(mnemonic, 1)
		if err != nil {
			t.Fatalf("derive expected key: %v", err)
		}
		if err := want.SetFog("fog://unittest.example.com", "1", spki); err != nil {
			t.Fatalf("set fog: %v", err)
		}
		got, err := Read(path)
		if err != nil {
			t.Fatalf("read keyfile: %v", err)
		}
		sameAccountKey(t, want, got)
	})
}

func TestKeyfileRejectsPartialFog(t *testing.T) {
	kf := &Keyfile{
		Mnemonic:     testMnemonic(t, testutil.NewRand(1)),
		FogReportID:  "1",
		FogReportURL: "",
	}
	if err := kf.Validate(); !errors.Is(err, ErrFogInconsistent) {
		t.Fatalf("expected ErrFogInconsistent, got %v", err)
	}
}

func TestKeyfileRejectsBadMnemonic(t *testing.T) {
	kf := &Keyfile{Mnemonic: "definitely not a valid mnemonic phrase"}
	if err := kf.Validate(); !errors.Is(err, slip10.ErrInvalidMnemonic) {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}
	if err := (&Keyfile{}).Validate(); !errors.Is(err, ErrMissingMnemonic) {
		t.Fatalf("expected ErrMissingMnemonic, got %v", err)
	}
}

func TestPubfileRoundTrip(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		key, err := account.FromMnemonic(testMnemonic(t, rng), 0)
		if err != nil {
			t.Fatalf("derive key: %v", err)
		}
		want, err := key.DefaultSubaddress()
		if err != nil {
			t.Fatalf("default subaddress: %v", err)
		}
		path := filepath.Join(t.TempDir(), "account.pub")
		if err := WritePubfile(path, want); err != nil {
			t.Fatalf("write pubfile: %v", err)
		}
		got, err := ReadPubfile(path)
		if err != nil {
			t.Fatalf("read pubfile: %v", err)
		}
		if !want.Equal(got) {
			t.Fatal("pubfile round trip changed the address")
		}
	})
}

func TestEncryptedRoundTrip(t *testing.T) {
	mnemonic := testMnemonic(t, testutil.NewRand(7))
	kf := &Keyfile{Mnemonic: mnemonic, AccountIndex: 3}
	path := filepath.Join(t.TempDir(), "sealed.json")

	if err := WriteEncrypted(path, "correct horse", kf); err != nil {
		t.Fatalf("write encrypted keyfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sealed file: %v", err)
	}
	if !IsEncrypted(data) {
		t.Fatal("sealed file not recognized as encrypted")
	}
	if bytes.Contains(data, []byte(mnemonic)) {
		t.Fatal("sealed file leaks the mnemonic")
	}

	got, err := ReadEncrypted(path, "correct horse")
	if err != nil {
		t.Fatalf("read encrypted keyfile: %v", err)
	}
	if got.Mnemonic != mnemonic || got.AccountIndex != 3 {
		t.Fatal("decrypted keyfile does not match original")
	}
}

func TestEncryptedRejectsWrongPassphrase(t *testing.T) {
	kf := &Keyfile{Mnemonic: testMnemonic(t, testutil.NewRand(9))}
	path := filepath.Join(t.TempDir(), "sealed.json")
	if err := WriteEncrypted(path, "right", kf); err != nil {
		t.Fatalf("write encrypted keyfile: %v", err)
	}
	if _, err := ReadEncrypted(path, "wrong"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptRejectsPlaintext(t *testing.T) {
	if _, err := Decrypt("pw", []byte(`{"mnemonic":"x"}`)); !errors.Is(err, ErrNotEncrypted) {
		t.Fatalf("expected ErrNotEncrypted, got %v", err)
	}
	if _, err := Decrypt("pw", []byte("LSENC1\nnot json")); !errors.Is(err, ErrBadEnvelope) {
		t.Fatalf("expected ErrBadEnvelope, got %v", err)
	}
}

func TestDecryptRejectsBadNonceAndSalt(t *testing.T) {
	sealed, err := Encrypt("pw", []byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	truncate := func(field string) []byte {
		var env map[string]any
		if err := json.Unmarshal(sealed[len("LSENC1\n"):], &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		env[field] = []byte{0, 0, 0}
		raw, err := json.Marshal(env)
		if err != nil {
			t.Fatalf("encode envelope: %v", err)
		}
		return append([]byte("LSENC1\n"), raw...)
	}

	// A wrong-length nonce or salt must fail cleanly, not reach the AEAD.
	if _, err := Decrypt("pw", truncate("nonce")); !errors.Is(err, ErrBadEnvelope) {
		t.Fatalf("expected ErrBadEnvelope for short nonce, got %v", err)
	}
	if _, err := Decrypt("pw", truncate("salt")); !errors.Is(err, ErrBadEnvelope) {
		t.Fatalf("expected ErrBadEnvelope for short salt, got %v", err)
	}
}
