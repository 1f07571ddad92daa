package security

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	s := FromString("correct horse battery staple")
	if got := fmt.Sprintf("%v", s); got != "[REDACTED]" {
		t.Fatalf("unexpected fmt output: %q", got)
	}
	if got := fmt.Sprintf("%s", s); got != "[REDACTED]" {
		t.Fatalf("unexpected %%s output: %q", got)
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(b) != "\"[REDACTED]\"" {
		t.Fatalf("unexpected json marshal: %s", string(b))
	}
}

func TestSecretZero(t *testing.T) {
	s := FromString("seed material")
	(&s).Zero()
	for i, c := range s.Bytes() {
		if c != 0 {
			t.Fatalf("expected zeroed byte at index %d, got %d", i, c)
		}
	}
}

func TestSecretEqualConstantTime(t *testing.T) {
	a := FromString("mnemonic")
	b := FromString("mnemonic")
	c := FromString("different")
	if !a.Equal(b) {
		t.Fatal("expected equal secrets to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different secrets to compare unequal")
	}
}

func TestSecretFromBytesCopies(t *testing.T) {
	raw := []byte{1, 2, 3}
	s := FromBytes(raw)
	raw[0] = 99
	if s.Bytes()[0] != 1 {
		t.Fatal("FromBytes must copy its input")
	}
}

func TestSecretScan(t *testing.T) {
	var s Secret
	if err := (&s).Scan([]byte("abc")); err != nil {
		t.Fatalf("Scan bytes failed: %v", err)
	}
	if !s.Equal(FromString("abc")) {
		t.Fatal("scanned secret does not match")
	}
	if err := (&s).Scan(42); err == nil {
		t.Fatal("expected error scanning unsupported type")
	}
}
