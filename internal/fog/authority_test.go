package fog

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/toeirei/ledgersmith/internal/testutil"
)

type testCA struct {
	cert *x509.Certificate
	der  []byte
	priv ed25519.PrivateKey
}

func newTestCA(t *testing.T, rng *testutil.Rand, cn string, parent *testCA, notAfter time.Time) *testCA {
	t.Helper()
	pub, priv := testutil.Ed25519Keypair(t, rng)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(int64(rng.Uint64() >> 1)),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              notAfter,
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	signerCert := tmpl
	signerKey := priv
	if parent != nil {
		signerCert = parent.cert
		signerKey = parent.priv
	}
	der, err := x509.CreateCertificate(rng, tmpl, signerCert, pub, signerKey)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse created certificate: %v", err)
	}
	return &testCA{cert: cert, der: der, priv: priv}
}

func pemChain(cas ...*testCA) []byte {
	var buf bytes.Buffer
	for _, ca := range cas {
		_ = pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: ca.der})
	}
	return buf.Bytes()
}

func TestAuthoritySPKIFromValidChain(t *testing.T) {
	testutil.RunWithSeveralSeeds(t, func(t *testing.T, rng *testutil.Rand) {
		notAfter := time.Now().Add(24 * time.Hour)
		root := newTestCA(t, rng, "Fog Root", nil, notAfter)
		inter := newTestCA(t, rng, "Fog Intermediate", root, notAfter)

		spki, err := AuthoritySPKI(pemChain(root, inter))
		if err != nil {
			t.Fatalf("AuthoritySPKI failed: %v", err)
		}
		if !bytes.Equal(spki, root.cert.RawSubjectPublicKeyInfo) {
			t.Fatal("returned SPKI is not the root's")
		}
	})
}

func TestAuthoritySPKISingleSelfSigned(t *testing.T) {
	root := newTestCA(t, testutil.NewRand(1), "Fog Root", nil, time.Now().Add(time.Hour))
	spki, err := AuthoritySPKI(pemChain(root))
	if err != nil {
		t.Fatalf("AuthoritySPKI failed: %v", err)
	}
	if !bytes.Equal(spki, root.cert.RawSubjectPublicKeyInfo) {
		t.Fatal("returned SPKI is not the root's")
	}
}

func TestAuthoritySPKIRejectsEmptyInput(t *testing.T) {
	if _, err := AuthoritySPKI([]byte("not pem at all")); !errors.Is(err, ErrNoCertificates) {
		t.Fatalf("expected ErrNoCertificates, got %v", err)
	}
}

func TestVerifyChainRejectsBrokenLink(t *testing.T) {
	rng := testutil.NewRand(2)
	notAfter := time.Now().Add(24 * time.Hour)
	root := newTestCA(t, rng, "Fog Root", nil, notAfter)
	stranger := newTestCA(t, rng, "Unrelated Root", nil, notAfter)
	leaf := newTestCA(t, rng, "Leaf", stranger, notAfter)

	certs := []*x509.Certificate{root.cert, leaf.cert}
	if err := VerifyChain(certs, time.Now()); !errors.Is(err, ErrBadChain) {
		t.Fatalf("expected ErrBadChain, got %v", err)
	}
}

func TestVerifyChainRejectsExpired(t *testing.T) {
	rng := testutil.NewRand(3)
	root := newTestCA(t, rng, "Fog Root", nil, time.Now().Add(24*time.Hour))
	if err := VerifyChain([]*x509.Certificate{root.cert}, time.Now().Add(48*time.Hour)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
