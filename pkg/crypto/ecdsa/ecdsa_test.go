package ecdsa

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
)

func TestSignVerify(t *testing.T) {
	for _, name := range []string{"demo65519", "secp256k1", "nistp256"} {
		t.Run(name, func(t *testing.T) {
			crv, err := curve.FromName(name)
			if err != nil {
				t.Fatalf("FromName: %v", err)
			}
			key, err := GenerateKey(crv, rand.Reader)
			if err != nil {
				t.Fatalf("GenerateKey: %v", err)
			}

			msg := []byte("attack at dawn")
			sig, err := key.Sign(rand.Reader, msg)
			if err != nil {
				t.Fatalf("Sign: %v", err)
			}

			ok, err := Verify(crv, key.PublicKey(), msg, sig)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if !ok {
				t.Error("valid signature rejected")
			}
		})
	}
}

func TestRejections(t *testing.T) {
	crv, err := curve.FromName("demo65519")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}
	key, err := GenerateKey(crv, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	msg := []byte("attack at dawn")
	sig, err := key.Sign(rand.Reader, msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	t.Run("TamperedMessage", func(t *testing.T) {
		ok, err := Verify(crv, key.PublicKey(), []byte("attack at dusk"), sig)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if ok {
			t.Error("signature accepted for a different message")
		}
	})

	t.Run("TamperedSignature", func(t *testing.T) {
		bad := &Signature{R: sig.R, S: new(big.Int).Add(sig.S, big.NewInt(1))}
		if bad.S.Cmp(crv.N) >= 0 {
			bad.S = big.NewInt(1)
		}
		// Either a clean rejection or an out-of-range error is fine;
		// acceptance is not.
		ok, err := Verify(crv, key.PublicKey(), msg, bad)
		if err != nil && !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("Verify: %v", err)
		}
		if ok {
			t.Error("tampered signature accepted")
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		other, err := GenerateKey(crv, rand.Reader)
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		ok, err := Verify(crv, other.PublicKey(), msg, sig)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if ok {
			t.Error("signature accepted under a different key")
		}
	})

	t.Run("OutOfRangeComponents", func(t *testing.T) {
		for _, bad := range []*Signature{
			nil,
			{R: big.NewInt(0), S: sig.S},
			{R: sig.R, S: big.NewInt(0)},
			{R: new(big.Int).Set(crv.N), S: sig.S},
			{R: sig.R, S: new(big.Int).Neg(sig.S)},
		} {
			if _, err := Verify(crv, key.PublicKey(), msg, bad); !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("Verify(%v) error = %v, want ErrInvalidSignature", bad, err)
			}
		}
	})

	t.Run("OffCurvePublicKey", func(t *testing.T) {
		bad := &curve.Point{X: big.NewInt(5), Y: big.NewInt(5)}
		if _, err := Verify(crv, bad, msg, sig); !errors.Is(err, curve.ErrInvalidPoint) {
			t.Errorf("Verify error = %v, want ErrInvalidPoint", err)
		}
	})
}

func TestDeterministicKey(t *testing.T) {
	crv, err := curve.FromName("secp256k1")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}

	k1, err := NewPrivateKey(crv, big.NewInt(987654321))
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	k2, err := NewPrivateKey(crv, big.NewInt(987654321))
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	if !k1.PublicKey().Equal(k2.PublicKey()) {
		t.Error("equal scalars derived different public points")
	}

	sig, err := k1.Sign(rand.Reader, []byte("hello"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	ok, err := Verify(crv, k2.PublicKey(), []byte("hello"), sig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("signature from k1 rejected under k2's identical public key")
	}
}
