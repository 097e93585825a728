// Package ecdsa implements ECDSA signatures over the curves in
// pkg/crypto/curve, hashing messages with SHA-256.
//
// The implementation follows the textbook algorithm: a fresh ephemeral
// scalar per signature, r = x(k*G) mod n, s = k⁻¹(z + r*d) mod n. It is
// written for clarity on demonstration curves, not constant-time
// operation; use crypto/ecdsa for anything real.
package ecdsa

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
)

// ErrInvalidSignature indicates signature components outside [1, n).
var ErrInvalidSignature = fmt.Errorf("ecdsa: signature components out of range")

// maxSignAttempts bounds the ephemeral-scalar retry loop. Each retry
// happens only when r or s reduces to zero, so more than a handful of
// iterations means the RNG is broken.
const maxSignAttempts = 64

// Signature is an ECDSA signature pair.
type Signature struct {
	R *big.Int
	S *big.Int
}

// PrivateKey is a signing key: a secret scalar d and its public point
// V = d*G.
type PrivateKey struct {
	crv *curve.Curve
	d   *big.Int
	pub *curve.Point
}

// GenerateKey draws a signing key from rand.
func GenerateKey(crv *curve.Curve, rand io.Reader) (*PrivateKey, error) {
	d, err := crv.RandomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("ecdsa: generate key: %w", err)
	}
	return NewPrivateKey(crv, d)
}

// NewPrivateKey builds a signing key from an explicit scalar in [1, n).
func NewPrivateKey(crv *curve.Curve, d *big.Int) (*PrivateKey, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(crv.N) >= 0 {
		return nil, fmt.Errorf("ecdsa: scalar out of range [1, n)")
	}
	pub, err := crv.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}
	if pub.IsIdentity() {
		return nil, fmt.Errorf("ecdsa: public point is the identity")
	}
	return &PrivateKey{crv: crv, d: new(big.Int).Set(d), pub: pub}, nil
}

// PublicKey returns the verification point d*G.
func (k *PrivateKey) PublicKey() *curve.Point {
	return k.pub
}

// Curve returns the curve the key was generated on.
func (k *PrivateKey) Curve() *curve.Curve {
	return k.crv
}

// digest hashes msg and reduces it mod n.
func digest(msg []byte, n *big.Int) *big.Int {
	h := sha256.Sum256(msg)
	z := new(big.Int).SetBytes(h[:])
	return z.Mod(z, n)
}

// Sign produces a signature over msg with a fresh ephemeral scalar
// drawn from rand. Ephemeral reuse across two messages leaks the
// private key, which is exactly why the retry loop always draws anew.
func (k *PrivateKey) Sign(rand io.Reader, msg []byte) (*Signature, error) {
	n := k.crv.N
	z := digest(msg, n)

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		eph, err := k.crv.RandomScalar(rand)
		if err != nil {
			return nil, fmt.Errorf("ecdsa: sign: %w", err)
		}

		R, err := k.crv.ScalarBaseMult(eph)
		if err != nil {
			return nil, err
		}
		if R.IsIdentity() {
			continue
		}
		r := new(big.Int).Mod(R.X, n)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(eph, n)
		if kInv == nil {
			// Non-invertible ephemeral; possible when n is composite
			// on demonstration curves.
			continue
		}

		// s = k⁻¹ (z + r*d) mod n
		s := new(big.Int).Mul(r, k.d)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}
		// Verification inverts s mod n; when n is composite a
		// non-invertible s would sign an unverifiable message.
		if new(big.Int).ModInverse(s, n) == nil {
			continue
		}

		return &Signature{R: r, S: s}, nil
	}
	return nil, fmt.Errorf("ecdsa: no usable ephemeral scalar after %d attempts", maxSignAttempts)
}

// Verify checks sig over msg against the public point pub on crv.
func Verify(crv *curve.Curve, pub *curve.Point, msg []byte, sig *Signature) (bool, error) {
	if pub.IsIdentity() || !crv.IsOnCurve(pub) {
		return false, fmt.Errorf("ecdsa: public key: %w", curve.ErrInvalidPoint)
	}
	if sig == nil || sig.R == nil || sig.S == nil {
		return false, ErrInvalidSignature
	}

	n := crv.N
	if sig.R.Sign() <= 0 || sig.R.Cmp(n) >= 0 || sig.S.Sign() <= 0 || sig.S.Cmp(n) >= 0 {
		return false, ErrInvalidSignature
	}

	w := new(big.Int).ModInverse(sig.S, n)
	if w == nil {
		return false, ErrInvalidSignature
	}

	z := digest(msg, n)
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, n)

	// X = u1*G + u2*V
	p1, err := crv.ScalarBaseMult(u1)
	if err != nil {
		return false, err
	}
	p2, err := crv.ScalarMult(u2, pub)
	if err != nil {
		return false, err
	}
	X, err := crv.Add(p1, p2)
	if err != nil {
		return false, err
	}
	if X.IsIdentity() {
		return false, nil
	}

	v := new(big.Int).Mod(X.X, n)
	return v.Cmp(sig.R) == 0, nil
}
