// Package ecdh implements Diffie-Hellman key agreement over the curves
// in pkg/crypto/curve.
//
// The shared secret is the x-coordinate of d_A * V_B = d_A * d_B * G,
// which both parties reach from their own private scalar and the
// other's public point. Only the x-coordinate is used; the y sign
// carries no additional secret.
package ecdh

import (
	"fmt"
	"io"
	"math/big"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
)

var (
	// ErrInvalidPeerKey indicates a peer public point that is off the
	// curve, the identity, or outside the generator's subgroup.
	ErrInvalidPeerKey = fmt.Errorf("ecdh: invalid peer public key")

	// ErrDegenerateSecret indicates the agreement landed on the
	// identity point, which has no x-coordinate to use as a secret.
	ErrDegenerateSecret = fmt.Errorf("ecdh: shared point is the identity")
)

// PrivateKey is one party's half of an agreement: a secret scalar and
// the public point derived from it.
type PrivateKey struct {
	crv *curve.Curve
	d   *big.Int
	pub *curve.Point
}

// GenerateKey draws a private scalar from rand and derives its public
// point.
func GenerateKey(crv *curve.Curve, rand io.Reader) (*PrivateKey, error) {
	d, err := crv.RandomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("ecdh: generate key: %w", err)
	}
	return NewPrivateKey(crv, d)
}

// NewPrivateKey builds a key from an explicit scalar in [1, n). Useful
// for deterministic demonstrations; real callers want GenerateKey.
func NewPrivateKey(crv *curve.Curve, d *big.Int) (*PrivateKey, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(crv.N) >= 0 {
		return nil, fmt.Errorf("ecdh: scalar out of range [1, n)")
	}
	pub, err := crv.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}
	if pub.IsIdentity() {
		return nil, ErrDegenerateSecret
	}
	return &PrivateKey{crv: crv, d: new(big.Int).Set(d), pub: pub}, nil
}

// PublicKey returns the public point d*G.
func (k *PrivateKey) PublicKey() *curve.Point {
	return k.pub
}

// Curve returns the curve the key was generated on.
func (k *PrivateKey) Curve() *curve.Curve {
	return k.crv
}

// SharedSecret computes x(d * peer). The peer point is validated
// against the curve and against the generator's subgroup before use,
// so a malicious point of small order cannot leak bits of d.
func (k *PrivateKey) SharedSecret(peer *curve.Point) (*big.Int, error) {
	if peer.IsIdentity() || !k.crv.IsOnCurve(peer) {
		return nil, ErrInvalidPeerKey
	}

	// Subgroup check: n*peer must be the identity.
	chk, err := k.crv.ScalarMult(k.crv.N, peer)
	if err != nil {
		return nil, err
	}
	if !chk.IsIdentity() {
		return nil, fmt.Errorf("%w: point is outside the order-n subgroup", ErrInvalidPeerKey)
	}

	shared, err := k.crv.ScalarMult(k.d, peer)
	if err != nil {
		return nil, err
	}
	if shared.IsIdentity() {
		return nil, ErrDegenerateSecret
	}
	return new(big.Int).Set(shared.X), nil
}
