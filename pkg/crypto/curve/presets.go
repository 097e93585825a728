package curve

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/lukau2357/ecc-go/pkg/crypto/field"
)

// Standard curve presets, plus small demonstration curves whose whole
// point set fits on a plot. Standards are published by research
// institutions as (p, a, b, G, n) tuples; the demonstration curves
// exist because a 256-bit group cannot be visualized and a brute-force
// backdoor search over it would never finish.

// Secp256k1 returns the Bitcoin curve y² = x³ + 7.
//
// The parameters are taken from btcec rather than retyped here: btcec
// is the deployed, battle-tested secp256k1 implementation, and sharing
// its constants lets the tests cross-check this package's generic
// arithmetic against an independent one.
func Secp256k1() *Curve {
	params := btcec.S256().Params()
	c, err := New("secp256k1",
		big.NewInt(0), params.B,
		params.P,
		params.Gx, params.Gy,
		params.N,
	)
	if err != nil {
		panic(fmt.Sprintf("curve: secp256k1 preset: %v", err))
	}
	return c
}

// NistP256 returns the NIST P-256 curve.
// Parameters: https://neuromancer.sk/std/nist/P-256
func NistP256() *Curve {
	c, err := New("nistp256",
		mustHex("ffffffff00000001000000000000000000000000fffffffffffffffffffffffc"),
		mustHex("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"),
		mustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"),
		mustHex("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"),
		mustHex("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"),
		mustHex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"),
	)
	if err != nil {
		panic(fmt.Sprintf("curve: nistp256 preset: %v", err))
	}
	return c
}

// BrainpoolP256r1 returns the brainpoolP256r1 curve.
// Parameters: https://neuromancer.sk/std/brainpool/brainpoolP256r1
func BrainpoolP256r1() *Curve {
	c, err := New("brainpoolP256r1",
		mustHex("7d5a0975fc2c3057eef67530417affe7fb8055c126dc5c6ce94a4b44f330b5d9"),
		mustHex("26dc5c6ce94a4b44f330b5d9bbd77cbf958416295cf7e1ce6bccdc18ff8c07b6"),
		mustHex("a9fb57dba1eea9bc3e660a909d838d726e3bf623d52620282013481d1f6e5377"),
		mustHex("8bd2aeb9cb7e57cb2c4b482ffc81b7afb9de27e1e3bd23c23a4453bd9ace3262"),
		mustHex("547ef835c3dac4fd97f8461a14611dc9c27745132ded8e545c1d54c72f046997"),
		mustHex("a9fb57dba1eea9bc3e660a909d838d718c397aa3b561a6f7901e0e82974856a7"),
	)
	if err != nil {
		panic(fmt.Sprintf("curve: brainpoolP256r1 preset: %v", err))
	}
	return c
}

// Toy13 returns the textbook curve y² = x³ + 3x + 8 over F_13.
//
// Its full point set is {O, (1,5), (1,8), (2,3), (2,10), (9,6), (9,7),
// (12,2), (12,11)}; the generator (1, 5) has order 9. Nine points fit
// in a head, which makes this the curve for walking through the group
// law by hand.
func Toy13() *Curve {
	c, err := New("toy13",
		big.NewInt(3), big.NewInt(8),
		big.NewInt(13),
		big.NewInt(1), big.NewInt(5),
		big.NewInt(9),
	)
	if err != nil {
		panic(fmt.Sprintf("curve: toy13 preset: %v", err))
	}
	return c
}

// Demo65519 returns a 16-bit demonstration curve y² = x³ + x + 7 over
// F_65519, sized so that the Dual_EC_DRBG backdoor search is an
// instant brute force while the outputs still look like numbers rather
// than single digits.
//
// The generator and its order are derived at construction: the first
// x-coordinate that lifts onto the curve becomes G, and the order is
// found by walking multiples of G. 65519 = 3 (mod 4), so lifting uses
// the cheap square-root path.
func Demo65519() *Curve {
	p := big.NewInt(65519)
	a := big.NewInt(1)
	b := big.NewInt(7)

	// Bootstrap curve with a placeholder order to get LiftX and
	// SubgroupOrder; the real order replaces it below.
	g, err := findGenerator(a, b, p)
	if err != nil {
		panic(fmt.Sprintf("curve: demo65519 preset: %v", err))
	}

	boot := &Curve{
		Name: "demo65519",
		A:    a, B: b, P: p,
		Gx: g.X, Gy: g.Y,
		N:   big.NewInt(1),
		fld: field.New(p),
	}
	n, err := boot.SubgroupOrder(g)
	if err != nil {
		panic(fmt.Sprintf("curve: demo65519 preset: %v", err))
	}

	c, err := New("demo65519", a, b, p, g.X, g.Y, n)
	if err != nil {
		panic(fmt.Sprintf("curve: demo65519 preset: %v", err))
	}
	return c
}

// findGenerator scans x = 1, 2, ... for the first x-coordinate that
// lifts onto y² = x³ + ax + b over F_p.
func findGenerator(a, b, p *big.Int) (*Point, error) {
	probe := &Curve{A: a, B: b, P: p, fld: field.New(p)}
	for x := int64(1); x < 1024; x++ {
		pt, _, err := probe.LiftX(big.NewInt(x))
		if err == nil {
			return pt, nil
		}
	}
	return nil, fmt.Errorf("curve: no liftable x-coordinate below 1024")
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic(fmt.Sprintf("curve: bad hex constant %q", s))
	}
	return v
}
