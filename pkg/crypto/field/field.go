// Package field implements modular arithmetic over a prime field F_p.
//
// # Why a Prime Field
//
// Elliptic curve cryptography works over the integers modulo a prime p.
// Every coordinate of every curve point, every slope computed during
// point addition, lives in the set {0, 1, ..., p-1} with addition and
// multiplication taken mod p. Because p is prime, every non-zero element
// has a multiplicative inverse, which is what makes the point addition
// formulas well defined.
//
// # Arbitrary Precision
//
// Field moduli used in real standards (secp256k1, P-256, brainpool) are
// 256-bit numbers, far beyond a machine word. All arithmetic here is
// performed on math/big integers, so there is no overflow anywhere: the
// same code path serves a 4-bit toy modulus and a 256-bit standard one.
//
// A PrimeField value is immutable configuration. It is passed explicitly
// into every operation rather than living in package-level state, so
// several fields (several curves) can coexist in one process and tests
// are fully reproducible.
package field

import (
	"fmt"
	"math/big"
)

var (
	// ErrNoInverse indicates that a modular inverse does not exist:
	// gcd(x, p) != 1, i.e. x is 0 mod p or p is not actually prime.
	ErrNoInverse = fmt.Errorf("field: element has no modular inverse")

	// ErrNoSquareRoot indicates that the element is a quadratic
	// non-residue: no y with y^2 = x (mod p) exists.
	ErrNoSquareRoot = fmt.Errorf("field: element has no square root")
)

// PrimeField is the field of integers modulo a prime P.
//
// All methods treat their operands as field elements: inputs may be any
// integers, outputs are always canonical representatives in [0, P).
// PrimeField holds no mutable state and is safe for concurrent use.
type PrimeField struct {
	P *big.Int
}

// New creates a PrimeField with modulus p. The modulus is copied, so the
// caller may mutate its argument afterwards without affecting the field.
// Primality of p is the caller's responsibility; a composite modulus
// surfaces later as ErrNoInverse from Inv.
func New(p *big.Int) *PrimeField {
	return &PrimeField{P: new(big.Int).Set(p)}
}

// reduce maps any integer to its canonical representative in [0, P).
// big.Int.Mod already returns a non-negative result for a positive
// modulus, which is exactly the Euclidean reduction we want.
func (f *PrimeField) reduce(x *big.Int) *big.Int {
	return x.Mod(x, f.P)
}

// Add returns x + y mod p.
func (f *PrimeField) Add(x, y *big.Int) *big.Int {
	return f.reduce(new(big.Int).Add(x, y))
}

// Sub returns x - y mod p.
func (f *PrimeField) Sub(x, y *big.Int) *big.Int {
	return f.reduce(new(big.Int).Sub(x, y))
}

// Mul returns x * y mod p.
func (f *PrimeField) Mul(x, y *big.Int) *big.Int {
	return f.reduce(new(big.Int).Mul(x, y))
}

// Neg returns -x mod p.
func (f *PrimeField) Neg(x *big.Int) *big.Int {
	return f.reduce(new(big.Int).Neg(x))
}

// Exp returns x^k mod p for k >= 0, computed by square-and-multiply.
//
// The exponent is scanned from least to most significant bit; the
// running square contributes to the result exactly where the exponent
// has a set bit. This takes O(log k) multiplications, so exponents as
// large as the modulus itself are fine.
func (f *PrimeField) Exp(x, k *big.Int) *big.Int {
	result := big.NewInt(1)
	square := f.reduce(new(big.Int).Set(x))

	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result = f.Mul(result, square)
		}
		square = f.Mul(square, square)
	}

	return result
}

// Inv returns the multiplicative inverse of x mod p using the extended
// Euclidean algorithm.
//
// The algorithm maintains the invariant
//
//	r = s*x + t*p
//
// for each remainder r of the Euclidean division chain. When the chain
// terminates with gcd(x, p) = 1, the coefficient s is the inverse of x
// mod p. If the gcd is anything other than 1 (x is zero, or p was not
// prime after all), no inverse exists and ErrNoInverse is returned.
func (f *PrimeField) Inv(x *big.Int) (*big.Int, error) {
	r0 := f.reduce(new(big.Int).Set(x))
	r1 := new(big.Int).Set(f.P)

	s0 := big.NewInt(1)
	s1 := big.NewInt(0)

	for r1.Sign() != 0 {
		q, r := new(big.Int).QuoRem(r0, r1, new(big.Int))
		r0, r1 = r1, r

		// s_{k+1} = s_{k-1} - q * s_k
		s0, s1 = s1, new(big.Int).Sub(s0, new(big.Int).Mul(q, s1))
	}

	if r0.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("%w: gcd(x, p) = %v", ErrNoInverse, r0)
	}

	return f.reduce(s0), nil
}

// Sqrt returns a square root of x mod p, if one exists.
//
// For p = 3 (mod 4), which holds for secp256k1, P-256 and brainpool,
// the root is simply x^((p+1)/4): squaring it gives x^((p+1)/2) =
// x * x^((p-1)/2) = x by Euler's criterion. For the remaining primes
// the general Tonelli-Shanks procedure from math/big is used.
//
// The other root is always p minus the returned one.
func (f *PrimeField) Sqrt(x *big.Int) (*big.Int, error) {
	xr := f.reduce(new(big.Int).Set(x))
	if xr.Sign() == 0 {
		return big.NewInt(0), nil
	}

	var root *big.Int
	if new(big.Int).And(f.P, big.NewInt(3)).Cmp(big.NewInt(3)) == 0 {
		exp := new(big.Int).Add(f.P, big.NewInt(1))
		exp.Rsh(exp, 2)
		root = f.Exp(xr, exp)
	} else {
		root = new(big.Int).ModSqrt(xr, f.P)
		if root == nil {
			return nil, fmt.Errorf("%w: %v mod %v", ErrNoSquareRoot, xr, f.P)
		}
	}

	// The p = 3 (mod 4) fast path produces a candidate even for
	// non-residues; verify the square before trusting it.
	if f.Mul(root, root).Cmp(xr) != 0 {
		return nil, fmt.Errorf("%w: %v mod %v", ErrNoSquareRoot, xr, f.P)
	}

	return root, nil
}
