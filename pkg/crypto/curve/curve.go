// Package curve implements short-Weierstrass elliptic curve groups over
// prime fields, with explicit, inspectable arithmetic.
//
// # The Group
//
// A curve is the set of points (x, y) satisfying
//
//	y² = x³ + ax + b  (mod p)
//
// together with a special identity element O (the "point at infinity").
// Point addition follows the chord-and-tangent construction: the line
// through two points meets the curve in a third point, whose reflection
// across the x-axis is the sum. This makes the point set an abelian
// group, and repeated addition (scalar multiplication) is the one-way
// operation underlying ECDH, ECDSA and the Dual_EC_DRBG generator.
//
// # Design
//
// Unlike crypto/elliptic, which fixes a = -3, this package accepts any
// (a, b, p) so the same code runs the standardized 256-bit curves and
// the tiny demonstration curves used for interactive visualization.
// Arithmetic is affine and big.Int based: slow but transparent, which is
// the point of a teaching implementation. Every operation validates its
// operands against the curve equation and fails loudly on off-curve
// input; nothing is ever silently "corrected".
//
// Curve values are immutable after construction and safe for concurrent
// use. All operations are deterministic; randomness only enters through
// the explicit io.Reader passed to RandomScalar.
package curve

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/lukau2357/ecc-go/pkg/crypto/field"
)

var (
	// ErrInvalidPoint indicates a malformed point (missing or
	// out-of-range coordinates).
	ErrInvalidPoint = fmt.Errorf("curve: invalid point")

	// ErrPointNotOnCurve indicates coordinates that do not satisfy the
	// curve equation.
	ErrPointNotOnCurve = fmt.Errorf("curve: point is not on curve")

	// ErrNoSuchPoint indicates an x-coordinate with no matching curve
	// point (the right-hand side of the equation is a non-residue).
	ErrNoSuchPoint = fmt.Errorf("curve: no point with given x-coordinate")

	// ErrNegativeScalar indicates a negative scalar multiplier.
	ErrNegativeScalar = fmt.Errorf("curve: scalar must be non-negative")

	// ErrCurveTooLarge indicates an exhaustive operation (point
	// enumeration, naive order computation) requested on a curve that
	// is too big for it.
	ErrCurveTooLarge = fmt.Errorf("curve: curve too large for exhaustive operation")
)

// exhaustiveLimit bounds SubgroupOrder. Exhaustive walks are only
// meaningful on visualization-sized curves.
const exhaustiveLimit = 1 << 22

// Point is an affine point on a curve. The nil *Point is the identity
// element O; every non-identity point carries canonical coordinates in
// [0, p). Points are plain data: they reference no curve, and the Curve
// methods validate them against the curve parameters on use.
type Point struct {
	X, Y *big.Int
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	return p == nil
}

// Equal reports whether two points are the same group element.
func (p *Point) Equal(q *Point) bool {
	if p.IsIdentity() || q.IsIdentity() {
		return p.IsIdentity() && q.IsIdentity()
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// String renders a point for logs and demo output.
func (p *Point) String() string {
	if p.IsIdentity() {
		return "O"
	}
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

// Curve holds the parameters of a short-Weierstrass curve group:
// the equation coefficients, the field modulus, a generator G and the
// order n of the subgroup G generates. Immutable once constructed.
type Curve struct {
	Name string

	A, B *big.Int
	P    *big.Int

	Gx, Gy *big.Int
	N      *big.Int

	fld *field.PrimeField
}

// New constructs a curve from explicit parameters, copying every
// big.Int so the caller cannot mutate the curve afterwards. The
// generator is checked against the curve equation.
func New(name string, a, b, p, gx, gy, n *big.Int) (*Curve, error) {
	c := &Curve{
		Name: name,
		A:    new(big.Int).Set(a),
		B:    new(big.Int).Set(b),
		P:    new(big.Int).Set(p),
		Gx:   new(big.Int).Set(gx),
		Gy:   new(big.Int).Set(gy),
		N:    new(big.Int).Set(n),
		fld:  field.New(p),
	}

	if !c.IsOnCurve(c.Generator()) {
		return nil, fmt.Errorf("%w: generator (%v, %v) for %s", ErrPointNotOnCurve, gx, gy, name)
	}

	return c, nil
}

// Field returns the underlying prime field F_p.
func (c *Curve) Field() *field.PrimeField {
	return c.fld
}

// Generator returns the curve's base point G.
func (c *Curve) Generator() *Point {
	return &Point{X: new(big.Int).Set(c.Gx), Y: new(big.Int).Set(c.Gy)}
}

// NewPoint constructs a validated point from coordinates. Coordinates
// that do not satisfy the curve equation are rejected, never adjusted.
func (c *Curve) NewPoint(x, y *big.Int) (*Point, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: missing coordinate", ErrInvalidPoint)
	}
	p := &Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
	if !c.IsOnCurve(p) {
		return nil, fmt.Errorf("%w: (%v, %v) on %s", ErrPointNotOnCurve, x, y, c.Name)
	}
	return p, nil
}

// rhs evaluates x³ + ax + b mod p, the right-hand side of the curve
// equation.
func (c *Curve) rhs(x *big.Int) *big.Int {
	x3 := c.fld.Mul(c.fld.Mul(x, x), x)
	return c.fld.Add(c.fld.Add(x3, c.fld.Mul(c.A, x)), c.B)
}

// IsOnCurve reports whether p is the identity or satisfies
// y² = x³ + ax + b (mod p) with coordinates in range.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.IsIdentity() {
		return true
	}
	if p.X == nil || p.Y == nil {
		return false
	}
	if p.X.Sign() < 0 || p.X.Cmp(c.P) >= 0 || p.Y.Sign() < 0 || p.Y.Cmp(c.P) >= 0 {
		return false
	}
	return c.fld.Mul(p.Y, p.Y).Cmp(c.rhs(p.X)) == 0
}

// Neg returns -p, the reflection (x, -y). Negating the identity yields
// the identity.
func (c *Curve) Neg(p *Point) *Point {
	if p.IsIdentity() {
		return nil
	}
	return &Point{X: new(big.Int).Set(p.X), Y: c.fld.Neg(p.Y)}
}

// Add returns p1 + p2 under the chord-and-tangent group law.
//
// The cases, in order:
//   - either operand is the identity: the other is returned;
//   - p2 = -p1 (same x, opposite y, including the shared y = 0 case):
//     the vertical line meets the curve "at infinity", result is O;
//   - p1 = p2: the tangent slope λ = (3x₁² + a) / 2y₁ is used;
//   - otherwise: the chord slope λ = (y₂ - y₁) / (x₂ - x₁).
//
// With slope λ the sum is x₃ = λ² - x₁ - x₂, y₃ = λ(x₁ - x₃) - y₁.
// Both operands are validated; off-curve input is an error, since the
// formulas would otherwise quietly produce garbage.
func (c *Curve) Add(p1, p2 *Point) (*Point, error) {
	if !c.IsOnCurve(p1) {
		return nil, fmt.Errorf("%w: left operand %v on %s", ErrPointNotOnCurve, p1, c.Name)
	}
	if !c.IsOnCurve(p2) {
		return nil, fmt.Errorf("%w: right operand %v on %s", ErrPointNotOnCurve, p2, c.Name)
	}

	if p1.IsIdentity() {
		return clone(p2), nil
	}
	if p2.IsIdentity() {
		return clone(p1), nil
	}

	var lambda *big.Int
	if p1.X.Cmp(p2.X) == 0 {
		// Same x-coordinate: either inverse points (sum is O) or a
		// doubling. y1 = -y2 also covers y1 = y2 = 0, where the
		// tangent is vertical.
		if p1.Y.Cmp(c.fld.Neg(p2.Y)) == 0 {
			return nil, nil
		}

		// λ = (3x₁² + a) / 2y₁
		num := c.fld.Add(c.fld.Mul(big.NewInt(3), c.fld.Mul(p1.X, p1.X)), c.A)
		den, err := c.fld.Inv(c.fld.Mul(big.NewInt(2), p1.Y))
		if err != nil {
			return nil, fmt.Errorf("curve: doubling slope: %w", err)
		}
		lambda = c.fld.Mul(num, den)
	} else {
		// λ = (y₂ - y₁) / (x₂ - x₁)
		den, err := c.fld.Inv(c.fld.Sub(p2.X, p1.X))
		if err != nil {
			return nil, fmt.Errorf("curve: chord slope: %w", err)
		}
		lambda = c.fld.Mul(c.fld.Sub(p2.Y, p1.Y), den)
	}

	x3 := c.fld.Sub(c.fld.Sub(c.fld.Mul(lambda, lambda), p1.X), p2.X)
	y3 := c.fld.Sub(c.fld.Mul(lambda, c.fld.Sub(p1.X, x3)), p1.Y)
	return &Point{X: x3, Y: y3}, nil
}

// Double returns 2p.
func (c *Curve) Double(p *Point) (*Point, error) {
	return c.Add(p, p)
}

// ScalarMult returns k*p by double-and-add: the bits of k are scanned
// from least significant upward, the running point doubles each step,
// and set bits fold it into the accumulator. O(log k) group operations,
// so k may be as large as the field modulus. k = 0 yields the identity.
func (c *Curve) ScalarMult(k *big.Int, p *Point) (*Point, error) {
	if k.Sign() < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeScalar, k)
	}
	if !c.IsOnCurve(p) {
		return nil, fmt.Errorf("%w: %v on %s", ErrPointNotOnCurve, p, c.Name)
	}

	var acc *Point // identity
	addend := clone(p)

	var err error
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			acc, err = c.Add(acc, addend)
			if err != nil {
				return nil, err
			}
		}
		addend, err = c.Add(addend, addend)
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

// ScalarBaseMult returns k*G.
func (c *Curve) ScalarBaseMult(k *big.Int) (*Point, error) {
	return c.ScalarMult(k, c.Generator())
}

// LiftX returns the curve points with the given x-coordinate: (x, y)
// and (x, p-y) for y = sqrt(x³ + ax + b). Both returned points are
// equal when y = 0. ErrNoSuchPoint is returned when the right-hand
// side is a quadratic non-residue, i.e. no such point exists.
//
// This is the key primitive for x-only protocols: ECDH peers exchange
// bare x-coordinates, and the Dual_EC_DRBG attacker reconstructs output
// points from truncated x-coordinates the same way.
func (c *Curve) LiftX(x *big.Int) (*Point, *Point, error) {
	if x == nil || x.Sign() < 0 || x.Cmp(c.P) >= 0 {
		return nil, nil, fmt.Errorf("%w: x out of range", ErrInvalidPoint)
	}

	y, err := c.fld.Sqrt(c.rhs(x))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: x = %v", ErrNoSuchPoint, x)
	}

	p1 := &Point{X: new(big.Int).Set(x), Y: y}
	return p1, c.Neg(p1), nil
}

// RandomScalar draws a uniform scalar in [1, n) from the provided
// reader. Randomness is injected explicitly so deterministic tests can
// supply a fixed stream.
func (c *Curve) RandomScalar(r io.Reader) (*big.Int, error) {
	max := new(big.Int).Sub(c.N, big.NewInt(1))
	k, err := rand.Int(r, max)
	if err != nil {
		return nil, fmt.Errorf("curve: random scalar: %w", err)
	}
	return k.Add(k, big.NewInt(1)), nil
}

// SubgroupOrder computes the order of p by walking its multiples until
// the identity appears. Only sensible for demonstration curves; larger
// groups are rejected with ErrCurveTooLarge.
func (c *Curve) SubgroupOrder(p *Point) (*big.Int, error) {
	if p.IsIdentity() {
		return big.NewInt(1), nil
	}
	if c.P.BitLen() > 24 {
		return nil, fmt.Errorf("%w: %s", ErrCurveTooLarge, c.Name)
	}

	acc := clone(p)
	var err error
	for order := int64(1); order <= exhaustiveLimit; order++ {
		if acc.IsIdentity() {
			return big.NewInt(order), nil
		}
		acc, err = c.Add(acc, p)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: order exceeds %d", ErrCurveTooLarge, exhaustiveLimit)
}

// Points enumerates every point of a small curve, identity excluded,
// ordered by x-coordinate. This feeds the plotting adapter; standard
// curves are far beyond enumeration and are rejected.
func (c *Curve) Points() ([]*Point, error) {
	if c.P.BitLen() > 16 {
		return nil, fmt.Errorf("%w: %s", ErrCurveTooLarge, c.Name)
	}

	var points []*Point
	one := big.NewInt(1)
	for x := new(big.Int); x.Cmp(c.P) < 0; x = new(big.Int).Add(x, one) {
		p1, p2, err := c.LiftX(x)
		if err != nil {
			continue
		}
		points = append(points, p1)
		if !p1.Equal(p2) {
			points = append(points, p2)
		}
	}
	return points, nil
}

func clone(p *Point) *Point {
	if p.IsIdentity() {
		return nil
	}
	return &Point{X: new(big.Int).Set(p.X), Y: new(big.Int).Set(p.Y)}
}
