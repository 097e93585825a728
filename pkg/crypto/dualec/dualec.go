// Package dualec implements the Dual_EC_DRBG deterministic random bit
// generator, the NIST SP 800-90 design with the suspected NSA backdoor.
//
// # The Algorithm
//
// The generator is parameterized by an elliptic curve and two public
// points P and Q. It keeps one secret integer s as internal state, and
// each output block is produced by three scalar multiplications:
//
//	r  = x(s*P)     // project the state through P
//	s' = x(r*P)     // next internal state, never published
//	t  = x(r*Q)     // output point
//
// The published block is t with a fixed number of leading bits dropped.
// Truncation is the design's only concession to secrecy: whoever sees a
// block is missing just TruncateBits bits of the full x-coordinate.
//
// # The Backdoor
//
// Nothing above is suspicious until one asks where Q came from. If
// Q = e*P for a scalar e known to whoever published the constants, then
// an observer can brute-force the missing leading bits, lift the
// x-coordinate back onto the curve to recover the point r*Q, and
// multiply by e⁻¹:
//
//	e⁻¹ * (r*Q) = e⁻¹ * r * e * P = r*P
//
// whose x-coordinate is exactly the next internal state s'. One
// observed block is enough to predict every future output. The attack
// lives in the backdoor package; this package is the honest-looking
// generator being attacked.
//
// Both the truncation width and the reseed interval are explicit
// configuration, because the feasibility of the backdoor search is
// 2^TruncateBits and hiding that constant would hide the lesson.
//
// A Generator owns its state exclusively and is not safe for concurrent
// use; give each goroutine its own instance.
package dualec

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
)

// domainSeed separates seed derivation hashes from any other SHA-256
// use in the process.
const domainSeed = "dualec/1/seed"

const (
	// DefaultTruncateBits drops 4 leading bits per block. The real
	// standard drops 16 of 256; on 16-bit demonstration curves 4 keeps
	// the same flavor with a 2^4 search.
	DefaultTruncateBits = 4

	// DefaultReseedInterval is how many blocks may be generated before
	// the generator starts recommending a reseed.
	DefaultReseedInterval = 64
)

var (
	// ErrNotSeeded indicates GenerateBlock was called before Seed.
	ErrNotSeeded = fmt.Errorf("dualec: generator has not been seeded")

	// ErrDegenerateState indicates the state walk hit the point at
	// infinity, which has no x-coordinate to continue from. Practically
	// unreachable for standard parameters; possible on toy curves.
	ErrDegenerateState = fmt.Errorf("dualec: state walk reached the identity point")

	// ErrBadTruncation indicates a truncation width that leaves no
	// output bits.
	ErrBadTruncation = fmt.Errorf("dualec: truncation width leaves no output bits")
)

// Config carries the generator's tunable parameters.
type Config struct {
	// TruncateBits is the number of leading bits of x(r*Q) dropped
	// from each output block. The backdoor search space is
	// 2^TruncateBits. 0 means DefaultTruncateBits.
	TruncateBits uint

	// ReseedInterval is the number of blocks after which the generator
	// flags ReseedRecommended on its output. Advisory only; generation
	// continues regardless. 0 means DefaultReseedInterval.
	ReseedInterval int
}

func (cfg Config) withDefaults(c *curve.Curve) (Config, error) {
	if cfg.TruncateBits == 0 {
		cfg.TruncateBits = DefaultTruncateBits
	}
	if cfg.ReseedInterval <= 0 {
		cfg.ReseedInterval = DefaultReseedInterval
	}
	if int(cfg.TruncateBits) >= c.P.BitLen() {
		return cfg, fmt.Errorf("%w: dropping %d of %d bits", ErrBadTruncation, cfg.TruncateBits, c.P.BitLen())
	}
	return cfg, nil
}

// Block is one public output of the generator.
type Block struct {
	// Value is the truncated x-coordinate of the output point, in
	// [0, 2^Bits).
	Value *big.Int

	// Bits is the block's width: field bit length minus TruncateBits.
	Bits int

	// Index counts blocks since seeding, starting at 1.
	Index int

	// ReseedRecommended is set once ReseedInterval blocks have been
	// produced since the last (re)seed. Non-fatal.
	ReseedRecommended bool
}

// Generator is a Dual_EC_DRBG instance. Two states: seeded (after Seed
// or Resume) and running (after the first GenerateBlock); the zero
// value is unseeded and refuses to generate.
type Generator struct {
	crv  *curve.Curve
	p, q *curve.Point
	cfg  Config

	s           *big.Int
	index       int
	sinceReseed int
}

// New creates an unseeded generator over the given curve and points.
// Both points are validated against the curve; identity points are
// rejected since the state walk would collapse immediately.
func New(crv *curve.Curve, p, q *curve.Point, cfg Config) (*Generator, error) {
	if p.IsIdentity() || !crv.IsOnCurve(p) {
		return nil, fmt.Errorf("dualec: point P: %w", curve.ErrInvalidPoint)
	}
	if q.IsIdentity() || !crv.IsOnCurve(q) {
		return nil, fmt.Errorf("dualec: point Q: %w", curve.ErrInvalidPoint)
	}

	cfg, err := cfg.withDefaults(crv)
	if err != nil {
		return nil, err
	}

	return &Generator{crv: crv, p: p, q: q, cfg: cfg}, nil
}

// Resume creates a generator whose internal state is already known,
// skipping seeding. This is the attacker's entry point: once the
// backdoor recovers s, Resume replays the generator forward.
func Resume(crv *curve.Curve, p, q *curve.Point, s *big.Int, cfg Config) (*Generator, error) {
	g, err := New(crv, p, q, cfg)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Sign() <= 0 {
		return nil, fmt.Errorf("dualec: resume state must be positive")
	}
	g.s = new(big.Int).Set(s)
	return g, nil
}

// Seed derives the initial internal state s0 from the provided entropy
// and transitions the generator to seeded. Entropy is an explicit
// argument, never ambient randomness, so equal entropy always yields
// equal output sequences.
func (g *Generator) Seed(entropy []byte) {
	g.s = deriveState(entropy, g.crv.N)
	g.index = 0
	g.sinceReseed = 0
}

// Reseed folds fresh entropy into the current state and resets the
// reseed counter. The previous state contributes to the derivation, so
// a reseed with attacker-known entropy still does not repeat outputs.
func (g *Generator) Reseed(entropy []byte) error {
	if g.s == nil {
		return ErrNotSeeded
	}
	material := append(g.s.Bytes(), entropy...)
	g.s = deriveState(material, g.crv.N)
	g.sinceReseed = 0
	return nil
}

// deriveState hashes entropy into a scalar in [1, n). A counter is
// appended and the hash repeated in the zero case so the function is
// total and deterministic.
func deriveState(entropy []byte, n *big.Int) *big.Int {
	for ctr := uint32(0); ; ctr++ {
		h := sha256.New()
		h.Write([]byte(domainSeed))
		binary.Write(h, binary.BigEndian, ctr)
		h.Write(entropy)

		s := new(big.Int).SetBytes(h.Sum(nil))
		s.Mod(s, n)
		if s.Sign() > 0 {
			return s
		}
	}
}

// OutputBits returns the width of each output block.
func (g *Generator) OutputBits() int {
	return g.crv.P.BitLen() - int(g.cfg.TruncateBits)
}

// Blocks returns how many blocks have been generated since seeding.
func (g *Generator) Blocks() int {
	return g.index
}

// Config returns the generator's effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// GenerateBlock advances the state machine by one step and returns the
// truncated output block. The internal state s never appears in the
// output; only the truncated bits of x(r*Q) do.
func (g *Generator) GenerateBlock() (*Block, error) {
	if g.s == nil {
		return nil, ErrNotSeeded
	}

	// r = x(s*P)
	rp, err := g.crv.ScalarMult(g.s, g.p)
	if err != nil {
		return nil, err
	}
	if rp.IsIdentity() {
		return nil, ErrDegenerateState
	}
	r := rp.X

	// s' = x(r*P), the new internal state. Derived from r, not from
	// the published output.
	sp, err := g.crv.ScalarMult(r, g.p)
	if err != nil {
		return nil, err
	}
	if sp.IsIdentity() {
		return nil, ErrDegenerateState
	}
	g.s = sp.X

	// t = x(r*Q)
	tq, err := g.crv.ScalarMult(r, g.q)
	if err != nil {
		return nil, err
	}
	if tq.IsIdentity() {
		return nil, ErrDegenerateState
	}

	// Drop the TruncateBits leading bits: publish t mod 2^OutputBits.
	outBits := g.OutputBits()
	mask := new(big.Int).Lsh(big.NewInt(1), uint(outBits))
	mask.Sub(mask, big.NewInt(1))
	out := new(big.Int).And(tq.X, mask)

	g.index++
	g.sinceReseed++

	return &Block{
		Value:             out,
		Bits:              outBits,
		Index:             g.index,
		ReseedRecommended: g.sinceReseed >= g.cfg.ReseedInterval,
	}, nil
}
