// Package backdoor implements the attacker's side of the Dual_EC_DRBG
// weakness: recovering the generator's internal state from its public
// output, given the secret relation between the two curve points.
//
// # Prerequisite
//
// The attack needs the scalar e with Q = e*P — the value only the party
// that published the (P, Q) constants can know. With it, one observed
// output block collapses the generator's entire future:
//
//  1. The block is x(r*Q) missing its TruncateBits leading bits, so at
//     most 2^TruncateBits candidate x-coordinates are consistent with
//     it. Each candidate that lies on the curve lifts to a point R.
//  2. For the true candidate, R = ±r*Q, and multiplying by e⁻¹ gives
//     e⁻¹*R = ±r*P — whose x-coordinate is exactly the generator's
//     next internal state s'. (The sign does not matter: a point and
//     its reflection share the x-coordinate, which is why lifting a
//     single square root covers both.)
//  3. Each surviving candidate state is replayed forward and compared
//     against the subsequently observed blocks; the one that matches
//     is the real state.
//
// From there every future block is a deterministic replay. This is the
// attack sketched by Shumow and Ferguson against NIST SP 800-90 in
// 2007, six years before the Snowden documents made it topical.
//
// An Attack is a pure observer: it holds its own copy of the public
// parameters and a window of observed blocks, and never touches the
// generator it is attacking.
package backdoor

import (
	"fmt"
	"math/big"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
	"github.com/lukau2357/ecc-go/pkg/crypto/dualec"
)

var (
	// ErrStateRecoveryFailed indicates that no candidate state could
	// be verified against the observed output window.
	ErrStateRecoveryFailed = fmt.Errorf("backdoor: state recovery failed")

	// ErrInsufficientBlocks indicates fewer than two observed blocks:
	// one to enumerate candidates from and at least one to verify
	// against.
	ErrInsufficientBlocks = fmt.Errorf("backdoor: need at least two observed blocks")

	// ErrNotCoprime indicates a backdoor scalar with no inverse modulo
	// the group order.
	ErrNotCoprime = fmt.Errorf("backdoor: scalar has no inverse mod group order")

	// ErrBlockWidthMismatch indicates an observed block whose width
	// does not match the attack's truncation configuration.
	ErrBlockWidthMismatch = fmt.Errorf("backdoor: observed block width does not match configuration")
)

// StateRecoveryError reports a failed recovery together with how far
// the search got, for diagnostics. It matches ErrStateRecoveryFailed
// under errors.Is.
type StateRecoveryError struct {
	// CandidatesTried is the number of prefix candidates enumerated.
	CandidatesTried int

	// Unverified is the number of candidates that lifted onto the
	// curve but failed verification against the observed window.
	Unverified int

	// Capped reports whether the search stopped at MaxCandidates
	// before exhausting the prefix space.
	Capped bool
}

func (e *StateRecoveryError) Error() string {
	if e.Capped {
		return fmt.Sprintf("backdoor: state recovery failed: %d candidates tried (capped), %d lifted but unverified",
			e.CandidatesTried, e.Unverified)
	}
	return fmt.Sprintf("backdoor: state recovery failed: %d candidates tried, %d lifted but unverified",
		e.CandidatesTried, e.Unverified)
}

func (e *StateRecoveryError) Unwrap() error { return ErrStateRecoveryFailed }

// Recovered describes a successfully reconstructed internal state.
type Recovered struct {
	// State is the generator's internal state as of the block after
	// the first observed one.
	State *big.Int

	// CandidatesTried is the number of prefix candidates enumerated
	// before the match.
	CandidatesTried int

	// VerifiedBlocks is how many observed blocks the state was checked
	// against.
	VerifiedBlocks int
}

// Attack is the adversary's context: the secret scalar, its own copy of
// the public parameters, and the window of observed output blocks.
type Attack struct {
	crv  *curve.Curve
	p, q *curve.Point
	cfg  dualec.Config

	e    *big.Int
	eInv *big.Int

	// MaxCandidates bounds the brute-force search when positive.
	// Exceeding it is reported as a capped StateRecoveryError.
	MaxCandidates int

	observed []*dualec.Block
}

// New creates an attack context for a generator running on the given
// curve with points P and Q, where the adversary knows e with Q = e*P.
// The configuration must match the generator's, in particular the
// truncation width, since it determines the search space.
func New(crv *curve.Curve, e *big.Int, p, q *curve.Point, cfg dualec.Config) (*Attack, error) {
	if p.IsIdentity() || !crv.IsOnCurve(p) {
		return nil, fmt.Errorf("backdoor: point P: %w", curve.ErrInvalidPoint)
	}
	if q.IsIdentity() || !crv.IsOnCurve(q) {
		return nil, fmt.Errorf("backdoor: point Q: %w", curve.ErrInvalidPoint)
	}
	if cfg.TruncateBits == 0 {
		cfg.TruncateBits = dualec.DefaultTruncateBits
	}
	if int(cfg.TruncateBits) >= crv.P.BitLen() {
		return nil, fmt.Errorf("backdoor: truncation width %d leaves no output bits", cfg.TruncateBits)
	}

	eInv := new(big.Int).ModInverse(new(big.Int).Mod(e, crv.N), crv.N)
	if eInv == nil {
		return nil, fmt.Errorf("%w: e = %v, n = %v", ErrNotCoprime, e, crv.N)
	}

	return &Attack{
		crv:  crv,
		p:    p,
		q:    q,
		cfg:  cfg,
		e:    new(big.Int).Set(e),
		eInv: eInv,
	}, nil
}

// OutputBits returns the expected width of observed blocks.
func (a *Attack) OutputBits() int {
	return a.crv.P.BitLen() - int(a.cfg.TruncateBits)
}

// Observe appends a raw output block to the attack window. Blocks must
// be supplied in generation order.
func (a *Attack) Observe(b *dualec.Block) error {
	if b == nil || b.Value == nil {
		return fmt.Errorf("backdoor: nil block")
	}
	if b.Bits != a.OutputBits() {
		return fmt.Errorf("%w: got %d bits, expected %d", ErrBlockWidthMismatch, b.Bits, a.OutputBits())
	}
	a.observed = append(a.observed, b)
	return nil
}

// Observed returns the number of blocks in the attack window.
func (a *Attack) Observed() int {
	return len(a.observed)
}

// RecoverState brute-forces the truncated leading bits of the first
// observed block, reconstructs the candidate output points, and maps
// each through e⁻¹ to a candidate internal state. Candidates are
// verified by replaying the generator forward against every later
// block in the window; the state that reproduces all of them is
// returned.
//
// The search is a bounded loop of at most 2^TruncateBits iterations
// (or MaxCandidates, when set). With no verifiable candidate — wrong
// scalar, mismatched truncation, or too little observed output — a
// StateRecoveryError is returned.
func (a *Attack) RecoverState() (*Recovered, error) {
	if len(a.observed) < 2 {
		return nil, ErrInsufficientBlocks
	}

	first := a.observed[0]
	outBits := uint(a.OutputBits())

	limit := 1 << a.cfg.TruncateBits
	capped := false
	if a.MaxCandidates > 0 && a.MaxCandidates < limit {
		limit = a.MaxCandidates
		capped = true
	}

	tried := 0
	unverified := 0
	for h := 0; h < limit; h++ {
		tried++

		// Candidate full x-coordinate: guessed prefix ‖ observed bits.
		x := new(big.Int).Lsh(big.NewInt(int64(h)), outBits)
		x.Or(x, first.Value)
		if x.Cmp(a.crv.P) >= 0 {
			continue
		}

		// Up to two points share this x; their states coincide, so
		// one lift suffices.
		R, _, err := a.crv.LiftX(x)
		if err != nil {
			// Non-residue: no output point has this x-coordinate.
			continue
		}

		// e⁻¹ * (r*Q) = r*P, whose x-coordinate is the next state.
		sp, err := a.crv.ScalarMult(a.eInv, R)
		if err != nil || sp.IsIdentity() {
			continue
		}
		state := sp.X

		ok, err := a.verify(state)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Recovered{
				State:           state,
				CandidatesTried: tried,
				VerifiedBlocks:  len(a.observed) - 1,
			}, nil
		}
		unverified++
	}

	return nil, &StateRecoveryError{CandidatesTried: tried, Unverified: unverified, Capped: capped}
}

// verify replays the generator from the candidate state and compares
// its output against every observed block after the first.
func (a *Attack) verify(state *big.Int) (bool, error) {
	g, err := dualec.Resume(a.crv, a.p, a.q, state, a.cfg)
	if err != nil {
		return false, err
	}

	for _, want := range a.observed[1:] {
		block, err := g.GenerateBlock()
		if err != nil {
			// A degenerate walk just disqualifies this candidate.
			return false, nil
		}
		if block.Value.Cmp(want.Value) != 0 {
			return false, nil
		}
	}
	return true, nil
}

// Predictor returns a generator resumed from the recovered state. Its
// first block reproduces the second observed block; everything after
// that is prediction without further observation.
func (a *Attack) Predictor(rec *Recovered) (*dualec.Generator, error) {
	return dualec.Resume(a.crv, a.p, a.q, rec.State, a.cfg)
}

// Predict replays n blocks from the recovered state.
func (a *Attack) Predict(rec *Recovered, n int) ([]*dualec.Block, error) {
	g, err := a.Predictor(rec)
	if err != nil {
		return nil, err
	}

	blocks := make([]*dualec.Block, 0, n)
	for i := 0; i < n; i++ {
		b, err := g.GenerateBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
