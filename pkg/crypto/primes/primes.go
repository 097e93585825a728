// Package primes implements Miller-Rabin probabilistic primality
// testing with the witness loop written out, plus a worker pool that
// spreads the independent trials across goroutines.
//
// Each trial draws a random base a and checks whether a proves n
// composite. A passing trial is no proof of primality, but every trial
// an odd composite survives happens with probability at most 1/4, so
// after t independent trials the error bound is 4^-t. Trials are
// independent, which is what makes them embarrassingly parallel: the
// first witness found cancels the remaining work.
package primes

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"math/big"
	"runtime"
	"sync"
	"time"
)

// DefaultTrials gives an error bound of 4^-40, comfortably below the
// chance of a hardware fault corrupting the answer.
const DefaultTrials = 40

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Options tunes a primality test. The zero value is usable.
type Options struct {
	// Trials is the number of Miller-Rabin rounds. 0 means
	// DefaultTrials.
	Trials int

	// Workers is the number of goroutines running trials. 0 means
	// runtime.NumCPU, capped at Trials.
	Workers int

	// Rand is the source of trial bases. nil means crypto/rand. It is
	// read concurrently, so a custom source must be safe for
	// concurrent use.
	Rand io.Reader
}

// Result describes the outcome of a primality test.
type Result struct {
	// Prime reports whether n passed every trial.
	Prime bool

	// Trials is the number of rounds actually performed. A witness
	// cancels outstanding rounds, so it can be lower than requested
	// for composites.
	Trials int

	// Witness is a base proving n composite, when one was found.
	Witness *big.Int

	// Elapsed is the wall-clock duration of the test.
	Elapsed time.Duration
}

// ErrorBound returns the probability that a composite survives the
// performed trials, 4^-Trials. Zero for proven composites.
func (r *Result) ErrorBound() float64 {
	if !r.Prime {
		return 0
	}
	return math.Pow(0.25, float64(r.Trials))
}

// Test runs Miller-Rabin on n. Deterministic small cases (n < 4, even
// n) are answered without any trials. The context cancels the test
// midway; a cancelled test returns ctx.Err() rather than a partial
// verdict.
func Test(ctx context.Context, n *big.Int, opts Options) (*Result, error) {
	start := time.Now()

	if n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("primes: candidate must be positive")
	}

	// Small and even candidates need no randomness.
	if n.Cmp(big.NewInt(4)) < 0 {
		return &Result{Prime: n.Cmp(one) > 0, Elapsed: time.Since(start)}, nil
	}
	if n.Bit(0) == 0 {
		return &Result{Prime: false, Witness: two, Elapsed: time.Since(start)}, nil
	}

	trials := opts.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > trials {
		workers = trials
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	// n - 1 = d * 2^s with d odd, shared by every trial.
	d, s := decompose(n)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan struct{})
	witnesses := make(chan *big.Int, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	var completed int64
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				a, err := randomBase(rnd, n)
				if err != nil {
					errs <- err
					cancel()
					return
				}
				if isWitness(a, d, s, n) {
					witnesses <- a
					cancel()
					return
				}
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
	}

	// Feed trials until done or something stops the run.
feed:
	for i := 0; i < trials; i++ {
		select {
		case jobs <- struct{}{}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, fmt.Errorf("primes: drawing trial base: %w", err)
	default:
	}

	select {
	case a := <-witnesses:
		return &Result{
			Prime:   false,
			Trials:  int(completed) + 1,
			Witness: a,
			Elapsed: time.Since(start),
		}, nil
	default:
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{Prime: true, Trials: trials, Elapsed: time.Since(start)}, nil
}

// Generated describes a prime found by Generate.
type Generated struct {
	// Prime is the found prime, Bits wide.
	Prime *big.Int

	// Candidates is how many random candidates were tested across all
	// workers before one passed.
	Candidates int

	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration
}

// Generate searches for a probable prime of exactly bits bits. Workers
// independently draw random odd candidates with the top bit set and
// race to pass the Miller-Rabin trials; the first success wins and
// cancels the rest.
func Generate(ctx context.Context, bits int, opts Options) (*Generated, error) {
	start := time.Now()

	if bits < 2 {
		return nil, fmt.Errorf("primes: bit size must be at least 2")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan *big.Int, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	candidates := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				n, err := randomCandidate(rnd, bits)
				if err != nil {
					errs <- err
					cancel()
					return
				}

				mu.Lock()
				candidates++
				mu.Unlock()

				res, err := Test(ctx, n, Options{Trials: opts.Trials, Workers: 1, Rand: rnd})
				if err != nil {
					// Cancellation of the inner test just ends the race.
					return
				}
				if res.Prime {
					found <- n
					cancel()
					return
				}
			}
		}()
	}
	wg.Wait()

	select {
	case err := <-errs:
		return nil, fmt.Errorf("primes: drawing candidate: %w", err)
	default:
	}

	select {
	case p := <-found:
		return &Generated{Prime: p, Candidates: candidates, Elapsed: time.Since(start)}, nil
	default:
	}

	return nil, ctx.Err()
}

// randomCandidate draws a bits-wide odd integer with the top bit set,
// so every candidate has exactly the requested size.
func randomCandidate(rnd io.Reader, bits int) (*big.Int, error) {
	span := new(big.Int).Lsh(one, uint(bits-1))
	n, err := rand.Int(rnd, span)
	if err != nil {
		return nil, err
	}
	n.Or(n, span)     // top bit
	n.SetBit(n, 0, 1) // odd
	return n, nil
}

// decompose writes n-1 as d * 2^s with d odd.
func decompose(n *big.Int) (d *big.Int, s uint) {
	d = new(big.Int).Sub(n, one)
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}
	return d, s
}

// randomBase draws a uniformly from [2, n-2].
func randomBase(rnd io.Reader, n *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(n, big.NewInt(3))
	a, err := rand.Int(rnd, span)
	if err != nil {
		return nil, err
	}
	return a.Add(a, two), nil
}

// isWitness runs one Miller-Rabin round: a proves n composite unless
// a^d = 1 or a^(d*2^i) = n-1 for some i < s.
func isWitness(a, d *big.Int, s uint, n *big.Int) bool {
	nMinus1 := new(big.Int).Sub(n, one)

	x := new(big.Int).Exp(a, d, n)
	if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
		return false
	}

	for i := uint(1); i < s; i++ {
		x.Mul(x, x).Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return false
		}
	}
	return true
}
