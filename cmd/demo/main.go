// Command demo walks through the library end to end on a terminal: it
// prints the demo curve, runs a Dual_EC_DRBG session, performs the
// backdoor state recovery, and finishes with ECDH, ECDSA and a
// primality check.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/lukau2357/ecc-go/pkg/crypto/backdoor"
	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
	"github.com/lukau2357/ecc-go/pkg/crypto/dualec"
	"github.com/lukau2357/ecc-go/pkg/crypto/ecdh"
	"github.com/lukau2357/ecc-go/pkg/crypto/ecdsa"
	"github.com/lukau2357/ecc-go/pkg/crypto/primes"
)

func main() {
	var (
		curveName = flag.String("curve", "demo65519", "Curve preset for the DRBG demo")
		seed      = flag.String("seed", "correct horse battery staple", "DRBG seed entropy")
		truncate  = flag.Uint("truncate-bits", 4, "Leading bits dropped from each DRBG block")
		observe   = flag.Int("observe", 3, "Blocks the attacker observes before recovering")
		predict   = flag.Int("predict", 4, "Blocks predicted after recovery")
	)
	flag.Parse()

	crv, err := curve.FromName(*curveName)
	if err != nil {
		log.Fatalf("Unsupported curve %q: %v", *curveName, err)
	}

	fmt.Println("=== ECC Demo: Dual_EC_DRBG and its backdoor ===")
	fmt.Println()
	fmt.Printf("Curve %s: y^2 = x^3 + %v*x + %v over F_%v\n", crv.Name, crv.A, crv.B, crv.P)
	fmt.Printf("Generator G = %v, subgroup order n = %v\n", crv.Generator(), crv.N)
	fmt.Println()

	runDRBG(crv, *seed, *truncate, *observe, *predict)
	runECDH(crv)
	runECDSA()
	runPrimes(crv)
}

func runDRBG(crv *curve.Curve, seed string, truncate uint, observe, predict int) {
	fmt.Println("--- Dual_EC_DRBG ---")

	// The party choosing the constants knows e with Q = e*P. Everyone
	// else just sees two innocent-looking points.
	P := crv.Generator()
	e, err := crv.RandomScalar(rand.Reader)
	if err != nil {
		log.Fatalf("Failed to draw backdoor scalar: %v", err)
	}
	for new(big.Int).ModInverse(e, crv.N) == nil {
		if e, err = crv.RandomScalar(rand.Reader); err != nil {
			log.Fatalf("Failed to draw backdoor scalar: %v", err)
		}
	}
	Q, err := crv.ScalarMult(e, P)
	if err != nil {
		log.Fatalf("Failed to derive Q: %v", err)
	}
	fmt.Printf("Public constants: P = %v, Q = %v\n", P, Q)
	fmt.Printf("(The constant-chooser secretly knows e = %v with Q = e*P)\n", e)

	cfg := dualec.Config{TruncateBits: truncate}
	gen, err := dualec.New(crv, P, Q, cfg)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}
	gen.Seed([]byte(seed))
	fmt.Printf("Seeded from %q; each block is %d bits (%d bits truncated)\n",
		seed, gen.OutputBits(), truncate)

	atk, err := backdoor.New(crv, e, P, Q, cfg)
	if err != nil {
		log.Fatalf("Failed to create attack: %v", err)
	}

	fmt.Printf("\nVictim publishes %d blocks:\n", observe)
	for i := 0; i < observe; i++ {
		block, err := gen.GenerateBlock()
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		fmt.Printf("  block %d: %v\n", block.Index, block.Value)
		if err := atk.Observe(block); err != nil {
			log.Fatalf("Observation failed: %v", err)
		}
	}

	fmt.Printf("\nAttacker brute-forces the %d missing bits of block 1...\n", truncate)
	start := time.Now()
	rec, err := atk.RecoverState()
	if err != nil {
		log.Fatalf("State recovery failed: %v", err)
	}
	fmt.Printf("Recovered internal state s = %v after %d candidates (%v)\n",
		rec.State, rec.CandidatesTried, time.Since(start).Round(time.Microsecond))

	predicted, err := atk.Predict(rec, observe-1+predict)
	if err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}
	future := predicted[observe-1:]

	fmt.Printf("\nAttacker predicts the next %d blocks before the victim generates them:\n", predict)
	for _, p := range future {
		actual, err := gen.GenerateBlock()
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		verdict := "MATCH"
		if p.Value.Cmp(actual.Value) != 0 {
			verdict = "MISS"
		}
		fmt.Printf("  predicted %v, victim produced %v  [%s]\n", p.Value, actual.Value, verdict)
	}
	fmt.Println()
}

func runECDH(crv *curve.Curve) {
	fmt.Println("--- ECDH key agreement ---")

	alice, err := ecdh.GenerateKey(crv, rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}
	bob, err := ecdh.GenerateKey(crv, rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}

	sa, err := alice.SharedSecret(bob.PublicKey())
	if err != nil {
		log.Fatalf("Agreement failed: %v", err)
	}
	sb, err := bob.SharedSecret(alice.PublicKey())
	if err != nil {
		log.Fatalf("Agreement failed: %v", err)
	}

	fmt.Printf("Alice public: %v\n", alice.PublicKey())
	fmt.Printf("Bob   public: %v\n", bob.PublicKey())
	fmt.Printf("Shared secret: %v (agree: %v)\n\n", sa, sa.Cmp(sb) == 0)
}

func runECDSA() {
	fmt.Println("--- ECDSA on secp256k1 ---")

	crv := curve.Secp256k1()
	key, err := ecdsa.GenerateKey(crv, rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate key: %v", err)
	}

	msg := []byte("attack at dawn")
	sig, err := key.Sign(rand.Reader, msg)
	if err != nil {
		log.Fatalf("Signing failed: %v", err)
	}
	fmt.Printf("Signed %q\n  r = %v\n  s = %v\n", msg, sig.R, sig.S)

	ok, err := ecdsa.Verify(crv, key.PublicKey(), msg, sig)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	fmt.Printf("Verify original message: %v\n", ok)

	ok, err = ecdsa.Verify(crv, key.PublicKey(), []byte("attack at dusk"), sig)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	fmt.Printf("Verify tampered message: %v\n\n", ok)
}

func runPrimes(crv *curve.Curve) {
	fmt.Println("--- Miller-Rabin primality ---")

	for _, n := range []*big.Int{crv.P, big.NewInt(561)} {
		res, err := primes.Test(context.Background(), n, primes.Options{})
		if err != nil {
			log.Fatalf("Primality test failed: %v", err)
		}
		if res.Prime {
			fmt.Printf("%v: probably prime (%d trials, error bound %.2g, %v)\n",
				n, res.Trials, res.ErrorBound(), res.Elapsed.Round(time.Microsecond))
		} else {
			fmt.Printf("%v: composite (witness %v)\n", n, res.Witness)
		}
	}

	gen, err := primes.Generate(context.Background(), 64, primes.Options{})
	if err != nil {
		log.Fatalf("Prime generation failed: %v", err)
	}
	fmt.Printf("Fresh 64-bit prime: %v (%d candidates, %v)\n",
		gen.Prime, gen.Candidates, gen.Elapsed.Round(time.Microsecond))
}
