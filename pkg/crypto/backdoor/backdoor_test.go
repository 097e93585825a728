package backdoor

import (
	"errors"
	"math/big"
	"testing"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
	"github.com/lukau2357/ecc-go/pkg/crypto/dualec"
)

// coprimeScalar returns the first integer >= start that is invertible
// mod n, so the backdoor relation Q = e*P is always attackable.
func coprimeScalar(n *big.Int, start int64) *big.Int {
	gcd := new(big.Int)
	for e := big.NewInt(start); ; e.Add(e, big.NewInt(1)) {
		if gcd.GCD(nil, nil, e, n).Cmp(big.NewInt(1)) == 0 {
			return new(big.Int).Set(e)
		}
	}
}

// attackSetup builds a victim generator with a backdoored Q = e*P and
// an attack context that knows e.
func attackSetup(t *testing.T, cfg dualec.Config) (*dualec.Generator, *Attack, *big.Int) {
	t.Helper()

	crv, err := curve.FromName("demo65519")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}

	P := crv.Generator()
	e := coprimeScalar(crv.N, 1337)
	Q, err := crv.ScalarMult(e, P)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}

	victim, err := dualec.New(crv, P, Q, cfg)
	if err != nil {
		t.Fatalf("dualec.New: %v", err)
	}

	atk, err := New(crv, e, P, Q, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return victim, atk, e
}

func generate(t *testing.T, g *dualec.Generator, n int) []*dualec.Block {
	t.Helper()
	blocks := make([]*dualec.Block, 0, n)
	for i := 0; i < n; i++ {
		b, err := g.GenerateBlock()
		if err != nil {
			t.Fatalf("GenerateBlock: %v", err)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func TestRecoverState(t *testing.T) {
	t.Run("RecoverAndPredict", func(t *testing.T) {
		victim, atk, _ := attackSetup(t, dualec.Config{})
		victim.Seed([]byte("victim entropy"))

		// The attacker sees three blocks; the victim keeps generating.
		blocks := generate(t, victim, 6)
		for _, b := range blocks[:3] {
			if err := atk.Observe(b); err != nil {
				t.Fatalf("Observe: %v", err)
			}
		}

		rec, err := atk.RecoverState()
		if err != nil {
			t.Fatalf("RecoverState: %v", err)
		}
		if rec.State == nil || rec.State.Sign() <= 0 {
			t.Fatalf("recovered state %v is not positive", rec.State)
		}
		if rec.VerifiedBlocks != 2 {
			t.Errorf("VerifiedBlocks = %d, want 2", rec.VerifiedBlocks)
		}
		if max := 1 << dualec.DefaultTruncateBits; rec.CandidatesTried > max {
			t.Errorf("CandidatesTried = %d, exceeds search space %d", rec.CandidatesTried, max)
		}

		// The recovered state is the victim's state after block 1, so
		// predictions start at block 2 and run past the observed window.
		predicted, err := atk.Predict(rec, 5)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		for i, want := range blocks[1:6] {
			if predicted[i].Value.Cmp(want.Value) != 0 {
				t.Fatalf("predicted block %d = %v, want %v", want.Index, predicted[i].Value, want.Value)
			}
		}
	})

	t.Run("WrongScalarFails", func(t *testing.T) {
		victim, _, e := attackSetup(t, dualec.Config{})
		victim.Seed([]byte("victim entropy"))

		crv, err := curve.FromName("demo65519")
		if err != nil {
			t.Fatalf("FromName: %v", err)
		}
		P := crv.Generator()
		Q, err := crv.ScalarMult(e, P)
		if err != nil {
			t.Fatalf("ScalarMult: %v", err)
		}

		// An attacker guessing a different scalar gets nothing.
		wrong := coprimeScalar(crv.N, e.Int64()+2)
		atk, err := New(crv, wrong, P, Q, dualec.Config{})
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		for _, b := range generate(t, victim, 3) {
			if err := atk.Observe(b); err != nil {
				t.Fatalf("Observe: %v", err)
			}
		}

		_, err = atk.RecoverState()
		if !errors.Is(err, ErrStateRecoveryFailed) {
			t.Fatalf("RecoverState error = %v, want ErrStateRecoveryFailed", err)
		}
		var sre *StateRecoveryError
		if !errors.As(err, &sre) {
			t.Fatalf("RecoverState error %T, want *StateRecoveryError", err)
		}
		if sre.Capped {
			t.Error("search reported as capped without MaxCandidates")
		}
		if max := 1 << dualec.DefaultTruncateBits; sre.CandidatesTried != max {
			t.Errorf("CandidatesTried = %d, want full search %d", sre.CandidatesTried, max)
		}
	})

	t.Run("CandidateCap", func(t *testing.T) {
		victim, _, e := attackSetup(t, dualec.Config{})
		victim.Seed([]byte("victim entropy"))

		crv, err := curve.FromName("demo65519")
		if err != nil {
			t.Fatalf("FromName: %v", err)
		}
		P := crv.Generator()
		Q, err := crv.ScalarMult(e, P)
		if err != nil {
			t.Fatalf("ScalarMult: %v", err)
		}

		wrong := coprimeScalar(crv.N, e.Int64()+2)
		atk, err := New(crv, wrong, P, Q, dualec.Config{})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		atk.MaxCandidates = 3

		for _, b := range generate(t, victim, 3) {
			if err := atk.Observe(b); err != nil {
				t.Fatalf("Observe: %v", err)
			}
		}

		_, err = atk.RecoverState()
		var sre *StateRecoveryError
		if !errors.As(err, &sre) {
			t.Fatalf("RecoverState error = %v, want *StateRecoveryError", err)
		}
		if !sre.Capped {
			t.Error("search not reported as capped")
		}
		if sre.CandidatesTried > 3 {
			t.Errorf("CandidatesTried = %d, want at most 3", sre.CandidatesTried)
		}
	})

	t.Run("InsufficientBlocks", func(t *testing.T) {
		victim, atk, _ := attackSetup(t, dualec.Config{})
		victim.Seed([]byte("victim entropy"))

		if err := atk.Observe(generate(t, victim, 1)[0]); err != nil {
			t.Fatalf("Observe: %v", err)
		}
		if _, err := atk.RecoverState(); !errors.Is(err, ErrInsufficientBlocks) {
			t.Errorf("RecoverState error = %v, want ErrInsufficientBlocks", err)
		}
	})
}

func TestObserve(t *testing.T) {
	_, atk, _ := attackSetup(t, dualec.Config{})

	t.Run("NilBlock", func(t *testing.T) {
		if err := atk.Observe(nil); err == nil {
			t.Error("Observe(nil) succeeded, want error")
		}
	})

	t.Run("WidthMismatch", func(t *testing.T) {
		bad := &dualec.Block{Value: big.NewInt(1), Bits: atk.OutputBits() + 1, Index: 1}
		if err := atk.Observe(bad); !errors.Is(err, ErrBlockWidthMismatch) {
			t.Errorf("Observe error = %v, want ErrBlockWidthMismatch", err)
		}
	})

	t.Run("CountsBlocks", func(t *testing.T) {
		_, atk, _ := attackSetup(t, dualec.Config{})
		b := &dualec.Block{Value: big.NewInt(1), Bits: atk.OutputBits(), Index: 1}
		if err := atk.Observe(b); err != nil {
			t.Fatalf("Observe: %v", err)
		}
		if atk.Observed() != 1 {
			t.Errorf("Observed = %d, want 1", atk.Observed())
		}
	})
}

func TestNewValidation(t *testing.T) {
	crv, err := curve.FromName("demo65519")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}
	P := crv.Generator()

	t.Run("NonInvertibleScalar", func(t *testing.T) {
		if _, err := New(crv, new(big.Int).Set(crv.N), P, P, dualec.Config{}); !errors.Is(err, ErrNotCoprime) {
			t.Errorf("New(n) error = %v, want ErrNotCoprime", err)
		}
	})

	t.Run("IdentityPointRejected", func(t *testing.T) {
		if _, err := New(crv, big.NewInt(3), nil, P, dualec.Config{}); !errors.Is(err, curve.ErrInvalidPoint) {
			t.Errorf("New(O, P) error = %v, want ErrInvalidPoint", err)
		}
	})

	t.Run("TruncationWiderThanField", func(t *testing.T) {
		toy, err := curve.FromName("toy13")
		if err != nil {
			t.Fatalf("FromName: %v", err)
		}
		G := toy.Generator()
		if _, err := New(toy, big.NewInt(3), G, G, dualec.Config{TruncateBits: 4}); err == nil {
			t.Error("New with 4-bit truncation on a 4-bit field succeeded, want error")
		}
	})
}
