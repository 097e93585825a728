package dualec

import (
	"errors"
	"math/big"
	"testing"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
)

func demoSetup(t *testing.T, cfg Config) (*curve.Curve, *curve.Point, *curve.Point, *Generator) {
	t.Helper()

	crv, err := curve.FromName("demo65519")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}

	P := crv.Generator()
	// Q = e*P for a fixed demo backdoor scalar.
	Q, err := crv.ScalarMult(big.NewInt(1337), P)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}

	g, err := New(crv, P, Q, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return crv, P, Q, g
}

func TestGenerateBlock(t *testing.T) {
	t.Run("UnseededRefuses", func(t *testing.T) {
		_, _, _, g := demoSetup(t, Config{})
		if _, err := g.GenerateBlock(); !errors.Is(err, ErrNotSeeded) {
			t.Errorf("GenerateBlock error = %v, want ErrNotSeeded", err)
		}
	})

	t.Run("OutputFitsWidth", func(t *testing.T) {
		_, _, _, g := demoSetup(t, Config{})
		g.Seed([]byte("fixed entropy"))

		limit := new(big.Int).Lsh(big.NewInt(1), uint(g.OutputBits()))
		for i := 0; i < 20; i++ {
			block, err := g.GenerateBlock()
			if err != nil {
				t.Fatalf("GenerateBlock: %v", err)
			}
			if block.Value.Sign() < 0 || block.Value.Cmp(limit) >= 0 {
				t.Fatalf("block %d value %v outside [0, 2^%d)", block.Index, block.Value, g.OutputBits())
			}
			if block.Bits != g.OutputBits() {
				t.Fatalf("block width %d, want %d", block.Bits, g.OutputBits())
			}
			if block.Index != i+1 {
				t.Fatalf("block index %d, want %d", block.Index, i+1)
			}
		}
	})

	t.Run("DefaultWidthOnDemoCurve", func(t *testing.T) {
		crv, _, _, g := demoSetup(t, Config{})
		want := crv.P.BitLen() - DefaultTruncateBits
		if g.OutputBits() != want {
			t.Errorf("OutputBits = %d, want %d", g.OutputBits(), want)
		}
	})
}

func TestDeterminism(t *testing.T) {
	t.Run("EqualSeedsEqualStreams", func(t *testing.T) {
		_, _, _, g1 := demoSetup(t, Config{})
		_, _, _, g2 := demoSetup(t, Config{})
		g1.Seed([]byte("entropy A"))
		g2.Seed([]byte("entropy A"))

		for i := 0; i < 10; i++ {
			b1, err := g1.GenerateBlock()
			if err != nil {
				t.Fatalf("GenerateBlock: %v", err)
			}
			b2, err := g2.GenerateBlock()
			if err != nil {
				t.Fatalf("GenerateBlock: %v", err)
			}
			if b1.Value.Cmp(b2.Value) != 0 {
				t.Fatalf("block %d diverged: %v vs %v", i+1, b1.Value, b2.Value)
			}
		}
	})

	t.Run("DifferentSeedsDiverge", func(t *testing.T) {
		_, _, _, g1 := demoSetup(t, Config{})
		_, _, _, g2 := demoSetup(t, Config{})
		g1.Seed([]byte("entropy A"))
		g2.Seed([]byte("entropy B"))

		same := true
		for i := 0; i < 5; i++ {
			b1, err := g1.GenerateBlock()
			if err != nil {
				t.Fatalf("GenerateBlock: %v", err)
			}
			b2, err := g2.GenerateBlock()
			if err != nil {
				t.Fatalf("GenerateBlock: %v", err)
			}
			if b1.Value.Cmp(b2.Value) != 0 {
				same = false
			}
		}
		if same {
			t.Error("five blocks identical under different seeds")
		}
	})

	t.Run("ReseedChangesStream", func(t *testing.T) {
		_, _, _, g1 := demoSetup(t, Config{})
		_, _, _, g2 := demoSetup(t, Config{})
		g1.Seed([]byte("entropy A"))
		g2.Seed([]byte("entropy A"))

		if err := g2.Reseed([]byte("fresh")); err != nil {
			t.Fatalf("Reseed: %v", err)
		}

		b1, err := g1.GenerateBlock()
		if err != nil {
			t.Fatalf("GenerateBlock: %v", err)
		}
		b2, err := g2.GenerateBlock()
		if err != nil {
			t.Fatalf("GenerateBlock: %v", err)
		}
		if b1.Value.Cmp(b2.Value) == 0 {
			t.Error("reseed did not change the stream")
		}
	})
}

func TestReseedRecommendation(t *testing.T) {
	_, _, _, g := demoSetup(t, Config{ReseedInterval: 3})
	g.Seed([]byte("entropy"))

	for i := 1; i <= 5; i++ {
		block, err := g.GenerateBlock()
		if err != nil {
			t.Fatalf("GenerateBlock: %v", err)
		}
		want := i >= 3
		if block.ReseedRecommended != want {
			t.Errorf("block %d: ReseedRecommended = %v, want %v", i, block.ReseedRecommended, want)
		}
	}

	// Reseeding clears the recommendation.
	if err := g.Reseed([]byte("fresh")); err != nil {
		t.Fatalf("Reseed: %v", err)
	}
	block, err := g.GenerateBlock()
	if err != nil {
		t.Fatalf("GenerateBlock: %v", err)
	}
	if block.ReseedRecommended {
		t.Error("ReseedRecommended still set after reseed")
	}
}

func TestResume(t *testing.T) {
	crv, P, Q, g := demoSetup(t, Config{})
	g.Seed([]byte("entropy"))

	if _, err := g.GenerateBlock(); err != nil {
		t.Fatalf("GenerateBlock: %v", err)
	}

	// A generator resumed from the current internal state must produce
	// the same continuation.
	replay, err := Resume(crv, P, Q, g.s, g.cfg)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	for i := 0; i < 5; i++ {
		want, err := g.GenerateBlock()
		if err != nil {
			t.Fatalf("GenerateBlock: %v", err)
		}
		got, err := replay.GenerateBlock()
		if err != nil {
			t.Fatalf("GenerateBlock: %v", err)
		}
		if got.Value.Cmp(want.Value) != 0 {
			t.Fatalf("replayed block %d = %v, want %v", i+1, got.Value, want.Value)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	crv, err := curve.FromName("toy13")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}
	P := crv.Generator()

	t.Run("TruncationWiderThanField", func(t *testing.T) {
		_, err := New(crv, P, P, Config{TruncateBits: 4})
		if !errors.Is(err, ErrBadTruncation) {
			t.Errorf("New error = %v, want ErrBadTruncation", err)
		}
	})

	t.Run("IdentityPointRejected", func(t *testing.T) {
		if _, err := New(crv, nil, P, Config{TruncateBits: 1}); !errors.Is(err, curve.ErrInvalidPoint) {
			t.Errorf("New(O, P) error = %v, want ErrInvalidPoint", err)
		}
	})

	t.Run("OffCurvePointRejected", func(t *testing.T) {
		bad := &curve.Point{X: big.NewInt(5), Y: big.NewInt(5)}
		if _, err := New(crv, P, bad, Config{TruncateBits: 1}); !errors.Is(err, curve.ErrInvalidPoint) {
			t.Errorf("New(P, off-curve) error = %v, want ErrInvalidPoint", err)
		}
	})
}
