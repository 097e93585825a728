package curve

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

func TestFromName(t *testing.T) {
	t.Run("AllSupportedCurvesResolve", func(t *testing.T) {
		for _, name := range SupportedCurves() {
			c, err := FromName(name)
			if err != nil {
				t.Fatalf("FromName(%q): %v", name, err)
			}
			if !c.IsOnCurve(c.Generator()) {
				t.Errorf("%s: generator not on curve", name)
			}
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		if _, err := FromName("SECP256K1"); err != nil {
			t.Errorf("FromName(SECP256K1): %v", err)
		}
	})

	t.Run("UnknownCurve", func(t *testing.T) {
		if _, err := FromName("curve25519"); err == nil {
			t.Error("FromName(curve25519) succeeded, want error")
		}
	})

	t.Run("DemoCurveIsCached", func(t *testing.T) {
		c1, _ := FromName("demo65519")
		c2, _ := FromName("demo65519")
		if c1 != c2 {
			t.Error("demo65519 rebuilt instead of reused")
		}
	})
}

// TestSecp256k1AgainstBtcec pits the generic affine arithmetic against
// btcec's dedicated secp256k1 implementation on the same inputs. Any
// divergence means a bug in the group law here.
func TestSecp256k1AgainstBtcec(t *testing.T) {
	c := Secp256k1()
	ref := btcec.S256()

	scalars := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(0xdeadbeef),
		new(big.Int).Sub(c.N, big.NewInt(1)),
	}

	t.Run("ScalarBaseMult", func(t *testing.T) {
		for _, k := range scalars {
			got, err := c.ScalarBaseMult(k)
			if err != nil {
				t.Fatalf("ScalarBaseMult(%v): %v", k, err)
			}
			wantX, wantY := ref.ScalarBaseMult(k.Bytes())
			if got.X.Cmp(wantX) != 0 || got.Y.Cmp(wantY) != 0 {
				t.Errorf("%v*G = %v, btcec says (%v, %v)", k, got, wantX, wantY)
			}
		}
	})

	t.Run("Add", func(t *testing.T) {
		twoG, err := c.ScalarBaseMult(big.NewInt(2))
		if err != nil {
			t.Fatalf("2*G: %v", err)
		}
		threeG, err := c.Add(c.Generator(), twoG)
		if err != nil {
			t.Fatalf("G + 2G: %v", err)
		}
		wantX, wantY := ref.ScalarBaseMult(big.NewInt(3).Bytes())
		if threeG.X.Cmp(wantX) != 0 || threeG.Y.Cmp(wantY) != 0 {
			t.Errorf("G + 2G = %v, btcec says (%v, %v)", threeG, wantX, wantY)
		}
	})

	t.Run("SharedParameters", func(t *testing.T) {
		if c.N.Cmp(ref.Params().N) != 0 {
			t.Error("group order differs from btcec")
		}
		if c.P.Cmp(ref.Params().P) != 0 {
			t.Error("field modulus differs from btcec")
		}
	})
}

func TestDemo65519Preset(t *testing.T) {
	c, err := FromName("demo65519")
	if err != nil {
		t.Fatalf("FromName: %v", err)
	}

	t.Run("OrderAnnihilatesGenerator", func(t *testing.T) {
		p, err := c.ScalarBaseMult(c.N)
		if err != nil {
			t.Fatalf("n*G: %v", err)
		}
		if !p.IsIdentity() {
			t.Errorf("n*G = %v, want identity", p)
		}
	})

	t.Run("OrderIsMinimal", func(t *testing.T) {
		n, err := c.SubgroupOrder(c.Generator())
		if err != nil {
			t.Fatalf("SubgroupOrder: %v", err)
		}
		if n.Cmp(c.N) != 0 {
			t.Errorf("SubgroupOrder = %v, preset order = %v", n, c.N)
		}
	})

	t.Run("HasseBound", func(t *testing.T) {
		// |#E - (p+1)| <= 2*sqrt(p); the subgroup order divides #E, so
		// it cannot exceed p + 1 + 2*sqrt(p) = 66032.
		if c.N.Cmp(big.NewInt(66032)) > 0 {
			t.Errorf("order %v exceeds the Hasse bound", c.N)
		}
		if c.N.Cmp(big.NewInt(1)) <= 0 {
			t.Errorf("degenerate order %v", c.N)
		}
	})
}
