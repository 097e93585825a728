package curve

import (
	"fmt"
	"strings"
	"sync"
)

// demo65519 derives its generator order by an exhaustive walk, so the
// preset is built once and reused.
var (
	demoOnce  sync.Once
	demoCurve *Curve
)

// FromName returns the preset curve with the provided name.
func FromName(name string) (*Curve, error) {
	switch strings.ToLower(name) {
	case "secp256k1":
		return Secp256k1(), nil
	case "nistp256", "p-256", "p256":
		return NistP256(), nil
	case "brainpoolp256r1":
		return BrainpoolP256r1(), nil
	case "toy13":
		return Toy13(), nil
	case "demo65519":
		demoOnce.Do(func() { demoCurve = Demo65519() })
		return demoCurve, nil
	default:
		return nil, fmt.Errorf("unsupported curve: %s", name)
	}
}

// SupportedCurves lists the curve identifiers understood by FromName.
func SupportedCurves() []string {
	return []string{"secp256k1", "nistp256", "brainpoolP256r1", "toy13", "demo65519"}
}
