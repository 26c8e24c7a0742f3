// Package kinetics provides the rate laws used to evaluate reactions.
// All functions are pure and total: degenerate inputs (non-positive
// substrate, Vmax, Km, or saturation constants) yield a rate of zero
// rather than an error, so callers never branch on failure in the hot
// path. Rates are in mM/s.
package kinetics

import "math"

// Kind identifies the rate law a reaction uses.
type Kind string

const (
	KindMichaelisMenten          Kind = "MichaelisMenten"
	KindCompetitiveInhibition    Kind = "CompetitiveInhibition"
	KindNonCompetitiveInhibition Kind = "NonCompetitiveInhibition"
	KindAllosteric               Kind = "Allosteric"
	KindMassAction               Kind = "MassAction"
)

// ValidKind reports whether s names a known kinetics kind.
func ValidKind(s string) bool {
	switch Kind(s) {
	case KindMichaelisMenten, KindCompetitiveInhibition, KindNonCompetitiveInhibition,
		KindAllosteric, KindMassAction:
		return true
	}
	return false
}

// MichaelisMenten computes Vmax*S / (Km + S).
// Returns 0 when S <= 0, Vmax <= 0, or Km <= 0.
func MichaelisMenten(vmax, km, s float64) float64 {
	if s <= 0 || vmax <= 0 || km <= 0 {
		return 0
	}
	return vmax * s / (km + s)
}

// CompetitiveInhibition computes Vmax*S / (Km*(1 + I/Ki) + S).
// Falls back to MichaelisMenten when Ki <= 0 or no inhibitor is present.
func CompetitiveInhibition(vmax, km, s, i, ki float64) float64 {
	if ki <= 0 || i <= 0 {
		return MichaelisMenten(vmax, km, s)
	}
	if s <= 0 || vmax <= 0 || km <= 0 {
		return 0
	}
	return vmax * s / (km*(1+i/ki) + s)
}

// NonCompetitiveInhibition computes (Vmax/(1 + I/Ki)) * S/(Km + S).
// Falls back to MichaelisMenten when Ki <= 0 or no inhibitor is present.
func NonCompetitiveInhibition(vmax, km, s, i, ki float64) float64 {
	if ki <= 0 || i <= 0 {
		return MichaelisMenten(vmax, km, s)
	}
	if s <= 0 || vmax <= 0 || km <= 0 {
		return 0
	}
	return (vmax / (1 + i/ki)) * s / (km + s)
}

// Allosteric computes the Hill equation Vmax*S^n / (K^n + S^n).
// A Hill coefficient n <= 0 is treated as 1 (hyperbolic).
func Allosteric(vmax, k, s, n float64) float64 {
	if s <= 0 || vmax <= 0 || k <= 0 {
		return 0
	}
	if n <= 0 {
		n = 1
	}
	sn := math.Pow(s, n)
	kn := math.Pow(k, n)
	denom := kn + sn
	if denom <= 0 {
		return 0
	}
	return vmax * sn / denom
}

// MassAction computes k*S. With hasSubstrate false it returns k,
// modeling a constant source.
func MassAction(k, s float64, hasSubstrate bool) float64 {
	if k <= 0 {
		return 0
	}
	if !hasSubstrate {
		return k
	}
	if s <= 0 {
		return 0
	}
	return k * s
}

// ActivationMultiplier scales baseRate by (1 + A/Ka).
// Returns baseRate unchanged when Ka <= 0 or A <= 0.
func ActivationMultiplier(baseRate, a, ka float64) float64 {
	if ka <= 0 || a <= 0 {
		return baseRate
	}
	return baseRate * (1 + a/ka)
}
