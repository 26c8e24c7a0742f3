package profile

import (
	"github.com/metaflux/metaflux/internal/pathway"
)

// SupplementType names the mechanism by which a supplement intervenes.
type SupplementType string

const (
	SupplementSubstrateIncrease        SupplementType = "SubstrateIncrease"
	SupplementCofactorIncrease         SupplementType = "CofactorIncrease"
	SupplementEnzymeActivation         SupplementType = "EnzymeActivation"
	SupplementEnzymeInhibition         SupplementType = "EnzymeInhibition"
	SupplementDirectMetaboliteAddition SupplementType = "DirectMetaboliteAddition"
)

// Supplement is a declarative intervention applied before a run.
type Supplement struct {
	ID              string         `json:"id" yaml:"id"`
	Name            string         `json:"name" yaml:"name"`
	Type            SupplementType `json:"type" yaml:"type"`
	TargetID        string         `json:"targetId" yaml:"target_id"`
	EffectMagnitude float64        `json:"effectMagnitude" yaml:"effect_magnitude"`
	Mechanism       string         `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`
}

// ApplySupplements folds supplements into a pathway and an enzyme activity
// map. Substrate, cofactor, and direct additions add the effect magnitude to
// the target metabolite's initial concentration; enzyme activation multiplies
// the enzyme's activity factor by the magnitude and inhibition divides it.
// The returned map carries a factor for every targeted enzyme id; untargeted
// enzymes are implicitly 1.0.
func ApplySupplements(p pathway.Pathway, supplements []Supplement) (pathway.Pathway, map[string]float64) {
	activity := make(map[string]float64)
	out := p

	for _, s := range supplements {
		switch s.Type {
		case SupplementSubstrateIncrease, SupplementCofactorIncrease, SupplementDirectMetaboliteAddition:
			add := s.EffectMagnitude
			out = out.UpdateMetabolite(s.TargetID, func(m pathway.Metabolite) pathway.Metabolite {
				m.InitialConcentration += add
				return m
			})
		case SupplementEnzymeActivation:
			if s.EffectMagnitude > 0 {
				activity[s.TargetID] = factorOr1(activity, s.TargetID) * s.EffectMagnitude
			}
		case SupplementEnzymeInhibition:
			if s.EffectMagnitude > 0 {
				activity[s.TargetID] = factorOr1(activity, s.TargetID) / s.EffectMagnitude
			}
		}
	}

	return out, activity
}

func factorOr1(m map[string]float64, id string) float64 {
	if f, ok := m[id]; ok {
		return f
	}
	return 1.0
}
