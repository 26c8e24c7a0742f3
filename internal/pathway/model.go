// Package pathway holds the declarative metabolic network model: metabolites,
// enzymes, reactions, and regulatory links. A Pathway is immutable once built;
// transforms return a structurally updated copy. Reactions reference
// metabolites and enzymes by id string; Compile resolves ids to dense integer
// indices for the integration hot path.
package pathway

import (
	"github.com/metaflux/metaflux/internal/kinetics"
)

// Orientation is the strand a genetic modifier's risk allele is reported on.
type Orientation string

const (
	OrientationPlus  Orientation = "Plus"
	OrientationMinus Orientation = "Minus"
)

// Metabolite is a tracked chemical species.
type Metabolite struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	InitialConcentration float64 `json:"initialConcentration"` // mM, >= 0
	Compartment          string  `json:"compartment,omitempty"`
}

// GeneticModifier describes how a genotype at one SNP scales an enzyme's Vmax.
type GeneticModifier struct {
	RsID               string      `json:"rsId"`
	GeneName           string      `json:"geneName"`
	RiskAllele         string      `json:"riskAllele"` // single base
	Orientation        Orientation `json:"orientation"`
	HomozygousEffect   float64     `json:"homozygousEffect"`
	HeterozygousEffect float64     `json:"heterozygousEffect"`
	Description        string      `json:"description,omitempty"`
}

// Enzyme is a catalyst with kinetic parameters and genetic modifiers.
type Enzyme struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ECNumber         string            `json:"ecNumber,omitempty"`
	Vmax             float64           `json:"vmax"` // mM/s
	Km               float64           `json:"km"`   // mM
	Cofactors        []string          `json:"cofactors,omitempty"`
	GeneticModifiers []GeneticModifier `json:"geneticModifiers,omitempty"`
}

// WithVmax returns a copy of the enzyme with Vmax replaced.
func (e Enzyme) WithVmax(vmax float64) Enzyme {
	e.Vmax = vmax
	return e
}

// ReactionParticipant is a stoichiometric role in a reaction.
type ReactionParticipant struct {
	MetaboliteID string `json:"metaboliteId"`
	Coefficient  int    `json:"coefficient"` // >= 1
}

// Reaction is a directed transformation from substrates to products.
// The first-declared substrate is the limiting substrate for saturating
// rate laws; additional substrates enter only through stoichiometric
// consumption. Kinetics names the rate law; Ki and Ka apply to the listed
// inhibitors and activators respectively.
type Reaction struct {
	ID              string                `json:"id"`
	Name            string                `json:"name,omitempty"`
	EnzymeID        string                `json:"enzymeId"`
	Substrates      []ReactionParticipant `json:"substrates"`
	Products        []ReactionParticipant `json:"products"`
	Kinetics        kinetics.Kind         `json:"kinetics"`
	Inhibitors      []string              `json:"inhibitors,omitempty"`
	Activators      []string              `json:"activators,omitempty"`
	Ki              float64               `json:"ki,omitempty"`
	Ka              float64               `json:"ka,omitempty"`
	HillCoefficient float64               `json:"hillCoefficient,omitempty"`
}

// Pathway is an immutable collection of metabolites, reactions, and the
// enzymes they reference.
type Pathway struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Metabolites []Metabolite `json:"metabolites"`
	Reactions   []Reaction   `json:"reactions"`
	Enzymes     []Enzyme     `json:"enzymes"`
}

// Enzyme returns the enzyme with the given id, or false when absent.
func (p Pathway) Enzyme(id string) (Enzyme, bool) {
	for _, e := range p.Enzymes {
		if e.ID == id {
			return e, true
		}
	}
	return Enzyme{}, false
}

// Metabolite returns the metabolite with the given id, or false when absent.
func (p Pathway) Metabolite(id string) (Metabolite, bool) {
	for _, m := range p.Metabolites {
		if m.ID == id {
			return m, true
		}
	}
	return Metabolite{}, false
}

// clone performs a deep copy so structural updates never alias the original.
func (p Pathway) clone() Pathway {
	out := p
	out.Metabolites = append([]Metabolite(nil), p.Metabolites...)
	out.Reactions = make([]Reaction, len(p.Reactions))
	for i, r := range p.Reactions {
		rc := r
		rc.Substrates = append([]ReactionParticipant(nil), r.Substrates...)
		rc.Products = append([]ReactionParticipant(nil), r.Products...)
		rc.Inhibitors = append([]string(nil), r.Inhibitors...)
		rc.Activators = append([]string(nil), r.Activators...)
		out.Reactions[i] = rc
	}
	out.Enzymes = make([]Enzyme, len(p.Enzymes))
	for i, e := range p.Enzymes {
		ec := e
		ec.Cofactors = append([]string(nil), e.Cofactors...)
		ec.GeneticModifiers = append([]GeneticModifier(nil), e.GeneticModifiers...)
		out.Enzymes[i] = ec
	}
	return out
}

// UpdateMetabolite returns a copy of the pathway with fn applied to the
// metabolite with the given id. Unknown ids return the pathway unchanged.
func (p Pathway) UpdateMetabolite(id string, fn func(Metabolite) Metabolite) Pathway {
	out := p.clone()
	for i, m := range out.Metabolites {
		if m.ID == id {
			out.Metabolites[i] = fn(m)
			break
		}
	}
	return out
}

// UpdateEnzyme returns a copy of the pathway with fn applied to the enzyme
// with the given id. Unknown ids return the pathway unchanged.
func (p Pathway) UpdateEnzyme(id string, fn func(Enzyme) Enzyme) Pathway {
	out := p.clone()
	for i, e := range out.Enzymes {
		if e.ID == id {
			out.Enzymes[i] = fn(e)
			break
		}
	}
	return out
}
