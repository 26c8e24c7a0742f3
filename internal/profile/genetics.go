package profile

import (
	"strings"

	"github.com/metaflux/metaflux/internal/pathway"
)

// complementBase returns the Watson-Crick complement of a base, leaving
// non-ACGT characters unchanged.
func complementBase(b rune) rune {
	switch b {
	case 'A', 'a':
		return 'T'
	case 'T', 't':
		return 'A'
	case 'C', 'c':
		return 'G'
	case 'G', 'g':
		return 'C'
	}
	return b
}

// complement complements every base in a genotype string.
func complement(genotype string) string {
	var sb strings.Builder
	sb.Grow(len(genotype))
	for _, b := range genotype {
		sb.WriteRune(complementBase(b))
	}
	return sb.String()
}

// CountRiskAlleles counts occurrences of the modifier's risk allele in the
// genotype. When the modifier is declared on the minus strand the genotype
// is complemented first so the comparison happens in the modifier's frame.
// Matching is case-insensitive.
func CountRiskAlleles(genotype string, m pathway.GeneticModifier) int {
	if genotype == "" || m.RiskAllele == "" {
		return 0
	}
	if m.Orientation == pathway.OrientationMinus {
		genotype = complement(genotype)
	}
	risk := strings.ToUpper(m.RiskAllele)
	count := 0
	for _, b := range strings.ToUpper(genotype) {
		if string(b) == risk {
			count++
		}
	}
	return count
}

// ModifierMultiplier resolves one genetic modifier against the profile.
// Two risk alleles select the homozygous effect, one the heterozygous
// effect; zero copies or a missing SNP contribute 1.0.
func ModifierMultiplier(gp GeneticProfile, m pathway.GeneticModifier) float64 {
	genotype := gp.Genotype(m.RsID)
	if genotype == "" {
		return 1.0
	}
	switch CountRiskAlleles(genotype, m) {
	case 2:
		return m.HomozygousEffect
	case 1:
		return m.HeterozygousEffect
	}
	return 1.0
}

// EnzymeGeneticMultiplier composes the multipliers of every modifier on one
// enzyme. Composition is multiplicative.
func EnzymeGeneticMultiplier(gp GeneticProfile, e pathway.Enzyme) float64 {
	factor := 1.0
	for _, m := range e.GeneticModifiers {
		factor *= ModifierMultiplier(gp, m)
	}
	return factor
}

// ApplyGenetics returns a pathway with every enzyme's Vmax scaled by its
// composed genetic multiplier. An empty profile is the identity.
func ApplyGenetics(p pathway.Pathway, gp GeneticProfile) pathway.Pathway {
	if len(gp) == 0 {
		return p
	}
	out := p
	for _, e := range p.Enzymes {
		factor := EnzymeGeneticMultiplier(gp, e)
		if factor == 1.0 {
			continue
		}
		vmax := e.Vmax * factor
		out = out.UpdateEnzyme(e.ID, func(en pathway.Enzyme) pathway.Enzyme {
			return en.WithVmax(vmax)
		})
	}
	return out
}
