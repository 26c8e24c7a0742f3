package pathway

import (
	"github.com/metaflux/metaflux/internal/kinetics"
)

// Stoich is a resolved stoichiometric participant: a metabolite index into
// the state vector and its coefficient.
type Stoich struct {
	Index       int
	Coefficient float64
}

// CompiledReaction is a reaction with all id references resolved to state
// vector indices. Kinetic parameters are flattened from the enzyme so the
// derivative loop touches no maps.
type CompiledReaction struct {
	ID          string
	EnzymeID    string
	EnzymeIndex int
	Kind        kinetics.Kind
	Vmax        float64
	Km          float64
	Ki          float64
	Ka          float64
	Hill        float64
	Substrates  []Stoich
	Products    []Stoich
	Inhibitors  []int
	Activators  []int
}

// Compiled is the hot-path form of a pathway: metabolite ids resolved to
// dense indices, reactions in declaration order. It is immutable; the
// per-run enzyme activity vector lives with the caller.
type Compiled struct {
	Pathway     Pathway
	Index       map[string]int // metabolite id -> state vector index
	EnzymeIndex map[string]int // enzyme id -> activity vector index
	Reactions   []CompiledReaction
}

// Compile resolves a built pathway's id references into integer indices.
// The pathway must have passed Build; unknown references here indicate a
// programming error and are reported with the same structured errors.
func Compile(p Pathway) (*Compiled, error) {
	idx := make(map[string]int, len(p.Metabolites))
	for i, m := range p.Metabolites {
		idx[m.ID] = i
	}
	eidx := make(map[string]int, len(p.Enzymes))
	for i, e := range p.Enzymes {
		eidx[e.ID] = i
	}

	compiled := make([]CompiledReaction, 0, len(p.Reactions))
	for _, r := range p.Reactions {
		enzyme, ok := p.Enzyme(r.EnzymeID)
		if !ok {
			return nil, &MissingEnzymeError{ReactionID: r.ID, EnzymeID: r.EnzymeID}
		}

		cr := CompiledReaction{
			ID:          r.ID,
			EnzymeID:    r.EnzymeID,
			EnzymeIndex: eidx[r.EnzymeID],
			Kind:        r.Kinetics,
			Vmax:        enzyme.Vmax,
			Km:          enzyme.Km,
			Ki:          r.Ki,
			Ka:          r.Ka,
			Hill:        r.HillCoefficient,
		}

		for _, s := range r.Substrates {
			i, ok := idx[s.MetaboliteID]
			if !ok {
				return nil, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: s.MetaboliteID, Role: "substrate"}
			}
			cr.Substrates = append(cr.Substrates, Stoich{Index: i, Coefficient: float64(s.Coefficient)})
		}
		for _, pp := range r.Products {
			i, ok := idx[pp.MetaboliteID]
			if !ok {
				return nil, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: pp.MetaboliteID, Role: "product"}
			}
			cr.Products = append(cr.Products, Stoich{Index: i, Coefficient: float64(pp.Coefficient)})
		}
		for _, inh := range r.Inhibitors {
			i, ok := idx[inh]
			if !ok {
				return nil, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: inh, Role: "inhibitor"}
			}
			cr.Inhibitors = append(cr.Inhibitors, i)
		}
		for _, act := range r.Activators {
			i, ok := idx[act]
			if !ok {
				return nil, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: act, Role: "activator"}
			}
			cr.Activators = append(cr.Activators, i)
		}

		compiled = append(compiled, cr)
	}

	return &Compiled{
		Pathway:     p,
		Index:       idx,
		EnzymeIndex: eidx,
		Reactions:   compiled,
	}, nil
}

// InitialState returns the state vector of initial concentrations in
// metabolite declaration order. Negative initial concentrations are
// clamped to zero.
func (c *Compiled) InitialState() []float64 {
	y := make([]float64, len(c.Pathway.Metabolites))
	for i, m := range c.Pathway.Metabolites {
		if m.InitialConcentration > 0 {
			y[i] = m.InitialConcentration
		}
	}
	return y
}

// UnitActivity returns an enzyme activity vector of all ones.
func (c *Compiled) UnitActivity() []float64 {
	a := make([]float64, len(c.Pathway.Enzymes))
	for i := range a {
		a[i] = 1
	}
	return a
}

// Rate evaluates one compiled reaction against the current state. The
// limiting substrate is the first declared one; extra substrates only
// contribute stoichiometric consumption, a deliberate simplification of
// multi-substrate kinetics. Multiple inhibitor concentrations are summed
// before the inhibition term is applied. activity scales the enzyme's Vmax.
func (c *Compiled) Rate(r *CompiledReaction, y []float64, activity float64) float64 {
	vmax := r.Vmax * activity
	if vmax <= 0 {
		return 0
	}

	var s float64
	hasSubstrate := len(r.Substrates) > 0
	if hasSubstrate {
		s = y[r.Substrates[0].Index]
	}

	var inhibitor float64
	for _, i := range r.Inhibitors {
		if y[i] > 0 {
			inhibitor += y[i]
		}
	}

	var v float64
	switch r.Kind {
	case kinetics.KindMichaelisMenten:
		v = kinetics.MichaelisMenten(vmax, r.Km, s)
	case kinetics.KindCompetitiveInhibition:
		v = kinetics.CompetitiveInhibition(vmax, r.Km, s, inhibitor, r.Ki)
	case kinetics.KindNonCompetitiveInhibition:
		v = kinetics.NonCompetitiveInhibition(vmax, r.Km, s, inhibitor, r.Ki)
	case kinetics.KindAllosteric:
		v = kinetics.Allosteric(vmax, r.Km, s, r.Hill)
	case kinetics.KindMassAction:
		v = kinetics.MassAction(vmax, s, hasSubstrate)
	default:
		return 0
	}

	for _, a := range r.Activators {
		v = kinetics.ActivationMultiplier(v, y[a], r.Ka)
	}
	return v
}

// Derivatives sums every reaction's rate into a derivative vector in
// declaration order: substrates are consumed, products produced, each
// scaled by its stoichiometric coefficient. dydt is overwritten and
// returned; pass nil to allocate. fluxes, when non-nil, receives each
// reaction's rate by slice position.
func (c *Compiled) Derivatives(y []float64, activity []float64, dydt []float64, fluxes []float64) []float64 {
	if dydt == nil {
		dydt = make([]float64, len(y))
	} else {
		for i := range dydt {
			dydt[i] = 0
		}
	}

	for ri := range c.Reactions {
		r := &c.Reactions[ri]
		v := c.Rate(r, y, activity[r.EnzymeIndex])
		if fluxes != nil {
			fluxes[ri] = v
		}
		if v == 0 {
			continue
		}
		for _, s := range r.Substrates {
			dydt[s.Index] -= v * s.Coefficient
		}
		for _, p := range r.Products {
			dydt[p.Index] += v * p.Coefficient
		}
	}
	return dydt
}
