package pathway

import (
	"github.com/metaflux/metaflux/internal/kinetics"
)

// Build validates and assembles a pathway from its parts. It checks id
// uniqueness across metabolites, reactions, and enzymes, reference closure
// for every substrate, product, inhibitor, and activator, enzyme resolution
// for every reaction, and kinetics kind validity. The first violation is
// returned as a structured error naming the offending element.
func Build(id, name string, metabolites []Metabolite, reactions []Reaction, enzymes []Enzyme) (Pathway, error) {
	metaboliteIDs := make(map[string]bool, len(metabolites))
	for _, m := range metabolites {
		if metaboliteIDs[m.ID] {
			return Pathway{}, &DuplicateIDError{Kind: "metabolite", ID: m.ID}
		}
		metaboliteIDs[m.ID] = true
	}

	enzymeIDs := make(map[string]bool, len(enzymes))
	for _, e := range enzymes {
		if enzymeIDs[e.ID] {
			return Pathway{}, &DuplicateIDError{Kind: "enzyme", ID: e.ID}
		}
		enzymeIDs[e.ID] = true
	}

	reactionIDs := make(map[string]bool, len(reactions))
	for _, r := range reactions {
		if reactionIDs[r.ID] {
			return Pathway{}, &DuplicateIDError{Kind: "reaction", ID: r.ID}
		}
		reactionIDs[r.ID] = true

		if !enzymeIDs[r.EnzymeID] {
			return Pathway{}, &MissingEnzymeError{ReactionID: r.ID, EnzymeID: r.EnzymeID}
		}
		if !kinetics.ValidKind(string(r.Kinetics)) {
			return Pathway{}, &InvalidKineticsError{ReactionID: r.ID, Kind: string(r.Kinetics)}
		}

		for _, s := range r.Substrates {
			if !metaboliteIDs[s.MetaboliteID] {
				return Pathway{}, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: s.MetaboliteID, Role: "substrate"}
			}
		}
		for _, p := range r.Products {
			if !metaboliteIDs[p.MetaboliteID] {
				return Pathway{}, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: p.MetaboliteID, Role: "product"}
			}
		}
		for _, inh := range r.Inhibitors {
			if !metaboliteIDs[inh] {
				return Pathway{}, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: inh, Role: "inhibitor"}
			}
		}
		for _, act := range r.Activators {
			if !metaboliteIDs[act] {
				return Pathway{}, &UnknownReferenceError{ReactionID: r.ID, MetaboliteID: act, Role: "activator"}
			}
		}
	}

	return Pathway{
		ID:          id,
		Name:        name,
		Metabolites: metabolites,
		Reactions:   reactions,
		Enzymes:     enzymes,
	}, nil
}

// Merge unions multiple pathways into a whole-body pathway. Metabolites and
// enzymes are merged by id with the first definition winning on conflict;
// reactions are concatenated in argument order. Reaction ids must remain
// unique across the inputs.
func Merge(id, name string, pathways ...Pathway) (Pathway, error) {
	var metabolites []Metabolite
	var reactions []Reaction
	var enzymes []Enzyme

	seenMetabolite := make(map[string]bool)
	seenEnzyme := make(map[string]bool)

	for _, p := range pathways {
		for _, m := range p.Metabolites {
			if seenMetabolite[m.ID] {
				continue
			}
			seenMetabolite[m.ID] = true
			metabolites = append(metabolites, m)
		}
		for _, e := range p.Enzymes {
			if seenEnzyme[e.ID] {
				continue
			}
			seenEnzyme[e.ID] = true
			enzymes = append(enzymes, e)
		}
		reactions = append(reactions, p.Reactions...)
	}

	return Build(id, name, metabolites, reactions, enzymes)
}
