package pathway

import "fmt"

// DuplicateIDError reports two entities declared with the same id.
type DuplicateIDError struct {
	Kind string // "metabolite", "reaction", "enzyme"
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID)
}

// UnknownReferenceError reports a reaction referencing an undeclared
// metabolite.
type UnknownReferenceError struct {
	ReactionID   string
	MetaboliteID string
	Role         string // "substrate", "product", "inhibitor", "activator"
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("reaction %q references unknown %s metabolite %q", e.ReactionID, e.Role, e.MetaboliteID)
}

// MissingEnzymeError reports a reaction referencing an enzyme that is not in
// the enzyme table.
type MissingEnzymeError struct {
	ReactionID string
	EnzymeID   string
}

func (e *MissingEnzymeError) Error() string {
	return fmt.Sprintf("reaction %q references unknown enzyme %q", e.ReactionID, e.EnzymeID)
}

// InvalidKineticsError reports an unrecognized kinetics kind.
type InvalidKineticsError struct {
	ReactionID string
	Kind       string
}

func (e *InvalidKineticsError) Error() string {
	return fmt.Sprintf("reaction %q has invalid kinetics kind %q", e.ReactionID, e.Kind)
}
