package pathway

import (
	"encoding/json"
	"fmt"
	"os"
)

// pathwayDoc is the on-disk shape of one pathway definition. Key matching is
// case-insensitive per encoding/json, which covers the configuration
// format's case-insensitivity contract.
type pathwayDoc struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Metabolites []Metabolite `json:"metabolites"`
	Reactions   []Reaction   `json:"reactions"`
}

// DecodeEnzymes parses the enzymes document: a JSON array of enzyme objects.
func DecodeEnzymes(data []byte) ([]Enzyme, error) {
	var enzymes []Enzyme
	if err := json.Unmarshal(data, &enzymes); err != nil {
		return nil, fmt.Errorf("parsing enzymes: %w", err)
	}
	return enzymes, nil
}

// DecodePathways parses the pathways document (a JSON array of pathway
// definitions) and builds each one against the given enzyme table. Any
// validation failure, including an unknown enzymeId, is fatal.
func DecodePathways(data []byte, enzymes []Enzyme) ([]Pathway, error) {
	var docs []pathwayDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing pathways: %w", err)
	}

	pathways := make([]Pathway, 0, len(docs))
	for _, doc := range docs {
		p, err := Build(doc.ID, doc.Name, doc.Metabolites, doc.Reactions, referencedEnzymes(doc.Reactions, enzymes))
		if err != nil {
			return nil, fmt.Errorf("pathway %q: %w", doc.ID, err)
		}
		p.Description = doc.Description
		pathways = append(pathways, p)
	}
	return pathways, nil
}

// referencedEnzymes selects, in table order, the enzymes any of the given
// reactions reference. Unknown ids are left for Build to report.
func referencedEnzymes(reactions []Reaction, enzymes []Enzyme) []Enzyme {
	wanted := make(map[string]bool, len(reactions))
	for _, r := range reactions {
		wanted[r.EnzymeID] = true
	}
	var out []Enzyme
	for _, e := range enzymes {
		if wanted[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// LoadFiles reads the enzymes and pathways documents from disk and returns
// the built pathways.
func LoadFiles(enzymesPath, pathwaysPath string) ([]Pathway, error) {
	enzymeData, err := os.ReadFile(enzymesPath)
	if err != nil {
		return nil, fmt.Errorf("reading enzymes file: %w", err)
	}
	enzymes, err := DecodeEnzymes(enzymeData)
	if err != nil {
		return nil, err
	}

	pathwayData, err := os.ReadFile(pathwaysPath)
	if err != nil {
		return nil, fmt.Errorf("reading pathways file: %w", err)
	}
	return DecodePathways(pathwayData, enzymes)
}

// EncodePathway serializes a pathway back to its document form. Together
// with DecodePathways this round-trips semantically: arrays keyed by id are
// order-preserving here, so equality is by id set and field values.
func EncodePathway(p Pathway) ([]byte, error) {
	doc := pathwayDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Metabolites: p.Metabolites,
		Reactions:   p.Reactions,
	}
	return json.MarshalIndent(doc, "", "  ")
}
