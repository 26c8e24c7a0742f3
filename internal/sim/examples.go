package sim

import (
	"embed"
	"fmt"

	"github.com/metaflux/metaflux/internal/pathway"
)

//go:embed examples/enzymes.json examples/pathways.json
var exampleFS embed.FS

// ExampleEnzymes returns the built-in enzyme table.
func ExampleEnzymes() ([]pathway.Enzyme, error) {
	data, err := exampleFS.ReadFile("examples/enzymes.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded enzymes: %w", err)
	}
	return pathway.DecodeEnzymes(data)
}

// ExamplePathways returns the built-in pathway set (methylation, Krebs),
// validated against the built-in enzyme table.
func ExamplePathways() ([]pathway.Pathway, error) {
	enzymes, err := ExampleEnzymes()
	if err != nil {
		return nil, err
	}
	data, err := exampleFS.ReadFile("examples/pathways.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded pathways: %w", err)
	}
	return pathway.DecodePathways(data, enzymes)
}

// ExamplePathway returns one built-in pathway by id.
func ExamplePathway(id string) (pathway.Pathway, error) {
	pathways, err := ExamplePathways()
	if err != nil {
		return pathway.Pathway{}, err
	}
	for _, p := range pathways {
		if p.ID == id {
			return p, nil
		}
	}
	return pathway.Pathway{}, fmt.Errorf("unknown example pathway %q", id)
}
