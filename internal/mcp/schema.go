package mcp

// RunSimulationInput defines the input for the run_simulation tool.
type RunSimulationInput struct {
	Duration       float64  `json:"duration,omitempty" jsonschema:"Simulated seconds to integrate (default from server config)"`
	OutputInterval float64  `json:"output_interval,omitempty" jsonschema:"Sim-seconds between snapshots"`
	GeneticProfile string   `json:"genetic_profile,omitempty" jsonschema:"Path to a raw tab-separated genotype export"`
	Metabolites    []string `json:"metabolites,omitempty" jsonschema:"Metabolite ids to include in the reply (default: all)"`
	CaptureFluxes  bool     `json:"capture_fluxes,omitempty" jsonschema:"Include per-reaction rates in the final snapshot"`
}

// RunSimulationOutput defines the output for the run_simulation tool.
type RunSimulationOutput struct {
	DurationS float64            `json:"duration_s" jsonschema:"Simulated seconds actually integrated"`
	Snapshots int                `json:"snapshots" jsonschema:"Number of trajectory samples"`
	Final     map[string]float64 `json:"final" jsonschema:"Final concentrations (mM) by metabolite id"`
	Fluxes    map[string]float64 `json:"fluxes,omitempty" jsonschema:"Final per-reaction rates (mM/s)"`
	Anomalies int                `json:"anomalies" jsonschema:"Count of neutralized non-finite derivative components"`
}

// ListPathwaysInput defines the input for the list_pathways tool.
type ListPathwaysInput struct{}

// ListPathwaysOutput defines the output for the list_pathways tool.
type ListPathwaysOutput struct {
	Pathways []PathwaySummary `json:"pathways" jsonschema:"Available pathways"`
	Count    int              `json:"count" jsonschema:"Number of pathways"`
}

// PathwaySummary provides a compact view of one pathway.
type PathwaySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Metabolites int    `json:"metabolites"`
	Reactions   int    `json:"reactions"`
	Enzymes     int    `json:"enzymes"`
}

// GetSnapshotInput defines the input for the get_snapshot tool.
type GetSnapshotInput struct {
	StorePath   string   `json:"store_path,omitempty" jsonschema:"SQLite trajectory database (default from server config)"`
	RunID       int64    `json:"run_id,omitempty" jsonschema:"Run to read (default: most recent)"`
	TimeS       float64  `json:"time_s,omitempty" jsonschema:"Return the latest sample at or before this sim time; omit for the final sample"`
	Metabolites []string `json:"metabolites,omitempty" jsonschema:"Metabolite ids to include in the reply (default: all)"`
}

// GetSnapshotOutput defines the output for the get_snapshot tool.
type GetSnapshotOutput struct {
	RunID          int64              `json:"run_id" jsonschema:"Run the snapshot came from"`
	TimeS          float64            `json:"time_s" jsonschema:"Sim time of the returned sample"`
	Concentrations map[string]float64 `json:"concentrations" jsonschema:"Concentrations (mM) by metabolite id"`
	Fluxes         map[string]float64 `json:"fluxes,omitempty" jsonschema:"Per-reaction rates (mM/s) when the run captured them"`
}

// ExplainGeneticsInput defines the input for the explain_genetics tool.
type ExplainGeneticsInput struct {
	GeneticProfile string `json:"genetic_profile" jsonschema:"Path to a raw tab-separated genotype export"`
}

// ExplainGeneticsOutput defines the output for the explain_genetics tool.
type ExplainGeneticsOutput struct {
	Effects []GeneticEffect `json:"effects" jsonschema:"Per-enzyme activity multipliers from the profile"`
	Count   int             `json:"count" jsonschema:"Number of affected enzymes"`
}

// GeneticEffect describes how the profile scales one enzyme.
type GeneticEffect struct {
	EnzymeID   string       `json:"enzyme_id"`
	EnzymeName string       `json:"enzyme_name"`
	Multiplier float64      `json:"multiplier" jsonschema:"Composed Vmax multiplier (1.0 = no effect)"`
	Variants   []VariantHit `json:"variants,omitempty" jsonschema:"Contributing SNP hits"`
}

// VariantHit is one SNP's contribution to an enzyme multiplier.
type VariantHit struct {
	RsID       string  `json:"rs_id"`
	Gene       string  `json:"gene"`
	Genotype   string  `json:"genotype"`
	RiskCopies int     `json:"risk_copies"`
	Multiplier float64 `json:"multiplier"`
}
